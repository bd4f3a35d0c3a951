package engine

import (
	"context"
	"errors"
	"time"
)

// ErrLoopStopped is returned when work is submitted to a loop that is no
// longer running.
var ErrLoopStopped = errors.New("loop stopped")

// DefaultFrameRate is the redraw rate used when none is configured.
const DefaultFrameRate = 60

// Loop runs submitted tasks and periodic redraw ticks on one goroutine, in
// arrival order. Everything an engine touches should go through it.
type Loop struct {
	interval time.Duration
	tick     func()
	tasks    chan func()
	done     chan struct{}
}

// NewLoop creates a loop that calls tick frameRate times per second.
func NewLoop(frameRate int, tick func()) *Loop {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return &Loop{
		interval: time.Second / time.Duration(frameRate),
		tick:     tick,
		tasks:    make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

// Run processes tasks and ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		case <-ticker.C:
			l.tick()
		}
	}
}

// Post queues fn without waiting for it to run.
func (l *Loop) Post(ctx context.Context, fn func()) error {
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call runs fn on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(ctx, func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
