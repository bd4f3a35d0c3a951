package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/shapedit/backend-go/internal/config"
	"github.com/inamate/shapedit/backend-go/internal/engine"
	mw "github.com/inamate/shapedit/backend-go/internal/middleware"
	"github.com/inamate/shapedit/backend-go/internal/session"
	"github.com/inamate/shapedit/backend-go/internal/viewport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	registry := session.NewRegistry()
	sessionHandler := session.NewHandler(registry, session.HandlerConfig{
		Session: session.Options{
			Engine: engine.Options{
				Limits: viewport.Limits{
					MinScale: cfg.MinScale,
					MaxScale: cfg.MaxScale,
					Step:     cfg.ZoomStep,
				},
				VertexHitRadius: cfg.VertexHitRadius,
				Settings: engine.Settings{
					StrokeColor: cfg.StrokeColor,
					FillColor:   cfg.FillColor,
					LineWidth:   cfg.LineWidth,
				},
			},
			FrameRate:  cfg.FrameRate,
			SeedSample: cfg.SeedSample,
		},
		OriginPatterns: cfg.OriginPatterns(),
		SnapshotWidth:  cfg.SnapshotWidth,
		SnapshotHeight: cfg.SnapshotHeight,
	})

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Editor sessions: websocket plus snapshot/export of the live frame
	sessionHandler.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server", "sessions", registry.Len())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
