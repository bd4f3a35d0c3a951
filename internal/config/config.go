package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	FrameRate       int     `envconfig:"FRAME_RATE" default:"60"`
	MinScale        float64 `envconfig:"MIN_SCALE" default:"0.1"`
	MaxScale        float64 `envconfig:"MAX_SCALE" default:"5.0"`
	ZoomStep        float64 `envconfig:"ZOOM_STEP" default:"0.1"`
	VertexHitRadius float64 `envconfig:"VERTEX_HIT_RADIUS" default:"5"`

	StrokeColor string  `envconfig:"STROKE_COLOR" default:"#000000"`
	FillColor   string  `envconfig:"FILL_COLOR" default:""`
	LineWidth   float64 `envconfig:"LINE_WIDTH" default:"2"`

	SnapshotWidth  int  `envconfig:"SNAPSHOT_WIDTH" default:"800"`
	SnapshotHeight int  `envconfig:"SNAPSHOT_HEIGHT" default:"600"`
	SeedSample     bool `envconfig:"SEED_SAMPLE" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges that envconfig cannot express.
func (c *Config) Validate() error {
	if c.MinScale <= 0 || c.MaxScale < c.MinScale {
		return fmt.Errorf("invalid scale range [%v, %v]", c.MinScale, c.MaxScale)
	}
	if c.ZoomStep <= 0 || c.ZoomStep >= 1 {
		return fmt.Errorf("invalid zoom step %v", c.ZoomStep)
	}
	if c.FrameRate <= 0 || c.FrameRate > 240 {
		return fmt.Errorf("invalid frame rate %d", c.FrameRate)
	}
	if c.LineWidth < 0 {
		return fmt.Errorf("invalid line width %v", c.LineWidth)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Origins splits AllowedOrigins into full origins ("http://host:port").
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// OriginPatterns returns the allowed origins as host patterns, the form
// websocket.AcceptOptions expects.
func (c *Config) OriginPatterns() []string {
	origins := c.Origins()
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if i := strings.Index(o, "://"); i >= 0 {
			o = o[i+3:]
		}
		out = append(out, o)
	}
	return out
}
