package config

import (
	"log/slog"
	"slices"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Port != 8080 || cfg.FrameRate != 60 || cfg.MaxScale != 5 || cfg.VertexHitRadius != 5 {
		t.Errorf("defaults = %+v", cfg)
	}
	if l, _ := cfg.Level(); l != slog.LevelInfo {
		t.Errorf("Level() = %v, want info", l)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MIN_SCALE", "0.5")
	t.Setenv("SEED_SAMPLE", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Port != 9090 || cfg.MinScale != 0.5 || !cfg.SeedSample {
		t.Errorf("cfg = %+v", cfg)
	}
	if l, _ := cfg.Level(); l != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", l)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"inverted scale", "MIN_SCALE", "9"},
		{"zero step", "ZOOM_STEP", "0"},
		{"frame rate", "FRAME_RATE", "0"},
		{"log level", "LOG_LEVEL", "loud"},
		{"not a number", "PORT", "eighty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s = nil error", tt.key, tt.value)
			}
		})
	}
}

func TestOriginPatterns(t *testing.T) {
	cfg := Config{AllowedOrigins: "http://localhost:5173, https://draw.example.com ,"}
	if got, want := cfg.Origins(), []string{"http://localhost:5173", "https://draw.example.com"}; !slices.Equal(got, want) {
		t.Errorf("Origins() = %v, want %v", got, want)
	}
	if got, want := cfg.OriginPatterns(), []string{"localhost:5173", "draw.example.com"}; !slices.Equal(got, want) {
		t.Errorf("OriginPatterns() = %v, want %v", got, want)
	}
}
