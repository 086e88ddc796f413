package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := cfg.Snow
	if s.Count != 200 {
		t.Errorf("expected 200 particles, got %d", s.Count)
	}
	if s.AlphaMin != 150 || s.AlphaMax != 250 {
		t.Errorf("unexpected alpha range %d-%d", s.AlphaMin, s.AlphaMax)
	}
	if s.SizeMin != 2 || s.SizeMax != 8 || s.SpeedMin != 2 || s.SpeedMax != 8 {
		t.Errorf("unexpected size/speed ranges %+v", s)
	}
	if s.FadingEnabled || s.AlreadyFalling {
		t.Error("fading and already-falling should default to off")
	}
	if cfg.Window.TPS != 60 {
		t.Errorf("expected 60 tps, got %d", cfg.Window.TPS)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snow.yaml")
	data := []byte("snow:\n  count: 12\n  fading_enabled: true\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Snow.Count != 12 || !cfg.Snow.FadingEnabled {
		t.Errorf("file values not applied: %+v", cfg.Snow)
	}
	// Untouched keys keep their defaults.
	if cfg.Snow.SpeedMax != 8 || cfg.Window.Width != 1024 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("snow: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    SnowConfig
		check func(t *testing.T, s SnowConfig)
	}{
		{
			name: "reversed ranges swap",
			in:   SnowConfig{AlphaMin: 200, AlphaMax: 100, SizeMin: 9, SizeMax: 3, SpeedMin: 7, SpeedMax: 2, FadeWindow: 1},
			check: func(t *testing.T, s SnowConfig) {
				if s.AlphaMin != 100 || s.AlphaMax != 200 {
					t.Errorf("alpha %d-%d", s.AlphaMin, s.AlphaMax)
				}
				if s.SizeMin != 3 || s.SizeMax != 9 {
					t.Errorf("size %d-%d", s.SizeMin, s.SizeMax)
				}
				if s.SpeedMin != 2 || s.SpeedMax != 7 {
					t.Errorf("speed %d-%d", s.SpeedMin, s.SpeedMax)
				}
			},
		},
		{
			name: "out of range values clamp",
			in:   SnowConfig{Count: -4, AlphaMin: -1, AlphaMax: 999, AngleMax: 400, SizeMin: 0, SizeMax: -2, SpeedMin: 0, SpeedMax: 0, FadeWindow: 0},
			check: func(t *testing.T, s SnowConfig) {
				if s.Count != 0 {
					t.Errorf("count %d", s.Count)
				}
				if s.AlphaMin != 0 || s.AlphaMax != 255 {
					t.Errorf("alpha %d-%d", s.AlphaMin, s.AlphaMax)
				}
				if s.AngleMax != 60 {
					t.Errorf("angle %d", s.AngleMax)
				}
				if s.SizeMin != 1 || s.SizeMax != 1 || s.SpeedMin != 1 || s.SpeedMax != 1 {
					t.Errorf("size %d-%d speed %d-%d", s.SizeMin, s.SizeMax, s.SpeedMin, s.SpeedMax)
				}
				if s.FadeWindow != 1 {
					t.Errorf("fade window %f", s.FadeWindow)
				}
			},
		},
		{
			name: "valid values untouched",
			in:   SnowConfig{Count: 5, AlphaMin: 10, AlphaMax: 20, AngleMax: 15, SizeMin: 4, SizeMax: 4, SpeedMin: 3, SpeedMax: 3, FadeWindow: 0.25},
			check: func(t *testing.T, s SnowConfig) {
				want := SnowConfig{Count: 5, AlphaMin: 10, AlphaMax: 20, AngleMax: 15, SizeMin: 4, SizeMax: 4, SpeedMin: 3, SpeedMax: 3, FadeWindow: 0.25}
				if s != want {
					t.Errorf("got %+v", s)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Snow: tc.in}
			cfg.Normalize(quietLogger)
			tc.check(t, cfg.Snow)
		})
	}
}

func TestSnowParams(t *testing.T) {
	s := SnowConfig{AlphaMin: 1, AlphaMax: 2, AngleMax: 3, SizeMin: 4, SizeMax: 5, SpeedMin: 6, SpeedMax: 7, FadingEnabled: true, FadeWindow: 0.5, AlreadyFalling: true}
	p := s.Params()
	if p.AlphaMin != 1 || p.AlphaMax != 2 || p.AngleMax != 3 || p.SizeMin != 4 || p.SizeMax != 5 ||
		p.SpeedMin != 6 || p.SpeedMax != 7 || !p.FadingEnabled || p.FadeWindow != 0.5 || !p.AlreadyFalling {
		t.Errorf("unexpected params %+v", p)
	}
	if p.ParentWidth != 0 || p.Image != nil {
		t.Error("viewport and image are filled in later")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Snow.Count = 77

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *back != *cfg {
		t.Errorf("round trip changed config:\n got %+v\nwant %+v", back, cfg)
	}
}
