// Package config loads the overlay configuration.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/snowfall/internal/snow"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every overlay setting.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Snow      SnowConfig      `yaml:"snow"`
	Audio     AudioConfig     `yaml:"audio"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	TPS    int    `yaml:"tps"` // update ticks per second
}

// SnowConfig holds the particle settings.
type SnowConfig struct {
	Count          int     `yaml:"count"`
	Image          string  `yaml:"image"` // sprite path, empty = circles
	AlphaMin       int     `yaml:"alpha_min"`
	AlphaMax       int     `yaml:"alpha_max"`
	AngleMax       int     `yaml:"angle_max"` // degrees
	SizeMin        int     `yaml:"size_min"`  // px
	SizeMax        int     `yaml:"size_max"`  // px
	SpeedMin       int     `yaml:"speed_min"` // px per tick
	SpeedMax       int     `yaml:"speed_max"` // px per tick
	FadingEnabled  bool    `yaml:"fading_enabled"`
	FadeWindow     float64 `yaml:"fade_window"` // fraction of height
	AlreadyFalling bool    `yaml:"already_falling"`
	Seed           int64   `yaml:"seed"` // 0 = time-based
}

// AudioConfig holds the optional soundtrack settings.
type AudioConfig struct {
	Track string  `yaml:"track"` // path, empty = silent
	Gain  float64 `yaml:"gain"`  // time-scale boost at full loudness
}

// TelemetryConfig holds tick statistics settings.
type TelemetryConfig struct {
	Window int    `yaml:"window"` // ticks per stats window
	Output string `yaml:"output"` // directory, empty = log only
}

// Load reads the embedded defaults and overlays the file at path, if any.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Normalize(slog.Default())
	return cfg, nil
}

// Normalize clamps out-of-range settings and swaps reversed ranges. Bad
// values never fail the load; each fix is logged.
func (c *Config) Normalize(logger *slog.Logger) {
	fix := func(field string, from, to any) {
		logger.Warn("config_adjusted", "field", field, "from", from, "to", to)
	}

	if c.Window.Width < 1 {
		fix("window.width", c.Window.Width, 1024)
		c.Window.Width = 1024
	}
	if c.Window.Height < 1 {
		fix("window.height", c.Window.Height, 512)
		c.Window.Height = 512
	}
	if c.Window.TPS < 1 {
		fix("window.tps", c.Window.TPS, 60)
		c.Window.TPS = 60
	}

	s := &c.Snow
	if s.Count < 0 {
		fix("snow.count", s.Count, 0)
		s.Count = 0
	}
	s.AlphaMin = clamp(s.AlphaMin, 0, 255, "snow.alpha_min", fix)
	s.AlphaMax = clamp(s.AlphaMax, 0, 255, "snow.alpha_max", fix)
	swap(&s.AlphaMin, &s.AlphaMax, "snow.alpha", fix)
	s.AngleMax = clamp(s.AngleMax, 0, snow.MaxAngle, "snow.angle_max", fix)
	s.SizeMin = clamp(s.SizeMin, 1, s.SizeMin, "snow.size_min", fix)
	s.SizeMax = clamp(s.SizeMax, 1, s.SizeMax, "snow.size_max", fix)
	swap(&s.SizeMin, &s.SizeMax, "snow.size", fix)
	s.SpeedMin = clamp(s.SpeedMin, 1, s.SpeedMin, "snow.speed_min", fix)
	s.SpeedMax = clamp(s.SpeedMax, 1, s.SpeedMax, "snow.speed_max", fix)
	swap(&s.SpeedMin, &s.SpeedMax, "snow.speed", fix)
	if s.FadeWindow <= 0 || s.FadeWindow > 1 {
		fix("snow.fade_window", s.FadeWindow, 1.0)
		s.FadeWindow = 1
	}

	if c.Audio.Gain < 0 {
		fix("audio.gain", c.Audio.Gain, 0.0)
		c.Audio.Gain = 0
	}
	if c.Telemetry.Window < 1 {
		fix("telemetry.window", c.Telemetry.Window, 300)
		c.Telemetry.Window = 300
	}
}

func clamp(v, lo, hi int, field string, fix func(string, any, any)) int {
	if hi < lo {
		hi = lo
	}
	switch {
	case v < lo:
		fix(field, v, lo)
		return lo
	case v > hi:
		fix(field, v, hi)
		return hi
	}
	return v
}

func swap(lo, hi *int, field string, fix func(string, any, any)) {
	if *lo > *hi {
		fix(field+"_range", [2]int{*lo, *hi}, [2]int{*hi, *lo})
		*lo, *hi = *hi, *lo
	}
}

// Params converts the snow settings into a particle template. The viewport
// size is filled in by the overlay on every resize.
func (s SnowConfig) Params() snow.Params {
	return snow.Params{
		AlphaMin:       s.AlphaMin,
		AlphaMax:       s.AlphaMax,
		AngleMax:       s.AngleMax,
		SizeMin:        s.SizeMin,
		SizeMax:        s.SizeMax,
		SpeedMin:       s.SpeedMin,
		SpeedMax:       s.SpeedMax,
		FadingEnabled:  s.FadingEnabled,
		AlreadyFalling: s.AlreadyFalling,
		FadeWindow:     s.FadeWindow,
	}
}

// WriteYAML saves the effective configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
