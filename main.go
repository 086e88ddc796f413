package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/snowfall/internal/config"
	"github.com/iburimskiy/snowfall/internal/game"
	"github.com/iburimskiy/snowfall/internal/snow"
	"github.com/iburimskiy/snowfall/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logText := flag.Bool("log-text", false, "Log as text instead of JSON")
	headless := flag.Bool("headless", false, "Run without a window and write a snapshot")
	ticks := flag.Int("ticks", 300, "Headless: update ticks before the snapshot")
	snapshot := flag.String("snapshot", "snow.png", "Headless: PNG output path")
	statsOut := flag.String("stats-out", "", "Directory for ticks.csv (overrides config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	flag.Parse()

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, nil)
	if *logText {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Snow.Seed = *seed
	}
	if *statsOut != "" {
		cfg.Telemetry.Output = *statsOut
	}

	out, err := telemetry.NewOutputManager(cfg.Telemetry.Output)
	if err != nil {
		slog.Error("failed to open telemetry output", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	collector := telemetry.NewTickCollector(cfg.Telemetry.Window, func(ws telemetry.WindowStats) {
		slog.Info("ticks", "window", ws)
		if err := out.WriteWindow(ws); err != nil {
			slog.Error("failed to write ticks", "error", err)
		}
	})

	if *headless {
		if err := runHeadless(cfg, collector, *ticks, *snapshot); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)

	g := game.New(cfg, logger, collector)
	defer g.Close()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		slog.Error("game exited", "error", err)
		os.Exit(1)
	}
}

// runHeadless drives the overlay with synchronous tick requests and writes
// the final frame to a PNG.
func runHeadless(cfg *config.Config, collector *telemetry.TickCollector, ticks int, path string) error {
	params := cfg.Snow.Params()
	if cfg.Snow.Image != "" {
		img, err := game.LoadSprite(cfg.Snow.Image)
		if err != nil {
			slog.Warn("sprite_load_failed", "path", cfg.Snow.Image, "error", err)
		} else {
			params.Image = img
		}
	}

	done := make(chan snow.TickInfo, 1)
	o := snow.NewOverlay(snow.Options{
		Count:  cfg.Snow.Count,
		Params: params,
		Seed:   cfg.Snow.Seed,
		OnTick: func(info snow.TickInfo) {
			collector.Record(info)
			done <- info
		},
	})
	defer o.Teardown()

	w, h := cfg.Window.Width, cfg.Window.Height
	o.OnViewportResized(w, h)

	surface := snow.NewRGBASurface(w, h)
	start := time.Now()
	ran := 0
	for ran < ticks {
		if !o.RequestUpdateTick() {
			break
		}
		var info snow.TickInfo
		select {
		case info = <-done:
		case <-time.After(5 * time.Second):
			return errors.New("update tick timed out")
		}
		ran++
		if info.Active == 0 {
			slog.Info("snow_dormant", "tick", info.Seq)
			break
		}
	}
	collector.Flush()

	surface.Clear(color.RGBA{R: 8, G: 12, B: 28, A: 255})
	active := o.DrawPass(surface)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, surface.Img); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	slog.Info("snapshot_written",
		"path", path,
		"ticks", ran,
		"active", active,
		"elapsed", time.Since(start).String(),
	)
	return nil
}
