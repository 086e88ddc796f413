// Package game hosts the snow overlay in an ebiten window.
package game

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/snowfall/internal/config"
	"github.com/iburimskiy/snowfall/internal/snow"
	"github.com/iburimskiy/snowfall/internal/telemetry"
)

const (
	levelRingSize   = 8192
	levelWindow     = 2048
	smoothingFactor = 0.6

	skyBands = 32
)

// Game is the ebiten host. It owns the overlay and forwards window
// lifecycle events to it.
type Game struct {
	cfg       *config.Config
	logger    *slog.Logger
	collector *telemetry.TickCollector

	overlay *snow.Overlay
	surface screenSurface
	sprite  image.Image
	music   soundtrack
	picks   chan pickResult
	picking bool

	width, height int
	hidden        bool
	active        bool
	workerLost    bool

	started time.Time
	lastErr error
}

// New builds the game. collector may be nil.
func New(cfg *config.Config, logger *slog.Logger, collector *telemetry.TickCollector) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Game{
		cfg:       cfg,
		logger:    logger,
		collector: collector,
		picks:     make(chan pickResult, 1),
		active:    true,
		started:   time.Now(),
	}

	if cfg.Snow.Image != "" {
		g.setSprite(cfg.Snow.Image)
	}
	g.overlay = g.newOverlay()

	if cfg.Audio.Track != "" {
		if err := g.music.load(cfg.Audio.Track); err != nil {
			g.logger.Warn("soundtrack_load_failed", "path", cfg.Audio.Track, "error", err)
			g.lastErr = err
		}
	}
	return g
}

func (g *Game) newOverlay() *snow.Overlay {
	params := g.cfg.Snow.Params()
	params.Image = g.sprite

	opts := snow.Options{
		Count:  g.cfg.Snow.Count,
		Params: params,
		Seed:   g.cfg.Snow.Seed,
		Logger: g.logger,
	}
	if g.collector != nil {
		opts.OnTick = g.collector.Record
	}
	return snow.NewOverlay(opts)
}

// setSprite loads path as the flake sprite. On failure the current sprite
// is kept and flakes fall back to circles if there is none.
func (g *Game) setSprite(path string) bool {
	img, err := LoadSprite(path)
	if err != nil {
		g.logger.Warn("sprite_load_failed", "path", path, "error", err)
		g.lastErr = err
		return false
	}
	g.sprite = img
	g.logger.Info("sprite_loaded", "path", path, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return true
}

// replaceOverlay swaps in a fresh overlay built from the current settings,
// keeping the viewport and recycling state.
func (g *Game) replaceOverlay(recycling bool) {
	g.overlay.Teardown()
	g.overlay = g.newOverlay()
	g.overlay.SetRecycling(recycling)
	if g.width > 0 && g.height > 0 {
		g.overlay.OnViewportResized(g.width, g.height)
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.overlay.SetRecycling(false)
		g.logger.Info("snow_stop_falling")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.overlay.SetRecycling(true)
		g.show()
		g.logger.Info("snow_restart_falling")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		if g.hidden {
			g.show()
		} else {
			g.hide()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.music.togglePause()
	}
	if !g.picking {
		if inpututil.IsKeyJustPressed(ebiten.KeyO) {
			g.picking = true
			pickFile(pickSprite, g.picks)
		} else if inpututil.IsKeyJustPressed(ebiten.KeyM) {
			g.picking = true
			pickFile(pickTrack, g.picks)
		}
	}
	g.handlePicks()

	level := 0.0
	if g.music.playing() {
		level = g.music.level()
	}
	g.overlay.SetTimeScale(timeScale(level, g.cfg.Audio.Gain))

	switch nextTick(g.hidden, g.active, g.overlay.Field() != nil) {
	case tickHide:
		g.hide()
	case tickRequest:
		accepted := g.overlay.RequestUpdateTick()
		if reportWorkerLost(accepted, g.overlay.Scheduler().Failed(), g.workerLost) {
			g.workerLost = true
			g.logger.Error("snow_worker_lost", "ticks", g.overlay.Scheduler().Ticks())
		}
	}
	return nil
}

type tickAction int

const (
	tickSkip tickAction = iota
	tickHide
	tickRequest
)

// nextTick decides what Update does with the overlay. lastDrawActive is the
// result of the previous draw pass.
func nextTick(hidden, lastDrawActive, hasField bool) tickAction {
	switch {
	case hidden:
		return tickSkip
	case !lastDrawActive && hasField:
		return tickHide
	default:
		return tickRequest
	}
}

// reportWorkerLost reports whether a refused tick request is a newly failed worker.
func reportWorkerLost(accepted, failed, reported bool) bool {
	return !accepted && failed && !reported
}

// timeScale maps soundtrack loudness to field speed. Silence or no music is 1.
func timeScale(level, gain float64) float64 {
	return 1 + gain*clamp01(level)
}

func (g *Game) handlePicks() {
	select {
	case res := <-g.picks:
		g.picking = false
		if res.err != nil {
			g.logger.Warn("file_dialog_failed", "error", res.err)
			g.lastErr = res.err
			return
		}
		if res.path == "" {
			return
		}
		switch res.kind {
		case pickSprite:
			if g.setSprite(res.path) {
				g.replaceOverlay(true)
				g.show()
			}
		case pickTrack:
			if err := g.music.load(res.path); err != nil {
				g.logger.Warn("soundtrack_load_failed", "path", res.path, "error", err)
				g.lastErr = err
				return
			}
			g.logger.Info("soundtrack_loaded", "path", res.path)
		}
	default:
	}
}

// hide mirrors a host view going invisible: particles restart from the top
// next time the overlay is shown.
func (g *Game) hide() {
	if g.hidden {
		return
	}
	g.hidden = true
	g.overlay.OnVisibilityHidden()
	g.logger.Info("snow_hidden")
}

func (g *Game) show() {
	g.hidden = false
	g.active = true
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawSky(screen)

	if !g.hidden {
		g.surface.screen = screen
		g.active = g.overlay.DrawPass(&g.surface)
	}

	g.drawStatus(screen)
}

// drawSky paints a dark vertical gradient in bands.
func (g *Game) drawSky(screen *ebiten.Image) {
	if g.height <= 0 {
		return
	}
	band := float32(g.height) / skyBands
	for i := 0; i < skyBands; i++ {
		ratio := float64(i) / skyBands
		r, gr, b := hsvToRgb(225-ratio*20, 0.7, 0.08+0.14*ratio)
		vector.DrawFilledRect(screen, 0, float32(i)*band, float32(g.width), band+1,
			color.RGBA{R: r, G: gr, B: b, A: 255}, false)
	}
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	status := "S: stop  R: restart  H: hide  O: sprite  M: music  Esc: quit"
	if f := g.overlay.Field(); f != nil {
		status = fmt.Sprintf("%d/%d falling  ticks %d  %s | %s",
			f.ActiveCount(), f.Len(), g.overlay.Scheduler().Ticks(),
			formatUptime(time.Since(g.started)), status)
	}
	switch {
	case g.hidden:
		status += " | hidden"
	case g.workerLost:
		status += " | updates stopped"
	}
	if g.music.playing() {
		status += fmt.Sprintf(" | music %.2f", g.music.level())
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

// Layout tracks the window size; every change rebuilds the field.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.overlay.OnViewportResized(outsideWidth, outsideHeight)
		// A new field has not been drawn yet.
		g.active = true
	}
	return outsideWidth, outsideHeight
}

// Close tears the overlay down and releases audio.
func (g *Game) Close() {
	g.overlay.Teardown()
	g.music.close()
	if g.collector != nil {
		g.collector.Flush()
	}
}
