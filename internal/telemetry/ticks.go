// Package telemetry aggregates update tick timings into windowed stats.
package telemetry

import (
	"log/slog"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/iburimskiy/snowfall/internal/snow"
)

// WindowStats summarizes one window of update ticks.
type WindowStats struct {
	WindowEnd    uint64  `csv:"window_end"`
	Ticks        int     `csv:"ticks"`
	MeanTickUS   float64 `csv:"mean_tick_us"`
	StdDevTickUS float64 `csv:"stddev_tick_us"`
	MaxTickUS    float64 `csv:"max_tick_us"`
	MeanActive   float64 `csv:"mean_active"`
	MinActive    int     `csv:"min_active"`
	Particles    int     `csv:"particles"`
}

// LogValue implements slog.LogValuer.
func (w WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_end", w.WindowEnd),
		slog.Int("ticks", w.Ticks),
		slog.Float64("mean_tick_us", w.MeanTickUS),
		slog.Float64("stddev_tick_us", w.StdDevTickUS),
		slog.Float64("max_tick_us", w.MaxTickUS),
		slog.Float64("mean_active", w.MeanActive),
		slog.Int("min_active", w.MinActive),
		slog.Int("particles", w.Particles),
	)
}

// TickCollector gathers tick samples and emits a WindowStats every window
// ticks. Record is called from the update worker; Flush may be called from
// any goroutine.
type TickCollector struct {
	mu        sync.Mutex
	window    int
	durations []float64
	active    []float64
	minActive int
	particles int
	lastSeq   uint64
	emit      func(WindowStats)
}

// NewTickCollector creates a collector that hands each completed window to
// emit.
func NewTickCollector(window int, emit func(WindowStats)) *TickCollector {
	if window < 1 {
		window = 1
	}
	return &TickCollector{
		window:    window,
		durations: make([]float64, 0, window),
		active:    make([]float64, 0, window),
		minActive: -1,
		emit:      emit,
	}
}

// Record adds one tick sample.
func (c *TickCollector) Record(info snow.TickInfo) {
	c.mu.Lock()
	c.durations = append(c.durations, float64(info.Duration)/float64(time.Microsecond))
	c.active = append(c.active, float64(info.Active))
	if c.minActive < 0 || info.Active < c.minActive {
		c.minActive = info.Active
	}
	c.particles = info.Total
	c.lastSeq = info.Seq

	var ws WindowStats
	full := len(c.durations) >= c.window
	if full {
		ws = c.summarizeLocked()
	}
	c.mu.Unlock()

	if full && c.emit != nil {
		c.emit(ws)
	}
}

// Flush emits whatever partial window has been collected.
func (c *TickCollector) Flush() {
	c.mu.Lock()
	if len(c.durations) == 0 {
		c.mu.Unlock()
		return
	}
	ws := c.summarizeLocked()
	c.mu.Unlock()

	if c.emit != nil {
		c.emit(ws)
	}
}

func (c *TickCollector) summarizeLocked() WindowStats {
	mean, std := stat.MeanStdDev(c.durations, nil)
	if len(c.durations) < 2 {
		std = 0
	}
	maxTick := 0.0
	for _, d := range c.durations {
		if d > maxTick {
			maxTick = d
		}
	}
	ws := WindowStats{
		WindowEnd:    c.lastSeq,
		Ticks:        len(c.durations),
		MeanTickUS:   mean,
		StdDevTickUS: std,
		MaxTickUS:    maxTick,
		MeanActive:   stat.Mean(c.active, nil),
		MinActive:    c.minActive,
		Particles:    c.particles,
	}
	c.durations = c.durations[:0]
	c.active = c.active[:0]
	c.minActive = -1
	return ws
}
