package snow

import (
	"log/slog"
	"sync"
	"time"
)

// Options configure an Overlay.
type Options struct {
	// Count is the number of particles per field.
	Count int
	// Params is the particle template; ParentWidth and ParentHeight are
	// replaced by the viewport size on every resize.
	Params Params
	// Seed seeds each field's randomizer. Zero picks a time-based seed.
	Seed int64

	Logger *slog.Logger
	// OnTick runs on the worker goroutine after every completed tick.
	OnTick func(TickInfo)
	// Now defaults to time.Now.
	Now func() time.Time
}

// TickInfo describes one completed update tick.
type TickInfo struct {
	Seq      uint64
	Duration time.Duration
	Active   int
	Total    int
}

// Overlay is the host-facing side of the simulation. The host reports
// viewport and visibility changes, requests ticks, and runs draw passes;
// the overlay owns the field and the update worker.
type Overlay struct {
	opts   Options
	logger *slog.Logger
	sched  *Scheduler

	mu        sync.Mutex
	field     *Field
	width     int
	height    int
	recycling bool
	scale     float64
	seq       uint64
	torn      bool
}

// NewOverlay starts the update worker. No field exists until the first
// OnViewportResized call.
func NewOverlay(opts Options) *Overlay {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Count < 0 {
		opts.Logger.Warn("snow_params_adjusted", "field", "count", "from", opts.Count, "to", 0)
		opts.Count = 0
	}
	o := &Overlay{
		opts:      opts,
		logger:    opts.Logger,
		recycling: true,
		scale:     1,
	}
	o.sched = NewScheduler(o.tick, opts.Logger)
	return o
}

// OnViewportResized recreates the field for a w×h viewport. Repeating the
// current size is a no-op; a non-positive size drops the field.
func (o *Overlay) OnViewportResized(w, h int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.torn || (w == o.width && h == o.height && o.field != nil) {
		return
	}
	o.width, o.height = w, h
	if w <= 0 || h <= 0 {
		o.field = nil
		return
	}

	params := o.opts.Params
	params.ParentWidth, params.ParentHeight = w, h
	params = params.normalize(o.logger)

	f := NewField(o.opts.Count, NewRandomizer(o.opts.Seed), &params)
	if !o.recycling {
		f.SetRecycling(false)
	}
	f.SetTimeScale(o.scale)
	o.field = f

	o.logger.Info("snow_field_created",
		"width", w,
		"height", h,
		"particles", f.Len(),
		"sprite", params.Image != nil,
	)
}

// OnVisibilityHidden resets every particle so the next showing starts
// clean.
func (o *Overlay) OnVisibilityHidden() {
	if f := o.Field(); f != nil {
		f.ResetAll()
	}
}

// RequestUpdateTick posts one coalesced tick to the worker. It reports
// whether a tick is pending.
func (o *Overlay) RequestUpdateTick() bool {
	if o.Field() == nil {
		return false
	}
	return o.sched.Request()
}

// DrawPass draws the current field onto s and reports whether any particle
// is still falling.
func (o *Overlay) DrawPass(s Surface) bool {
	f := o.Field()
	if f == nil {
		return false
	}
	return f.DrawPass(s)
}

// SetRecycling turns recycling on or off for the current field and for
// fields created by later resizes.
func (o *Overlay) SetRecycling(enabled bool) {
	o.mu.Lock()
	o.recycling = enabled
	f := o.field
	o.mu.Unlock()
	if f != nil {
		f.SetRecycling(enabled)
	}
}

// SetTimeScale sets the number of nominal ticks each update covers.
func (o *Overlay) SetTimeScale(scale float64) {
	o.mu.Lock()
	o.scale = scale
	f := o.field
	o.mu.Unlock()
	if f != nil {
		f.SetTimeScale(scale)
	}
}

// Teardown stops the worker and releases the field. Later calls to any
// method are no-ops.
func (o *Overlay) Teardown() {
	o.mu.Lock()
	if o.torn {
		o.mu.Unlock()
		return
	}
	o.torn = true
	o.mu.Unlock()

	o.sched.Stop()

	o.mu.Lock()
	o.field = nil
	o.mu.Unlock()
	o.logger.Info("snow_overlay_teardown", "ticks", o.sched.Ticks(), "coalesced", o.sched.Coalesced())
}

// Field returns the current field, or nil.
func (o *Overlay) Field() *Field {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.torn {
		return nil
	}
	return o.field
}

// Scheduler exposes the update worker's counters.
func (o *Overlay) Scheduler() *Scheduler { return o.sched }

func (o *Overlay) tick() {
	f := o.Field()
	if f == nil {
		return
	}
	start := o.opts.Now()
	f.UpdateTick()
	if o.opts.OnTick == nil {
		return
	}

	o.mu.Lock()
	o.seq++
	seq := o.seq
	o.mu.Unlock()

	o.opts.OnTick(TickInfo{
		Seq:      seq,
		Duration: o.opts.Now().Sub(start),
		Active:   f.ActiveCount(),
		Total:    f.Len(),
	})
}
