package snow

import "sync"

// maxTimeScale caps how many nominal ticks a single update may cover.
const maxTimeScale = 8

// Field owns the particles for one viewport size.
//
// The update worker is the only writer. UpdateTick holds the write lock for
// the whole pass, so a draw pass sees either the state before a tick or the
// state after it, never a mix.
type Field struct {
	mu        sync.RWMutex
	params    *Params
	particles []*Particle
	scale     float64
}

// NewField creates count particles from params. The particles share rnd and
// params.
func NewField(count int, rnd *Randomizer, params *Params) *Field {
	if count < 0 {
		count = 0
	}
	f := &Field{
		params:    params,
		particles: make([]*Particle, count),
		scale:     1,
	}
	for i := range f.particles {
		f.particles[i] = NewParticle(rnd, params)
	}
	return f
}

// UpdateTick advances every still-falling particle in index order and
// reports whether any particle is still falling afterwards.
func (f *Field) UpdateTick() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	active := false
	for _, p := range f.particles {
		if !p.IsStillFalling() {
			continue
		}
		p.Step(f.scale)
		if p.IsStillFalling() {
			active = true
		}
	}
	return active
}

// DrawPass draws every still-falling particle in index order, so later
// particles land on top. It reports whether any particle is still falling.
func (f *Field) DrawPass(s Surface) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	active := false
	for _, p := range f.particles {
		if !p.IsStillFalling() {
			continue
		}
		active = true
		p.Draw(s)
	}
	return active
}

// ResetAll resets every particle without reallocating.
func (f *Field) ResetAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.particles {
		p.Reset()
	}
}

// SetRecycling sets the recycle flag on every particle.
func (f *Field) SetRecycling(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.particles {
		p.SetRecycling(enabled)
	}
}

// SetTimeScale sets how many nominal ticks each UpdateTick covers.
// Values are clamped to [0, 8].
func (f *Field) SetTimeScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	if scale > maxTimeScale {
		scale = maxTimeScale
	}
	f.mu.Lock()
	f.scale = scale
	f.mu.Unlock()
}

// Len returns the number of particles.
func (f *Field) Len() int { return len(f.particles) }

// ActiveCount returns the number of still-falling particles.
func (f *Field) ActiveCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, p := range f.particles {
		if p.IsStillFalling() {
			n++
		}
	}
	return n
}

// Snapshot copies the state of every particle in index order.
func (f *Field) Snapshot() []ParticleState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]ParticleState, len(f.particles))
	for i, p := range f.particles {
		out[i] = p.State()
	}
	return out
}

// Params returns the configuration the field was built from.
func (f *Field) Params() *Params { return f.params }
