package snow

import "math"

// Particle is one falling flake. Size, speed and angle are fixed between
// resets; position and, with fading, alpha change every tick.
type Particle struct {
	rnd    *Randomizer
	params *Params

	x, y  float64
	size  int
	speed int
	angle int // degrees, negative drifts left
	drift float64

	baseAlpha int
	alpha     int

	recycle bool
	retired bool
}

// NewParticle rolls a particle from params. With AlreadyFalling the particle
// starts anywhere in the viewport, otherwise just above its top edge.
func NewParticle(rnd *Randomizer, params *Params) *Particle {
	p := &Particle{rnd: rnd, params: params, recycle: true}
	p.roll()
	if params.AlreadyFalling {
		p.y = float64(rnd.IntUpTo(params.ParentHeight))
	}
	p.applyFade()
	return p
}

// roll draws every random attribute and parks the particle above the
// viewport.
func (p *Particle) roll() {
	pr := p.params
	p.size = p.rnd.IntRange(pr.SizeMin, pr.SizeMax)
	p.speed = p.rnd.IntRange(pr.SpeedMin, pr.SpeedMax)
	p.angle = p.rnd.IntRange(-pr.AngleMax, pr.AngleMax)
	p.drift = math.Tan(float64(p.angle) * math.Pi / 180)
	p.baseAlpha = p.rnd.IntRange(pr.AlphaMin, pr.AlphaMax)
	p.alpha = p.baseAlpha
	p.x = float64(p.rnd.IntUpTo(pr.ParentWidth))
	p.y = -float64(p.size)
}

// Reset re-rolls the particle and moves it back above the viewport. It
// revives a retired particle and leaves the recycle flag alone.
func (p *Particle) Reset() {
	p.retired = false
	p.roll()
	p.applyFade()
}

// Update advances the particle by one nominal tick.
func (p *Particle) Update() {
	p.Step(1)
}

// Step advances the particle by scale ticks. Once the particle falls past
// ParentHeight+size it is reset when recycling and retired otherwise.
// A retired particle does not move.
func (p *Particle) Step(scale float64) {
	if p.retired {
		return
	}

	dy := float64(p.speed) * scale
	p.y += dy
	p.x += dy * p.drift
	p.applyFade()

	if p.y > float64(p.params.ParentHeight+p.size) {
		if p.recycle {
			p.Reset()
		} else {
			p.retired = true
		}
	}
}

// applyFade scales alpha down linearly inside the fade window at the
// bottom of the viewport, reaching zero at ParentHeight.
func (p *Particle) applyFade() {
	if !p.params.FadingEnabled {
		return
	}
	h := float64(p.params.ParentHeight)
	window := h * p.params.FadeWindow
	if window <= 0 {
		window = h
	}
	p.alpha = int(float64(p.baseAlpha) * clamp01((h-p.y)/window))
}

// IsStillFalling reports whether the particle has not been retired.
func (p *Particle) IsStillFalling() bool {
	return !p.retired
}

// Draw paints the particle onto s. The particle occupies the size×size box
// whose top-left corner is its position.
func (p *Particle) Draw(s Surface) {
	if p.alpha <= 0 {
		return
	}
	a := uint8(clampInt(p.alpha, 0, maxAlpha))
	size := float64(p.size)
	if p.params.Image != nil {
		s.DrawImage(p.params.Image, p.x, p.y, size, a)
		return
	}
	r := size / 2
	s.FillCircle(p.x+r, p.y+r, r, a)
}

// SetRecycling controls whether the particle restarts at the top after
// leaving the viewport.
func (p *Particle) SetRecycling(enabled bool) { p.recycle = enabled }

func (p *Particle) Recycling() bool { return p.recycle }
func (p *Particle) X() float64      { return p.x }
func (p *Particle) Y() float64      { return p.y }
func (p *Particle) Size() int       { return p.size }
func (p *Particle) Speed() int      { return p.speed }
func (p *Particle) Angle() int      { return p.angle }
func (p *Particle) Alpha() int      { return p.alpha }

// State returns a copy of the draw-relevant fields.
func (p *Particle) State() ParticleState {
	return ParticleState{
		X:      p.x,
		Y:      p.y,
		Size:   p.size,
		Speed:  p.speed,
		Angle:  p.angle,
		Alpha:  p.alpha,
		Active: !p.retired,
	}
}

// ParticleState is a value snapshot of a particle.
type ParticleState struct {
	X, Y   float64
	Size   int
	Speed  int
	Angle  int
	Alpha  int
	Active bool
}
