package snow

import (
	"image"
	"log/slog"
)

const (
	// MaxAngle bounds the drift angle; tan grows without limit near 90°.
	MaxAngle = 60

	maxAlpha = 255
)

// Params is the configuration shared by every particle of a field.
// It is treated as immutable once a field has been built from it.
type Params struct {
	ParentWidth  int
	ParentHeight int

	// Image is drawn scaled to size×size; nil falls back to circles.
	Image image.Image

	AlphaMin int
	AlphaMax int
	AngleMax int // degrees
	SizeMin  int // px
	SizeMax  int // px
	SpeedMin int // px per tick
	SpeedMax int // px per tick

	FadingEnabled  bool
	AlreadyFalling bool

	// FadeWindow is the fraction of ParentHeight, measured up from the
	// bottom edge, over which alpha falls linearly to zero.
	FadeWindow float64
}

// normalize clamps and reorders out-of-range values. Every adjustment is
// logged; none is fatal.
func (p Params) normalize(logger *slog.Logger) Params {
	fix := func(field string, from, to any) {
		logger.Warn("snow_params_adjusted", "field", field, "from", from, "to", to)
	}

	if p.ParentWidth < 1 {
		fix("parent_width", p.ParentWidth, 1)
		p.ParentWidth = 1
	}
	if p.ParentHeight < 1 {
		fix("parent_height", p.ParentHeight, 1)
		p.ParentHeight = 1
	}

	p.AlphaMin = clampInt(p.AlphaMin, 0, maxAlpha)
	p.AlphaMax = clampInt(p.AlphaMax, 0, maxAlpha)
	if p.AlphaMin > p.AlphaMax {
		fix("alpha_range", [2]int{p.AlphaMin, p.AlphaMax}, [2]int{p.AlphaMax, p.AlphaMin})
		p.AlphaMin, p.AlphaMax = p.AlphaMax, p.AlphaMin
	}

	if p.AngleMax < 0 {
		fix("angle_max", p.AngleMax, -p.AngleMax)
		p.AngleMax = -p.AngleMax
	}
	if p.AngleMax > MaxAngle {
		fix("angle_max", p.AngleMax, MaxAngle)
		p.AngleMax = MaxAngle
	}

	if lo, hi := positiveRange(p.SizeMin, p.SizeMax); lo != p.SizeMin || hi != p.SizeMax {
		fix("size_range", [2]int{p.SizeMin, p.SizeMax}, [2]int{lo, hi})
		p.SizeMin, p.SizeMax = lo, hi
	}
	if lo, hi := positiveRange(p.SpeedMin, p.SpeedMax); lo != p.SpeedMin || hi != p.SpeedMax {
		fix("speed_range", [2]int{p.SpeedMin, p.SpeedMax}, [2]int{lo, hi})
		p.SpeedMin, p.SpeedMax = lo, hi
	}

	if p.FadeWindow <= 0 || p.FadeWindow > 1 {
		p.FadeWindow = 1
	}
	return p
}

// positiveRange returns an ordered range with both ends at least 1.
func positiveRange(lo, hi int) (int, int) {
	if lo < 1 {
		lo = 1
	}
	if hi < 1 {
		hi = 1
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
