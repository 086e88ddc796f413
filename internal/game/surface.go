package game

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// screenSurface draws particles onto the ebiten screen.
type screenSurface struct {
	screen *ebiten.Image

	// The last uploaded sprite; a field only ever has one.
	src    image.Image
	sprite *ebiten.Image
}

func (s *screenSurface) FillCircle(cx, cy, r float64, alpha uint8) {
	vector.DrawFilledCircle(s.screen, float32(cx), float32(cy), float32(r),
		color.NRGBA{R: 255, G: 255, B: 255, A: alpha}, true)
}

func (s *screenSurface) DrawImage(img image.Image, x, y, size float64, alpha uint8) {
	sprite := s.upload(img)
	b := sprite.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size/float64(b.Dx()), size/float64(b.Dy()))
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(float32(alpha) / 255)
	op.Filter = ebiten.FilterLinear
	s.screen.DrawImage(sprite, op)
}

func (s *screenSurface) upload(img image.Image) *ebiten.Image {
	if s.sprite == nil || s.src != img {
		if s.sprite != nil {
			s.sprite.Deallocate()
		}
		s.src = img
		s.sprite = ebiten.NewImageFromImage(img)
	}
	return s.sprite
}
