package snow

import (
	"image"
	"image/color"
	"testing"
)

func TestRGBASurfaceFillCircle(t *testing.T) {
	s := NewRGBASurface(32, 32)
	s.Clear(color.Black)
	s.FillCircle(16, 16, 6, 255)

	if c := s.Img.RGBAAt(16, 16); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("expected white at the centre, got %v", c)
	}
	if c := s.Img.RGBAAt(2, 2); c.R != 0 {
		t.Errorf("expected untouched corner, got %v", c)
	}
}

func TestRGBASurfaceFillCircleStaysInBox(t *testing.T) {
	tests := []struct {
		name   string
		cx, cy float64
		r      float64
		inside image.Point
		box    image.Rectangle
	}{
		{"top-left corner", 3, 3, 5, image.Pt(0, 0), image.Rect(0, 0, 9, 9)},
		{"bottom-right corner", 30, 30, 4, image.Pt(31, 31), image.Rect(25, 25, 32, 32)},
		{"off-origin", 20, 10, 3, image.Pt(20, 10), image.Rect(16, 6, 24, 14)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewRGBASurface(32, 32)
			s.Clear(color.Black)
			s.FillCircle(tc.cx, tc.cy, tc.r, 255)

			if c := s.Img.RGBAAt(tc.inside.X, tc.inside.Y); c.R != 255 {
				t.Errorf("expected white at %v, got %v", tc.inside, c)
			}
			for y := 0; y < 32; y++ {
				for x := 0; x < 32; x++ {
					if image.Pt(x, y).In(tc.box) {
						continue
					}
					if c := s.Img.RGBAAt(x, y); c.R != 0 || c.A != 255 {
						t.Fatalf("pixel (%d, %d) outside %v changed to %v", x, y, tc.box, c)
					}
				}
			}
		})
	}
}

func TestRGBASurfaceFillCircleAlpha(t *testing.T) {
	s := NewRGBASurface(16, 16)
	s.Clear(color.Black)
	s.FillCircle(8, 8, 4, 128)

	c := s.Img.RGBAAt(8, 8)
	if c.R < 100 || c.R > 156 {
		t.Errorf("expected half-blended grey at the centre, got %v", c)
	}
}

func TestRGBASurfaceIgnoresOffscreen(t *testing.T) {
	s := NewRGBASurface(16, 16)
	s.FillCircle(-40, -40, 4, 255)
	s.DrawImage(image.NewUniform(color.White), 100, 100, 8, 255)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if s.Img.RGBAAt(x, y).A != 0 {
				t.Fatalf("pixel (%d, %d) painted by an offscreen draw", x, y)
			}
		}
	}
}

func TestRGBASurfaceDrawImage(t *testing.T) {
	sprite := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			sprite.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	s := NewRGBASurface(32, 32)
	s.DrawImage(sprite, 8, 8, 10, 255)

	if c := s.Img.RGBAAt(12, 12); c.R != 255 || c.A != 255 {
		t.Errorf("expected opaque red inside the scaled sprite, got %v", c)
	}
	if c := s.Img.RGBAAt(20, 20); c.A != 0 {
		t.Errorf("expected transparent outside the sprite, got %v", c)
	}
}

func TestFieldDrawPassOnRGBASurface(t *testing.T) {
	params := fixedParams()
	params.AlreadyFalling = true
	f := NewField(40, NewRandomizer(6), params)

	s := NewRGBASurface(params.ParentWidth, params.ParentHeight)
	if !f.DrawPass(s) {
		t.Fatal("expected an active field")
	}

	painted := 0
	b := s.Img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if s.Img.RGBAAt(x, y).A != 0 {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Error("draw pass painted nothing")
	}
}
