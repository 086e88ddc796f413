package snow

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Surface is the drawing target of a draw pass.
type Surface interface {
	// FillCircle paints a filled circle centred on (cx, cy).
	FillCircle(cx, cy, r float64, alpha uint8)
	// DrawImage paints img scaled to size×size with its top-left at (x, y).
	DrawImage(img image.Image, x, y, size float64, alpha uint8)
}

const circleSegments = 24

// RGBASurface renders into an in-memory RGBA image. Flakes are white.
type RGBASurface struct {
	Img *image.RGBA

	ras *vector.Rasterizer
}

// NewRGBASurface allocates a w×h transparent surface.
func NewRGBASurface(w, h int) *RGBASurface {
	return &RGBASurface{
		Img: image.NewRGBA(image.Rect(0, 0, w, h)),
		ras: vector.NewRasterizer(w, h),
	}
}

// Clear fills the surface with c.
func (s *RGBASurface) Clear(c color.Color) {
	xdraw.Draw(s.Img, s.Img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
}

func (s *RGBASurface) FillCircle(cx, cy, r float64, alpha uint8) {
	if r <= 0 {
		return
	}
	box := image.Rect(int(math.Floor(cx-r))-1, int(math.Floor(cy-r))-1,
		int(math.Ceil(cx+r))+1, int(math.Ceil(cy+r))+1).Intersect(s.Img.Bounds())
	if box.Empty() {
		return
	}
	// Rasterize only the clipped box; path coordinates are box-relative.
	s.ras.Reset(box.Dx(), box.Dy())
	ox, oy := cx-float64(box.Min.X), cy-float64(box.Min.Y)
	for i := 0; i <= circleSegments; i++ {
		t := 2 * math.Pi * float64(i) / circleSegments
		px := float32(ox + r*math.Cos(t))
		py := float32(oy + r*math.Sin(t))
		if i == 0 {
			s.ras.MoveTo(px, py)
		} else {
			s.ras.LineTo(px, py)
		}
	}
	s.ras.ClosePath()
	s.ras.DrawOp = xdraw.Over
	s.ras.Draw(s.Img, box, image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: alpha}), image.Point{})
}

func (s *RGBASurface) DrawImage(img image.Image, x, y, size float64, alpha uint8) {
	if img == nil || size <= 0 {
		return
	}
	x0, y0 := int(math.Round(x)), int(math.Round(y))
	n := int(math.Round(size))
	dst := image.Rect(x0, y0, x0+n, y0+n)
	if !dst.Overlaps(s.Img.Bounds()) {
		return
	}
	xdraw.ApproxBiLinear.Scale(s.Img, dst, img, img.Bounds(), xdraw.Over, &xdraw.Options{
		SrcMask: image.NewUniform(color.Alpha{A: alpha}),
	})
}
