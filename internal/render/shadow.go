// Package render draws decorations shared by the screen's widgets.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Shadow configures the soft shadow cast by a floating rectangle.
type Shadow struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadow returns the shadow used under overlays at the given scale.
func DefaultShadow(scale float64) Shadow {
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	return Shadow{
		Radius:  int(math.Round(8 * scale)),
		Offset:  image.Pt(0, int(math.Round(4*scale))),
		Opacity: 0.35,
	}
}

// DrawShadow darkens dst where box, lifted off the surface, would cast its
// shadow. The box itself is not painted; callers draw it afterwards.
func DrawShadow(dst draw.Image, box image.Rectangle, s Shadow) {
	if box.Empty() || s.Opacity <= 0 {
		return
	}
	opacity := s.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := s.Radius
	if radius < 0 {
		radius = 0
	}

	caster := box.Add(s.Offset)
	area := caster.Inset(-radius)
	clip := area.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}

	mask := image.NewAlpha(area)
	draw.Draw(mask, caster, image.Opaque, image.Point{}, draw.Src)
	blurred := boxBlur(mask, radius)

	shade := image.NewUniform(color.RGBA{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(dst, clip, shade, image.Point{}, blurred, clip.Min, draw.Over)
}

// boxBlur blurs src with a (2r+1)-wide box filter, horizontally then
// vertically. Samples outside src are treated as transparent.
func boxBlur(src *image.Alpha, r int) *image.Alpha {
	b := src.Bounds()
	out := image.NewAlpha(b)
	if r <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := b.Dx(), b.Dy()
	n := 2*r + 1
	tmp := make([]int, w*h)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		sum := 0
		for x := 0; x < r && x < w; x++ {
			sum += int(row[x])
		}
		for x := 0; x < w; x++ {
			if in := x + r; in < w {
				sum += int(row[in])
			}
			tmp[y*w+x] = sum
			if old := x - r; old >= 0 {
				sum -= int(row[old])
			}
		}
	}

	for x := 0; x < w; x++ {
		sum := 0
		for y := 0; y < r && y < h; y++ {
			sum += tmp[y*w+x]
		}
		for y := 0; y < h; y++ {
			if in := y + r; in < h {
				sum += tmp[in*w+x]
			}
			out.Pix[y*out.Stride+x] = uint8(sum / (n * n))
			if old := y - r; old >= 0 {
				sum -= tmp[old*w+x]
			}
		}
	}
	return out
}
