// Package preview draws the caption preview: the selected bitmap with the
// overlay text on top, inside a fixed-height viewport.
package preview

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	// ViewportHeight is the unscaled viewport height in pixels.
	ViewportHeight = 200
	// TextSize is the unscaled overlay text size in points.
	TextSize = 20
	// TextX and TextY place the first baseline inside the viewport.
	TextX = 20
	TextY = 50
)

// White is the overlay text colour.
var White = color.RGBA{255, 255, 255, 255}

// Layout holds the viewport geometry and text styling.
type Layout struct {
	Width, Height int
	TextSize      float64
	// TextOrigin is the baseline of the first line, relative to the
	// viewport's top-left corner.
	TextOrigin image.Point
	TextColor  color.RGBA
	// Background fills the viewport before the bitmap. The zero value is
	// transparent.
	Background color.RGBA
}

// DefaultLayout returns the standard layout for a viewport of the given
// width, with every constant multiplied by scale.
func DefaultLayout(width int, scale float64) Layout {
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	return Layout{
		Width:      width,
		Height:     scaled(ViewportHeight, scale),
		TextSize:   TextSize * scale,
		TextOrigin: image.Pt(scaled(TextX, scale), scaled(TextY, scale)),
		TextColor:  White,
	}
}

func scaled(v int, scale float64) int {
	return int(math.Round(float64(v) * scale))
}

var (
	goregularFont *opentype.Font
	faces         sync.Map // map[float64]font.Face
)

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	goregularFont = f
}

// Face returns the Go Regular face for size, creating and caching it on
// first use.
func Face(size float64) (font.Face, error) {
	if size <= 0 {
		size = TextSize
	}
	if face, ok := faces.Load(size); ok {
		return face.(font.Face), nil
	}
	face, err := opentype.NewFace(goregularFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	actual, _ := faces.LoadOrStore(size, face)
	return actual.(font.Face), nil
}

// Render draws the viewport into bounds of dst. The bitmap is drawn unscaled
// at the top-left corner and clipped to bounds. Text is only drawn when a
// bitmap is present; a nil bitmap leaves the viewport with its background.
func Render(dst draw.Image, bounds image.Rectangle, bitmap image.Image, text string, l Layout) {
	clip := bounds.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}
	if l.Background.A != 0 {
		draw.Draw(dst, clip, image.NewUniform(l.Background), image.Point{}, draw.Src)
	}
	if bitmap == nil {
		return
	}
	sp := bitmap.Bounds().Min.Add(clip.Min.Sub(bounds.Min))
	draw.Draw(dst, clip, bitmap, sp, draw.Over)
	if text == "" {
		return
	}
	face, err := Face(l.TextSize)
	if err != nil {
		log.Printf("preview font: %v", err)
		return
	}
	d := &font.Drawer{Dst: clipTo(dst, clip), Src: image.NewUniform(l.TextColor), Face: face}
	lineHeight := face.Metrics().Height.Ceil()
	x := bounds.Min.X + l.TextOrigin.X
	y := bounds.Min.Y + l.TextOrigin.Y
	for _, line := range strings.Split(text, "\n") {
		d.Dot = fixed.P(x, y)
		d.DrawString(line)
		y += lineHeight
	}
}

// Compose renders a standalone viewport sized by the layout.
func Compose(bitmap image.Image, text string, l Layout) *image.RGBA {
	w, h := l.Width, l.Height
	if w <= 0 && bitmap != nil {
		w = bitmap.Bounds().Dx()
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	Render(dst, dst.Bounds(), bitmap, text, l)
	return dst
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// clipTo restricts drawing on dst to r.
func clipTo(dst draw.Image, r image.Rectangle) draw.Image {
	if s, ok := dst.(subImager); ok {
		if d, ok := s.SubImage(r).(draw.Image); ok {
			return d
		}
	}
	return clipped{Image: dst, r: r}
}

type clipped struct {
	draw.Image
	r image.Rectangle
}

func (c clipped) Bounds() image.Rectangle { return c.r }
