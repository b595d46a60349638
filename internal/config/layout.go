package config

import (
	"image"
	"log"

	"github.com/example/captionshare/internal/caption"
	"github.com/example/captionshare/internal/preview"
	"github.com/example/captionshare/internal/theme"
)

// ScaleFactor returns the UI scale, defaulting to 1.
func (c *Config) ScaleFactor() float64 {
	if c == nil || c.Scale <= 0 {
		return 1
	}
	return c.Scale
}

// PreviewLayout returns the preview layout for a viewport of the given width
// with the [layout] overrides applied. Overrides are in unscaled pixels.
func (c *Config) PreviewLayout(width int) preview.Layout {
	scale := c.ScaleFactor()
	l := preview.DefaultLayout(width, scale)
	if c == nil {
		return l
	}
	px := func(v int) int { return int(float64(v)*scale + 0.5) }
	if c.Layout.ViewportHeight > 0 {
		l.Height = px(c.Layout.ViewportHeight)
	}
	if c.Layout.TextSize > 0 {
		l.TextSize = c.Layout.TextSize * scale
	}
	if c.Layout.TextX > 0 || c.Layout.TextY > 0 {
		x, y := preview.TextX, preview.TextY
		if c.Layout.TextX > 0 {
			x = c.Layout.TextX
		}
		if c.Layout.TextY > 0 {
			y = c.Layout.TextY
		}
		l.TextOrigin = image.Pt(px(x), px(y))
	}
	if c.Layout.TextColor != "" {
		if col, err := theme.ParseColor(c.Layout.TextColor); err == nil {
			l.TextColor = col
		} else {
			log.Printf("layout text_color: %v", err)
		}
	}
	return l
}

// KeyboardSource returns the caption shared by the keyboard action.
func (c *Config) KeyboardSource() caption.KeyboardSource {
	if c == nil {
		return caption.SourceSaved
	}
	src, err := caption.ParseKeyboardSource(c.KeyboardShare)
	if err != nil {
		log.Printf("keyboard_share: %v", err)
		return caption.SourceSaved
	}
	return src
}
