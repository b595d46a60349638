package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/mobile/event/key"

	"github.com/example/captionshare/assets"
	"github.com/example/captionshare/internal/preview"
	"github.com/example/captionshare/internal/theme"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states. It may
// be drawn by the painter while the event loop moves it.
type CacheButton struct {
	Button
	mu    sync.Mutex
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	r := cb.Button.Rect()
	if r.Empty() {
		return
	}
	if cb.cache[state] == nil {
		img := image.NewRGBA(r)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, r, cb.cache[state], r.Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.Button.Rect()
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// ActionButton is a labelled button with an optional embedded icon.
type ActionButton struct {
	label      string
	icon       string
	theme      *theme.Theme
	scale      float64
	rect       image.Rectangle
	onActivate func()
}

func (b *ActionButton) colors(state ButtonState) (bg, fg color.RGBA) {
	t := b.theme
	switch state {
	case StateHover:
		return t.ButtonBackgroundHover, t.ButtonTextHover
	case StatePressed:
		return t.ButtonBackgroundPress, t.ButtonTextPress
	}
	return t.ButtonBackground, t.ButtonText
}

func (b *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	bg, fg := b.colors(state)
	draw.Draw(dst, b.rect, image.NewUniform(bg), image.Point{}, draw.Src)
	drawRect(dst, b.rect, b.theme.ButtonBorder, 1)

	face := uiFace(b.scale)
	d := &font.Drawer{Face: face}
	labelW := d.MeasureString(b.label).Ceil()
	iconSize := b.rect.Dy() * 3 / 5
	gap := 0
	if b.icon != "" {
		gap = iconSize / 3
	} else {
		iconSize = 0
	}
	total := iconSize + gap + labelW
	x := b.rect.Min.X + (b.rect.Dx()-total)/2
	if x < b.rect.Min.X+2 {
		x = b.rect.Min.X + 2
	}
	if iconSize > 0 {
		if icon, err := assets.Icon(b.icon, iconSize); err != nil {
			log.Printf("icon %s: %v", b.icon, err)
		} else {
			top := b.rect.Min.Y + (b.rect.Dy()-iconSize)/2
			ir := image.Rect(x, top, x+iconSize, top+iconSize)
			draw.DrawMask(dst, ir, image.NewUniform(fg), image.Point{}, icon, icon.Bounds().Min, draw.Over)
		}
	}
	drawString(dst, face, fg, x+iconSize+gap, textBaseline(face, b.rect), b.label)
}

func (b *ActionButton) Rect() image.Rectangle { return b.rect }

func (b *ActionButton) SetRect(r image.Rectangle) {
	if r != b.rect {
		b.rect = r
	}
}

func (b *ActionButton) Activate() {
	if b.onActivate != nil {
		b.onActivate()
	}
}

// uiFace returns the label face for the given scale.
func uiFace(scale float64) font.Face {
	if scale <= 0 {
		scale = 1
	}
	face, err := preview.Face(14 * scale)
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
	return face
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := image.NewUniform(col)
	for i := 0; i < thick; i++ {
		r := rect.Inset(i)
		if r.Empty() {
			return
		}
		draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	}
}
