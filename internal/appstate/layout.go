package appstate

import (
	"image"
	"math"
)

// Unscaled metrics of the screen.
const (
	baseWidth     = 480
	basePadding   = 16
	baseButtonH   = 36
	baseFieldH    = 40
	baseStatusH   = 24
	baseChooserRH = 28
)

// screenLayout holds the rectangles of every region for one window size.
type screenLayout struct {
	Select  image.Rectangle
	Preview image.Rectangle
	Field   image.Rectangle
	Save    image.Rectangle
	Share   image.Rectangle
	Status  image.Rectangle
}

func px(v int, scale float64) int {
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	return int(math.Round(float64(v) * scale))
}

// layoutScreen stacks the select button, the preview (only while an image is
// selected), the caption field and the save/share row from the top, with
// the status bar pinned to the bottom edge.
func layoutScreen(width, height int, scale float64, previewHeight int, hasImage bool) screenLayout {
	pad := px(basePadding, scale)
	buttonH := px(baseButtonH, scale)
	fieldH := px(baseFieldH, scale)
	statusH := px(baseStatusH, scale)
	right := width - pad
	if right < pad {
		right = pad
	}

	var l screenLayout
	y := pad
	l.Select = image.Rect(pad, y, right, y+buttonH)
	y += buttonH + pad
	if hasImage {
		l.Preview = image.Rect(pad, y, right, y+previewHeight)
		y += previewHeight + pad
	}
	l.Field = image.Rect(pad, y, right, y+fieldH)
	y += fieldH + pad
	mid := (pad + right) / 2
	l.Save = image.Rect(pad, y, mid-pad/2, y+buttonH)
	l.Share = image.Rect(mid+pad/2, y, right, y+buttonH)
	l.Status = image.Rect(0, height-statusH, width, height)
	return l
}

// windowSize returns the initial window size, tall enough for the preview.
func windowSize(scale float64, previewHeight int) image.Point {
	pad := px(basePadding, scale)
	h := pad + px(baseButtonH, scale) + pad + previewHeight + pad +
		px(baseFieldH, scale) + pad + px(baseButtonH, scale) + pad + px(baseStatusH, scale)
	return image.Pt(px(baseWidth, scale), h)
}

// previewWidth is the viewport width for a window width.
func previewWidth(width int, scale float64) int {
	w := width - 2*px(basePadding, scale)
	if w < 1 {
		w = 1
	}
	return w
}

// chooserRows lays out the share target chooser centred in the window. The
// first rectangle is the title row, followed by one row per target.
func chooserRows(width, height int, scale float64, n int) (box image.Rectangle, rows []image.Rectangle) {
	pad := px(basePadding, scale)
	rowH := px(baseChooserRH, scale)
	w := width - 4*pad
	if limit := px(360, scale); w > limit {
		w = limit
	}
	h := rowH*(n+1) + pad
	x := (width - w) / 2
	y := (height - h) / 2
	box = image.Rect(x, y, x+w, y+h)
	rows = make([]image.Rectangle, n+1)
	for i := range rows {
		top := y + pad/2 + i*rowH
		rows[i] = image.Rect(x+pad/2, top, x+w-pad/2, top+rowH)
	}
	return box, rows
}

// hitRow returns the index of the target row containing p, or -1.
func hitRow(rows []image.Rectangle, p image.Point) int {
	for i := 1; i < len(rows); i++ {
		if p.In(rows[i]) {
			return i - 1
		}
	}
	return -1
}
