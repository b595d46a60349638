package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/example/captionshare/internal/preview"
	"github.com/example/captionshare/internal/render"
	"github.com/example/captionshare/internal/theme"
)

const placeholder = "Add a caption"

// buttonView is a button together with the state it is drawn in.
type buttonView struct {
	btn   Button
	state ButtonState
}

// paintState is everything drawFrame needs, copied off the event loop so the
// painter never touches live state.
type paintState struct {
	width, height int
	scale         float64
	theme         *theme.Theme
	layout        screenLayout
	buttons       []buttonView

	hasImage bool
	bitmap   image.Image
	overlay  string
	preview  preview.Layout

	draft     string
	status    string
	statusErr bool

	chooser  []string
	selected int
}

// renderFrame draws a complete frame into dst.
func renderFrame(dst *image.RGBA, st paintState) {
	t := st.theme
	if t == nil {
		t = theme.Default()
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(t.Background), image.Point{}, draw.Src)

	for _, b := range st.buttons {
		b.btn.Draw(dst, b.state)
	}
	if st.hasImage {
		l := st.preview
		l.Background = t.PreviewBackground
		preview.Render(dst, st.layout.Preview, st.bitmap, st.overlay, l)
	}
	drawField(dst, st.layout.Field, st.draft, st.scale, t)
	drawStatus(dst, st.layout.Status, st.status, st.statusErr, st.scale, t)
	if len(st.chooser) > 0 {
		drawChooser(dst, st, t)
	}
}

func drawField(dst *image.RGBA, r image.Rectangle, draft string, scale float64, t *theme.Theme) {
	draw.Draw(dst, r, image.NewUniform(t.FieldBackground), image.Point{}, draw.Src)
	drawRect(dst, r, t.FieldBorderFocus, px(2, scale))

	face := uiFace(scale)
	inset := px(8, scale)
	text, col := lastLine(draft), t.FieldText
	if draft == "" {
		text, col = placeholder, t.FieldPlaceholder
	}
	// Keep the tail visible when the caption is wider than the field.
	avail := r.Dx() - 2*inset
	for text != "" && font.MeasureString(face, text).Ceil() > avail {
		_, rest, _ := cutFirstRune(text)
		text = rest
	}
	baseline := textBaseline(face, r)
	x := drawString(dst, face, col, r.Min.X+inset, baseline, text)
	if draft == "" {
		x = r.Min.X + inset
	}
	m := face.Metrics()
	caret := image.Rect(x+1, baseline-m.Ascent.Ceil(), x+1+px(2, scale), baseline+m.Descent.Ceil())
	draw.Draw(dst, caret.Intersect(r), image.NewUniform(t.Caret), image.Point{}, draw.Src)
}

func drawStatus(dst *image.RGBA, r image.Rectangle, msg string, isErr bool, scale float64, t *theme.Theme) {
	draw.Draw(dst, r, image.NewUniform(t.StatusBackground), image.Point{}, draw.Src)
	if msg == "" {
		return
	}
	col := t.StatusText
	if isErr {
		col = t.StatusError
	}
	face := uiFace(scale)
	drawString(dst, face, col, r.Min.X+px(basePadding, scale), textBaseline(face, r), msg)
}

func drawChooser(dst *image.RGBA, st paintState, t *theme.Theme) {
	box, rows := chooserRows(st.width, st.height, st.scale, len(st.chooser))
	render.DrawShadow(dst, box, render.DefaultShadow(st.scale))
	draw.Draw(dst, box, image.NewUniform(t.ChooserBackground), image.Point{}, draw.Src)
	drawRect(dst, box, t.ButtonBorder, 1)
	face := uiFace(st.scale)
	inset := px(8, st.scale)
	drawString(dst, face, t.ChooserText, rows[0].Min.X+inset, textBaseline(face, rows[0]), "Share via")
	for i, label := range st.chooser {
		r := rows[i+1]
		if i == st.selected {
			draw.Draw(dst, r, image.NewUniform(t.ChooserHighlight), image.Point{}, draw.Src)
		}
		drawString(dst, face, t.ChooserText, r.Min.X+inset, textBaseline(face, r), label)
	}
}

// drawString draws s with its baseline at y and returns the pen position
// after the last glyph.
func drawString(dst draw.Image, face font.Face, col color.Color, x, y int, s string) int {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face, Dot: fixed.P(x, y)}
	d.DrawString(s)
	return d.Dot.X.Ceil()
}

func textBaseline(face font.Face, r image.Rectangle) int {
	m := face.Metrics()
	return r.Min.Y + (r.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func cutFirstRune(s string) (string, string, bool) {
	for i := range s {
		if i > 0 {
			return s[:i], s[i:], true
		}
	}
	return s, "", false
}
