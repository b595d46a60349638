package appstate

import (
	"context"
	"image"
	"testing"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/captionshare/internal/caption"
	"github.com/example/captionshare/internal/media"
	"github.com/example/captionshare/internal/preview"
	"github.com/example/captionshare/internal/theme"
)

func press(r rune, code key.Code, mods key.Modifiers) key.Event {
	return key.Event{Rune: r, Code: code, Modifiers: mods, Direction: key.DirPress}
}

func newTestUI(c *controller) *ui {
	u := newUI(c, theme.Default(), 1, nil)
	size := windowSize(1, preview.ViewportHeight)
	u.resize(size.X, size.Y)
	return u
}

func TestKeyboardEditing(t *testing.T) {
	store := caption.NewStore()
	u := newTestUI(newTestController(store, nil))

	for _, r := range "Hi!" {
		if !u.handleKey(press(r, key.CodeUnknown, 0)) {
			t.Fatalf("rune %q not handled", r)
		}
	}
	u.handleKey(press(0, key.CodeDeleteBackspace, 0))
	if u.handleKey(press('\r', key.CodeReturnEnter, key.ModShift)) {
		t.Fatal("shift+enter should not edit the single-line field")
	}
	u.handleKey(press('x', key.CodeX, key.ModControl))
	u.handleKey(key.Event{Rune: 'z', Direction: key.DirRelease})
	if got := store.Snapshot().Draft; got != "Hi" {
		t.Fatalf("Draft = %q", got)
	}

	u.handleKey(press('s', key.CodeS, key.ModControl))
	if got := store.Snapshot().Saved; got != "Hi" {
		t.Fatalf("Saved = %q", got)
	}
}

func TestKeyboardDoneSharesSavedByDefault(t *testing.T) {
	store := caption.NewStore(caption.WithCaption("saved"))
	store.SetDraft("draft")
	target := &fakeTarget{name: "fake", available: true}
	u := newTestUI(newTestController(store, nil, target))

	u.handleKey(press('\r', key.CodeReturnEnter, 0))
	if len(target.got) != 1 || target.got[0].Text != "saved" {
		t.Fatalf("got = %+v", target.got)
	}
}

func TestKeyboardDoneSharesDraftWhenConfigured(t *testing.T) {
	store := caption.NewStore(caption.WithCaption("saved"), caption.WithKeyboardSource(caption.SourceDraft))
	store.SetDraft("draft")
	target := &fakeTarget{name: "fake", available: true}
	u := newTestUI(newTestController(store, nil, target))

	u.handleKey(press('\r', key.CodeReturnEnter, 0))
	u.handleKey(press('\r', key.CodeReturnEnter, key.ModControl))

	if len(target.got) != 2 {
		t.Fatalf("target called %d times", len(target.got))
	}
	if target.got[0].Text != "draft" || target.got[1].Text != "saved" {
		t.Fatalf("texts = %q, %q", target.got[0].Text, target.got[1].Text)
	}
}

func TestChooserKeys(t *testing.T) {
	a := &fakeTarget{name: "a", available: true}
	b := &fakeTarget{name: "b", available: true}
	store := caption.NewStore()
	u := newTestUI(newTestController(store, nil, a, b))

	u.handleKey(press(0, key.CodeReturnEnter, 0))
	if u.c.chooser == nil {
		t.Fatal("expected chooser")
	}
	u.handleKey(press('q', key.CodeQ, 0))
	if store.Snapshot().Draft != "" {
		t.Fatal("typing must not reach the caption while choosing")
	}
	u.handleKey(press(0, key.CodeEscape, 0))
	if u.c.chooser != nil {
		t.Fatal("escape should close the chooser")
	}

	u.handleKey(press(0, key.CodeReturnEnter, 0))
	u.handleKey(press('2', key.Code2, 0))
	if len(b.got) != 1 || len(a.got) != 0 {
		t.Fatalf("a=%d b=%d", len(a.got), len(b.got))
	}

	u.handleKey(press(0, key.CodeReturnEnter, 0))
	u.handleKey(press(0, key.CodeDownArrow, 0))
	u.handleKey(press(0, key.CodeDownArrow, 0))
	u.handleKey(press(0, key.CodeReturnEnter, 0))
	if len(a.got) != 1 {
		t.Fatalf("a=%d", len(a.got))
	}
}

func TestQuitShortcut(t *testing.T) {
	u := newTestUI(newTestController(caption.NewStore(), nil))
	u.handleKey(press('Q', key.CodeQ, key.ModControl))
	if !u.quit {
		t.Fatal("ctrl+q should quit")
	}
}

func click(u *ui, p image.Point) {
	u.handleMouse(mouse.Event{X: float32(p.X), Y: float32(p.Y), Direction: mouse.DirPress})
	u.handleMouse(mouse.Event{X: float32(p.X), Y: float32(p.Y), Direction: mouse.DirRelease})
}

func center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func TestMouseButtons(t *testing.T) {
	store := caption.NewStore()
	store.SetDraft("clicked")
	target := &fakeTarget{name: "fake", available: true}
	u := newTestUI(newTestController(store, nil, target))
	l := u.screenLayout()

	click(u, center(l.Save))
	if store.Snapshot().Saved != "clicked" {
		t.Fatal("save button did not save")
	}
	click(u, center(l.Share))
	if len(target.got) != 1 || target.got[0].Text != "clicked" {
		t.Fatalf("share button sent %+v", target.got)
	}

	// Releasing over a different button does nothing.
	u.handleMouse(mouse.Event{X: float32(center(l.Save).X), Y: float32(center(l.Save).Y), Direction: mouse.DirPress})
	u.handleMouse(mouse.Event{X: float32(center(l.Share).X), Y: float32(center(l.Share).Y), Direction: mouse.DirRelease})
	if len(target.got) != 1 {
		t.Fatal("drag between buttons should not activate")
	}

	if !u.handleMouse(mouse.Event{X: float32(center(l.Select).X), Y: float32(center(l.Select).Y)}) || u.hover != 0 {
		t.Fatalf("hover = %d", u.hover)
	}
}

func TestMouseChooser(t *testing.T) {
	a := &fakeTarget{name: "a", available: true}
	b := &fakeTarget{name: "b", available: true}
	u := newTestUI(newTestController(caption.NewStore(), nil, a, b))

	u.c.share(caption.OriginButton)
	_, rows := chooserRows(u.width, u.height, u.scale, 2)
	click(u, center(rows[1]))
	if len(a.got) != 1 || u.c.chooser != nil {
		t.Fatalf("a=%d chooser=%v", len(a.got), u.c.chooser)
	}

	u.c.share(caption.OriginButton)
	click(u, image.Pt(1, 1))
	if u.c.chooser != nil || len(b.got) != 0 {
		t.Fatal("click outside should cancel")
	}
}

func TestLayoutScreen(t *testing.T) {
	size := windowSize(1, 200)
	without := layoutScreen(size.X, size.Y, 1, 200, false)
	if !without.Preview.Empty() {
		t.Fatalf("preview shown without image: %v", without.Preview)
	}
	with := layoutScreen(size.X, size.Y, 1, 200, true)
	if with.Preview.Dy() != 200 || with.Preview.Dx() != previewWidth(size.X, 1) {
		t.Fatalf("preview = %v", with.Preview)
	}
	if with.Field.Min.Y <= with.Preview.Max.Y || with.Save.Min.Y != with.Share.Min.Y || with.Save.Max.X >= with.Share.Min.X {
		t.Fatalf("unexpected layout %+v", with)
	}
	if with.Share.Max.Y > with.Status.Min.Y {
		t.Fatalf("buttons overlap status bar: %+v", with)
	}
	if with.Status.Max.Y != size.Y || with.Status.Dx() != size.X {
		t.Fatalf("status = %v", with.Status)
	}

	double := layoutScreen(size.X*2, size.Y*2, 2, 400, true)
	if double.Select.Dy() != 2*with.Select.Dy() {
		t.Fatalf("scale not applied: %v vs %v", double.Select, with.Select)
	}
}

func TestRenderFrame(t *testing.T) {
	path := writePNG(t, 8, 8)
	store := caption.NewStore(caption.WithImage(media.FromPath(path)), caption.WithCaption("Hello"))
	c := newTestController(store, nil)
	c.setStatus("ready", true)
	u := newTestUI(c)

	st := u.paintState()
	if !st.hasImage || st.bitmap == nil || st.overlay != "Hello" || st.draft != "Hello" {
		t.Fatalf("paint state = %+v", st)
	}
	dst := image.NewRGBA(image.Rect(0, 0, st.width, st.height))
	renderFrame(dst, st)

	th := theme.Default()
	if got := dst.RGBAAt(0, 0); got != th.Background {
		t.Fatalf("background = %v", got)
	}
	if got := dst.RGBAAt(st.width-1, st.height-1); got != th.StatusBackground {
		t.Fatalf("status background = %v", got)
	}
	statusInk := false
	for y := st.layout.Status.Min.Y; y < st.layout.Status.Max.Y && !statusInk; y++ {
		for x := st.layout.Status.Min.X; x < st.layout.Status.Max.X; x++ {
			if dst.RGBAAt(x, y) != th.StatusBackground {
				statusInk = true
				break
			}
		}
	}
	if !statusInk {
		t.Fatal("status message not drawn")
	}
	// Bitmap pixels sit at the top-left of the preview.
	if got := dst.RGBAAt(st.layout.Preview.Min.X+7, st.layout.Preview.Min.Y+7); got.R != 0x80 {
		t.Fatalf("bitmap pixel = %v", got)
	}
}

func TestRenderFrameMissingImage(t *testing.T) {
	ref := media.FromPath("/nonexistent/photo.png")
	store := caption.NewStore(caption.WithImage(ref), caption.WithCaption("gone"))
	u := newTestUI(newTestController(store, nil))
	st := u.paintState()
	if !st.hasImage || st.bitmap != nil {
		t.Fatalf("hasImage=%v bitmap=%v", st.hasImage, st.bitmap)
	}
	dst := image.NewRGBA(image.Rect(0, 0, st.width, st.height))
	renderFrame(dst, st)
	th := theme.Default()
	for y := st.layout.Preview.Min.Y; y < st.layout.Preview.Max.Y; y++ {
		for x := st.layout.Preview.Min.X; x < st.layout.Preview.Max.X; x++ {
			if got := dst.RGBAAt(x, y); got != th.PreviewBackground {
				t.Fatalf("pixel (%d,%d) = %v, want empty preview", x, y, got)
			}
		}
	}
}

func TestRenderFrameChooser(t *testing.T) {
	a := &fakeTarget{name: "a", available: true}
	b := &fakeTarget{name: "b", available: true}
	u := newTestUI(newTestController(caption.NewStore(), nil, a, b))
	u.c.share(caption.OriginButton)
	st := u.paintState()
	if len(st.chooser) != 2 {
		t.Fatalf("chooser = %v", st.chooser)
	}
	dst := image.NewRGBA(image.Rect(0, 0, st.width, st.height))
	renderFrame(dst, st)
	_, rows := chooserRows(st.width, st.height, st.scale, 2)
	if got := dst.RGBAAt(rows[1].Max.X-2, rows[1].Min.Y+1); got != theme.Default().ChooserHighlight {
		t.Fatalf("selected row = %v", got)
	}
}

func TestNotifyChangedCoalesces(t *testing.T) {
	a := New()
	a.NotifyChanged()
	a.NotifyChanged()
	if len(a.updateCh) != 1 {
		t.Fatalf("pending repaints = %d", len(a.updateCh))
	}
	if a.Title != ProgramTitle || a.Store == nil || a.Gateway == nil {
		t.Fatalf("defaults = %+v", a)
	}
}

func TestNewControllerUsesOptions(t *testing.T) {
	store := caption.NewStore()
	var picked media.Reference
	a := New(WithStore(store), WithShareTarget("email"), WithOnPicked(func(r media.Reference) { picked = r }))
	c := a.newController(context.Background(), func(interface{}) {})
	if c.store != store || c.preferred != "email" {
		t.Fatalf("controller = %+v", c)
	}
	c.onPicked(media.FromPath("/tmp/a.png"))
	if picked.Name() != "a.png" {
		t.Fatalf("picked = %v", picked)
	}
}
