package appstate

import (
	"image"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/captionshare/internal/caption"
	"github.com/example/captionshare/internal/preview"
	"github.com/example/captionshare/internal/theme"
)

// Action names used by the keyboard bindings.
const (
	actionSelect   = "select"
	actionSave     = "save"
	actionShare    = "share"
	actionPaste    = "paste"
	actionQuit     = "quit"
	actionDone     = "done"
	actionBackward = "backspace"
)

// keymap binds shortcuts to named actions.
type keymap struct {
	byKey   map[KeyShortcut]string
	actions map[string]func()
}

func newKeymap() *keymap {
	return &keymap{byKey: map[KeyShortcut]string{}, actions: map[string]func(){}}
}

func (k *keymap) register(name string, keys KeyboardShortcuts, fn func()) {
	k.actions[name] = fn
	if keys == nil {
		return
	}
	for _, sc := range keys.KeyboardShortcuts() {
		k.byKey[sc] = name
	}
}

func (k *keymap) lookup(e key.Event) (string, bool) {
	ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Code: e.Code, Modifiers: e.Modifiers}
	if name, ok := k.byKey[ks]; ok {
		return name, true
	}
	// Bindings name either the rune or the code, drivers report both.
	if e.Rune > 0 {
		if name, ok := k.byKey[KeyShortcut{Rune: ks.Rune, Modifiers: ks.Modifiers}]; ok {
			return name, true
		}
	}
	name, ok := k.byKey[KeyShortcut{Code: ks.Code, Modifiers: ks.Modifiers}]
	return name, ok
}

func (k *keymap) run(name string) bool {
	fn, ok := k.actions[name]
	if ok {
		fn()
	}
	return ok
}

// ui ties the controller to window geometry, buttons and input events. It
// is driven by the event loop and has no dependency on a live window.
type ui struct {
	c      *controller
	theme  *theme.Theme
	scale  float64
	layout func(width int) preview.Layout

	width, height int
	quit          bool

	keys    *keymap
	buttons []*CacheButton
	hover   int
	pressed int
}

func newUI(c *controller, t *theme.Theme, scale float64, layout func(int) preview.Layout) *ui {
	if t == nil {
		t = theme.Default()
	}
	if scale <= 0 {
		scale = 1
	}
	if layout == nil {
		layout = func(w int) preview.Layout { return preview.DefaultLayout(w, scale) }
	}
	u := &ui{c: c, theme: t, scale: scale, layout: layout, hover: -1, pressed: -1}

	newButton := func(label, icon string, fn func()) *CacheButton {
		return &CacheButton{Button: &ActionButton{label: label, icon: icon, theme: t, scale: scale, onActivate: fn}}
	}
	u.buttons = []*CacheButton{
		newButton("Select photo", "select", c.selectPhoto),
		newButton("Save", "save", c.save),
		newButton("Share", "share", func() { c.share(caption.OriginButton) }),
	}

	u.keys = newKeymap()
	u.keys.register(actionSelect, shortcutList{{Rune: 'o', Modifiers: key.ModControl}}, c.selectPhoto)
	u.keys.register(actionSave, shortcutList{{Rune: 's', Modifiers: key.ModControl}}, c.save)
	u.keys.register(actionShare, shortcutList{{Code: key.CodeReturnEnter, Modifiers: key.ModControl}}, func() {
		c.share(caption.OriginButton)
	})
	u.keys.register(actionDone, shortcutList{{Code: key.CodeReturnEnter}}, func() {
		c.share(caption.OriginKeyboard)
	})
	u.keys.register(actionPaste, shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, c.paste)
	u.keys.register(actionBackward, shortcutList{{Code: key.CodeDeleteBackspace}}, c.backspace)
	u.keys.register(actionQuit, shortcutList{{Rune: 'q', Modifiers: key.ModControl}}, func() { u.quit = true })
	return u
}

func (u *ui) resize(width, height int) {
	u.width, u.height = width, height
}

func (u *ui) previewLayout() preview.Layout {
	return u.layout(previewWidth(u.width, u.scale))
}

func (u *ui) screenLayout() screenLayout {
	return layoutScreen(u.width, u.height, u.scale, u.previewLayout().Height, u.hasImage())
}

func (u *ui) hasImage() bool {
	return u.c.store.Snapshot().Phase() == caption.ImageSelected
}

// placeButtons assigns the current layout to the buttons.
func (u *ui) placeButtons(l screenLayout) {
	u.buttons[0].SetRect(l.Select)
	u.buttons[1].SetRect(l.Save)
	u.buttons[2].SetRect(l.Share)
}

// handleKey processes a key event and reports whether a repaint is needed.
func (u *ui) handleKey(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	if u.c.chooser != nil {
		return u.chooserKey(e)
	}
	if name, ok := u.keys.lookup(e); ok {
		return u.keys.run(name)
	}
	if e.Code == key.CodeEscape {
		u.c.setStatus("", false)
		return true
	}
	if e.Modifiers&(key.ModControl|key.ModMeta|key.ModAlt) != 0 {
		return false
	}
	if e.Rune > 0 && unicode.IsPrint(e.Rune) {
		u.c.typeText(string(e.Rune))
		return true
	}
	return false
}

func (u *ui) chooserKey(e key.Event) bool {
	switch e.Code {
	case key.CodeUpArrow:
		u.c.chooserMove(-1)
	case key.CodeDownArrow, key.CodeTab:
		u.c.chooserMove(1)
	case key.CodeReturnEnter:
		u.c.chooserConfirm()
	case key.CodeEscape:
		u.c.chooserCancel()
	default:
		if e.Rune >= '1' && e.Rune <= '9' {
			u.c.chooserPick(int(e.Rune - '1'))
			return true
		}
		return false
	}
	return true
}

// handleMouse processes a mouse event and reports whether a repaint is
// needed.
func (u *ui) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	if u.c.chooser != nil {
		if e.Direction != mouse.DirPress {
			return false
		}
		box, rows := chooserRows(u.width, u.height, u.scale, len(u.c.chooser.targets))
		if i := hitRow(rows, p); i >= 0 {
			u.c.chooserPick(i)
		} else if !p.In(box) {
			u.c.chooserCancel()
		}
		return true
	}

	u.placeButtons(u.screenLayout())
	hit := -1
	for i, b := range u.buttons {
		if p.In(b.Rect()) {
			hit = i
			break
		}
	}
	switch e.Direction {
	case mouse.DirPress:
		u.pressed = hit
		return hit >= 0
	case mouse.DirRelease:
		was := u.pressed
		u.pressed = -1
		if was >= 0 && was == hit {
			u.buttons[hit].Activate()
		}
		return was >= 0
	default:
		if hit != u.hover {
			u.hover = hit
			return true
		}
	}
	return false
}

// paintState snapshots everything needed to draw the current frame.
func (u *ui) paintState() paintState {
	snap := u.c.store.Snapshot()
	l := u.screenLayout()
	u.placeButtons(l)
	st := paintState{
		width:     u.width,
		height:    u.height,
		scale:     u.scale,
		theme:     u.theme,
		layout:    l,
		hasImage:  snap.Phase() == caption.ImageSelected,
		overlay:   snap.Overlay(),
		preview:   u.previewLayout(),
		draft:     snap.Draft,
		status:    u.c.status,
		statusErr: u.c.statusErr,
	}
	if res := u.c.bitmap(snap.Image); res != nil && res.OK() {
		st.bitmap = res.Image
	}
	for i, b := range u.buttons {
		state := StateDefault
		switch i {
		case u.pressed:
			state = StatePressed
		case u.hover:
			state = StateHover
		}
		st.buttons = append(st.buttons, buttonView{btn: b, state: state})
	}
	if ch := u.c.chooser; ch != nil {
		st.chooser = ch.labels()
		st.selected = ch.selected
	}
	return st
}
