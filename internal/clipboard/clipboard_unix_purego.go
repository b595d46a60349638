//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	initOnce sync.Once
	initErr  error
	backend  *x11Clipboard
)

// ImageSupport reports whether WriteShare publishes image bytes.
const ImageSupport = true

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		clip := &x11Clipboard{}
		if err := clip.initialize(); err != nil {
			initErr = err
			return
		}
		backend = clip
	})
	return initErr
}

// Available reports whether a display is present for the clipboard.
func Available() bool { return hasDisplay() }

// WriteText writes text data to the clipboard.
func WriteText(text string) error {
	return WriteShare(text, nil, "")
}

// WriteShare offers the text and, when mimeType names a concrete type, the
// image bytes under that type in a single selection. With neither the
// clipboard is left untouched.
func WriteShare(text string, img []byte, mimeType string) error {
	if !concreteType(mimeType) {
		img = nil
	}
	if text == "" && len(img) == 0 {
		return nil
	}
	if err := ensureInit(); err != nil {
		return err
	}
	var imageAtom xproto.Atom
	if len(img) > 0 {
		atom, err := internAtom(backend.conn, mimeType)
		if err != nil {
			return fmt.Errorf("intern %s: %w", mimeType, err)
		}
		imageAtom = atom
	}
	return backend.write(offer{text: []byte(text), image: img, imageType: imageAtom})
}

func concreteType(mimeType string) bool {
	return mimeType != "" && !strings.Contains(mimeType, "*")
}

// ReadText returns UTF-8 text data from the clipboard.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data, err := backend.readSelection(backend.atoms.utf8)
	if err != nil {
		data, err = backend.readSelection(xproto.AtomString)
		if err != nil {
			return "", err
		}
	}
	if len(data) == 0 {
		return "", fmt.Errorf("clipboard does not contain text data")
	}
	// Some owners terminate STRING responses with a null byte.
	if data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	return string(data), nil
}

var errConnClosed = errors.New("clipboard: X connection closed")

// offer is the content currently owned by the clipboard window.
type offer struct {
	text      []byte
	image     []byte
	imageType xproto.Atom
}

type x11Clipboard struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atomSet
	// chunk is the largest property payload one request may carry.
	chunk int
	mu    sync.RWMutex
	owned offer

	// transfers is only touched by the event loop.
	transfers map[transferKey]*incrTransfer
}

type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	property  xproto.Atom
	incr      xproto.Atom
}

// changePropertyHeader is the fixed part of a ChangeProperty request.
const changePropertyHeader = 24

// chunkLimit returns the largest payload, in bytes, that fits in a single
// ChangeProperty request for a server whose maximum request length is
// maxRequest four-byte units.
func chunkLimit(maxRequest uint16) int {
	n := int(maxRequest)*4 - changePropertyHeader
	n &^= 3
	if n < 4 {
		n = 4
	}
	return n
}

// transferKey identifies an incremental transfer by the requestor's window
// and the property it reads.
type transferKey struct {
	window   xproto.Window
	property xproto.Atom
}

// incrTransfer is the remaining data of an INCR selection transfer.
type incrTransfer struct {
	typ    xproto.Atom
	data   []byte
	offset int
	done   bool
}

// next returns the following chunk of at most limit bytes. After the data is
// exhausted it returns one empty chunk, which ends the transfer, and then
// reports false.
func (t *incrTransfer) next(limit int) ([]byte, bool) {
	if t.done {
		return nil, false
	}
	end := t.offset + limit
	if end > len(t.data) {
		end = len(t.data)
	}
	chunk := t.data[t.offset:end]
	t.offset = end
	if len(chunk) == 0 {
		t.done = true
	}
	return chunk, true
}

// selectionReply is what the owner writes to the requestor's property.
type selectionReply struct {
	typ    xproto.Atom
	format byte
	data   []byte
	// incr is set when data only announces the size and the payload follows
	// in chunks.
	incr *incrTransfer
}

// replyFor decides how a resolved payload is delivered. Payloads larger than
// limit are announced with an INCR property and sent in chunks.
func replyFor(atoms atomSet, typ xproto.Atom, format byte, payload []byte, limit int) selectionReply {
	if len(payload) <= limit || format != 8 {
		return selectionReply{typ: typ, format: format, data: payload}
	}
	size := make([]byte, 4)
	xgb.Put32(size, uint32(len(payload)))
	return selectionReply{
		typ:    atoms.incr,
		format: 32,
		data:   size,
		incr:   &incrTransfer{typ: typ, data: payload},
	}
}

// propertyLength converts a byte slice to the element count ChangeProperty
// expects for format.
func propertyLength(format byte, data []byte) uint32 {
	if format == 32 {
		return uint32(len(data) / 4)
	}
	if format == 16 {
		return uint32(len(data) / 2)
	}
	return uint32(len(data))
}

func (c *x11Clipboard) initialize() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return err
	}
	const eventMask = xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root, 0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, []uint32{eventMask}).Check(); err != nil {
		conn.Close()
		return err
	}
	atoms, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return err
	}
	c.conn = conn
	c.window = window
	c.atoms = atoms
	c.chunk = chunkLimit(setup.MaximumRequestLength)
	c.transfers = map[transferKey]*incrTransfer{}
	go c.eventLoop()
	return nil
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}

func internAtoms(conn *xgb.Conn) (atomSet, error) {
	names := []string{"CLIPBOARD", "TARGETS", "UTF8_STRING", "text/plain;charset=utf-8", "CAPTIONSHARE_CLIPBOARD", "INCR"}
	atoms := make([]xproto.Atom, len(names))
	for i, name := range names {
		atom, err := internAtom(conn, name)
		if err != nil {
			return atomSet{}, fmt.Errorf("intern %s: %w", name, err)
		}
		atoms[i] = atom
	}
	return atomSet{clipboard: atoms[0], targets: atoms[1], utf8: atoms[2], textPlain: atoms[3], property: atoms[4], incr: atoms[5]}, nil
}

func (c *x11Clipboard) write(o offer) error {
	c.mu.Lock()
	c.owned = offer{
		text:      append([]byte(nil), o.text...),
		image:     append([]byte(nil), o.image...),
		imageType: o.imageType,
	}
	c.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(c.conn, c.window, c.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (c *x11Clipboard) eventLoop() {
	for {
		ev, err := c.conn.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		if err != nil {
			// Requestors may vanish mid-transfer; their errors are expected.
			continue
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			c.handleSelectionRequest(e)
		case xproto.SelectionClearEvent:
			c.mu.Lock()
			c.owned = offer{}
			c.mu.Unlock()
		case xproto.PropertyNotifyEvent:
			if e.State == xproto.PropertyDelete {
				c.continueTransfer(transferKey{window: e.Window, property: e.Atom})
			}
		case xproto.DestroyNotifyEvent:
			for k := range c.transfers {
				if k.window == e.Window {
					delete(c.transfers, k)
				}
			}
		}
	}
}

// targetsFor lists the conversion targets advertised for o.
func targetsFor(atoms atomSet, o offer) []xproto.Atom {
	targets := []xproto.Atom{atoms.targets}
	if len(o.text) > 0 {
		targets = append(targets, atoms.utf8, xproto.AtomString, atoms.textPlain)
	}
	if len(o.image) > 0 && o.imageType != xproto.AtomNone {
		targets = append(targets, o.imageType)
	}
	return targets
}

// payloadFor resolves a conversion request against o. ok is false when the
// target cannot be served.
func payloadFor(atoms atomSet, o offer, target xproto.Atom) (typ xproto.Atom, format byte, data []byte, ok bool) {
	switch {
	case target == atoms.targets:
		return xproto.AtomAtom, 32, atomsToBytes(targetsFor(atoms, o)), true
	case target == atoms.utf8 || target == xproto.AtomString || target == atoms.textPlain:
		if len(o.text) == 0 {
			return 0, 0, nil, false
		}
		return atoms.utf8, 8, o.text, true
	case target != xproto.AtomNone && target == o.imageType:
		if len(o.image) == 0 {
			return 0, 0, nil, false
		}
		return o.imageType, 8, o.image, true
	}
	return 0, 0, nil, false
}

func (c *x11Clipboard) handleSelectionRequest(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}

	c.mu.RLock()
	owned := c.owned
	c.mu.RUnlock()

	typ, format, payload, ok := payloadFor(c.atoms, owned, e.Target)
	if !ok {
		property = xproto.AtomNone
	}
	if property != xproto.AtomNone {
		r := replyFor(c.atoms, typ, format, payload, c.chunk)
		if r.incr != nil {
			// The requestor's deletes of the property drive the chunks.
			key := transferKey{window: e.Requestor, property: property}
			c.transfers[key] = r.incr
			const mask = xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify
			xproto.ChangeWindowAttributes(c.conn, e.Requestor, xproto.CwEventMask, []uint32{mask})
		}
		xproto.ChangeProperty(c.conn, xproto.PropModeReplace, e.Requestor, property, r.typ, r.format, propertyLength(r.format, r.data), r.data)
	}

	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(c.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

// continueTransfer writes the next chunk of the transfer for key. The final
// empty chunk ends the transfer.
func (c *x11Clipboard) continueTransfer(key transferKey) {
	t, ok := c.transfers[key]
	if !ok {
		return
	}
	chunk, ok := t.next(c.chunk)
	if !ok {
		delete(c.transfers, key)
		return
	}
	xproto.ChangeProperty(c.conn, xproto.PropModeReplace, key.window, key.property, t.typ, 8, uint32(len(chunk)), chunk)
	if t.done {
		delete(c.transfers, key)
		c.releaseRequestor(key.window)
	}
}

// releaseRequestor stops listening to window once no transfer uses it.
func (c *x11Clipboard) releaseRequestor(window xproto.Window) {
	for k := range c.transfers {
		if k.window == window {
			return
		}
	}
	xproto.ChangeWindowAttributes(c.conn, window, xproto.CwEventMask, []uint32{0})
}

func (c *x11Clipboard) readSelection(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0, xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	if err := xproto.DeletePropertyChecked(conn, window, c.atoms.property).Check(); err != nil {
		return nil, err
	}
	if err := xproto.ConvertSelectionChecked(conn, window, c.atoms.clipboard, target, c.atoms.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}

	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		if ev == nil {
			return nil, errConnClosed
		}
		e, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if e.Property == xproto.AtomNone {
			return nil, fmt.Errorf("clipboard target unavailable")
		}
		if e.Property != c.atoms.property {
			continue
		}
		prop, perr := xproto.GetProperty(conn, true, window, c.atoms.property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		if prop.Type == c.atoms.incr {
			return c.readIncremental(conn, window)
		}
		data := make([]byte, len(prop.Value))
		copy(data, prop.Value)
		return data, nil
	}
}

// readIncremental collects an INCR transfer. Deleting the property, done by
// GetProperty, asks the owner for the next chunk; an empty chunk ends it.
func (c *x11Clipboard) readIncremental(conn *xgb.Conn, window xproto.Window) ([]byte, error) {
	var data []byte
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		if ev == nil {
			return nil, errConnClosed
		}
		e, ok := ev.(xproto.PropertyNotifyEvent)
		if !ok || e.Atom != c.atoms.property || e.State != xproto.PropertyNewValue {
			continue
		}
		prop, perr := xproto.GetProperty(conn, true, window, c.atoms.property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		if len(prop.Value) == 0 {
			return data, nil
		}
		data = append(data, prop.Value...)
	}
}

func atomsToBytes(atoms []xproto.Atom) []byte {
	buf := make([]byte, len(atoms)*4)
	for i, atom := range atoms {
		xgb.Put32(buf[i*4:], uint32(atom))
	}
	return buf
}
