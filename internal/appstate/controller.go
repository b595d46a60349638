package appstate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/example/captionshare/internal/caption"
	"github.com/example/captionshare/internal/clipboard"
	"github.com/example/captionshare/internal/media"
	"github.com/example/captionshare/internal/picker"
	"github.com/example/captionshare/internal/share"
)

// readClipboard is replaced in tests.
var readClipboard = clipboard.ReadText

// pickResult is delivered to the event loop when the picker returns.
type pickResult struct {
	ref media.Reference
	ok  bool
	err error
}

// shareResult is delivered to the event loop when a share finishes.
type shareResult struct {
	target string
	err    error
}

// chooser lists the targets offered for a pending share.
type chooser struct {
	req      share.Request
	targets  []share.Target
	selected int
}

func (c *chooser) labels() []string {
	out := make([]string, len(c.targets))
	for i, t := range c.targets {
		out[i] = fmt.Sprintf("%d. %s", i+1, t.Description())
	}
	return out
}

// controller owns the screen behaviour. All methods run on the event loop;
// blocking work is handed to spawn and its outcome comes back through post.
type controller struct {
	ctx       context.Context
	store     *caption.Store
	picker    picker.Picker
	gateway   *share.Gateway
	preferred string

	spawn func(func())
	post  func(interface{})

	onPicked func(media.Reference)

	decodedRef media.Reference
	decoded    media.Result

	status    string
	statusErr bool
	picking   bool
	sharing   bool
	chooser   *chooser
}

func (c *controller) setStatus(msg string, isErr bool) {
	c.status = msg
	c.statusErr = isErr
}

// selectPhoto starts the picker unless one is already open.
func (c *controller) selectPhoto() {
	if c.picking {
		return
	}
	if c.picker == nil {
		c.setStatus("no photo picker available", true)
		return
	}
	c.picking = true
	c.setStatus("Selecting photo...", false)
	p := c.picker
	ctx := c.ctx
	c.spawn(func() {
		ref, ok, err := p.Pick(ctx)
		c.post(pickResult{ref: ref, ok: ok, err: err})
	})
}

func (c *controller) handlePick(r pickResult) {
	c.picking = false
	switch {
	case r.err != nil:
		log.Printf("pick: %v", r.err)
		c.setStatus(r.err.Error(), true)
	case !r.ok || r.ref.IsZero():
		c.setStatus("", false)
	default:
		c.store.SetImage(r.ref)
		c.setStatus("Selected "+r.ref.Name(), false)
		if c.onPicked != nil {
			c.onPicked(r.ref)
		}
	}
}

// save commits the draft caption.
func (c *controller) save() {
	c.store.Save()
	c.setStatus("Caption saved", false)
}

// share builds a request for origin and sends it, opening the chooser when
// more than one target could take it.
func (c *controller) share(origin caption.Origin) {
	if c.sharing {
		return
	}
	snap := c.store.Snapshot()
	req := share.NewRequest(snap.Image, snap.ShareText(origin))
	targets := c.gateway.Targets()
	if len(targets) == 0 {
		c.setStatus(share.ErrNoTargets.Error(), true)
		return
	}
	if c.preferred != "" {
		if t, err := c.gateway.Lookup(c.preferred); err == nil {
			c.send(t.Name(), req)
			return
		}
		log.Printf("share target %s unavailable, asking", c.preferred)
	}
	if len(targets) == 1 {
		c.send(targets[0].Name(), req)
		return
	}
	c.chooser = &chooser{req: req, targets: targets}
}

func (c *controller) send(target string, req share.Request) {
	c.sharing = true
	c.setStatus("Sharing via "+target+"...", false)
	g := c.gateway
	ctx := c.ctx
	c.spawn(func() {
		err := g.Share(ctx, target, req)
		c.post(shareResult{target: target, err: err})
	})
}

func (c *controller) handleShare(r shareResult) {
	c.sharing = false
	if r.err != nil {
		if errors.Is(r.err, context.Canceled) {
			c.setStatus("", false)
			return
		}
		log.Printf("share: %v", r.err)
		c.setStatus(r.err.Error(), true)
		return
	}
	c.setStatus("Shared via "+r.target, false)
}

func (c *controller) chooserMove(delta int) {
	if c.chooser == nil {
		return
	}
	n := len(c.chooser.targets)
	c.chooser.selected = ((c.chooser.selected+delta)%n + n) % n
}

// chooserPick sends the pending request to target i.
func (c *controller) chooserPick(i int) {
	ch := c.chooser
	if ch == nil || i < 0 || i >= len(ch.targets) {
		return
	}
	c.chooser = nil
	c.send(ch.targets[i].Name(), ch.req)
}

func (c *controller) chooserConfirm() {
	if c.chooser != nil {
		c.chooserPick(c.chooser.selected)
	}
}

func (c *controller) chooserCancel() { c.chooser = nil }

// typeText appends s to the draft.
func (c *controller) typeText(s string) {
	if s == "" {
		return
	}
	c.store.SetDraft(c.store.Snapshot().Draft + s)
}

// backspace removes the last rune of the draft.
func (c *controller) backspace() {
	d := c.store.Snapshot().Draft
	if d == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(d)
	c.store.SetDraft(d[:len(d)-size])
}

// paste appends the clipboard text to the draft.
func (c *controller) paste() {
	text, err := readClipboard()
	if err != nil {
		log.Printf("paste: %v", err)
		c.setStatus("clipboard: "+err.Error(), true)
		return
	}
	c.typeText(singleLine(text))
}

// bitmap returns the decoded selected image, or nil when nothing usable is
// selected. The last decode is kept until the selection changes.
func (c *controller) bitmap(ref media.Reference) *media.Result {
	if ref.IsZero() {
		return nil
	}
	if ref != c.decodedRef {
		c.decodedRef = ref
		c.decoded = media.Decode(ref)
		if !c.decoded.OK() {
			log.Printf("decode: %v", c.decoded.Err)
		}
	}
	return &c.decoded
}

// singleLine folds line breaks into spaces. The caption field holds one line.
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
