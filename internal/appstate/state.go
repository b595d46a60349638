package appstate

import (
	"context"
	"image"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/captionshare/internal/caption"
	"github.com/example/captionshare/internal/media"
	"github.com/example/captionshare/internal/picker"
	"github.com/example/captionshare/internal/preview"
	"github.com/example/captionshare/internal/share"
	"github.com/example/captionshare/internal/theme"
)

// ProgramTitle is the window title prefix.
const ProgramTitle = "CaptionShare"

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// AppState holds application configuration for the UI.
type AppState struct {
	Store       *caption.Store
	Picker      picker.Picker
	Gateway     *share.Gateway
	Theme       *theme.Theme
	Scale       float64
	ShareTarget string
	Title       string

	previewLayout func(width int) preview.Layout
	onPicked      func(media.Reference)

	updateCh chan struct{}

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithStore sets the caption store the screen edits.
func WithStore(s *caption.Store) Option { return func(a *AppState) { a.Store = s } }

// WithPicker sets the photo picker.
func WithPicker(p picker.Picker) Option { return func(a *AppState) { a.Picker = p } }

// WithGateway sets the share gateway.
func WithGateway(g *share.Gateway) Option { return func(a *AppState) { a.Gateway = g } }

// WithTheme sets the colours used by the window.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithScale multiplies every layout dimension.
func WithScale(scale float64) Option { return func(a *AppState) { a.Scale = scale } }

// WithShareTarget sends shares straight to the named target when it is
// available instead of asking.
func WithShareTarget(name string) Option { return func(a *AppState) { a.ShareTarget = name } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithPreviewLayout supplies the preview geometry for a viewport width.
func WithPreviewLayout(fn func(width int) preview.Layout) Option {
	return func(a *AppState) { a.previewLayout = fn }
}

// WithOnPicked registers a callback for each photo the user selects.
func WithOnPicked(fn func(media.Reference)) Option { return func(a *AppState) { a.onPicked = fn } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Scale:    1,
		Title:    ProgramTitle,
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	if a.Store == nil {
		a.Store = caption.NewStore()
	}
	if a.Gateway == nil {
		a.Gateway = share.New()
	}
	return a
}

// NotifyChanged schedules a repaint. Calls made before the previous repaint
// was picked up are coalesced.
func (a *AppState) NotifyChanged() {
	if a.updateCh == nil {
		return
	}
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// newController builds the controller for ctx. post delivers results of
// background work back to the event loop.
func (a *AppState) newController(ctx context.Context, post func(interface{})) *controller {
	return &controller{
		ctx:       ctx,
		store:     a.Store,
		picker:    a.Picker,
		gateway:   a.Gateway,
		preferred: a.ShareTarget,
		spawn:     func(fn func()) { go fn() },
		post:      post,
		onPicked:  a.onPicked,
	}
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	scale := a.Scale
	if scale <= 0 {
		scale = 1
	}
	layout := a.previewLayout
	if layout == nil {
		layout = func(w int) preview.Layout { return preview.DefaultLayout(w, scale) }
	}
	initial := windowSize(scale, layout(previewWidth(px(baseWidth, scale), scale)).Height)
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: initial.X, Height: initial.Y, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	defer a.notifyClose()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	unsubscribe := a.Store.Subscribe(func(caption.Snapshot) { a.NotifyChanged() })
	defer unsubscribe()

	c := a.newController(ctx, func(ev interface{}) { w.Send(ev) })
	u := newUI(c, a.Theme, scale, layout)
	u.resize(initial.X, initial.Y)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case pickResult:
			c.handlePick(e)
			w.Send(paint.Event{})
		case shareResult:
			c.handleShare(e)
			w.Send(paint.Event{})
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			u.resize(e.WidthPx, e.HeightPx)
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			st := u.paintState()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if u.handleMouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if u.handleKey(e) {
				w.Send(paint.Event{})
			}
			if u.quit {
				return
			}
		case error:
			log.Print(e)
		}
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	if st.width <= 0 || st.height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	renderFrame(b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
