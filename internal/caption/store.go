package caption

import (
	"fmt"
	"strings"
	"sync"

	"github.com/example/captionshare/internal/media"
)

// Phase is the coarse screen state derived from the image selection.
type Phase int

const (
	NoImageSelected Phase = iota
	ImageSelected
)

func (p Phase) String() string {
	switch p {
	case NoImageSelected:
		return "no-image"
	case ImageSelected:
		return "image-selected"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Origin identifies which control asked for a share.
type Origin int

const (
	// OriginButton is the explicit share button.
	OriginButton Origin = iota
	// OriginKeyboard is the "done" key in the caption field.
	OriginKeyboard
)

// KeyboardSource selects the caption the keyboard "done" action shares.
type KeyboardSource string

const (
	SourceDraft KeyboardSource = "draft"
	SourceSaved KeyboardSource = "saved"
)

// ParseKeyboardSource validates a configured keyboard source. An empty value
// selects SourceSaved.
func ParseKeyboardSource(s string) (KeyboardSource, error) {
	switch KeyboardSource(strings.ToLower(strings.TrimSpace(s))) {
	case "", SourceSaved:
		return SourceSaved, nil
	case SourceDraft:
		return SourceDraft, nil
	default:
		return "", fmt.Errorf("unknown keyboard share source %q (want draft or saved)", s)
	}
}

// Snapshot is an immutable copy of the screen state.
type Snapshot struct {
	Revision       uint64
	Image          media.Reference
	Draft          string
	Saved          string
	Coordinates    *Coordinates
	KeyboardSource KeyboardSource
}

// Phase reports whether an image has been selected.
func (s Snapshot) Phase() Phase {
	if s.Image.IsZero() {
		return NoImageSelected
	}
	return ImageSelected
}

// Overlay returns the text drawn over the preview.
func (s Snapshot) Overlay() string { return OverlayText(s.Saved, s.Coordinates) }

// ShareText returns the text payload for a share started from origin. The
// button always shares the saved caption. The keyboard shares the saved
// caption too unless KeyboardSource selects the draft.
func (s Snapshot) ShareText(origin Origin) string {
	if origin == OriginKeyboard && s.KeyboardSource == SourceDraft {
		return OverlayText(s.Draft, s.Coordinates)
	}
	return OverlayText(s.Saved, s.Coordinates)
}

type listener struct {
	id int
	fn func(Snapshot)
}

// Store holds the caption state and notifies subscribers after each change.
type Store struct {
	mu        sync.Mutex
	snap      Snapshot
	listeners []listener
	nextID    int
}

// Option configures a Store at creation.
type Option func(*Store)

// WithImage seeds the selected image.
func WithImage(ref media.Reference) Option { return func(s *Store) { s.snap.Image = ref } }

// WithCaption seeds both the draft and the saved caption.
func WithCaption(text string) Option {
	return func(s *Store) {
		s.snap.Draft = text
		s.snap.Saved = text
	}
}

// WithCoordinates seeds the optional coordinates.
func WithCoordinates(c *Coordinates) Option {
	return func(s *Store) { s.snap.Coordinates = cloneCoordinates(c) }
}

// WithKeyboardSource selects the caption shared by the keyboard action.
func WithKeyboardSource(src KeyboardSource) Option {
	return func(s *Store) { s.snap.KeyboardSource = src }
}

// NewStore creates a Store with the provided options.
func NewStore(opts ...Option) *Store {
	s := &Store{snap: Snapshot{KeyboardSource: SourceSaved}}
	for _, o := range opts {
		o(s)
	}
	if s.snap.KeyboardSource == "" {
		s.snap.KeyboardSource = SourceSaved
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// SetDraft replaces the draft caption.
func (s *Store) SetDraft(text string) {
	s.update(func(snap *Snapshot) bool {
		if snap.Draft == text {
			return false
		}
		snap.Draft = text
		return true
	})
}

// Save commits the draft caption as the saved caption.
func (s *Store) Save() {
	s.update(func(snap *Snapshot) bool {
		if snap.Saved == snap.Draft {
			return false
		}
		snap.Saved = snap.Draft
		return true
	})
}

// SetImage replaces the selected image. A zero reference is ignored so a
// cancelled pick never clears an earlier selection.
func (s *Store) SetImage(ref media.Reference) {
	if ref.IsZero() {
		return
	}
	s.update(func(snap *Snapshot) bool {
		if snap.Image == ref {
			return false
		}
		snap.Image = ref
		return true
	})
}

// SetCoordinates replaces the optional coordinates. nil removes them.
func (s *Store) SetCoordinates(c *Coordinates) {
	s.update(func(snap *Snapshot) bool {
		if equalCoordinates(snap.Coordinates, c) {
			return false
		}
		snap.Coordinates = cloneCoordinates(c)
		return true
	})
}

// Subscribe registers fn to be called with the new state after every change.
// Listeners run synchronously in subscription order, outside the store lock.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) update(fn func(*Snapshot) bool) {
	s.mu.Lock()
	if !fn(&s.snap) {
		s.mu.Unlock()
		return
	}
	s.snap.Revision++
	snap := s.copyLocked()
	listeners := make([]listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(snap)
	}
}

func (s *Store) copyLocked() Snapshot {
	out := s.snap
	out.Coordinates = cloneCoordinates(s.snap.Coordinates)
	return out
}

func cloneCoordinates(c *Coordinates) *Coordinates {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func equalCoordinates(a, b *Coordinates) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
