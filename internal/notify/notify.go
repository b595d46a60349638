package notify

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/captionshare/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventPick emits a notification when a photo is selected.
	EventPick Event = "pick"
	// EventShare emits a notification when a share target accepts a share.
	EventShare Event = "share"
	// EventCopy emits a notification when a share lands on the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.DefaultAppName,
		Events: map[Event]EventPreference{
			EventPick:  {Template: "Selected %s"},
			EventShare: {Template: "Shared via %s"},
			EventCopy:  {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences reads configuration from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("CAPTIONSHARE_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("CAPTIONSHARE_NOTIFY_PICK_TEXT", EventPick)
	apply("CAPTIONSHARE_NOTIFY_SHARE_TEXT", EventShare)
	apply("CAPTIONSHARE_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

var platformNotify = platform.Notify

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Enabled reports whether notifications for event are switched on.
func (n *Notifier) Enabled(event Event) bool {
	return n.enabledFor(event)
}

// Pick announces the selected photo, using it as the notification icon.
func (n *Notifier) Pick(path string) {
	if !n.enabledFor(EventPick) {
		return
	}
	n.dispatch(EventPick, filepath.Base(path), iconOptions(path))
}

// Share announces a completed share through target.
func (n *Notifier) Share(target, imagePath string) {
	if !n.enabledFor(EventShare) {
		return
	}
	n.dispatch(EventShare, target, iconOptions(imagePath))
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "caption"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func iconOptions(path string) platform.Options {
	opts := platform.Options{}
	if strings.TrimSpace(path) == "" {
		return opts
	}
	if abs, err := filepath.Abs(path); err == nil {
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	return opts
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := platformNotify(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func (n *Notifier) template(event Event) string {
	if n == nil {
		return ""
	}
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}
