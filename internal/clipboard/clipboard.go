// Package clipboard publishes share payloads to the system clipboard.
//
// Two backends exist on X11 hosts: golang.design/x/clipboard when cgo is
// available, and a pure Go implementation on github.com/jezek/xgb otherwise.
// Only the pure Go backend can offer the image bytes alongside the text.
package clipboard

import (
	"errors"
	"os"
)

var errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
