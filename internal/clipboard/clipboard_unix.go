//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

// ImageSupport reports whether WriteShare publishes image bytes. This
// backend holds a single format at a time, so shares carry text only.
const ImageSupport = false

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

// Available reports whether a display is present for the clipboard.
func Available() bool { return hasDisplay() }

// WriteText writes text data to the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// ReadText returns UTF-8 text data from the clipboard.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return "", fmt.Errorf("clipboard does not contain text data")
	}
	return string(data), nil
}

// WriteShare publishes the share text. The image bytes are ignored by this
// backend, so an empty text leaves the clipboard untouched.
func WriteShare(text string, _ []byte, _ string) error {
	if text == "" {
		return nil
	}
	return WriteText(text)
}
