//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
)

var errUnsupported = errors.New("clipboard operations are not supported on this platform")

// ImageSupport reports whether WriteShare publishes image bytes.
const ImageSupport = false

// Available reports whether a clipboard can be reached.
func Available() bool { return false }

func WriteText(string) error {
	return errUnsupported
}

func ReadText() (string, error) {
	return "", errUnsupported
}

func WriteShare(string, []byte, string) error {
	return errUnsupported
}
