//go:build linux || freebsd || openbsd || netbsd || dragonfly

package picker

// Default returns the portal picker.
func Default() Picker {
	return Portal{Title: Title}
}
