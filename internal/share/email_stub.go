//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package share

import (
	"context"
	"errors"
)

// Email is unavailable without xdg-desktop-portal.
type Email struct{}

func (Email) Name() string        { return "email" }
func (Email) Description() string { return "Compose email" }
func (Email) Available() bool     { return false }

func (Email) Send(context.Context, Request) error {
	return errors.New("email sharing is not supported on this platform")
}
