//go:build linux || freebsd || openbsd || netbsd || dragonfly

package share

import (
	"context"
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"

	"github.com/example/captionshare/internal/portal"
)

const composeEmailMethod = "org.freedesktop.portal.Email.ComposeEmail"

var portalAvailable = portal.Available

// Email opens a draft in the desktop mail client through the portal, with
// the text as the body and the image attached.
type Email struct{}

func (Email) Name() string        { return "email" }
func (Email) Description() string { return "Compose email" }
func (Email) Available() bool     { return portalAvailable() }

func emailOptions(body string, attachments []dbus.UnixFD) map[string]dbus.Variant {
	opts := map[string]dbus.Variant{
		"body": dbus.MakeVariant(body),
	}
	if len(attachments) > 0 {
		opts["attachment_fds"] = dbus.MakeVariant(attachments)
	}
	return opts
}

func (Email) Send(ctx context.Context, req Request) error {
	var fds []dbus.UnixFD
	if !req.Image.IsZero() {
		f, err := os.Open(req.Image.Path())
		if err != nil {
			return fmt.Errorf("attach %s: %w", req.Image.Name(), err)
		}
		defer f.Close()
		fds = append(fds, dbus.UnixFD(f.Fd()))
	}

	conn, err := portal.Connect()
	if err != nil {
		return err
	}
	defer conn.Close()

	resp, err := portal.Call(ctx, conn, composeEmailMethod, emailOptions(req.Text, fds), "")
	if err != nil {
		return fmt.Errorf("compose email: %w", err)
	}
	if err := resp.Err(); err != nil {
		return fmt.Errorf("compose email: %w", err)
	}
	return nil
}
