package share

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/captionshare/internal/clipboard"
)

var (
	clipboardAvailable = clipboard.Available
	clipboardWrite     = clipboard.WriteShare
	clipboardImages    = clipboard.ImageSupport
)

// Clipboard copies the share to the system clipboard.
type Clipboard struct{}

func (Clipboard) Name() string { return "clipboard" }

func (Clipboard) Description() string {
	if clipboardImages {
		return "Copy caption and photo"
	}
	return "Copy caption"
}

func (Clipboard) Available() bool { return clipboardAvailable() }

func (Clipboard) Send(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var data []byte
	if clipboardImages && !req.Image.IsZero() {
		b, err := os.ReadFile(req.Image.Path())
		if err != nil {
			// The text still goes through.
			log.Printf("clipboard image: %v", err)
		} else {
			data = b
		}
	}
	if err := clipboardWrite(req.Text, data, req.MIMEType); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}
