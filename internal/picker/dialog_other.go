//go:build !linux && !freebsd && !openbsd && !netbsd && !dragonfly

package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/sqweek/dialog"

	"github.com/example/captionshare/internal/media"
)

// Dialog picks through the native file dialog.
type Dialog struct {
	Title string
}

func (d Dialog) Pick(ctx context.Context) (media.Reference, bool, error) {
	if err := ctx.Err(); err != nil {
		return media.Reference{}, false, err
	}
	title := d.Title
	if title == "" {
		title = Title
	}
	path, err := dialog.File().Title(title).Filter("Images", ImageExtensions...).Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return media.Reference{}, false, nil
	}
	if err != nil {
		return media.Reference{}, false, fmt.Errorf("file dialog: %w", err)
	}
	if path == "" {
		return media.Reference{}, false, nil
	}
	return media.FromPath(path), true, nil
}

// Default returns the native dialog picker.
func Default() Picker {
	return Dialog{Title: Title}
}
