// Package picker asks the host for a single image reference.
package picker

import (
	"context"

	"github.com/example/captionshare/internal/media"
)

// Picker returns zero or one image reference. ok is false with a nil error
// when the user cancels; callers then leave their state untouched.
type Picker interface {
	Pick(ctx context.Context) (ref media.Reference, ok bool, err error)
}

// Func adapts a function to the Picker interface.
type Func func(ctx context.Context) (media.Reference, bool, error)

func (f Func) Pick(ctx context.Context) (media.Reference, bool, error) { return f(ctx) }

// Static always returns the same reference. A zero reference behaves like a
// cancelled pick.
type Static struct {
	Ref media.Reference
}

func (s Static) Pick(ctx context.Context) (media.Reference, bool, error) {
	if err := ctx.Err(); err != nil {
		return media.Reference{}, false, err
	}
	if s.Ref.IsZero() {
		return media.Reference{}, false, nil
	}
	return s.Ref, true, nil
}

// ImageExtensions lists the file extensions offered by dialogs that filter
// by name rather than MIME type.
var ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp", "svg"}

// Title is the dialog title used by the platform pickers.
const Title = "Select photo"
