package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/example/captionshare/internal/media"
	"github.com/example/captionshare/internal/portal"
)

const openFileMethod = "org.freedesktop.portal.FileChooser.OpenFile"

// Portal picks through the xdg-desktop-portal FileChooser interface.
type Portal struct {
	Title string
	// Parent is the portal parent window identifier, usually empty.
	Parent string
}

type filterRule struct {
	Kind    uint32
	Pattern string
}

type fileFilter struct {
	Name  string
	Rules []filterRule
}

// imagesFilter matches any image MIME type.
var imagesFilter = fileFilter{Name: "Images", Rules: []filterRule{{Kind: 1, Pattern: "image/*"}}}

func openFileOptions() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"modal":          dbus.MakeVariant(true),
		"multiple":       dbus.MakeVariant(false),
		"filters":        dbus.MakeVariant([]fileFilter{imagesFilter}),
		"current_filter": dbus.MakeVariant(imagesFilter),
	}
}

func (p Portal) Pick(ctx context.Context) (media.Reference, bool, error) {
	conn, err := portal.Connect()
	if err != nil {
		return media.Reference{}, false, err
	}
	defer conn.Close()

	title := p.Title
	if title == "" {
		title = Title
	}
	resp, err := portal.Call(ctx, conn, openFileMethod, openFileOptions(), p.Parent, title)
	if err != nil {
		return media.Reference{}, false, fmt.Errorf("open file: %w", err)
	}
	return referenceFromResponse(resp)
}

func referenceFromResponse(resp portal.Response) (media.Reference, bool, error) {
	if err := resp.Err(); err != nil {
		if errors.Is(err, portal.ErrCancelled) {
			return media.Reference{}, false, nil
		}
		return media.Reference{}, false, fmt.Errorf("open file: %w", err)
	}
	v, ok := resp.Results["uris"]
	if !ok {
		return media.Reference{}, false, fmt.Errorf("open file: response missing uris")
	}
	uris, ok := v.Value().([]string)
	if !ok || len(uris) == 0 {
		return media.Reference{}, false, fmt.Errorf("open file: response has no uri")
	}
	ref, err := media.ParseURI(uris[0])
	if err != nil {
		return media.Reference{}, false, fmt.Errorf("open file: %w", err)
	}
	if ref.IsZero() {
		return media.Reference{}, false, fmt.Errorf("open file: empty uri")
	}
	return ref, true, nil
}
