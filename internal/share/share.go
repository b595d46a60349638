// Package share hands an image reference and caption text to a share target.
package share

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/captionshare/internal/media"
)

var (
	// ErrNoTargets is returned when no share target is available.
	ErrNoTargets = errors.New("no share targets available")
	// ErrUnknownTarget is returned when a named target does not exist or is
	// not available.
	ErrUnknownTarget = errors.New("unknown share target")
)

// Request is a single share. Image may be the zero reference, in which case
// only the text is shared.
type Request struct {
	Image    media.Reference
	Text     string
	MIMEType string
}

// Target delivers a Request somewhere outside the application.
type Target interface {
	Name() string
	Description() string
	Available() bool
	Send(ctx context.Context, req Request) error
}

// Gateway selects a target and forwards requests to it.
type Gateway struct {
	targets []Target
	// OnShared is called after a target accepted a request.
	OnShared func(target string, req Request)
}

// New returns a Gateway over targets, in preference order.
func New(targets ...Target) *Gateway {
	var ts []Target
	for _, t := range targets {
		if t != nil {
			ts = append(ts, t)
		}
	}
	return &Gateway{targets: ts}
}

// DefaultTargets returns the built-in targets. command is the configured
// external share command, which may be empty.
func DefaultTargets(command string) []Target {
	return []Target{Email{}, Clipboard{}, NewCommand(command)}
}

// Targets returns the available targets in preference order.
func (g *Gateway) Targets() []Target {
	var out []Target
	for _, t := range g.targets {
		if t.Available() {
			out = append(out, t)
		}
	}
	return out
}

// Lookup returns the available target called name. An empty name selects
// the first available target.
func (g *Gateway) Lookup(name string) (Target, error) {
	available := g.Targets()
	if len(available) == 0 {
		return nil, ErrNoTargets
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return available[0], nil
	}
	for _, t := range available {
		if strings.EqualFold(t.Name(), name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, name)
}

// Share sends req through the target called name. The image is optional and
// an empty MIME type defaults to the image wildcard.
func (g *Gateway) Share(ctx context.Context, name string, req Request) error {
	t, err := g.Lookup(name)
	if err != nil {
		return err
	}
	if req.MIMEType == "" {
		req.MIMEType = media.WildcardMIMEType
	}
	if err := t.Send(ctx, req); err != nil {
		return fmt.Errorf("share via %s: %w", t.Name(), err)
	}
	if g.OnShared != nil {
		g.OnShared(t.Name(), req)
	}
	return nil
}

// NewRequest builds a request for ref and text, taking the MIME type from
// the reference when one is present.
func NewRequest(ref media.Reference, text string) Request {
	mimeType := media.WildcardMIMEType
	if !ref.IsZero() {
		mimeType = ref.MIMEType()
	}
	return Request{Image: ref, Text: text, MIMEType: mimeType}
}
