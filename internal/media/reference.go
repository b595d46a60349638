package media

import (
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedScheme is returned when a URI cannot be resolved to a local file.
var ErrUnsupportedScheme = errors.New("unsupported uri scheme")

// Reference identifies an image the user selected. The zero value means no
// image has been selected.
type Reference struct {
	uri string
}

// FromPath builds a Reference for a filesystem path. An empty path yields the
// zero Reference.
func FromPath(path string) Reference {
	path = strings.TrimSpace(path)
	if path == "" {
		return Reference{}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return Reference{uri: u.String()}
}

// ParseURI accepts either a file:// URI or a plain filesystem path.
func ParseURI(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reference{}, nil
	}
	if !strings.Contains(raw, "://") {
		return FromPath(raw), nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Reference{}, fmt.Errorf("parse %q: %w", raw, err)
	}
	if u.Scheme != "file" {
		return Reference{}, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
	return Reference{uri: u.String()}, nil
}

// IsZero reports whether no image is referenced.
func (r Reference) IsZero() bool { return r.uri == "" }

// URI returns the file:// form of the reference.
func (r Reference) URI() string { return r.uri }

func (r Reference) String() string {
	if r.uri == "" {
		return "<none>"
	}
	return r.uri
}

// Path returns the local filesystem path behind the reference.
func (r Reference) Path() string {
	if r.uri == "" {
		return ""
	}
	u, err := url.Parse(r.uri)
	if err != nil {
		return ""
	}
	return filepath.FromSlash(u.Path)
}

// Name returns the base file name.
func (r Reference) Name() string {
	p := r.Path()
	if p == "" {
		return ""
	}
	return filepath.Base(p)
}

// Open opens the referenced file for reading.
func (r Reference) Open() (*os.File, error) {
	if r.IsZero() {
		return nil, ErrNoReference
	}
	return os.Open(r.Path())
}

// MIMEType guesses the image type from the file extension and falls back to
// the generic image wildcard.
func (r Reference) MIMEType() string {
	ext := strings.ToLower(filepath.Ext(r.Path()))
	if ext == "" {
		return WildcardMIMEType
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return WildcardMIMEType
	}
	if i := strings.Index(t, ";"); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if !strings.HasPrefix(t, "image/") {
		return WildcardMIMEType
	}
	return t
}

// WildcardMIMEType is the generic image type handed to share targets.
const WildcardMIMEType = "image/*"
