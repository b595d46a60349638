package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNoReference reports that there was nothing to decode.
	ErrNoReference = errors.New("no image reference")
	// ErrOpen wraps failures to read the referenced bytes.
	ErrOpen = errors.New("open image")
	// ErrDecode wraps failures to turn bytes into a bitmap.
	ErrDecode = errors.New("decode image")
	// ErrTooLarge is wrapped with ErrDecode when an image declares more
	// pixels than MaxPixels.
	ErrTooLarge = errors.New("image too large")
)

// MaxPixels bounds the bitmap a decode may allocate.
const MaxPixels = 64 << 20

// checkDimensions rejects sizes that are empty or exceed MaxPixels.
func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid size %dx%d", w, h)
	}
	if int64(w)*int64(h) > MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, w, h, MaxPixels)
	}
	return nil
}

// Result is the outcome of decoding an image. Exactly one of Image or Err is
// set.
type Result struct {
	Image  *image.RGBA
	Format string
	Err    error
}

// OK reports whether a bitmap is available.
func (r Result) OK() bool { return r.Err == nil && r.Image != nil }

// Decode opens and decodes the referenced image. Failures are returned in the
// Result rather than as a separate error so callers can render "no image"
// while keeping the reason for diagnostics.
func Decode(ref Reference) Result {
	if ref.IsZero() {
		return Result{Err: ErrNoReference}
	}
	f, err := ref.Open()
	if err != nil {
		return Result{Err: fmt.Errorf("%w %s: %w", ErrOpen, ref.Name(), err)}
	}
	defer f.Close()
	res := DecodeReader(f)
	if res.Err != nil {
		res.Err = fmt.Errorf("%s: %w", ref.Name(), res.Err)
	}
	return res
}

// DecodeReader decodes raster formats registered with the image package and
// SVG documents.
func DecodeReader(r io.Reader) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{Err: fmt.Errorf("%w: decoder panic: %v", ErrDecode, p)}
		}
	}()
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %w", ErrOpen, err)}
	}
	if isSVGData(data) {
		w, h := svgSize(data)
		img, err := RasterizeSVG(data, w, h)
		if err != nil {
			return Result{Err: fmt.Errorf("%w: %w", ErrDecode, err)}
		}
		return Result{Image: img, Format: "svg"}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %w", ErrDecode, err)}
	}
	if err := checkDimensions(cfg.Width, cfg.Height); err != nil {
		return Result{Err: fmt.Errorf("%w: %w", ErrDecode, err)}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %w", ErrDecode, err)}
	}
	return Result{Image: toRGBA(img), Format: format}
}

// toRGBA copies img into an RGBA bitmap whose origin is (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
