package media

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, dir string, w, h int, fill color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	path := filepath.Join(dir, "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return path
}

func TestDecodePNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), 4, 3, color.RGBA{R: 255, A: 255})
	res := Decode(FromPath(path))
	if !res.OK() {
		t.Fatalf("expected decoded image, got %v", res.Err)
	}
	if res.Format != "png" {
		t.Fatalf("format = %q, want png", res.Format)
	}
	if got := res.Image.Bounds(); got != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds = %v", got)
	}
	if got := res.Image.RGBAAt(1, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("pixel = %+v", got)
	}
}

func TestDecodeMissingFile(t *testing.T) {
	ref := FromPath(filepath.Join(t.TempDir(), "missing.png"))
	res := Decode(ref)
	if res.OK() {
		t.Fatal("expected failure for missing file")
	}
	if res.Image != nil {
		t.Fatal("expected no bitmap")
	}
	if !errors.Is(res.Err, ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", res.Err)
	}
	if !errors.Is(res.Err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", res.Err)
	}
}

func TestDecodeZeroReference(t *testing.T) {
	res := Decode(Reference{})
	if !errors.Is(res.Err, ErrNoReference) {
		t.Fatalf("expected ErrNoReference, got %v", res.Err)
	}
}

func TestDecodeCorruptData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("definitely not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	res := Decode(FromPath(path))
	if !errors.Is(res.Err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", res.Err)
	}
	if want := "broken.jpg"; !strings.Contains(res.Err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, res.Err)
	}
}

func TestDecodeSVG(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 10" width="20" height="10">
<rect x="0" y="0" width="20" height="10" fill="#00ff00"/>
</svg>`
	res := DecodeReader(strings.NewReader(doc))
	if !res.OK() {
		t.Fatalf("expected svg to decode, got %v", res.Err)
	}
	if res.Format != "svg" {
		t.Fatalf("format = %q, want svg", res.Format)
	}
	if got := res.Image.Bounds(); got != image.Rect(0, 0, 20, 10) {
		t.Fatalf("bounds = %v", got)
	}
	if got := res.Image.RGBAAt(10, 5); got.G < 200 || got.A == 0 {
		t.Fatalf("expected green fill, got %+v", got)
	}
}

// oversizedPNG returns a valid PNG whose header declares w×h pixels.
func oversizedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	// Signature, then the IHDR chunk: length, type, 13 data bytes, CRC.
	binary.BigEndian.PutUint32(data[16:], w)
	binary.BigEndian.PutUint32(data[20:], h)
	binary.BigEndian.PutUint32(data[29:], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecodeRejectsOversizedImage(t *testing.T) {
	res := DecodeReader(bytes.NewReader(oversizedPNG(t, 100000, 100000)))
	if res.OK() || res.Image != nil {
		t.Fatal("expected oversized image to be rejected")
	}
	if !errors.Is(res.Err, ErrDecode) || !errors.Is(res.Err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrDecode and ErrTooLarge", res.Err)
	}
}

func TestCheckDimensions(t *testing.T) {
	if err := checkDimensions(4000, 3000); err != nil {
		t.Fatalf("12 megapixels rejected: %v", err)
	}
	if err := checkDimensions(60000, 60000); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v", err)
	}
	if err := checkDimensions(0, 10); err == nil || errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v", err)
	}
}

func TestFitSVG(t *testing.T) {
	tests := []struct {
		name   string
		vw, vh float64
		w, h   int
	}{
		{name: "small", vw: 20, vh: 10, w: 20, h: 10},
		{name: "huge square", vw: 60000, vh: 60000, w: svgMaxSide, h: svgMaxSide},
		{name: "huge wide", vw: 60000, vh: 30000, w: svgMaxSide, h: svgMaxSide / 2},
		{name: "sliver", vw: 1e9, vh: 1, w: svgMaxSide, h: 1},
		{name: "empty", vw: 0, vh: 10, w: svgFallbackSize, h: svgFallbackSize},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, h := fitSVG(tc.vw, tc.vh)
			if w != tc.w || h != tc.h {
				t.Fatalf("fitSVG(%v, %v) = %dx%d, want %dx%d", tc.vw, tc.vh, w, h, tc.w, tc.h)
			}
			if err := checkDimensions(w, h); err != nil {
				t.Fatalf("fitted size rejected: %v", err)
			}
		})
	}
}

func TestRasterizeSVGRejectsOversizedTarget(t *testing.T) {
	doc := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"></svg>`)
	if _, err := RasterizeSVG(doc, 100000, 100000); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v", err)
	}
}

func TestToRGBARebasesOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 8, 9))
	src.Set(5, 5, color.NRGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	res := DecodeReader(&buf)
	if !res.OK() {
		t.Fatalf("decode: %v", res.Err)
	}
	if res.Image.Bounds().Min != (image.Point{}) {
		t.Fatalf("expected zero origin, got %v", res.Image.Bounds())
	}
}
