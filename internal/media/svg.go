package media

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// svgFallbackSize is used when a document declares no usable view box.
const svgFallbackSize = 512

// svgMaxSide caps the longer side of a rasterised document. Larger view
// boxes are scaled down with their aspect ratio kept.
const svgMaxSide = 8192

func isSVGData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.HasPrefix(header, []byte("<svg")) ||
		bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte("xmlns=\"http://www.w3.org/2000/svg\""))
}

func svgSize(data []byte) (int, int) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return svgFallbackSize, svgFallbackSize
	}
	return fitSVG(icon.ViewBox.W, icon.ViewBox.H)
}

// fitSVG turns a view box into a raster size no larger than svgMaxSide on
// either side.
func fitSVG(vw, vh float64) (int, int) {
	if !(vw > 0) || !(vh > 0) || math.IsInf(vw, 0) || math.IsInf(vh, 0) {
		return svgFallbackSize, svgFallbackSize
	}
	if long := math.Max(vw, vh); long > svgMaxSide {
		f := svgMaxSide / long
		vw, vh = vw*f, vh*f
	}
	w := int(vw + 0.5)
	h := int(vh + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// RasterizeSVG renders an SVG document into a transparent w×h bitmap.
func RasterizeSVG(data []byte, w, h int) (*image.RGBA, error) {
	if err := checkDimensions(w, h); err != nil {
		return nil, fmt.Errorf("svg target: %w", err)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}
