package caption

import (
	"math"
	"strconv"
	"strings"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether both values are finite and inside their ranges.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// String returns the coordinate line drawn under the caption.
func (c Coordinates) String() string {
	return "Lat: " + formatDegrees(c.Latitude) + ", Lon: " + formatDegrees(c.Longitude)
}

// OverlayText joins a caption with the coordinate line when coordinates are
// present. The caption is used verbatim and no trailing newline is added.
func OverlayText(text string, coords *Coordinates) string {
	if coords == nil {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text) + 32)
	sb.WriteString(text)
	sb.WriteByte('\n')
	sb.WriteString(coords.String())
	return sb.String()
}

// formatDegrees prints the shortest decimal form, keeping a ".0" on integral
// values so 36 reads as "36.0".
func formatDegrees(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
