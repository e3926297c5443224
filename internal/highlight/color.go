package highlight

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color tags derived from highlight hue
const (
	TagRed    = "Red"
	TagOrange = "Orange"
	TagYellow = "Yellow"
	TagGreen  = "Green"
	TagBlue   = "Blue"
	TagPurple = "Purple"
)

// DefaultColor is reported for highlights that carry no /C entry
const DefaultColor = "#FFEB3B"

// TagForHue buckets a hue in degrees. Saturation and lightness are not
// considered, so near-white highlights still get a hue tag.
func TagForHue(h float64) string {
	switch {
	case math.IsNaN(h) || h < 0 || h > 360:
		return TagYellow
	case h >= 345 || h <= 15:
		return TagRed
	case h <= 45:
		return TagOrange
	case h <= 85:
		return TagYellow
	case h <= 160:
		return TagGreen
	case h <= 260:
		return TagBlue
	default:
		return TagPurple
	}
}

// ClassifyRGB maps 8-bit RGB channels to a color tag
func ClassifyRGB(r, g, b int) string {
	if !inByteRange(r) || !inByteRange(g) || !inByteRange(b) {
		return TagYellow
	}
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, _, _ := c.Hsl()
	return TagForHue(h)
}

// ClassifyColor tags a 0..1 RGB triple as read from an annotation
func ClassifyColor(rgb []float64) (string, bool) {
	if len(rgb) < 3 {
		return "", false
	}
	return ClassifyRGB(toByte(rgb[0]), toByte(rgb[1]), toByte(rgb[2])), true
}

// ParseColor renders a 0..1 RGB triple as "rgb(R, G, B)"
func ParseColor(rgb []float64) string {
	if len(rgb) < 3 {
		return DefaultColor
	}
	return fmt.Sprintf("rgb(%d, %d, %d)", toByte(rgb[0]), toByte(rgb[1]), toByte(rgb[2]))
}

// NormalizeColor converts a PDF annotation /C array to RGB. Gray and CMYK
// entries are converted; empty or malformed arrays yield nil.
func NormalizeColor(c []float64) []float64 {
	switch len(c) {
	case 1:
		return []float64{c[0], c[0], c[0]}
	case 3:
		return []float64{c[0], c[1], c[2]}
	case 4:
		k := 1 - c[3]
		return []float64{(1 - c[0]) * k, (1 - c[1]) * k, (1 - c[2]) * k}
	default:
		return nil
	}
}

// toByte clamps v to 0..1 and scales with round-half-up. NaN maps to 0.
func toByte(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return int(math.Floor(v*255 + 0.5))
}

func inByteRange(v int) bool {
	return v >= 0 && v <= 255
}
