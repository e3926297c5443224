package highlight

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/a3tai/mcp-pdf-highlights/internal/raster"
)

const pngDataURLPrefix = "data:image/png;base64,"

// cropRegion expands a raster-space rectangle by padding pixels and clamps it
// to bounds. The result may be empty.
func cropRegion(r Rect, padding int, bounds image.Rectangle) image.Rectangle {
	region := image.Rect(
		int(math.Floor(r.MinX))-padding,
		int(math.Floor(r.MinY))-padding,
		int(math.Ceil(r.MaxX))+padding,
		int(math.Ceil(r.MaxY))+padding,
	)
	return region.Intersect(bounds)
}

// cropSnippet copies region out of the surface and returns it as a PNG data URL
func cropSnippet(s *raster.Surface, region image.Rectangle) (string, error) {
	if region.Empty() {
		return "", fmt.Errorf("empty crop region")
	}

	snippet := imaging.Crop(s.Image(), region)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, snippet, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode snippet: %w", err)
	}

	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
