package highlight

import "math"

const (
	// DefaultRunHeight is used when the text layer reports a zero run height
	DefaultRunHeight = 10.0

	// FallbackGlyphWidth approximates run width per character when the text
	// layer reports a zero width
	FallbackGlyphWidth = 5.0
)

// Rect is an axis-aligned rectangle. It carries no assumption about the
// direction of either axis, so the same type serves PDF space and raster space.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// NormalizeRect orders the corners of an [x1, y1, x2, y2] box
func NormalizeRect(r [4]float64) Rect {
	return Rect{
		MinX: math.Min(r[0], r[2]),
		MinY: math.Min(r[1], r[3]),
		MaxX: math.Max(r[0], r[2]),
		MaxY: math.Max(r[1], r[3]),
	}
}

// Width of the rectangle
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height of the rectangle
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Overlap returns the extent of the intersection along each axis, zero when
// the rectangles are disjoint on that axis.
func (r Rect) Overlap(o Rect) (dx, dy float64) {
	dx = math.Max(0, math.Min(r.MaxX, o.MaxX)-math.Max(r.MinX, o.MinX))
	dy = math.Max(0, math.Min(r.MaxY, o.MaxY)-math.Max(r.MinY, o.MinY))
	return dx, dy
}

// Intersects reports a strictly positive-area overlap. Rectangles that only
// share an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	dx, dy := r.Overlap(o)
	return dx > 0 && dy > 0
}

// TextRunBox derives the box used to match a text run against annotations.
// The vertical extent reaches one run height above and below the baseline to
// absorb imprecise line heights from the text layer.
func TextRunBox(run TextRun) Rect {
	height := run.Height
	if height == 0 {
		height = DefaultRunHeight
	}
	width := run.Width
	if width == 0 {
		width = float64(len([]rune(run.Text))) * FallbackGlyphWidth
	}

	return Rect{
		MinX: run.X,
		MinY: run.Y - height,
		MaxX: run.X + width,
		MaxY: run.Y + height,
	}
}

// Viewport maps PDF user space (origin bottom-left, Y up) to raster space
// (origin top-left, Y down) for a page rendered at Scale.
type Viewport struct {
	Box    Rect    // visible page box in PDF space
	Rotate int     // clockwise page rotation: 0, 90, 180 or 270
	Scale  float64 // raster pixels per PDF unit
}

// Width of the rendered raster in pixels
func (v Viewport) Width() float64 {
	if v.Rotate == 90 || v.Rotate == 270 {
		return v.Box.Height() * v.Scale
	}
	return v.Box.Width() * v.Scale
}

// Height of the rendered raster in pixels
func (v Viewport) Height() float64 {
	if v.Rotate == 90 || v.Rotate == 270 {
		return v.Box.Width() * v.Scale
	}
	return v.Box.Height() * v.Scale
}

// ToRasterPoint converts a single PDF-space point
func (v Viewport) ToRasterPoint(x, y float64) (float64, float64) {
	u := x - v.Box.MinX
	w := v.Box.MaxY - y
	pw, ph := v.Box.Width(), v.Box.Height()

	var rx, ry float64
	switch v.Rotate {
	case 90:
		rx, ry = ph-w, u
	case 180:
		rx, ry = pw-u, ph-w
	case 270:
		rx, ry = w, pw-u
	default:
		rx, ry = u, w
	}
	return rx * v.Scale, ry * v.Scale
}

// ToRaster converts a PDF-space rectangle into a normalized raster rectangle
func (v Viewport) ToRaster(r Rect) Rect {
	x1, y1 := v.ToRasterPoint(r.MinX, r.MinY)
	x2, y2 := v.ToRasterPoint(r.MaxX, r.MaxY)
	return NormalizeRect([4]float64{x1, y1, x2, y2})
}

// NormalizeRotation folds any multiple of 90 degrees into 0..270
func NormalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	switch deg {
	case 90, 180, 270:
		return deg
	default:
		return 0
	}
}
