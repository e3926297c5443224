package highlight

import (
	"fmt"
	"log"
	"strings"

	"github.com/a3tai/mcp-pdf-highlights/internal/raster"
)

// Default extraction parameters
const (
	DefaultScale             = 2.0
	DefaultCropPadding       = 10
	DefaultSameLineThreshold = 10.0
)

// Options tune extraction and ordering
type Options struct {
	// Scale is the render scale used for snippet images
	Scale float64
	// CropPadding expands every snippet by this many pixels on each side
	CropPadding int
	// SameLineThreshold is the vertical distance, in PDF units, under which two
	// highlights are ordered left to right instead of top to bottom
	SameLineThreshold float64
	// IncludeImages enables page rendering and snippet cropping
	IncludeImages bool
	// Debug enables diagnostic logging
	Debug bool
}

// DefaultOptions returns the standard extraction settings
func DefaultOptions() Options {
	return Options{
		Scale:             DefaultScale,
		CropPadding:       DefaultCropPadding,
		SameLineThreshold: DefaultSameLineThreshold,
		IncludeImages:     true,
	}
}

// PageInput is everything the extractor needs for one page
type PageInput struct {
	Number      int
	Annotations []Annotation
	Runs        []TextRun
	Viewport    Viewport
	Surface     *raster.Surface // nil when no raster is available
}

// Extractor correlates annotations on a page with text and pixels
type Extractor struct {
	opts Options
}

// NewExtractor creates a page extractor
func NewExtractor(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

// ExtractPage produces the highlight records of a single page, in annotation
// order. Annotations without a rect, and annotations that match neither text
// nor pixels, are dropped.
func (e *Extractor) ExtractPage(in PageInput) []Highlight {
	var highlights []Highlight

	for i, annot := range in.Annotations {
		if annot.Subtype != SubtypeHighlight || len(annot.Rect) < 4 {
			continue
		}

		rect := NormalizeRect([4]float64{annot.Rect[0], annot.Rect[1], annot.Rect[2], annot.Rect[3]})
		text := matchText(rect, in.Runs)
		image := e.snippet(rect, in.Viewport, in.Surface)

		if strings.TrimSpace(text) == "" && image == "" {
			if e.opts.Debug {
				log.Printf("[highlight] page %d: dropping annotation %d with no text or image", in.Number, i)
			}
			continue
		}

		tags := []string{}
		if tag, ok := ClassifyColor(annot.Color); ok {
			tags = append(tags, tag)
		}

		id := annot.ID
		if id == "" {
			id = fmt.Sprintf("%d-%d", in.Number, i)
		}

		highlights = append(highlights, Highlight{
			ID:      id,
			Text:    text,
			Color:   ParseColor(annot.Color),
			Type:    SubtypeHighlight,
			Page:    in.Number,
			Image:   image,
			Tags:    tags,
			Comment: annot.Contents,
			Rect:    append([]float64(nil), annot.Rect[:4]...),
		})
	}

	return highlights
}

// matchText joins the strings of every run whose box overlaps rect, in text
// layer order
func matchText(rect Rect, runs []TextRun) string {
	var parts []string
	for _, run := range runs {
		if run.Text == "" {
			continue
		}
		if TextRunBox(run).Intersects(rect) {
			parts = append(parts, run.Text)
		}
	}
	return strings.Join(parts, " ")
}

// snippet crops the annotation area out of the rendered page. A missing
// surface or a region clamped to nothing produces no image.
func (e *Extractor) snippet(rect Rect, vp Viewport, s *raster.Surface) string {
	if s == nil || s.Empty() {
		return ""
	}

	region := cropRegion(vp.ToRaster(rect), e.opts.CropPadding, s.Bounds())
	if region.Empty() {
		return ""
	}

	image, err := cropSnippet(s, region)
	if err != nil {
		if e.opts.Debug {
			log.Printf("[highlight] snippet crop failed: %v", err)
		}
		return ""
	}
	return image
}
