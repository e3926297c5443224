package highlight

import "github.com/a3tai/mcp-pdf-highlights/internal/raster"

// SubtypeHighlight is the annotation subtype this package extracts
const SubtypeHighlight = "Highlight"

// Highlight is one extracted highlight annotation
type Highlight struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Color   string    `json:"color"`
	Type    string    `json:"type"`
	Page    int       `json:"page"`
	Image   string    `json:"image,omitempty"` // data:image/png;base64 snippet
	Tags    []string  `json:"tags"`
	Comment string    `json:"comment,omitempty"`
	Rect    []float64 `json:"rect,omitempty"` // [x1, y1, x2, y2] in PDF space
}

// ParsedPDF is the result of a whole-document parse
type ParsedPDF struct {
	Title      string      `json:"title"`
	Pages      int         `json:"pages"`
	Highlights []Highlight `json:"highlights"`
}

// Annotation is a page annotation as exposed by the document model
type Annotation struct {
	ID       string
	Subtype  string
	Rect     []float64 // nil when the annotation has no usable /Rect
	Color    []float64 // RGB components in 0..1, nil when absent
	Contents string
}

// TextRun is a positioned string from the page text layer. X, Y is the
// baseline origin in PDF space.
type TextRun struct {
	Text   string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Document is the document model consumed by the assembler
type Document interface {
	NumPages() int
	Title() string
	Page(n int) (Page, error)
}

// Page exposes the per-page content the extractor correlates
type Page interface {
	Annotations() ([]Annotation, error)
	TextRuns() ([]TextRun, error)
	Viewport(scale float64) Viewport
}

// Renderer rasterizes a page into a caller-owned surface. The surface must be
// sized to the page viewport at the given scale.
type Renderer interface {
	RenderPage(page int, vp Viewport, dst *raster.Surface) error
}
