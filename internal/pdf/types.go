package pdf

import "github.com/a3tai/mcp-pdf-highlights/internal/highlight"

// Request Types

// PDFExtractHighlightsRequest represents a request to extract highlights from a PDF file
type PDFExtractHighlightsRequest struct {
	Path string `json:"path"`
	// IncludeImages overrides the configured snippet setting when set
	IncludeImages *bool `json:"include_images,omitempty"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// Response Types

// PDFExtractHighlightsResult represents the highlights found in one PDF file
type PDFExtractHighlightsResult struct {
	Path       string                `json:"path"`
	Title      string                `json:"title"`
	Pages      int                   `json:"pages"`
	Highlights []highlight.Highlight `json:"highlights"`
	Summary    HighlightSummary      `json:"summary"`
	// Images reports whether pages were rendered for snippets
	Images bool `json:"images"`
}

// HighlightSummary counts highlights by color tag and page
type HighlightSummary struct {
	Total     int            `json:"total"`
	WithText  int            `json:"with_text"`
	WithImage int            `json:"with_image"`
	ByTag     map[string]int `json:"by_tag"`
	ByPage    map[int]int    `json:"by_page"`
	Commented int            `json:"commented"`
	Untagged  int            `json:"untagged"`
	FirstPage int            `json:"first_page,omitempty"`
	LastPage  int            `json:"last_page,omitempty"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}
