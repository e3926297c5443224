package pdf

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/a3tai/mcp-pdf-highlights/internal/highlight"
	"github.com/a3tai/mcp-pdf-highlights/internal/pdf/document"
	"github.com/a3tai/mcp-pdf-highlights/internal/pdf/render"
	"github.com/a3tai/mcp-pdf-highlights/internal/pdf/security"
)

// ServiceOptions configures extraction and rendering
type ServiceOptions struct {
	Highlight highlight.Options
	// Ghostscript is the gs executable used for snippet rendering
	Ghostscript   string
	RenderTimeout time.Duration
}

// DefaultServiceOptions returns the standard service settings
func DefaultServiceOptions() ServiceOptions {
	return ServiceOptions{
		Highlight:     highlight.DefaultOptions(),
		Ghostscript:   "gs",
		RenderTimeout: render.DefaultTimeout,
	}
}

// Service handles PDF highlight operations by orchestrating the document
// reader, the page renderer and the highlight assembler
type Service struct {
	opts          ServiceOptions
	validator     *Validator
	pathValidator *security.PathValidator
}

// NewService creates a new PDF service with all components
func NewService(maxFileSize int64, configuredDirectory string, opts ServiceOptions) (*Service, error) {
	if maxFileSize <= 0 {
		return nil, fmt.Errorf("maxFileSize must be greater than 0")
	}

	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		opts:          opts,
		validator:     NewValidator(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// ExtractHighlights extracts every highlight of a PDF file in reading order
func (s *Service) ExtractHighlights(ctx context.Context, req PDFExtractHighlightsRequest) (*PDFExtractHighlightsResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	data, err := s.validator.ReadFile(path)
	if err != nil {
		return nil, err
	}

	includeImages := s.opts.Highlight.IncludeImages
	if req.IncludeImages != nil {
		includeImages = *req.IncludeImages
	}

	result, err := s.ExtractHighlightsFromBytes(ctx, data, filepath.Base(path), includeImages)
	if err != nil {
		return nil, err
	}
	result.Path = path
	return result, nil
}

// ExtractHighlightsFromBytes extracts highlights from an in-memory PDF. name
// is used as the title when the document declares none.
func (s *Service) ExtractHighlightsFromBytes(ctx context.Context, data []byte, name string, includeImages bool) (*PDFExtractHighlightsResult, error) {
	// Open failures are already a *document.DocumentError
	doc, err := document.Open(data)
	if err != nil {
		return nil, err
	}

	opts := s.opts.Highlight
	opts.IncludeImages = false

	var renderer highlight.Renderer
	if includeImages {
		session, err := s.renderSession(ctx, data)
		if err != nil {
			if opts.Debug {
				log.Printf("[service] rendering disabled for %s: %v", name, err)
			}
		} else {
			defer session.Close()
			renderer = session
			opts.IncludeImages = true
		}
	}

	parsed, err := highlight.NewAssembler(opts, renderer).Parse(doc, name)
	if err != nil {
		return nil, fmt.Errorf("failed to extract highlights: %w", err)
	}

	return &PDFExtractHighlightsResult{
		Title:      parsed.Title,
		Pages:      parsed.Pages,
		Highlights: parsed.Highlights,
		Summary:    Summarize(parsed.Highlights),
		Images:     opts.IncludeImages,
	}, nil
}

func (s *Service) renderSession(ctx context.Context, data []byte) (*render.Session, error) {
	gs, err := render.NewGhostscript(s.opts.Ghostscript, s.opts.RenderTimeout, s.opts.Highlight.Debug)
	if err != nil {
		return nil, err
	}
	return gs.NewSession(ctx, data)
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	result, err := s.validator.ValidateFile(PDFValidateFileRequest{Path: path})
	if err != nil {
		return nil, err
	}
	result.Path = req.Path
	return result, nil
}
