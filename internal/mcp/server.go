package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-pdf-highlights/internal/config"
	"github.com/a3tai/mcp-pdf-highlights/internal/descriptions"
	"github.com/a3tai/mcp-pdf-highlights/internal/pdf"
)

// Output formats for pdf_extract_highlights
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
		server.WithRecovery(),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"pdf_extract_highlights",
		mcp.WithDescription(descriptions.PDFExtractHighlightsDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description(descriptions.PathParamDescription),
		),
		mcp.WithBoolean("include_images",
			mcp.Description(descriptions.IncludeImagesParamDescription),
			mcp.DefaultBool(s.config.IncludeImages),
		),
		mcp.WithString("format",
			mcp.Description(descriptions.FormatParamDescription),
			mcp.Enum(FormatText, FormatJSON),
			mcp.DefaultString(FormatText),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractHighlights)

	validateTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription(descriptions.PDFValidateFileDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description(descriptions.PathParamDescription),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handlePDFValidateFile)
}

func (s *Server) handleExtractHighlights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	format := request.GetString("format", FormatText)
	if format != FormatText && format != FormatJSON {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q (must be text or json)", format)), nil
	}

	includeImages := request.GetBool("include_images", s.config.IncludeImages)

	result, err := s.pdfService.ExtractHighlights(ctx, pdf.PDFExtractHighlightsRequest{
		Path:          path,
		IncludeImages: &includeImages,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if format == FormatJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	return mcp.NewToolResultText(FormatHighlights(result)), nil
}

func (s *Server) handlePDFValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.Valid {
		return mcp.NewToolResultText(fmt.Sprintf("Valid PDF: %s (%d pages)", result.Path, result.Pages)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Invalid PDF: %s\nReason: %s", result.Path, result.Message)), nil
}

// FormatHighlights renders an extraction result as a readable list. Snippet
// images are summarized, not inlined.
func FormatHighlights(result *pdf.PDFExtractHighlightsResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Highlights in: %s\n", result.Title)
	if result.Path != "" {
		fmt.Fprintf(&b, "File: %s\n", result.Path)
	}
	fmt.Fprintf(&b, "Pages: %d\n", result.Pages)
	fmt.Fprintf(&b, "Highlights: %d\n", result.Summary.Total)
	fmt.Fprintf(&b, "Image snippets: %t\n", result.Images)

	if len(result.Summary.ByTag) > 0 {
		tags := make([]string, 0, len(result.Summary.ByTag))
		for tag := range result.Summary.ByTag {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		parts := make([]string, len(tags))
		for i, tag := range tags {
			parts[i] = fmt.Sprintf("%s %d", tag, result.Summary.ByTag[tag])
		}
		fmt.Fprintf(&b, "Colors: %s\n", strings.Join(parts, ", "))
	}

	if len(result.Highlights) == 0 {
		b.WriteString("\nNo highlights found.\n")
		return b.String()
	}

	b.WriteString("\n")
	for i, h := range result.Highlights {
		tag := "untagged"
		if len(h.Tags) > 0 {
			tag = strings.Join(h.Tags, ", ")
		}
		fmt.Fprintf(&b, "%d. Page %d [%s] %s\n", i+1, h.Page, tag, h.Color)

		text := strings.TrimSpace(h.Text)
		if text == "" {
			text = "(no text, image only)"
		}
		fmt.Fprintf(&b, "   %s\n", text)

		if h.Comment != "" {
			fmt.Fprintf(&b, "   Comment: %s\n", h.Comment)
		}
		if h.Image != "" {
			fmt.Fprintf(&b, "   Image: PNG snippet (%d bytes as data URL)\n", len(h.Image))
		}
	}

	return b.String()
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting PDF highlights MCP server in stdio mode")
		log.Printf("PDF directory: %s", s.config.PDFDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE until ctx is cancelled
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting PDF highlights MCP server on %s", addr)
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve SSE: %w", err)
		}
		return nil
	case <-ctx.Done():
		if err := sse.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("failed to shut down SSE server: %w", err)
		}
		return ctx.Err()
	}
}
