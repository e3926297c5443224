package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-highlights/internal/config"
	"github.com/a3tai/mcp-pdf-highlights/internal/highlight"
	"github.com/a3tai/mcp-pdf-highlights/internal/pdf"
	"github.com/a3tai/mcp-pdf-highlights/internal/pdf/pdftest"
)

var notesDoc = pdftest.Doc{
	Title: "Field notes",
	Pages: []pdftest.Page{{
		Texts: []pdftest.Text{
			{X: 72, Y: 700, S: "Second on the line"},
			{X: 72, Y: 500, S: "Lower paragraph"},
		},
		Annots: []pdftest.Annot{
			{NM: "lower", Rect: []float64{70, 495, 170, 512}, Color: []float64{0, 0.8, 0}},
			{NM: "upper", Rect: []float64{70, 695, 180, 712}, Color: []float64{1, 0.92, 0.23}, Contents: "key claim"},
		},
	}},
}

// newTestServer builds a server over a temp directory. Images are disabled
// so results do not depend on a local Ghostscript.
func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.PDFDirectory = t.TempDir()
	cfg.ServerName = "test-server"
	cfg.IncludeImages = false

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory, cfg.ServiceOptions())
	require.NoError(t, err)

	server, err := NewServer(cfg, pdfService)
	require.NoError(t, err)
	return server, cfg.PDFDirectory
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewServer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PDFDirectory = t.TempDir()

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory, cfg.ServiceOptions())
	require.NoError(t, err)

	server, err := NewServer(cfg, pdfService)
	require.NoError(t, err)
	assert.Same(t, cfg, server.config)
	assert.Same(t, pdfService, server.pdfService)
	assert.NotNil(t, server.mcpServer)

	_, err = NewServer(cfg, nil)
	assert.Error(t, err)

	_, err = NewServer(nil, pdfService)
	assert.Error(t, err)
}

func TestServer_HandleExtractHighlights_Text(t *testing.T) {
	server, dir := newTestServer(t)
	pdftest.WriteFile(t, dir, "notes.pdf", notesDoc)

	result, err := server.handleExtractHighlights(context.Background(), callRequest(map[string]interface{}{
		"path": "notes.pdf",
	}))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	text := extractTextFromResult(result)
	assert.Contains(t, text, "Highlights in: Field notes")
	assert.Contains(t, text, "Highlights: 2")
	assert.Contains(t, text, "Colors: Green 1, Yellow 1")
	assert.Contains(t, text, "Comment: key claim")

	// Reading order puts the upper highlight first
	upper := strings.Index(text, "Second on the line")
	lower := strings.Index(text, "Lower paragraph")
	require.NotEqual(t, -1, upper)
	require.NotEqual(t, -1, lower)
	assert.Less(t, upper, lower)
}

func TestServer_HandleExtractHighlights_JSON(t *testing.T) {
	server, dir := newTestServer(t)
	path := pdftest.WriteFile(t, dir, "notes.pdf", notesDoc)

	result, err := server.handleExtractHighlights(context.Background(), callRequest(map[string]interface{}{
		"path":           path,
		"format":         "json",
		"include_images": false,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	var decoded pdf.PDFExtractHighlightsResult
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &decoded))

	assert.Equal(t, "Field notes", decoded.Title)
	assert.Equal(t, 1, decoded.Pages)
	require.Len(t, decoded.Highlights, 2)
	assert.Equal(t, "upper", decoded.Highlights[0].ID)
	assert.Equal(t, []string{highlight.TagYellow}, decoded.Highlights[0].Tags)
	assert.Equal(t, "lower", decoded.Highlights[1].ID)
	assert.Equal(t, []string{highlight.TagGreen}, decoded.Highlights[1].Tags)
}

func TestServer_HandleExtractHighlights_Errors(t *testing.T) {
	server, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("not a pdf at all"), 0o644))

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantMsg string
	}{
		{name: "missing path", args: map[string]interface{}{}, wantMsg: "path"},
		{name: "bad format", args: map[string]interface{}{"path": "x.pdf", "format": "xml"}, wantMsg: "unsupported format"},
		{name: "outside directory", args: map[string]interface{}{"path": "/etc/hosts"}, wantMsg: "security validation failed"},
		{name: "corrupt file", args: map[string]interface{}{"path": "broken.pdf"}, wantMsg: "PDF document error in open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := server.handleExtractHighlights(context.Background(), callRequest(tt.args))
			require.NoError(t, err, "tool errors must not surface as protocol errors")
			require.NotNil(t, result)
			assert.True(t, result.IsError)
			assert.Contains(t, extractTextFromResult(result), tt.wantMsg)
		})
	}
}

func TestServer_HandlePDFValidateFile(t *testing.T) {
	server, dir := newTestServer(t)
	pdftest.WriteFile(t, dir, "ok.pdf", notesDoc)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zeros.pdf"), make([]byte, 1024), 0o644))

	result, err := server.handlePDFValidateFile(context.Background(), callRequest(map[string]interface{}{"path": "ok.pdf"}))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "Valid PDF: ok.pdf (1 pages)")

	result, err = server.handlePDFValidateFile(context.Background(), callRequest(map[string]interface{}{"path": "zeros.pdf"}))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "Invalid PDF: zeros.pdf")

	result, err = server.handlePDFValidateFile(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestFormatHighlights(t *testing.T) {
	result := &pdf.PDFExtractHighlightsResult{
		Title: "Doc",
		Pages: 3,
		Highlights: []highlight.Highlight{
			{Page: 1, Text: "alpha", Color: "rgb(255, 0, 0)", Tags: []string{highlight.TagRed}},
			{Page: 2, Color: "#FFEB3B", Tags: []string{}, Image: "data:image/png;base64,AAAA"},
		},
	}
	result.Summary = pdf.Summarize(result.Highlights)

	text := FormatHighlights(result)
	assert.Contains(t, text, "Pages: 3")
	assert.Contains(t, text, "1. Page 1 [Red] rgb(255, 0, 0)")
	assert.Contains(t, text, "2. Page 2 [untagged] #FFEB3B")
	assert.Contains(t, text, "(no text, image only)")
	assert.Contains(t, text, "Image: PNG snippet (26 bytes as data URL)")
	assert.NotContains(t, text, "base64,AAAA")
}

func TestFormatHighlights_Empty(t *testing.T) {
	result := &pdf.PDFExtractHighlightsResult{Title: "Empty", Pages: 1, Summary: pdf.Summarize(nil)}
	assert.Contains(t, FormatHighlights(result), "No highlights found.")
}

// extractTextFromResult returns the first text content of a tool result
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}

	return ""
}
