// Package document exposes a parsed PDF through the highlight document model.
//
// Bytes are first checked with pdfcpu in relaxed mode, which rejects inputs
// that are not PDFs at all, and then read with ledongthuc/pdf for page
// content, annotations and page boxes.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/a3tai/mcp-pdf-highlights/internal/highlight"
)

// DocumentError reports a failure to open or read a document
type DocumentError struct {
	Op  string `json:"operation"`
	Err error  `json:"error"`
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("PDF document error in %s: %v", e.Op, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Document is an opened PDF
type Document struct {
	reader *pdf.Reader
	pages  int
}

var _ highlight.Document = (*Document)(nil)

// Open parses data as a PDF document
func Open(data []byte) (doc *Document, err error) {
	if len(data) == 0 {
		return nil, &DocumentError{Op: "open", Err: fmt.Errorf("empty document")}
	}

	// ledongthuc/pdf panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &DocumentError{Op: "open", Err: fmt.Errorf("panic while parsing: %v", r)}
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, &DocumentError{Op: "open", Err: fmt.Errorf("failed to read PDF: %w", err)}
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &DocumentError{Op: "open", Err: fmt.Errorf("failed to get page count: %w", err)}
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DocumentError{Op: "open", Err: fmt.Errorf("failed to parse PDF: %w", err)}
	}

	return &Document{reader: reader, pages: reader.NumPage()}, nil
}

// NumPages returns the page count
func (d *Document) NumPages() int {
	return d.pages
}

// Title returns the /Info /Title entry, or "" when the document has none
func (d *Document) Title() (title string) {
	defer func() {
		if recover() != nil {
			title = ""
		}
	}()

	info := d.reader.Trailer().Key("Info")
	if info.IsNull() {
		return ""
	}
	return strings.TrimSpace(info.Key("Title").Text())
}

// Page returns page n, counted from 1
func (d *Document) Page(n int) (highlight.Page, error) {
	if n < 1 || n > d.pages {
		return nil, &DocumentError{
			Op:  "page",
			Err: fmt.Errorf("invalid page number %d (document has %d pages)", n, d.pages),
		}
	}
	return &Page{page: d.reader.Page(n), number: n}, nil
}
