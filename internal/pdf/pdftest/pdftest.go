// Package pdftest builds small PDF files for tests: text in a standard font,
// highlight annotations, page boxes and an /Info title.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Character advances in thousandths of the font size. Every printable
// character but the space has the same width.
const (
	GlyphWidth = 500
	SpaceWidth = 278
)

// Text is a string shown at a baseline position
type Text struct {
	X, Y float64
	Size float64 // defaults to 12
	S    string
}

// Annot is a page annotation
type Annot struct {
	Subtype  string // defaults to Highlight
	Rect     []float64
	Color    []float64
	NM       string
	Contents string
}

// Page describes one page
type Page struct {
	MediaBox []float64 // nil inherits the document box
	CropBox  []float64
	Rotate   int
	Texts    []Text
	Annots   []Annot
}

// Doc describes a whole document
type Doc struct {
	Title string
	// MediaBox is set on the page tree root and inherited by pages without one
	MediaBox []float64
	Pages    []Page
}

// Build serializes doc as a PDF with a valid cross-reference table
func Build(doc Doc) []byte {
	var objects []string
	alloc := func() int {
		objects = append(objects, "")
		return len(objects)
	}
	set := func(n int, body string) { objects[n-1] = body }

	catalog := alloc()
	pages := alloc()
	font := alloc()
	info := 0
	if doc.Title != "" {
		info = alloc()
	}

	kids := make([]string, len(doc.Pages))
	for i, p := range doc.Pages {
		pageObj := alloc()
		contentObj := alloc()
		kids[i] = fmt.Sprintf("%d 0 R", pageObj)

		var annotRefs []string
		for _, a := range p.Annots {
			n := alloc()
			set(n, annotDict(a))
			annotRefs = append(annotRefs, fmt.Sprintf("%d 0 R", n))
		}

		var dict strings.Builder
		fmt.Fprintf(&dict, "<< /Type /Page /Parent %d 0 R", pages)
		if p.MediaBox != nil {
			fmt.Fprintf(&dict, " /MediaBox %s", numbers(p.MediaBox))
		}
		if p.CropBox != nil {
			fmt.Fprintf(&dict, " /CropBox %s", numbers(p.CropBox))
		}
		if p.Rotate != 0 {
			fmt.Fprintf(&dict, " /Rotate %d", p.Rotate)
		}
		fmt.Fprintf(&dict, " /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R", font, contentObj)
		if len(annotRefs) > 0 {
			fmt.Fprintf(&dict, " /Annots [%s]", strings.Join(annotRefs, " "))
		}
		dict.WriteString(" >>")
		set(pageObj, dict.String())

		stream := contentStream(p.Texts)
		set(contentObj, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pages))

	root := fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d", strings.Join(kids, " "), len(doc.Pages))
	mediaBox := doc.MediaBox
	if mediaBox == nil {
		mediaBox = []float64{0, 0, 612, 792}
	}
	root += fmt.Sprintf(" /MediaBox %s >>", numbers(mediaBox))
	set(pages, root)

	widths := make([]string, 126-32+1)
	for i := range widths {
		widths[i] = strconv.Itoa(GlyphWidth)
	}
	widths[0] = strconv.Itoa(SpaceWidth)
	set(font, fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		strings.Join(widths, " ")))

	if info != 0 {
		set(info, fmt.Sprintf("<< /Title %s /Producer (pdftest) >>", literal(doc.Title)))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R", len(objects)+1, catalog)
	if info != 0 {
		fmt.Fprintf(&buf, " /Info %d 0 R", info)
	}
	fmt.Fprintf(&buf, " >>\nstartxref\n%d\n%%%%EOF\n", xref)

	return buf.Bytes()
}

// WriteFile writes doc to dir/name and returns the path
func WriteFile(t testing.TB, dir, name string, doc Doc) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(doc), 0o644); err != nil {
		t.Fatalf("failed to write test PDF: %v", err)
	}
	return path
}

// Width returns the advance of s at the given font size
func Width(s string, size float64) float64 {
	w := 0.0
	for _, c := range s {
		if c == ' ' {
			w += SpaceWidth
		} else {
			w += GlyphWidth
		}
	}
	return w / 1000 * size
}

func contentStream(texts []Text) string {
	var b strings.Builder
	for _, t := range texts {
		size := t.Size
		if size == 0 {
			size = 12
		}
		fmt.Fprintf(&b, "BT /F1 %s Tf %s %s Td %s Tj ET\n", num(size), num(t.X), num(t.Y), literal(t.S))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func annotDict(a Annot) string {
	subtype := a.Subtype
	if subtype == "" {
		subtype = "Highlight"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<< /Type /Annot /Subtype /%s", subtype)
	if a.Rect != nil {
		fmt.Fprintf(&b, " /Rect %s", numbers(a.Rect))
	}
	if a.Color != nil {
		fmt.Fprintf(&b, " /C %s", numbers(a.Color))
	}
	if a.NM != "" {
		fmt.Fprintf(&b, " /NM %s", literal(a.NM))
	}
	if a.Contents != "" {
		fmt.Fprintf(&b, " /Contents %s", literal(a.Contents))
	}
	b.WriteString(" >>")
	return b.String()
}

func numbers(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = num(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

func literal(s string) string {
	return "(" + literalEscaper.Replace(s) + ")"
}
