package document

import (
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/a3tai/mcp-pdf-highlights/internal/highlight"
)

// Glyph merging tolerances, relative to font size unless noted
const (
	baselineTolerance = 0.5 // absolute, in PDF units
	maxGlyphGap       = 0.3
	spaceGap          = 0.15
	maxGlyphOverlap   = 0.5
)

// TextRuns returns the page text layer as positioned runs. ledongthuc/pdf
// reports one entry per glyph; consecutive glyphs on the same baseline in the
// same font are merged back into runs.
func (p *Page) TextRuns() (runs []highlight.TextRun, err error) {
	defer func() {
		if r := recover(); r != nil {
			runs = nil
			err = &DocumentError{Op: "text", Err: fmt.Errorf("page %d: panic while reading content: %v", p.number, r)}
		}
	}()

	if p.page.V.IsNull() {
		return nil, nil
	}
	return mergeGlyphs(p.page.Content().Text), nil
}

type runBuilder struct {
	font string
	size float64
	x, y float64
	end  float64
	text strings.Builder
}

func (b *runBuilder) accepts(g pdf.Text) bool {
	if g.Font != b.font || g.FontSize != b.size {
		return false
	}
	if math.Abs(g.Y-b.y) >= baselineTolerance {
		return false
	}
	gap := g.X - b.end
	return gap <= maxGlyphGap*b.size && gap >= -maxGlyphOverlap*b.size
}

func (b *runBuilder) add(g pdf.Text) {
	if g.X-b.end > spaceGap*b.size && !strings.HasSuffix(b.text.String(), " ") && !strings.HasPrefix(g.S, " ") {
		b.text.WriteByte(' ')
	}
	b.text.WriteString(g.S)
	b.end = math.Max(b.end, g.X+g.W)
}

func (b *runBuilder) run() highlight.TextRun {
	return highlight.TextRun{
		Text:   norm.NFKC.String(b.text.String()),
		X:      b.x,
		Y:      b.y,
		Width:  b.end - b.x,
		Height: b.size,
	}
}

func newRun(g pdf.Text) *runBuilder {
	b := &runBuilder{font: g.Font, size: g.FontSize, x: g.X, y: g.Y, end: g.X + g.W}
	b.text.WriteString(g.S)
	return b
}

// mergeGlyphs joins glyphs in content order
func mergeGlyphs(glyphs []pdf.Text) []highlight.TextRun {
	var runs []highlight.TextRun
	var cur *runBuilder

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if cur != nil && cur.accepts(g) {
			cur.add(g)
			continue
		}
		if cur != nil {
			runs = append(runs, cur.run())
		}
		cur = newRun(g)
	}
	if cur != nil {
		runs = append(runs, cur.run())
	}
	return runs
}
