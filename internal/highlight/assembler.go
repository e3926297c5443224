package highlight

import (
	"fmt"
	"log"
	"math"

	"github.com/a3tai/mcp-pdf-highlights/internal/raster"
)

// Assembler drives a whole-document parse
type Assembler struct {
	opts      Options
	extractor *Extractor
	renderer  Renderer
}

// NewAssembler creates an assembler. renderer may be nil, in which case no
// snippet images are produced.
func NewAssembler(opts Options, renderer Renderer) *Assembler {
	return &Assembler{
		opts:      opts,
		extractor: NewExtractor(opts),
		renderer:  renderer,
	}
}

// Parse extracts every highlight of doc in reading order. fallbackTitle is
// used when the document declares no title.
func (a *Assembler) Parse(doc Document, fallbackTitle string) (*ParsedPDF, error) {
	title := doc.Title()
	if title == "" {
		title = fallbackTitle
	}

	// One surface per parse, resized for each rendered page
	surface := raster.NewSurface()
	highlights := []Highlight{}
	seen := make(map[string]bool)

	for n := 1; n <= doc.NumPages(); n++ {
		page, err := doc.Page(n)
		if err != nil {
			return nil, fmt.Errorf("failed to load page %d: %w", n, err)
		}

		annots, err := page.Annotations()
		if err != nil {
			return nil, fmt.Errorf("failed to read annotations on page %d: %w", n, err)
		}
		if countHighlights(annots) == 0 {
			continue
		}

		runs, err := page.TextRuns()
		if err != nil {
			return nil, fmt.Errorf("failed to read text on page %d: %w", n, err)
		}

		vp := page.Viewport(a.opts.Scale)
		in := PageInput{
			Number:      n,
			Annotations: annots,
			Runs:        runs,
			Viewport:    vp,
			Surface:     a.render(n, vp, surface),
		}

		found := a.extractor.ExtractPage(in)
		for i := range found {
			found[i].ID = uniqueID(found[i].ID, n, seen)
		}
		if a.opts.Debug {
			log.Printf("[highlight] page %d: %d annotations, %d runs, %d highlights",
				n, len(annots), len(runs), len(found))
		}
		highlights = append(highlights, found...)
	}

	SortReadingOrder(highlights, a.opts.SameLineThreshold)

	return &ParsedPDF{
		Title:      title,
		Pages:      doc.NumPages(),
		Highlights: highlights,
	}, nil
}

// render draws page n into surface and returns it, or nil when images are
// disabled or rendering failed
func (a *Assembler) render(n int, vp Viewport, surface *raster.Surface) *raster.Surface {
	if !a.opts.IncludeImages || a.renderer == nil {
		return nil
	}

	fw, fh := math.Ceil(vp.Width()), math.Ceil(vp.Height())
	if !(fw >= 0 && fh >= 0 && fw <= raster.MaxPixels && fh <= raster.MaxPixels && fw*fh <= raster.MaxPixels) {
		if a.opts.Debug {
			log.Printf("[highlight] page %d: page raster %gx%g is too large, continuing without images", n, fw, fh)
		}
		return nil
	}

	if err := surface.Resize(int(fw), int(fh)); err != nil {
		if a.opts.Debug {
			log.Printf("[highlight] page %d: cannot size surface: %v", n, err)
		}
		return nil
	}

	if err := a.renderer.RenderPage(n, vp, surface); err != nil {
		if a.opts.Debug {
			log.Printf("[highlight] page %d: render failed, continuing without images: %v", n, err)
		}
		return nil
	}
	return surface
}

// uniqueID returns id, or a page-qualified form of it when an earlier page
// already used it. /NM is only unique within a page.
func uniqueID(id string, page int, seen map[string]bool) string {
	candidate := id
	for k := 1; seen[candidate]; k++ {
		if k == 1 {
			candidate = fmt.Sprintf("%s#%d", id, page)
		} else {
			candidate = fmt.Sprintf("%s#%d-%d", id, page, k)
		}
	}
	seen[candidate] = true
	return candidate
}

func countHighlights(annots []Annotation) int {
	count := 0
	for _, a := range annots {
		if a.Subtype == SubtypeHighlight {
			count++
		}
	}
	return count
}
