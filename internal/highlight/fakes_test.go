package highlight

import (
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"strings"

	"github.com/a3tai/mcp-pdf-highlights/internal/raster"
)

var letterBox = Rect{MinX: 0, MinY: 0, MaxX: 612, MaxY: 792}

type fakePage struct {
	box       *Rect // letter when nil
	annots    []Annotation
	runs      []TextRun
	annotsErr error
	runsErr   error
	runsCalls int
}

func (p *fakePage) Annotations() ([]Annotation, error) { return p.annots, p.annotsErr }

func (p *fakePage) TextRuns() ([]TextRun, error) {
	p.runsCalls++
	return p.runs, p.runsErr
}

func (p *fakePage) Viewport(scale float64) Viewport {
	if p.box != nil {
		return Viewport{Box: *p.box, Scale: scale}
	}
	return Viewport{Box: letterBox, Scale: scale}
}

type fakeDocument struct {
	title string
	pages []*fakePage
}

func (d *fakeDocument) NumPages() int { return len(d.pages) }
func (d *fakeDocument) Title() string { return d.title }

func (d *fakeDocument) Page(n int) (Page, error) {
	if n < 1 || n > len(d.pages) {
		return nil, errors.New("page out of range")
	}
	return d.pages[n-1], nil
}

// fakeRenderer paints every page a solid color
type fakeRenderer struct {
	fill     color.RGBA
	fail     map[int]bool
	rendered []int
}

func (r *fakeRenderer) RenderPage(page int, vp Viewport, dst *raster.Surface) error {
	r.rendered = append(r.rendered, page)
	if r.fail[page] {
		return errors.New("render failed")
	}

	b := dst.Bounds()
	img := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, r.fill)
		}
	}
	return dst.Load(img, b.Dx(), b.Dy())
}

// renderedSurface returns a letter-size page surface at the given scale
func renderedSurface(scale float64) *raster.Surface {
	s := raster.NewSurface()
	w, h := int(612*scale), int(792*scale)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	_ = s.Load(img, w, h)
	return s
}

func highlightAnnot(id string, rect []float64, c []float64) Annotation {
	return Annotation{ID: id, Subtype: SubtypeHighlight, Rect: rect, Color: c}
}

// decodeSnippet returns the PNG bytes of a snippet data URL
func decodeSnippet(dataURL string) ([]byte, error) {
	payload, ok := strings.CutPrefix(dataURL, pngDataURLPrefix)
	if !ok {
		return nil, errors.New("not a PNG data URL")
	}
	return base64.StdEncoding.DecodeString(payload)
}
