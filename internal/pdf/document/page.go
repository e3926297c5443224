package document

import (
	"fmt"
	"math"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/mcp-pdf-highlights/internal/highlight"
)

// maxTreeDepth bounds the walk up /Parent when resolving inherited entries
const maxTreeDepth = 10

// letterBox is used when a page declares no usable MediaBox
var letterBox = highlight.Rect{MinX: 0, MinY: 0, MaxX: 612, MaxY: 792}

// Page is one page of an opened document
type Page struct {
	page   pdf.Page
	number int
}

var _ highlight.Page = (*Page)(nil)

// Annotations reads the page /Annots array
func (p *Page) Annotations() (annots []highlight.Annotation, err error) {
	defer func() {
		if r := recover(); r != nil {
			annots = nil
			err = &DocumentError{Op: "annotations", Err: fmt.Errorf("page %d: panic while reading annotations: %v", p.number, r)}
		}
	}()

	list := p.page.V.Key("Annots")
	if list.Kind() != pdf.Array {
		return nil, nil
	}

	for i := 0; i < list.Len(); i++ {
		a := list.Index(i)
		if a.Kind() != pdf.Dict {
			continue
		}

		annots = append(annots, highlight.Annotation{
			ID:       a.Key("NM").Text(),
			Subtype:  a.Key("Subtype").Name(),
			Rect:     readRect(a.Key("Rect")),
			Color:    highlight.NormalizeColor(readNumbers(a.Key("C"))),
			Contents: a.Key("Contents").Text(),
		})
	}
	return annots, nil
}

// Viewport returns the page transform at the given scale. The visible box is
// the CropBox clipped to the MediaBox.
func (p *Page) Viewport(scale float64) highlight.Viewport {
	box := letterBox
	if media, ok := p.inheritedBox("MediaBox"); ok {
		box = media
	}
	if crop, ok := p.inheritedBox("CropBox"); ok {
		if clipped, ok := intersect(crop, box); ok {
			box = clipped
		}
	}

	rotate := 0
	if v := p.inherited("Rotate"); v.Kind() == pdf.Integer {
		rotate = int(v.Int64())
	}

	return highlight.Viewport{
		Box:    box,
		Rotate: highlight.NormalizeRotation(rotate),
		Scale:  scale,
	}
}

// inherited looks key up on the page and then through its /Parent chain
func (p *Page) inherited(key string) pdf.Value {
	current := p.page.V
	for i := 0; i < maxTreeDepth && !current.IsNull(); i++ {
		if v := current.Key(key); !v.IsNull() {
			return v
		}
		current = current.Key("Parent")
	}
	return pdf.Value{}
}

func (p *Page) inheritedBox(key string) (r highlight.Rect, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	rect := readRect(p.inherited(key))
	if rect == nil {
		return highlight.Rect{}, false
	}
	r = highlight.NormalizeRect([4]float64{rect[0], rect[1], rect[2], rect[3]})
	if r.Width() <= 0 || r.Height() <= 0 {
		return highlight.Rect{}, false
	}
	return r, true
}

// readRect reads a four-number array, or nil when v is not one
func readRect(v pdf.Value) []float64 {
	if v.Kind() != pdf.Array || v.Len() != 4 {
		return nil
	}
	nums := readNumbers(v)
	if len(nums) != 4 {
		return nil
	}
	return nums
}

// readNumbers reads a numeric array. Any non-numeric element makes the whole
// array unusable.
func readNumbers(v pdf.Value) []float64 {
	if v.Kind() != pdf.Array {
		return nil
	}

	nums := make([]float64, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		f, ok := number(v.Index(i))
		if !ok {
			return nil
		}
		nums = append(nums, f)
	}
	return nums
}

func number(v pdf.Value) (float64, bool) {
	switch v.Kind() {
	case pdf.Integer:
		return float64(v.Int64()), true
	case pdf.Real:
		f := v.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func intersect(a, b highlight.Rect) (highlight.Rect, bool) {
	r := highlight.Rect{
		MinX: math.Max(a.MinX, b.MinX),
		MinY: math.Max(a.MinY, b.MinY),
		MaxX: math.Min(a.MaxX, b.MaxX),
		MaxY: math.Min(a.MaxY, b.MaxY),
	}
	if r.Width() <= 0 || r.Height() <= 0 {
		return highlight.Rect{}, false
	}
	return r, true
}
