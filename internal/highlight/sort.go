package highlight

import (
	"math"
	"sort"
)

// top returns the upper edge of the highlight in PDF space
func (h Highlight) top() float64 {
	if len(h.Rect) < 4 {
		return 0
	}
	return math.Max(h.Rect[1], h.Rect[3])
}

// left returns the left edge of the highlight in PDF space
func (h Highlight) left() float64 {
	if len(h.Rect) < 4 {
		return 0
	}
	return math.Min(h.Rect[0], h.Rect[2])
}

// SortReadingOrder orders highlights by page, then top to bottom, then left
// to right for highlights whose tops lie within threshold of each other.
func SortReadingOrder(highlights []Highlight, threshold float64) {
	sort.SliceStable(highlights, func(i, j int) bool {
		a, b := highlights[i], highlights[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}

		ya, yb := a.top(), b.top()
		if math.Abs(ya-yb) > threshold {
			return ya > yb
		}
		return a.left() < b.left()
	})
}
