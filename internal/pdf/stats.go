package pdf

import (
	"strings"

	"github.com/a3tai/mcp-pdf-highlights/internal/highlight"
)

// Summarize computes per-tag and per-page counts for a highlight list
func Summarize(highlights []highlight.Highlight) HighlightSummary {
	summary := HighlightSummary{
		Total:  len(highlights),
		ByTag:  make(map[string]int),
		ByPage: make(map[int]int),
	}

	for _, h := range highlights {
		if strings.TrimSpace(h.Text) != "" {
			summary.WithText++
		}
		if h.Image != "" {
			summary.WithImage++
		}
		if h.Comment != "" {
			summary.Commented++
		}

		if len(h.Tags) == 0 {
			summary.Untagged++
		}
		for _, tag := range h.Tags {
			summary.ByTag[tag]++
		}

		summary.ByPage[h.Page]++
		if summary.FirstPage == 0 || h.Page < summary.FirstPage {
			summary.FirstPage = h.Page
		}
		if h.Page > summary.LastPage {
			summary.LastPage = h.Page
		}
	}

	return summary
}
