package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-highlights/internal/pdf/pdftest"
)

func writeSample(t *testing.T) string {
	t.Helper()
	return pdftest.WriteFile(t, t.TempDir(), "sample.pdf", pdftest.Doc{
		Title: "Sample",
		Pages: []pdftest.Page{{
			Texts: []pdftest.Text{{X: 100, Y: 600, S: "Marked words"}},
			Annots: []pdftest.Annot{
				{NM: "one", Rect: []float64{95, 595, 180, 612}, Color: []float64{0.2, 0.4, 1}},
			},
		}},
	})
}

func TestRun_Text(t *testing.T) {
	path := writeSample(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "Highlights in: Sample")
	assert.Contains(t, stdout.String(), "1. Page 1 [Blue]")
	assert.Contains(t, stdout.String(), "Marked words")
}

func TestRun_JSON(t *testing.T) {
	path := writeSample(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--format=json", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var result struct {
		Path       string `json:"path"`
		Highlights []struct {
			ID   string   `json:"id"`
			Tags []string `json:"tags"`
		} `json:"highlights"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	require.Len(t, result.Highlights, 1)
	assert.Equal(t, "one", result.Highlights[0].ID)
	assert.Equal(t, []string{"Blue"}, result.Highlights[0].Tags)
}

func TestRun_Errors(t *testing.T) {
	path := writeSample(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no file", args: nil, want: 2},
		{name: "two files", args: []string{path, path}, want: 2},
		{name: "bad format", args: []string{"--format=yaml", path}, want: 2},
		{name: "unknown flag", args: []string{"--bogus", path}, want: 2},
		{name: "bad scale", args: []string{"--scale=0", path}, want: 2},
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "none.pdf")}, want: 1},
		{name: "help", args: []string{"--help"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.want, run(context.Background(), tt.args, &stdout, &stderr))
		})
	}
}
