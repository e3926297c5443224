package highlight

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagForHue_Boundaries(t *testing.T) {
	tests := []struct {
		hue  float64
		want string
	}{
		{0, TagRed},
		{15, TagRed},
		{15.01, TagOrange},
		{45, TagOrange},
		{45.01, TagYellow},
		{85, TagYellow},
		{85.01, TagGreen},
		{160, TagGreen},
		{160.01, TagBlue},
		{260, TagBlue},
		{260.01, TagPurple},
		{344.99, TagPurple},
		{345, TagRed},
		{360, TagRed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TagForHue(tt.hue), "hue %v", tt.hue)
	}
}

func TestTagForHue_OutOfRange(t *testing.T) {
	assert.Equal(t, TagYellow, TagForHue(-1))
	assert.Equal(t, TagYellow, TagForHue(361))
	assert.Equal(t, TagYellow, TagForHue(math.NaN()))
}

func TestClassifyRGB(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b int
		want    string
	}{
		{name: "red", r: 255, g: 0, b: 0, want: TagRed},
		{name: "crimson", r: 255, g: 20, b: 60, want: TagRed},
		{name: "pink is purple by hue", r: 255, g: 64, b: 129, want: TagPurple},
		{name: "orange", r: 255, g: 128, b: 0, want: TagOrange},
		{name: "yellow", r: 255, g: 255, b: 0, want: TagYellow},
		{name: "highlighter yellow", r: 255, g: 235, b: 59, want: TagYellow},
		{name: "green", r: 0, g: 255, b: 0, want: TagGreen},
		{name: "material green", r: 76, g: 175, b: 80, want: TagGreen},
		{name: "cyan", r: 0, g: 255, b: 255, want: TagBlue},
		{name: "blue", r: 0, g: 0, b: 255, want: TagBlue},
		{name: "violet", r: 128, g: 0, b: 255, want: TagPurple},
		{name: "magenta", r: 255, g: 0, b: 255, want: TagPurple},
		// Achromatic colors have hue 0 and are not filtered out
		{name: "gray", r: 128, g: 128, b: 128, want: TagRed},
		{name: "white", r: 255, g: 255, b: 255, want: TagRed},
		{name: "out of range", r: 300, g: 0, b: 0, want: TagYellow},
		{name: "negative", r: -1, g: 0, b: 0, want: TagYellow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRGB(tt.r, tt.g, tt.b))
		})
	}
}

func TestClassifyRGB_Total(t *testing.T) {
	valid := map[string]bool{
		TagRed: true, TagOrange: true, TagYellow: true,
		TagGreen: true, TagBlue: true, TagPurple: true,
	}

	for r := 0; r <= 255; r += 17 {
		for g := 0; g <= 255; g += 17 {
			for b := 0; b <= 255; b += 17 {
				tag := ClassifyRGB(r, g, b)
				if !valid[tag] {
					t.Fatalf("ClassifyRGB(%d, %d, %d) = %q", r, g, b, tag)
				}
			}
		}
	}
}

func TestClassifyColor(t *testing.T) {
	tag, ok := ClassifyColor([]float64{0, 0, 1})
	assert.True(t, ok)
	assert.Equal(t, TagBlue, tag)

	_, ok = ClassifyColor(nil)
	assert.False(t, ok)
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, "#FFEB3B", ParseColor(nil))
	assert.Equal(t, "rgb(255, 0, 0)", ParseColor([]float64{1, 0, 0}))
	assert.Equal(t, "rgb(128, 64, 0)", ParseColor([]float64{0.5, 0.25, 0}))
	// 0.5 * 255 = 127.5 rounds up
	assert.Equal(t, "rgb(128, 128, 128)", ParseColor([]float64{0.5, 0.5, 0.5}))
}

func TestParseColor_ClampsComponents(t *testing.T) {
	tests := []struct {
		name    string
		in      []float64
		want    string
		wantTag string
	}{
		{name: "above one", in: []float64{2, 0, 0}, want: "rgb(255, 0, 0)", wantTag: TagRed},
		{name: "negative", in: []float64{0.5, 0.5, -0.2}, want: "rgb(128, 128, 0)", wantTag: TagYellow},
		{name: "all out of range", in: []float64{-1, 3, -5}, want: "rgb(0, 255, 0)", wantTag: TagGreen},
		{name: "NaN", in: []float64{math.NaN(), 0, 1}, want: "rgb(0, 0, 255)", wantTag: TagBlue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseColor(tt.in))

			tag, ok := ClassifyColor(tt.in)
			assert.True(t, ok)
			assert.Equal(t, tt.wantTag, tag)
		})
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{name: "absent", in: nil, want: nil},
		{name: "transparent", in: []float64{}, want: nil},
		{name: "gray", in: []float64{0.5}, want: []float64{0.5, 0.5, 0.5}},
		{name: "rgb", in: []float64{1, 0.5, 0}, want: []float64{1, 0.5, 0}},
		{name: "cmyk yellow", in: []float64{0, 0, 1, 0}, want: []float64{1, 1, 0}},
		{name: "cmyk with black", in: []float64{0, 0, 0, 0.5}, want: []float64{0.5, 0.5, 0.5}},
		{name: "malformed", in: []float64{1, 0}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeColor(tt.in))
		})
	}
}
