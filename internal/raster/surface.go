package raster

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// MaxPixels bounds the area of a surface. Larger pages are refused rather
// than allocated.
const MaxPixels = 1 << 26

// Surface is a reusable RGBA pixel buffer. A single surface is owned by one
// parse and resized for every page that gets rendered into it.
type Surface struct {
	img *image.RGBA
}

// NewSurface creates an empty surface
func NewSurface() *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, 0, 0))}
}

// Resize sets the surface dimensions and clears it. The backing pixel slice
// is reused when it is large enough.
func (s *Surface) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	if width > 0 && height > MaxPixels/width {
		return fmt.Errorf("surface size %dx%d exceeds %d pixels", width, height, MaxPixels)
	}

	n := 4 * width * height
	if cap(s.img.Pix) >= n {
		pix := s.img.Pix[:n]
		clear(pix)
		s.img = &image.RGBA{
			Pix:    pix,
			Stride: 4 * width,
			Rect:   image.Rect(0, 0, width, height),
		}
		return nil
	}

	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Load copies src onto the surface, sized width x height. When the source
// dimensions differ (renderers round page sizes differently) it is scaled to fit.
func (s *Surface) Load(src image.Image, width, height int) error {
	if src == nil {
		return fmt.Errorf("source image is nil")
	}
	if err := s.Resize(width, height); err != nil {
		return err
	}

	sb := src.Bounds()
	if sb.Dx() == width && sb.Dy() == height {
		draw.Copy(s.img, image.Point{}, src, sb, draw.Src, nil)
		return nil
	}

	draw.ApproxBiLinear.Scale(s.img, s.img.Bounds(), src, sb, draw.Src, nil)
	return nil
}

// Bounds returns the surface rectangle, origin top-left
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Rect
}

// Image exposes the pixel buffer. It stays valid until the next Resize or Load.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Empty reports whether the surface has no pixels
func (s *Surface) Empty() bool {
	return s.img.Rect.Empty()
}
