// Package render rasterizes PDF pages by running the Ghostscript command-line
// tool. Each page is rendered to PNG on stdout and loaded into a raster
// surface sized for the page viewport.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"github.com/a3tai/mcp-pdf-highlights/internal/highlight"
	"github.com/a3tai/mcp-pdf-highlights/internal/raster"
)

// DefaultTimeout bounds a single page render
const DefaultTimeout = 30 * time.Second

// ErrNoGhostscript is returned if the ghostscript command-line tool is not
// available.
var ErrNoGhostscript = errors.New("cannot run ghostscript")

var pngDeviceRe = regexp.MustCompile(`\bpng16m\b`)

type probe struct {
	once  sync.Once
	found bool
}

// probes caches availability per executable for the life of the process
var probes sync.Map

func available(path string) bool {
	v, _ := probes.LoadOrStore(path, &probe{})
	p := v.(*probe)
	p.once.Do(func() {
		out, err := exec.Command(path, "-h").Output()
		p.found = err == nil && pngDeviceRe.Match(out)
	})
	return p.found
}

// Ghostscript renders pages with a gs executable
type Ghostscript struct {
	path    string
	timeout time.Duration
	debug   bool
}

// NewGhostscript checks that path runs a Ghostscript with the png16m device.
// A zero timeout selects DefaultTimeout.
func NewGhostscript(path string, timeout time.Duration, debug bool) (*Ghostscript, error) {
	if path == "" {
		path = "gs"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if !available(path) {
		return nil, fmt.Errorf("%w: %s", ErrNoGhostscript, path)
	}
	return &Ghostscript{path: path, timeout: timeout, debug: debug}, nil
}

// Session renders pages of one document. The document is written to a
// private temporary directory once and removed by Close.
type Session struct {
	gs      *Ghostscript
	ctx     context.Context
	dir     string
	pdfPath string
}

var _ highlight.Renderer = (*Session)(nil)

// NewSession prepares data for rendering. Cancelling ctx aborts any render in
// progress.
func (g *Ghostscript) NewSession(ctx context.Context, data []byte) (*Session, error) {
	dir, err := os.MkdirTemp("", "pdf-highlights-")
	if err != nil {
		return nil, fmt.Errorf("failed to create render directory: %w", err)
	}

	pdfPath := filepath.Join(dir, "document.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to write render input: %w", err)
	}

	return &Session{gs: g, ctx: ctx, dir: dir, pdfPath: pdfPath}, nil
}

// RenderPage renders page into dst. dst must already be sized to the
// viewport; the rendered image is scaled to fit when Ghostscript rounds the
// page size differently.
func (s *Session) RenderPage(page int, vp highlight.Viewport, dst *raster.Surface) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.gs.timeout)
	defer cancel()

	args := []string{
		"-q", "-dSAFER", "-dBATCH", "-dNOPAUSE",
		"-dUseCropBox",
		"-sDEVICE=png16m",
		fmt.Sprintf("-r%g", 72*vp.Scale),
		"-dTextAlphaBits=4", "-dGraphicsAlphaBits=4",
		fmt.Sprintf("-dFirstPage=%d", page),
		fmt.Sprintf("-dLastPage=%d", page),
		"-sOutputFile=-",
		s.pdfPath,
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.gs.path, args...)
	cmd.Dir = s.dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("render page %d: %w", page, ctx.Err())
		}
		return fmt.Errorf("render page %d: %w: %s", page, err, bytes.TrimSpace(stderr.Bytes()))
	}

	img, err := imaging.Decode(&stdout)
	if err != nil {
		return fmt.Errorf("render page %d: failed to decode output: %w", page, err)
	}

	if s.gs.debug {
		log.Printf("[render] page %d: %dx%d in %v", page, img.Bounds().Dx(), img.Bounds().Dy(), time.Since(start))
	}

	b := dst.Bounds()
	return dst.Load(img, b.Dx(), b.Dy())
}

// Close removes the session's temporary files
func (s *Session) Close() error {
	return os.RemoveAll(s.dir)
}
