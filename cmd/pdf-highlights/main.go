// Command pdf-highlights prints the highlight annotations of a PDF file in
// reading order.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/a3tai/mcp-pdf-highlights/internal/config"
	"github.com/a3tai/mcp-pdf-highlights/internal/highlight"
	"github.com/a3tai/mcp-pdf-highlights/internal/mcp"
	"github.com/a3tai/mcp-pdf-highlights/internal/pdf"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("pdf-highlights", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	format := flags.StringP("format", "f", mcp.FormatText, "Output format: text, json")
	images := flags.Bool("images", false, "Render pages and attach PNG snippets")
	scale := flags.Float64("scale", highlight.DefaultScale, "Render scale for snippets")
	padding := flags.Int("padding", highlight.DefaultCropPadding, "Snippet padding in pixels")
	threshold := flags.Float64("linethreshold", highlight.DefaultSameLineThreshold, "Same-line tolerance in PDF units")
	gs := flags.String("gs", config.DefaultGhostscript, "Ghostscript executable")
	timeout := flags.Duration("rendertimeout", config.DefaultRenderTimeout, "Per-page render timeout")
	maxSize := flags.Int64("maxfilesize", config.DefaultMaxFileSize, "Maximum PDF file size in bytes")
	debug := flags.Bool("debug", false, "Enable debug logging to stderr")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: pdf-highlights [flags] <file.pdf>\n\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if flags.NArg() != 1 {
		flags.Usage()
		return 2
	}
	if *format != mcp.FormatText && *format != mcp.FormatJSON {
		fmt.Fprintf(stderr, "Error: unsupported format %q\n", *format)
		return 2
	}

	log.SetOutput(io.Discard)
	if *debug {
		log.SetOutput(stderr)
	}

	path, err := filepath.Abs(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cfg := config.DefaultConfig()
	cfg.PDFDirectory = filepath.Dir(path)
	cfg.MaxFileSize = *maxSize
	cfg.Scale = *scale
	cfg.CropPadding = *padding
	cfg.LineThreshold = *threshold
	cfg.IncludeImages = *images
	cfg.Ghostscript = *gs
	cfg.RenderTimeout = *timeout
	if *debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	service, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory, cfg.ServiceOptions())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	result, err := service.ExtractHighlights(ctx, pdf.PDFExtractHighlightsRequest{Path: path})
	if err != nil {
		fmt.Fprintf(stderr, "Error extracting highlights: %v\n", err)
		return 1
	}

	if *format == mcp.FormatJSON {
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Fprint(stdout, mcp.FormatHighlights(result))
	return 0
}
