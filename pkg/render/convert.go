package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/layout"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/sink"
)

// ErrConverterMissing is returned when rsvg-convert cannot be found.
var ErrConverterMissing = errors.New(errors.ErrCodeConverter,
	"PDF and PNG export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")

// Converter shells out to rsvg-convert. Pages carry their physical size in
// inches, so the output matches the print dimensions exactly.
type Converter struct {
	// Path is the rsvg-convert binary; looked up on PATH when empty.
	Path string
}

// DefaultConverter uses rsvg-convert from PATH.
func DefaultConverter() *Converter { return &Converter{} }

// Available reports whether the converter binary can be found.
func (c *Converter) Available() bool {
	_, err := c.binary()
	return err == nil
}

// ToPDF renders pages, in order, into one PDF document.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func (c *Converter) ToPDF(ctx context.Context, pages ...sink.Page) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errors.New(errors.ErrCodeRender, "no pages to convert")
	}
	if len(pages) == 1 {
		return c.run(ctx, bytes.NewReader(pages[0].SVG), "-f", "pdf")
	}

	// rsvg-convert joins several input files into a multi-page PDF.
	dir, err := os.MkdirTemp("", "whisperart-*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "create temp dir")
	}
	defer os.RemoveAll(dir)

	args := []string{"-f", "pdf"}
	for i, p := range pages {
		name := filepath.Join(dir, fmt.Sprintf("page-%d.svg", i+1))
		if err := os.WriteFile(name, p.SVG, 0o600); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "write page %d", i+1)
		}
		args = append(args, name)
	}
	return c.run(ctx, nil, args...)
}

// ToPNG rasterizes one page at dpi (layout.TargetDPI when zero).
func (c *Converter) ToPNG(ctx context.Context, page sink.Page, dpi int) ([]byte, error) {
	if dpi <= 0 {
		dpi = layout.TargetDPI
	}
	d := fmt.Sprint(dpi)
	return c.run(ctx, bytes.NewReader(page.SVG), "-f", "png", "--dpi-x", d, "--dpi-y", d)
}

// ToPDF converts pages with the default converter.
func ToPDF(ctx context.Context, pages ...sink.Page) ([]byte, error) {
	return DefaultConverter().ToPDF(ctx, pages...)
}

// ToPNG converts one page with the default converter.
func ToPNG(ctx context.Context, page sink.Page, dpi int) ([]byte, error) {
	return DefaultConverter().ToPNG(ctx, page, dpi)
}

func (c *Converter) binary() (string, error) {
	name := c.Path
	if name == "" {
		name = "rsvg-convert"
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", ErrConverterMissing
	}
	return path, nil
}

func (c *Converter) run(ctx context.Context, stdin *bytes.Reader, args ...string) ([]byte, error) {
	bin, err := c.binary()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "rsvg-convert")
		}
		return nil, errors.Wrap(errors.ErrCodeRender, err, "rsvg-convert: %s", bytes.TrimSpace(errBuf.Bytes()))
	}
	return out.Bytes(), nil
}
