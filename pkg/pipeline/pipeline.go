// Package pipeline wraps the render engine for the CLI and HTTP surfaces.
//
// The engine in package render is deliberately uncached and single-shot. This
// package adds what its callers share:
//
//  1. Output formats: the whole document as PDF, or one SVG or PNG per page
//  2. An artifact cache keyed by the hash of the design (or recipient)
//  3. File naming for downloads and batch output
//  4. Bounded concurrent batches over many orders
//
// # Usage
//
//	runner := pipeline.NewRunner(render.NewEngine(nil), cache, nil, logger)
//	res, err := runner.RenderCard(ctx, design, orderID, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(res.Filename, res.Artifacts["pdf"], 0o644)
//
// Batches keep going when one order fails:
//
//	results := runner.Batch(ctx, pipeline.KindCards, orders, opts, 4)
//	for _, r := range results {
//	    if r.Err != nil { ... }
//	}
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/cache"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/layout"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/sink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultDPI is the resolution of PNG proofs and prepared artwork.
	DefaultDPI = layout.TargetDPI

	// DefaultConcurrency bounds how many orders a batch renders at once.
	DefaultConcurrency = 4

	// MaxDPI caps PNG proofs; 600 DPI is already 3000x4200 for a card.
	MaxDPI = 600
)

// Format constants for output formats.
const (
	FormatPDF = "pdf"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = []string{FormatPDF, FormatSVG, FormatPNG}

// =============================================================================
// Options
// =============================================================================

// Options configures one render.
type Options struct {
	// Formats to produce. PDF yields one artifact for the whole document;
	// SVG and PNG yield one artifact per page.
	Formats []string `json:"formats,omitempty"`

	// DPI for PNG proofs.
	DPI int `json:"dpi,omitempty"`

	// Refresh bypasses cached artifacts (they are still written).
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPDF}
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks formats and DPI.
func (o *Options) Validate() error {
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.DPI < 0 || o.DPI > MaxDPI {
		return errors.New(errors.ErrCodeInvalidInput, "dpi %d out of range (1-%d)", o.DPI, MaxDPI)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults then validates. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)
	o.validated = true
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated flag value such as "pdf,png".
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return dedupe(out), nil
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// artifactNames lists the artifact keys produced for a document of n pages:
// "pdf" for the whole document, "svg/1", "png/2" and so on for pages.
func (o *Options) artifactNames(pages int) []string {
	var names []string
	for _, f := range o.Formats {
		if f == FormatPDF {
			names = append(names, FormatPDF)
			continue
		}
		for i := 1; i <= pages; i++ {
			names = append(names, fmt.Sprintf("%s/%d", f, i))
		}
	}
	return names
}

// ArtifactKeyOpts returns cache key options for one artifact drawn by an
// engine with the given settings fingerprint.
func (o *Options) ArtifactKeyOpts(kind sink.Kind, orderID, artifact, engine string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Kind: string(kind), OrderID: orderID, Format: artifact, Engine: engine}
	if strings.HasPrefix(artifact, FormatPNG) {
		opts.DPI = o.DPI
	}
	return opts
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of one render.
type Result struct {
	Kind    sink.Kind
	OrderID string

	// Document holds the composed pages. It is nil when every artifact was
	// served from the cache.
	Document *sink.Document

	// ContentHash is the SHA-256 of the design or recipient JSON.
	ContentHash string

	// Artifacts are keyed "pdf", "svg/1", "png/2", ...
	Artifacts map[string][]byte

	// Filename is the download name of the PDF.
	Filename string

	Stats    Stats
	CacheHit bool

	// Degraded is set when the render fell back for missing content. Degraded
	// results are never cached.
	Degraded bool
}

// Stats contains render timings.
type Stats struct {
	Pages       int
	ComposeTime time.Duration
	ConvertTime time.Duration
}

// PDF returns the PDF artifact, or nil when PDF was not requested.
func (r *Result) PDF() []byte { return r.Artifacts[FormatPDF] }

// FileName returns the file name for an artifact key: the PDF keeps
// Filename, page artifacts get a page suffix ("card-abc12345-2.png").
func (r *Result) FileName(artifact string) string {
	if artifact == FormatPDF {
		return r.Filename
	}
	format, page, ok := strings.Cut(artifact, "/")
	if !ok {
		return artifact
	}
	return fmt.Sprintf("%s-%s.%s", strings.TrimSuffix(r.Filename, ".pdf"), page, format)
}

// =============================================================================
// File Names
// =============================================================================

// CardFilename names a card PDF. Orders use the short order id; an unordered
// preview uses the design id.
func CardFilename(orderID, designID string) string {
	if orderID != "" {
		return fmt.Sprintf("card-%s.pdf", card.ShortID(orderID))
	}
	if designID == "" {
		designID = "preview"
	}
	return fmt.Sprintf("whispering-art-card-%s.pdf", designID)
}

// EnvelopeFilename names an envelope PDF.
func EnvelopeFilename(orderID string) string {
	if orderID == "" {
		return "envelope.pdf"
	}
	return fmt.Sprintf("envelope-%s.pdf", card.ShortID(orderID))
}
