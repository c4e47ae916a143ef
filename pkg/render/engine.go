package render

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/artwork"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/observability"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/layout"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/sink"
)

// Engine composes cards and envelopes.
//
// An Engine holds no per-render state and is safe for concurrent use; batch
// callers share one Engine across goroutines.
type Engine struct {
	// Source fetches the artwork named by a design's image reference.
	Source artwork.Source

	// Logger receives warnings about absorbed artwork failures.
	Logger *log.Logger

	// Attribution replaces the inside-page attribution line when set.
	Attribution string

	// ReturnAddress replaces the envelope return address when set.
	ReturnAddress []string

	// DPI is the raster resolution artwork is prepared at.
	DPI int

	// Converter turns composed pages into PDF or PNG.
	Converter *Converter
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) EngineOption { return func(e *Engine) { e.Logger = l } }

// WithAttribution sets the inside-page attribution line.
func WithAttribution(s string) EngineOption { return func(e *Engine) { e.Attribution = s } }

// WithReturnAddress sets the envelope return address lines.
func WithReturnAddress(lines ...string) EngineOption {
	return func(e *Engine) { e.ReturnAddress = lines }
}

// WithDPI sets the artwork resolution.
func WithDPI(dpi int) EngineOption { return func(e *Engine) { e.DPI = dpi } }

// WithConverter sets the PDF/PNG converter.
func WithConverter(c *Converter) EngineOption { return func(e *Engine) { e.Converter = c } }

// NewEngine creates an engine fetching artwork from src. A nil src uses
// [artwork.NewRouter], which accepts http(s) URLs and data URIs.
func NewEngine(src artwork.Source, opts ...EngineOption) *Engine {
	if src == nil {
		src = artwork.NewRouter()
	}
	e := &Engine{
		Source:    src,
		Logger:    log.Default(),
		DPI:       layout.TargetDPI,
		Converter: DefaultConverter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ComposeCard lays out design as a two-page document: front, then inside.
//
// Only an incomplete design is fatal. Artwork that cannot be fetched or
// decoded is logged and the front is drawn with the fallback background; the
// caption and every other element are placed as usual, and the document is
// marked Degraded.
func (e *Engine) ComposeCard(ctx context.Context, design *card.Design, orderID string) (doc sink.Document, err error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(sink.KindCard), orderID)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, string(sink.KindCard), orderID, doc.PageCount(), time.Since(start), err)
	}()

	if err := design.Validate(); err != nil {
		return sink.Document{}, err
	}
	r := layout.Resolve(design.Layout)
	art := e.artwork(ctx, design.Image.Source(), r.ImageBox, orderID)

	opts := e.pageOptions(orderID)
	front := sink.RenderFront(r, design.Text.FrontCaption, art, opts...)
	inside := sink.RenderInside(r, design.Text.InsideProse, design.SignatureText(), opts...)
	return sink.Document{Kind: sink.KindCard, Pages: []sink.Page{front, inside}, Degraded: art == nil}, nil
}

// ComposeEnvelope lays out the single landscape envelope page.
func (e *Engine) ComposeEnvelope(ctx context.Context, rcpt *card.RecipientAddress, orderID string) (doc sink.Document, err error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(sink.KindEnvelope), orderID)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, string(sink.KindEnvelope), orderID, doc.PageCount(), time.Since(start), err)
	}()

	if rcpt == nil {
		return sink.Document{}, errors.New(errors.ErrCodeInvalidAddress, "recipient is required")
	}
	if strings.TrimSpace(rcpt.Name) == "" && strings.TrimSpace(rcpt.AddressLine1) == "" {
		return sink.Document{}, errors.New(errors.ErrCodeInvalidAddress, "recipient has no name or street address")
	}
	page := sink.RenderEnvelope(*rcpt, e.pageOptions(orderID)...)
	return sink.Document{Kind: sink.KindEnvelope, Pages: []sink.Page{page}}, nil
}

// RenderCard composes design and returns it as a two-page PDF.
func (e *Engine) RenderCard(ctx context.Context, design *card.Design, orderID string) ([]byte, error) {
	doc, err := e.ComposeCard(ctx, design, orderID)
	if err != nil {
		return nil, err
	}
	return e.converter().ToPDF(ctx, doc.Pages...)
}

// RenderEnvelope composes the envelope for rcpt and returns it as a PDF.
func (e *Engine) RenderEnvelope(ctx context.Context, rcpt *card.RecipientAddress, orderID string) ([]byte, error) {
	doc, err := e.ComposeEnvelope(ctx, rcpt, orderID)
	if err != nil {
		return nil, err
	}
	return e.converter().ToPDF(ctx, doc.Pages...)
}

func (e *Engine) artwork(ctx context.Context, ref string, box layout.Rect, orderID string) *sink.Artwork {
	raw, err := e.Source.Fetch(ctx, ref)
	if err == nil {
		var art *sink.Artwork
		if art, err = artwork.Prepare(raw, box, e.DPI); err == nil {
			return art
		}
	}
	e.logger().Warn("artwork unavailable, using fallback background",
		"order", orderID, "ref", artwork.Redact(ref), "err", err)
	observability.Render().OnArtworkFallback(ctx, artwork.Redact(ref), err)
	return nil
}

func (e *Engine) pageOptions(orderID string) []sink.Option {
	return []sink.Option{
		sink.WithOrderID(orderID),
		sink.WithAttribution(e.Attribution),
		sink.WithReturnAddress(e.ReturnAddress...),
	}
}

func (e *Engine) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

func (e *Engine) converter() *Converter {
	if e.Converter == nil {
		return DefaultConverter()
	}
	return e.Converter
}
