package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/cache"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/observability"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/sink"
)

// Runner renders cards and envelopes with artifact caching.
// Both CLI and API use it so caching and naming behave identically.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Engine *render.Engine
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner around engine.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(engine *render.Engine, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if engine == nil {
		engine = render.NewEngine(nil, render.WithLogger(logger))
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Runner{
		Engine: engine,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// RenderCard renders design for orderID in the requested formats.
// An empty orderID renders an untagged preview.
func (r *Runner) RenderCard(ctx context.Context, design *card.Design, orderID string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if orderID != "" {
		if err := errors.ValidateOrderID(orderID); err != nil {
			return nil, err
		}
	}
	if err := design.Validate(); err != nil {
		return nil, err
	}
	hash, err := cache.HashJSON(design)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash design")
	}
	res := &Result{
		Kind:        sink.KindCard,
		OrderID:     orderID,
		ContentHash: hash,
		Filename:    CardFilename(orderID, design.ID),
	}
	compose := func() (sink.Document, error) {
		return r.Engine.ComposeCard(ctx, design, orderID)
	}
	return r.run(ctx, res, 2, compose, opts)
}

// RenderEnvelope renders the envelope for rcpt and orderID.
func (r *Runner) RenderEnvelope(ctx context.Context, rcpt *card.RecipientAddress, orderID string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if orderID != "" {
		if err := errors.ValidateOrderID(orderID); err != nil {
			return nil, err
		}
	}
	if rcpt == nil {
		return nil, errors.New(errors.ErrCodeInvalidAddress, "recipient is required")
	}
	hash, err := cache.HashJSON(rcpt)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash recipient")
	}
	res := &Result{
		Kind:        sink.KindEnvelope,
		OrderID:     orderID,
		ContentHash: hash,
		Filename:    EnvelopeFilename(orderID),
	}
	compose := func() (sink.Document, error) {
		return r.Engine.ComposeEnvelope(ctx, rcpt, orderID)
	}
	return r.run(ctx, res, 1, compose, opts)
}

func (r *Runner) run(ctx context.Context, res *Result, pages int, compose func() (sink.Document, error), opts Options) (*Result, error) {
	names := opts.artifactNames(pages)
	engine, err := engineFingerprint(r.Engine)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash engine settings")
	}
	keys := make(map[string]string, len(names))
	for _, name := range names {
		keys[name] = r.Keyer.ArtifactKey(res.ContentHash, opts.ArtifactKeyOpts(res.Kind, res.OrderID, name, engine))
	}

	if !opts.Refresh {
		if artifacts, ok := r.lookup(ctx, keys); ok {
			res.Artifacts = artifacts
			res.CacheHit = true
			res.Stats.Pages = pages
			opts.Logger.Debug("artifacts from cache", "kind", res.Kind, "order", res.OrderID)
			return res, nil
		}
	}

	start := time.Now()
	doc, err := compose()
	if err != nil {
		return nil, err
	}
	res.Document = &doc
	res.Degraded = doc.Degraded
	res.Stats.Pages = doc.PageCount()
	res.Stats.ComposeTime = time.Since(start)

	start = time.Now()
	artifacts, err := r.convert(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	res.Artifacts = artifacts
	res.Stats.ConvertTime = time.Since(start)

	if doc.Degraded {
		// A fallback print is only good for this render.
		opts.Logger.Warn("not caching degraded render", "kind", res.Kind, "order", res.OrderID)
	} else {
		r.store(ctx, keys, artifacts)
	}

	opts.Logger.Info("rendered",
		"kind", res.Kind,
		"order", res.OrderID,
		"pages", res.Stats.Pages,
		"formats", opts.Formats,
		"duration", res.Stats.ComposeTime+res.Stats.ConvertTime)
	return res, nil
}

// engineFingerprint hashes the engine settings that change what is drawn.
func engineFingerprint(e *render.Engine) (string, error) {
	return cache.HashJSON(struct {
		DPI           int      `json:"dpi"`
		Attribution   string   `json:"attribution,omitempty"`
		ReturnAddress []string `json:"returnAddress,omitempty"`
	}{e.DPI, e.Attribution, e.ReturnAddress})
}

func (r *Runner) store(ctx context.Context, keys map[string]string, artifacts map[string][]byte) {
	for name, data := range artifacts {
		if err := r.Cache.Set(ctx, keys[name], data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", keys[name], "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
}

// lookup returns every artifact from the cache, or false if any is missing.
func (r *Runner) lookup(ctx context.Context, keys map[string]string) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(keys))
	for name, key := range keys {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		artifacts[name] = data
	}
	hooks.OnCacheHit(ctx, "artifact")
	return artifacts, true
}

func (r *Runner) convert(ctx context.Context, doc sink.Document, opts Options) (map[string][]byte, error) {
	conv := r.Engine.Converter
	if conv == nil {
		conv = render.DefaultConverter()
	}
	out := make(map[string][]byte)
	for _, format := range opts.Formats {
		switch format {
		case FormatPDF:
			data, err := conv.ToPDF(ctx, doc.Pages...)
			if err != nil {
				return nil, err
			}
			out[FormatPDF] = data
		case FormatSVG:
			for i, p := range doc.Pages {
				out[fmt.Sprintf("%s/%d", FormatSVG, i+1)] = p.SVG
			}
		case FormatPNG:
			for i, p := range doc.Pages {
				data, err := conv.ToPNG(ctx, p, opts.DPI)
				if err != nil {
					return nil, err
				}
				out[fmt.Sprintf("%s/%d", FormatPNG, i+1)] = data
			}
		}
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
