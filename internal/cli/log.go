// Package cli implements the whisperart command-line interface.
//
// Commands render a single card or envelope from JSON files, render whole
// order batches with bounded concurrency, serve the storefront HTTP API and
// manage the artifact cache. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - card: Render a card design to PDF, SVG or PNG
//   - envelope: Render an envelope for a recipient address
//   - batch: Render cards or envelopes for a list of orders
//   - serve: Run the HTTP API
//   - cache: Clear or locate the artifact cache
//   - config: Show the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. With -v the
// observability hooks are routed to the logger, so artwork downloads, cache
// hits and render timings show up as debug lines.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps that writes to w
// and filters messages below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered 12 cards (3.214s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Debug Hooks
// =============================================================================

// debugHooks reports observability events as debug log lines.
type debugHooks struct {
	logger *log.Logger
}

// enableDebugHooks routes every hook category to l.
func enableDebugHooks(l *log.Logger) {
	h := debugHooks{logger: l.WithPrefix("hooks")}
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h debugHooks) OnRenderStart(_ context.Context, kind, orderID string) {
	h.logger.Debug("render start", "kind", kind, "order", orderID)
}

func (h debugHooks) OnRenderComplete(_ context.Context, kind, orderID string, pages int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "kind", kind, "order", orderID, "duration", d, "err", err)
		return
	}
	h.logger.Debug("render done", "kind", kind, "order", orderID, "pages", pages, "duration", d)
}

func (h debugHooks) OnArtworkFallback(_ context.Context, ref string, err error) {
	h.logger.Debug("artwork fallback", "ref", ref, "err", err)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ observability.RenderHooks = debugHooks{}
	_ observability.CacheHooks  = debugHooks{}
	_ observability.HTTPHooks   = debugHooks{}
)
