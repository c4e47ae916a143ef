// Package server exposes the render pipeline over HTTP.
//
// Routes mirror the storefront API the web application calls:
//
//	POST /api/generate-pdf       {cardDesign, orderId?}         -> {url, filename}
//	POST /api/generate-envelope  {recipient, orderId}           -> {url, filename}
//	POST /api/admin/batch        {action, orders}               -> {pdfs, errors}
//	GET  /healthz
//
// PDFs are returned inline as data URLs. Persistence, authentication and
// payment are handled by the caller; the batch endpoint therefore receives
// the orders themselves rather than ids.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/pipeline"
)

// Defaults for a Server.
const (
	DefaultMaxBodyBytes   = 10 << 20
	DefaultRequestTimeout = 60 * time.Second
	shutdownTimeout       = 15 * time.Second
)

// Server holds the handlers' dependencies.
type Server struct {
	Runner         *pipeline.Runner
	Logger         *log.Logger
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	Concurrency    int
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Runner:         runner,
		Logger:         logger,
		MaxBodyBytes:   DefaultMaxBodyBytes,
		RequestTimeout: DefaultRequestTimeout,
		Concurrency:    pipeline.DefaultConcurrency,
	}
}

// Handler returns the configured chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(s.Logger),
		middleware.Recoverer,
	)

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Use(limitBody(s.MaxBodyBytes))
		if s.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.RequestTimeout))
		}

		r.Post("/generate-pdf", s.generatePDF)
		r.Post("/generate-envelope", s.generateEnvelope)
		r.Post("/admin/batch", s.batch)
	})

	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != http.ErrServerClosed {
		return err
	}
	return nil
}
