// Package artwork resolves a card's image reference to raster bytes and
// prepares them for placement on the front page.
//
// A [Source] fetches bytes for a reference. [Router] picks the source by
// reference scheme: http(s) URLs, data URIs, s3:// objects and local files.
// Each fetch is a single attempt; there is no retry and no caching here, so a
// failed fetch is reported immediately and the caller falls back to a plain
// background.
//
// [Prepare] decodes the bytes, applies EXIF orientation and crops the image to
// fill the target box at print resolution.
package artwork

import (
	"context"
	"net/url"
	"strings"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
)

// Source resolves an image reference to raw encoded bytes.
type Source interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// SourceFunc adapts a function to [Source].
type SourceFunc func(ctx context.Context, ref string) ([]byte, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context, ref string) ([]byte, error) { return f(ctx, ref) }

// DefaultMaxBytes caps the size of a fetched image.
const DefaultMaxBytes = 25 << 20

// Router dispatches references to a source by scheme. A nil field disables
// that scheme.
type Router struct {
	HTTP Source // http, https
	Data Source // data:
	S3   Source // s3://
	File Source // file:// and bare paths
}

// NewRouter returns a router with HTTP and data URI sources enabled.
func NewRouter() *Router {
	return &Router{
		HTTP: NewHTTPSource(0),
		Data: DataURISource{},
	}
}

// Fetch resolves ref through the source registered for its scheme.
func (r *Router) Fetch(ctx context.Context, ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New(errors.ErrCodeArtwork, "empty image reference")
	}

	src := r.route(ref)
	if src == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no source for image reference %q", Redact(ref))
	}
	return src.Fetch(ctx, ref)
}

func (r *Router) route(ref string) Source {
	if strings.HasPrefix(ref, "data:") {
		return r.Data
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 { // Windows drive letters
		return r.File
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return r.HTTP
	case "s3":
		return r.S3
	case "file":
		return r.File
	}
	return nil
}

// Redact shortens data URIs for log and error messages.
func Redact(ref string) string {
	if strings.HasPrefix(ref, "data:") && len(ref) > 40 {
		return ref[:40] + "..."
	}
	return ref
}
