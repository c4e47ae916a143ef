package artwork

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/buildinfo"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/observability"
)

// DefaultTimeout bounds a single artwork download.
const DefaultTimeout = 10 * time.Second

// HTTPSource downloads artwork over HTTP(S) in a single attempt.
type HTTPSource struct {
	Client   *http.Client
	MaxBytes int64
}

// NewHTTPSource creates an HTTP source with the given timeout (DefaultTimeout
// when zero).
func NewHTTPSource(timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPSource{
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: DefaultMaxBytes,
	}
}

// Fetch downloads ref.
func (s *HTTPSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArtwork, err, "build request")
	}
	req.Header.Set("Accept", "image/*")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", ref)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "fetch %s", ref)
	}

	limit := s.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s", ref)
	}
	if int64(len(data)) > limit {
		return nil, errors.New(errors.ErrCodeArtwork, "image %s exceeds %d bytes", ref, limit)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "status %d", code)
	case code >= 500:
		return errors.New(errors.ErrCodeNetwork, "status %d", code)
	default:
		return errors.New(errors.ErrCodeArtwork, "status %d", code)
	}
}

var _ Source = (*HTTPSource)(nil)
