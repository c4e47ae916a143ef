package artwork

import (
	"context"
	"encoding/base64"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/storage"
)

// DataURISource decodes base64 data URIs such as
// "data:image/png;base64,iVBOR...".
type DataURISource struct{}

// Fetch decodes ref.
func (DataURISource) Fetch(_ context.Context, ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New(errors.ErrCodeArtwork, "malformed data URI")
	}
	if !strings.HasSuffix(meta, ";base64") {
		data, err := url.PathUnescape(payload)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeArtwork, err, "decode data URI")
		}
		return []byte(data), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArtwork, err, "decode data URI")
	}
	return data, nil
}

// FileSource reads artwork from the local filesystem. When Root is set,
// references must resolve inside it.
type FileSource struct {
	Root string
}

// Fetch reads the file named by ref, a path or file:// URL.
func (s FileSource) Fetch(_ context.Context, ref string) ([]byte, error) {
	path := ref
	if strings.HasPrefix(ref, "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "parse %s", ref)
		}
		path = u.Path
	}
	if s.Root != "" {
		root, err := filepath.Abs(s.Root)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve root")
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		rel, err := filepath.Rel(root, filepath.Clean(path))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, errors.New(errors.ErrCodeInvalidPath, "%s is outside %s", ref, s.Root)
		}
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArtwork, err, "read %s", path)
	}
	return data, nil
}

// Downloader is the subset of the storage client used to read objects.
type Downloader interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}

// S3Source reads artwork from s3://bucket/key references.
type S3Source struct {
	Client Downloader
}

// Fetch downloads the object named by ref.
func (s S3Source) Fetch(ctx context.Context, ref string) ([]byte, error) {
	bucket, key, err := storage.ParseURI(ref)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s names no object", ref)
	}
	data, err := s.Client.Download(ctx, bucket, key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArtwork, err, "fetch %s", ref)
	}
	return data, nil
}

var (
	_ Source = DataURISource{}
	_ Source = FileSource{}
	_ Source = S3Source{}
)
