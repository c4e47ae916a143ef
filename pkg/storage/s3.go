// Package storage provides an S3-compatible object storage client used to
// read artwork referenced by s3:// URLs and to upload rendered batches.
//
// The client wraps the AWS SDK v2. When an endpoint is configured it switches
// to path-style addressing, which S3-compatible stores (MinIO, Ceph, R2)
// require.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
)

// Config holds connection settings. All fields are optional; an empty
// endpoint means AWS itself and empty keys mean anonymous access.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// Client reads and writes objects.
type Client struct {
	s3 *s3.Client
}

// New creates a client from cfg.
func New(cfg Config) *Client {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{Region: region}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		opts.Credentials = aws.AnonymousCredentials{}
	}
	if ep := strings.TrimRight(cfg.Endpoint, "/"); ep != "" {
		opts.BaseEndpoint = aws.String(ep)
		opts.UsePathStyle = true
	}
	return &Client{s3: s3.New(opts)}
}

// Download returns the contents of bucket/key.
func (c *Client) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// Upload stores data at bucket/key.
func (c *Client) Upload(ctx context.Context, bucket, key, contentType string, data []byte) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// ParseURI splits an s3://bucket/key reference. The key may be empty when
// the URI names a bucket or prefix destination.
func ParseURI(ref string) (bucket, key string, err error) {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", errors.New(errors.ErrCodeInvalidPath, "not an s3:// reference: %q", ref)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// JoinKey joins a prefix and a name with exactly one slash.
func JoinKey(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
