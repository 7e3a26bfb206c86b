// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package provider

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	platformconfig "github.com/socialfeed/api/internal/platform/config"
)

const gcsPublicHost = "https://storage.googleapis.com"

// gcsProvider implements BlobProvider for Google Cloud Storage
type gcsProvider struct {
	client    *storage.Client
	bucket    string
	publicURL string
}

// NewGCSProvider creates a Cloud Storage provider. Without a credentials file
// application default credentials are used.
func NewGCSProvider(ctx context.Context, cfg platformconfig.StorageConfig) (BlobProvider, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("STORAGE_BUCKET is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = joinURL(gcsPublicHost, cfg.Bucket)
	}

	return &gcsProvider{client: client, bucket: cfg.Bucket, publicURL: publicURL}, nil
}

func (p *gcsProvider) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	w := p.client.Bucket(p.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	// The object is only committed once the writer closes cleanly.
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return joinURL(p.publicURL, key), nil
}

func (p *gcsProvider) Delete(ctx context.Context, key string) error {
	if err := p.client.Bucket(p.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
