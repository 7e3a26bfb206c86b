// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package provider

import (
	"context"
	"fmt"
	"io"

	platformconfig "github.com/socialfeed/api/internal/platform/config"
)

// Supported storage providers
const (
	ProviderNone = "none"
	ProviderS3   = "s3"
	ProviderGCS  = "gcs"
)

// NewBlobProvider creates the provider selected by cfg.Provider.
func NewBlobProvider(ctx context.Context, cfg platformconfig.StorageConfig) (BlobProvider, error) {
	switch cfg.Provider {
	case ProviderS3:
		return NewS3Provider(ctx, cfg)
	case ProviderGCS:
		return NewGCSProvider(ctx, cfg)
	case ProviderNone, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

// Disabled rejects every operation with ErrStorageDisabled.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	return "", ErrStorageDisabled
}

func (Disabled) Delete(ctx context.Context, key string) error {
	return ErrStorageDisabled
}
