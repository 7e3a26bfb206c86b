// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package provider

import (
	"context"
	"errors"
	"io"
)

// ErrStorageDisabled is returned by every operation when no provider is configured.
var ErrStorageDisabled = errors.New("blob storage is not configured")

// BlobProvider defines the interface for blob storage providers.
// Implementations exist for S3-compatible stores (AWS S3, Cloudflare R2) and
// Google Cloud Storage.
type BlobProvider interface {
	// Upload stores body under key and returns the URL clients fetch it from.
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)

	// Delete physically deletes the object from the storage provider
	Delete(ctx context.Context, key string) error
}

// Upload is a file attached to a request, ready to be stored.
type Upload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}
