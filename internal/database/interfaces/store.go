// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package interfaces

import "context"

// Document is a schemaless record. Every stored document carries its key under "id".
type Document map[string]interface{}

// DocumentStore is the storage adapter every repository is built on.
type DocumentStore interface {
	// Create inserts doc under id. It fails with ErrDuplicateKey when id is taken,
	// which makes it usable as a conditional write.
	Create(ctx context.Context, collection, id string, doc Document) error
	Get(ctx context.Context, collection, id string) (Document, error)
	// Update merges fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	// Delete removes the document and reports ErrNotFound when nothing was removed.
	Delete(ctx context.Context, collection, id string) error
	// Query runs an equality-filtered, optionally ordered query. Stores that need a
	// prepared index for the combination return ErrIndexUnavailable.
	Query(ctx context.Context, collection string, q Query) ([]Document, error)
	// Scan returns every document in the collection, unordered.
	Scan(ctx context.Context, collection string) ([]Document, error)
	// Increment atomically adds delta to a numeric field, never going below zero,
	// and returns the stored value.
	Increment(ctx context.Context, collection, id, field string, delta int64) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// Transactor is implemented by stores able to run several writes atomically.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Supported database types
const (
	DatabaseTypePostgreSQL = "postgresql"
	DatabaseTypeFirestore  = "firestore"
	DatabaseTypeMemory     = "memory"
)
