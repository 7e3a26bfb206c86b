// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package utils

import (
	"context"
	"errors"
	"fmt"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/pkg/log"
)

// Finder runs queries against a store and, when the store lacks the index a query
// needs, answers the same query from a full collection scan.
type Finder struct {
	store    dbi.DocumentStore
	fallback bool
}

// NewFinder creates a Finder. With fallback disabled, ErrIndexUnavailable is
// returned to the caller unchanged.
func NewFinder(store dbi.DocumentStore, fallback bool) *Finder {
	return &Finder{store: store, fallback: fallback}
}

// Find executes q on collection.
func (f *Finder) Find(ctx context.Context, collection string, q dbi.Query) ([]dbi.Document, error) {
	docs, err := f.store.Query(ctx, collection, q)
	if err == nil {
		return docs, nil
	}
	if !f.fallback || !errors.Is(err, dbi.ErrIndexUnavailable) {
		return nil, err
	}

	log.WarnWithContext(ctx, "index unavailable for %s query on %q, filtering in memory", collection, q.OrderBy)

	all, scanErr := f.store.Scan(ctx, collection)
	if scanErr != nil {
		return nil, fmt.Errorf("fallback scan of %s failed: %w", collection, scanErr)
	}
	return ApplyQuery(all, q), nil
}
