// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package memory

import (
	"context"
	"fmt"
	"sync"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/utils"
)

// Store is an in-process DocumentStore used for local development and tests.
type Store struct {
	mu             sync.RWMutex
	txMu           sync.Mutex
	collections    map[string]map[string]dbi.Document
	requireIndexes bool
	indexes        map[string]bool
}

// Option configures a Store.
type Option func(*Store)

// WithCompositeIndexesRequired makes filtered+ordered queries fail with
// ErrIndexUnavailable unless the index was registered with AddIndex, mirroring
// hosted document databases.
func WithCompositeIndexesRequired() Option {
	return func(s *Store) {
		s.requireIndexes = true
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		collections: make(map[string]map[string]dbi.Document),
		indexes:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddIndex registers a composite index for collection over the query's fields.
func (s *Store) AddIndex(collection string, q dbi.Query) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[indexKey(collection, q)] = true
}

func indexKey(collection string, q dbi.Query) string {
	key := collection
	for _, c := range q.Conditions {
		key += "|" + c.Name
	}
	return fmt.Sprintf("%s|%s:%s", key, q.OrderBy, q.Direction)
}

func (s *Store) collection(name string) map[string]dbi.Document {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]dbi.Document)
		s.collections[name] = c
	}
	return c
}

func (s *Store) Create(ctx context.Context, collection, id string, doc dbi.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	if _, exists := c[id]; exists {
		return dbi.ErrDuplicateKey
	}
	s.recordUndo(ctx, collection, id)
	stored := utils.CloneDocument(doc)
	stored["id"] = id
	c[id] = stored
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (dbi.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, dbi.ErrNotFound
	}
	return utils.CloneDocument(doc), nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return dbi.ErrNotFound
	}
	s.recordUndo(ctx, collection, id)
	for k, v := range fields {
		if k == "id" {
			continue
		}
		doc[k] = v
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collections[collection]
	if _, ok := c[id]; !ok {
		return dbi.ErrNotFound
	}
	s.recordUndo(ctx, collection, id)
	delete(c, id)
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, q dbi.Query) ([]dbi.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.requireIndexes && q.NeedsCompositeIndex() && !s.indexes[indexKey(collection, q)] {
		return nil, fmt.Errorf("%w: %s", dbi.ErrIndexUnavailable, indexKey(collection, q))
	}
	return utils.ApplyQuery(s.snapshot(collection), q), nil
}

func (s *Store) Scan(ctx context.Context, collection string) ([]dbi.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(collection), nil
}

func (s *Store) snapshot(collection string) []dbi.Document {
	c := s.collections[collection]
	out := make([]dbi.Document, 0, len(c))
	for _, doc := range c {
		out = append(out, utils.CloneDocument(doc))
	}
	return out
}

func (s *Store) Increment(ctx context.Context, collection, id, field string, delta int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return 0, dbi.ErrNotFound
	}

	var current int64
	if raw, present := doc[field]; present && raw != nil {
		n, ok := utils.ToInt64(raw)
		if !ok {
			return 0, fmt.Errorf("%w: %s is not numeric", dbi.ErrInvalidField, field)
		}
		current = n
	}

	next := current + delta
	if next < 0 {
		next = 0
	}
	s.recordUndo(ctx, collection, id)
	doc[field] = next
	return next, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}
