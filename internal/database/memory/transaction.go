// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package memory

import (
	"context"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/utils"
)

type txKey struct{}

// undoLog collects inverse operations for writes made inside a transaction.
// Entries are applied in reverse on rollback. Caller holds Store.mu.
type undoLog struct {
	entries []func()
}

var _ dbi.Transactor = (*Store)(nil)

// WithTransaction serializes transactions and rolls back every write made
// through the transaction context when fn returns an error or panics. Nested
// calls join the outer transaction.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*undoLog); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	undo := &undoLog{}
	defer func() {
		if p := recover(); p != nil {
			s.rollback(undo)
			panic(p)
		}
		if err != nil {
			s.rollback(undo)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, undo))
}

func (s *Store) rollback(undo *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(undo.entries) - 1; i >= 0; i-- {
		undo.entries[i]()
	}
}

// recordUndo registers the inverse of a write about to be made on collection/id.
// Caller holds s.mu.
func (s *Store) recordUndo(ctx context.Context, collection, id string) {
	undo, ok := ctx.Value(txKey{}).(*undoLog)
	if !ok {
		return
	}

	previous, existed := s.collections[collection][id]
	if existed {
		previous = utils.CloneDocument(previous)
	}
	undo.entries = append(undo.entries, func() {
		c := s.collection(collection)
		if existed {
			c[id] = previous
		} else {
			delete(c, id)
		}
	})
}
