// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package counters

import (
	"context"
	"errors"
	"fmt"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
)

// Counter fields kept on parent documents.
const (
	LikeCount    = "likeCount"
	CommentCount = "commentCount"
	ReplyCount   = "replyCount"
)

// ErrInvalidDelta is returned for adjustments other than +1 or -1.
var ErrInvalidDelta = errors.New("counter delta must be +1 or -1")

// Target addresses the document holding a counter.
type Target struct {
	Collection string
	ID         string
}

func (t Target) String() string {
	return t.Collection + "/" + t.ID
}

// Synchronizer applies single-step counter adjustments as atomic store increments.
type Synchronizer struct {
	store dbi.DocumentStore
}

// NewSynchronizer creates a Synchronizer over store.
func NewSynchronizer(store dbi.DocumentStore) *Synchronizer {
	return &Synchronizer{store: store}
}

// Adjust adds delta to field on target. Decrements never take the value below zero.
func (s *Synchronizer) Adjust(ctx context.Context, target Target, field string, delta int64) (int64, error) {
	if delta != 1 && delta != -1 {
		return 0, ErrInvalidDelta
	}
	switch field {
	case LikeCount, CommentCount, ReplyCount:
	default:
		return 0, fmt.Errorf("%w: %s", dbi.ErrInvalidField, field)
	}

	value, err := s.store.Increment(ctx, target.Collection, target.ID, field, delta)
	if err != nil {
		return 0, fmt.Errorf("adjust %s on %s: %w", field, target, err)
	}
	return value, nil
}
