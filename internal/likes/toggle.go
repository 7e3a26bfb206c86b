// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package likes

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/socialfeed/api/internal/counters"
	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/pkg/log"
	"github.com/socialfeed/api/internal/types"
)

// ErrNoViewer is returned when a toggle is attempted without a viewer.
var ErrNoViewer = errors.New("toggle requires a viewer")

// EdgeStore persists like edges with at most one edge per (target, user).
type EdgeStore interface {
	// Add creates the edge and returns dbi.ErrDuplicateKey if it already exists.
	Add(ctx context.Context, targetID string, viewer types.UserContext) error
	// Remove deletes the edge and returns dbi.ErrNotFound if it was already gone.
	Remove(ctx context.Context, targetID, userID string) error
}

// Observer is told about every completed toggle.
type Observer interface {
	Record(ctx context.Context, viewerID, targetID string, liked bool)
}

// Toggler flips a viewer's like on a target and keeps the target's likeCount in step.
type Toggler struct {
	edges      EdgeStore
	counters   *counters.Synchronizer
	collection string
	tx         dbi.Transactor
	observers  []Observer
}

// NewToggler creates a Toggler for targets stored in collection. When store
// supports transactions the edge write and the counter run in one transaction.
func NewToggler(store dbi.DocumentStore, edges EdgeStore, collection string, observers ...Observer) *Toggler {
	t := &Toggler{
		edges:      edges,
		counters:   counters.NewSynchronizer(store),
		collection: collection,
		observers:  observers,
	}
	if tx, ok := store.(dbi.Transactor); ok {
		t.tx = tx
	}
	return t
}

// Toggle likes targetID when the viewer has not liked it and unlikes it
// otherwise, returning the new liked state. The create is conditional on the
// edge id, so concurrent toggles cannot produce duplicate edges.
func (t *Toggler) Toggle(ctx context.Context, targetID string, viewer types.UserContext) (bool, error) {
	if viewer.IsAnonymous() {
		return false, ErrNoViewer
	}

	var liked bool
	run := func(ctx context.Context) error {
		var err error
		liked, err = t.apply(ctx, targetID, viewer)
		return err
	}

	var err error
	if t.tx != nil {
		err = t.tx.WithTransaction(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return false, err
	}

	for _, o := range t.observers {
		o.Record(ctx, viewer.UserID, targetID, liked)
	}
	return liked, nil
}

func (t *Toggler) apply(ctx context.Context, targetID string, viewer types.UserContext) (bool, error) {
	target := counters.Target{Collection: t.collection, ID: targetID}

	err := t.edges.Add(ctx, targetID, viewer)
	switch {
	case err == nil:
		if _, err := t.counters.Adjust(ctx, target, counters.LikeCount, 1); err != nil {
			return false, t.counterFailure(ctx, target, err)
		}
		return true, nil
	case !errors.Is(err, dbi.ErrDuplicateKey):
		return false, fmt.Errorf("add like: %w", err)
	}

	if err := t.edges.Remove(ctx, targetID, viewer.UserID); err != nil {
		if errors.Is(err, dbi.ErrNotFound) {
			// A concurrent toggle already removed the edge and owns the decrement.
			return false, nil
		}
		return false, fmt.Errorf("remove like: %w", err)
	}
	if _, err := t.counters.Adjust(ctx, target, counters.LikeCount, -1); err != nil {
		return false, t.counterFailure(ctx, target, err)
	}
	return false, nil
}

func (t *Toggler) counterFailure(ctx context.Context, target counters.Target, err error) error {
	if t.tx == nil {
		log.ErrorWithContext(ctx, "likeCount on %s is out of step with its like edges: %s", target, err.Error())
	}
	return err
}

// EdgeID derives the deterministic id of the (target, user) edge.
func EdgeID(namespace uuid.UUID, targetID, userID string) string {
	return uuid.NewV5(namespace, targetID+":"+userID).String()
}
