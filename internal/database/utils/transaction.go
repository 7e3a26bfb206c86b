// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package utils

import (
	"context"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
)

// RunInTransaction runs fn inside a store transaction when store supports one,
// and directly otherwise. It reports whether fn ran transactionally.
func RunInTransaction(ctx context.Context, store dbi.DocumentStore, fn func(ctx context.Context) error) (bool, error) {
	if tx, ok := store.(dbi.Transactor); ok {
		return true, tx.WithTransaction(ctx, fn)
	}
	return false, fn(ctx)
}
