// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package factory

import (
	"context"
	"fmt"

	"github.com/socialfeed/api/internal/database/firestore"
	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/memory"
	"github.com/socialfeed/api/internal/database/postgres"
	"github.com/socialfeed/api/internal/database/postgresql"
	platformconfig "github.com/socialfeed/api/internal/platform/config"
)

// StoreFactory creates document stores based on configuration
type StoreFactory struct {
	config platformconfig.DatabaseConfig
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(config platformconfig.DatabaseConfig) *StoreFactory {
	return &StoreFactory{config: config}
}

// CreateStore creates a store instance for the configured database type
func (f *StoreFactory) CreateStore(ctx context.Context) (dbi.DocumentStore, error) {
	switch f.config.Type {
	case dbi.DatabaseTypePostgreSQL:
		return f.createPostgreSQLStore(ctx)
	case dbi.DatabaseTypeFirestore:
		store, err := firestore.NewStore(ctx, f.config.Firestore)
		if err != nil {
			return nil, fmt.Errorf("failed to create Firestore store: %w", err)
		}
		return store, nil
	case dbi.DatabaseTypeMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", f.config.Type)
	}
}

func (f *StoreFactory) createPostgreSQLStore(ctx context.Context) (dbi.DocumentStore, error) {
	client, err := postgres.NewClient(ctx, f.config.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL client: %w", err)
	}

	store, err := postgresql.NewStore(ctx, client, "public")
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create PostgreSQL store: %w", err)
	}
	return store, nil
}
