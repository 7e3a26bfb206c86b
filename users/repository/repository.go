// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/utils"
	"github.com/socialfeed/api/users/models"
)

// CollectionUsers holds one document per member, keyed by uid.
const CollectionUsers = "users"

// UserRepository defines the data access interface for user profiles
type UserRepository interface {
	// Create fails with dbi.ErrDuplicateKey when the profile already exists.
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
}

type storeRepository struct {
	store dbi.DocumentStore
}

// NewUserRepository creates a UserRepository over store.
func NewUserRepository(store dbi.DocumentStore) UserRepository {
	return &storeRepository{store: store}
}

func (r *storeRepository) Create(ctx context.Context, user *models.User) error {
	doc, err := utils.ToDocument(user)
	if err != nil {
		return err
	}
	if err := r.store.Create(ctx, CollectionUsers, user.ID, doc); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *storeRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.store.Get(ctx, CollectionUsers, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	var user models.User
	if err := utils.FromDocument(doc, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *storeRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := r.store.Update(ctx, CollectionUsers, id, fields); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
