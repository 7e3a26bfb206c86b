// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	"github.com/socialfeed/api/internal/types"
	"github.com/socialfeed/api/storage/provider"
	"github.com/socialfeed/api/users/models"
)

// UserService defines the interface for profile operations
type UserService interface {
	// GetOrCreateCurrent returns the viewer's profile, provisioning it from the
	// identity claims on first use.
	GetOrCreateCurrent(ctx context.Context, user *types.UserContext) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// UpdateProfile edits the viewer's profile. photo may be nil.
	UpdateProfile(ctx context.Context, user *types.UserContext, req *models.UpdateProfileRequest, photo *provider.Upload) (*models.User, error)
}
