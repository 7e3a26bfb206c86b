// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/pkg/log"
	"github.com/socialfeed/api/internal/types"
	"github.com/socialfeed/api/storage/provider"
	usersErrors "github.com/socialfeed/api/users/errors"
	"github.com/socialfeed/api/users/models"
	"github.com/socialfeed/api/users/repository"
	"github.com/socialfeed/api/users/validation"
)

const defaultDisplayName = "User"

type userService struct {
	repo  repository.UserRepository
	blobs provider.BlobProvider
	now   func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository, blobs provider.BlobProvider) UserService {
	return &userService{repo: repo, blobs: blobs, now: time.Now}
}

func (s *userService) GetOrCreateCurrent(ctx context.Context, user *types.UserContext) (*models.User, error) {
	if user == nil || user.IsAnonymous() {
		return nil, usersErrors.ErrMissingUserContext
	}

	existing, err := s.GetByID(ctx, user.UserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, usersErrors.ErrUserNotFound) {
		return nil, err
	}

	profile := &models.User{
		ID:          user.UserID,
		DisplayName: displayNameFromClaims(user),
		Email:       user.Email,
		PhotoURL:    user.PhotoURL,
		CreatedAt:   s.now().UnixMilli(),
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		if errors.Is(err, dbi.ErrDuplicateKey) {
			// Provisioned by a concurrent request.
			return s.GetByID(ctx, user.UserID)
		}
		return nil, usersErrors.WrapDatabaseError("create profile", err)
	}

	log.InfoWithContext(ctx, "provisioned profile for %s", user.UserID)
	return profile, nil
}

func displayNameFromClaims(user *types.UserContext) string {
	if name := strings.TrimSpace(user.DisplayName); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(user.Email, "@"); ok && local != "" {
		return local
	}
	return defaultDisplayName
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, dbi.ErrNotFound) {
			return nil, usersErrors.ErrUserNotFound
		}
		return nil, usersErrors.WrapDatabaseError("get profile", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, user *types.UserContext, req *models.UpdateProfileRequest, photo *provider.Upload) (*models.User, error) {
	if err := validation.ValidateUpdateProfileRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %w", usersErrors.ErrValidationFailed, err)
	}
	current, err := s.GetOrCreateCurrent(ctx, user)
	if err != nil {
		return nil, err
	}

	photoURL := current.PhotoURL
	var photoKey string
	if photo != nil {
		key := provider.ObjectKey(provider.PrefixProfiles, user.UserID, photo.FileName)
		url, err := s.blobs.Upload(ctx, key, photo.ContentType, photo.Body)
		if err != nil {
			log.ErrorWithContext(ctx, "failed to upload profile photo for %s, keeping previous photo: %s", user.UserID, err.Error())
		} else {
			photoURL = url
			photoKey = key
		}
	}

	fields := map[string]interface{}{
		"displayName": strings.TrimSpace(req.DisplayName),
		"bio":         req.Bio,
		"photoUrl":    photoURL,
	}
	if err := s.repo.Update(ctx, user.UserID, fields); err != nil {
		if photoKey != "" {
			if derr := s.blobs.Delete(context.WithoutCancel(ctx), photoKey); derr != nil {
				log.WarnWithContext(ctx, "failed to delete unused profile photo %s: %s", photoKey, derr.Error())
			}
		}
		if errors.Is(err, dbi.ErrNotFound) {
			return nil, usersErrors.ErrUserNotFound
		}
		return nil, usersErrors.WrapDatabaseError("update profile", err)
	}

	return s.GetByID(ctx, user.UserID)
}
