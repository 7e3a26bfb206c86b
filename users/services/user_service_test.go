// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialfeed/api/internal/database/memory"
	"github.com/socialfeed/api/internal/types"
	"github.com/socialfeed/api/storage/provider"
	usersErrors "github.com/socialfeed/api/users/errors"
	"github.com/socialfeed/api/users/models"
	"github.com/socialfeed/api/users/repository"
)

type fakeBlobs struct {
	fail     bool
	uploaded map[string]string
	deleted  []string
}

func (f *fakeBlobs) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if f.fail {
		return "", errors.New("bucket unreachable")
	}
	data, _ := io.ReadAll(body)
	if f.uploaded == nil {
		f.uploaded = map[string]string{}
	}
	f.uploaded[key] = string(data)
	return "https://cdn.test/" + key, nil
}

func (f *fakeBlobs) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type failingUpdates struct{ repository.UserRepository }

func (failingUpdates) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return errors.New("disk full")
}

func newService(blobs provider.BlobProvider) UserService {
	return NewUserService(repository.NewUserRepository(memory.NewStore()), blobs)
}

func TestGetOrCreateCurrent(t *testing.T) {
	ctx := context.Background()
	svc := newService(&fakeBlobs{})

	viewer := &types.UserContext{UserID: "u1", Email: "ana@example.com"}
	created, err := svc.GetOrCreateCurrent(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, "u1", created.ID)
	assert.Equal(t, "ana", created.DisplayName)
	assert.NotZero(t, created.CreatedAt)

	// The second call reads the stored profile instead of recreating it.
	viewer.DisplayName = "Ana Changed"
	again, err := svc.GetOrCreateCurrent(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, "ana", again.DisplayName)
	assert.Equal(t, created.CreatedAt, again.CreatedAt)

	_, err = svc.GetOrCreateCurrent(ctx, &types.UserContext{})
	assert.ErrorIs(t, err, usersErrors.ErrMissingUserContext)
}

func TestDisplayNameFromClaims(t *testing.T) {
	assert.Equal(t, "Bo", displayNameFromClaims(&types.UserContext{DisplayName: " Bo "}))
	assert.Equal(t, "bo", displayNameFromClaims(&types.UserContext{Email: "bo@x.io"}))
	assert.Equal(t, defaultDisplayName, displayNameFromClaims(&types.UserContext{}))
}

func TestGetByIDNotFound(t *testing.T) {
	_, err := newService(&fakeBlobs{}).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, usersErrors.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	blobs := &fakeBlobs{}
	svc := newService(blobs)
	viewer := &types.UserContext{UserID: "u1", DisplayName: "Ana"}

	photo := &provider.Upload{FileName: "me.png", ContentType: "image/png", Body: strings.NewReader("img")}
	updated, err := svc.UpdateProfile(ctx, viewer, &models.UpdateProfileRequest{DisplayName: "Ana B", Bio: "hi"}, photo)
	require.NoError(t, err)
	assert.Equal(t, "Ana B", updated.DisplayName)
	assert.Equal(t, "hi", updated.Bio)
	assert.True(t, strings.HasPrefix(updated.PhotoURL, "https://cdn.test/profiles/u1/"))
	assert.Len(t, blobs.uploaded, 1)
}

func TestUpdateProfileKeepsPhotoWhenUploadFails(t *testing.T) {
	ctx := context.Background()
	blobs := &fakeBlobs{}
	svc := newService(blobs)
	viewer := &types.UserContext{UserID: "u1", DisplayName: "Ana"}

	first, err := svc.UpdateProfile(ctx, viewer, &models.UpdateProfileRequest{DisplayName: "Ana"},
		&provider.Upload{FileName: "a.png", ContentType: "image/png", Body: strings.NewReader("a")})
	require.NoError(t, err)

	blobs.fail = true
	second, err := svc.UpdateProfile(ctx, viewer, &models.UpdateProfileRequest{DisplayName: "Ana 2"},
		&provider.Upload{FileName: "b.png", ContentType: "image/png", Body: strings.NewReader("b")})
	require.NoError(t, err)
	assert.Equal(t, "Ana 2", second.DisplayName)
	assert.Equal(t, first.PhotoURL, second.PhotoURL)
}

func TestUpdateProfileRejectsBlankName(t *testing.T) {
	ctx := context.Background()
	blobs := &fakeBlobs{}
	svc := newService(blobs)
	viewer := &types.UserContext{UserID: "u1", DisplayName: "Ana"}
	photo := &provider.Upload{FileName: "me.png", ContentType: "image/png", Body: strings.NewReader("png")}

	_, err := svc.UpdateProfile(ctx, viewer, &models.UpdateProfileRequest{DisplayName: "  "}, photo)
	assert.ErrorIs(t, err, usersErrors.ErrValidationFailed)
	assert.Empty(t, blobs.uploaded)

	got, err := svc.GetOrCreateCurrent(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.DisplayName)
}

func TestUpdateProfileDeletesPhotoWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	blobs := &fakeBlobs{}
	svc := NewUserService(failingUpdates{repository.NewUserRepository(memory.NewStore())}, blobs)
	viewer := &types.UserContext{UserID: "u1", DisplayName: "Ana"}
	photo := &provider.Upload{FileName: "me.png", ContentType: "image/png", Body: strings.NewReader("png")}

	_, err := svc.UpdateProfile(ctx, viewer, &models.UpdateProfileRequest{DisplayName: "Ana B"}, photo)
	assert.ErrorIs(t, err, usersErrors.ErrDatabaseOperation)
	require.Len(t, blobs.uploaded, 1)
	require.Len(t, blobs.deleted, 1)
	assert.Contains(t, blobs.uploaded, blobs.deleted[0])
}
