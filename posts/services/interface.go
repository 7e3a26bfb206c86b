// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	"github.com/socialfeed/api/internal/types"
	"github.com/socialfeed/api/posts/models"
	"github.com/socialfeed/api/storage/provider"
)

// PostService defines the interface for post operations
type PostService interface {
	// CreatePost publishes a post by user. image may be nil.
	CreatePost(ctx context.Context, req *models.CreatePostRequest, image *provider.Upload, user *types.UserContext) (*models.Post, error)

	// Read operations annotate isLikedByCurrentUser for viewerID, which may be empty.
	GetPost(ctx context.Context, postID string, viewerID string) (*models.Post, error)
	ListFeed(ctx context.Context, filter *models.PostQueryFilter, viewerID string) (*models.PostsListResponse, error)
	ListByUser(ctx context.Context, userID string, filter *models.PostQueryFilter, viewerID string) (*models.PostsListResponse, error)

	// ToggleLike likes the post for user, or unlikes it when already liked.
	ToggleLike(ctx context.Context, postID string, user *types.UserContext) (*models.LikeResponse, error)

	// Service-to-service operations
	EnsurePostExists(ctx context.Context, postID string) error
	IncrementCommentCountForService(ctx context.Context, postID string, delta int64) error
}
