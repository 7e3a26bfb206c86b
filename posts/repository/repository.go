// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/socialfeed/api/internal/likes"
	"github.com/socialfeed/api/posts/models"
)

// Collections owned by the posts domain
const (
	CollectionPosts = "posts"
	CollectionLikes = "likes"
)

// PostRepository defines the data access interface for posts
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id string) (*models.Post, error)
	// FindAll returns posts newest first. A limit of 0 returns every post.
	FindAll(ctx context.Context, limit int) ([]models.Post, error)
	// FindByUser returns a user's posts newest first.
	FindByUser(ctx context.Context, userID string, limit int) ([]models.Post, error)
}

// LikeRepository stores post likes, one per (post, user).
type LikeRepository interface {
	likes.EdgeStore
	Exists(ctx context.Context, postID, userID string) (bool, error)
	FindByUser(ctx context.Context, userID string) ([]models.Like, error)
}
