// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/socialfeed/api/comments/models"
	"github.com/socialfeed/api/internal/likes"
)

// Collections owned by the comments domain
const (
	CollectionComments     = "comments"
	CollectionCommentLikes = "commentLikes"
)

// CommentRepository defines the data access interface for comments and replies
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	// FindByPost returns a post's top-level comments, oldest first.
	FindByPost(ctx context.Context, postID string) ([]models.Comment, error)
	// FindReplies returns the replies to a comment, oldest first.
	FindReplies(ctx context.Context, parentID string) ([]models.Comment, error)
}

// CommentLikeRepository stores comment likes, one per (comment, user).
type CommentLikeRepository interface {
	likes.EdgeStore
	Exists(ctx context.Context, commentID, userID string) (bool, error)
	FindByUser(ctx context.Context, userID string) ([]models.CommentLike, error)
}
