// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	"github.com/socialfeed/api/comments/models"
	"github.com/socialfeed/api/internal/types"
	"github.com/socialfeed/api/storage/provider"
)

// CommentService defines the interface for comment operations
type CommentService interface {
	// AddComment creates a top-level comment and bumps the post's commentCount.
	AddComment(ctx context.Context, req *models.CreateCommentRequest, image *provider.Upload, user *types.UserContext) (*models.Comment, error)
	// AddReply answers a top-level comment and bumps its replyCount.
	AddReply(ctx context.Context, parentID string, req *models.CreateReplyRequest, image *provider.Upload, user *types.UserContext) (*models.Comment, error)

	GetComment(ctx context.Context, commentID string, viewerID string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string, viewerID string) (*models.CommentsListResponse, error)
	ListReplies(ctx context.Context, parentID string, viewerID string) (*models.CommentsListResponse, error)

	ToggleLike(ctx context.Context, commentID string, user *types.UserContext) (*models.LikeResponse, error)
}
