// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

// Comment is a comment on a post, or a reply when ParentCommentID is set.
// Replies are one level deep: a reply's parent is always a top-level comment.
type Comment struct {
	ID                   string  `json:"id"`
	PostID               string  `json:"postId"`
	UserID               string  `json:"userId"`
	UserDisplayName      string  `json:"userDisplayName"`
	Text                 string  `json:"text"`
	ImageURL             string  `json:"imageUrl,omitempty"`
	CreatedAt            int64   `json:"createdAt"`
	LikeCount            int64   `json:"likeCount"`
	IsLikedByCurrentUser bool    `json:"isLikedByCurrentUser"`
	ReplyCount           int64   `json:"replyCount"`
	ParentCommentID      *string `json:"parentCommentId"`
}

// DerivedFields lists the JSON keys that are never persisted.
var DerivedFields = []string{"isLikedByCurrentUser"}

// IsReply reports whether the comment answers another comment.
func (c Comment) IsReply() bool {
	return c.ParentCommentID != nil && *c.ParentCommentID != ""
}

func (c Comment) LikeTargetID() string { return c.ID }

func (c Comment) WithLiked(liked bool) Comment {
	c.IsLikedByCurrentUser = liked
	return c
}

func (c Comment) LikeState() (int64, bool) { return c.LikeCount, c.IsLikedByCurrentUser }

func (c Comment) WithLikeState(count int64, liked bool) Comment {
	c.LikeCount = count
	c.IsLikedByCurrentUser = liked
	return c
}

func (c Comment) ReplyState() int64 { return c.ReplyCount }

func (c Comment) WithReplyCount(count int64) Comment {
	c.ReplyCount = count
	return c
}

// CommentLike records that a user liked a comment. At most one exists per (commentId, userId).
type CommentLike struct {
	ID              string `json:"id"`
	CommentID       string `json:"commentId"`
	UserID          string `json:"userId"`
	UserDisplayName string `json:"userDisplayName"`
	CreatedAt       int64  `json:"createdAt"`
}

// CreateCommentRequest represents the request to create a top-level comment
type CreateCommentRequest struct {
	PostID string `json:"postId" form:"postId"`
	Text   string `json:"text" form:"text"`
}

// CreateReplyRequest represents the request to reply to a comment
type CreateReplyRequest struct {
	Text string `json:"text" form:"text"`
}

// CommentQueryFilter carries list query parameters
type CommentQueryFilter struct {
	PostID string `schema:"postId"`
}

// CommentsListResponse represents a list of comments
type CommentsListResponse struct {
	Comments []Comment `json:"comments"`
	Count    int       `json:"count"`
}

// LikeResponse is returned by a comment like toggle
type LikeResponse struct {
	Liked   bool    `json:"liked"`
	Comment Comment `json:"comment"`
}
