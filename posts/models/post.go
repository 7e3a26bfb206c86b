// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

// Post is a feed entry. IsLikedByCurrentUser is computed per viewer and never stored.
type Post struct {
	ID                   string `json:"id"`
	UserID               string `json:"userId"`
	UserDisplayName      string `json:"userDisplayName"`
	Text                 string `json:"text"`
	ImageURL             string `json:"imageUrl,omitempty"`
	LikeCount            int64  `json:"likeCount"`
	CommentCount         int64  `json:"commentCount"`
	ShareCount           int64  `json:"shareCount"`
	IsLikedByCurrentUser bool   `json:"isLikedByCurrentUser"`
	CreatedAt            int64  `json:"createdAt"`
}

// DerivedFields lists the JSON keys that are never persisted.
var DerivedFields = []string{"isLikedByCurrentUser"}

func (p Post) LikeTargetID() string { return p.ID }

func (p Post) WithLiked(liked bool) Post {
	p.IsLikedByCurrentUser = liked
	return p
}

func (p Post) LikeState() (int64, bool) { return p.LikeCount, p.IsLikedByCurrentUser }

func (p Post) WithLikeState(count int64, liked bool) Post {
	p.LikeCount = count
	p.IsLikedByCurrentUser = liked
	return p
}

// Like records that a user liked a post. At most one exists per (postId, userId).
type Like struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	UserID    string `json:"userId"`
	CreatedAt int64  `json:"createdAt"`
}

// CreatePostRequest is the body of a new post. The image travels as a
// multipart file next to these fields.
type CreatePostRequest struct {
	Text string `json:"text" form:"text"`
}

// PostQueryFilter carries list query parameters.
type PostQueryFilter struct {
	Limit int `schema:"limit"`
}

// PostsListResponse represents a list of posts.
type PostsListResponse struct {
	Posts []Post `json:"posts"`
	Count int    `json:"count"`
}

// LikeResponse is returned by a like toggle.
type LikeResponse struct {
	Liked bool `json:"liked"`
	Post  Post `json:"post"`
}
