// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"

	"github.com/socialfeed/api/comments/models"
	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/utils"
	"github.com/socialfeed/api/internal/likes"
	"github.com/socialfeed/api/internal/types"
)

// commentLikeNamespace seeds deterministic comment like ids. Changing it orphans
// every stored comment like.
var commentLikeNamespace = uuid.Must(uuid.FromString("5f2d9a41-c3b7-4e08-8d6a-71e0b94c2f13"))

const unknownUser = "Unknown User"

// CommentLikeID returns the id of the like a user holds on a comment.
func CommentLikeID(commentID, userID string) string {
	return likes.EdgeID(commentLikeNamespace, commentID, userID)
}

type commentRepository struct {
	store  dbi.DocumentStore
	finder *utils.Finder
}

// NewCommentRepository creates a CommentRepository. finder answers queries
// whose index is missing from a scan.
func NewCommentRepository(store dbi.DocumentStore, finder *utils.Finder) CommentRepository {
	return &commentRepository{store: store, finder: finder}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	doc, err := utils.ToDocument(comment, models.DerivedFields...)
	if err != nil {
		return err
	}
	if err := r.store.Create(ctx, CollectionComments, comment.ID, doc); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	doc, err := r.store.Get(ctx, CollectionComments, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	var comment models.Comment
	if err := utils.FromDocument(doc, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	q := dbi.Query{}.
		Where("postId", postID).
		Where("parentCommentId", nil).
		Order("createdAt", dbi.Ascending)
	return r.find(ctx, q)
}

func (r *commentRepository) FindReplies(ctx context.Context, parentID string) ([]models.Comment, error) {
	q := dbi.Query{}.Where("parentCommentId", parentID).Order("createdAt", dbi.Ascending)
	return r.find(ctx, q)
}

func (r *commentRepository) find(ctx context.Context, q dbi.Query) ([]models.Comment, error) {
	docs, err := r.finder.Find(ctx, CollectionComments, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	comments := make([]models.Comment, 0, len(docs))
	for _, doc := range docs {
		var comment models.Comment
		if err := utils.FromDocument(doc, &comment); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

type commentLikeRepository struct {
	store  dbi.DocumentStore
	finder *utils.Finder
	now    func() time.Time
}

// NewCommentLikeRepository creates a CommentLikeRepository.
func NewCommentLikeRepository(store dbi.DocumentStore, finder *utils.Finder) CommentLikeRepository {
	return &commentLikeRepository{store: store, finder: finder, now: time.Now}
}

// Add inserts the like under its deterministic id, so a second like by the
// same user fails with dbi.ErrDuplicateKey.
func (r *commentLikeRepository) Add(ctx context.Context, commentID string, viewer types.UserContext) error {
	name := strings.TrimSpace(viewer.DisplayName)
	if name == "" {
		name = unknownUser
	}
	like := models.CommentLike{
		ID:              CommentLikeID(commentID, viewer.UserID),
		CommentID:       commentID,
		UserID:          viewer.UserID,
		UserDisplayName: name,
		CreatedAt:       r.now().UnixMilli(),
	}
	doc, err := utils.ToDocument(like)
	if err != nil {
		return err
	}
	return r.store.Create(ctx, CollectionCommentLikes, like.ID, doc)
}

func (r *commentLikeRepository) Remove(ctx context.Context, commentID, userID string) error {
	return r.store.Delete(ctx, CollectionCommentLikes, CommentLikeID(commentID, userID))
}

func (r *commentLikeRepository) Exists(ctx context.Context, commentID, userID string) (bool, error) {
	_, err := r.store.Get(ctx, CollectionCommentLikes, CommentLikeID(commentID, userID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, dbi.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to read comment like: %w", err)
	}
}

func (r *commentLikeRepository) FindByUser(ctx context.Context, userID string) ([]models.CommentLike, error) {
	docs, err := r.finder.Find(ctx, CollectionCommentLikes, dbi.Query{}.Where("userId", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to query comment likes: %w", err)
	}
	out := make([]models.CommentLike, 0, len(docs))
	for _, doc := range docs {
		var like models.CommentLike
		if err := utils.FromDocument(doc, &like); err != nil {
			return nil, err
		}
		out = append(out, like)
	}
	return out, nil
}
