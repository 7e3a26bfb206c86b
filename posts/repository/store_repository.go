// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/utils"
	"github.com/socialfeed/api/internal/likes"
	"github.com/socialfeed/api/internal/types"
	"github.com/socialfeed/api/posts/models"
)

// likeNamespace seeds deterministic like ids. Changing it orphans every stored like.
var likeNamespace = uuid.Must(uuid.FromString("0b5c3f2e-7d61-4a8e-9f3c-2a1e4b6d8c70"))

// LikeID returns the id of the like a user holds on a post.
func LikeID(postID, userID string) string {
	return likes.EdgeID(likeNamespace, postID, userID)
}

type postRepository struct {
	store  dbi.DocumentStore
	finder *utils.Finder
}

// NewPostRepository creates a PostRepository. finder answers queries whose
// index is missing from a scan.
func NewPostRepository(store dbi.DocumentStore, finder *utils.Finder) PostRepository {
	return &postRepository{store: store, finder: finder}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	doc, err := utils.ToDocument(post, models.DerivedFields...)
	if err != nil {
		return err
	}
	if err := r.store.Create(ctx, CollectionPosts, post.ID, doc); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	doc, err := r.store.Get(ctx, CollectionPosts, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	var post models.Post
	if err := utils.FromDocument(doc, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindAll(ctx context.Context, limit int) ([]models.Post, error) {
	q := dbi.Query{Limit: limit}.Order("createdAt", dbi.Descending)
	return r.find(ctx, q)
}

func (r *postRepository) FindByUser(ctx context.Context, userID string, limit int) ([]models.Post, error) {
	q := dbi.Query{Limit: limit}.Where("userId", userID).Order("createdAt", dbi.Descending)
	return r.find(ctx, q)
}

func (r *postRepository) find(ctx context.Context, q dbi.Query) ([]models.Post, error) {
	docs, err := r.finder.Find(ctx, CollectionPosts, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	posts := make([]models.Post, 0, len(docs))
	for _, doc := range docs {
		var post models.Post
		if err := utils.FromDocument(doc, &post); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

type likeRepository struct {
	store  dbi.DocumentStore
	finder *utils.Finder
	now    func() time.Time
}

// NewLikeRepository creates a LikeRepository.
func NewLikeRepository(store dbi.DocumentStore, finder *utils.Finder) LikeRepository {
	return &likeRepository{store: store, finder: finder, now: time.Now}
}

// Add inserts the like under its deterministic id, so a second like by the
// same user fails with dbi.ErrDuplicateKey.
func (r *likeRepository) Add(ctx context.Context, postID string, viewer types.UserContext) error {
	like := models.Like{
		ID:        LikeID(postID, viewer.UserID),
		PostID:    postID,
		UserID:    viewer.UserID,
		CreatedAt: r.now().UnixMilli(),
	}
	doc, err := utils.ToDocument(like)
	if err != nil {
		return err
	}
	return r.store.Create(ctx, CollectionLikes, like.ID, doc)
}

func (r *likeRepository) Remove(ctx context.Context, postID, userID string) error {
	return r.store.Delete(ctx, CollectionLikes, LikeID(postID, userID))
}

func (r *likeRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	_, err := r.store.Get(ctx, CollectionLikes, LikeID(postID, userID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, dbi.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to read like: %w", err)
	}
}

func (r *likeRepository) FindByUser(ctx context.Context, userID string) ([]models.Like, error) {
	docs, err := r.finder.Find(ctx, CollectionLikes, dbi.Query{}.Where("userId", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	out := make([]models.Like, 0, len(docs))
	for _, doc := range docs {
		var like models.Like
		if err := utils.FromDocument(doc, &like); err != nil {
			return nil, err
		}
		out = append(out, like)
	}
	return out, nil
}
