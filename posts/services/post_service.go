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

	uuid "github.com/gofrs/uuid"

	"github.com/socialfeed/api/internal/counters"
	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/likes"
	"github.com/socialfeed/api/internal/pkg/log"
	"github.com/socialfeed/api/internal/types"
	"github.com/socialfeed/api/internal/viewerstate"
	postsErrors "github.com/socialfeed/api/posts/errors"
	"github.com/socialfeed/api/posts/models"
	"github.com/socialfeed/api/posts/repository"
	"github.com/socialfeed/api/posts/validation"
	sharedInterfaces "github.com/socialfeed/api/shared/interfaces"
	"github.com/socialfeed/api/storage/provider"
)

const unknownAuthor = "Unknown User"

// Dependencies are the collaborators of the post service.
type Dependencies struct {
	Store dbi.DocumentStore
	Posts repository.PostRepository
	Likes repository.LikeRepository
	// LikedSource resolves a viewer's liked posts.
	LikedSource viewerstate.LikedSetSource
	Blobs       provider.BlobProvider
	// LikeObservers are told about every completed like toggle.
	LikeObservers []likes.Observer
}

type postService struct {
	posts       repository.PostRepository
	likedSource viewerstate.LikedSetSource
	blobs       provider.BlobProvider
	toggler     *likes.Toggler
	counters    *counters.Synchronizer
	now         func() time.Time
}

var _ sharedInterfaces.PostStatsUpdater = (*postService)(nil)

// NewPostService creates a new PostService
func NewPostService(deps Dependencies) PostService {
	return &postService{
		posts:       deps.Posts,
		likedSource: deps.LikedSource,
		blobs:       deps.Blobs,
		toggler:     likes.NewToggler(deps.Store, deps.Likes, repository.CollectionPosts, deps.LikeObservers...),
		counters:    counters.NewSynchronizer(deps.Store),
		now:         time.Now,
	}
}

func (s *postService) CreatePost(ctx context.Context, req *models.CreatePostRequest, image *provider.Upload, user *types.UserContext) (*models.Post, error) {
	if user == nil || user.IsAnonymous() {
		return nil, postsErrors.ErrMissingUserContext
	}
	if err := validation.ValidateCreatePostRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %w", postsErrors.ErrValidationFailed, err)
	}

	author := strings.TrimSpace(user.DisplayName)
	if author == "" {
		author = unknownAuthor
	}

	post := &models.Post{
		ID:              uuid.Must(uuid.NewV4()).String(),
		UserID:          user.UserID,
		UserDisplayName: author,
		Text:            strings.TrimSpace(req.Text),
		CreatedAt:       s.now().UnixMilli(),
	}

	var imageKey string
	if image != nil {
		key := provider.ObjectKey(provider.PrefixPosts, user.UserID, image.FileName)
		url, err := s.blobs.Upload(ctx, key, image.ContentType, image.Body)
		if err != nil {
			log.WarnWithContext(ctx, "image upload failed, creating post %s without image: %s", post.ID, err.Error())
		} else {
			post.ImageURL = url
			imageKey = key
		}
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.discardImage(ctx, imageKey)
		return nil, postsErrors.WrapDatabaseError("create post", err)
	}
	return post, nil
}

// discardImage deletes an uploaded image whose post was never stored.
func (s *postService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		log.WarnWithContext(ctx, "failed to delete orphaned image %s: %s", key, err.Error())
	}
}

func (s *postService) GetPost(ctx context.Context, postID string, viewerID string) (*models.Post, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	annotated, err := viewerstate.AnnotateOne(ctx, s.likedSource, viewerID, *post)
	if err != nil {
		return nil, postsErrors.WrapDatabaseError("annotate post", err)
	}
	return &annotated, nil
}

func (s *postService) findPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, dbi.ErrNotFound) {
			return nil, postsErrors.ErrPostNotFound
		}
		return nil, postsErrors.WrapDatabaseError("get post", err)
	}
	return post, nil
}

func (s *postService) ListFeed(ctx context.Context, filter *models.PostQueryFilter, viewerID string) (*models.PostsListResponse, error) {
	posts, err := s.posts.FindAll(ctx, limitOf(filter))
	if err != nil {
		return nil, postsErrors.WrapDatabaseError("list feed", err)
	}
	return s.annotate(ctx, posts, viewerID)
}

func (s *postService) ListByUser(ctx context.Context, userID string, filter *models.PostQueryFilter, viewerID string) (*models.PostsListResponse, error) {
	posts, err := s.posts.FindByUser(ctx, userID, limitOf(filter))
	if err != nil {
		return nil, postsErrors.WrapDatabaseError("list user posts", err)
	}
	return s.annotate(ctx, posts, viewerID)
}

func limitOf(filter *models.PostQueryFilter) int {
	if filter == nil {
		return 0
	}
	return filter.Limit
}

func (s *postService) annotate(ctx context.Context, posts []models.Post, viewerID string) (*models.PostsListResponse, error) {
	annotated, err := viewerstate.Annotate(ctx, s.likedSource, viewerID, posts)
	if err != nil {
		return nil, postsErrors.WrapDatabaseError("annotate posts", err)
	}
	return &models.PostsListResponse{Posts: annotated, Count: len(annotated)}, nil
}

func (s *postService) ToggleLike(ctx context.Context, postID string, user *types.UserContext) (*models.LikeResponse, error) {
	if user == nil || user.IsAnonymous() {
		return nil, postsErrors.ErrMissingUserContext
	}
	if _, err := s.findPost(ctx, postID); err != nil {
		return nil, err
	}

	liked, err := s.toggler.Toggle(ctx, postID, *user)
	if err != nil {
		switch {
		case errors.Is(err, likes.ErrNoViewer):
			return nil, postsErrors.ErrMissingUserContext
		case errors.Is(err, dbi.ErrNotFound):
			return nil, postsErrors.ErrPostNotFound
		}
		return nil, postsErrors.WrapDatabaseError("toggle like", err)
	}

	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &models.LikeResponse{Liked: liked, Post: post.WithLiked(liked)}, nil
}

func (s *postService) EnsurePostExists(ctx context.Context, postID string) error {
	if _, err := s.findPost(ctx, postID); err != nil {
		if errors.Is(err, postsErrors.ErrPostNotFound) {
			return sharedInterfaces.ErrPostNotFound
		}
		return err
	}
	return nil
}

func (s *postService) IncrementCommentCountForService(ctx context.Context, postID string, delta int64) error {
	target := counters.Target{Collection: repository.CollectionPosts, ID: postID}
	if _, err := s.counters.Adjust(ctx, target, counters.CommentCount, delta); err != nil {
		if errors.Is(err, dbi.ErrNotFound) {
			return sharedInterfaces.ErrPostNotFound
		}
		return err
	}
	return nil
}
