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

	commentsErrors "github.com/socialfeed/api/comments/errors"
	"github.com/socialfeed/api/comments/models"
	"github.com/socialfeed/api/comments/repository"
	"github.com/socialfeed/api/comments/validation"
	"github.com/socialfeed/api/internal/counters"
	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/utils"
	"github.com/socialfeed/api/internal/likes"
	"github.com/socialfeed/api/internal/pkg/log"
	"github.com/socialfeed/api/internal/types"
	"github.com/socialfeed/api/internal/viewerstate"
	sharedInterfaces "github.com/socialfeed/api/shared/interfaces"
	"github.com/socialfeed/api/storage/provider"
)

const unknownAuthor = "Unknown User"

// Dependencies are the collaborators of the comment service.
type Dependencies struct {
	Store        dbi.DocumentStore
	Comments     repository.CommentRepository
	CommentLikes repository.CommentLikeRepository
	// Posts reaches the posts domain for existence checks and commentCount.
	Posts       sharedInterfaces.PostStatsUpdater
	LikedSource viewerstate.LikedSetSource
	Blobs       provider.BlobProvider
	// LikeObservers are told about every completed like toggle.
	LikeObservers []likes.Observer
}

type commentService struct {
	store       dbi.DocumentStore
	comments    repository.CommentRepository
	posts       sharedInterfaces.PostStatsUpdater
	likedSource viewerstate.LikedSetSource
	blobs       provider.BlobProvider
	toggler     *likes.Toggler
	counters    *counters.Synchronizer
	now         func() time.Time
}

// NewCommentService creates a new CommentService
func NewCommentService(deps Dependencies) CommentService {
	return &commentService{
		store:       deps.Store,
		comments:    deps.Comments,
		posts:       deps.Posts,
		likedSource: deps.LikedSource,
		blobs:       deps.Blobs,
		toggler:     likes.NewToggler(deps.Store, deps.CommentLikes, repository.CollectionComments, deps.LikeObservers...),
		counters:    counters.NewSynchronizer(deps.Store),
		now:         time.Now,
	}
}

// newComment builds a comment and uploads its image. The returned key names the
// uploaded object and is empty when nothing was stored.
func (s *commentService) newComment(ctx context.Context, user *types.UserContext, text string, image *provider.Upload) (*models.Comment, string) {
	author := strings.TrimSpace(user.DisplayName)
	if author == "" {
		author = unknownAuthor
	}
	comment := &models.Comment{
		ID:              uuid.Must(uuid.NewV4()).String(),
		UserID:          user.UserID,
		UserDisplayName: author,
		Text:            strings.TrimSpace(text),
		CreatedAt:       s.now().UnixMilli(),
	}

	var imageKey string
	if image != nil {
		key := provider.ObjectKey(provider.PrefixComments, user.UserID, image.FileName)
		url, err := s.blobs.Upload(ctx, key, image.ContentType, image.Body)
		if err != nil {
			log.WarnWithContext(ctx, "image upload failed, creating comment %s without image: %s", comment.ID, err.Error())
		} else {
			comment.ImageURL = url
			imageKey = key
		}
	}
	return comment, imageKey
}

// discardImage deletes an uploaded image whose comment was never stored.
func (s *commentService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		log.WarnWithContext(ctx, "failed to delete orphaned image %s: %s", key, err.Error())
	}
}

func (s *commentService) AddComment(ctx context.Context, req *models.CreateCommentRequest, image *provider.Upload, user *types.UserContext) (*models.Comment, error) {
	if user == nil || user.IsAnonymous() {
		return nil, commentsErrors.ErrMissingUserContext
	}
	if err := validation.ValidateText(req.Text); err != nil {
		return nil, fmt.Errorf("%w: %w", commentsErrors.ErrValidationFailed, err)
	}
	if err := s.posts.EnsurePostExists(ctx, req.PostID); err != nil {
		return nil, s.postError(err)
	}

	comment, imageKey := s.newComment(ctx, user, req.Text, image)
	comment.PostID = req.PostID

	counterFailed := false
	inTx, err := utils.RunInTransaction(ctx, s.store, func(ctx context.Context) error {
		if err := s.comments.Create(ctx, comment); err != nil {
			return err
		}
		if err := s.posts.IncrementCommentCountForService(ctx, comment.PostID, 1); err != nil {
			counterFailed = true
			return err
		}
		return nil
	})
	if err != nil {
		if !counterFailed || inTx {
			s.discardImage(ctx, imageKey)
		}
		if counterFailed && !inTx {
			log.ErrorWithContext(ctx, "commentCount on post %s is out of step after comment %s: %s", comment.PostID, comment.ID, err.Error())
		}
		if errors.Is(err, sharedInterfaces.ErrPostNotFound) {
			return nil, commentsErrors.ErrPostNotFound
		}
		return nil, commentsErrors.WrapDatabaseError("add comment", err)
	}
	return comment, nil
}

func (s *commentService) postError(err error) error {
	if errors.Is(err, sharedInterfaces.ErrPostNotFound) {
		return commentsErrors.ErrPostNotFound
	}
	return commentsErrors.WrapDatabaseError("check post", err)
}

func (s *commentService) AddReply(ctx context.Context, parentID string, req *models.CreateReplyRequest, image *provider.Upload, user *types.UserContext) (*models.Comment, error) {
	if user == nil || user.IsAnonymous() {
		return nil, commentsErrors.ErrMissingUserContext
	}
	if err := validation.ValidateText(req.Text); err != nil {
		return nil, fmt.Errorf("%w: %w", commentsErrors.ErrValidationFailed, err)
	}
	parent, err := s.findComment(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.IsReply() {
		return nil, commentsErrors.ErrReplyDepth
	}

	reply, imageKey := s.newComment(ctx, user, req.Text, image)
	reply.PostID = parent.PostID
	reply.ParentCommentID = &parent.ID

	target := counters.Target{Collection: repository.CollectionComments, ID: parent.ID}
	counterFailed := false
	inTx, err := utils.RunInTransaction(ctx, s.store, func(ctx context.Context) error {
		if err := s.comments.Create(ctx, reply); err != nil {
			return err
		}
		if _, err := s.counters.Adjust(ctx, target, counters.ReplyCount, 1); err != nil {
			counterFailed = true
			return err
		}
		return nil
	})
	if err != nil {
		if !counterFailed || inTx {
			s.discardImage(ctx, imageKey)
		}
		if counterFailed && !inTx {
			log.ErrorWithContext(ctx, "replyCount on %s is out of step after reply %s: %s", target, reply.ID, err.Error())
		}
		if errors.Is(err, dbi.ErrNotFound) {
			return nil, commentsErrors.ErrCommentNotFound
		}
		return nil, commentsErrors.WrapDatabaseError("add reply", err)
	}
	return reply, nil
}

func (s *commentService) findComment(ctx context.Context, commentID string) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, dbi.ErrNotFound) {
			return nil, commentsErrors.ErrCommentNotFound
		}
		return nil, commentsErrors.WrapDatabaseError("get comment", err)
	}
	return comment, nil
}

func (s *commentService) GetComment(ctx context.Context, commentID string, viewerID string) (*models.Comment, error) {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	annotated, err := viewerstate.AnnotateOne(ctx, s.likedSource, viewerID, *comment)
	if err != nil {
		return nil, commentsErrors.WrapDatabaseError("annotate comment", err)
	}
	return &annotated, nil
}

func (s *commentService) ListComments(ctx context.Context, postID string, viewerID string) (*models.CommentsListResponse, error) {
	comments, err := s.comments.FindByPost(ctx, postID)
	if err != nil {
		return nil, commentsErrors.WrapDatabaseError("list comments", err)
	}
	return s.annotate(ctx, comments, viewerID)
}

func (s *commentService) ListReplies(ctx context.Context, parentID string, viewerID string) (*models.CommentsListResponse, error) {
	replies, err := s.comments.FindReplies(ctx, parentID)
	if err != nil {
		return nil, commentsErrors.WrapDatabaseError("list replies", err)
	}
	return s.annotate(ctx, replies, viewerID)
}

func (s *commentService) annotate(ctx context.Context, comments []models.Comment, viewerID string) (*models.CommentsListResponse, error) {
	annotated, err := viewerstate.Annotate(ctx, s.likedSource, viewerID, comments)
	if err != nil {
		return nil, commentsErrors.WrapDatabaseError("annotate comments", err)
	}
	return &models.CommentsListResponse{Comments: annotated, Count: len(annotated)}, nil
}

func (s *commentService) ToggleLike(ctx context.Context, commentID string, user *types.UserContext) (*models.LikeResponse, error) {
	if user == nil || user.IsAnonymous() {
		return nil, commentsErrors.ErrMissingUserContext
	}
	if _, err := s.findComment(ctx, commentID); err != nil {
		return nil, err
	}

	liked, err := s.toggler.Toggle(ctx, commentID, *user)
	if err != nil {
		switch {
		case errors.Is(err, likes.ErrNoViewer):
			return nil, commentsErrors.ErrMissingUserContext
		case errors.Is(err, dbi.ErrNotFound):
			return nil, commentsErrors.ErrCommentNotFound
		}
		return nil, commentsErrors.WrapDatabaseError("toggle comment like", err)
	}

	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return &models.LikeResponse{Liked: liked, Comment: comment.WithLiked(liked)}, nil
}
