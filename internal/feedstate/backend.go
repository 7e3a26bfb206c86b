package feedstate

import (
	"context"

	commentmodels "github.com/socialfeed/api/comments/models"
	commentservices "github.com/socialfeed/api/comments/services"
	"github.com/socialfeed/api/internal/types"
	postmodels "github.com/socialfeed/api/posts/models"
	postservices "github.com/socialfeed/api/posts/services"
	"github.com/socialfeed/api/storage/provider"
)

// Backend is the remote surface a Session drives.
type Backend interface {
	ListFeed(ctx context.Context, viewer types.UserContext) ([]postmodels.Post, error)
	GetPost(ctx context.Context, viewer types.UserContext, postID string) (postmodels.Post, error)
	CreatePost(ctx context.Context, viewer types.UserContext, text string, image *provider.Upload) (postmodels.Post, error)
	TogglePostLike(ctx context.Context, viewer types.UserContext, postID string) (bool, error)

	ListComments(ctx context.Context, viewer types.UserContext, postID string) ([]commentmodels.Comment, error)
	ListReplies(ctx context.Context, viewer types.UserContext, parentID string) ([]commentmodels.Comment, error)
	AddComment(ctx context.Context, viewer types.UserContext, postID, text string, image *provider.Upload) (commentmodels.Comment, error)
	AddReply(ctx context.Context, viewer types.UserContext, parentID, text string, image *provider.Upload) (commentmodels.Comment, error)
	ToggleCommentLike(ctx context.Context, viewer types.UserContext, commentID string) (bool, error)
}

// ServiceBackend drives the in-process services directly.
type ServiceBackend struct {
	posts    postservices.PostService
	comments commentservices.CommentService
}

func NewServiceBackend(posts postservices.PostService, comments commentservices.CommentService) *ServiceBackend {
	return &ServiceBackend{posts: posts, comments: comments}
}

func (b *ServiceBackend) ListFeed(ctx context.Context, viewer types.UserContext) ([]postmodels.Post, error) {
	resp, err := b.posts.ListFeed(ctx, &postmodels.PostQueryFilter{}, viewer.UserID)
	if err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

func (b *ServiceBackend) GetPost(ctx context.Context, viewer types.UserContext, postID string) (postmodels.Post, error) {
	post, err := b.posts.GetPost(ctx, postID, viewer.UserID)
	if err != nil {
		return postmodels.Post{}, err
	}
	return *post, nil
}

func (b *ServiceBackend) CreatePost(ctx context.Context, viewer types.UserContext, text string, image *provider.Upload) (postmodels.Post, error) {
	post, err := b.posts.CreatePost(ctx, &postmodels.CreatePostRequest{Text: text}, image, &viewer)
	if err != nil {
		return postmodels.Post{}, err
	}
	return *post, nil
}

func (b *ServiceBackend) TogglePostLike(ctx context.Context, viewer types.UserContext, postID string) (bool, error) {
	resp, err := b.posts.ToggleLike(ctx, postID, &viewer)
	if err != nil {
		return false, err
	}
	return resp.Liked, nil
}

func (b *ServiceBackend) ListComments(ctx context.Context, viewer types.UserContext, postID string) ([]commentmodels.Comment, error) {
	resp, err := b.comments.ListComments(ctx, postID, viewer.UserID)
	if err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

func (b *ServiceBackend) ListReplies(ctx context.Context, viewer types.UserContext, parentID string) ([]commentmodels.Comment, error) {
	resp, err := b.comments.ListReplies(ctx, parentID, viewer.UserID)
	if err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

func (b *ServiceBackend) AddComment(ctx context.Context, viewer types.UserContext, postID, text string, image *provider.Upload) (commentmodels.Comment, error) {
	comment, err := b.comments.AddComment(ctx, &commentmodels.CreateCommentRequest{PostID: postID, Text: text}, image, &viewer)
	if err != nil {
		return commentmodels.Comment{}, err
	}
	return *comment, nil
}

func (b *ServiceBackend) AddReply(ctx context.Context, viewer types.UserContext, parentID, text string, image *provider.Upload) (commentmodels.Comment, error) {
	reply, err := b.comments.AddReply(ctx, parentID, &commentmodels.CreateReplyRequest{Text: text}, image, &viewer)
	if err != nil {
		return commentmodels.Comment{}, err
	}
	return *reply, nil
}

func (b *ServiceBackend) ToggleCommentLike(ctx context.Context, viewer types.UserContext, commentID string) (bool, error) {
	resp, err := b.comments.ToggleLike(ctx, commentID, &viewer)
	if err != nil {
		return false, err
	}
	return resp.Liked, nil
}
