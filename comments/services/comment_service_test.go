// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commentsErrors "github.com/socialfeed/api/comments/errors"
	"github.com/socialfeed/api/comments/models"
	"github.com/socialfeed/api/comments/repository"
	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/memory"
	"github.com/socialfeed/api/internal/database/utils"
	"github.com/socialfeed/api/internal/types"
	"github.com/socialfeed/api/internal/viewerstate"
	"github.com/socialfeed/api/posts"
	postModels "github.com/socialfeed/api/posts/models"
	postServices "github.com/socialfeed/api/posts/services"
	sharedInterfaces "github.com/socialfeed/api/shared/interfaces"
	"github.com/socialfeed/api/storage/provider"
)

var (
	alice = &types.UserContext{UserID: "alice", DisplayName: "Alice"}
	bob   = &types.UserContext{UserID: "bob", DisplayName: "Bob"}
)

type fixture struct {
	store    dbi.DocumentStore
	posts    postServices.PostService
	comments CommentService
}

func newFixture(t *testing.T, store dbi.DocumentStore) *fixture {
	t.Helper()
	finder := utils.NewFinder(store, true)
	postSvc := posts.NewPostService(store, finder, nil, 0, provider.Disabled{})
	return &fixture{
		store:    store,
		posts:    postSvc,
		comments: newCommentService(store, finder, posts.NewDirectCallAdapter(postSvc)),
	}
}

func newCommentService(store dbi.DocumentStore, finder *utils.Finder, postsUpdater sharedInterfaces.PostStatsUpdater) CommentService {
	return newCommentServiceWithBlobs(store, finder, postsUpdater, provider.Disabled{})
}

func newCommentServiceWithBlobs(store dbi.DocumentStore, finder *utils.Finder, postsUpdater sharedInterfaces.PostStatsUpdater, blobs provider.BlobProvider) CommentService {
	return NewCommentService(Dependencies{
		Store:        store,
		Comments:     repository.NewCommentRepository(store, finder),
		CommentLikes: repository.NewCommentLikeRepository(store, finder),
		Posts:        postsUpdater,
		LikedSource:  viewerstate.NewStoreSource(finder, repository.CollectionCommentLikes, "commentId"),
		Blobs:        blobs,
	})
}

func (f *fixture) newPost(t *testing.T) *postModels.Post {
	t.Helper()
	p, err := f.posts.CreatePost(context.Background(), &postModels.CreatePostRequest{Text: "post"}, nil, bob)
	require.NoError(t, err)
	return p
}

func (f *fixture) comment(t *testing.T, postID string) *models.Comment {
	t.Helper()
	c, err := f.comments.AddComment(context.Background(), &models.CreateCommentRequest{PostID: postID, Text: "comment"}, nil, alice)
	require.NoError(t, err)
	return c
}

func TestAddCommentBumpsCommentCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, memory.NewStore())
	p := f.newPost(t)

	c := f.comment(t, p.ID)
	assert.Equal(t, p.ID, c.PostID)
	assert.Nil(t, c.ParentCommentID)
	assert.Equal(t, "Alice", c.UserDisplayName)

	got, err := f.posts.GetPost(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.CommentCount)
}

func TestAddCommentErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, memory.NewStore())

	_, err := f.comments.AddComment(ctx, &models.CreateCommentRequest{PostID: "missing", Text: "x"}, nil, alice)
	assert.ErrorIs(t, err, commentsErrors.ErrPostNotFound)

	p := f.newPost(t)
	_, err = f.comments.AddComment(ctx, &models.CreateCommentRequest{PostID: p.ID, Text: "x"}, nil, &types.UserContext{})
	assert.ErrorIs(t, err, commentsErrors.ErrMissingUserContext)

	_, err = f.comments.AddComment(ctx, &models.CreateCommentRequest{PostID: p.ID, Text: "  "}, nil, alice)
	assert.ErrorIs(t, err, commentsErrors.ErrValidationFailed)

	c1 := f.comment(t, p.ID)
	_, err = f.comments.AddReply(ctx, c1.ID, &models.CreateReplyRequest{Text: ""}, nil, bob)
	assert.ErrorIs(t, err, commentsErrors.ErrValidationFailed)

	assert.Equal(t, 1, f.countComments(t))
	got, err := f.comments.GetComment(ctx, c1.ID, "")
	require.NoError(t, err)
	assert.Zero(t, got.ReplyCount)
}

func TestReplyScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, memory.NewStore())
	p := f.newPost(t)
	c1 := f.comment(t, p.ID)
	c2 := f.comment(t, p.ID)

	r1, err := f.comments.AddReply(ctx, c1.ID, &models.CreateReplyRequest{Text: "reply"}, nil, bob)
	require.NoError(t, err)
	assert.Equal(t, p.ID, r1.PostID)
	require.NotNil(t, r1.ParentCommentID)
	assert.Equal(t, c1.ID, *r1.ParentCommentID)

	replies, err := f.comments.ListReplies(ctx, c1.ID, "")
	require.NoError(t, err)
	require.Len(t, replies.Comments, 1)
	assert.Equal(t, r1.ID, replies.Comments[0].ID)

	top, err := f.comments.ListComments(ctx, p.ID, "")
	require.NoError(t, err)
	require.Len(t, top.Comments, 2, "replies are not listed as top-level comments")

	// Only the parent's replyCount moves.
	parent, err := f.comments.GetComment(ctx, c1.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), parent.ReplyCount)
	sibling, err := f.comments.GetComment(ctx, c2.ID, "")
	require.NoError(t, err)
	assert.Zero(t, sibling.ReplyCount)
	post, err := f.posts.GetPost(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), post.CommentCount)
	reply, err := f.comments.GetComment(ctx, r1.ID, "")
	require.NoError(t, err)
	assert.Zero(t, reply.ReplyCount)
}

func TestReplyDepthAndMissingParent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, memory.NewStore())
	p := f.newPost(t)
	c1 := f.comment(t, p.ID)

	r1, err := f.comments.AddReply(ctx, c1.ID, &models.CreateReplyRequest{Text: "reply"}, nil, bob)
	require.NoError(t, err)

	_, err = f.comments.AddReply(ctx, r1.ID, &models.CreateReplyRequest{Text: "nested"}, nil, alice)
	assert.ErrorIs(t, err, commentsErrors.ErrReplyDepth)

	_, err = f.comments.AddReply(ctx, "missing", &models.CreateReplyRequest{Text: "x"}, nil, alice)
	assert.ErrorIs(t, err, commentsErrors.ErrCommentNotFound)

	parent, err := f.comments.GetComment(ctx, c1.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), parent.ReplyCount)
}

func TestToggleCommentLike(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, memory.NewStore())
	p := f.newPost(t)
	c1 := f.comment(t, p.ID)
	c2 := f.comment(t, p.ID)

	res, err := f.comments.ToggleLike(ctx, c2.ID, bob)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.Comment.LikeCount)

	list, err := f.comments.ListComments(ctx, p.ID, bob.UserID)
	require.NoError(t, err)
	require.Len(t, list.Comments, 2)
	for _, c := range list.Comments {
		assert.Equal(t, c.ID == c2.ID, c.IsLikedByCurrentUser, c.ID)
	}
	assert.NotEqual(t, c1.ID, c2.ID)

	like, err := f.store.Get(ctx, repository.CollectionCommentLikes, repository.CommentLikeID(c2.ID, bob.UserID))
	require.NoError(t, err)
	assert.Equal(t, "Bob", like["userDisplayName"])

	res, err = f.comments.ToggleLike(ctx, c2.ID, bob)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Zero(t, res.Comment.LikeCount)

	_, err = f.comments.ToggleLike(ctx, "missing", bob)
	assert.ErrorIs(t, err, commentsErrors.ErrCommentNotFound)
}

func TestListCommentsWithoutIndex(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, memory.NewStore(memory.WithCompositeIndexesRequired()))
	p := f.newPost(t)
	c1 := f.comment(t, p.ID)
	_, err := f.comments.AddReply(ctx, c1.ID, &models.CreateReplyRequest{Text: "reply"}, nil, bob)
	require.NoError(t, err)

	top, err := f.comments.ListComments(ctx, p.ID, alice.UserID)
	require.NoError(t, err)
	require.Len(t, top.Comments, 1)
	assert.Equal(t, c1.ID, top.Comments[0].ID)

	replies, err := f.comments.ListReplies(ctx, c1.ID, alice.UserID)
	require.NoError(t, err)
	assert.Len(t, replies.Comments, 1)
}

type failingPosts struct{}

func (failingPosts) EnsurePostExists(ctx context.Context, postID string) error { return nil }

func (failingPosts) IncrementCommentCountForService(ctx context.Context, postID string, delta int64) error {
	return errors.New("counter write failed")
}

// plainStore hides the memory store's transaction support.
type plainStore struct {
	dbi.DocumentStore
}

func (f *fixture) countComments(t *testing.T) int {
	t.Helper()
	docs, err := f.store.Scan(context.Background(), repository.CollectionComments)
	require.NoError(t, err)
	return len(docs)
}

func TestCounterFailureRollsBackComment(t *testing.T) {
	store := memory.NewStore()
	f := &fixture{store: store, comments: newCommentService(store, utils.NewFinder(store, true), failingPosts{})}

	_, err := f.comments.AddComment(context.Background(), &models.CreateCommentRequest{PostID: "p", Text: "x"}, nil, alice)
	assert.ErrorIs(t, err, commentsErrors.ErrDatabaseOperation)
	assert.Zero(t, f.countComments(t))
}

func TestCounterFailureWithoutTransactionKeepsComment(t *testing.T) {
	store := plainStore{memory.NewStore()}
	f := &fixture{store: store, comments: newCommentService(store, utils.NewFinder(store, true), failingPosts{})}

	_, err := f.comments.AddComment(context.Background(), &models.CreateCommentRequest{PostID: "p", Text: "x"}, nil, alice)
	assert.ErrorIs(t, err, commentsErrors.ErrDatabaseOperation)
	assert.Equal(t, 1, f.countComments(t))
}

type recordingBlobs struct {
	deleted []string
}

func (r *recordingBlobs) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (r *recordingBlobs) Delete(ctx context.Context, key string) error {
	r.deleted = append(r.deleted, key)
	return nil
}

func testImage() *provider.Upload {
	return &provider.Upload{FileName: "cat.png", ContentType: "image/png", Body: strings.NewReader("x")}
}

func TestRolledBackCommentDeletesImage(t *testing.T) {
	store := memory.NewStore()
	blobs := &recordingBlobs{}
	svc := newCommentServiceWithBlobs(store, utils.NewFinder(store, true), failingPosts{}, blobs)

	_, err := svc.AddComment(context.Background(), &models.CreateCommentRequest{PostID: "p", Text: "x"}, testImage(), alice)
	assert.ErrorIs(t, err, commentsErrors.ErrDatabaseOperation)
	require.Len(t, blobs.deleted, 1)
	assert.True(t, strings.HasPrefix(blobs.deleted[0], "comments/alice/"))
}

func TestKeptCommentKeepsImage(t *testing.T) {
	store := plainStore{memory.NewStore()}
	blobs := &recordingBlobs{}
	f := &fixture{store: store, comments: newCommentServiceWithBlobs(store, utils.NewFinder(store, true), failingPosts{}, blobs)}

	_, err := f.comments.AddComment(context.Background(), &models.CreateCommentRequest{PostID: "p", Text: "x"}, testImage(), alice)
	assert.ErrorIs(t, err, commentsErrors.ErrDatabaseOperation)
	assert.Equal(t, 1, f.countComments(t))
	assert.Empty(t, blobs.deleted)
}

func TestReplyToMissingParentDoesNotUpload(t *testing.T) {
	store := memory.NewStore()
	blobs := &recordingBlobs{}
	svc := newCommentServiceWithBlobs(store, utils.NewFinder(store, true), failingPosts{}, blobs)

	_, err := svc.AddReply(context.Background(), "missing", &models.CreateReplyRequest{Text: "x"}, testImage(), alice)
	assert.ErrorIs(t, err, commentsErrors.ErrCommentNotFound)
	assert.Empty(t, blobs.deleted)
}
