package feedstate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	commentmodels "github.com/socialfeed/api/comments/models"
	postmodels "github.com/socialfeed/api/posts/models"
)

func TestMergeLikeResultTouchesOnlyTarget(t *testing.T) {
	posts := []postmodels.Post{
		{ID: "p1", LikeCount: 2},
		{ID: "p2", LikeCount: 5, IsLikedByCurrentUser: true},
		{ID: "p3"},
	}

	merged := MergeLikeResult(posts, "p1", true)

	assert.Equal(t, []postmodels.Post{
		{ID: "p1", LikeCount: 3, IsLikedByCurrentUser: true},
		posts[1],
		posts[2],
	}, merged)
	assert.Equal(t, int64(2), posts[0].LikeCount, "input must not be modified")
}

func TestMergeLikeResultUnlikeFloorsAtZero(t *testing.T) {
	posts := []postmodels.Post{{ID: "p1", LikeCount: 0, IsLikedByCurrentUser: true}}

	merged := MergeLikeResult(posts, "p1", false)

	assert.Equal(t, int64(0), merged[0].LikeCount)
	assert.False(t, merged[0].IsLikedByCurrentUser)
}

func TestMergeLikeResultUnknownTarget(t *testing.T) {
	posts := []postmodels.Post{{ID: "p1", LikeCount: 1}}
	assert.Equal(t, posts, MergeLikeResult(posts, "missing", true))
	assert.Empty(t, MergeLikeResult([]postmodels.Post{}, "p1", true))
}

func TestMergeLikeResultGrouped(t *testing.T) {
	groups := map[string][]commentmodels.Comment{
		"c1": {{ID: "r1", LikeCount: 1}, {ID: "r2"}},
		"c2": {{ID: "r3", LikeCount: 4}},
	}

	merged := MergeLikeResultGrouped(groups, "r2", true)

	assert.Equal(t, int64(1), merged["c1"][1].LikeCount)
	assert.True(t, merged["c1"][1].IsLikedByCurrentUser)
	assert.Equal(t, groups["c1"][0], merged["c1"][0])
	assert.Equal(t, groups["c2"], merged["c2"])
}

func TestMergeReplyAdded(t *testing.T) {
	comments := []commentmodels.Comment{{ID: "c1", ReplyCount: 2}, {ID: "c2"}}

	merged := MergeReplyAdded(comments, "c2")

	assert.Equal(t, int64(2), merged[0].ReplyCount)
	assert.Equal(t, int64(1), merged[1].ReplyCount)
	assert.Equal(t, int64(0), comments[1].ReplyCount)
}

func TestAppendReply(t *testing.T) {
	groups := map[string][]commentmodels.Comment{"c1": {{ID: "r1"}}}

	next := AppendReply(groups, "c1", commentmodels.Comment{ID: "r2"})
	next = AppendReply(next, "c9", commentmodels.Comment{ID: "r3"})

	assert.Len(t, groups["c1"], 1)
	assert.Equal(t, []string{"r1", "r2"}, []string{next["c1"][0].ID, next["c1"][1].ID})
	assert.Equal(t, "r3", next["c9"][0].ID)
}

func TestFetchState(t *testing.T) {
	_, ok := Loading[int]().Payload()
	assert.False(t, ok)

	v, ok := Success(7).Payload()
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	failed := Failure[int]("boom")
	assert.Equal(t, StatusError, failed.Status())
	assert.Equal(t, "boom", failed.Message())
	assert.Equal(t, "idle", Idle[int]().Status().String())
}

func TestAuthStateViewer(t *testing.T) {
	assert.True(t, AuthState{}.Viewer().IsAnonymous())
	assert.True(t, SignInFailed("bad password").Viewer().IsAnonymous())
}
