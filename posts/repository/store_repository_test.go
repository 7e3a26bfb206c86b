// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
	"github.com/socialfeed/api/internal/database/memory"
	"github.com/socialfeed/api/internal/database/utils"
	"github.com/socialfeed/api/internal/types"
	"github.com/socialfeed/api/posts/models"
)

func seedPosts(t *testing.T, repo PostRepository) {
	ctx := context.Background()
	for i, owner := range []string{"a", "b", "a", "c", "a"} {
		require.NoError(t, repo.Create(ctx, &models.Post{
			ID:        fmt.Sprintf("p%d", i),
			UserID:    owner,
			Text:      "post",
			CreatedAt: int64(100 + i),
		}))
	}
}

func postIDs(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestFindAllNewestFirst(t *testing.T) {
	store := memory.NewStore()
	repo := NewPostRepository(store, utils.NewFinder(store, true))
	seedPosts(t, repo)

	posts, err := repo.FindAll(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"p4", "p3", "p2", "p1", "p0"}, postIDs(posts))

	posts, err = repo.FindAll(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"p4", "p3"}, postIDs(posts))
}

func TestFindByUserIndexedAndFallbackAgree(t *testing.T) {
	ctx := context.Background()

	indexedStore := memory.NewStore()
	indexed := NewPostRepository(indexedStore, utils.NewFinder(indexedStore, true))
	seedPosts(t, indexed)

	bareStore := memory.NewStore(memory.WithCompositeIndexesRequired())
	fallback := NewPostRepository(bareStore, utils.NewFinder(bareStore, true))
	seedPosts(t, fallback)

	want, err := indexed.FindByUser(ctx, "a", 0)
	require.NoError(t, err)
	got, err := fallback.FindByUser(ctx, "a", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"p4", "p2", "p0"}, postIDs(want))
	assert.Equal(t, want, got)

	strict := NewPostRepository(bareStore, utils.NewFinder(bareStore, false))
	_, err = strict.FindByUser(ctx, "a", 0)
	assert.ErrorIs(t, err, dbi.ErrIndexUnavailable)
}

func TestFindByIDNotFound(t *testing.T) {
	store := memory.NewStore()
	_, err := NewPostRepository(store, utils.NewFinder(store, true)).FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, dbi.ErrNotFound)
}

func TestLikeRepository(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewLikeRepository(store, utils.NewFinder(store, true))
	viewer := types.UserContext{UserID: "u1"}

	require.NoError(t, repo.Add(ctx, "p1", viewer))
	assert.ErrorIs(t, repo.Add(ctx, "p1", viewer), dbi.ErrDuplicateKey)
	require.NoError(t, repo.Add(ctx, "p2", viewer))

	ok, err := repo.Exists(ctx, "p1", "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	liked, err := repo.FindByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, liked, 2)

	require.NoError(t, repo.Remove(ctx, "p1", "u1"))
	assert.ErrorIs(t, repo.Remove(ctx, "p1", "u1"), dbi.ErrNotFound)

	ok, err = repo.Exists(ctx, "p1", "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLikeIDIsDeterministic(t *testing.T) {
	assert.Equal(t, LikeID("p1", "u1"), LikeID("p1", "u1"))
	assert.NotEqual(t, LikeID("p1", "u1"), LikeID("p1", "u2"))
	assert.NotEqual(t, LikeID("p1", "u1"), LikeID("u1", "p1"))
}
