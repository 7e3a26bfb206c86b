package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialfeed/api/internal/cache"
	"github.com/socialfeed/api/internal/database/memory"
	"github.com/socialfeed/api/internal/database/utils"
	"github.com/socialfeed/api/internal/identity"
	"github.com/socialfeed/api/internal/types"
	"github.com/socialfeed/api/posts/models"
	"github.com/socialfeed/api/storage/provider"
)

type tokenVerifier map[string]types.UserContext

func (v tokenVerifier) Verify(ctx context.Context, token string) (types.UserContext, error) {
	if u, ok := v[token]; ok {
		return u, nil
	}
	return types.UserContext{}, identity.ErrInvalidToken
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore(memory.WithCompositeIndexesRequired())
	svc := NewPostService(store, utils.NewFinder(store, true), cache.NewMemoryCache(), 0, provider.Disabled{})

	app := fiber.New()
	RegisterRoutes(app, NewHandlers(svc), tokenVerifier{
		"tok-alice": {UserID: "alice", DisplayName: "Alice"},
		"tok-bob":   {UserID: "bob", DisplayName: "Bob"},
	})
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request, token string, out interface{}) int {
	t.Helper()
	if token != "" {
		req.Header.Set(types.HeaderAuthorization, types.BearerPrefix+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	if out != nil {
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(types.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestCreateAndReadPost(t *testing.T) {
	app := setupApp(t)

	var created models.Post
	status := do(t, app, jsonRequest("POST", "/posts", `{"text":"hello world"}`), "tok-bob", &created)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "bob", created.UserID)
	assert.Equal(t, "Bob", created.UserDisplayName)

	var got models.Post
	status = do(t, app, httptest.NewRequest("GET", "/posts/"+created.ID, nil), "", &got)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, created.ID, got.ID)

	status = do(t, app, httptest.NewRequest("GET", "/posts/6ba7b810-9dad-11d1-80b4-00c04fd430c8", nil), "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status = do(t, app, httptest.NewRequest("GET", "/posts/not-a-uuid", nil), "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreatePostMultipartWithoutStorage(t *testing.T) {
	app := setupApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("text", "with image"))
	part, err := w.CreateFormFile("image", "cat.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/posts", &buf)
	req.Header.Set(types.HeaderContentType, w.FormDataContentType())

	var created models.Post
	status := do(t, app, req, "tok-alice", &created)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "with image", created.Text)
	assert.Empty(t, created.ImageURL)
}

func TestCreatePostValidation(t *testing.T) {
	app := setupApp(t)

	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, jsonRequest("POST", "/posts", `{"text":"x"}`), "", nil))
	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, jsonRequest("POST", "/posts", `{"text":"x"}`), "bad", nil))
	assert.Equal(t, fiber.StatusBadRequest, do(t, app, jsonRequest("POST", "/posts", `{"text":""}`), "tok-alice", nil))
}

func TestToggleLikeAndFeed(t *testing.T) {
	app := setupApp(t)

	var post models.Post
	require.Equal(t, fiber.StatusCreated, do(t, app, jsonRequest("POST", "/posts", `{"text":"hi"}`), "tok-bob", &post))

	var like models.LikeResponse
	status := do(t, app, httptest.NewRequest("POST", "/posts/"+post.ID+"/like", nil), "tok-alice", &like)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, like.Liked)
	assert.Equal(t, int64(1), like.Post.LikeCount)

	var feed models.PostsListResponse
	require.Equal(t, fiber.StatusOK, do(t, app, httptest.NewRequest("GET", "/posts", nil), "tok-alice", &feed))
	require.Len(t, feed.Posts, 1)
	assert.True(t, feed.Posts[0].IsLikedByCurrentUser)

	require.Equal(t, fiber.StatusOK, do(t, app, httptest.NewRequest("GET", "/posts", nil), "", &feed))
	assert.False(t, feed.Posts[0].IsLikedByCurrentUser)

	var byUser models.PostsListResponse
	require.Equal(t, fiber.StatusOK, do(t, app, httptest.NewRequest("GET", "/posts/user/bob", nil), "tok-alice", &byUser))
	require.Len(t, byUser.Posts, 1)
	assert.True(t, byUser.Posts[0].IsLikedByCurrentUser)

	status = do(t, app, httptest.NewRequest("POST", "/posts/"+post.ID+"/like", nil), "tok-alice", &like)
	require.Equal(t, fiber.StatusOK, status)
	assert.False(t, like.Liked)
	assert.Equal(t, int64(0), like.Post.LikeCount)

	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, httptest.NewRequest("POST", "/posts/"+post.ID+"/like", nil), "", nil))
	assert.Equal(t, fiber.StatusBadRequest, do(t, app, httptest.NewRequest("GET", "/posts?limit=-1", nil), "", nil))
}
