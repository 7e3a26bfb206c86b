package formfile

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, seen *string) *fiber.App {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		up, done, err := Open(c, "image")
		defer done()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		if up == nil {
			*seen = "none"
			return c.SendStatus(fiber.StatusNoContent)
		}
		body, err := io.ReadAll(up.Body)
		require.NoError(t, err)
		*seen = up.FileName + "|" + up.ContentType + "|" + string(body)
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestOpenWithFile(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, w.Close())

	var seen string
	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := newApp(t, &seen).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "photo.png|application/octet-stream|png-bytes", seen)
}

func TestOpenWithoutFile(t *testing.T) {
	var seen string
	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"text":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := newApp(t, &seen).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "none", seen)
}
