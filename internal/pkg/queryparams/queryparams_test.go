package queryparams

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listFilter struct {
	PostID string `schema:"postId"`
	Limit  int    `schema:"limit"`
}

func TestDecode(t *testing.T) {
	var got listFilter
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if err := Decode(c, &got); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/?postId=p1&limit=5&extra=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, listFilter{PostID: "p1", Limit: 5}, got)

	resp, err = app.Test(httptest.NewRequest("GET", "/?limit=many", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
