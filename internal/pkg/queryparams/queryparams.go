package queryparams

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// Decode fills out from the request's query string using `schema` struct tags.
func Decode(c *fiber.Ctx, out interface{}) error {
	values := url.Values{}
	c.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})
	if err := decoder.Decode(out, values); err != nil {
		return fmt.Errorf("invalid query parameters: %w", err)
	}
	return nil
}
