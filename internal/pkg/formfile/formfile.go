package formfile

import (
	"fmt"
	"mime"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/socialfeed/api/storage/provider"
)

// MaxUploadSize bounds a single attached image.
const MaxUploadSize = 10 << 20

// Open returns the file attached under field, or nil when the request carries
// none. The returned close func must be called once the upload is done.
func Open(c *fiber.Ctx, field string) (*provider.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, func() {}, nil
	}
	if fh.Size > MaxUploadSize {
		return nil, func() {}, fmt.Errorf("%s must be at most %d bytes", field, MaxUploadSize)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open %s: %w", field, err)
	}

	contentType := fh.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(fh.Filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &provider.Upload{
		FileName:    fh.Filename,
		ContentType: contentType,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
