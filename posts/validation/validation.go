package validation

import (
	"fmt"
	"strings"

	uuid "github.com/gofrs/uuid"

	"github.com/socialfeed/api/posts/models"
)

// MaxTextLength bounds post bodies.
const MaxTextLength = 5000

// ValidateCreatePostRequest validates the create post request
func ValidateCreatePostRequest(req *models.CreatePostRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("text is required")
	}
	if len(req.Text) > MaxTextLength {
		return fmt.Errorf("text must be less than %d characters", MaxTextLength)
	}
	return nil
}

// ValidatePostID checks that id is a well-formed post id.
func ValidatePostID(id string) error {
	if _, err := uuid.FromString(id); err != nil {
		return fmt.Errorf("invalid postId: %w", err)
	}
	return nil
}
