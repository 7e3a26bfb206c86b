package validation

import (
	"fmt"
	"strings"

	uuid "github.com/gofrs/uuid"

	"github.com/socialfeed/api/comments/models"
)

// MaxTextLength bounds comment bodies.
const MaxTextLength = 1000

// ValidateCreateCommentRequest validates the create comment request
func ValidateCreateCommentRequest(req *models.CreateCommentRequest) error {
	if err := ValidateUUID("postId", req.PostID); err != nil {
		return err
	}
	return ValidateText(req.Text)
}

// ValidateCreateReplyRequest validates the create reply request
func ValidateCreateReplyRequest(req *models.CreateReplyRequest) error {
	return ValidateText(req.Text)
}

// ValidateText checks a comment or reply body.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	if len(text) > MaxTextLength {
		return fmt.Errorf("text must be less than %d characters", MaxTextLength)
	}
	return nil
}

// ValidateUUID checks that value is a well-formed id for field.
func ValidateUUID(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if _, err := uuid.FromString(value); err != nil {
		return fmt.Errorf("invalid %s format", field)
	}
	return nil
}
