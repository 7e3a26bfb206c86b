package validation

import (
	"fmt"
	"strings"

	"github.com/socialfeed/api/users/models"
)

// ValidateUpdateProfileRequest validates the update profile request
func ValidateUpdateProfileRequest(req *models.UpdateProfileRequest) error {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return fmt.Errorf("displayName is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("displayName must be less than 100 characters")
	}
	if len(req.Bio) > 500 {
		return fmt.Errorf("bio must be less than 500 characters")
	}
	return nil
}
