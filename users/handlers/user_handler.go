// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/socialfeed/api/internal/middleware/authjwt"
	"github.com/socialfeed/api/internal/pkg/formfile"
	"github.com/socialfeed/api/users/errors"
	"github.com/socialfeed/api/users/models"
	"github.com/socialfeed/api/users/services"
	"github.com/socialfeed/api/users/validation"
)

// UserHandler handles all profile-related HTTP requests
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler with injected dependencies
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ReadMyProfile returns the viewer's profile, creating it on first access
func (h *UserHandler) ReadMyProfile(c *fiber.Ctx) error {
	user, ok := authjwt.Viewer(c)
	if !ok {
		return errors.HandleUserContextError(c, "Authentication required")
	}

	profile, err := h.userService.GetOrCreateCurrent(c.UserContext(), &user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(profile)
}

// ReadProfile returns a profile by user id
func (h *UserHandler) ReadProfile(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return errors.HandleInvalidRequestError(c, "userId is required")
	}

	profile, err := h.userService.GetByID(c.UserContext(), userID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfile handles profile edits sent as multipart form or JSON
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := authjwt.Viewer(c)
	if !ok {
		return errors.HandleUserContextError(c, "Authentication required")
	}

	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}
	if err := validation.ValidateUpdateProfileRequest(&req); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	photo, done, err := formfile.Open(c, "photo")
	defer done()
	if err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	profile, err := h.userService.UpdateProfile(c.UserContext(), &user, &req, photo)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(profile)
}
