// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/socialfeed/api/internal/middleware/authjwt"
	"github.com/socialfeed/api/internal/pkg/formfile"
	"github.com/socialfeed/api/internal/pkg/queryparams"
	"github.com/socialfeed/api/posts/errors"
	"github.com/socialfeed/api/posts/models"
	"github.com/socialfeed/api/posts/services"
	"github.com/socialfeed/api/posts/validation"
)

// maxListLimit caps the limit query parameter of list endpoints.
const maxListLimit = 500

// PostHandler handles all post-related HTTP requests
type PostHandler struct {
	postService services.PostService
}

// NewPostHandler creates a new PostHandler with injected dependencies
func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePost handles post creation from a multipart form or JSON body
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	user, ok := authjwt.Viewer(c)
	if !ok {
		return errors.HandleUserContextError(c, "Authentication required")
	}

	var req models.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}
	if err := validation.ValidateCreatePostRequest(&req); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	image, done, err := formfile.Open(c, "image")
	defer done()
	if err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	post, err := h.postService.CreatePost(c.UserContext(), &req, image, &user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(post)
}

// GetPost handles retrieving a single post
func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	postID := c.Params("postId")
	if err := validation.ValidatePostID(postID); err != nil {
		return errors.HandleUUIDError(c, "postId")
	}

	viewer, _ := authjwt.Viewer(c)
	post, err := h.postService.GetPost(c.UserContext(), postID, viewer.UserID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(post)
}

// ListFeed handles the newest-first feed of every post
func (h *PostHandler) ListFeed(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	viewer, _ := authjwt.Viewer(c)
	result, err := h.postService.ListFeed(c.UserContext(), filter, viewer.UserID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

// ListByUser handles the newest-first posts of one user
func (h *PostHandler) ListByUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return errors.HandleInvalidRequestError(c, "userId is required")
	}
	filter, err := parseFilter(c)
	if err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	viewer, _ := authjwt.Viewer(c)
	result, err := h.postService.ListByUser(c.UserContext(), userID, filter, viewer.UserID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

// ToggleLike handles liking and unliking a post
func (h *PostHandler) ToggleLike(c *fiber.Ctx) error {
	user, ok := authjwt.Viewer(c)
	if !ok {
		return errors.HandleUserContextError(c, "Authentication required")
	}
	postID := c.Params("postId")
	if err := validation.ValidatePostID(postID); err != nil {
		return errors.HandleUUIDError(c, "postId")
	}

	result, err := h.postService.ToggleLike(c.UserContext(), postID, &user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

func parseFilter(c *fiber.Ctx) (*models.PostQueryFilter, error) {
	var filter models.PostQueryFilter
	if err := queryparams.Decode(c, &filter); err != nil {
		return nil, err
	}
	if filter.Limit < 0 || filter.Limit > maxListLimit {
		return nil, fmt.Errorf("limit must be between 0 and %d", maxListLimit)
	}
	return &filter, nil
}
