// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/socialfeed/api/comments/errors"
	"github.com/socialfeed/api/comments/models"
	"github.com/socialfeed/api/comments/services"
	"github.com/socialfeed/api/comments/validation"
	"github.com/socialfeed/api/internal/middleware/authjwt"
	"github.com/socialfeed/api/internal/pkg/formfile"
	"github.com/socialfeed/api/internal/pkg/queryparams"
)

// CommentHandler handles all comment-related HTTP requests
type CommentHandler struct {
	commentService services.CommentService
}

// NewCommentHandler creates a new CommentHandler with injected dependencies
func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateComment handles creating a top-level comment on a post
func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	user, ok := authjwt.Viewer(c)
	if !ok {
		return errors.HandleUserContextError(c, "Authentication required")
	}

	var req models.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}
	if err := validation.ValidateCreateCommentRequest(&req); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	image, done, err := formfile.Open(c, "image")
	defer done()
	if err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	comment, err := h.commentService.AddComment(c.UserContext(), &req, image, &user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(comment)
}

// CreateReply handles replying to a top-level comment
func (h *CommentHandler) CreateReply(c *fiber.Ctx) error {
	user, ok := authjwt.Viewer(c)
	if !ok {
		return errors.HandleUserContextError(c, "Authentication required")
	}
	parentID := c.Params("commentId")
	if err := validation.ValidateUUID("commentId", parentID); err != nil {
		return errors.HandleUUIDError(c, "commentId")
	}

	var req models.CreateReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}
	if err := validation.ValidateCreateReplyRequest(&req); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	image, done, err := formfile.Open(c, "image")
	defer done()
	if err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	reply, err := h.commentService.AddReply(c.UserContext(), parentID, &req, image, &user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(reply)
}

// GetComment handles retrieving a single comment
func (h *CommentHandler) GetComment(c *fiber.Ctx) error {
	commentID := c.Params("commentId")
	if err := validation.ValidateUUID("commentId", commentID); err != nil {
		return errors.HandleUUIDError(c, "commentId")
	}

	viewer, _ := authjwt.Viewer(c)
	comment, err := h.commentService.GetComment(c.UserContext(), commentID, viewer.UserID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(comment)
}

// ListComments handles GET /comments?postId=
func (h *CommentHandler) ListComments(c *fiber.Ctx) error {
	var filter models.CommentQueryFilter
	if err := queryparams.Decode(c, &filter); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}
	if err := validation.ValidateUUID("postId", filter.PostID); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	viewer, _ := authjwt.Viewer(c)
	result, err := h.commentService.ListComments(c.UserContext(), filter.PostID, viewer.UserID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

// ListReplies handles retrieving the replies to a comment
func (h *CommentHandler) ListReplies(c *fiber.Ctx) error {
	parentID := c.Params("commentId")
	if err := validation.ValidateUUID("commentId", parentID); err != nil {
		return errors.HandleUUIDError(c, "commentId")
	}

	viewer, _ := authjwt.Viewer(c)
	result, err := h.commentService.ListReplies(c.UserContext(), parentID, viewer.UserID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}

// ToggleLike handles liking and unliking a comment
func (h *CommentHandler) ToggleLike(c *fiber.Ctx) error {
	user, ok := authjwt.Viewer(c)
	if !ok {
		return errors.HandleUserContextError(c, "Authentication required")
	}
	commentID := c.Params("commentId")
	if err := validation.ValidateUUID("commentId", commentID); err != nil {
		return errors.HandleUUIDError(c, "commentId")
	}

	result, err := h.commentService.ToggleLike(c.UserContext(), commentID, &user)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.JSON(result)
}
