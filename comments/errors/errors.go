package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
)

// Comment service specific errors
var (
	ErrCommentNotFound    = errors.New("comment not found")
	ErrPostNotFound       = errors.New("post does not exist")
	ErrReplyDepth         = errors.New("replies to replies are not allowed")
	ErrMissingUserContext = errors.New("missing user context")
	ErrValidationFailed   = errors.New("validation failed")
	ErrDatabaseOperation  = errors.New("database operation failed")
)

// Error codes
const (
	CodeCommentNotFound  = "COMMENT_NOT_FOUND"
	CodePostNotFound     = "POST_NOT_FOUND"
	CodeReplyDepth       = "REPLY_DEPTH_EXCEEDED"
	CodeNotAuthenticated = "NOT_AUTHENTICATED"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidUUID      = "INVALID_UUID"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HandleServiceError handles service errors and returns appropriate HTTP responses
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrCommentNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeCommentNotFound,
			Message: "Comment not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrPostNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodePostNotFound,
			Message: "Post not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrReplyDepth):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeReplyDepth,
			Message: "Only top-level comments can be replied to",
			Details: err.Error(),
		})
	case errors.Is(err, ErrMissingUserContext):
		return HandleUserContextError(c, "Authentication required")
	case errors.Is(err, ErrValidationFailed):
		return HandleValidationError(c, err.Error())
	case errors.Is(err, dbi.ErrUnavailable), errors.Is(err, ErrDatabaseOperation):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Code:    CodeDatabaseError,
			Message: "Database temporarily unavailable",
			Details: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeInternalError,
			Message: "Internal server error",
		})
	}
}

func HandleValidationError(c *fiber.Ctx, message string, details ...string) error {
	response := ErrorResponse{
		Code:    CodeValidationFailed,
		Message: message,
		Details: message,
	}
	if len(details) > 0 {
		response.Details = details[0]
	}
	return c.Status(http.StatusBadRequest).JSON(response)
}

func HandleUserContextError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
		Code:    CodeNotAuthenticated,
		Message: message,
		Details: message,
	})
}

func HandleInvalidRequestError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidRequest,
		Message: message,
		Details: message,
	})
}

func HandleUUIDError(c *fiber.Ctx, fieldName string) error {
	message := fmt.Sprintf("Invalid %s format", fieldName)
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidUUID,
		Message: message,
		Details: message,
	})
}

// WrapDatabaseError tags a store failure for HandleServiceError.
func WrapDatabaseError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrDatabaseOperation, err)
}
