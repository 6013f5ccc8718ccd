package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error             string `json:"error"`
	Code              string `json:"code,omitempty"`
	Details           string `json:"details,omitempty"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
	// RetryAfterSeconds is set only for RATE_LIMITED errors.
	RetryAfterSeconds int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Outcome codes surfaced by the interaction and moderation engine.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidTarget   = "INVALID_TARGET"
	CodeInvalidReason   = "INVALID_REASON"
	CodeSelfInteraction = "SELF_INTERACTION"
	CodeConflict        = "CONFLICT"
	CodeForbidden       = "FORBIDDEN"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL_ERROR"
)

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewInvalidTargetError indicates a malformed vote/report target
// (both or neither of post and comment set).
func NewInvalidTargetError() *AppError {
	return &AppError{
		Code:    CodeInvalidTarget,
		Message: "Exactly one of post_id or comment_id must be set",
	}
}

func NewInvalidReasonError(reason string) *AppError {
	return &AppError{
		Code:    CodeInvalidReason,
		Message: fmt.Sprintf("Unknown report reason %q", reason),
	}
}

// NewSelfInteractionError indicates a user acting on their own content
// where that is disallowed (self-vote, self-report).
func NewSelfInteractionError(action string) *AppError {
	return &AppError{
		Code:    CodeSelfInteraction,
		Message: fmt.Sprintf("You cannot %s your own content", action),
	}
}

// NewConflictError indicates duplicate state; the caller needs to do
// nothing further. Storage-level uniqueness violations are translated to
// this before leaving the service layer.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewRateLimitedError carries the whole seconds until the caller's
// current window resets.
func NewRateLimitedError(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:              CodeRateLimited,
		Message:           "Too many requests, please try again later",
		RetryAfterSeconds: retryAfterSeconds,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusForError maps an application error to an HTTP status code.
func StatusForError(err error) int {
	appErr, ok := err.(*AppError)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeValidation, CodeInvalidTarget, CodeInvalidReason:
		return fiber.StatusBadRequest
	case CodeSelfInteraction, CodeForbidden:
		return fiber.StatusForbidden
	case CodeConflict:
		return fiber.StatusConflict
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeRateLimited:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error:             appErr.Message,
			Code:              appErr.Code,
			RetryAfterSeconds: appErr.RetryAfterSeconds,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
