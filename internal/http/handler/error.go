package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pdfchat/internal/http/middleware"
	"pdfchat/internal/service"
)

// errorPayload defines the standardized error response body.
// Detail carries the human-readable message; Code is machine-readable.
type errorPayload struct {
	Detail    string `json:"detail"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		Detail:    message,
		Code:      code,
		RequestID: middleware.RequestIDFrom(c),
	})
}

// internalError answers 500 and hands err to the access logger.
func internalError(c *fiber.Ctx, err error) error {
	c.Locals(middleware.ErrorLocalKey, err)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// writeServiceError maps service sentinels onto client-visible statuses.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidMediaType):
		return writeError(c, fiber.StatusBadRequest, "INVALID_MEDIA_TYPE", "Only PDF files are supported")
	case errors.Is(err, service.ErrInvalidIdentifier):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "Invalid document_id")
	case errors.Is(err, service.ErrDocumentNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Document not found")
	case errors.Is(err, service.ErrContentExpired):
		return writeError(c, fiber.StatusGone, "CONTENT_EXPIRED", "Document content has expired")
	case errors.Is(err, service.ErrDatastoreUnavailable):
		return writeError(c, fiber.StatusInternalServerError, "DATASTORE_UNAVAILABLE", "Database not configured")
	default:
		return internalError(c, err)
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "Not Found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "Method Not Allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "payload too large")
		case fiber.StatusUnprocessableEntity:
			return writeError(c, status, "UNPROCESSABLE_ENTITY", "unprocessable entity")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
