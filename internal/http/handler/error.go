package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"libraryfront/internal/backend"
	"libraryfront/internal/http/middleware"
	"libraryfront/internal/model"
	"libraryfront/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID    string              `json:"request_id"`
	Error        errorEnvelope       `json:"error"`
	Notification *model.Notification `json:"notification,omitempty"`
}

type errorEnvelope struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NO_PAGE", "BACKEND_UNAVAILABLE")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// respondError translates service and backend errors into the error envelope.
// Anything unrecognized came from the backend call and is reported as 502.
func respondError(c *fiber.Ctx, err error) error {
	var (
		ve  *service.ValidationError
		me  *service.MutationError
		rej *backend.RejectedError
	)

	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(errorPayload{
			RequestID: requestIDFromCtx(c),
			Error:     errorEnvelope{Code: "VALIDATION_FAILED", Message: strings.Join(ve.Msgs, "; "), Fields: ve.Fields},
		})
	case errors.Is(err, service.ErrInvalidID):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, service.ErrNoFiles):
		return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "no files selected")
	case errors.Is(err, service.ErrNotPDF):
		return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "only PDF files are allowed")
	case errors.Is(err, service.ErrUnknownRange), errors.Is(err, service.ErrInvalidDate):
		return writeError(c, fiber.StatusBadRequest, "INVALID_RANGE", err.Error())
	case errors.Is(err, service.ErrUnknownReport):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "unknown report")
	case errors.Is(err, service.ErrAuditDisabled):
		return writeError(c, fiber.StatusServiceUnavailable, "AUDIT_DISABLED", "audit log is not configured")
	case errors.As(err, &rej):
		return writeError(c, fiber.StatusUnprocessableEntity, "DOWNLOAD_REJECTED", rej.Message)
	case errors.As(err, &me):
		status, code := backendStatus(me.Err)
		n := me.Notification
		return c.Status(status).JSON(errorPayload{
			RequestID:    requestIDFromCtx(c),
			Error:        errorEnvelope{Code: code, Message: n.Message},
			Notification: &n,
		})
	default:
		status, code := backendStatus(err)
		return writeError(c, status, code, "catalog backend unavailable")
	}
}

func backendStatus(err error) (int, string) {
	if errors.Is(err, backend.ErrUnavailable) {
		return fiber.StatusServiceUnavailable, "CIRCUIT_OPEN"
	}
	return fiber.StatusBadGateway, "BACKEND_UNAVAILABLE"
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
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
