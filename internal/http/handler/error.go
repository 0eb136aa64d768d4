package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"rppapi/internal/http/middleware"
)

// errorPayload is the body of every failed response. Clients rely on the status code and
// message only; internal error details are logged, never returned.
type errorPayload struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{
		Success:   false,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	})
}

// writeInternal logs err against the request and answers 500 with message.
func writeInternal(c *fiber.Ctx, err error, message string) error {
	zerolog.Ctx(c.UserContext()).Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(message)
	return writeError(c, fiber.StatusInternalServerError, message)
}

// ErrorHandler is the app-wide fallback for errors that escape a handler: unmatched routes,
// body limits, panics caught by recover.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "Bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "Resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "Method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "Request body too large")
		default:
			if status >= fiber.StatusInternalServerError {
				return writeInternal(c, err, "Internal server error")
			}
			return writeError(c, status, utils.StatusMessage(status))
		}
	}
}
