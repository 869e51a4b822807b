package serverutils

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"gelisim-chatbot-be/internal/pkg/apperrors"
	"gelisim-chatbot-be/internal/pkg/logger"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into safe
// JSON responses. Full detail is logged internally; clients only ever see
// the taxonomy kind, a generic message and a correlation id.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		reqId, _ := ctx.Locals(requestid.ConfigDefault.ContextKey).(string)

		if appErr, ok := apperrors.As(err); ok {
			if appErr.Kind == apperrors.KindInternal {
				log.Error("http", "Unhandled internal error", map[string]interface{}{
					"request_id": reqId,
					"path":       ctx.Path(),
					"error":      appErr.Error(),
				})
			} else {
				log.Warn("http", "Request rejected", map[string]interface{}{
					"request_id": reqId,
					"path":       ctx.Path(),
					"kind":       string(appErr.Kind),
				})
			}

			if appErr.RetryAfter > 0 {
				ctx.Set("Retry-After", strconv.Itoa(appErr.RetryAfter))
			}
			return ctx.Status(appErr.StatusCode).JSON(ErrorResponse{
				Error:     string(appErr.Kind),
				Message:   appErr.Message,
				RequestId: reqId,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse{
				Error:     "request_error",
				Message:   fiberErr.Message,
				RequestId: reqId,
			})
		}

		// Unclassified: log everything, reveal nothing.
		log.Error("http", "Unhandled exception", map[string]interface{}{
			"request_id": reqId,
			"path":       ctx.Path(),
			"error":      err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:     "internal_server_error",
			Message:   "An unexpected error occurred. Please try again later.",
			RequestId: reqId,
		})
	}
}
