package serverutils

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"

	"gelisim-chatbot-be/internal/pkg/apperrors"
	"gelisim-chatbot-be/pkg/events"
)

// SecurityEventPublisher pushes security events to the bus. Best-effort;
// rejection handling never waits on it.
type SecurityEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// APIKeyMiddleware validates the deployment credential header. The key lives
// in the frontend's server-side environment and is never exposed to the
// browser. Every rejection emits an AUTH_REJECTED event when a publisher is
// configured.
func APIKeyMiddleware(headerName string, validKeys []string, publisher SecurityEventPublisher) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		presented := ctx.Get(headerName)
		if presented == "" {
			publishAuthRejected(publisher, ctx.IP(), "missing_api_key")
			return apperrors.NewAuthRejected(
				"Missing API key. Include '"+headerName+"' header.",
				fiber.StatusUnauthorized,
			)
		}

		for _, key := range validKeys {
			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1 {
				return ctx.Next()
			}
		}

		publishAuthRejected(publisher, ctx.IP(), "invalid_api_key")
		return apperrors.NewAuthRejected("Invalid API key.", fiber.StatusForbidden)
	}
}

func publishAuthRejected(publisher SecurityEventPublisher, clientIP, reason string) {
	if publisher == nil {
		return
	}
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// Best-effort; a failed publish never affects the rejection.
		_ = publisher.Publish(pctx, events.NewAuthRejectedEvent(clientIP, reason))
	}()
}
