package serverutils

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"gelisim-chatbot-be/internal/pkg/logger"
	"gelisim-chatbot-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) snapshot() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

func newKeyedApp(publisher SecurityEventPublisher) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNop()))
	app.Use(APIKeyMiddleware("X-API-Key", []string{"valid-key"}, publisher))
	app.Get("/protected", func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	})
	return app
}

func TestAPIKeyMiddleware(t *testing.T) {
	t.Run("valid key passes without events", func(t *testing.T) {
		pub := &capturingPublisher{}
		app := newKeyedApp(pub)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("X-API-Key", "valid-key")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Empty(t, pub.snapshot())
	})

	t.Run("missing key is 401 and publishes a rejection event", func(t *testing.T) {
		pub := &capturingPublisher{}
		app := newKeyedApp(pub)

		req := httptest.NewRequest("GET", "/protected", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Eventually(t, func() bool {
			for _, e := range pub.snapshot() {
				if e.EventType() == events.TypeAuthRejected && e.Payload()["reason"] == "missing_api_key" {
					return true
				}
			}
			return false
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("wrong key is 403 and publishes a rejection event", func(t *testing.T) {
		pub := &capturingPublisher{}
		app := newKeyedApp(pub)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("X-API-Key", "wrong-key")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.Eventually(t, func() bool {
			for _, e := range pub.snapshot() {
				if e.EventType() == events.TypeAuthRejected && e.Payload()["reason"] == "invalid_api_key" {
					return true
				}
			}
			return false
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("nil publisher drops events without panicking", func(t *testing.T) {
		app := newKeyedApp(nil)

		req := httptest.NewRequest("GET", "/protected", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
