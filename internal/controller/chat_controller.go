package controller

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"gelisim-chatbot-be/internal/constant"
	"gelisim-chatbot-be/internal/dto"
	"gelisim-chatbot-be/internal/pkg/apperrors"
	"gelisim-chatbot-be/internal/pkg/logger"
	"gelisim-chatbot-be/internal/pkg/serverutils"
	"gelisim-chatbot-be/internal/service"
	"gelisim-chatbot-be/pkg/budget"
	"gelisim-chatbot-be/pkg/events"
	"gelisim-chatbot-be/pkg/guard"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// EventPublisher pushes security events to the bus. Publishing is
// best-effort; the request path never waits on it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ChatStream(ctx *fiber.Ctx) error
}

// chatController runs the security gate in front of the chat pipeline:
// admission (daily budgets) first, then input screening (size + injection).
// Only queries that pass both ever reach the service.
type chatController struct {
	chatService service.IChatService
	limiter     *budget.Limiter
	publisher   EventPublisher
	log         logger.ILogger
}

func NewChatController(
	chatService service.IChatService,
	limiter *budget.Limiter,
	publisher EventPublisher,
	log logger.ILogger,
) IChatController {
	return &chatController{
		chatService: chatService,
		limiter:     limiter,
		publisher:   publisher,
		log:         log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("", c.Chat)
	h.Post("/stream", c.ChatStream)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	if err := c.admit(ctx); err != nil {
		return err
	}

	query, injected, err := c.screen(ctx)
	if err != nil {
		return err
	}
	if injected {
		// Fixed refusal, never cached, never generated.
		return ctx.JSON(dto.ChatResponse{
			Response: constant.InjectionRefusalMessage,
			Sources:  []string{},
			Cached:   false,
		})
	}

	res, err := c.chatService.GetResponse(ctx.Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) ChatStream(ctx *fiber.Ctx) error {
	if err := c.admit(ctx); err != nil {
		return err
	}

	query, injected, err := c.screen(ctx)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The fiber context is recycled once this handler returns, so everything
	// the stream writer needs is captured up front.
	userCtx := ctx.UserContext()
	clientIP := ctx.IP()

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		if injected {
			_ = writeFrame(w, constant.InjectionRefusalMessage)
			_ = writeFrame(w, "[DONE]")
			return
		}

		streamErr := c.chatService.StreamResponse(userCtx, query, func(fragment string) error {
			return writeFrame(w, fragment)
		})
		if streamErr != nil {
			appErr, ok := apperrors.As(streamErr)
			if !ok {
				// Not from the pipeline, so the emit callback failed: the
				// client is gone and there is nobody left to write to.
				c.log.Warn("chat", "SSE client disconnected mid-stream", map[string]interface{}{
					"ip": clientIP,
				})
				return
			}
			_ = writeFrame(w, "[ERROR] "+appErr.Message)
		}
		_ = writeFrame(w, "[DONE]")
	}))

	return nil
}

// admit runs the daily budget checks, per-IP before global so one noisy
// caller burns their own allowance before touching the shared pool.
func (c *chatController) admit(ctx *fiber.Ctx) error {
	clientIP := ctx.IP()

	if err := c.limiter.CheckIPDailyLimit(ctx.Context(), clientIP); err != nil {
		if appErr, ok := apperrors.As(err); ok && appErr.Kind == apperrors.KindQuotaExceeded {
			c.publishEvent(events.NewQuotaExceededEvent("ip", clientIP))
		}
		return err
	}

	if err := c.limiter.CheckGlobalDailyLimit(ctx.Context()); err != nil {
		if appErr, ok := apperrors.As(err); ok && appErr.Kind == apperrors.KindQuotaExceeded {
			c.publishEvent(events.NewQuotaExceededEvent("global", clientIP))
		}
		return err
	}

	return nil
}

// screen parses, validates and normalizes the query, then runs the injection
// heuristics. The normalized form is what flows through the rest of the
// pipeline.
func (c *chatController) screen(ctx *fiber.Ctx) (query string, injected bool, err error) {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return "", false, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return "", false, err
	}

	query = guard.NormalizeQuery(req.Query)
	if len([]rune(query)) < guard.MinQueryChars {
		return "", false, fiber.NewError(fiber.StatusBadRequest, "Query is empty after normalization")
	}

	if err := guard.ValidateQuerySize(query); err != nil {
		return "", false, err
	}

	if guard.DetectInjection(query) {
		c.log.Warn("guard", "Injection pattern matched", map[string]interface{}{
			"ip":      ctx.IP(),
			"pattern": guard.MatchedPattern(query),
		})
		c.publishEvent(events.NewInjectionDetectedEvent(ctx.IP(), queryPreview(query)))
		return query, true, nil
	}

	return query, false, nil
}

func (c *chatController) publishEvent(event events.Event) {
	if c.publisher == nil {
		return
	}
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.publisher.Publish(pctx, event); err != nil {
			c.log.Warn("events", "Failed to publish security event", map[string]interface{}{
				"type":  event.EventType(),
				"error": err.Error(),
			})
		}
	}()
}

// writeFrame emits one SSE data frame and flushes it through to the client
// immediately. A flush error means the connection is gone.
func writeFrame(w *bufio.Writer, data string) error {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}

func queryPreview(query string) string {
	runes := []rune(query)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return query
}
