package controller

import (
	"time"

	"gelisim-chatbot-be/internal/dto"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	version   string
	startedAt time.Time
}

func NewHealthController(version string) IHealthController {
	return &healthController{
		version:   version,
		startedAt: time.Now(),
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{
		Status:        "ok",
		Version:       c.version,
		UptimeSeconds: time.Since(c.startedAt).Seconds(),
	})
}
