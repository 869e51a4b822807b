package controller

import (
	"gelisim-chatbot-be/internal/dto"
	"gelisim-chatbot-be/internal/pkg/serverutils"
	"gelisim-chatbot-be/pkg/budget"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	UsageStats(ctx *fiber.Ctx) error
}

type adminController struct {
	limiter *budget.Limiter
}

func NewAdminController(limiter *budget.Limiter) IAdminController {
	return &adminController{
		limiter: limiter,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Get("/usage", c.UsageStats)
}

func (c *adminController) UsageStats(ctx *fiber.Ctx) error {
	stats, err := c.limiter.GetUsageStats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Usage stats", dto.UsageStatsResponse{
		GlobalToday: stats.GlobalToday,
		GlobalLimit: stats.GlobalLimit,
		IPLimit:     stats.IPLimit,
	}))
}
