package controller

import (
	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/pkg/serverutils"
	"helpdesk-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMetricsController interface {
	RegisterRoutes(r fiber.Router)
	Summary(ctx *fiber.Ctx) error
}

type metricsController struct {
	metricsService service.IMetricsService
}

func NewMetricsController(metricsService service.IMetricsService) IMetricsController {
	return &metricsController{
		metricsService: metricsService,
	}
}

func (c *metricsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/metrics")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/summary", c.Summary)
}

func (c *metricsController) Summary(ctx *fiber.Ctx) error {
	_, role, _, err := identity(ctx)
	if err != nil {
		return err
	}

	if role != constant.RoleAdmin {
		return serverutils.NewApiError(fiber.StatusForbidden, "Only admin can view metrics")
	}

	res, err := c.metricsService.Summary(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get metrics summary", res))
}
