package controller

import (
	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/dto"
	"helpdesk-ai-be/internal/pkg/serverutils"
	"helpdesk-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/kb")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/documents", c.Ingest)
}

func (c *knowledgeController) Ingest(ctx *fiber.Ctx) error {
	_, role, _, err := identity(ctx)
	if err != nil {
		return err
	}

	if role != constant.RoleAdmin {
		return serverutils.NewApiError(fiber.StatusForbidden, "Only admin can ingest documents")
	}

	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Document ingested successfully", res))
}
