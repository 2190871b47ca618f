package controller

import (
	"helpdesk-ai-be/internal/dto"
	"helpdesk-ai-be/internal/pkg/serverutils"
	"helpdesk-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITicketController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type ticketController struct {
	ticketService service.ITicketService
}

func NewTicketController(ticketService service.ITicketService) ITicketController {
	return &ticketController{
		ticketService: ticketService,
	}
}

func (c *ticketController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tickets")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *ticketController) List(ctx *fiber.Ctx) error {
	userId, role, _, err := identity(ctx)
	if err != nil {
		return err
	}

	var req dto.ListTicketsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ticketService.List(ctx.Context(), userId, role, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list tickets", res))
}

func (c *ticketController) Update(ctx *fiber.Ctx) error {
	userId, role, _, err := identity(ctx)
	if err != nil {
		return err
	}

	ticketId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid ticket id")
	}

	var req dto.UpdateTicketRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ticketService.Update(ctx.Context(), userId, role, ticketId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update ticket", res))
}

func (c *ticketController) Delete(ctx *fiber.Ctx) error {
	_, role, _, err := identity(ctx)
	if err != nil {
		return err
	}

	ticketId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid ticket id")
	}

	if err := c.ticketService.Delete(ctx.Context(), role, ticketId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Ticket deleted successfully", nil))
}
