package controller

import (
	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/dto"
	"helpdesk-ai-be/internal/pkg/serverutils"
	"helpdesk-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.SendChat)
	h.Get("history", c.GetHistory)
	h.Get("session", c.GetSession)
	h.Get("sessions", c.GetAllSessions)
}

// identity pulls the JWT claims the middleware stashed in locals.
func identity(ctx *fiber.Ctx) (uuid.UUID, constant.Role, string, error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, "", "", serverutils.NewApiError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	roleStr, _ := ctx.Locals("role").(string)
	role := constant.Role(roleStr)
	if !role.Valid() {
		return uuid.Nil, "", "", serverutils.NewApiError(fiber.StatusForbidden, "Unauthorized role")
	}

	sessionKey, _ := ctx.Locals("session_id").(string)
	if sessionKey == "" {
		return uuid.Nil, "", "", serverutils.NewApiError(fiber.StatusUnauthorized, "Token missing session_id")
	}

	return userId, role, sessionKey, nil
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	userId, role, sessionKey, err := identity(ctx)
	if err != nil {
		return err
	}

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.Context(), userId, role, sessionKey, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	userId, _, sessionKey, err := identity(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.GetChatHistory(ctx.Context(), userId, sessionKey)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	userId, _, sessionKey, err := identity(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.GetSession(ctx.Context(), userId, sessionKey)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *chatController) GetAllSessions(ctx *fiber.Ctx) error {
	userId, _, _, err := identity(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.GetAllSessions(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sessions", res))
}
