package controller

import (
	"diacare-bot/internal/dto"
	"diacare-bot/internal/pkg/serverutils"
	"diacare-bot/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	HandleEvent(ctx *fiber.Ctx) error
}

type webhookController struct {
	service service.IAssistantService
}

func NewWebhookController(service service.IAssistantService) IWebhookController {
	return &webhookController{service: service}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook/v1")
	h.Post("", c.HandleEvent)
}

func (c *webhookController) HandleEvent(ctx *fiber.Ctx) error {
	var req dto.Event
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	replies, err := c.service.Handle(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Event handled", dto.HandleEventResponse{Replies: replies}))
}
