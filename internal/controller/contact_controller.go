package controller

import (
	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/pkg/serverutils"
	"intituas-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IContactController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
}

type contactController struct {
	service service.IContactService
}

func NewContactController(service service.IContactService) IContactController {
	return &contactController{service: service}
}

func (c *contactController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/contact/v1")
	h.Post("/", c.Submit)
}

func (c *contactController) Submit(ctx *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res := c.service.Submit(ctx.UserContext(), &req)
	if !res.Success {
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			serverutils.ErrorResponseWithData(fiber.StatusInternalServerError, res.Message, res),
		)
	}
	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}
