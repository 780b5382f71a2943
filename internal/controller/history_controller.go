package controller

import (
	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/pkg/serverutils"
	"intituas-ai-be/internal/repository/contract"
	"intituas-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHistoryController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	ListRecent(ctx *fiber.Ctx) error
}

type historyController struct {
	store contract.HistoryStore
}

func NewHistoryController(store contract.HistoryStore) IHistoryController {
	return &historyController{store: store}
}

func (c *historyController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/history/v1")
	h.Get("/", auth, c.ListRecent)
}

func (c *historyController) ListRecent(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", constant.HistoryRetention)

	entries, err := c.store.ListRecent(ctx.UserContext(), serverutils.UserIdFromLocals(ctx), limit)
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(
			serverutils.ErrorResponse(fiber.StatusServiceUnavailable, constant.HistoryUnavailableMessage),
		)
	}
	return ctx.JSON(serverutils.SuccessResponse("Search history", service.ToHistoryResponses(entries)))
}
