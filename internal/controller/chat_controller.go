package controller

import (
	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/pkg/serverutils"
	"intituas-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, middlewares ...fiber.Handler)
	Answer(ctx *fiber.Ctx) error
	Suggestions(ctx *fiber.Ctx) error
	MindMap(ctx *fiber.Ctx) error
}

type chatController struct {
	answerService     service.IAnswerService
	suggestionService service.ISuggestionService
	mindMapService    service.IMindMapService
}

func NewChatController(
	answerService service.IAnswerService,
	suggestionService service.ISuggestionService,
	mindMapService service.IMindMapService,
) IChatController {
	return &chatController{
		answerService:     answerService,
		suggestionService: suggestionService,
		mindMapService:    mindMapService,
	}
}

// RegisterRoutes mounts the generative endpoints behind the given
// middlewares (optional auth, usage limit). The body is bound and validated
// ahead of them so a rejected request never counts against the allowance.
func (c *chatController) RegisterRoutes(r fiber.Router, middlewares ...fiber.Handler) {
	h := r.Group("/chat/v1")
	h.Post("/answer", chain(bindBody[dto.AnswerRequest](false), middlewares, c.Answer)...)
	h.Post("/suggestions", chain(bindBody[dto.SuggestionRequest](true), middlewares, c.Suggestions)...)
	h.Post("/mind-map", chain(bindBody[dto.MindMapRequest](false), middlewares, c.MindMap)...)
}

func chain(binder fiber.Handler, middlewares []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(middlewares)+2)
	handlers = append(handlers, binder)
	handlers = append(handlers, middlewares...)
	return append(handlers, handler)
}

const requestBodyKey = "requestBody"

// bindBody parses and validates T into the request locals. An optional body
// may be empty.
func bindBody[T any](optional bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		req, err := readBody[T](ctx, optional)
		if err != nil {
			return err
		}
		ctx.Locals(requestBodyKey, req)
		return ctx.Next()
	}
}

// requestBody returns the body bound by bindBody, parsing it when the
// handler is mounted without one.
func requestBody[T any](ctx *fiber.Ctx, optional bool) (*T, error) {
	if req, ok := ctx.Locals(requestBodyKey).(*T); ok {
		return req, nil
	}
	return readBody[T](ctx, optional)
}

func readBody[T any](ctx *fiber.Ctx, optional bool) (*T, error) {
	req := new(T)
	if optional && len(ctx.Body()) == 0 {
		return req, nil
	}
	if err := parseBody(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(out)
}

func (c *chatController) Answer(ctx *fiber.Ctx) error {
	req, err := requestBody[dto.AnswerRequest](ctx, false)
	if err != nil {
		return err
	}
	req.UserId = serverutils.UserIdFromLocals(ctx)

	res := c.answerService.Answer(ctx.UserContext(), *req)
	if res.Failed() {
		return ctx.Status(fiber.StatusBadGateway).JSON(
			serverutils.ErrorResponseWithData(fiber.StatusBadGateway, res.Error, res),
		)
	}
	return ctx.JSON(serverutils.SuccessResponse("Answer generated", res))
}

func (c *chatController) Suggestions(ctx *fiber.Ctx) error {
	req, err := requestBody[dto.SuggestionRequest](ctx, true)
	if err != nil {
		return err
	}

	res := c.suggestionService.Suggestions(ctx.UserContext(), req.DocumentContent)
	if res.Failed() {
		return ctx.Status(fiber.StatusBadGateway).JSON(
			serverutils.ErrorResponseWithData(fiber.StatusBadGateway, res.Error, res),
		)
	}
	return ctx.JSON(serverutils.SuccessResponse("Suggestions generated", res))
}

func (c *chatController) MindMap(ctx *fiber.Ctx) error {
	req, err := requestBody[dto.MindMapRequest](ctx, false)
	if err != nil {
		return err
	}

	res := c.mindMapService.MindMap(ctx.UserContext(), req.DocumentContent)
	if res.Failed() {
		return ctx.Status(fiber.StatusBadGateway).JSON(
			serverutils.ErrorResponseWithData(fiber.StatusBadGateway, res.Error, res),
		)
	}
	return ctx.JSON(serverutils.SuccessResponse("Mind map generated", res))
}
