package controller

import (
	"errors"

	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/pkg/serverutils"
	"intituas-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Dashboard(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/auth/v1")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Get("/dashboard", auth, c.Dashboard)
}

func authError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(fiber.StatusConflict, err.Error()))
	case errors.Is(err, service.ErrPasswordTooLong):
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, err.Error()))
	case errors.Is(err, service.ErrUserNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, err.Error()))
	default:
		return err
	}
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return authError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(&serverutils.Response[*dto.RegisterResponse]{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "User registered successfully",
		Data:    res,
	})
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return authError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) Dashboard(ctx *fiber.Ctx) error {
	res, err := c.service.Dashboard(ctx.UserContext(), serverutils.UserIdFromLocals(ctx))
	if err != nil {
		return authError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard", res))
}
