package handler

import (
	"context"

	"intituas-ai-be/internal/pkg/logger"
	"intituas-ai-be/internal/pkg/serverutils"
	"intituas-ai-be/internal/service"
	internalWS "intituas-ai-be/internal/websocket"
	"intituas-ai-be/pkg/usage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const localsUsageKey = "usage_key"

type ChatSocketHandler struct {
	answerService service.IAnswerService
	hub           *internalWS.Hub
	limiter       *usage.Limiter
	jwtSecret     string
	logger        logger.ILogger
}

func NewChatSocketHandler(answerService service.IAnswerService, hub *internalWS.Hub, limiter *usage.Limiter, jwtSecret string, log logger.ILogger) *ChatSocketHandler {
	return &ChatSocketHandler{
		answerService: answerService,
		hub:           hub,
		limiter:       limiter,
		jwtSecret:     jwtSecret,
		logger:        log,
	}
}

func (h *ChatSocketHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/chat/v1/ws", h.Upgrade, websocket.New(h.serve))
}

// Upgrade authenticates the handshake. Browsers cannot set headers on a
// websocket, so the token may also arrive as ?token=. A missing token means
// an anonymous socket; a bad one is rejected.
func (h *ChatSocketHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr != "" {
		userId, err := serverutils.ParseUserId(h.jwtSecret, tokenStr)
		if err != nil {
			h.logger.Warn("ChatSocket", "Invalid token in websocket handshake", map[string]interface{}{"error": err.Error()})
			return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}
		c.Locals(serverutils.LocalsUserId, userId)
	}

	c.Locals(localsUsageKey, serverutils.UsageKey(c))
	return c.Next()
}

func (h *ChatSocketHandler) serve(conn *websocket.Conn) {
	userId, _ := conn.Locals(serverutils.LocalsUserId).(string)
	usageKey, _ := conn.Locals(localsUsageKey).(string)

	allow := func(ctx context.Context) bool {
		if !h.limiter.Enabled() {
			return true
		}
		decision, err := h.limiter.Allow(ctx, usageKey)
		if err != nil {
			h.logger.Warn("ChatSocket", "Usage counter unavailable, allowing frame", map[string]interface{}{"error": err.Error()})
		}
		return decision.Allowed
	}

	h.logger.Info("ChatSocket", "Starting websocket session", map[string]interface{}{"user_id": userId})
	internalWS.NewClient(h.hub, conn, userId, h.answerService, allow).Serve()
	h.logger.Info("ChatSocket", "Websocket session ended", map[string]interface{}{"user_id": userId})
}
