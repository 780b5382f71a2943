package serverutils

import (
	"strconv"

	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/pkg/logger"
	"intituas-ai-be/pkg/metrics"
	"intituas-ai-be/pkg/usage"

	"github.com/gofiber/fiber/v2"
)

// UsageKey is the authenticated user id, or the client IP for anonymous callers.
func UsageKey(ctx *fiber.Ctx) string {
	if userId := UserIdFromLocals(ctx); userId != "" {
		return "user:" + userId
	}
	return "ip:" + ctx.IP()
}

// UsageLimitMiddleware counts one generative call per request and answers
// 429 once the daily cap is spent. Run it after OptionalJwtMiddleware.
func UsageLimitMiddleware(limiter *usage.Limiter, m *metrics.Metrics, log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !limiter.Enabled() {
			return ctx.Next()
		}

		decision, err := limiter.Allow(ctx.UserContext(), UsageKey(ctx))
		if err != nil {
			log.Warn("USAGE", "Usage counter unavailable, allowing request", map[string]interface{}{"error": err.Error()})
		}

		remaining := int64(decision.Limit) - decision.Used
		if remaining < 0 {
			remaining = 0
		}
		ctx.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		ctx.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		ctx.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			if m != nil {
				m.UsageRejections.Inc()
			}
			return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponseWithData(
				fiber.StatusTooManyRequests,
				constant.UsageLimitMessage,
				dto.UsageLimitResponse{Limit: decision.Limit, Used: decision.Used, ResetAt: decision.ResetAt},
			))
		}
		return ctx.Next()
	}
}
