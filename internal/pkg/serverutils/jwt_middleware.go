package serverutils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const LocalsUserId = "user_id"

var ErrInvalidToken = errors.New("invalid token")

// IssueToken signs an HS256 token carrying the user id.
func IssueToken(secret, userId string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseUserId validates a token and returns its user_id claim.
func ParseUserId(secret, tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userId, ok := claims["user_id"].(string)
	if !ok || userId == "" {
		return "", ErrInvalidToken
	}
	return userId, nil
}

func bearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}
	return authHeader[7:]
}

// JwtMiddleware rejects requests without a valid bearer token.
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := bearerToken(ctx)
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		userId, err := ParseUserId(secret, tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		ctx.Locals(LocalsUserId, userId)
		return ctx.Next()
	}
}

// OptionalJwtMiddleware sets user_id when a valid token is present and never rejects.
func OptionalJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if tokenStr := bearerToken(ctx); tokenStr != "" {
			if userId, err := ParseUserId(secret, tokenStr); err == nil {
				ctx.Locals(LocalsUserId, userId)
			}
		}
		return ctx.Next()
	}
}

// UserIdFromLocals returns the authenticated user id or "".
func UserIdFromLocals(ctx *fiber.Ctx) string {
	userId, _ := ctx.Locals(LocalsUserId).(string)
	return userId
}
