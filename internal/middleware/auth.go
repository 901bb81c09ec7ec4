package middleware

import (
	"errors"
	"strconv"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hydroapp/hydro-backend/internal/auth"
	"github.com/hydroapp/hydro-backend/internal/config"
	"github.com/hydroapp/hydro-backend/internal/dto"
	"github.com/hydroapp/hydro-backend/internal/services"
)

const tgIDKey = "tg_id"

// WebAppAuth authenticates body-carried requests: every JSON body holds
// the Telegram initData blob. A verified identity ensures the profile row
// and lands the Telegram id in locals; nothing downstream runs without it.
func WebAppAuth(cfg *config.Config, profiles *services.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			InitData string `json:"initData"`
		}
		if err := c.BodyParser(&body); err != nil {
			return unauthorized(c, "Auth failed: unreadable body")
		}

		user, err := auth.VerifyInitData(body.InitData, cfg.BotToken)
		if err != nil {
			return unauthorized(c, "Auth failed: "+err.Error())
		}

		if _, err := profiles.EnsureUser(user.ID, user.Username, user.FirstName); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to provision user",
			})
		}

		c.Locals(tgIDKey, user.ID)
		return c.Next()
	}
}

// JWTProtected guards the /api/v2 routes with the token issued by the
// initData exchange.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c, "Unauthorized: invalid or expired token")
		},
	})
}

// TelegramID resolves the authenticated Telegram id from locals (initData
// path) or JWT claims (token path).
func TelegramID(c *fiber.Ctx) (int64, error) {
	if id, ok := c.Locals(tgIDKey).(int64); ok {
		return id, nil
	}

	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return 0, errors.New("no identity in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("missing sub claim")
	}
	return strconv.ParseInt(sub, 10, 64)
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}
