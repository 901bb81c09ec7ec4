package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hydroapp/hydro-backend/internal/config"
	"github.com/hydroapp/hydro-backend/internal/dto"
	"github.com/hydroapp/hydro-backend/internal/middleware"
)

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// Token handles POST /api/auth/token: the WebAppAuth middleware has already
// verified initData, so this only mints a short-lived access token for the
// GET endpoints where a body is not natural.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	tgID, err := middleware.TelegramID(c)
	if err != nil {
		return unauthorized(c)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(tgID, 10),
		"iat": now.Unix(),
		"exp": now.Add(h.cfg.JWTAccessExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		return serverError(c, "Failed to issue token")
	}

	return c.JSON(dto.TokenResponse{
		AccessToken: signed,
		ExpiresIn:   int(h.cfg.JWTAccessExpiry.Seconds()),
	})
}
