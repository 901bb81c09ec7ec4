package handlers

import (
	"crypto/hmac"
	"encoding/json"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/hydroapp/hydro-backend/internal/bot"
	"github.com/hydroapp/hydro-backend/internal/config"
)

type WebhookHandler struct {
	cfg *config.Config
	bot *bot.Bot
}

func NewWebhookHandler(cfg *config.Config, b *bot.Bot) *WebhookHandler {
	return &WebhookHandler{cfg: cfg, bot: b}
}

// Telegram handles POST {WEBHOOK_PATH}: verifies the secret header when
// configured and hands the update to the bot. Replies 200 even for updates
// the bot ignores; Telegram retries anything else.
func (h *WebhookHandler) Telegram(c *fiber.Ctx) error {
	if h.cfg.WebhookSecret != "" {
		got := c.Get("X-Telegram-Bot-Api-Secret-Token")
		if !hmac.Equal([]byte(got), []byte(h.cfg.WebhookSecret)) {
			return c.SendStatus(fiber.StatusForbidden)
		}
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(c.Body(), &update); err != nil {
		slog.Error("malformed telegram update", "error", err)
		return c.SendStatus(fiber.StatusBadRequest)
	}

	h.bot.HandleUpdate(update)
	return c.SendStatus(fiber.StatusOK)
}
