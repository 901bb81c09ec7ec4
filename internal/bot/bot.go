package bot

import (
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hydroapp/hydro-backend/internal/config"
	"github.com/hydroapp/hydro-backend/internal/services"
)

// Bot handles webhook-delivered Telegram updates. It keeps one piece of
// conversational state in memory: which chats were just asked for a weight
// after /start. Losing that map on restart only costs the user a retyped
// /start, so it is not persisted.
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	profiles *services.ProfileService
	intake   *services.IntakeService

	mu             sync.Mutex
	awaitingWeight map[int64]bool
}

func New(cfg *config.Config, profiles *services.ProfileService, intake *services.IntakeService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}
	return &Bot{
		api:            api,
		cfg:            cfg,
		profiles:       profiles,
		intake:         intake,
		awaitingWeight: make(map[int64]bool),
	}, nil
}

// SetWebhook points Telegram at this deployment's webhook endpoint. The
// request is built from raw params because secret_token is a Bot API 6.0
// field the library's typed WebhookConfig predates.
func (b *Bot) SetWebhook() error {
	if _, err := b.api.MakeRequest("setWebhook", b.webhookParams()); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	slog.Info("telegram webhook set", "path", b.cfg.WebhookPath)
	return nil
}

func (b *Bot) webhookParams() tgbotapi.Params {
	params := tgbotapi.Params{"url": b.cfg.WebAppURL + b.cfg.WebhookPath}
	params.AddNonEmpty("secret_token", b.cfg.WebhookSecret)
	params.AddBool("drop_pending_updates", true)
	return params
}

// HandleUpdate dispatches one webhook update.
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	b.mu.Lock()
	awaiting := b.awaitingWeight[msg.Chat.ID]
	b.mu.Unlock()
	if awaiting {
		b.handleWeightInput(msg)
	}
}

func (b *Bot) reply(chatID int64, text string, keyboard *webAppKeyboard) {
	out := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		out.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(out); err != nil {
		slog.Error("failed to send telegram message", "error", err, "chat_id", chatID)
	}
}

// web_app buttons are a Bot API 6.0 addition the library's typed keyboard
// predates; the reply markup is plain JSON on the wire, so the button is
// declared locally.
type webAppInfo struct {
	URL string `json:"url"`
}

type webAppButton struct {
	Text   string     `json:"text"`
	WebApp webAppInfo `json:"web_app"`
}

type webAppKeyboard struct {
	InlineKeyboard [][]webAppButton `json:"inline_keyboard"`
}

func (b *Bot) webappKeyboard() *webAppKeyboard {
	return &webAppKeyboard{
		InlineKeyboard: [][]webAppButton{{{
			Text:   "💧 Open Hydro",
			WebApp: webAppInfo{URL: b.cfg.WebAppURL + "/"},
		}}},
	}
}
