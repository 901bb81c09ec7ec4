package bot

import (
	"encoding/json"
	"testing"

	"github.com/hydroapp/hydro-backend/internal/config"
)

func testBot() *Bot {
	return &Bot{
		cfg: &config.Config{
			WebAppURL:     "https://hydro.example",
			WebhookPath:   "/telegram/webhook",
			WebhookSecret: "s3cret",
		},
		awaitingWeight: make(map[int64]bool),
	}
}

func TestWebhookParams(t *testing.T) {
	params := testBot().webhookParams()

	if got := params["url"]; got != "https://hydro.example/telegram/webhook" {
		t.Errorf("url = %q, want app url + webhook path", got)
	}
	if got := params["secret_token"]; got != "s3cret" {
		t.Errorf("secret_token = %q, want s3cret", got)
	}
	if got := params["drop_pending_updates"]; got != "true" {
		t.Errorf("drop_pending_updates = %q, want true", got)
	}
}

func TestWebhookParamsOmitsEmptySecret(t *testing.T) {
	b := testBot()
	b.cfg.WebhookSecret = ""

	params := b.webhookParams()
	if _, ok := params["secret_token"]; ok {
		t.Error("secret_token present, want omitted when unset")
	}
}

func TestWebAppKeyboardMarkup(t *testing.T) {
	raw, err := json.Marshal(testBot().webappKeyboard())
	if err != nil {
		t.Fatalf("marshal keyboard: %v", err)
	}

	var markup struct {
		InlineKeyboard [][]struct {
			Text   string `json:"text"`
			WebApp struct {
				URL string `json:"url"`
			} `json:"web_app"`
		} `json:"inline_keyboard"`
	}
	if err := json.Unmarshal(raw, &markup); err != nil {
		t.Fatalf("unmarshal markup: %v", err)
	}
	if len(markup.InlineKeyboard) != 1 || len(markup.InlineKeyboard[0]) != 1 {
		t.Fatalf("keyboard shape = %s, want one row with one button", raw)
	}
	button := markup.InlineKeyboard[0][0]
	if button.WebApp.URL != "https://hydro.example/" {
		t.Errorf("web_app.url = %q, want app url", button.WebApp.URL)
	}
	if button.Text == "" {
		t.Error("button text empty")
	}
}
