package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hydroapp/hydro-backend/internal/services"
)

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	user, err := b.profiles.EnsureUser(msg.From.ID, msg.From.UserName, msg.From.FirstName)
	if err != nil {
		slog.Error("failed to ensure user", "error", err, "tg_id", msg.From.ID)
		b.reply(msg.Chat.ID, "Something went wrong, try again later.", nil)
		return
	}

	switch msg.Command() {
	case "start":
		b.handleStart(msg, user.WeightKg)
	case "help":
		b.handleHelp(msg)
	case "setweight":
		b.handleSetWeight(msg)
	case "setfactor":
		b.handleSetFactor(msg)
	case "stats":
		b.handleStats(msg)
	case "water":
		b.reply(msg.Chat.ID, "Open the Mini App:", b.webappKeyboard())
	case "cancel":
		b.clearAwaiting(msg.Chat.ID)
		b.reply(msg.Chat.ID, "Cancelled. You can always /start again.", nil)
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message, weightKg *int) {
	if weightKg == nil {
		b.setAwaiting(msg.Chat.ID)
		b.reply(msg.Chat.ID,
			"Hi! I'm Hydro 💧\n\nTo calculate your daily water goal, send me your weight in kg (for example: 70).",
			nil)
		return
	}

	b.clearAwaiting(msg.Chat.ID)
	profile, err := b.profiles.GetProfile(msg.From.ID)
	if err != nil {
		slog.Error("failed to load profile", "error", err, "tg_id", msg.From.ID)
		return
	}
	goal := services.GoalInEffect(profile)
	b.reply(msg.Chat.ID,
		fmt.Sprintf("All set ✅\nYour goal: %d kg × %d ml = %d ml/day.\n\nOpen the Mini App below:",
			*weightKg, profile.MlPerKg, goal),
		b.webappKeyboard())
}

// handleWeightInput consumes the free-text reply after /start asked for a
// weight.
func (b *Bot) handleWeightInput(msg *tgbotapi.Message) {
	w, err := strconv.Atoi(strings.TrimSpace(msg.Text))
	if err != nil {
		b.reply(msg.Chat.ID, "Please send your weight as a number from 20 to 300 (for example 70).", nil)
		return
	}

	user, err := b.profiles.SetWeight(msg.From.ID, w)
	if err != nil {
		if errors.Is(err, services.ErrWeightOutOfRange) {
			b.reply(msg.Chat.ID, "Please send your weight as a number from 20 to 300 (for example 70).", nil)
			return
		}
		slog.Error("failed to set weight", "error", err, "tg_id", msg.From.ID)
		b.reply(msg.Chat.ID, "Something went wrong, try again later.", nil)
		return
	}

	b.clearAwaiting(msg.Chat.ID)
	b.reply(msg.Chat.ID,
		fmt.Sprintf("Got it: %d kg.\nGoal: %d × %d = %d ml/day.\n\nOpen the Mini App:",
			w, w, user.MlPerKg, services.GoalInEffect(user)),
		b.webappKeyboard())
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	b.reply(msg.Chat.ID,
		"Commands:\n"+
			"/start — set up your weight\n"+
			"/setweight 70 — change weight\n"+
			"/setfactor 33 — ml per kg, 30..35\n"+
			"/stats — today's intake (UTC)\n"+
			"/water — open the Mini App",
		nil)
}

func (b *Bot) handleSetWeight(msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		b.reply(msg.Chat.ID, "Usage: /setweight 70", nil)
		return
	}
	w, err := strconv.Atoi(arg)
	if err != nil {
		b.reply(msg.Chat.ID, "Weight must be a number 20..300. Example: /setweight 70", nil)
		return
	}

	user, err := b.profiles.SetWeight(msg.From.ID, w)
	if err != nil {
		if errors.Is(err, services.ErrWeightOutOfRange) {
			b.reply(msg.Chat.ID, "Weight must be a number 20..300. Example: /setweight 70", nil)
			return
		}
		slog.Error("failed to set weight", "error", err, "tg_id", msg.From.ID)
		return
	}
	b.reply(msg.Chat.ID,
		fmt.Sprintf("Updated ✅\nGoal: %d × %d = %d ml/day.", w, user.MlPerKg, services.GoalInEffect(user)),
		b.webappKeyboard())
}

func (b *Bot) handleSetFactor(msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		b.reply(msg.Chat.ID, "Usage: /setfactor 30..35 (for example /setfactor 33)", nil)
		return
	}
	k, err := strconv.Atoi(arg)
	if err != nil {
		b.reply(msg.Chat.ID, "Factor must be 30..35. Example: /setfactor 33", nil)
		return
	}

	user, err := b.profiles.SetFactor(msg.From.ID, k)
	if err != nil {
		if errors.Is(err, services.ErrFactorOutOfRange) {
			b.reply(msg.Chat.ID, "Factor must be 30..35. Example: /setfactor 33", nil)
			return
		}
		slog.Error("failed to set factor", "error", err, "tg_id", msg.From.ID)
		return
	}

	if user.WeightKg == nil {
		b.reply(msg.Chat.ID,
			fmt.Sprintf("Factor set to %d ml/kg ✅\nNow set your weight: /setweight 70", k),
			nil)
		return
	}
	b.reply(msg.Chat.ID,
		fmt.Sprintf("Done ✅\nNew goal: %d × %d = %d ml/day.",
			*user.WeightKg, k, services.GoalInEffect(user)),
		b.webappKeyboard())
}

// handleStats reports today's total against the goal. The bot has no
// browser to ask for a timezone, so it uses UTC days.
func (b *Bot) handleStats(msg *tgbotapi.Message) {
	today := services.LocalDateFor(time.Now(), 0)
	total, err := b.intake.SumForDay(msg.From.ID, today)
	if err != nil {
		slog.Error("failed to sum intake", "error", err, "tg_id", msg.From.ID)
		return
	}
	profile, err := b.profiles.GetProfile(msg.From.ID)
	if err != nil {
		slog.Error("failed to load profile", "error", err, "tg_id", msg.From.ID)
		return
	}
	b.reply(msg.Chat.ID,
		fmt.Sprintf("Today (UTC): %d ml of %d ml.", total, services.GoalInEffect(profile)),
		b.webappKeyboard())
}

func (b *Bot) setAwaiting(chatID int64) {
	b.mu.Lock()
	b.awaitingWeight[chatID] = true
	b.mu.Unlock()
}

func (b *Bot) clearAwaiting(chatID int64) {
	b.mu.Lock()
	delete(b.awaitingWeight, chatID)
	b.mu.Unlock()
}
