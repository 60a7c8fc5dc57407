package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobtracker/internal/model"
)

const (
	cmdJob    = "job"
	cmdSave   = "save"
	cmdUnsave = "unsave"
)

// jobKeyboard builds the save toggle and status buttons shown under a job.
// Status buttons carry the status itself as the callback action.
func jobKeyboard(id int, saved bool, current model.Status) tgbotapi.InlineKeyboardMarkup {
	save := tgbotapi.NewInlineKeyboardButtonData("Save", fmt.Sprintf("%s:%d", cmdSave, id))
	if saved {
		save = tgbotapi.NewInlineKeyboardButtonData("Unsave", fmt.Sprintf("%s:%d", cmdUnsave, id))
	}

	var statusRow []tgbotapi.InlineKeyboardButton
	for _, st := range model.Statuses {
		label := st.Label()
		if st == current {
			label = "✓ " + label
		}
		statusRow = append(statusRow, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s:%d", st, id)))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(save),
		statusRow,
	)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	chatID := cb.Message.Chat.ID

	callback := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Send(callback); err != nil {
		b.log.Error("send callback ack", "error", err)
	}

	action, idStr, ok := strings.Cut(data, ":")
	if !ok {
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return
	}

	var userID int64
	var username string
	if cb.From != nil {
		userID, username = cb.From.ID, cb.From.UserName
	}
	b.log.Info("callback",
		"action", action,
		"id", id,
		"chat_id", chatID,
		"user_id", userID,
		"username", username,
	)

	switch action {
	case cmdJob:
		b.handleJob(ctx, chatID, idStr)
	case cmdSave:
		b.handleSave(ctx, chatID, idStr)
	case cmdUnsave:
		b.handleUnsave(ctx, chatID, idStr)
	default:
		st, err := model.ParseStatus(action)
		if err != nil {
			return
		}
		b.setStatus(ctx, chatID, id, st)
	}
}
