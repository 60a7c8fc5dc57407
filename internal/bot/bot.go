// Package bot exposes the job tracker over a Telegram chat.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobtracker/internal/config"
	"jobtracker/internal/digest"
	"jobtracker/internal/model"
	"jobtracker/internal/prefs"
	"jobtracker/internal/saved"
	"jobtracker/internal/status"
	"jobtracker/internal/storage"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram bot that answers job tracker commands. All chats share
// one store, so access is meant to be limited to a single user through the
// allow list.
type Bot struct {
	api    telegramAPI
	prefs  *prefs.Store
	status *status.Tracker
	saved  *saved.Set
	digest *digest.Service
	jobs   []model.Job
	cfg    *config.Config
	log    *slog.Logger
}

// New creates a Bot with the given Telegram token, store, dataset and config.
func New(token string, store storage.Store, jobs []model.Job, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return newBot(api, store, jobs, cfg, log), nil
}

func newBot(api telegramAPI, store storage.Store, jobs []model.Job, cfg *config.Config, log *slog.Logger) *Bot {
	return &Bot{
		api:    api,
		prefs:  prefs.New(store, log),
		status: status.New(store, log),
		saved:  saved.New(store, log),
		digest: digest.New(store, log),
		jobs:   jobs,
		cfg:    cfg,
		log:    log,
	}
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.CallbackQuery != nil {
				if !b.cfg.IsUserAllowed(update.CallbackQuery.From.ID) {
					continue
				}
				b.handleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if !b.cfg.IsUserAllowed(update.Message.From.ID) {
				b.reply(update.Message.Chat.ID, "Access denied.")
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

// SendMessage sends a text message to the given chat.
func (b *Bot) SendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.SendMessage(chatID, text)
}

func (b *Bot) replyWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(ctx, chatID)
	case "help":
		b.handleHelp(chatID)
	case "jobs":
		b.handleJobs(ctx, chatID, args)
	case cmdJob:
		b.handleJob(ctx, chatID, args)
	case "prefs":
		b.handlePrefs(ctx, chatID)
	case "setprefs":
		b.handleSetPrefs(ctx, chatID, args)
	case "clearprefs":
		b.handleClearPrefs(ctx, chatID)
	case cmdSave:
		b.handleSave(ctx, chatID, args)
	case cmdUnsave:
		b.handleUnsave(ctx, chatID, args)
	case "saved":
		b.handleSaved(ctx, chatID)
	case "status":
		b.handleStatus(ctx, chatID, args)
	case "history":
		b.handleHistory(ctx, chatID)
	case "clearstatuses":
		b.handleClearStatuses(ctx, chatID)
	case "digest":
		b.handleDigest(ctx, chatID)
	case "digestmail":
		b.handleDigestMail(ctx, chatID)
	case "facets":
		b.handleFacets(chatID)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}

// wait pauses for d, returning false if ctx ends first.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
