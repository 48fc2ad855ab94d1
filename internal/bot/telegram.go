package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/spend/internal/common"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the subset of *tgbotapi.BotAPI the bot uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Config holds Telegram transport settings.
type Config struct {
	Token         string
	AllowedChats  []int64
	PollTimeout   int
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns the default transport configuration.
func DefaultConfig() Config {
	return Config{
		PollTimeout:   60,
		RetryAttempts: 3,
		RetryDelay:    500 * time.Millisecond,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("%w: telegram bot token is required", common.ErrMissingConfig)
	}
	if c.PollTimeout < 0 {
		return fmt.Errorf("%w: poll timeout must not be negative", common.ErrInvalidConfig)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("%w: retry attempts must be at least 1", common.ErrInvalidConfig)
	}
	return nil
}

// Connect authenticates against the Telegram Bot API.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return api, nil
}

// Bot polls Telegram for updates and feeds them to a Conversation one at a time.
type Bot struct {
	api          API
	conversation *Conversation
	logger       *slog.Logger
	allowed      map[int64]bool
	retry        common.RetryOptions
	pollTimeout  int
}

// NewBot creates a Bot. An empty AllowedChats list admits every chat.
func NewBot(api API, conversation *Conversation, config Config, logger *slog.Logger) *Bot {
	allowed := make(map[int64]bool, len(config.AllowedChats))
	for _, id := range config.AllowedChats {
		allowed[id] = true
	}

	return &Bot{
		api:          api,
		conversation: conversation,
		logger:       common.LoggerOrDefault(logger),
		allowed:      allowed,
		pollTimeout:  config.PollTimeout,
		retry: common.RetryOptions{
			MaxAttempts:  max(config.RetryAttempts, 1),
			InitialDelay: config.RetryDelay,
			MaxDelay:     30 * time.Second,
			Multiplier:   2,
		},
	}
}

// Run drops pending updates and processes new ones until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("failed to drop pending updates: %w", err)
	}

	config := tgbotapi.NewUpdate(0)
	config.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(config)
	defer b.api.StopReceivingUpdates()

	b.logger.Info("bot is running", "poll_timeout", b.pollTimeout)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches one update. Failures are logged, never returned.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil || !b.admitted(msg.Chat.ID) {
		return
	}
	chatID := msg.Chat.ID

	replies, err := b.conversation.HandleMessage(ctx, chatID, msg.Text)
	if err != nil {
		b.logger.Error("failed to handle message", "chat_id", chatID, "error", err)
		replies = []Reply{{Text: msgWriteFailed}}
	}
	b.sendAll(ctx, chatID, msg.MessageID, replies)
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback", "callback_id", query.ID, "error", err)
	}

	if query.Message == nil || query.Message.Chat == nil || !b.admitted(query.Message.Chat.ID) {
		return
	}
	chatID := query.Message.Chat.ID

	replies, err := b.conversation.HandleCallback(ctx, chatID, query.Data)
	if err != nil {
		b.logger.Error("failed to handle callback", "chat_id", chatID, "error", err)
		return
	}
	b.sendAll(ctx, chatID, query.Message.MessageID, replies)
}

func (b *Bot) admitted(chatID int64) bool {
	if len(b.allowed) == 0 || b.allowed[chatID] {
		return true
	}
	b.logger.Warn("ignoring chat not in allow list", "chat_id", chatID)
	return false
}

func (b *Bot) sendAll(ctx context.Context, chatID int64, messageID int, replies []Reply) {
	for _, reply := range replies {
		if err := b.send(ctx, render(chatID, messageID, reply)); err != nil {
			b.logger.Error("failed to send reply", "chat_id", chatID, "error", err)
			return
		}
	}
}

func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable) error {
	return common.WithRetry(ctx, func() error {
		_, err := b.api.Send(c)
		if err == nil {
			return nil
		}
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			err = fmt.Errorf("%w: %w", common.ErrRateLimit, err)
			if apiErr.RetryAfter > 0 {
				return &common.RetryAfterError{Err: err, After: time.Duration(apiErr.RetryAfter) * time.Second}
			}
		}
		return &common.RetryableError{Err: err, Retryable: transient(err)}
	}, b.retry)
}

// transient reports whether a failed send is worth retrying. API rejections
// other than rate limiting and server faults are final.
func transient(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}

func render(chatID int64, messageID int, reply Reply) tgbotapi.Chattable {
	parseMode := ""
	if reply.Markdown {
		parseMode = tgbotapi.ModeMarkdown
	}

	if reply.Edit {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, reply.Text)
		edit.ParseMode = parseMode
		return edit
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	msg.ParseMode = parseMode
	switch reply.Keyboard {
	case KeyboardMain:
		keyboard := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(ButtonAdd)))
		keyboard.ResizeKeyboard = true
		msg.ReplyMarkup = keyboard
	case KeyboardDone:
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(ButtonDone, CallbackDone)))
	}
	return msg
}
