// Package bot implements the chat dialog for entering expenses and its Telegram transport.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spend/internal/common"
	"github.com/Veraticus/spend/internal/ledger"
	"github.com/Veraticus/spend/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Keyboard selects the markup attached to a reply.
type Keyboard int

// Keyboards.
const (
	KeyboardNone Keyboard = iota
	// KeyboardMain is the persistent reply keyboard with the add button.
	KeyboardMain
	// KeyboardDone is the inline keyboard with the done button.
	KeyboardDone
)

// Reply is one outgoing message produced by the conversation.
type Reply struct {
	Text     string
	Keyboard Keyboard
	Markdown bool
	// Edit replaces the text of the message the callback came from instead of sending a new one.
	Edit bool
}

// RecordAdder writes expense records.
type RecordAdder interface {
	AddRecord(ctx context.Context, amount float64, description string, ts time.Time) (ledger.Record, error)
}

// Conversation drives the amount, then description, dialog for each chat.
type Conversation struct {
	records  RecordAdder
	sessions service.SessionStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewConversation creates a Conversation writing through records and keeping state in sessions.
func NewConversation(records RecordAdder, sessions service.SessionStore, logger *slog.Logger) *Conversation {
	return &Conversation{
		records:  records,
		sessions: sessions,
		logger:   common.LoggerOrDefault(logger),
		now:      time.Now,
	}
}

// HandleMessage processes a text message from chatID and returns the replies to send.
// Errors are returned only when session state cannot be read or stored.
func (c *Conversation) HandleMessage(ctx context.Context, chatID int64, text string) ([]Reply, error) {
	session, err := c.load(ctx, chatID)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, "/"):
		if err := c.reset(ctx, chatID); err != nil {
			return nil, err
		}
		return []Reply{{Text: msgGreeting, Keyboard: KeyboardMain}}, nil

	case trimmed == ButtonAdd:
		session.State = service.StateAwaitAmount
		session.PendingAmount = 0
		return c.save(ctx, session, Reply{Text: msgEnterAmount})
	}

	switch session.State {
	case service.StateAwaitAmount:
		amount, err := ParseAmount(trimmed)
		if err != nil {
			return []Reply{{Text: msgBadAmount}}, nil
		}
		session.State = service.StateAwaitDescription
		session.PendingAmount = amount
		return c.save(ctx, session, Reply{Text: msgAskDescription, Markdown: true})

	case service.StateAwaitDescription:
		if trimmed == "" {
			return []Reply{{Text: msgEmptyDescription}}, nil
		}
		return c.record(ctx, session, trimmed)

	default:
		amount, err := ParseAmount(trimmed)
		if err != nil {
			return []Reply{{Text: msgNotUnderstood, Keyboard: KeyboardMain}}, nil
		}
		session.State = service.StateAwaitDescription
		session.PendingAmount = amount
		return c.save(ctx, session, Reply{Text: msgAmountAccepted})
	}
}

// HandleCallback processes an inline button press. Unknown callback data is ignored.
func (c *Conversation) HandleCallback(ctx context.Context, chatID int64, data string) ([]Reply, error) {
	if data != CallbackDone {
		return nil, nil
	}

	if err := c.reset(ctx, chatID); err != nil {
		return nil, err
	}
	return []Reply{
		{Text: msgBye, Edit: true},
		{Text: msgAddLater, Keyboard: KeyboardMain},
	}, nil
}

func (c *Conversation) record(ctx context.Context, session *service.Session, description string) ([]Reply, error) {
	amount := session.PendingAmount
	session.State = service.StateAwaitAmount
	session.PendingAmount = 0

	record, err := c.records.AddRecord(ctx, amount, description, c.now())
	if err != nil {
		c.logger.Error("failed to add record",
			"chat_id", session.ChatID,
			"amount", amount,
			"error", err)

		msg := msgWriteFailed
		if errors.Is(err, common.ErrHeaderNotFound) {
			msg = msgNoBlock
		}
		return c.save(ctx, session, Reply{Text: msg})
	}

	confirmation := fmt.Sprintf(msgRecorded,
		boldMarkdown(record.Description),
		FormatAmount(record.Amount),
		record.ID)

	return c.save(ctx, session,
		Reply{Text: confirmation, Markdown: true, Keyboard: KeyboardDone},
		Reply{Text: msgAddMore})
}

// boldMarkdown wraps s in a legacy Markdown bold entity. Text carrying markup
// characters is escaped and left plain, since escapes are not allowed inside an entity.
func boldMarkdown(s string) string {
	if strings.ContainsAny(s, "_*`[") {
		return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
	}
	return "*" + s + "*"
}

func (c *Conversation) load(ctx context.Context, chatID int64) (*service.Session, error) {
	session, err := c.sessions.LoadSession(ctx, chatID)
	if errors.Is(err, service.ErrSessionNotFound) {
		return &service.Session{ChatID: chatID, State: service.StateIdle}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

func (c *Conversation) save(ctx context.Context, session *service.Session, replies ...Reply) ([]Reply, error) {
	session.UpdatedAt = c.now()
	if err := c.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return replies, nil
}

func (c *Conversation) reset(ctx context.Context, chatID int64) error {
	if err := c.sessions.DeleteSession(ctx, chatID); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}
