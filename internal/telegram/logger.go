package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/wowserver-ru/realmbot/internal/config"
)

// Logger posts operational events to a configured Telegram log chat. With no
// chat configured every call is a no-op, so it can always be wired in.
type Logger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewLogger(b *bot.Bot, cfg *config.Config) *Logger {
	return &Logger{bot: b, cfg: cfg}
}

func (l *Logger) post(topicID int, message string) {
	if l.cfg.LogTelegramChatID == 0 || topicID == 0 {
		return
	}

	if len([]rune(message)) > MaxMessageLen {
		message = string([]rune(message)[:MaxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to post telegram log", "error", err)
	}
}

// NotifyError reports a gateway or datastore fault. op is an operation name,
// never raw command text: command arguments may carry credentials.
func (l *Logger) NotifyError(err error, op string) {
	l.post(l.cfg.LogTopicError, fmt.Sprintf("❌ Ошибка\n\nОперация: %s\nОшибка: %s\nВремя: %s",
		op, err.Error(), time.Now().Format("2006-01-02 15:04:05")))
}

// NotifyRegistration reports a freshly created game account.
func (l *Logger) NotifyRegistration(sessionID int64, login string) {
	l.post(l.cfg.LogTopicRegistration, fmt.Sprintf("👤 Новый аккаунт\n\nChat: %d\nЛогин: %s",
		sessionID, login))
}
