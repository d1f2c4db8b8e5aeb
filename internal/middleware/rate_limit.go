package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/wowserver-ru/realmbot/internal/config"
)

type rateWindow struct {
	start time.Time
	count int
}

// limiter is a fixed-window per-chat counter. State for quiet chats is
// reclaimed lazily when their window expires.
type limiter struct {
	mu      sync.Mutex
	windows map[int64]*rateWindow
	limit   int
	window  time.Duration
}

func (l *limiter) allow(chatID int64, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[chatID]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[chatID] = &rateWindow{start: now, count: 1}
		// Opportunistic cleanup of other expired windows.
		for id, old := range l.windows {
			if now.Sub(old.start) >= l.window && id != chatID {
				delete(l.windows, id)
			}
		}
		return true
	}
	w.count++
	return w.count <= l.limit
}

// RateLimit returns middleware that enforces a per-chat message budget per
// minute, entirely in memory.
func RateLimit() bot.Middleware {
	l := &limiter{
		windows: make(map[int64]*rateWindow),
		limit:   config.RateLimitPerMinute,
		window:  config.RateLimitWindow,
	}
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !l.allow(chatID, time.Now()) {
				slog.Debug("rate limited", "chat_id", chatID)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "⏳ Слишком много запросов. Подождите немного.",
				})
				return
			}

			next(ctx, b, update)
		}
	}
}
