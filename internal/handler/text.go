package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/wowserver-ru/realmbot/internal/telegram"
)

// HandleText feeds one private text message into the dialogue engine and
// sends the reply. Each update is already its own goroutine in go-telegram,
// so a slow SOAP or database call here only delays this chat's turn.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	msg := update.Message
	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	chatID := msg.Chat.ID
	reply := h.engine.Handle(ctx, chatID, msg.Text)
	if reply.Text == "" {
		return
	}

	if err := tg.Send(ctx, b, chatID, reply.Text, tg.ReplyKeyboard(reply.Keyboard)); err != nil {
		slog.Error("send reply", "error", err, "chat_id", chatID)
	}
}
