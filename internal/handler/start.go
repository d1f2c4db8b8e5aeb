package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/wowserver-ru/realmbot/internal/telegram"
)

const welcomeText = "Привет! Это бот WoWSeRVeR (set realmlist wowserver.ru), выберите действие:"

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	chatID := update.Message.Chat.ID

	keyboard := h.engine.MenuKeyboard(ctx, chatID)
	if err := tg.Send(ctx, b, chatID, welcomeText, tg.ReplyKeyboard(keyboard)); err != nil {
		slog.Error("send welcome", "error", err, "chat_id", chatID)
	}
}
