// Package handler adapts Telegram updates into dialogue-engine turns and
// engine replies back into messages. All conversation logic lives in
// internal/dialog; this layer only moves lines of text.
package handler

import (
	"github.com/go-telegram/bot"
	"github.com/wowserver-ru/realmbot/internal/config"
	"github.com/wowserver-ru/realmbot/internal/dialog"
)

// Handler holds all dependencies needed by update handlers.
type Handler struct {
	bot    *bot.Bot
	cfg    *config.Config
	engine *dialog.Engine
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot    *bot.Bot
	Cfg    *config.Config
	Engine *dialog.Engine
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:    deps.Bot,
		cfg:    deps.Cfg,
		engine: deps.Engine,
	}
}
