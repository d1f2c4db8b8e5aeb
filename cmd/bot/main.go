package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"

	"github.com/wowserver-ru/realmbot/internal/config"
	"github.com/wowserver-ru/realmbot/internal/dialog"
	"github.com/wowserver-ru/realmbot/internal/gateway"
	"github.com/wowserver-ru/realmbot/internal/handler"
	"github.com/wowserver-ru/realmbot/internal/middleware"
	"github.com/wowserver-ru/realmbot/internal/repository"
	"github.com/wowserver-ru/realmbot/internal/service"
	"github.com/wowserver-ru/realmbot/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration (.env first, real environment wins)
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the game server's database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Initialize services
	accounts := service.NewAccountService(
		repository.NewAccounts(pool, cfg.DBTimeout),
		cfg,
	)
	console := gateway.New(gateway.Config{
		URL:      cfg.SoapURL,
		Username: cfg.SoapUser,
		Password: cfg.SoapPass,
		Timeout:  cfg.SoapTimeout,
	})

	// Handler pointer for use in the default handler closure
	var h *handler.Handler

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.RateLimit(),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil || update.Message == nil {
				return
			}
			h.HandleText(ctx, b, update)
		}),
	}
	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	// Dialogue engine with the Telegram operational log as notifier
	engine := dialog.New(dialog.Deps{
		Store:    dialog.NewMemoryStore(),
		Gateway:  console,
		Accounts: accounts,
		Notifier: telegram.NewLogger(b, cfg),
	})

	h = handler.New(handler.Deps{
		Bot:    b,
		Cfg:    cfg,
		Engine: engine,
	})
	h.Register()

	slog.Info("starting bot")
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
