package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aliskhannn/escape-room-bot/internal/config"
	"github.com/aliskhannn/escape-room-bot/internal/delivery/telegram"
	"github.com/aliskhannn/escape-room-bot/internal/infra/postgres"
	"github.com/aliskhannn/escape-room-bot/internal/infra/supabase"
	"github.com/aliskhannn/escape-room-bot/internal/logger"
	"github.com/aliskhannn/escape-room-bot/internal/repository"
	"github.com/aliskhannn/escape-room-bot/internal/service"
	"github.com/aliskhannn/escape-room-bot/internal/storage"
	"github.com/aliskhannn/escape-room-bot/internal/telemetry"
)

func main() {
	// .env is optional, real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Pick the key-value store backend.
	var store storage.Store
	switch cfg.Storage.Driver {
	case "postgres":
		dsn, err := cfg.DB.DSN()
		if err != nil {
			zlog.Fatal("database url is not configured", zap.Error(err))
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        cfg.DB.MaxConnections,
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			zlog.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()
		store = postgres.NewKVStore(pool)

	case "memory":
		store = storage.NewMemoryStore()

	default:
		fileStore, err := storage.NewFileStore(cfg.Storage.FilePath, zlog)
		if err != nil {
			zlog.Fatal("failed to open store file", zap.Error(err))
		}
		store = fileStore
	}

	// Static content catalogs.
	chapterRepo, err := repository.NewChapterRepository(cfg.Assets.ChaptersPath)
	if err != nil {
		zlog.Fatal("failed to load chapter catalog", zap.Error(err))
	}
	scriptRepo, err := repository.NewScriptRepository(cfg.Assets.ScriptsPath)
	if err != nil {
		zlog.Fatal("failed to load chatbot scripts", zap.Error(err))
	}

	playerRepo := repository.NewPlayerRepository(store, zlog)

	// Optional cloud mirror.
	var remote service.RemoteSync
	if cfg.Cloud.Enabled {
		client, err := supabase.New(cfg.Cloud.URL, cfg.Cloud.Key, zlog)
		if err != nil {
			zlog.Fatal("failed to connect to supabase", zap.Error(err))
		}
		remote = client
	}

	authService := service.NewAuthService(playerRepo, remote, cfg.Cloud.EnforceUniqueNickname, zlog)
	chapterService := service.NewChapterService(chapterRepo, authService, zlog)
	conversationService := service.NewConversationService(authService, zlog)
	chatbotService := service.NewChatbotService(scriptRepo)

	if remote != nil {
		mirror := service.NewMirrorService(playerRepo, remote, cfg.Cloud.MirrorSchedule, zlog)
		go mirror.Start(ctx)
	}

	var reporter telemetry.Reporter = telemetry.NoopReporter{}
	if cfg.Discord.WebhookURL != "" {
		reporter = telemetry.NewDiscordReporter(cfg.Discord.WebhookURL, zlog)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zlog.Fatal("failed to create telegram bot", zap.Error(err))
	}

	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the game"},
		{Command: "login", Description: "Log in: /login <nickname> [pin]"},
		{Command: "chapters", Description: "List chapters"},
		{Command: "play", Description: "Open a chapter: /play <n>"},
		{Command: "complete", Description: "Mark the open chapter as completed"},
		{Command: "reset", Description: "Restart a chapter conversation"},
		{Command: "profile", Description: "Show your progress"},
		{Command: "logout", Description: "Log out"},
		{Command: "delete", Description: "Delete your account"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zlog.Warn("failed to set bot commands", zap.Error(err))
	}

	zlog.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	handler := telegram.NewHandler(
		bot,
		zlog,
		reporter,
		authService,
		chapterService,
		conversationService,
		chatbotService,
	)
	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		zlog.Fatal("handler stopped", zap.Error(err))
	}

	zlog.Info("shutdown signal received")
}
