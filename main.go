package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orbitalbot/dashboard/backend"
	"github.com/orbitalbot/dashboard/backend/config"
	"github.com/orbitalbot/dashboard/backend/handlers"
	webservices "github.com/orbitalbot/dashboard/backend/services"
	"github.com/orbitalbot/dashboard/internal/common/clock"
	"github.com/orbitalbot/dashboard/internal/common/ids"
	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/domain/bot"
	"github.com/orbitalbot/dashboard/internal/domain/commands"
	"github.com/orbitalbot/dashboard/internal/domain/servers"
	"github.com/orbitalbot/dashboard/internal/domain/settings"
	"github.com/orbitalbot/dashboard/internal/domain/stats"
	"github.com/orbitalbot/dashboard/internal/gateways/discord"
	"github.com/orbitalbot/dashboard/internal/gateways/memory"
	"github.com/orbitalbot/dashboard/internal/gateways/sessions"
	"github.com/orbitalbot/dashboard/internal/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

const sessionPruneInterval = time.Hour

func main() {
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	level := new(slog.LevelVar)
	slog.SetDefault(slog.New(logger.NewHandler("OrbitalBot", os.Stdout, level)))

	cfg, err := config.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	level.Set(cfg.Log.Level)

	slog.Info("Starting OrbitalBot dashboard",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("environment", cfg.Web.Environment))

	if err = cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", slog.String("type", "sys"), slog.Any("error", err))
		os.Exit(-1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.DefaultClock{}
	gen := ids.New()

	store := memory.NewStore()
	if cfg.Store.SeedDemoData {
		store.Seed(clk.Now())
		slog.Info("Loaded demo data", slog.String("type", "sys"))
	}

	discordClient := discord.NewRestClient(discord.Config{Timeout: cfg.Discord.Timeout.Duration})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		discordClient.Close(closeCtx)
	}()

	activityService := activity.NewService(store, clk, gen)
	serverService := servers.NewService(store, discordClient, activityService, clk)
	commandService := commands.NewService(store, discordClient, activityService, clk, gen)
	settingsService := settings.NewService(store, activityService)
	botService := bot.NewService(bot.NewRegistry(), discordClient, store, activityService)
	statsService := stats.NewService(store, serverService, activityService, clk)

	if cfg.Discord.BotToken != "" {
		bootCtx, cancel := context.WithTimeout(ctx, cfg.Discord.Timeout.Duration)
		if err = botService.Bootstrap(bootCtx, cfg.Discord.BotToken); err != nil {
			logger.LogError("Configured bot token was rejected, waiting for one from the dashboard", err)
		}
		cancel()
	}

	sessionStorage, closeSessions, err := newSessionStorage(ctx, cfg, clk)
	if err != nil {
		slog.Error("Failed to set up session storage", slog.String("type", "sys"), slog.Any("error", err))
		os.Exit(-1)
	}
	defer closeSessions()

	webCfg := config.NewWebAppConfig(cfg, version)
	webApp := &handlers.WebApp{
		Config:         webCfg,
		OAuthService:   webservices.NewOAuthService(webCfg),
		SessionService: webservices.NewSessionService(webCfg, sessionStorage, clk),
		SessionStorage: sessionStorage,
		Commands:       commandService,
		Servers:        serverService,
		Activity:       activityService,
		Settings:       settingsService,
		Bot:            botService,
		Stats:          statsService,
		Version:        version,
		Commit:         commit,
	}
	app := backend.NewApp(webApp)

	address := cfg.Addr()
	go func() {
		slog.Info("Starting HTTP server", slog.String("type", "sys"), slog.String("address", address))
		if err := app.Listen(address); err != nil {
			slog.Error("Failed to start server", slog.String("type", "sys"), slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down HTTP server...", slog.String("type", "sys"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err = app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.String("type", "sys"), slog.Any("error", err))
	}

	slog.Info("Shutdown complete", slog.String("type", "sys"))
}

// newSessionStorage picks the configured session backend. The returned func
// releases it.
func newSessionStorage(ctx context.Context, cfg *config.Config, clk clock.Clock) (sessions.Storage, func(), error) {
	switch cfg.Sessions.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Sessions.RedisAddr,
			Password: cfg.Sessions.RedisPassword,
			DB:       cfg.Sessions.RedisDB,
		})
		storage, err := sessions.NewRedis(&sessions.Config{
			RedisClient: client,
			KeyPrefix:   cfg.Sessions.KeyPrefix,
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		slog.Info("Using Redis session storage", slog.String("type", "sys"), slog.String("addr", cfg.Sessions.RedisAddr))
		return storage, func() { _ = client.Close() }, nil
	case "memory":
		storage := sessions.NewMemory(clk)
		go storage.RunJanitor(ctx, sessionPruneInterval)
		return storage, func() {}, nil
	default:
		return nil, nil, errors.New("unknown session backend " + cfg.Sessions.Backend)
	}
}
