package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/deckshareapp/deckshare-backend/api/routes"
	"github.com/deckshareapp/deckshare-backend/internal/audit"
	"github.com/deckshareapp/deckshare-backend/internal/decks"
	"github.com/deckshareapp/deckshare-backend/internal/invites"
	"github.com/deckshareapp/deckshare-backend/internal/sharing"
	"github.com/deckshareapp/deckshare-backend/pkg/config"
	"github.com/deckshareapp/deckshare-backend/pkg/db"
	"github.com/deckshareapp/deckshare-backend/pkg/logger"
	"github.com/deckshareapp/deckshare-backend/pkg/migrate"
	"github.com/deckshareapp/deckshare-backend/pkg/outbox"
	"github.com/deckshareapp/deckshare-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	recorder := audit.NewRecorder()
	sharingRepo := sharing.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	sharingService, err := sharing.NewService(cfg.Sharing, sharingRepo, dbClient, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create sharing service", err)
		os.Exit(1)
	}

	inviteService, err := invites.NewService(cfg.Sharing, invites.NewRepository(dbClient.DB()), sharingRepo, dbClient, recorder, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create invite service", err)
		os.Exit(1)
	}

	deckService, err := decks.NewService(decks.NewRepository(dbClient.DB()), sharingRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create deck service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, deckService, sharingService, inviteService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
