package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/oggyb/mysticmatch/internal/app"
	"github.com/oggyb/mysticmatch/internal/bot"
	"github.com/oggyb/mysticmatch/internal/cache"
	"github.com/oggyb/mysticmatch/internal/config"
	"github.com/oggyb/mysticmatch/internal/db"
	"github.com/oggyb/mysticmatch/internal/logger"
	"github.com/oggyb/mysticmatch/internal/server"
	"github.com/oggyb/mysticmatch/internal/service/admin"
	"github.com/oggyb/mysticmatch/internal/session"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}

	sessions, err := session.New(cfg.Session.Backend, redisCache, session.TTLs{
		Registration: cfg.Session.RegistrationTTL,
		Chat:         cfg.Session.ChatTTL,
	})
	if err != nil {
		log.Error("failed to init sessions", "err", err)
		os.Exit(1)
	}

	appCtx := app.New(cfg, database, redisCache, sessions, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	client, err := bot.NewClient(cfg.Bot.Token, cfg.Bot.PollTimeout, cfg.Bot.Debug, log)
	if err != nil {
		log.Error("failed to init telegram client", "err", err)
		os.Exit(1)
	}
	router := bot.NewRouter(appCtx, client)
	dispatcher := bot.NewDispatcher(cfg.Bot.Workers, router.Handle, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatcher.Run(ctx) })
	g.Go(func() error { return client.Start(ctx, dispatcher.Dispatch) })
	g.Go(func() error {
		log.Info("starting gRPC server", "host", cfg.GRPC.Host, "port", cfg.GRPC.Port)
		return server.StartGRPCServer(ctx, cfg, admin.NewRegistrar(appCtx))
	})
	g.Go(func() error {
		return server.StartHTTPServer(ctx, cfg.HTTP.Addr, server.NewHTTPHandler(appCtx))
	})

	if err := g.Wait(); err != nil {
		log.Error("shutting down", "err", err)
		os.Exit(1)
	}
	log.Info("bye")
}
