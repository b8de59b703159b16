package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/smartflow-systems/SFS-Backend/internal/api"
	"github.com/smartflow-systems/SFS-Backend/internal/auth"
	authpg "github.com/smartflow-systems/SFS-Backend/internal/auth/pgstore"
	"github.com/smartflow-systems/SFS-Backend/internal/config"
	"github.com/smartflow-systems/SFS-Backend/internal/cookie"
	"github.com/smartflow-systems/SFS-Backend/internal/database/pg"
	"github.com/smartflow-systems/SFS-Backend/internal/database/redis"
	"github.com/smartflow-systems/SFS-Backend/internal/logger"
	"github.com/smartflow-systems/SFS-Backend/internal/server"
	"github.com/smartflow-systems/SFS-Backend/internal/session"
	sessionpg "github.com/smartflow-systems/SFS-Backend/internal/session/pgstore"
	sessionredis "github.com/smartflow-systems/SFS-Backend/internal/session/redisstore"
	"github.com/smartflow-systems/SFS-Backend/internal/webapp"
)

// devSessionSecret keeps local development working without a .env file.
// Production refuses to start without a real secret.
const devSessionSecret = "insecure-dev-secret-do-not-use-in-prod"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg config.App
	config.MustLoad(&cfg)

	var log *slog.Logger
	if cfg.IsProduction() {
		log = logger.New(logger.WithProduction(cfg.AppName))
	} else {
		log = logger.New(logger.WithDevelopment(cfg.AppName))
	}

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", logger.Component("config"), logger.Error(err))
		os.Exit(1)
	}

	secret := cfg.SessionSecret
	if secret == "" {
		log.Warn("SESSION_SECRET not set, using insecure development secret",
			logger.Component("config"))
		secret = devSessionSecret
	}

	cookies, err := cookie.New(secret)
	if err != nil {
		log.Error("failed to create cookie manager", logger.Component("cookie"), logger.Error(err))
		os.Exit(1)
	}

	// The session backend is a process-start decision; nothing below
	// branches on it again.
	var sessionStore session.Store
	var userStore auth.UserStore

	switch cfg.SessionBackend {
	case config.BackendPostgres:
		pool, err := pg.Connect(ctx, cfg.PG)
		if err != nil {
			log.Error("failed to connect to postgres", logger.Component("database"), logger.Error(err))
			os.Exit(1)
		}
		defer pool.Close()
		if err := pg.Migrate(ctx, pool, log.With("component", "migration")); err != nil {
			log.Error("failed to apply migrations", logger.Component("database"), logger.Error(err))
			os.Exit(1)
		}
		sessionStore = sessionpg.New(pool)
		userStore = authpg.New(pool)

	case config.BackendRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Error("failed to connect to redis", logger.Component("database"), logger.Error(err))
			os.Exit(1)
		}
		defer client.Close()
		sessionStore = sessionredis.New(client)

		// Redis holds sessions only; principals stay relational when a
		// DATABASE_URL is configured, in-process otherwise.
		if cfg.PG.ConnectionString != "" {
			pool, err := pg.Connect(ctx, cfg.PG)
			if err != nil {
				log.Error("failed to connect to postgres", logger.Component("database"), logger.Error(err))
				os.Exit(1)
			}
			defer pool.Close()
			if err := pg.Migrate(ctx, pool, log.With("component", "migration")); err != nil {
				log.Error("failed to apply migrations", logger.Component("database"), logger.Error(err))
				os.Exit(1)
			}
			userStore = authpg.New(pool)
		} else {
			userStore = auth.NewMemoryUserStore()
		}

	default:
		sessionStore = session.NewMemoryStore()
		userStore = auth.NewMemoryUserStore()
	}

	sessions := session.NewManager(sessionStore, cfg.Session, log)
	authMgr := auth.NewManager(userStore, sessions, cfg.Auth)

	mode := webapp.ModeDevelopment
	if cfg.IsProduction() {
		mode = webapp.ModeProduction
	}
	app, err := webapp.New(mode, cfg.Webapp, log)
	if err != nil {
		log.Error("failed to set up client app serving", logger.Component("webapp"), logger.Error(err))
		os.Exit(1)
	}

	router := api.NewRouter(api.Deps{
		Log:           log,
		Auth:          authMgr,
		Cookies:       cookies,
		Webapp:        app,
		SecureCookies: cfg.IsProduction(),
	})

	eg, ctx := errgroup.WithContext(ctx)

	srv := server.New(cfg.Server, log)
	eg.Go(srv.Run(ctx, router))
	eg.Go(func() error {
		sessions.RunSweeper(ctx)
		return nil
	})

	if err := eg.Wait(); err != nil {
		log.Error("server exited with error", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}
