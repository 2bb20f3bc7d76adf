package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eldtechnologies/inboxdesk/internal/api"
	"github.com/eldtechnologies/inboxdesk/internal/api/middleware"
	"github.com/eldtechnologies/inboxdesk/internal/config"
	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/seed"
	"github.com/eldtechnologies/inboxdesk/internal/session"
	"github.com/eldtechnologies/inboxdesk/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	ctx := context.Background()

	// Seed source: PostgreSQL, then SQLite, then the built-in datasets
	var source store.DatasetSource
	switch {
	case cfg.DatabaseURL != "":
		pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		defer pgStore.Close()
		source = pgStore
		logger.Info().Msg("connected to PostgreSQL")
	case cfg.SeedSQLitePath != "":
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SeedSQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		defer sqliteStore.Close()
		source = sqliteStore
		logger.Info().Str("path", cfg.SeedSQLitePath).Msg("opened SQLite seed")
	}

	engines, err := loadEngines(ctx, source, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading dataset failed")
	}

	// Session store: Redis when configured, process memory otherwise
	var sessions store.SessionStore
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisStore, err := store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisStore.Close()
		sessions = redisStore
		redisClient = redisStore.Client()
		logger.Info().Msg("connected to Redis")
	} else {
		sessions = store.NewMemoryStore()
		logger.Warn().Msg("REDIS_URL not set, sessions are kept in memory")
	}

	svc := session.NewService(engines, sessions, cfg.SessionTTL, logger)

	// Create router
	router := api.NewRouter(logger, api.Options{
		Sessions: svc,
		Source:   source,
		Redis:    redisClient,
		RateLimit: middleware.RateLimiterConfig{
			Whitelist:     cfg.RateLimitWhitelist,
			ActionsPerMin: cfg.RateLimitRPM,
		},
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting inbox server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

// loadEngines builds one engine per variant. A variant with no rows in the
// source falls back to its built-in dataset, which an empty SQLite file also
// receives so it can be edited afterwards.
func loadEngines(ctx context.Context, source store.DatasetSource, logger zerolog.Logger) ([]*inbox.Engine, error) {
	engines := make([]*inbox.Engine, 0, len(inbox.Variants))
	for _, v := range inbox.Variants {
		ds := seed.For(v)
		from := "built-in"

		if source != nil {
			loaded, err := source.LoadDataset(ctx, v)
			if err != nil {
				return nil, fmt.Errorf("load %s dataset: %w", v, err)
			}
			switch {
			case loaded != nil:
				ds = *loaded
				from = "source"
			default:
				if sqliteStore, ok := source.(*store.SQLiteStore); ok {
					if err := sqliteStore.SaveDataset(ctx, v, ds); err != nil {
						return nil, fmt.Errorf("write %s seed: %w", v, err)
					}
					from = "built-in, written to sqlite"
				}
			}
		}

		s, err := inbox.NewStore(ds)
		if err != nil {
			return nil, fmt.Errorf("%s dataset: %w", v, err)
		}
		logger.Info().
			Str("variant", string(v)).
			Str("from", from).
			Int("conversations", len(ds.Conversations)).
			Int("messages", s.Len()).
			Msg("dataset loaded")

		engines = append(engines, inbox.NewEngine(v, s))
	}
	return engines, nil
}
