package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medkey/medkey/internal/config"
	"github.com/medkey/medkey/internal/domain/consent"
	"github.com/medkey/medkey/internal/domain/onboarding"
	"github.com/medkey/medkey/internal/domain/records"
	"github.com/medkey/medkey/internal/domain/roster"
	"github.com/medkey/medkey/internal/domain/session"
	"github.com/medkey/medkey/internal/platform/auth"
	"github.com/medkey/medkey/internal/platform/directory"
	"github.com/medkey/medkey/internal/platform/docstore"
	"github.com/medkey/medkey/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medkey-server",
		Short: "MedKey medical records portal server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(storageCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the portal API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the demo roster if the store is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			store, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			docs := docstore.New(store, logger)
			registerSchemas(docs)
			ros := roster.NewService(roster.NewDocRepository(docs), directory.NewStatic(), logger)
			seeded, err := ros.Seed(ctx)
			if err != nil {
				return err
			}
			if seeded {
				fmt.Println("Roster seeded with default demo patients.")
			} else {
				fmt.Println("Roster already populated; nothing to do.")
			}
			return nil
		},
	}
}

func storageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Inspect or reset the document store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "keys",
		Short: "List stored document keys",
		RunE: func(c *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			store, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			keys, err := store.Keys(ctx)
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Println(k)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every stored document",
		RunE: func(c *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			store, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(ctx); err != nil {
				return err
			}
			fmt.Println("Store cleared.")
			return nil
		},
	})

	return cmd
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "" || os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

// openStore selects the document store backend from config.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (docstore.Store, error) {
	switch cfg.StoreDriver {
	case "leveldb":
		store, err := docstore.OpenLevelStore(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("open leveldb store: %w", err)
		}
		logger.Info().Str("path", cfg.StorePath).Msg("using leveldb store")
		return store, nil
	case "postgres":
		pool, err := docstore.NewPGPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		store, err := docstore.NewPGStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		logger.Info().Msg("using postgres store")
		return store, nil
	case "memory":
		logger.Warn().Msg("using volatile in-memory store")
		return docstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// registerSchemas declares the current schema version for every stored
// document. Documents written by the original prototype predate the version
// envelope and load as v0; the v0 payloads are shape-compatible, so the
// migration just lifts them into the envelope unchanged.
func registerSchemas(docs *docstore.Documents) {
	identity := func(data json.RawMessage) (json.RawMessage, error) { return data, nil }
	for _, prefix := range []string{
		onboarding.PersonalInfoKey,
		onboarding.PatientDataKey,
		onboarding.PatientIDKey,
		records.DocKey,
		roster.DocKey,
		consent.DecisionsKey,
		consent.SignaturesKey,
		session.KeyPrefix,
	} {
		docs.DeclareVersion(prefix, 1)
		docs.RegisterMigration(prefix, 0, identity)
	}
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer store.Close()

	docs := docstore.New(store, logger)
	registerSchemas(docs)

	// Optional cross-instance change notification over redis.
	var notifier docstore.Notifier
	if cfg.RedisURL != "" {
		notifier, err = docstore.NewRedisNotifier(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer notifier.Close()
		docs.SetNotifier(notifier)
		logger.Info().Msg("redis change notification enabled")
	}

	// Patient directory: remote service with the built-in demo table as
	// fallback, or the demo table alone.
	dir := directory.NewStatic()
	if cfg.DirectoryURL != "" {
		dir = directory.NewHTTP(cfg.DirectoryURL, dir, logger)
		logger.Info().Str("url", cfg.DirectoryURL).Msg("using remote patient directory")
	}

	// Domain services
	onboardingSvc := onboarding.NewService(onboarding.NewDocRepository(docs), logger)
	recordsSvc := records.NewService(records.NewDocRepository(docs), cfg.FetchDelay(), logger)
	rosterSvc := roster.NewService(roster.NewDocRepository(docs), dir, logger)
	consentSvc := consent.NewService(consent.NewDocRepository(docs), rosterSvc, cfg.DoctorName, logger)
	sessionSvc := session.NewService(session.NewDocRepository(docs), onboardingSvc, recordsSvc, rosterSvc, consentSvc, logger)

	if _, err := rosterSvc.Seed(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed roster")
	}

	// Watch the shared documents and log external changes. With redis wired
	// the watcher reacts to notifications; otherwise it polls.
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	watcher := docstore.NewWatcher(docs, notifier, cfg.WatchInterval(), logger)
	go watcher.Watch(watchCtx, []string{roster.DocKey, consent.DecisionsKey, consent.SignaturesKey}, func(key string, raw []byte) {
		logger.Debug().Str("key", key).Int("bytes", len(raw)).Msg("shared document changed")
	})

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			SigningKey: []byte(cfg.AuthSigningKey),
			Issuer:     cfg.AuthIssuer,
		}))
	}

	e.Use(middleware.Audit(logger))

	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.RequestTimeout(30 * time.Second))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	session.NewHandler(sessionSvc).RegisterRoutes(apiV1)
	onboarding.NewHandler(onboardingSvc).RegisterRoutes(apiV1)
	records.NewHandler(recordsSvc).RegisterRoutes(apiV1)
	roster.NewHandler(rosterSvc).RegisterRoutes(apiV1)
	consent.NewHandler(consentSvc).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
