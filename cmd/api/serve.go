package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/crm-api/internal/auth"
	"github.com/redmonkez12/crm-api/internal/catalog"
	"github.com/redmonkez12/crm-api/internal/config"
	"github.com/redmonkez12/crm-api/internal/database"
	httpServer "github.com/redmonkez12/crm-api/internal/http"
	"github.com/redmonkez12/crm-api/internal/logging"
	"github.com/redmonkez12/crm-api/internal/password"
	"github.com/redmonkez12/crm-api/internal/ratelimit"
	"github.com/redmonkez12/crm-api/internal/user"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
}

func run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg)
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"token_format", cfg.Auth.TokenFormat,
	)

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	rateLimiter, closeLimiter, err := initRateLimiter(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}
	defer closeLimiter()

	hasher, err := password.New(cfg.Auth.PasswordAlgorithm, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Services
	userService := user.NewService(user.NewRepository(db), hasher)
	authService := auth.NewService(userService, tokenService, cfg.Auth.AccessTokenDuration)
	catalogService := catalog.NewService(catalog.NewRepository(db))

	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Auth:           auth.NewHandler(authService, rateLimiter),
		AuthMiddleware: auth.NewMiddleware(tokenService, authService),
		Users:          user.NewHandler(userService),
		Catalog:        catalog.NewHandler(catalogService),
		DB:             db,
	}, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initRateLimiter uses Redis when REDIS_HOST is set so limits hold across
// instances, and an in-process limiter otherwise.
func initRateLimiter(ctx context.Context, cfg *config.Config, logger *logging.Logger) (ratelimit.Limiter, func(), error) {
	limits := ratelimit.Config{Requests: cfg.RateLimit.Requests, Window: cfg.RateLimit.Window}

	if !cfg.Redis.Enabled() {
		logger.Info("using in-memory rate limiter")
		return ratelimit.NewMemoryLimiter(limits), func() {}, nil
	}

	client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("using redis rate limiter", "addr", cfg.Redis.Address())
	return ratelimit.NewRedisLimiter(client, limits), func() { _ = client.Close() }, nil
}
