package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/cinemahub"
	fiberadapter "github.com/lborres/cinemahub/adapters/fiber"
	"github.com/lborres/cinemahub/adapters/memory"
	pgxadapter "github.com/lborres/cinemahub/adapters/pgx"
	"github.com/lborres/cinemahub/config"
	"github.com/lborres/cinemahub/core"
	"github.com/lborres/cinemahub/pkg/crypto"
)

// storage is a core.Storage plus its cleanup
type storage struct {
	core.Storage
	close func()
}

func (s *storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// openStorage connects the configured driver. Postgres is migrated before use.
func openStorage(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*storage, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage; data is lost on exit")
		return &storage{Storage: memory.New()}, nil

	case config.DriverPostgres:
		pool, err := pgxadapter.Connect(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		adapter := pgxadapter.New(pool)
		if err := adapter.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &storage{Storage: adapter, close: pool.Close}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func passwordHasher(cfg config.PasswordConfig) crypto.PasswordHandler {
	primary := crypto.NewArgon2()
	primary.Memory = cfg.Memory
	primary.Iterations = cfg.Iterations
	primary.Parallelism = cfg.Parallelism

	hasher := crypto.NewHasher(primary)
	hasher.Legacy = nil
	if cfg.BcryptCost > 0 {
		hasher.Legacy = &crypto.Bcrypt{Cost: cfg.BcryptCost}
	}
	return hasher
}

func newServer(cfg *config.Config, store core.Storage, logger *slog.Logger, logOutput io.Writer) (*fiber.App, *cinemahub.App, error) {
	app := fiber.New(fiber.Config{
		AppName:      "cinemahub",
		ErrorHandler: fiberadapter.ErrorHandler(logger),
	})

	hub, err := cinemahub.New(cinemahub.Config{
		Secret:              cfg.Auth.JWTSecret,
		Storage:             store,
		HTTP:                fiberadapter.New(app, fiberadapter.Options{StaticDir: cfg.Server.StaticDir, AllowedOrigins: cfg.Server.AllowedOrigins, MutationTimeout: cfg.Server.MutationTimeout, Logger: logger, LogOutput: logOutput}),
		PasswordHasher:      passwordHasher(cfg.Password),
		MaxConcurrentHashes: cfg.Password.MaxConcurrent,
		TokenTTL:            cfg.Auth.TokenTTL,
		Issuer:              cfg.Auth.Issuer,
		DisableSubjectCheck: !cfg.Auth.VerifySubject,
		CatalogCache:        &cinemahub.CacheConfig{TTL: cfg.Catalog.CacheTTL, MaxSize: cfg.Catalog.CacheSize},
		DisableCache:        cfg.Catalog.CacheSize < 0,
		Logger:              logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create cinemahub instance: %w", err)
	}

	return app, hub, nil
}

func runServe(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := configFlag(fs)
	seedPath := fs.String("seed", "", "load movies from this YAML file before serving")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)

	store, err := openStorage(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	app, hub, err := newServer(cfg, store, logger, stdout)
	if err != nil {
		return err
	}

	if *seedPath != "" {
		n, err := seedFile(ctx, hub.Movies, *seedPath)
		if err != nil {
			return err
		}
		logger.Info("catalog seeded", "movies", n, "file", *seedPath)
	}

	printBanner(stdout, cfg.Server.Addr, cfg.Database.Driver)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Server.Addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("app.Listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 10 * time.Second
}
