// Command cinemahub serves the movie catalog API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/lborres/cinemahub/config"
	"github.com/lborres/cinemahub/pkg/crypto"
)

const usage = `Usage: cinemahub <command> [flags]

Commands:
  serve                  Start the API server (default)
  migrate                Apply database migrations
  seed <movies.yaml>     Load movies into the catalog
  secret                 Print a random JWT secret
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	command := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		return runServe(ctx, args, stdout)
	case "migrate":
		return runMigrate(ctx, args)
	case "seed":
		return runSeed(ctx, args, stdout)
	case "secret":
		return runSecret(args, stdout)
	case "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

// configFlag registers -config on fs. CINEMAHUB_CONFIG is the default.
func configFlag(fs *flag.FlagSet) *string {
	return fs.String("config", os.Getenv("CINEMAHUB_CONFIG"), "path to a YAML config file")
}

func runMigrate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	configPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	cfg, err := config.Read(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate requires the %s driver", config.DriverPostgres)
	}

	logger := setupLogger(cfg.Logging)
	store, err := openStorage(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("migrations applied")
	return nil
}

func runSecret(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("secret", flag.ContinueOnError)
	length := fs.Int("bytes", crypto.DefaultSecretLength, "random bytes before encoding")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	secret, err := crypto.GenerateSecret(*length)
	if err != nil {
		return fmt.Errorf("generating secret: %w", err)
	}

	fmt.Fprintln(stdout, secret)
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch cfg.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

const banner = `
   _____ _
  / ____(_)
 | |     _ _ __   ___ _ __ ___   __ _
 | |    | | '_ \ / _ \ '_ ' _ \ / _' |
 | |____| | | | |  __/ | | | | | (_| |
  \_____|_|_| |_|\___|_| |_| |_|\__,_| hub
`

func printBanner(w io.Writer, addr, driver string) {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)

	cyan.Fprint(w, banner)
	fmt.Fprintln(w)
	green.Fprintf(w, "    listening on %s\n", addr)
	gray.Fprintf(w, "    storage: %s\n\n", driver)
}
