package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/yeldir/leetbot/internal/config"
	"github.com/yeldir/leetbot/internal/daemon"
	"github.com/yeldir/leetbot/internal/i18n"
	"github.com/yeldir/leetbot/internal/state"
	"github.com/yeldir/leetbot/internal/telegram"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Run struct{} `cmd:"" help:"Run the bot" default:"1"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "run":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := run(cfg); err != nil {
			slog.Error("Bot failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration file written", "path", CLI.Config)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := state.NewStore(cfg.Language.Default, cfg.Language.Supported)
	render := i18n.New(rand.New(rand.NewSource(time.Now().UnixNano())))

	bot, err := telegram.NewBot(cfg.Telegram.BotToken, render)
	if err != nil {
		return fmt.Errorf("failed to create transport: %w", err)
	}
	slog.Info("Authenticated against Telegram", "bot", bot.Username())

	d, err := daemon.New(cfg, store, bot, version)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	watcher, err := config.NewWatcher(CLI.Config, d.ApplyConfig)
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start config watcher: %w", err)
	}
	defer func() {
		if err := watcher.Stop(); err != nil {
			slog.Warn("Failed to stop config watcher", "error", err)
		}
	}()

	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Start(ctx)
	}()
	go bot.Listen(ctx, d)

	slog.Info("Bot started, waiting for shutdown signal...")

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("daemon error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping...")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := d.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop daemon: %w", err)
	}

	slog.Info("Bot stopped")
	return nil
}
