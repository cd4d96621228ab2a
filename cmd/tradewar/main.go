// Command tradewar runs quarterly trade-war simulations between national economies.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/talgya/tradewar/internal/config"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "tradewar",
		Usage: "Agent-based trade war simulation",
		Commands: []*cli.Command{
			runCommand(cfg),
			eventsCommand(),
			optimalTariffCommand(),
			historyCommand(cfg),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Run(ctx, args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
