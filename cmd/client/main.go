package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"empdir/internal/client/api"
	"empdir/internal/client/cli"
	"empdir/internal/client/config"
	"empdir/internal/client/session"
	"empdir/internal/platform/logging"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file (default ./empdir.yaml if present)")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger := logging.New(os.Stderr, "development", *logLevel)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("invalid client config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, err := session.Open(ctx, cfg.SessionDB)
	if err != nil {
		logger.Error("failed to open session store", "path", cfg.SessionDB, "err", err)
		os.Exit(1)
	}
	defer sessions.Close()

	logger.Debug("client starting", "server", cfg.ServerURL)
	app := cli.New(api.New(cfg.ServerURL, cfg.Timeout), sessions, os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil {
		logger.Error("client stopped", "err", err)
		os.Exit(1)
	}
}
