package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"empdir/internal/app/inspect"
	"empdir/internal/app/server"
	"empdir/internal/platform/config"
	"empdir/internal/platform/logging"
)

func main() {
	ping := flag.Bool("ping", false, "only test the database connection")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env", "err", err)
	}

	cfg := config.Load()
	// Read-only: never migrate or build indexes.
	cfg.RunMigrations = false
	logger := logging.New(os.Stderr, cfg.Environment, cfg.LogLevel)

	if cfg.Backend() == "" {
		logger.Error("DATABASE_URL (or MONGO_URI) must be a mongodb:// or postgres:// url")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Testing database connection...")
	fmt.Println("URI:", inspect.MaskURI(cfg.DatabaseURL))

	stores, err := server.OpenStores(ctx, cfg, logger)
	if err != nil {
		fmt.Println("FAILURE: could not connect to the database.")
		logger.Error("connect failed", "err", err)
		os.Exit(1)
	}
	defer stores.Close()

	if err := stores.Employees.Ping(ctx); err != nil {
		fmt.Println("FAILURE: could not connect to the database.")
		logger.Error("ping failed", "err", err)
		os.Exit(1)
	}
	fmt.Println("SUCCESS: connected.")
	if *ping {
		return
	}

	if err := inspect.Dump(ctx, os.Stdout, stores.Users, stores.Employees); err != nil {
		logger.Error("dump failed", "err", err)
		os.Exit(1)
	}
}
