package server

import (
	"context"
	"fmt"
	"log/slog"

	"empdir/internal/domain/employees"
	"empdir/internal/domain/users"
	"empdir/internal/platform/config"
	"empdir/internal/platform/db"
)

// Stores is the backend selected by the database URL scheme.
type Stores struct {
	Users     users.Store
	Employees employees.Store
	Close     func()
}

// OpenStores connects the configured backend. With RunMigrations unset it
// leaves the schema alone: no SQL migrations and no Mongo index builds.
func OpenStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (Stores, error) {
	switch cfg.Backend() {
	case config.BackendMongo:
		database, err := db.ConnectMongo(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			return Stores{}, err
		}
		userStore := users.NewMongoStore(database)
		employeeStore := employees.NewMongoStore(database)
		if cfg.RunMigrations {
			if err := userStore.EnsureIndexes(ctx); err != nil {
				_ = database.Client().Disconnect(context.Background())
				return Stores{}, err
			}
			if err := employeeStore.EnsureIndexes(ctx); err != nil {
				_ = database.Client().Disconnect(context.Background())
				return Stores{}, err
			}
		}
		logger.Info("connected to mongo", "database", cfg.DatabaseName)
		return Stores{
			Users:     userStore,
			Employees: employeeStore,
			Close: func() {
				if err := database.Client().Disconnect(context.Background()); err != nil {
					logger.Warn("mongo disconnect failed", "err", err)
				}
			},
		}, nil

	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return Stores{}, fmt.Errorf("postgres connect: %w", err)
		}
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool); err != nil {
				pool.Close()
				return Stores{}, fmt.Errorf("migrations failed: %w", err)
			}
		}
		logger.Info("connected to postgres")
		return Stores{
			Users:     users.NewPGStore(pool),
			Employees: employees.NewPGStore(pool),
			Close:     pool.Close,
		}, nil

	case config.BackendMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return Stores{
			Users:     users.NewMemoryStore(),
			Employees: employees.NewMemoryStore(),
			Close:     func() {},
		}, nil

	default:
		return Stores{}, fmt.Errorf("unsupported database url scheme")
	}
}
