package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"empdir/internal/domain/employees"
	"empdir/internal/domain/users"
	"empdir/internal/platform/config"
	"empdir/internal/platform/metrics"
	"empdir/internal/platform/uploads"
	authhandler "empdir/internal/transport/http/handlers/auth"
	employeehandler "empdir/internal/transport/http/handlers/employees"
	"empdir/internal/transport/http/middleware"
)

// multipartOverhead covers form fields sent alongside the image.
const multipartOverhead = 1 << 20

type Deps struct {
	Config    config.Config
	Logger    *slog.Logger
	Users     *users.Service
	Employees *employees.Service
	Uploads   *uploads.Store
	// Metrics is nil when METRICS_ENABLED=false.
	Metrics *metrics.Collector
}

type App struct {
	Config config.Config
	Router http.Handler
	stores Stores
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	stores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	images := uploads.NewStore(cfg.UploadDir, cfg.MaxUploadBytes)
	deps := Deps{
		Config:    cfg,
		Logger:    logger,
		Users:     users.NewService(stores.Users, cfg.JWTSecret, cfg.TokenTTL),
		Employees: employees.NewService(stores.Employees, images),
		Uploads:   images,
	}
	if cfg.MetricsEnabled {
		deps.Metrics = metrics.New()
	}

	return &App{Config: cfg, Router: NewRouter(deps), stores: stores}, nil
}

func (a *App) Close() {
	if a.stores.Close != nil {
		a.stores.Close()
	}
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware)
	}
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(d.Config.IsProduction()))
	router.Use(middleware.CORS(d.Config.CORSOrigins))
	router.Use(middleware.BodyLimit(d.Config.MaxBodyBytes, d.Config.MaxUploadBytes+multipartOverhead))
	router.Use(middleware.Auth(d.Users))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Employee Directory API. See /api/v1.\n"))
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.Employees.Ping(ctx); err != nil {
			logger.Warn("readiness check failed", "err", err)
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if d.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	if d.Uploads != nil {
		uploadsHandler := d.Uploads.Handler()
		router.Method(http.MethodGet, "/uploads/*", uploadsHandler)
		router.Method(http.MethodHead, "/uploads/*", uploadsHandler)
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(d.Users).RegisterRoutes(r)

		r.Route("/emp", func(r chi.Router) {
			if d.Config.RequireAuth {
				r.Use(middleware.RequireUser)
			}
			employeehandler.NewHandler(d.Employees).RegisterRoutes(r)
		})
	})

	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	app, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("employee directory listening", "addr", cfg.Addr, "backend", cfg.Backend())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
