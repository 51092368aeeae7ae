package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/cancerscan/internal/api"
	"github.com/kiranshivaraju/cancerscan/internal/api/handler"
	"github.com/kiranshivaraju/cancerscan/internal/api/response"
	"github.com/kiranshivaraju/cancerscan/internal/config"
	"github.com/kiranshivaraju/cancerscan/internal/events"
	"github.com/kiranshivaraju/cancerscan/internal/inference"
	"github.com/kiranshivaraju/cancerscan/internal/metrics"
	"github.com/kiranshivaraju/cancerscan/internal/modelstore"
	"github.com/kiranshivaraju/cancerscan/internal/preprocess"
	"github.com/kiranshivaraju/cancerscan/internal/recorder"
	"github.com/kiranshivaraju/cancerscan/internal/store"
	"github.com/kiranshivaraju/cancerscan/internal/upload"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	var migrationsDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the model and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(migrationsDir)
		},
	}
	cmd.Flags().StringVar(&migrationsDir, "migrations-dir", defaultMigrationsDir, "directory of Postgres migrations applied at startup")
	return cmd
}

func run(migrationsDir string) error {
	// 1. Load config; invalid values abort startup
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"env", cfg.Server.Env,
		"store", cfg.Store.Driver,
		"model_source", cfg.Model.Source,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Open the prediction store
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	slog.Info("store opened", "driver", cfg.Store.Driver)

	// 3. Run migrations
	if cfg.Store.Driver == config.StorePostgres {
		if err := store.RunMigrations(cfg.Database.URL, migrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("database migrations applied")
	}

	// 4. Create event publisher
	publisher, err := newPublisher(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	defer publisher.Close()

	// 5. Load the model. The server does not listen until this succeeds.
	predictor, err := loadPredictor(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		predictor.Close()
		inference.DestroyRuntime()
	}()

	// 6. Build router with dependencies
	rec := recorder.New(st, publisher, recorder.WithTimeout(cfg.Store.Timeout))
	deps := api.Dependencies{
		PredictHandler: handler.NewPredictHandler(
			upload.NewGate(cfg.Server.MaxUploadBytes),
			preprocess.New(preprocess.ImageSize),
			predictor,
			rec,
		),
		HistoriesHandler: handler.NewHistoriesHandler(st, cfg.Store.Timeout),
		HealthHandler:    healthHandler(st, publisher, predictor),
		MetricsHandler:   metrics.Handler(),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newPublisher returns a Redis publisher when REDIS_URL is set, otherwise a
// no-op. An unreachable broker is logged but does not block startup.
func newPublisher(ctx context.Context, cfg config.RedisConfig) (events.Publisher, error) {
	if cfg.URL == "" {
		slog.Info("event publishing disabled")
		return events.NopPublisher{}, nil
	}

	p, err := events.NewRedisPublisher(cfg.URL, cfg.Channel)
	if err != nil {
		return nil, err
	}
	if err := p.Ping(ctx); err != nil {
		slog.Warn("redis unreachable, predictions will not be published until it recovers", "error", err)
	} else {
		slog.Info("redis connected", "channel", p.Channel())
	}
	return p, nil
}

func loadPredictor(ctx context.Context, cfg *config.Config) (*inference.Predictor, error) {
	fetcher, err := modelstore.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create model fetcher: %w", err)
	}

	if err := inference.InitRuntime(cfg.Model.LibraryPath); err != nil {
		return nil, err
	}

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Model.LoadTimeout)
	defer cancel()

	start := time.Now()
	predictor := inference.NewPredictor()
	err = predictor.Load(loadCtx, inference.ONNXLoader(fetcher, inference.ONNXConfig{
		InputName:  cfg.Model.InputName,
		OutputName: cfg.Model.OutputName,
		OutputSize: cfg.Model.OutputSize,
	}))
	if err != nil {
		inference.DestroyRuntime()
		return nil, fmt.Errorf("load model from %s: %w", fetcher.Location(), err)
	}

	metrics.SetModelLoaded(true)
	slog.Info("model loaded",
		"location", fetcher.Location(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return predictor, nil
}

// readiness reports whether the model can serve.
type readiness interface {
	IsReady() bool
}

// healthHandler checks store, publisher and model readiness.
func healthHandler(s store.Store, p events.Publisher, model readiness) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"store":     "ok",
			"publisher": "ok",
			"model":     "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["store"] = "degraded"
		}
		if err := p.Ping(r.Context()); err != nil {
			checks["publisher"] = "degraded"
		}
		if !model.IsReady() {
			checks["model"] = "loading"
		}

		// Publishing is best effort; only the store and model gate traffic.
		if checks["store"] != "ok" || checks["model"] != "ok" {
			response.FailWithData(w, http.StatusServiceUnavailable,
				"One or more services degraded", checks)
			return
		}

		status := "ok"
		if checks["publisher"] != "ok" {
			status = "degraded"
		}
		response.JSON(w, map[string]any{
			"status":   status,
			"services": checks,
		})
	}
}
