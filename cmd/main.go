package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/sportgrade/internal/adapters/catalog"
	"github.com/okian/sportgrade/internal/adapters/http/api"
	"github.com/okian/sportgrade/internal/adapters/http/swagger"
	app "github.com/okian/sportgrade/internal/app"
	"github.com/okian/sportgrade/internal/config"
	"github.com/okian/sportgrade/pkg/logger"
	"github.com/okian/sportgrade/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't available yet
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWith(os.Stdout, logger.Format(cfg.LogFormat)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.RegisterRuntimeCollectors()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server exited", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "server stopped")
}

// run serves until ctx ends, then shuts the HTTP server down and drains the
// measurement queue.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}
	// workers must outlive the signal so Stop can drain the queue
	if err := svc.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		watchReload(gctx, svc, cfg.CatalogPath, log)
		return nil
	})
	g.Go(func() error {
		startServiceMetricsUpdater(gctx, svc)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(ctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), svc.Stop(shutdownCtx))
	})
	return g.Wait()
}

// newService loads the catalog and builds the grading service.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	c, err := catalog.Load(ctx, cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	store, err := catalog.NewStore(c)
	if err != nil {
		return nil, err
	}
	counts := c.Counts()
	log.Info(ctx, "catalog loaded",
		logger.String("path", cfg.CatalogPath),
		logger.Int("grading_keys", counts["grading_keys"]),
		logger.Int("tables", counts["tables"]),
		logger.Int("standards", counts["standards"]),
	)
	return app.New(
		app.WithLogger(log),
		app.WithCatalog(store),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithResultCapacity(cfg.ResultCapacity),
		app.WithBatchConcurrency(cfg.WorkerCount),
	), nil
}

// newMux registers the API and docs routes.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, api.Options{
		MaxBatchSize: cfg.MaxBatchSize,
		CatalogPath:  cfg.CatalogPath,
		Logger:       log,
	}).Register(ctx, mux)
	return mux
}

// watchReload reloads the catalog on SIGHUP until ctx ends.
func watchReload(ctx context.Context, svc *app.Service, path string, log logger.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := svc.ReloadCatalog(ctx, path); err != nil {
				log.Warn(ctx, "keeping previous catalog", logger.Error(err))
			}
		}
	}
}

// startServiceMetricsUpdater refreshes the gauges derived from service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = svc.GetStats()
		}
	}
}
