package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/diabcheck/internal/adapters/artifact"
	"github.com/okian/diabcheck/internal/adapters/http/api"
	"github.com/okian/diabcheck/internal/adapters/http/site"
	"github.com/okian/diabcheck/internal/adapters/http/swagger"
	app "github.com/okian/diabcheck/internal/app"
	"github.com/okian/diabcheck/internal/config"
	"github.com/okian/diabcheck/pkg/logger"
	"github.com/okian/diabcheck/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return errors.New("failed to load config: " + err.Error())
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return errors.New("failed to initialize logging: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("diabcheck")

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(metricsOptions(cfg)...)

	srv, svc, err := newServer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newServer loads the artifacts once, starts the service over them and
// builds the HTTP server. A missing or malformed artifact stops startup.
func newServer(ctx context.Context, cfg *config.Config, log logger.Logger) (*http.Server, *app.Service, error) {
	adapter, err := artifact.Load(ctx, cfg.TransformerPath, cfg.ClassifierPath)
	if err != nil {
		metrics.SetArtifactsLoaded(false)
		log.Error(ctx, "failed to load model artifacts",
			logger.String("transformer_path", cfg.TransformerPath),
			logger.String("classifier_path", cfg.ClassifierPath),
			logger.Error(err),
		)
		return nil, nil, err
	}
	log.Info(ctx, "model artifacts loaded",
		logger.String("transformer_path", cfg.TransformerPath),
		logger.String("classifier_path", cfg.ClassifierPath),
	)

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithPredictor(adapter),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	api.NewServer(svc, svc,
		api.WithMaxRequestBytes(cfg.MaxRequestBytes),
		api.WithLogger(log.Named("api")),
	).Register(mux)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Chain(mux, cfg.CORSAllowedOrigins),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}, svc, nil
}

// metricsOptions maps the metrics settings of cfg onto manager options.
func metricsOptions(cfg *config.Config) []metrics.Option {
	opts := []metrics.Option{
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsLatencyBuckets),
	}
	if cfg.ModelVersion != "" {
		opts = append(opts, metrics.WithConstLabels(map[string]string{"model_version": cfg.ModelVersion}))
	}
	return opts
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
