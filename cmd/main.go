package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/dionchettiar/pitchboard/internal/adapters/http/api"
	"github.com/dionchettiar/pitchboard/internal/adapters/http/site"
	"github.com/dionchettiar/pitchboard/internal/adapters/http/swagger"
	"github.com/dionchettiar/pitchboard/internal/adapters/http/ws"
	"github.com/dionchettiar/pitchboard/internal/adapters/repository"
	app "github.com/dionchettiar/pitchboard/internal/app"
	"github.com/dionchettiar/pitchboard/internal/config"
	"github.com/dionchettiar/pitchboard/internal/dataset"
	"github.com/dionchettiar/pitchboard/internal/domain/model"
	"github.com/dionchettiar/pitchboard/internal/domain/types"
	"github.com/dionchettiar/pitchboard/pkg/logger"
	"github.com/dionchettiar/pitchboard/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Build the load pipeline: HTTP fetch -> merge -> memoized snapshot.
	loader := dataset.New(
		dataset.WithFetcher(dataset.NewHTTPFetcher(
			dataset.WithTimeout(time.Duration(cfg.FetchTimeoutMS)*time.Millisecond),
		)),
		dataset.WithSources(cfg.SourceAURL, cfg.SourceBURL),
		dataset.WithLogger(loggerInstance),
	)
	store := repository.NewMemoStore(loader, repository.WithLogger(loggerInstance))

	// Reload notifications fan out to connected dashboard pages.
	var svc *app.Service
	hub := ws.New(func(ctx context.Context) (types.ReloadInfo, bool) {
		return svc.CurrentInfo(ctx)
	})

	svc = app.New(
		app.WithLogger(loggerInstance),
		app.WithStore(store),
		app.WithTopNBounds(cfg.MinTopN, cfg.DefaultTopN, cfg.MaxTopN),
		app.WithHistogramBins(cfg.HistogramBins),
		app.WithPreload(cfg.Preload),
		app.WithReloadHook(func(snap *model.Snapshot) {
			hub.Broadcast(types.ReloadInfo{
				SnapshotID:  snap.ID,
				RecordCount: snap.Count(),
				LoadedAt:    snap.LoadedAt,
			})
		}),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer func() { _ = svc.Stop(ctx) }()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Run the websocket hub until shutdown
	go hub.Run(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Dashboard page at /, docs under /api-docs
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	// Business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	// Reload push channel for open dashboard pages.
	mux.Handle("/ws", hub)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
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
