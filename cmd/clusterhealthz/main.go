package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/0x234/clusterhealthz/internal/config"
	"github.com/0x234/clusterhealthz/internal/health"
	"github.com/0x234/clusterhealthz/internal/logging"
	"github.com/0x234/clusterhealthz/internal/metrics"
	"github.com/0x234/clusterhealthz/internal/promsource"
	"github.com/0x234/clusterhealthz/internal/server"
	"github.com/0x234/clusterhealthz/internal/watchlist"
)

const shutdownTimeout = 10 * time.Second

var (
	configFile    string
	listenAddr    string
	watchlistFile string
	prometheusURL string
)

func init() {
	flag.StringVar(&configFile, "config", "clusterhealthz.yaml", "Path to the service configuration file.")
	flag.StringVar(&listenAddr, "listen", "", "Listen address, overrides the config file.")
	flag.StringVar(&watchlistFile, "watchlist", "", "Path to the watch-list file, overrides the config file.")
	flag.StringVar(&prometheusURL, "prometheus-url", "", "Prometheus base URL, overrides the config file.")
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration from %s: %v", configFile, err)
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}
	if watchlistFile != "" {
		cfg.WatchlistFile = watchlistFile
	}
	if prometheusURL != "" {
		cfg.PrometheusURL = prometheusURL
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting clusterhealthz",
		zap.String("listen", cfg.Listen),
		zap.String("watchlist_file", cfg.WatchlistFile),
		zap.String("prometheus_url", cfg.PrometheusURL),
		zap.Duration("query_timeout", cfg.QueryTimeout),
	)

	// The process must not start serving without a valid watch-list.
	store, err := watchlist.NewStore(cfg.WatchlistFile, logger)
	if err != nil {
		logger.Fatal("failed to load initial watch-list", zap.Error(err))
	}

	m := metrics.New()
	m.SetWatchlistSize(store.Current().Len())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloader := watchlist.NewReloader(store, logger, func(source string, err error) {
		m.ObserveReload(err, store.Current().Len())
	})
	go reloader.Run(ctx)

	// SIGHUP is the original reconfiguration trigger. The handler does
	// nothing but forward to the reloader, keeping the reload logic
	// ordinary synchronous code.
	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	go func() {
		for range hupCh {
			logger.Info("SIGHUP received, triggering watch-list reload")
			reloader.Trigger("sighup")
		}
	}()

	if cfg.WatchEnabled() {
		watcher, err := watchlist.NewWatcher(cfg.WatchlistFile, reloader, logger)
		if err != nil {
			logger.Fatal("failed to create watch-list watcher", zap.Error(err))
		}
		go func() {
			if err := watcher.Start(ctx); err != nil {
				logger.Error("watch-list watcher stopped", zap.Error(err))
			}
		}()
	}

	source, err := promsource.NewClient(cfg.PrometheusURL, cfg.QueryTimeout, logger)
	if err != nil {
		logger.Fatal("failed to create prometheus client", zap.Error(err))
	}

	evaluator := health.NewEvaluator(store, source, logger)
	srv := server.New(evaluator, reloader, m, logger)

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	logger.Info("clusterhealthz started", zap.String("listen", cfg.Listen))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdownCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("clusterhealthz shut down")
}
