// Command apiserver runs the locate SLA tracking service.
package main

import (
	"context"
	"flag"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldlink/locate-sla/internal/application/tracking"
	"github.com/fieldlink/locate-sla/internal/config"
	"github.com/fieldlink/locate-sla/internal/domain/locate"
	rediscache "github.com/fieldlink/locate-sla/internal/infrastructure/cache/redis"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/logging"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/prometheus"
	"github.com/fieldlink/locate-sla/internal/infrastructure/upstream"
	httpiface "github.com/fieldlink/locate-sla/internal/interfaces/http"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to the YAML config file (environment-only when empty)")
	flag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(cfg, configPath, logger); err != nil {
		logger.Fatal("apiserver exited with error", logging.Err(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func run(cfg *config.Config, configPath string, logger logging.Logger) error {
	loc, err := time.LoadLocation(cfg.Engine.Timezone)
	if err != nil {
		return fmt.Errorf("invalid engine.timezone %q: %w", cfg.Engine.Timezone, err)
	}

	// Metrics.
	metrics := prometheus.NewNopMetrics()
	var metricsHandler nethttp.Handler
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return err
		}
		metrics = prometheus.NewAppMetrics(collector)
		metricsHandler = collector.Handler()
	}

	// Upstream collaborator API.
	api, err := upstream.NewClient(cfg.Upstream, logger, metrics)
	if err != nil {
		return err
	}

	// Optional snapshot cache; the engine starts cold without it.
	var cache tracking.SnapshotCache
	if cfg.Redis.Enabled {
		redisCache, err := rediscache.New(cfg.Redis, logger, metrics)
		if err != nil {
			logger.Warn("snapshot cache unavailable; continuing without it", logging.Err(err))
		} else {
			cache = redisCache
			defer redisCache.Close()
		}
	}

	// Tracking engine.
	service := tracking.NewService(tracking.ServiceOptions{
		API:             api,
		Cache:           cache,
		Clock:           locate.NewSystemClock(),
		Location:        loc,
		Logger:          logger,
		Metrics:         metrics,
		TickInterval:    cfg.Engine.TickInterval,
		RefreshInterval: cfg.Engine.RefreshInterval,
	})
	coordinator := tracking.NewCoordinator(
		api,
		service,
		tracking.NewSelection(),
		tracking.NewTagForms(cfg.Engine.Profile),
		cfg.Engine.BulkConcurrency,
		logger,
		metrics,
	)

	// HTTP surface.
	router := httpiface.NewRouter(httpiface.RouterOptions{
		Service:        service,
		Coordinator:    coordinator,
		Logger:         logger,
		Metrics:        metrics,
		MetricsHandler: metricsHandler,
		Mode:           cfg.Server.Mode,
	})
	server := httpiface.NewServer(cfg.Server, router, logger)

	if configPath != "" {
		config.Watch(configPath, func(_ *config.Config) {
			logger.Info("configuration file changed; settings apply at next restart")
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := service.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("tracking loop stopped", logging.Err(err))
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("apiserver stopped")
	return nil
}
