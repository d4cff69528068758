package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/fairmeet/internal/api"
	"github.com/UnknownOlympus/fairmeet/internal/candidates"
	"github.com/UnknownOlympus/fairmeet/internal/config"
	"github.com/UnknownOlympus/fairmeet/internal/geocoding"
	"github.com/UnknownOlympus/fairmeet/internal/metrics"
	"github.com/UnknownOlympus/fairmeet/internal/repository"
	"github.com/UnknownOlympus/fairmeet/internal/service"
	"github.com/UnknownOlympus/fairmeet/internal/transit"
	"github.com/UnknownOlympus/fairmeet/internal/venues"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Canceled on SIGINT/SIGTERM for a graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Geocoder.Type),
		APIKey:    cfg.Geocoder.APIKey,
		RateLimit: cfg.Geocoder.RateLimit,
		Region:    cfg.Geocoder.Region,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Geocoder.Type)

	tfl := transit.NewTfLClient(transit.TfLConfig{
		AppKey:       cfg.Transit.AppKey,
		Modes:        cfg.Transit.Modes,
		SearchRadius: cfg.Transit.SearchRadius,
		RateLimit:    cfg.Transit.RateLimit,
	}, logger)

	// The station list is served from postgres when a database is configured.
	var (
		transitProvider transit.Provider = tfl
		dtb             *pgxpool.Pool
		catalog         *transit.Catalog
	)
	if cfg.Database.Enabled() {
		dtb, err = repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()

		repo := repository.NewRepository(dtb, logger)
		if err = repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare station catalog: %v", err)
		}

		catalog = transit.NewCatalog(tfl, repo, cfg.Transit.CatalogRefresh, logger)
		transitProvider = catalog
	}

	var (
		venueCache   *venues.Cache
		venueCounter service.VenueCounter
	)
	if cfg.Venues.APIKey != "" {
		placesClient, errPlaces := venues.NewGooglePlacesClient(cfg.Venues.APIKey, cfg.Venues.RateLimit)
		if errPlaces != nil {
			log.Fatalf("Failed to create places client: %v", errPlaces)
		}
		venueCache = venues.NewCache(
			venues.NewGooglePlacesProvider(placesClient, logger),
			venues.CacheConfig{
				TTL:           cfg.Venues.TTL,
				SweepInterval: cfg.Venues.SweepInterval,
				Shards:        cfg.Venues.Shards,
				ShardSize:     cfg.Venues.ShardSize,
			},
			appMetrics,
			logger,
		)
		venueCounter = venueCache
	} else {
		logger.WarnContext(ctx, "No places API key configured, venue scoring is disabled")
	}

	selector := candidates.NewSelector(candidates.Config{
		MaxCandidates:       cfg.Candidates.Max,
		Interchanges:        cfg.Candidates.Interchanges,
		MaxMidpointDistance: cfg.Candidates.MidpointRadius,
	})

	engine := service.NewEngine(geoProvider, transitProvider, selector, venueCounter, appMetrics, logger, service.Config{
		ProviderTimeout: cfg.Ranking.ProviderTimeout,
		Concurrency:     cfg.Ranking.Concurrency,
		TopN:            cfg.Ranking.TopN,
		VenueRadius:     cfg.Venues.Radius,
	})

	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(engine, geoProvider, transitProvider, venueCounter, cfg.Venues.Radius, logger)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           api.NewRouter(handler, logger),
		ReadHeaderTimeout: 5 * time.Second,
		// a full ranking may wait on several provider timeouts in a row
		WriteTimeout: 4*cfg.Ranking.ProviderTimeout + 5*time.Second,
	}

	go startMonitoringServer(ctx, logger, reg, dtb, cfg.Monitoring.Port)

	if venueCache != nil {
		go venueCache.Run(ctx)
	}
	if catalog != nil {
		go catalog.Run(ctx)
	}

	go func() {
		logger.InfoContext(ctx, "Starting API server", "port", cfg.HTTP.Port)
		if errServe := apiServer.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "API server failed", "error", errServe)
			stop()
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	<-ctx.Done()

	logger.Info("Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err = apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown failed", "error", err)
	}

	logger.Info("Application stopped gracefully.")
}

// startMonitoringServer serves /healthz and /metrics on the given port.
// The health check pings the database when one is configured.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb *pgxpool.Pool,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if dtb != nil {
			if err := dtb.Ping(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, "DB ping failed"
			}
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
