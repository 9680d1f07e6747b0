package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carefinder-ng/carefinder/internal/adapters/cache"
	"github.com/carefinder-ng/carefinder/internal/adapters/database"
	"github.com/carefinder-ng/carefinder/internal/adapters/directory"
	"github.com/carefinder-ng/carefinder/internal/adapters/events"
	"github.com/carefinder-ng/carefinder/internal/adapters/search"
	"github.com/carefinder-ng/carefinder/internal/api/handlers"
	"github.com/carefinder-ng/carefinder/internal/api/middleware"
	"github.com/carefinder-ng/carefinder/internal/api/routes"
	"github.com/carefinder-ng/carefinder/internal/application/services"
	"github.com/carefinder-ng/carefinder/internal/domain/providers"
	"github.com/carefinder-ng/carefinder/internal/domain/repositories"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/clients/directoryapi"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/clients/postgres"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/clients/redis"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/clients/typesense"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/observability"
	"github.com/carefinder-ng/carefinder/pkg/config"
	"github.com/carefinder-ng/carefinder/pkg/secrets"
)

func main() {
	// Pull secrets into the environment before configuration is read.
	if result, err := secrets.Load(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load secrets from vault: %v\n", err)
	} else if result.Enabled {
		fmt.Fprintf(os.Stderr, "loaded %d secrets from vault path %s\n", result.Loaded, result.Path)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Redis is optional; the API degrades to uncached reads without it.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, running without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	// Typesense is optional; name search falls back to the database.
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Typesense client, name search will use the database")
		typesenseClient = nil
	} else {
		log.Info().Msg("Typesense client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("event bus initialized")
	}

	baseHospitalAdapter := database.NewHospitalAdapter(pgClient)
	var hospitalRepo repositories.HospitalRepository
	if cacheProvider != nil {
		hospitalRepo = database.NewCachedHospitalAdapter(baseHospitalAdapter, cacheProvider)
		log.Info().Msg("hospital repository wrapped with caching layer")
	} else {
		hospitalRepo = baseHospitalAdapter
	}

	var searchRepo repositories.HospitalSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		searchRepo = adapter
	}

	var directoryProvider providers.DirectoryProvider
	switch cfg.Directory.Provider {
	case "http":
		if cfg.Directory.BaseURL == "" {
			log.Warn().Msg("DIRECTORY_BASE_URL is not set, using bundled directory listings")
			directoryProvider = directory.NewStaticProvider()
		} else {
			directoryProvider = directory.NewHTTPProvider(directoryapi.NewClient(cfg.Directory.BaseURL))
		}
	case "none":
		log.Info().Msg("external directory disabled")
	default:
		directoryProvider = directory.NewStaticProvider()
	}

	analyticsService := services.NewSearchAnalyticsService(database.NewSearchAnalyticsAdapter(pgClient))
	analyticsService.SetMetrics(metrics)

	opts := []services.HospitalServiceOption{
		services.WithAnalytics(analyticsService),
		services.WithSearchTimeout(cfg.Database.QueryTimeout),
	}
	if searchRepo != nil {
		opts = append(opts, services.WithSearchRepo(searchRepo))
	}
	if directoryProvider != nil {
		opts = append(opts, services.WithDirectory(directoryProvider))
	}
	if eventBus != nil {
		opts = append(opts, services.WithEventBus(eventBus))
	}
	hospitalService := services.NewHospitalService(hospitalRepo, opts...)

	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start cache invalidation service")
		} else {
			log.Info().Msg("cache invalidation service started")
		}
	}

	hospitalHandler := handlers.NewHospitalHandler(hospitalService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
	}

	router := routes.NewRouter(hospitalHandler, analyticsHandler, cacheMiddleware, metrics)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	log.Info().Msg("server stopped")
}
