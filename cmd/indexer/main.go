package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carefinder-ng/carefinder/internal/adapters/database"
	"github.com/carefinder-ng/carefinder/internal/adapters/search"
	"github.com/carefinder-ng/carefinder/internal/application/services"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/clients/postgres"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/clients/typesense"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/observability"
	"github.com/carefinder-ng/carefinder/pkg/config"
)

const reindexBatchSize = 200

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete the existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	observability.InitLogger("carefinder-indexer", os.Getenv("APP_ENV"))

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		parsed, err := time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Str("interval", intervalValue).Err(err).Msg("invalid interval")
		}
		if parsed <= 0 {
			log.Fatal().Msg("interval must be greater than zero")
		}
		interval = parsed
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Info().Dur("interval", interval).Msg("reindex complete, waiting for next run")

		select {
		case <-ctx.Done():
			log.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Msg("deleting hospitals collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.HospitalsCollection).Delete(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to delete collection")
		}
	}

	searchAdapter := search.NewTypesenseAdapter(tsClient)
	if err := searchAdapter.InitSchema(ctx); err != nil {
		return err
	}

	hospitalService := services.NewHospitalService(
		database.NewHospitalAdapter(pgClient),
		services.WithSearchRepo(searchAdapter),
	)

	indexed, err := hospitalService.Reindex(ctx, reindexBatchSize)
	if err != nil {
		return err
	}

	log.Info().Int("hospitals", indexed).Msg("indexing complete")
	return nil
}
