package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/carefinder-ng/carefinder/internal/adapters/database"
	"github.com/carefinder-ng/carefinder/internal/adapters/search"
	"github.com/carefinder-ng/carefinder/internal/application/services"
	"github.com/carefinder-ng/carefinder/internal/evaluation"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/clients/postgres"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/clients/typesense"
	"github.com/carefinder-ng/carefinder/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pgClient.Close()

	opts := []services.HospitalServiceOption{}
	if tsClient, err := typesense.NewClient(&cfg.Typesense); err == nil {
		opts = append(opts, services.WithSearchRepo(search.NewTypesenseAdapter(tsClient)))
	} else {
		log.Printf("Typesense unavailable, evaluating database search only: %v", err)
	}

	hospitalService := services.NewHospitalService(database.NewHospitalAdapter(pgClient), opts...)

	goldenPath := "config/golden_queries.json"
	if len(os.Args) > 1 {
		goldenPath = os.Args[1]
	}

	queries, err := evaluation.LoadGoldenQueries(goldenPath)
	if err != nil {
		log.Fatalf("Failed to load golden queries: %v", err)
	}
	if err := evaluation.ValidateGoldenQueries(queries); err != nil {
		log.Fatalf("Invalid golden queries: %v", err)
	}

	runner := evaluation.NewRunner(hospitalService)
	summary, err := runner.Run(context.Background(), queries)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))
}
