package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/dStensland/LostCity-sub008/internal/config"
	"github.com/dStensland/LostCity-sub008/internal/domain"
	"github.com/dStensland/LostCity-sub008/internal/enrich"
	"github.com/dStensland/LostCity-sub008/internal/merge"
	"github.com/dStensland/LostCity-sub008/internal/store"
)

func main() {
	var (
		enrichmentType = flag.String("type", "", "enrichment type to run (required)")
		maxScore       = flag.Int("max-score", enrich.DefaultMaxScore, "only enrich venues below this quality score")
		limit          = flag.Int("limit", enrich.DefaultLimit, "maximum number of venues to process")
		dryRun         = flag.Bool("dry-run", false, "report what would change without writing")
		principal      = flag.String("principal", "cli", "actor recorded in the audit log")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if *enrichmentType == "" {
		logger.Error("missing required flag", "flag", "type")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pgStore, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	registry := enrich.NewRegistry()
	if err := enrich.RegisterBuiltins(registry); err != nil {
		logger.Error("failed to register enrichments", "error", err)
		os.Exit(1)
	}

	merger := merge.NewEngine(domain.DefaultLadder(), merge.VenueStrategies(), pgStore, logger)
	runner := enrich.NewRunner(pgStore, pgStore, registry, merger, logger)

	result, err := runner.RunBatch(ctx, enrich.BatchOptions{
		Type:      *enrichmentType,
		MaxScore:  *maxScore,
		Limit:     *limit,
		DryRun:    *dryRun,
		Principal: *principal,
	})
	if err != nil {
		logger.Error("batch run failed", "error", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	os.Stdout.Write(append(out, '\n'))
}
