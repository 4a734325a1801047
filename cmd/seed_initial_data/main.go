package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"crew-exam/cmd/seed_initial_data/internal/seedmodels"
	"crew-exam/internal/adapter/spreadsheet"
	"crew-exam/internal/config"
	"crew-exam/internal/database"
	"crew-exam/internal/logger"
	"crew-exam/internal/repository"
	"crew-exam/internal/service"

	"go.uber.org/zap"
)

const (
	seedFilePath = "configs/seed_data/initial_questions.json"
	seedUserID   = "system"
)

func main() {
	path := flag.String("file", seedFilePath, "JSON seed file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting initial data seeding process...")
	db, err := database.NewSQLXOracleDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Loading seed data from file", zap.String("path", *path))
	byteValue, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *path), zap.Error(err))
	}

	var groups []seedmodels.SeedGroup
	if err := json.Unmarshal(byteValue, &groups); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	rows := seedmodels.Rows(groups)
	log.Info("Successfully unmarshalled seed data", zap.Int("groups", len(groups)), zap.Int("questions", len(rows)))

	importCfg := cfg.Import
	if importCfg.MaxRows < len(rows) {
		importCfg.MaxRows = len(rows)
	}
	importService := service.NewImportService(
		repository.NewQuestionDatabaseAdapter(db),
		repository.NewReferenceDatabaseAdapter(db),
		repository.NewTransactionManagerAdapter(db),
		spreadsheet.NewExcelizeCodec(),
		importCfg,
	)

	// Re-running the seeder must not duplicate questions.
	opts := service.ImportOptions{UserID: seedUserID, SkipDuplicates: true, CreateMissing: true}
	summary, err := importService.ImportRows(ctx, rows, opts)
	if err != nil {
		log.Fatal("Seeding failed, transaction rolled back", zap.Error(err))
	}
	for _, e := range summary.Errors {
		log.Warn("Seed row rejected", zap.String("error", e))
	}
	log.Info("Initial data seeding process completed.",
		zap.Int("imported", summary.ImportedCount),
		zap.Int("skipped", summary.SkippedCount),
		zap.Int("errors", summary.ErrorCount))
}
