package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"crew-exam/internal/adapter/spreadsheet"
	"crew-exam/internal/config"
	"crew-exam/internal/database"
	"crew-exam/internal/logger"
	"crew-exam/internal/metrics"
	"crew-exam/internal/repository"
	"crew-exam/internal/service"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "", "xlsx workbook to import")
	template := flag.String("template", "", "write an empty import template to this path and exit")
	userID := flag.String("user", "", "id recorded as the author of imported questions")
	skipDuplicates := flag.Bool("skip-duplicates", false, "skip rows whose content already exists")
	createMissing := flag.Bool("create-missing", false, "create unknown positions, ship types and categories")
	flag.Parse()

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
	metrics.Init()

	if *template == "" && (*file == "" || *userID == "") {
		fmt.Fprintln(os.Stderr, "-file and -user are required unless -template is given")
		flag.Usage()
		os.Exit(2)
	}

	db, err := database.NewSQLXOracleDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	questionRepo := repository.NewQuestionDatabaseAdapter(db)
	referenceRepo := repository.NewReferenceDatabaseAdapter(db)
	codec := spreadsheet.NewExcelizeCodec()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if *template != "" {
		out, err := os.Create(*template)
		if err != nil {
			log.Fatal("Failed to create template file", zap.String("path", *template), zap.Error(err))
		}
		defer out.Close()
		if err := service.NewExportService(questionRepo, referenceRepo, codec).ExportTemplate(ctx, out); err != nil {
			log.Fatal("Failed to write template", zap.Error(err))
		}
		log.Info("Template written", zap.String("path", *template))
		return
	}

	in, err := os.Open(*file)
	if err != nil {
		log.Fatal("Failed to open workbook", zap.String("path", *file), zap.Error(err))
	}
	defer in.Close()

	opts := service.NewImportOptions(cfg.Import, *userID)
	opts.SkipDuplicates = *skipDuplicates
	opts.CreateMissing = *createMissing

	importService := service.NewImportService(questionRepo, referenceRepo, repository.NewTransactionManagerAdapter(db), codec, cfg.Import)
	summary, err := importService.Import(ctx, in, opts)
	if err != nil {
		log.Fatal("Import failed", zap.String("path", *file), zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		log.Error("Failed to print summary", zap.Error(err))
	}
	if summary.ErrorCount > 0 {
		os.Exit(1)
	}
}
