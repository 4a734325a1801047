package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"crew-exam/internal/config"
	"crew-exam/internal/database"
	"crew-exam/internal/logger"

	"go.uber.org/zap"
)

func main() {
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

	db, err := database.NewSQLXOracleDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	applied, err := database.RunMigrations(ctx, db)
	if err != nil {
		log.Fatal("Failed to run migrations", zap.Int("applied", applied), zap.Error(err))
	}
	log.Info("Schema is up to date", zap.Int("applied", applied))
}
