package database

import (
	"fmt"

	"crew-exam/internal/config"
	"crew-exam/internal/logger"

	_ "github.com/godror/godror" // Oracle driver (OCI), db.driver: godror
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver (pure Go), db.driver: oracle
	"go.uber.org/zap"
)

// driverName maps the configured driver onto the name registered with database/sql.
func driverName(driver string) string {
	if driver == "godror" {
		return "godror"
	}
	return "oracle"
}

// NewSQLXOracleDB opens and pings the Oracle pool.
func NewSQLXOracleDB(cfg *config.Config) (*sqlx.DB, error) {
	driver := driverName(cfg.DB.Driver)
	db, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Oracle database: %w", err)
	}

	if cfg.DB.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	logger.Get().Info("Successfully connected to Oracle database", zap.String("driver", driver))
	return db, nil
}
