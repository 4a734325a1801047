package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"crew-exam/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Execer is the subset of *sql.DB / *sqlx.DB the migrator needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MigrationSource returns the embedded migrations as a golang-migrate source.
func MigrationSource() (source.Driver, error) {
	return iofs.New(migrationFiles, "migrations")
}

// RunMigrations applies every embedded up migration newer than the recorded version.
// golang-migrate ships no Oracle database driver, so versions are tracked in SCHEMA_MIGRATIONS here.
func RunMigrations(ctx context.Context, db Execer) (int, error) {
	src, err := MigrationSource()
	if err != nil {
		return 0, fmt.Errorf("could not open migrations: %w", err)
	}
	defer src.Close()

	if err := ensureVersionTable(ctx, db); err != nil {
		return 0, err
	}
	current, err := currentVersion(ctx, db)
	if err != nil {
		return 0, err
	}

	applied := 0
	version, err := src.First()
	for err == nil {
		if version > current {
			if err := applyVersion(ctx, db, src, version); err != nil {
				return applied, err
			}
			applied++
		}
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return applied, fmt.Errorf("could not enumerate migrations: %w", err)
	}

	logger.Get().Info("Migrations completed successfully", zap.Int("applied", applied))
	return applied, nil
}

func ensureVersionTable(ctx context.Context, db Execer) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`).Scan(&n); err != nil {
		return fmt.Errorf("could not inspect schema_migrations: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err := db.ExecContext(ctx, `CREATE TABLE schema_migrations (version NUMBER(19) PRIMARY KEY, applied_at TIMESTAMP NOT NULL)`)
	if err != nil {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}
	return nil
}

func currentVersion(ctx context.Context, db Execer) (uint, error) {
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("could not read schema version: %w", err)
	}
	if !v.Valid {
		return 0, nil
	}
	return uint(v.Int64), nil
}

func applyVersion(ctx context.Context, db Execer, src source.Driver, version uint) error {
	r, identifier, err := src.ReadUp(version)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}
	defer r.Close()

	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}

	for _, stmt := range SplitStatements(string(content)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %d_%s: %w", version, identifier, err)
		}
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (:1, :2)`, version, time.Now()); err != nil {
		return fmt.Errorf("could not record migration %d: %w", version, err)
	}

	logger.Get().Info("Executed migration", zap.Uint("version", version), zap.String("name", identifier))
	return nil
}

// SplitStatements splits a script on semicolons that end a line. Oracle drivers
// accept one statement per call and reject the trailing semicolon.
func SplitStatements(script string) []string {
	var (
		stmts []string
		buf   strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSpace(buf.String())
			stmts = append(stmts, strings.TrimSuffix(stmt, ";"))
			buf.Reset()
		}
	}
	if rest := strings.TrimSpace(buf.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
