package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crew-exam/internal/domain"
	"crew-exam/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type txKey struct{}

func txFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx
}

// GetExecutor returns the transaction bound to ctx, or db when none is open.
func GetExecutor(ctx context.Context, db DBTX) DBTX {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

// TransactionManagerAdapter implements domain.TransactionManager over *sqlx.DB.
type TransactionManagerAdapter struct {
	db *sqlx.DB
}

func NewTransactionManagerAdapter(db *sqlx.DB) domain.TransactionManager {
	return &TransactionManagerAdapter{db: db}
}

// WithTransaction runs fn inside one transaction. Nested calls join the outer one, so an
// attempt submit and its response batch commit or roll back together.
func (m *TransactionManagerAdapter) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		p := recover()
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Get().Error("Transaction rollback failed", zap.Error(rbErr), zap.Any("panic", p))
			if p == nil {
				err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rbErr))
			}
		}
		if p != nil {
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		committed = true
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}
