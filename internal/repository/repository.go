package repository

import (
	"context"
	"database/sql"
	"fmt"

	"crew-exam/internal/domain"

	"github.com/jmoiron/sqlx"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 200
)

// pageClause renders an Oracle 12c row-limiting clause. Values are clamped ints, never user text.
func pageClause(page domain.Page) string {
	limit := page.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf("OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", offset, limit)
}

// binder accumulates positional arguments and hands out their :n placeholders.
type binder struct {
	args []interface{}
}

func (b *binder) bind(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf(":%d", len(b.args))
}
