package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crew-exam/internal/domain"
	"crew-exam/internal/repository/models"
	"crew-exam/internal/util"
)

const attemptColumns = `id, user_id, test_id, start_time, deadline_at, end_time, status, is_completed, score`

type sqlxAttemptRepository struct {
	db DBTX
}

func NewSQLXAttemptRepository(db DBTX) domain.AttemptRepository {
	return &sqlxAttemptRepository{db: db}
}

func toDomainAttempt(m *models.TestAttempt) *domain.TestAttempt {
	if m == nil {
		return nil
	}
	a := &domain.TestAttempt{
		ID:         m.ID,
		UserID:     m.UserID,
		TestID:     m.TestID,
		StartTime:  m.StartTime,
		DeadlineAt: m.DeadlineAt,
		EndTime:    util.NullTimeToPtr(m.EndTime),
		Status:     domain.AttemptStatus(m.Status),
		Score:      util.NullFloat64ToPtr(m.Score),
	}
	if a.Status == "" {
		a.Status = domain.AttemptInProgress
		if m.IsCompleted {
			a.Status = domain.AttemptCompleted
		}
	}
	return a
}

func (r *sqlxAttemptRepository) Create(ctx context.Context, a *domain.TestAttempt) error {
	if a.ID == "" {
		a.ID = util.NewULID()
	}
	if a.Status == "" {
		a.Status = domain.AttemptInProgress
	}
	query := `INSERT INTO test_attempts (id, user_id, test_id, start_time, deadline_at, end_time, status, is_completed, score)
		VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		a.ID, a.UserID, a.TestID, a.StartTime, a.DeadlineAt,
		util.PtrToNullTime(a.EndTime), string(a.Status), util.BoolToNumber(a.IsCompleted()), util.PtrToNullFloat64(a.Score),
	)
	if err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}
	return nil
}

func (r *sqlxAttemptRepository) get(ctx context.Context, query, id string) (*domain.TestAttempt, error) {
	var m models.TestAttempt
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attempt by ID %s: %w", id, err)
	}
	return toDomainAttempt(&m), nil
}

func (r *sqlxAttemptRepository) GetByID(ctx context.Context, id string) (*domain.TestAttempt, error) {
	return r.get(ctx, `SELECT `+attemptColumns+` FROM test_attempts WHERE id = :1`, id)
}

func (r *sqlxAttemptRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.TestAttempt, error) {
	return r.get(ctx, `SELECT `+attemptColumns+` FROM test_attempts WHERE id = :1 FOR UPDATE`, id)
}

// Finish only touches a row still in progress, so two concurrent submits cannot both score it.
func (r *sqlxAttemptRepository) Finish(ctx context.Context, a *domain.TestAttempt) (bool, error) {
	query := `UPDATE test_attempts SET end_time = :1, status = :2, is_completed = 1, score = :3
		WHERE id = :4 AND is_completed = 0`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		util.PtrToNullTime(a.EndTime), string(a.Status), util.PtrToNullFloat64(a.Score), a.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to finish attempt %s: %w", a.ID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to finish attempt %s: %w", a.ID, err)
	}
	return n > 0, nil
}

func (r *sqlxAttemptRepository) UpdateScore(ctx context.Context, id string, score float64) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `UPDATE test_attempts SET score = :1 WHERE id = :2`, score, id)
	if err != nil {
		return fmt.Errorf("failed to update score of attempt %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("attempt %s not updated: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (r *sqlxAttemptRepository) CountByTest(ctx context.Context, testID string) (int, error) {
	var n int
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &n, `SELECT COUNT(*) FROM test_attempts WHERE test_id = :1`, testID); err != nil {
		return 0, fmt.Errorf("failed to count attempts of test %s: %w", testID, err)
	}
	return n, nil
}

func (r *sqlxAttemptRepository) CountByUserAndTest(ctx context.Context, userID, testID string) (int, error) {
	var n int
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &n,
		`SELECT COUNT(*) FROM test_attempts WHERE user_id = :1 AND test_id = :2`, userID, testID); err != nil {
		return 0, fmt.Errorf("failed to count attempts of user %s: %w", userID, err)
	}
	return n, nil
}

func (r *sqlxAttemptRepository) selectAttempts(ctx context.Context, query string, args ...interface{}) ([]*domain.TestAttempt, error) {
	var rows []models.TestAttempt
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]*domain.TestAttempt, len(rows))
	for i := range rows {
		out[i] = toDomainAttempt(&rows[i])
	}
	return out, nil
}

func (r *sqlxAttemptRepository) ListByTest(ctx context.Context, testID string, page domain.Page) ([]*domain.TestAttempt, int, error) {
	total, err := r.CountByTest(ctx, testID)
	if err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT %s FROM test_attempts WHERE test_id = :1 ORDER BY start_time DESC, id %s`, attemptColumns, pageClause(page))
	attempts, err := r.selectAttempts(ctx, query, testID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attempts of test %s: %w", testID, err)
	}
	return attempts, total, nil
}

func (r *sqlxAttemptRepository) ListCompletedByTest(ctx context.Context, testID string) ([]*domain.TestAttempt, error) {
	attempts, err := r.selectAttempts(ctx,
		`SELECT `+attemptColumns+` FROM test_attempts WHERE test_id = :1 AND is_completed = 1 ORDER BY end_time`, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed attempts of test %s: %w", testID, err)
	}
	return attempts, nil
}

// ListByUser returns the user's attempts, narrowed to testIDs when given.
func (r *sqlxAttemptRepository) ListByUser(ctx context.Context, userID string, testIDs []string) ([]*domain.TestAttempt, error) {
	if len(testIDs) == 0 {
		attempts, err := r.selectAttempts(ctx,
			`SELECT `+attemptColumns+` FROM test_attempts WHERE user_id = :1 ORDER BY start_time DESC`, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list attempts of user %s: %w", userID, err)
		}
		return attempts, nil
	}

	var out []*domain.TestAttempt
	for _, chunk := range chunkStrings(testIDs, maxInList-1) {
		args := make([]interface{}, 0, len(chunk)+1)
		args = append(args, userID)
		for _, id := range chunk {
			args = append(args, id)
		}
		query := fmt.Sprintf(`SELECT %s FROM test_attempts WHERE user_id = :1 AND test_id IN (%s) ORDER BY start_time DESC`,
			attemptColumns, util.Placeholders(2, len(chunk)))
		attempts, err := r.selectAttempts(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to list attempts of user %s: %w", userID, err)
		}
		out = append(out, attempts...)
	}
	return out, nil
}
