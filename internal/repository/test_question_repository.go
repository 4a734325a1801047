package repository

import (
	"context"
	"fmt"

	"crew-exam/internal/domain"
	"crew-exam/internal/repository/models"
	"crew-exam/internal/util"
)

const testQuestionColumns = `id, test_id, question_id, order_index, points, attempt_id`

type sqlxTestQuestionRepository struct {
	db DBTX
}

func NewSQLXTestQuestionRepository(db DBTX) domain.TestQuestionRepository {
	return &sqlxTestQuestionRepository{db: db}
}

func toDomainTestQuestion(m *models.TestQuestion) domain.TestQuestion {
	return domain.TestQuestion{
		ID:         m.ID,
		TestID:     m.TestID,
		QuestionID: m.QuestionID,
		Order:      m.OrderIndex,
		Points:     m.Points,
		AttemptID:  util.NullStringToPtr(m.AttemptID),
	}
}

func (r *sqlxTestQuestionRepository) selectRows(ctx context.Context, query string, args ...interface{}) ([]domain.TestQuestion, error) {
	var rows []models.TestQuestion
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]domain.TestQuestion, len(rows))
	for i := range rows {
		out[i] = toDomainTestQuestion(&rows[i])
	}
	return out, nil
}

func (r *sqlxTestQuestionRepository) ListStatic(ctx context.Context, testID string) ([]domain.TestQuestion, error) {
	rows, err := r.selectRows(ctx,
		`SELECT `+testQuestionColumns+` FROM test_questions WHERE test_id = :1 AND attempt_id IS NULL ORDER BY order_index`,
		testID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions of test %s: %w", testID, err)
	}
	return rows, nil
}

func (r *sqlxTestQuestionRepository) ListForAttempt(ctx context.Context, attemptID string) ([]domain.TestQuestion, error) {
	rows, err := r.selectRows(ctx,
		`SELECT `+testQuestionColumns+` FROM test_questions WHERE attempt_id = :1 ORDER BY order_index`,
		attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions of attempt %s: %w", attemptID, err)
	}
	return rows, nil
}

func (r *sqlxTestQuestionRepository) CreateBatch(ctx context.Context, rows []domain.TestQuestion) error {
	exec := GetExecutor(ctx, r.db)
	query := `INSERT INTO test_questions (id, test_id, question_id, order_index, points, attempt_id) VALUES (:1, :2, :3, :4, :5, :6)`
	for i := range rows {
		tq := &rows[i]
		if tq.ID == "" {
			tq.ID = util.NewULID()
		}
		if tq.Points == 0 {
			tq.Points = domain.DefaultPoints
		}
		if _, err := exec.ExecContext(ctx, query,
			tq.ID, tq.TestID, tq.QuestionID, tq.Order, tq.Points, util.PtrToNullString(tq.AttemptID),
		); err != nil {
			return fmt.Errorf("failed to bind question %s to test %s: %w", tq.QuestionID, tq.TestID, err)
		}
	}
	return nil
}

func (r *sqlxTestQuestionRepository) DeleteStatic(ctx context.Context, testID string) error {
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM test_questions WHERE test_id = :1 AND attempt_id IS NULL`, testID); err != nil {
		return fmt.Errorf("failed to clear questions of test %s: %w", testID, err)
	}
	return nil
}

func (r *sqlxTestQuestionRepository) DeleteByTest(ctx context.Context, testID string) error {
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM test_questions WHERE test_id = :1`, testID); err != nil {
		return fmt.Errorf("failed to delete questions of test %s: %w", testID, err)
	}
	return nil
}

func (r *sqlxTestQuestionRepository) CountStatic(ctx context.Context, testID string) (int, error) {
	var n int
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &n,
		`SELECT COUNT(*) FROM test_questions WHERE test_id = :1 AND attempt_id IS NULL`, testID); err != nil {
		return 0, fmt.Errorf("failed to count questions of test %s: %w", testID, err)
	}
	return n, nil
}
