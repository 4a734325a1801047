package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crew-exam/internal/domain"
	"crew-exam/internal/repository/models"
	"crew-exam/internal/util"
)

const responseColumns = `id, attempt_id, question_id, answer_id, text_response, score, status, is_marked, created_at`

type sqlxResponseRepository struct {
	db DBTX
}

func NewSQLXResponseRepository(db DBTX) domain.ResponseRepository {
	return &sqlxResponseRepository{db: db}
}

func toDomainResponse(m *models.UserResponse) domain.UserResponse {
	return domain.UserResponse{
		ID:           m.ID,
		AttemptID:    m.AttemptID,
		QuestionID:   m.QuestionID,
		AnswerID:     util.NullStringToPtr(m.AnswerID),
		TextResponse: util.NullStringToPtr(m.TextResponse),
		Score:        util.NullFloat64ToPtr(m.Score),
		Status:       domain.ResponseStatus(m.Status),
		IsMarked:     m.IsMarked,
		CreatedAt:    m.CreatedAt,
	}
}

func (r *sqlxResponseRepository) CreateBatch(ctx context.Context, responses []domain.UserResponse) error {
	exec := GetExecutor(ctx, r.db)
	query := `INSERT INTO user_responses (id, attempt_id, question_id, answer_id, text_response, score, status, is_marked, created_at)
		VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`
	now := time.Now()
	for i := range responses {
		resp := &responses[i]
		if resp.ID == "" {
			resp.ID = util.NewULID()
		}
		if resp.CreatedAt.IsZero() {
			resp.CreatedAt = now
		}
		if _, err := exec.ExecContext(ctx, query,
			resp.ID, resp.AttemptID, resp.QuestionID,
			util.PtrToNullString(resp.AnswerID), util.PtrToNullString(resp.TextResponse), util.PtrToNullFloat64(resp.Score),
			string(resp.Status), util.BoolToNumber(resp.IsMarked), resp.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to save response to question %s: %w", resp.QuestionID, err)
		}
	}
	return nil
}

func (r *sqlxResponseRepository) ListByAttempt(ctx context.Context, attemptID string) ([]domain.UserResponse, error) {
	var rows []models.UserResponse
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows,
		`SELECT `+responseColumns+` FROM user_responses WHERE attempt_id = :1 ORDER BY created_at, id`, attemptID); err != nil {
		return nil, fmt.Errorf("failed to list responses of attempt %s: %w", attemptID, err)
	}
	out := make([]domain.UserResponse, len(rows))
	for i := range rows {
		out[i] = toDomainResponse(&rows[i])
	}
	return out, nil
}

func (r *sqlxResponseRepository) GetByID(ctx context.Context, id string) (*domain.UserResponse, error) {
	var m models.UserResponse
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m,
		`SELECT `+responseColumns+` FROM user_responses WHERE id = :1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get response by ID %s: %w", id, err)
	}
	resp := toDomainResponse(&m)
	return &resp, nil
}

func (r *sqlxResponseRepository) Grade(ctx context.Context, id string, score float64) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx,
		`UPDATE user_responses SET score = :1, status = :2, is_marked = 1 WHERE id = :3`, score, string(domain.ResponseGraded), id)
	if err != nil {
		return fmt.Errorf("failed to grade response %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("response %s not graded: %w", id, sql.ErrNoRows)
	}
	return nil
}
