package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"crew-exam/internal/domain"
	"crew-exam/internal/repository/models"
	"crew-exam/internal/util"
)

const testSelect = `SELECT t.id, t.title, t.description, t.duration_minutes, t.passing_score, t.position_id,
	t.ship_type_id, t.category, t.difficulty, t.type, t.is_active, t.is_random, t.random_questions_count,
	t.created_by, t.created_at, t.updated_at, s.shuffle_questions, s.shuffle_answers, s.allow_back,
	s.show_result_immediately, s.max_attempts
	FROM tests t LEFT JOIN test_settings s ON s.test_id = t.id`

// TestDatabaseAdapter implements domain.TestRepository. Settings live in TEST_SETTINGS, one row per test.
type TestDatabaseAdapter struct {
	db DBTX
}

func NewTestDatabaseAdapter(db DBTX) domain.TestRepository {
	return &TestDatabaseAdapter{db: db}
}

func toDomainTest(m *models.Test) *domain.Test {
	if m == nil {
		return nil
	}
	t := &domain.Test{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		DurationMinutes: m.DurationMinutes,
		PassingScore:    m.PassingScore,
		PositionID:      util.NullStringToPtr(m.PositionID),
		ShipTypeID:      util.NullStringToPtr(m.ShipTypeID),
		Category:        m.Category,
		Difficulty:      domain.Difficulty(m.Difficulty),
		Type:            domain.QuestionType(m.Type),
		IsActive:        m.IsActive,
		IsRandom:        m.IsRandom,
		CreatedBy:       m.CreatedBy.String,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		Settings: domain.TestSettings{
			ShuffleQuestions:      m.ShuffleQuestions.Bool,
			ShuffleAnswers:        m.ShuffleAnswers.Bool,
			AllowBack:             !m.AllowBack.Valid || m.AllowBack.Bool,
			ShowResultImmediately: !m.ShowResultImmediately.Valid || m.ShowResultImmediately.Bool,
			MaxAttempts:           int(m.MaxAttempts.Int64),
		},
	}
	if m.RandomQuestionsCount.Valid {
		t.RandomQuestionsCount = int(m.RandomQuestionsCount.Int64)
	}
	return t
}

func fromDomainTest(t *domain.Test) *models.Test {
	m := &models.Test{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		DurationMinutes: t.DurationMinutes,
		PassingScore:    t.PassingScore,
		PositionID:      util.PtrToNullString(t.PositionID),
		ShipTypeID:      util.PtrToNullString(t.ShipTypeID),
		Category:        t.Category,
		Difficulty:      string(t.Difficulty),
		Type:            string(t.Type),
		IsActive:        t.IsActive,
		IsRandom:        t.IsRandom,
		CreatedBy:       util.StringToNullString(t.CreatedBy),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	if t.IsRandom {
		m.RandomQuestionsCount = sql.NullInt64{Int64: int64(t.RandomQuestionsCount), Valid: true}
	}
	return m
}

func (r *TestDatabaseAdapter) Create(ctx context.Context, t *domain.Test) error {
	if t.ID == "" {
		t.ID = util.NewULID()
	}
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	m := fromDomainTest(t)
	exec := GetExecutor(ctx, r.db)

	query := `INSERT INTO tests (
		id, title, description, duration_minutes, passing_score, position_id, ship_type_id, category,
		difficulty, type, is_active, is_random, random_questions_count, created_by, created_at, updated_at
	) VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12, :13, :14, :15, :16)`
	_, err := exec.ExecContext(ctx, query,
		m.ID, m.Title, m.Description, m.DurationMinutes, m.PassingScore, m.PositionID, m.ShipTypeID, m.Category,
		m.Difficulty, m.Type, util.BoolToNumber(m.IsActive), util.BoolToNumber(m.IsRandom), m.RandomQuestionsCount,
		m.CreatedBy, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save test: %w", err)
	}

	if err := r.insertSettings(ctx, exec, t.ID, t.Settings); err != nil {
		return err
	}
	return nil
}

func (r *TestDatabaseAdapter) insertSettings(ctx context.Context, exec DBTX, testID string, s domain.TestSettings) error {
	query := `INSERT INTO test_settings (
		test_id, shuffle_questions, shuffle_answers, allow_back, show_result_immediately, max_attempts
	) VALUES (:1, :2, :3, :4, :5, :6)`
	_, err := exec.ExecContext(ctx, query,
		testID,
		util.BoolToNumber(s.ShuffleQuestions),
		util.BoolToNumber(s.ShuffleAnswers),
		util.BoolToNumber(s.AllowBack),
		util.BoolToNumber(s.ShowResultImmediately),
		s.MaxAttempts,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings of test %s: %w", testID, err)
	}
	return nil
}

func (r *TestDatabaseAdapter) Update(ctx context.Context, t *domain.Test) error {
	t.UpdatedAt = time.Now()
	m := fromDomainTest(t)
	exec := GetExecutor(ctx, r.db)

	query := `UPDATE tests SET
		title = :1,
		description = :2,
		duration_minutes = :3,
		passing_score = :4,
		position_id = :5,
		ship_type_id = :6,
		category = :7,
		difficulty = :8,
		type = :9,
		is_active = :10,
		is_random = :11,
		random_questions_count = :12,
		updated_at = :13
	WHERE id = :14`
	result, err := exec.ExecContext(ctx, query,
		m.Title, m.Description, m.DurationMinutes, m.PassingScore, m.PositionID, m.ShipTypeID, m.Category,
		m.Difficulty, m.Type, util.BoolToNumber(m.IsActive), util.BoolToNumber(m.IsRandom), m.RandomQuestionsCount,
		m.UpdatedAt, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update test: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("test %s not updated: %w", t.ID, sql.ErrNoRows)
	}

	settingsQuery := `UPDATE test_settings SET
		shuffle_questions = :1,
		shuffle_answers = :2,
		allow_back = :3,
		show_result_immediately = :4,
		max_attempts = :5
	WHERE test_id = :6`
	s := t.Settings
	result, err = exec.ExecContext(ctx, settingsQuery,
		util.BoolToNumber(s.ShuffleQuestions),
		util.BoolToNumber(s.ShuffleAnswers),
		util.BoolToNumber(s.AllowBack),
		util.BoolToNumber(s.ShowResultImmediately),
		s.MaxAttempts,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings of test %s: %w", t.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return r.insertSettings(ctx, exec, t.ID, s)
	}
	return nil
}

func (r *TestDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Test, error) {
	return r.get(ctx, testSelect+" WHERE t.id = :1", id)
}

func (r *TestDatabaseAdapter) GetByIDForUpdate(ctx context.Context, id string) (*domain.Test, error) {
	return r.get(ctx, testSelect+" WHERE t.id = :1 FOR UPDATE OF t.id", id)
}

func (r *TestDatabaseAdapter) get(ctx context.Context, query, id string) (*domain.Test, error) {
	var m models.Test
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get test by ID %s: %w", id, err)
	}
	return toDomainTest(&m), nil
}

func (r *TestDatabaseAdapter) List(ctx context.Context, filter domain.TestFilter, page domain.Page) ([]*domain.Test, int, error) {
	b := &binder{}
	var where []string
	if filter.PositionID != "" {
		where = append(where, "t.position_id = "+b.bind(filter.PositionID))
	}
	if filter.ShipTypeID != "" {
		where = append(where, "t.ship_type_id = "+b.bind(filter.ShipTypeID))
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		pattern := "%" + s + "%"
		where = append(where, fmt.Sprintf("(LOWER(t.title) LIKE %s OR LOWER(t.description) LIKE %s)", b.bind(pattern), b.bind(pattern)))
	}
	return r.selectPage(ctx, where, b, "t.created_at DESC, t.id", page)
}

// ListAvailable returns active tests open to the profile. A test scoped to a position (or ship type)
// is only visible to crew with that exact position (or ship type).
func (r *TestDatabaseAdapter) ListAvailable(ctx context.Context, filter domain.CatalogueFilter, page domain.Page) ([]*domain.Test, int, error) {
	b := &binder{}
	where := []string{"t.is_active = 1"}
	if filter.PositionID != nil && *filter.PositionID != "" {
		where = append(where, fmt.Sprintf("(t.position_id = %s OR t.position_id IS NULL)", b.bind(*filter.PositionID)))
	} else {
		where = append(where, "t.position_id IS NULL")
	}
	if filter.ShipTypeID != nil && *filter.ShipTypeID != "" {
		where = append(where, fmt.Sprintf("(t.ship_type_id = %s OR t.ship_type_id IS NULL)", b.bind(*filter.ShipTypeID)))
	} else {
		where = append(where, "t.ship_type_id IS NULL")
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		pattern := "%" + s + "%"
		where = append(where, fmt.Sprintf("(LOWER(t.title) LIKE %s OR LOWER(t.description) LIKE %s OR LOWER(t.category) LIKE %s)",
			b.bind(pattern), b.bind(pattern), b.bind(pattern)))
	}
	if filter.Type != "" {
		where = append(where, "t.type = "+b.bind(string(filter.Type)))
	}
	if filter.Difficulty != "" {
		where = append(where, "t.difficulty = "+b.bind(string(filter.Difficulty)))
	}

	orderBy := "t.created_at DESC, t.id"
	switch filter.Sort {
	case domain.SortOldest:
		orderBy = "t.created_at ASC, t.id"
	case domain.SortDurationAsc:
		orderBy = "t.duration_minutes ASC, t.id"
	case domain.SortDurationDesc:
		orderBy = "t.duration_minutes DESC, t.id"
	}
	return r.selectPage(ctx, where, b, orderBy, page)
}

func (r *TestDatabaseAdapter) selectPage(ctx context.Context, where []string, b *binder, orderBy string, page domain.Page) ([]*domain.Test, int, error) {
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}
	exec := GetExecutor(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, "SELECT COUNT(*) FROM tests t"+whereSQL, b.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count tests: %w", err)
	}

	var rows []models.Test
	query := fmt.Sprintf("%s%s ORDER BY %s %s", testSelect, whereSQL, orderBy, pageClause(page))
	if err := exec.SelectContext(ctx, &rows, query, b.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list tests: %w", err)
	}

	tests := make([]*domain.Test, len(rows))
	for i := range rows {
		tests[i] = toDomainTest(&rows[i])
	}
	return tests, total, nil
}

func (r *TestDatabaseAdapter) SetActive(ctx context.Context, id string, active bool) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx,
		`UPDATE tests SET is_active = :1, updated_at = :2 WHERE id = :3`,
		util.BoolToNumber(active), time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to toggle test %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("test %s not toggled: %w", id, sql.ErrNoRows)
	}
	return nil
}

// Delete removes the settings row and the test row. Question bindings are removed by the caller first.
func (r *TestDatabaseAdapter) Delete(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM test_settings WHERE test_id = :1`, id); err != nil {
		return fmt.Errorf("failed to delete settings of test %s: %w", id, err)
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM tests WHERE id = :1`, id); err != nil {
		return fmt.Errorf("failed to delete test %s: %w", id, err)
	}
	return nil
}
