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

// Oracle rejects IN lists longer than 1000 elements.
const maxInList = 1000

const questionColumns = `q.id, q.content, q.type, q.difficulty, q.position_id, q.ship_type_id, q.category_id,
	q.category_name, q.explanation, q.created_by, q.created_at, q.updated_at, q.deleted_at`

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.
type QuestionDatabaseAdapter struct {
	db DBTX
}

func NewQuestionDatabaseAdapter(db DBTX) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:           m.ID,
		Content:      m.Content,
		Type:         domain.QuestionType(m.Type),
		Difficulty:   domain.Difficulty(m.Difficulty),
		PositionID:   util.NullStringToPtr(m.PositionID),
		ShipTypeID:   util.NullStringToPtr(m.ShipTypeID),
		CategoryID:   m.CategoryID.String,
		CategoryName: m.CategoryName.String,
		Explanation:  m.Explanation.String,
		CreatedBy:    m.CreatedBy.String,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		DeletedAt:    util.NullTimeToPtr(m.DeletedAt),
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	if q == nil {
		return nil
	}
	return &models.Question{
		ID:           q.ID,
		Content:      q.Content,
		Type:         string(q.Type),
		Difficulty:   string(q.Difficulty),
		PositionID:   util.PtrToNullString(q.PositionID),
		ShipTypeID:   util.PtrToNullString(q.ShipTypeID),
		CategoryID:   util.StringToNullString(q.CategoryID),
		CategoryName: util.StringToNullString(q.CategoryName),
		Explanation:  util.StringToNullString(q.Explanation),
		CreatedBy:    util.StringToNullString(q.CreatedBy),
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
		DeletedAt:    util.PtrToNullTime(q.DeletedAt),
	}
}

func toDomainAnswer(m *models.Answer) domain.Answer {
	return domain.Answer{
		ID:          m.ID,
		QuestionID:  m.QuestionID,
		Content:     m.Content,
		IsCorrect:   m.IsCorrect,
		Explanation: m.Explanation.String,
		Position:    m.Position,
	}
}

func chunkStrings(ids []string, size int) [][]string {
	var chunks [][]string
	for size < len(ids) {
		ids, chunks = ids[size:], append(chunks, ids[:size])
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

func (a *QuestionDatabaseAdapter) Create(ctx context.Context, q *domain.Question) error {
	if q.ID == "" {
		q.ID = util.NewULID()
	}
	now := time.Now()
	q.CreatedAt, q.UpdatedAt = now, now
	m := fromDomainQuestion(q)

	query := `INSERT INTO questions (
		id, content, type, difficulty, position_id, ship_type_id, category_id,
		category_name, explanation, created_by, created_at, updated_at
	) VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		m.ID, m.Content, m.Type, m.Difficulty, m.PositionID, m.ShipTypeID, m.CategoryID,
		m.CategoryName, m.Explanation, m.CreatedBy, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}

func (a *QuestionDatabaseAdapter) Update(ctx context.Context, q *domain.Question) error {
	if q.ID == "" {
		return fmt.Errorf("cannot update question with empty ID")
	}
	q.UpdatedAt = time.Now()
	m := fromDomainQuestion(q)

	query := `UPDATE questions SET
		content = :1,
		type = :2,
		difficulty = :3,
		position_id = :4,
		ship_type_id = :5,
		category_id = :6,
		category_name = :7,
		explanation = :8,
		updated_at = :9
	WHERE id = :10
	AND deleted_at IS NULL`

	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		m.Content, m.Type, m.Difficulty, m.PositionID, m.ShipTypeID, m.CategoryID,
		m.CategoryName, m.Explanation, m.UpdatedAt, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("question %s not updated: %w", q.ID, sql.ErrNoRows)
	}
	return nil
}

func (a *QuestionDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	var m models.Question
	query := `SELECT ` + questionColumns + ` FROM questions q WHERE q.id = :1 AND q.deleted_at IS NULL`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by ID %s: %w", id, err)
	}
	return toDomainQuestion(&m), nil
}

// GetByIDs returns the live questions among ids, in no particular order.
func (a *QuestionDatabaseAdapter) GetByIDs(ctx context.Context, ids []string) ([]*domain.Question, error) {
	return a.getByIDs(ctx, ids, "AND q.deleted_at IS NULL")
}

// GetByIDsWithDeleted also returns soft-deleted rows; attempts that presented them still score them.
func (a *QuestionDatabaseAdapter) GetByIDsWithDeleted(ctx context.Context, ids []string) ([]*domain.Question, error) {
	return a.getByIDs(ctx, ids, "")
}

func (a *QuestionDatabaseAdapter) getByIDs(ctx context.Context, ids []string, extra string) ([]*domain.Question, error) {
	var out []*domain.Question
	for _, chunk := range chunkStrings(ids, maxInList) {
		var rows []models.Question
		query := fmt.Sprintf(`SELECT %s FROM questions q WHERE q.id IN (%s) %s`,
			questionColumns, util.Placeholders(1, len(chunk)), extra)
		args := make([]interface{}, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("failed to get questions by IDs: %w", err)
		}
		for i := range rows {
			out = append(out, toDomainQuestion(&rows[i]))
		}
	}
	return out, nil
}

func (a *QuestionDatabaseAdapter) List(ctx context.Context, filter domain.QuestionFilter, page domain.Page) ([]*domain.Question, int, error) {
	b := &binder{}
	where := []string{"q.deleted_at IS NULL"}
	if filter.PositionID != "" {
		where = append(where, "q.position_id = "+b.bind(filter.PositionID))
	}
	if filter.ShipTypeID != "" {
		where = append(where, "q.ship_type_id = "+b.bind(filter.ShipTypeID))
	}
	if filter.CategoryID != "" {
		where = append(where, "q.category_id = "+b.bind(filter.CategoryID))
	}
	if filter.Type != "" {
		where = append(where, "q.type = "+b.bind(string(filter.Type)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		where = append(where, "LOWER(q.content) LIKE "+b.bind("%"+strings.ToLower(s)+"%"))
	}
	whereSQL := "WHERE " + strings.Join(where, " AND ")

	exec := GetExecutor(ctx, a.db)
	var total int
	if err := exec.GetContext(ctx, &total, "SELECT COUNT(*) FROM questions q "+whereSQL, b.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	var rows []models.Question
	query := fmt.Sprintf("SELECT %s FROM questions q %s ORDER BY q.created_at DESC, q.id %s", questionColumns, whereSQL, pageClause(page))
	if err := exec.SelectContext(ctx, &rows, query, b.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}

	questions := make([]*domain.Question, len(rows))
	for i := range rows {
		questions[i] = toDomainQuestion(&rows[i])
	}
	return questions, total, nil
}

// SoftDelete hides the question from the bank. Answers and historical responses are kept.
func (a *QuestionDatabaseAdapter) SoftDelete(ctx context.Context, id string) error {
	now := time.Now()
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx,
		`UPDATE questions SET deleted_at = :1, updated_at = :2 WHERE id = :3 AND deleted_at IS NULL`,
		now, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete question %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("question %s not deleted: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (a *QuestionDatabaseAdapter) ExistsByContent(ctx context.Context, content string) (bool, error) {
	var n int
	err := GetExecutor(ctx, a.db).GetContext(ctx, &n,
		`SELECT COUNT(*) FROM questions WHERE content = :1 AND deleted_at IS NULL`, content)
	if err != nil {
		return false, fmt.Errorf("failed to check question content: %w", err)
	}
	return n > 0, nil
}

// eligibilityWhere renders the random-test selection rule. Unscoped questions match every
// position and ship type; the category matches on the denormalized name or the category row.
func eligibilityWhere(f domain.EligibilityFilter, b *binder) string {
	where := []string{"q.deleted_at IS NULL"}
	if f.PositionID != nil && *f.PositionID != "" {
		where = append(where, fmt.Sprintf("(q.position_id = %s OR q.position_id IS NULL)", b.bind(*f.PositionID)))
	}
	if f.ShipTypeID != nil && *f.ShipTypeID != "" {
		where = append(where, fmt.Sprintf("(q.ship_type_id = %s OR q.ship_type_id IS NULL)", b.bind(*f.ShipTypeID)))
	}
	if f.Difficulty != "" {
		where = append(where, "q.difficulty = "+b.bind(string(f.Difficulty)))
	}
	if c := strings.ToLower(strings.TrimSpace(f.Category)); c != "" {
		pattern := "%" + c + "%"
		where = append(where, fmt.Sprintf("(LOWER(q.category_name) LIKE %s OR LOWER(c.name) LIKE %s)", b.bind(pattern), b.bind(pattern)))
	}
	return "WHERE " + strings.Join(where, " AND ")
}

func (a *QuestionDatabaseAdapter) CountEligible(ctx context.Context, filter domain.EligibilityFilter) (int, error) {
	b := &binder{}
	query := "SELECT COUNT(*) FROM questions q LEFT JOIN categories c ON c.id = q.category_id " + eligibilityWhere(filter, b)
	var n int
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &n, query, b.args...); err != nil {
		return 0, fmt.Errorf("failed to count eligible questions: %w", err)
	}
	return n, nil
}

// ListEligibleIDs returns candidate ids in a stable order so a seeded sampler is reproducible.
func (a *QuestionDatabaseAdapter) ListEligibleIDs(ctx context.Context, filter domain.EligibilityFilter) ([]string, error) {
	b := &binder{}
	query := "SELECT q.id FROM questions q LEFT JOIN categories c ON c.id = q.category_id " + eligibilityWhere(filter, b) + " ORDER BY q.id"
	var ids []string
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &ids, query, b.args...); err != nil {
		return nil, fmt.Errorf("failed to list eligible questions: %w", err)
	}
	return ids, nil
}

func (a *QuestionDatabaseAdapter) SyncAnswers(ctx context.Context, questionID string, answers []domain.Answer) error {
	exec := GetExecutor(ctx, a.db)

	var existing []string
	if err := exec.SelectContext(ctx, &existing, `SELECT id FROM answers WHERE question_id = :1`, questionID); err != nil {
		return fmt.Errorf("failed to list answers of question %s: %w", questionID, err)
	}
	stale := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		stale[id] = struct{}{}
	}

	updateQuery := `UPDATE answers SET content = :1, is_correct = :2, explanation = :3, position = :4
		WHERE id = :5 AND question_id = :6`
	insertQuery := `INSERT INTO answers (id, question_id, content, is_correct, explanation, position) VALUES (:1, :2, :3, :4, :5, :6)`
	for i := range answers {
		ans := &answers[i]
		ans.QuestionID = questionID
		if ans.Position == 0 {
			ans.Position = i + 1
		}
		if _, keep := stale[ans.ID]; keep {
			delete(stale, ans.ID)
			_, err := exec.ExecContext(ctx, updateQuery,
				ans.Content,
				util.BoolToNumber(ans.IsCorrect),
				util.StringToNullString(ans.Explanation),
				ans.Position,
				ans.ID,
				questionID,
			)
			if err != nil {
				return fmt.Errorf("failed to update answer %s: %w", ans.ID, err)
			}
			continue
		}
		if ans.ID == "" {
			ans.ID = util.NewULID()
		}
		_, err := exec.ExecContext(ctx, insertQuery,
			ans.ID,
			ans.QuestionID,
			ans.Content,
			util.BoolToNumber(ans.IsCorrect),
			util.StringToNullString(ans.Explanation),
			ans.Position,
		)
		if err != nil {
			return fmt.Errorf("failed to save answer for question %s: %w", questionID, err)
		}
	}

	if len(stale) == 0 {
		return nil
	}
	dropped := make([]string, 0, len(stale))
	for _, id := range existing {
		if _, ok := stale[id]; ok {
			dropped = append(dropped, id)
		}
	}
	args := make([]interface{}, len(dropped))
	for i, id := range dropped {
		args[i] = id
	}
	in := util.Placeholders(1, len(dropped))

	var referenced int
	if err := exec.GetContext(ctx, &referenced,
		fmt.Sprintf(`SELECT COUNT(*) FROM user_responses WHERE answer_id IN (%s)`, in), args...); err != nil {
		return fmt.Errorf("failed to check answer usage for question %s: %w", questionID, err)
	}
	if referenced > 0 {
		return fmt.Errorf("question %s: %w", questionID, domain.ErrAnswerInUse)
	}
	if _, err := exec.ExecContext(ctx, fmt.Sprintf(`DELETE FROM answers WHERE id IN (%s)`, in), args...); err != nil {
		return fmt.Errorf("failed to remove answers of question %s: %w", questionID, err)
	}
	return nil
}

func (a *QuestionDatabaseAdapter) GetAnswersByQuestionIDs(ctx context.Context, questionIDs []string) (map[string][]domain.Answer, error) {
	out := make(map[string][]domain.Answer, len(questionIDs))
	for _, chunk := range chunkStrings(questionIDs, maxInList) {
		var rows []models.Answer
		query := fmt.Sprintf(`SELECT id, question_id, content, is_correct, explanation, position
			FROM answers WHERE question_id IN (%s) ORDER BY question_id, position`, util.Placeholders(1, len(chunk)))
		args := make([]interface{}, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("failed to get answers: %w", err)
		}
		for i := range rows {
			out[rows[i].QuestionID] = append(out[rows[i].QuestionID], toDomainAnswer(&rows[i]))
		}
	}
	return out, nil
}
