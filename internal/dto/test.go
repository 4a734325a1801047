package dto

import (
	"time"

	"crew-exam/internal/domain"
)

// TestMode tags which selection variant a test request carries.
type TestMode string

const (
	TestModeFixed  TestMode = "fixed"
	TestModeRandom TestMode = "random"
)

// FixedSelection lists the authored questions in presentation order.
type FixedSelection struct {
	QuestionIDs []string `json:"question_ids"`
	// Points overrides the default weight of 1.0 per question id.
	Points map[string]float64 `json:"points,omitempty"`
}

// RandomSelection samples Count questions per attempt.
type RandomSelection struct {
	Count int `json:"count"`
}

type TestSettingsRequest struct {
	ShuffleQuestions      bool  `json:"shuffle_questions"`
	ShuffleAnswers        bool  `json:"shuffle_answers"`
	AllowBack             *bool `json:"allow_back,omitempty"`
	ShowResultImmediately *bool `json:"show_result_immediately,omitempty"`
	MaxAttempts           int   `json:"max_attempts" validate:"min=0,max=100"`
}

// TestRequest represents the body of test create and update calls. Exactly one of Fixed or
// Random is read, chosen by Mode.
// @Description Request body for creating or updating a test
type TestRequest struct {
	Mode            TestMode            `json:"mode" validate:"required,oneof=fixed random"`
	Title           string              `json:"title" validate:"required,max=255"`
	Description     string              `json:"description" validate:"required"`
	DurationMinutes int                 `json:"duration_minutes" validate:"min=5,max=180"`
	PassingScore    float64             `json:"passing_score" validate:"min=0,max=100"`
	PositionID      *string             `json:"position_id,omitempty" validate:"omitempty,ulid"`
	ShipTypeID      *string             `json:"ship_type_id,omitempty" validate:"omitempty,ulid"`
	Category        string              `json:"category" validate:"required,max=50"`
	Difficulty      string              `json:"difficulty" validate:"required,oneof=easy medium hard all"`
	Type            string              `json:"type" validate:"required,oneof=multiple_choice essay scenario simulation practical mixed"`
	IsActive        *bool               `json:"is_active,omitempty"`
	Settings        TestSettingsRequest `json:"settings"`
	Fixed           *FixedSelection     `json:"fixed,omitempty"`
	Random          *RandomSelection    `json:"random,omitempty"`
}

// ToDomain maps the common fields; question bindings are built by the service.
func (r *TestRequest) ToDomain() *domain.Test {
	t := &domain.Test{
		Title:           r.Title,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		PassingScore:    r.PassingScore,
		PositionID:      emptyToNil(r.PositionID),
		ShipTypeID:      emptyToNil(r.ShipTypeID),
		Category:        r.Category,
		Difficulty:      domain.Difficulty(r.Difficulty),
		Type:            domain.QuestionType(r.Type),
		IsActive:        r.IsActive == nil || *r.IsActive,
		IsRandom:        r.Mode == TestModeRandom,
		Settings: domain.TestSettings{
			ShuffleQuestions:      r.Settings.ShuffleQuestions,
			ShuffleAnswers:        r.Settings.ShuffleAnswers,
			AllowBack:             r.Settings.AllowBack == nil || *r.Settings.AllowBack,
			ShowResultImmediately: r.Settings.ShowResultImmediately == nil || *r.Settings.ShowResultImmediately,
			MaxAttempts:           r.Settings.MaxAttempts,
		},
	}
	if t.IsRandom && r.Random != nil {
		t.RandomQuestionsCount = r.Random.Count
	}
	return t
}

// Bindings returns the fixed-mode question rows in request order.
func (r *TestRequest) Bindings() []domain.TestQuestion {
	if r.Mode != TestModeFixed || r.Fixed == nil {
		return nil
	}
	rows := make([]domain.TestQuestion, len(r.Fixed.QuestionIDs))
	for i, id := range r.Fixed.QuestionIDs {
		points := domain.DefaultPoints
		if p, ok := r.Fixed.Points[id]; ok && p > 0 {
			points = p
		}
		rows[i] = domain.TestQuestion{QuestionID: id, Order: i + 1, Points: points}
	}
	return rows
}

// TestQuery holds the admin test list filters.
type TestQuery struct {
	PositionID string `query:"position_id"`
	ShipTypeID string `query:"ship_type_id"`
	Search     string `query:"search"`
}

// CatalogueQuery holds the seafarer catalogue filters.
type CatalogueQuery struct {
	Search     string `query:"search"`
	Type       string `query:"type"`
	Difficulty string `query:"difficulty"`
	Sort       string `query:"sort"`
}

type TestQuestionResponse struct {
	QuestionID string           `json:"question_id"`
	Order      int              `json:"order"`
	Points     float64          `json:"points"`
	Question   QuestionResponse `json:"question"`
}

// TestResponse represents a test definition.
// @Description Test definition with its settings
type TestResponse struct {
	ID                   string                 `json:"id"`
	Title                string                 `json:"title"`
	Description          string                 `json:"description"`
	DurationMinutes      int                    `json:"duration_minutes"`
	PassingScore         float64                `json:"passing_score"`
	PositionID           *string                `json:"position_id,omitempty"`
	ShipTypeID           *string                `json:"ship_type_id,omitempty"`
	Category             string                 `json:"category"`
	Difficulty           string                 `json:"difficulty"`
	Type                 string                 `json:"type"`
	Mode                 TestMode               `json:"mode"`
	IsActive             bool                   `json:"is_active"`
	RandomQuestionsCount int                    `json:"random_questions_count,omitempty"`
	QuestionCount        int                    `json:"question_count"`
	Settings             domain.TestSettings    `json:"settings"`
	Questions            []TestQuestionResponse `json:"questions,omitempty"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

func NewTestResponse(t *domain.Test) TestResponse {
	resp := TestResponse{
		ID:                   t.ID,
		Title:                t.Title,
		Description:          t.Description,
		DurationMinutes:      t.DurationMinutes,
		PassingScore:         t.PassingScore,
		PositionID:           t.PositionID,
		ShipTypeID:           t.ShipTypeID,
		Category:             t.Category,
		Difficulty:           string(t.Difficulty),
		Type:                 string(t.Type),
		Mode:                 TestModeFixed,
		IsActive:             t.IsActive,
		RandomQuestionsCount: t.RandomQuestionsCount,
		Settings:             t.Settings,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
	if t.IsRandom {
		resp.Mode = TestModeRandom
		resp.QuestionCount = t.RandomQuestionsCount
	}
	return resp
}

type TestListResponse struct {
	Items          []TestResponse `json:"items"`
	PaginationInfo PaginationInfo `json:"pagination_info"`
}

// AttemptSummary is one attempt as listed under a test.
type AttemptSummary struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	TestID     string     `json:"test_id"`
	Status     string     `json:"status"`
	StartTime  time.Time  `json:"start_time"`
	DeadlineAt time.Time  `json:"deadline_at"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	Score      *float64   `json:"score,omitempty"`
	Passed     *bool      `json:"passed,omitempty"`
}

func NewAttemptSummary(a *domain.TestAttempt, t *domain.Test) AttemptSummary {
	s := AttemptSummary{
		ID:         a.ID,
		UserID:     a.UserID,
		TestID:     a.TestID,
		Status:     string(a.Status),
		StartTime:  a.StartTime,
		DeadlineAt: a.DeadlineAt,
		EndTime:    a.EndTime,
		Score:      a.Score,
	}
	if t != nil && a.IsCompleted() && a.Score != nil {
		passed := t.Passed(*a.Score)
		s.Passed = &passed
	}
	return s
}

type TestResultsResponse struct {
	Test           TestResponse     `json:"test"`
	Attempts       []AttemptSummary `json:"attempts"`
	PaginationInfo PaginationInfo   `json:"pagination_info"`
}

// ScoreBucket counts completed attempts whose score falls in Label's range.
type ScoreBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TestStatistics aggregates the completed attempts of one test.
// @Description Aggregate statistics over completed attempts
type TestStatistics struct {
	TestID        string        `json:"test_id"`
	TotalAttempts int           `json:"total_attempts"`
	AverageScore  float64       `json:"average_score"`
	HighestScore  float64       `json:"highest_score"`
	LowestScore   float64       `json:"lowest_score"`
	PassCount     int           `json:"pass_count"`
	FailCount     int           `json:"fail_count"`
	PassRate      float64       `json:"pass_rate"`
	Distribution  []ScoreBucket `json:"distribution"`
	Daily         []DailyCount  `json:"daily"`
}

// CatalogueItem is a test offered to a seafarer, with their own attempts on it.
type CatalogueItem struct {
	Test     TestResponse     `json:"test"`
	Attempts []AttemptSummary `json:"attempts"`
}

type CatalogueResponse struct {
	Items          []CatalogueItem `json:"items"`
	PaginationInfo PaginationInfo  `json:"pagination_info"`
}
