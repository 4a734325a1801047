package domain

import (
	"strings"
	"time"
)

// Test is a timed assessment over either a fixed question list or a sampling rule.
type Test struct {
	ID                   string       `json:"id"`
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	DurationMinutes      int          `json:"duration_minutes"`
	PassingScore         float64      `json:"passing_score"`
	PositionID           *string      `json:"position_id,omitempty"`
	ShipTypeID           *string      `json:"ship_type_id,omitempty"`
	Category             string       `json:"category"`
	Difficulty           Difficulty   `json:"difficulty"`
	Type                 QuestionType `json:"type"`
	IsActive             bool         `json:"is_active"`
	IsRandom             bool         `json:"is_random"`
	RandomQuestionsCount int          `json:"random_questions_count,omitempty"`
	Settings             TestSettings `json:"settings"`
	CreatedBy            string       `json:"created_by,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

type TestSettings struct {
	ShuffleQuestions      bool `json:"shuffle_questions"`
	ShuffleAnswers        bool `json:"shuffle_answers"`
	AllowBack             bool `json:"allow_back"`
	ShowResultImmediately bool `json:"show_result_immediately"`
	// MaxAttempts of 0 means unlimited.
	MaxAttempts int `json:"max_attempts"`
}

// TestQuestion binds a question to a test. AttemptID is set only for rows sampled for one attempt.
type TestQuestion struct {
	ID         string  `json:"id"`
	TestID     string  `json:"test_id"`
	QuestionID string  `json:"question_id"`
	Order      int     `json:"order"`
	Points     float64 `json:"points"`
	AttemptID  *string `json:"attempt_id,omitempty"`
}

// DefaultPoints is the weight of a question when none is given.
const DefaultPoints = 1.0

func (t *Test) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}

// Passed reports whether score meets the test's passing score.
func (t *Test) Passed(score float64) bool {
	return score >= t.PassingScore
}

// EligibilityFilter is the random-mode selection rule derived from the test's scope.
func (t *Test) EligibilityFilter() EligibilityFilter {
	f := EligibilityFilter{
		PositionID: t.PositionID,
		ShipTypeID: t.ShipTypeID,
		Category:   strings.TrimSpace(t.Category),
	}
	if t.Difficulty != DifficultyAll {
		f.Difficulty = t.Difficulty
	}
	return f
}

// EligibilityFilter selects random-test candidates. A question scoped to no position (or ship type)
// is eligible for every position (or ship type). Empty fields do not filter.
type EligibilityFilter struct {
	PositionID *string
	ShipTypeID *string
	Difficulty Difficulty
	Category   string
}

// TestFilter narrows the admin test listing.
type TestFilter struct {
	PositionID string
	ShipTypeID string
	Search     string
}

// CatalogueSort orders the seafarer test catalogue.
type CatalogueSort string

const (
	SortNewest       CatalogueSort = "newest"
	SortOldest       CatalogueSort = "oldest"
	SortDurationAsc  CatalogueSort = "duration_asc"
	SortDurationDesc CatalogueSort = "duration_desc"
)

// CatalogueFilter selects the active tests visible to one crew profile.
type CatalogueFilter struct {
	PositionID *string
	ShipTypeID *string
	Search     string
	Type       QuestionType
	Difficulty Difficulty
	Sort       CatalogueSort
}
