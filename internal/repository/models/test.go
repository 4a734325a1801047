package models

import (
	"database/sql"
	"time"
)

// Test is a TESTS row joined with its TEST_SETTINGS row.
type Test struct {
	ID                   string         `db:"ID"`
	Title                string         `db:"TITLE"`
	Description          string         `db:"DESCRIPTION"`
	DurationMinutes      int            `db:"DURATION_MINUTES"`
	PassingScore         float64        `db:"PASSING_SCORE"`
	PositionID           sql.NullString `db:"POSITION_ID"`
	ShipTypeID           sql.NullString `db:"SHIP_TYPE_ID"`
	Category             string         `db:"CATEGORY"`
	Difficulty           string         `db:"DIFFICULTY"`
	Type                 string         `db:"TYPE"`
	IsActive             bool           `db:"IS_ACTIVE"`
	IsRandom             bool           `db:"IS_RANDOM"`
	RandomQuestionsCount sql.NullInt64  `db:"RANDOM_QUESTIONS_COUNT"`
	CreatedBy            sql.NullString `db:"CREATED_BY"`
	CreatedAt            time.Time      `db:"CREATED_AT"`
	UpdatedAt            time.Time      `db:"UPDATED_AT"`

	ShuffleQuestions      sql.NullBool  `db:"SHUFFLE_QUESTIONS"`
	ShuffleAnswers        sql.NullBool  `db:"SHUFFLE_ANSWERS"`
	AllowBack             sql.NullBool  `db:"ALLOW_BACK"`
	ShowResultImmediately sql.NullBool  `db:"SHOW_RESULT_IMMEDIATELY"`
	MaxAttempts           sql.NullInt64 `db:"MAX_ATTEMPTS"`
}

// TestQuestion maps TEST_QUESTIONS. ATTEMPT_ID is set for rows sampled for one attempt.
type TestQuestion struct {
	ID         string         `db:"ID"`
	TestID     string         `db:"TEST_ID"`
	QuestionID string         `db:"QUESTION_ID"`
	OrderIndex int            `db:"ORDER_INDEX"`
	Points     float64        `db:"POINTS"`
	AttemptID  sql.NullString `db:"ATTEMPT_ID"`
}
