package models

import (
	"database/sql"
	"time"
)

// TestAttempt maps TEST_ATTEMPTS.
type TestAttempt struct {
	ID          string          `db:"ID"`
	UserID      string          `db:"USER_ID"`
	TestID      string          `db:"TEST_ID"`
	StartTime   time.Time       `db:"START_TIME"`
	DeadlineAt  time.Time       `db:"DEADLINE_AT"`
	EndTime     sql.NullTime    `db:"END_TIME"`
	Status      string          `db:"STATUS"`
	IsCompleted bool            `db:"IS_COMPLETED"`
	Score       sql.NullFloat64 `db:"SCORE"`
}

// UserResponse maps USER_RESPONSES.
type UserResponse struct {
	ID           string          `db:"ID"`
	AttemptID    string          `db:"ATTEMPT_ID"`
	QuestionID   string          `db:"QUESTION_ID"`
	AnswerID     sql.NullString  `db:"ANSWER_ID"`
	TextResponse sql.NullString  `db:"TEXT_RESPONSE"`
	Score        sql.NullFloat64 `db:"SCORE"`
	Status       string          `db:"STATUS"`
	IsMarked     bool            `db:"IS_MARKED"`
	CreatedAt    time.Time       `db:"CREATED_AT"`
}
