package domain

import "time"

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	// AttemptExpired is a run finalised because it was submitted after its deadline.
	AttemptExpired AttemptStatus = "expired"
)

// TestAttempt is one user's run through one test.
type TestAttempt struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	TestID     string        `json:"test_id"`
	StartTime  time.Time     `json:"start_time"`
	DeadlineAt time.Time     `json:"deadline_at"`
	EndTime    *time.Time    `json:"end_time,omitempty"`
	Status     AttemptStatus `json:"status"`
	Score      *float64      `json:"score,omitempty"`
}

func (a *TestAttempt) IsCompleted() bool {
	return a.Status != AttemptInProgress
}

// Remaining is the time left before the deadline, never negative.
func (a *TestAttempt) Remaining(now time.Time) time.Duration {
	if d := a.DeadlineAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// LateAt reports whether a submission at now falls outside deadline + grace.
func (a *TestAttempt) LateAt(now time.Time, grace time.Duration) bool {
	return now.After(a.DeadlineAt.Add(grace))
}

// ResponseStatus separates unanswered items from those awaiting a human grader.
type ResponseStatus string

const (
	ResponseCorrect       ResponseStatus = "correct"
	ResponseIncorrect     ResponseStatus = "incorrect"
	ResponsePendingReview ResponseStatus = "pending_review"
	ResponseGraded        ResponseStatus = "graded"
	ResponseUnanswered    ResponseStatus = "unanswered"
)

// UserResponse is one answer to one question within one attempt. Rows are append-only
// except for manual grading.
type UserResponse struct {
	ID           string         `json:"id"`
	AttemptID    string         `json:"attempt_id"`
	QuestionID   string         `json:"question_id"`
	AnswerID     *string        `json:"answer_id,omitempty"`
	TextResponse *string        `json:"text_response,omitempty"`
	Score        *float64       `json:"score,omitempty"`
	Status       ResponseStatus `json:"status"`
	IsMarked     bool           `json:"is_marked"`
	CreatedAt    time.Time      `json:"created_at"`
}

// SubmittedAnswer is what the caller sent for one question.
type SubmittedAnswer struct {
	AnswerID     string `json:"answer_id,omitempty"`
	TextResponse string `json:"text_response,omitempty"`
}

// AssembledQuestion is a question as presented within one attempt.
type AssembledQuestion struct {
	Question Question `json:"question"`
	Order    int      `json:"order"`
	Points   float64  `json:"points"`
}
