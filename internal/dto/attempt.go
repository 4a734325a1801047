package dto

import (
	"time"

	"crew-exam/internal/domain"
)

// PresentedAnswer is an option as shown during an attempt, without its correctness flag.
type PresentedAnswer struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type PresentedQuestion struct {
	ID         string            `json:"id"`
	Order      int               `json:"order"`
	Points     float64           `json:"points"`
	Content    string            `json:"content"`
	Type       string            `json:"type"`
	Difficulty string            `json:"difficulty"`
	Answers    []PresentedAnswer `json:"answers,omitempty"`
}

func NewPresentedQuestion(aq domain.AssembledQuestion) PresentedQuestion {
	pq := PresentedQuestion{
		ID:         aq.Question.ID,
		Order:      aq.Order,
		Points:     aq.Points,
		Content:    aq.Question.Content,
		Type:       string(aq.Question.Type),
		Difficulty: string(aq.Question.Difficulty),
	}
	for _, a := range aq.Question.Answers {
		pq.Answers = append(pq.Answers, PresentedAnswer{ID: a.ID, Content: a.Content})
	}
	return pq
}

// AttemptResponse is an attempt in progress with its presented questions.
// @Description Attempt with the questions presented to the seafarer
type AttemptResponse struct {
	Attempt          AttemptSummary      `json:"attempt"`
	TestTitle        string              `json:"test_title"`
	AllowBack        bool                `json:"allow_back"`
	RemainingSeconds int64               `json:"remaining_seconds"`
	Questions        []PresentedQuestion `json:"questions"`
}

// SubmitRequest maps question id to the submitted answer.
// @Description Responses keyed by question id
type SubmitRequest struct {
	Responses map[string]domain.SubmittedAnswer `json:"responses"`
}

// GradeRequest sets the score of a pending free-text response.
// @Description Manual grade between 0 and 1
type GradeRequest struct {
	Score float64 `json:"score" validate:"min=0,max=1"`
}

// ResultItem is one question of a finished attempt.
type ResultItem struct {
	ResponseID      string   `json:"response_id"`
	QuestionID      string   `json:"question_id"`
	Order           int      `json:"order"`
	Content         string   `json:"content"`
	Type            string   `json:"type"`
	Status          string   `json:"status"`
	Score           *float64 `json:"score,omitempty"`
	AnswerID        *string  `json:"answer_id,omitempty"`
	TextResponse    *string  `json:"text_response,omitempty"`
	CorrectAnswerID string   `json:"correct_answer_id,omitempty"`
	Explanation     string   `json:"explanation,omitempty"`
}

// AttemptResult represents a finished attempt.
// @Description Result of a finished attempt
type AttemptResult struct {
	Attempt       AttemptSummary `json:"attempt"`
	TestID        string         `json:"test_id"`
	TestTitle     string         `json:"test_title"`
	PassingScore  float64        `json:"passing_score"`
	Score         float64        `json:"score"`
	Passed        bool           `json:"passed"`
	Correct       int            `json:"correct"`
	Total         int            `json:"total"`
	PendingReview int            `json:"pending_review"`
	Unanswered    int            `json:"unanswered"`
	Revealed      bool           `json:"revealed"`
	Items         []ResultItem   `json:"items"`
	FinishedAt    *time.Time     `json:"finished_at,omitempty"`
}
