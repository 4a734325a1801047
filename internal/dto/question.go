package dto

import (
	"time"

	"crew-exam/internal/domain"
)

// AnswerRequest is one option of a multiple choice question. ID names an existing option to
// keep; options without one are added.
type AnswerRequest struct {
	ID          string `json:"id,omitempty" validate:"omitempty,ulid"`
	Content     string `json:"content"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
}

// QuestionRequest represents the body of question create and update calls.
// @Description Request body for creating or updating a question
type QuestionRequest struct {
	Content     string          `json:"content" validate:"required"`
	Type        string          `json:"type" validate:"required"`
	Difficulty  string          `json:"difficulty" validate:"required"`
	PositionID  *string         `json:"position_id,omitempty" validate:"omitempty,ulid"`
	ShipTypeID  *string         `json:"ship_type_id,omitempty" validate:"omitempty,ulid"`
	CategoryID  string          `json:"category_id" validate:"required,ulid"`
	Explanation string          `json:"explanation,omitempty"`
	Answers     []AnswerRequest `json:"answers,omitempty" validate:"omitempty,dive"`
}

// ToDomain builds the question; type and difficulty accept either codes or display labels.
func (r *QuestionRequest) ToDomain() *domain.Question {
	q := &domain.Question{
		Content:     r.Content,
		Type:        domain.QuestionType(r.Type),
		Difficulty:  domain.Difficulty(r.Difficulty),
		PositionID:  emptyToNil(r.PositionID),
		ShipTypeID:  emptyToNil(r.ShipTypeID),
		CategoryID:  r.CategoryID,
		Explanation: r.Explanation,
	}
	if t, ok := domain.ParseQuestionType(r.Type); ok {
		q.Type = t
	}
	if d, ok := domain.ParseDifficulty(r.Difficulty); ok {
		q.Difficulty = d
	}
	for i, a := range r.Answers {
		q.Answers = append(q.Answers, domain.Answer{
			ID:          a.ID,
			Content:     a.Content,
			IsCorrect:   a.IsCorrect,
			Explanation: a.Explanation,
			Position:    i + 1,
		})
	}
	return q
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// QuestionQuery holds the admin question list filters.
type QuestionQuery struct {
	PositionID string `query:"position_id"`
	ShipTypeID string `query:"ship_type_id"`
	CategoryID string `query:"category_id"`
	Type       string `query:"type"`
	Search     string `query:"search"`
}

func (q QuestionQuery) ToFilter() domain.QuestionFilter {
	f := domain.QuestionFilter{
		PositionID: q.PositionID,
		ShipTypeID: q.ShipTypeID,
		CategoryID: q.CategoryID,
		Search:     q.Search,
	}
	if t, ok := domain.ParseQuestionType(q.Type); ok {
		f.Type = t
	}
	return f
}

// EligibilityQuery previews how many questions a random rule would match.
type EligibilityQuery struct {
	PositionID string `query:"position_id"`
	ShipTypeID string `query:"ship_type_id"`
	Difficulty string `query:"difficulty"`
	Category   string `query:"category"`
}

func (q EligibilityQuery) ToFilter() domain.EligibilityFilter {
	t := domain.Test{
		PositionID: emptyToNil(&q.PositionID),
		ShipTypeID: emptyToNil(&q.ShipTypeID),
		Difficulty: domain.Difficulty(q.Difficulty),
		Category:   q.Category,
	}
	return t.EligibilityFilter()
}

// CountResponse carries a single count.
type CountResponse struct {
	Count int `json:"count"`
}

type AnswerResponse struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
}

// QuestionResponse represents a bank question for administrators.
// @Description Question with its answer options
type QuestionResponse struct {
	ID              string           `json:"id"`
	Content         string           `json:"content"`
	Type            string           `json:"type"`
	TypeLabel       string           `json:"type_label"`
	Difficulty      string           `json:"difficulty"`
	DifficultyLabel string           `json:"difficulty_label"`
	PositionID      *string          `json:"position_id,omitempty"`
	ShipTypeID      *string          `json:"ship_type_id,omitempty"`
	CategoryID      string           `json:"category_id"`
	CategoryName    string           `json:"category_name"`
	Explanation     string           `json:"explanation,omitempty"`
	Answers         []AnswerResponse `json:"answers"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func NewQuestionResponse(q *domain.Question) QuestionResponse {
	resp := QuestionResponse{
		ID:              q.ID,
		Content:         q.Content,
		Type:            string(q.Type),
		TypeLabel:       q.Type.Label(),
		Difficulty:      string(q.Difficulty),
		DifficultyLabel: q.Difficulty.Label(),
		PositionID:      q.PositionID,
		ShipTypeID:      q.ShipTypeID,
		CategoryID:      q.CategoryID,
		CategoryName:    q.CategoryName,
		Explanation:     q.Explanation,
		Answers:         make([]AnswerResponse, len(q.Answers)),
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
	for i, a := range q.Answers {
		resp.Answers[i] = AnswerResponse{ID: a.ID, Content: a.Content, IsCorrect: a.IsCorrect, Explanation: a.Explanation}
	}
	return resp
}

type QuestionListResponse struct {
	Items          []QuestionResponse `json:"items"`
	PaginationInfo PaginationInfo     `json:"pagination_info"`
}

// ImportSummary reports the outcome of a spreadsheet import.
// @Description Outcome of a question import
type ImportSummary struct {
	ImportedCount int      `json:"imported_count"`
	SkippedCount  int      `json:"skipped_count"`
	ErrorCount    int      `json:"error_count"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
}
