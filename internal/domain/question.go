package domain

import (
	"strings"
	"time"
)

// QuestionType is the kind of a bank question. Only multiple choice is scored automatically.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeEssay          QuestionType = "essay"
	QuestionTypeScenario       QuestionType = "scenario"
	QuestionTypeSimulation     QuestionType = "simulation"
	QuestionTypePractical      QuestionType = "practical"

	// TestTypeMixed labels a test whose questions are of several types.
	TestTypeMixed QuestionType = "mixed"
)

// QuestionTypes lists the bank question types in display order.
var QuestionTypes = []QuestionType{
	QuestionTypeMultipleChoice,
	QuestionTypeEssay,
	QuestionTypeScenario,
	QuestionTypeSimulation,
	QuestionTypePractical,
}

// Labels used by the crewing department spreadsheets.
var questionTypeLabels = map[QuestionType]string{
	QuestionTypeMultipleChoice: "Trắc nghiệm",
	QuestionTypeEssay:          "Tự luận",
	QuestionTypeScenario:       "Tình huống",
	QuestionTypeSimulation:     "Mô phỏng",
	QuestionTypePractical:      "Thực hành",
}

func (t QuestionType) Valid() bool {
	_, ok := questionTypeLabels[t]
	return ok
}

func (t QuestionType) AutoGradable() bool {
	return t == QuestionTypeMultipleChoice
}

// Label returns the spreadsheet label of the type.
func (t QuestionType) Label() string {
	if l, ok := questionTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// ParseQuestionType accepts either the type code or its spreadsheet label, case-insensitively.
func ParseQuestionType(s string) (QuestionType, bool) {
	s = strings.TrimSpace(s)
	for t, label := range questionTypeLabels {
		if strings.EqualFold(s, string(t)) || strings.EqualFold(s, label) {
			return t, true
		}
	}
	return "", false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"

	// DifficultyAll disables the difficulty filter of a random test.
	DifficultyAll Difficulty = "all"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

var difficultyLabels = map[Difficulty]string{
	DifficultyEasy:   "Dễ",
	DifficultyMedium: "Trung bình",
	DifficultyHard:   "Khó",
}

func (d Difficulty) Valid() bool {
	_, ok := difficultyLabels[d]
	return ok
}

func (d Difficulty) Label() string {
	if l, ok := difficultyLabels[d]; ok {
		return l
	}
	return string(d)
}

func ParseDifficulty(s string) (Difficulty, bool) {
	s = strings.TrimSpace(s)
	for d, label := range difficultyLabels {
		if strings.EqualFold(s, string(d)) || strings.EqualFold(s, label) {
			return d, true
		}
	}
	return "", false
}

// Question is a bank item. Multiple choice questions carry their answer options.
type Question struct {
	ID           string       `json:"id"`
	Content      string       `json:"content"`
	Type         QuestionType `json:"type"`
	Difficulty   Difficulty   `json:"difficulty"`
	PositionID   *string      `json:"position_id,omitempty"`
	ShipTypeID   *string      `json:"ship_type_id,omitempty"`
	CategoryID   string       `json:"category_id"`
	CategoryName string       `json:"category_name"`
	Explanation  string       `json:"explanation,omitempty"`
	CreatedBy    string       `json:"created_by,omitempty"`
	Answers      []Answer     `json:"answers,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	DeletedAt    *time.Time   `json:"-"`
}

type Answer struct {
	ID          string `json:"id"`
	QuestionID  string `json:"question_id"`
	Content     string `json:"content"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
	// Position keeps the authored option order (1-based).
	Position int `json:"position"`
}

// Validate checks the invariants every stored question must satisfy.
func (q *Question) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(q.Content) == "" {
		errs = append(errs, NewMissingFieldError("content"))
	}
	if !q.Type.Valid() {
		errs = append(errs, NewInvalidFormatError("type", q.Type))
	}
	if !q.Difficulty.Valid() {
		errs = append(errs, NewInvalidFormatError("difficulty", q.Difficulty))
	}
	if strings.TrimSpace(q.CategoryID) == "" {
		errs = append(errs, NewMissingFieldError("category_id"))
	}

	if q.Type == QuestionTypeMultipleChoice {
		nonEmpty, correct := 0, 0
		for _, a := range q.Answers {
			if strings.TrimSpace(a.Content) == "" {
				errs = append(errs, ValidationError{Field: "answers", Code: CodeMissingField, Message: "answer content is required"})
				continue
			}
			nonEmpty++
			if a.IsCorrect {
				correct++
			}
		}
		if nonEmpty < 2 {
			errs = append(errs, ValidationError{Field: "answers", Code: CodeOutOfRange, Message: "multiple choice questions need at least 2 answers"})
		}
		if correct != 1 {
			errs = append(errs, ValidationError{Field: "answers", Code: CodeInvalidFormat, Message: "exactly one answer must be marked correct"})
		}
	} else if len(q.Answers) > 0 {
		errs = append(errs, ValidationError{Field: "answers", Code: CodeInvalidFormat, Message: "only multiple choice questions have answers"})
	}

	return errs.OrNil()
}

// CorrectAnswerID returns the id of the correct option, or "" when none is marked.
func (q *Question) CorrectAnswerID() string {
	for _, a := range q.Answers {
		if a.IsCorrect {
			return a.ID
		}
	}
	return ""
}

// HasAnswer reports whether answerID is one of this question's options.
func (q *Question) HasAnswer(answerID string) bool {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return true
		}
	}
	return false
}

// QuestionFilter narrows admin question listings and exports.
type QuestionFilter struct {
	PositionID string
	ShipTypeID string
	CategoryID string
	Type       QuestionType
	Search     string
}
