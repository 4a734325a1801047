package service

import (
	"strings"

	"crew-exam/internal/domain"
	"crew-exam/internal/util"
)

// ScoreItem is the graded outcome of one assembled question.
type ScoreItem struct {
	QuestionID   string
	Order        int
	AnswerID     *string
	TextResponse *string
	Score        *float64
	Status       domain.ResponseStatus
}

// ScoreResult is the aggregate over an attempt's assembled questions.
type ScoreResult struct {
	Correct    int
	Total      int
	Pending    int
	Unanswered int
	Percentage float64
	Items      []ScoreItem
}

// Score grades submitted answers against the assembled list. Multiple choice scores 1 or 0;
// free-text items keep a nil score until graded by hand but still count in Total.
// Answers for questions outside the list are ignored.
func Score(questions []domain.AssembledQuestion, submitted map[string]domain.SubmittedAnswer) ScoreResult {
	res := ScoreResult{Total: len(questions), Items: make([]ScoreItem, 0, len(questions))}

	for _, aq := range questions {
		q := aq.Question
		item := ScoreItem{QuestionID: q.ID, Order: aq.Order}
		ans, given := submitted[q.ID]

		switch {
		case q.Type.AutoGradable():
			if !given || ans.AnswerID == "" {
				item.Status = domain.ResponseUnanswered
				item.Score = floatPtr(0)
				res.Unanswered++
				break
			}
			answerID := ans.AnswerID
			item.AnswerID = &answerID
			if q.HasAnswer(answerID) && q.CorrectAnswerID() == answerID {
				item.Status = domain.ResponseCorrect
				item.Score = floatPtr(1)
				res.Correct++
			} else {
				item.Status = domain.ResponseIncorrect
				item.Score = floatPtr(0)
			}
		default:
			text := strings.TrimSpace(ans.TextResponse)
			if !given || text == "" {
				item.Status = domain.ResponseUnanswered
				item.Score = floatPtr(0)
				res.Unanswered++
				break
			}
			item.TextResponse = &text
			item.Status = domain.ResponsePendingReview
			res.Pending++
		}
		res.Items = append(res.Items, item)
	}

	res.Percentage = util.Percentage(float64(res.Correct), float64(res.Total))
	return res
}

// ExpiredResult records every question unanswered with score 0.
func ExpiredResult(questions []domain.AssembledQuestion) ScoreResult {
	return Score(questions, nil)
}

// Regrade recomputes an attempt percentage from its per-item scores once some were graded by hand.
func Regrade(responses []domain.UserResponse, total int) float64 {
	sum := 0.0
	for _, r := range responses {
		if r.Score != nil {
			sum += *r.Score
		}
	}
	return util.Percentage(sum, float64(total))
}

func floatPtr(f float64) *float64 {
	return &f
}
