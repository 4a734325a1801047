package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/logger"

	"go.uber.org/zap"
)

// QuestionService manages the question bank.
type QuestionService interface {
	Create(ctx context.Context, userID string, req *dto.QuestionRequest) (*dto.QuestionResponse, error)
	Update(ctx context.Context, id string, req *dto.QuestionRequest) (*dto.QuestionResponse, error)
	Get(ctx context.Context, id string) (*dto.QuestionResponse, error)
	List(ctx context.Context, query dto.QuestionQuery, p dto.Pagination) (*dto.QuestionListResponse, error)
	Delete(ctx context.Context, id string) error
	CountEligible(ctx context.Context, query dto.EligibilityQuery) (int, error)
}

type questionService struct {
	questions  domain.QuestionRepository
	references domain.ReferenceRepository
	tx         domain.TransactionManager
}

func NewQuestionService(questions domain.QuestionRepository, references domain.ReferenceRepository, tx domain.TransactionManager) QuestionService {
	return &questionService{questions: questions, references: references, tx: tx}
}

func (s *questionService) Create(ctx context.Context, userID string, req *dto.QuestionRequest) (*dto.QuestionResponse, error) {
	q := req.ToDomain()
	q.CreatedBy = userID
	for i := range q.Answers {
		q.Answers[i].ID = ""
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolveReferences(ctx, q); err != nil {
		return nil, err
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.questions.Create(txCtx, q); err != nil {
			return err
		}
		return s.questions.SyncAnswers(txCtx, q.ID, q.Answers)
	})
	if err != nil {
		logger.Get().Error("Failed to create question", zap.Error(err), zap.String("userID", userID))
		return nil, domain.NewInternalError("Failed to create question", err)
	}

	logger.Get().Info("Question created", zap.String("questionID", q.ID), zap.String("type", string(q.Type)))
	resp := dto.NewQuestionResponse(q)
	return &resp, nil
}

// Update replaces the question fields and syncs its answer set. Answers sent with an id keep that
// id, so responses recorded against them still resolve.
func (s *questionService) Update(ctx context.Context, id string, req *dto.QuestionRequest) (*dto.QuestionResponse, error) {
	existing, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get question", err)
	}
	if existing == nil {
		return nil, domain.NewQuestionNotFoundError(id)
	}

	q := req.ToDomain()
	q.ID = existing.ID
	q.CreatedBy = existing.CreatedBy
	q.CreatedAt = existing.CreatedAt
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolveReferences(ctx, q); err != nil {
		return nil, err
	}
	if err := s.checkAnswerIDs(ctx, q); err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.questions.Update(txCtx, q); err != nil {
			return err
		}
		return s.questions.SyncAnswers(txCtx, q.ID, q.Answers)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewQuestionNotFoundError(id)
		}
		if errors.Is(err, domain.ErrAnswerInUse) {
			return nil, domain.NewAnswerInUseError(err)
		}
		logger.Get().Error("Failed to update question", zap.Error(err), zap.String("questionID", id))
		return nil, domain.NewInternalError("Failed to update question", err)
	}

	resp := dto.NewQuestionResponse(q)
	return &resp, nil
}

func (s *questionService) Get(ctx context.Context, id string) (*dto.QuestionResponse, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get question", err)
	}
	if q == nil {
		return nil, domain.NewQuestionNotFoundError(id)
	}
	if err := attachAnswers(ctx, s.questions, []*domain.Question{q}); err != nil {
		return nil, err
	}
	resp := dto.NewQuestionResponse(q)
	return &resp, nil
}

func (s *questionService) List(ctx context.Context, query dto.QuestionQuery, p dto.Pagination) (*dto.QuestionListResponse, error) {
	p = p.Normalize()
	questions, total, err := s.questions.List(ctx, query.ToFilter(), domain.Page{Limit: p.Limit, Offset: p.Offset})
	if err != nil {
		return nil, domain.NewInternalError("Failed to list questions", err)
	}
	if err := attachAnswers(ctx, s.questions, questions); err != nil {
		return nil, err
	}

	items := make([]dto.QuestionResponse, len(questions))
	for i, q := range questions {
		items[i] = dto.NewQuestionResponse(q)
	}
	return &dto.QuestionListResponse{Items: items, PaginationInfo: dto.NewPaginationInfo(total, p)}, nil
}

// Delete hides the question from listings and assembly. Answers and past responses stay.
func (s *questionService) Delete(ctx context.Context, id string) error {
	if err := s.questions.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewQuestionNotFoundError(id)
		}
		return domain.NewInternalError("Failed to delete question", err)
	}
	logger.Get().Info("Question deleted", zap.String("questionID", id))
	return nil
}

func (s *questionService) CountEligible(ctx context.Context, query dto.EligibilityQuery) (int, error) {
	n, err := s.questions.CountEligible(ctx, query.ToFilter())
	if err != nil {
		return 0, domain.NewInternalError("Failed to count eligible questions", err)
	}
	return n, nil
}

// checkAnswerIDs rejects answer ids that are repeated or belong to another question.
func (s *questionService) checkAnswerIDs(ctx context.Context, q *domain.Question) error {
	current, err := s.questions.GetAnswersByQuestionIDs(ctx, []string{q.ID})
	if err != nil {
		return domain.NewInternalError("Failed to load answers", err)
	}
	own := make(map[string]bool, len(current[q.ID]))
	for _, a := range current[q.ID] {
		own[a.ID] = true
	}

	var errs domain.ValidationErrors
	for i, a := range q.Answers {
		if a.ID == "" {
			continue
		}
		field := fmt.Sprintf("answers[%d].id", i)
		free, known := own[a.ID]
		switch {
		case !known:
			errs = append(errs, domain.ValidationError{Field: field, Code: domain.CodeNotFound, Message: "answer does not belong to this question", Value: a.ID})
		case !free:
			errs = append(errs, domain.ValidationError{Field: field, Code: domain.CodeInvalidFormat, Message: "answer is listed twice", Value: a.ID})
		default:
			own[a.ID] = false
		}
	}
	return errs.OrNil()
}

// resolveReferences checks that the scoping references exist and denormalizes the category name.
func (s *questionService) resolveReferences(ctx context.Context, q *domain.Question) error {
	cat, err := s.references.GetByID(ctx, domain.ReferenceCategory, q.CategoryID)
	if err != nil {
		return domain.NewInternalError("Failed to get category", err)
	}
	if cat == nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("category_id", q.CategoryID)}
	}
	q.CategoryName = cat.Name

	checks := []struct {
		field string
		kind  domain.ReferenceKind
		id    *string
	}{
		{"position_id", domain.ReferencePosition, q.PositionID},
		{"ship_type_id", domain.ReferenceShipType, q.ShipTypeID},
	}
	for _, c := range checks {
		if c.id == nil {
			continue
		}
		ref, err := s.references.GetByID(ctx, c.kind, *c.id)
		if err != nil {
			return domain.NewInternalError(fmt.Sprintf("Failed to get %s", c.kind), err)
		}
		if ref == nil {
			return domain.ValidationErrors{domain.NewInvalidFormatError(c.field, *c.id)}
		}
	}
	return nil
}

// attachAnswers loads the answer options of every question in one round trip per chunk.
func attachAnswers(ctx context.Context, repo domain.QuestionRepository, questions []*domain.Question) error {
	if len(questions) == 0 {
		return nil
	}
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	answers, err := repo.GetAnswersByQuestionIDs(ctx, ids)
	if err != nil {
		return domain.NewInternalError("Failed to load answers", err)
	}
	for _, q := range questions {
		q.Answers = answers[q.ID]
	}
	return nil
}
