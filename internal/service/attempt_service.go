package service

import (
	"context"
	"errors"
	"time"

	"crew-exam/internal/config"
	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/logger"
	"crew-exam/internal/metrics"

	"go.uber.org/zap"
)

// AttemptService runs a seafarer's attempt from start to result.
type AttemptService interface {
	Start(ctx context.Context, userID, testID string) (*dto.AttemptResponse, error)
	Get(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error)
	// Submit grades and finalises the attempt. Submitting a finished attempt returns its stored result.
	Submit(ctx context.Context, userID, attemptID string, req *dto.SubmitRequest) (*dto.AttemptResult, error)
	// Result is readable by the owner, or by any admin when asAdmin is set.
	Result(ctx context.Context, userID, attemptID string, asAdmin bool) (*dto.AttemptResult, error)
	// Grade scores a pending free-text response and recomputes its attempt's percentage.
	Grade(ctx context.Context, responseID string, score float64) (*dto.AttemptResult, error)
}

var errAlreadyFinished = errors.New("attempt already finished")

type attemptService struct {
	tests      domain.TestRepository
	attempts   domain.AttemptRepository
	responses  domain.ResponseRepository
	assembler  TestAssembler
	tx         domain.TransactionManager
	statsCache StatsCacheService
	cfg        config.AttemptConfig
	now        func() time.Time
}

func NewAttemptService(
	tests domain.TestRepository,
	attempts domain.AttemptRepository,
	responses domain.ResponseRepository,
	assembler TestAssembler,
	tx domain.TransactionManager,
	statsCache StatsCacheService,
	cfg config.AttemptConfig,
) AttemptService {
	if statsCache == nil {
		statsCache = NewStatsCacheService(nil, 0)
	}
	return &attemptService{
		tests:      tests,
		attempts:   attempts,
		responses:  responses,
		assembler:  assembler,
		tx:         tx,
		statsCache: statsCache,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Start opens an attempt. The test row stays locked until the attempt is stored, so concurrent
// starts cannot both pass the attempt limit and a definition change cannot slip in between.
func (s *attemptService) Start(ctx context.Context, userID, testID string) (*dto.AttemptResponse, error) {
	var (
		test    *domain.Test
		attempt *domain.TestAttempt
		list    []domain.AssembledQuestion
	)
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		test, err = s.tests.GetByIDForUpdate(txCtx, testID)
		if err != nil {
			return domain.NewInternalError("Failed to lock test", err)
		}
		if test == nil {
			return domain.NewTestNotFoundError(testID)
		}
		if !test.IsActive {
			return domain.NewTestInactiveError(testID)
		}
		if limit := test.Settings.MaxAttempts; limit > 0 {
			n, err := s.attempts.CountByUserAndTest(txCtx, userID, testID)
			if err != nil {
				return domain.NewInternalError("Failed to count attempts", err)
			}
			if n >= limit {
				return domain.NewMaxAttemptsReachedError(limit)
			}
		}

		start := s.now()
		attempt = &domain.TestAttempt{
			UserID:     userID,
			TestID:     testID,
			StartTime:  start,
			DeadlineAt: start.Add(test.Duration()),
			Status:     domain.AttemptInProgress,
		}
		if err := s.attempts.Create(txCtx, attempt); err != nil {
			return domain.NewInternalError("Failed to create attempt", err)
		}
		list, err = s.assembler.Assemble(txCtx, test, attempt.ID)
		return err
	})
	if err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) && de.Code != domain.CodeInternal {
			return nil, err
		}
		logger.Get().Error("Failed to start attempt", zap.Error(err), zap.String("userID", userID), zap.String("testID", testID))
		if de == nil {
			err = domain.NewInternalError("Failed to start attempt", err)
		}
		return nil, err
	}

	metrics.AttemptsStarted.Inc()
	logger.Get().Info("Attempt started",
		zap.String("attemptID", attempt.ID),
		zap.String("userID", userID),
		zap.String("testID", testID),
		zap.Int("questions", len(list)))
	return s.present(test, attempt, list), nil
}

func (s *attemptService) Get(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error) {
	attempt, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	test, err := s.getTest(ctx, attempt.TestID)
	if err != nil {
		return nil, err
	}
	list, err := s.assembler.Load(ctx, test, attempt)
	if err != nil {
		return nil, err
	}
	return s.present(test, attempt, list), nil
}

func (s *attemptService) Submit(ctx context.Context, userID, attemptID string, req *dto.SubmitRequest) (*dto.AttemptResult, error) {
	var (
		test    *domain.Test
		expired bool
		outcome = metrics.OutcomeCompleted
	)
	submitted := map[string]domain.SubmittedAnswer{}
	if req != nil && req.Responses != nil {
		submitted = req.Responses
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		attempt, err := s.attempts.GetByIDForUpdate(txCtx, attemptID)
		if err != nil {
			return domain.NewInternalError("Failed to get attempt", err)
		}
		if attempt == nil {
			return domain.NewAttemptNotFoundError(attemptID)
		}
		if attempt.UserID != userID {
			return domain.NewForbiddenError("attempt belongs to another user")
		}
		if attempt.IsCompleted() {
			return errAlreadyFinished
		}

		if test, err = s.getTest(txCtx, attempt.TestID); err != nil {
			return err
		}
		list, err := s.assembler.Load(txCtx, test, attempt)
		if err != nil {
			return err
		}

		now := s.now()
		var res ScoreResult
		if attempt.LateAt(now, s.cfg.SubmitGrace) {
			expired = true
			res = ExpiredResult(list)
			attempt.Status = domain.AttemptExpired
		} else {
			logIgnored(attemptID, list, submitted)
			res = Score(list, submitted)
			attempt.Status = domain.AttemptCompleted
		}
		attempt.EndTime = &now
		attempt.Score = &res.Percentage

		if err := s.responses.CreateBatch(txCtx, responseRows(attempt.ID, res, now)); err != nil {
			return domain.NewInternalError("Failed to save responses", err)
		}
		ok, err := s.attempts.Finish(txCtx, attempt)
		if err != nil {
			return domain.NewInternalError("Failed to finish attempt", err)
		}
		if !ok {
			return errAlreadyFinished
		}
		return nil
	})

	switch {
	case errors.Is(err, errAlreadyFinished):
		outcome = metrics.OutcomeResubmitted
		logger.Get().Info("Attempt already submitted, returning stored result", zap.String("attemptID", attemptID))
	case err != nil:
		var de *domain.DomainError
		if errors.As(err, &de) && de.Code == domain.CodeInternal {
			logger.Get().Error("Failed to submit attempt", zap.Error(err), zap.String("attemptID", attemptID))
		}
		return nil, err
	case expired:
		outcome = metrics.OutcomeExpired
	}
	metrics.AttemptsSubmitted.WithLabelValues(outcome).Inc()

	if outcome == metrics.OutcomeResubmitted {
		return s.Result(ctx, userID, attemptID, false)
	}
	s.statsCache.Invalidate(ctx, test.ID)

	if expired {
		logger.Get().Info("Attempt submitted after deadline", zap.String("attemptID", attemptID), zap.String("userID", userID))
		return nil, domain.NewAttemptExpiredError(attemptID)
	}
	logger.Get().Info("Attempt submitted", zap.String("attemptID", attemptID), zap.String("userID", userID))
	return s.Result(ctx, userID, attemptID, false)
}

func (s *attemptService) Result(ctx context.Context, userID, attemptID string, asAdmin bool) (*dto.AttemptResult, error) {
	attempt, err := s.getAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if !asAdmin && attempt.UserID != userID {
		return nil, domain.NewForbiddenError("attempt belongs to another user")
	}
	if !attempt.IsCompleted() {
		return nil, domain.NewInvalidInputError("attempt has not been submitted")
	}
	test, err := s.getTest(ctx, attempt.TestID)
	if err != nil {
		return nil, err
	}
	list, err := s.assembler.Load(ctx, test, attempt)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.ListByAttempt(ctx, attempt.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list responses", err)
	}
	return buildResult(test, attempt, list, responses, asAdmin || test.Settings.ShowResultImmediately), nil
}

func (s *attemptService) Grade(ctx context.Context, responseID string, score float64) (*dto.AttemptResult, error) {
	if score < 0 || score > 1 {
		return nil, domain.ValidationErrors{{Field: "score", Code: domain.CodeOutOfRange, Message: "score must be between 0 and 1", Value: score}}
	}

	var attempt *domain.TestAttempt
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		resp, err := s.responses.GetByID(txCtx, responseID)
		if err != nil {
			return domain.NewInternalError("Failed to get response", err)
		}
		if resp == nil {
			return domain.NewNotFoundError("response " + responseID + " not found")
		}
		if resp.Status != domain.ResponsePendingReview && resp.Status != domain.ResponseGraded {
			return domain.NewInvalidInputError("only free-text responses are graded by hand").
				WithContext("status", string(resp.Status))
		}

		attempt, err = s.attempts.GetByIDForUpdate(txCtx, resp.AttemptID)
		if err != nil {
			return domain.NewInternalError("Failed to get attempt", err)
		}
		if attempt == nil {
			return domain.NewAttemptNotFoundError(resp.AttemptID)
		}
		if err := s.responses.Grade(txCtx, responseID, score); err != nil {
			return domain.NewInternalError("Failed to grade response", err)
		}

		all, err := s.responses.ListByAttempt(txCtx, attempt.ID)
		if err != nil {
			return domain.NewInternalError("Failed to list responses", err)
		}
		for i := range all {
			if all[i].ID == responseID {
				all[i].Score = &score
			}
		}
		pct := Regrade(all, len(all))
		attempt.Score = &pct
		if err := s.attempts.UpdateScore(txCtx, attempt.ID, pct); err != nil {
			return domain.NewInternalError("Failed to update attempt score", err)
		}
		return nil
	})
	if err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) && de.Code == domain.CodeInternal {
			logger.Get().Error("Failed to grade response", zap.Error(err), zap.String("responseID", responseID))
		}
		return nil, err
	}

	s.statsCache.Invalidate(ctx, attempt.TestID)
	logger.Get().Info("Response graded",
		zap.String("responseID", responseID),
		zap.String("attemptID", attempt.ID),
		zap.Float64("score", score),
		zap.Float64("attemptScore", *attempt.Score))
	return s.Result(ctx, "", attempt.ID, true)
}

func (s *attemptService) getTest(ctx context.Context, id string) (*domain.Test, error) {
	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get test", err)
	}
	if test == nil {
		return nil, domain.NewTestNotFoundError(id)
	}
	return test, nil
}

func (s *attemptService) getAttempt(ctx context.Context, id string) (*domain.TestAttempt, error) {
	attempt, err := s.attempts.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get attempt", err)
	}
	if attempt == nil {
		return nil, domain.NewAttemptNotFoundError(id)
	}
	return attempt, nil
}

func (s *attemptService) ownedAttempt(ctx context.Context, userID, id string) (*domain.TestAttempt, error) {
	attempt, err := s.getAttempt(ctx, id)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, domain.NewForbiddenError("attempt belongs to another user")
	}
	return attempt, nil
}

func (s *attemptService) present(test *domain.Test, attempt *domain.TestAttempt, list []domain.AssembledQuestion) *dto.AttemptResponse {
	resp := &dto.AttemptResponse{
		Attempt:   dto.NewAttemptSummary(attempt, test),
		TestTitle: test.Title,
		AllowBack: test.Settings.AllowBack,
		Questions: make([]dto.PresentedQuestion, len(list)),
	}
	if !attempt.IsCompleted() {
		resp.RemainingSeconds = int64(attempt.Remaining(s.now()).Seconds())
	}
	for i, aq := range list {
		resp.Questions[i] = dto.NewPresentedQuestion(aq)
	}
	return resp
}

func logIgnored(attemptID string, list []domain.AssembledQuestion, submitted map[string]domain.SubmittedAnswer) {
	if len(submitted) == 0 {
		return
	}
	known := make(map[string]struct{}, len(list))
	for _, aq := range list {
		known[aq.Question.ID] = struct{}{}
	}
	for qid := range submitted {
		if _, ok := known[qid]; !ok {
			logger.Get().Warn("Ignoring response for a question outside the attempt",
				zap.String("attemptID", attemptID),
				zap.String("questionID", qid))
		}
	}
}

func responseRows(attemptID string, res ScoreResult, at time.Time) []domain.UserResponse {
	rows := make([]domain.UserResponse, len(res.Items))
	for i, item := range res.Items {
		rows[i] = domain.UserResponse{
			AttemptID:    attemptID,
			QuestionID:   item.QuestionID,
			AnswerID:     item.AnswerID,
			TextResponse: item.TextResponse,
			Score:        item.Score,
			Status:       item.Status,
			CreatedAt:    at,
		}
	}
	return rows
}

// buildResult lines responses up with the presented order. Responses whose question is no longer
// in the bank are listed after the rest.
func buildResult(test *domain.Test, attempt *domain.TestAttempt, list []domain.AssembledQuestion, responses []domain.UserResponse, reveal bool) *dto.AttemptResult {
	res := &dto.AttemptResult{
		Attempt:      dto.NewAttemptSummary(attempt, test),
		TestID:       test.ID,
		TestTitle:    test.Title,
		PassingScore: test.PassingScore,
		Total:        len(responses),
		Revealed:     reveal,
		Items:        make([]dto.ResultItem, 0, len(responses)),
		FinishedAt:   attempt.EndTime,
	}
	if attempt.Score != nil {
		res.Score = *attempt.Score
	}
	res.Passed = test.Passed(res.Score)

	byQuestion := make(map[string]domain.UserResponse, len(responses))
	for _, r := range responses {
		byQuestion[r.QuestionID] = r
	}
	add := func(r domain.UserResponse, order int, q *domain.Question) {
		item := dto.ResultItem{
			ResponseID:   r.ID,
			QuestionID:   r.QuestionID,
			Order:        order,
			Status:       string(r.Status),
			Score:        r.Score,
			AnswerID:     r.AnswerID,
			TextResponse: r.TextResponse,
		}
		if q != nil {
			item.Content = q.Content
			item.Type = string(q.Type)
			if reveal {
				item.CorrectAnswerID = q.CorrectAnswerID()
				item.Explanation = q.Explanation
			}
		}
		switch r.Status {
		case domain.ResponseCorrect:
			res.Correct++
		case domain.ResponsePendingReview:
			res.PendingReview++
		case domain.ResponseUnanswered:
			res.Unanswered++
		}
		res.Items = append(res.Items, item)
	}

	for _, aq := range list {
		r, ok := byQuestion[aq.Question.ID]
		if !ok {
			continue
		}
		q := aq.Question
		add(r, aq.Order, &q)
		delete(byQuestion, aq.Question.ID)
	}
	for _, r := range responses {
		if _, left := byQuestion[r.QuestionID]; left {
			add(r, len(res.Items)+1, nil)
		}
	}
	return res
}
