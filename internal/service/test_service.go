package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TestService is the administrator side of test definitions.
type TestService interface {
	Create(ctx context.Context, userID string, req *dto.TestRequest) (*dto.TestResponse, error)
	Update(ctx context.Context, id string, req *dto.TestRequest) (*dto.TestResponse, error)
	ToggleActive(ctx context.Context, id string) (*dto.TestResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*dto.TestResponse, error)
	List(ctx context.Context, query dto.TestQuery, p dto.Pagination) (*dto.TestListResponse, error)
	// Preview returns the static questions with their answers and correctness flags.
	Preview(ctx context.Context, id string) (*dto.TestResponse, error)
	Results(ctx context.Context, id string, p dto.Pagination) (*dto.TestResultsResponse, error)
	Statistics(ctx context.Context, id string) (*dto.TestStatistics, error)
}

type testService struct {
	tests         domain.TestRepository
	testQuestions domain.TestQuestionRepository
	questions     domain.QuestionRepository
	attempts      domain.AttemptRepository
	tx            domain.TransactionManager
	statsCache    StatsCacheService
	now           func() time.Time
}

func NewTestService(
	tests domain.TestRepository,
	testQuestions domain.TestQuestionRepository,
	questions domain.QuestionRepository,
	attempts domain.AttemptRepository,
	tx domain.TransactionManager,
	statsCache StatsCacheService,
) TestService {
	if statsCache == nil {
		statsCache = NewStatsCacheService(nil, 0)
	}
	return &testService{
		tests:         tests,
		testQuestions: testQuestions,
		questions:     questions,
		attempts:      attempts,
		tx:            tx,
		statsCache:    statsCache,
		now:           time.Now,
	}
}

func (s *testService) Create(ctx context.Context, userID string, req *dto.TestRequest) (*dto.TestResponse, error) {
	test := req.ToDomain()
	test.CreatedBy = userID
	rows := req.Bindings()
	if err := s.checkSelection(ctx, test, rows); err != nil {
		return nil, err
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.tests.Create(txCtx, test); err != nil {
			return err
		}
		return s.bindQuestions(txCtx, test.ID, rows)
	})
	if err != nil {
		logger.Get().Error("Failed to create test", zap.Error(err), zap.String("title", test.Title))
		return nil, domain.NewInternalError("Failed to create test", err)
	}

	logger.Get().Info("Test created",
		zap.String("testID", test.ID),
		zap.Bool("random", test.IsRandom),
		zap.Int("questions", len(rows)))
	resp := dto.NewTestResponse(test)
	if !test.IsRandom {
		resp.QuestionCount = len(rows)
	}
	return &resp, nil
}

// Update replaces the definition and its static question list. Tests that have been attempted are locked.
func (s *testService) Update(ctx context.Context, id string, req *dto.TestRequest) (*dto.TestResponse, error) {
	existing, err := s.getTest(ctx, id)
	if err != nil {
		return nil, err
	}

	test := req.ToDomain()
	test.ID = existing.ID
	test.CreatedBy = existing.CreatedBy
	test.CreatedAt = existing.CreatedAt
	if req.IsActive == nil {
		test.IsActive = existing.IsActive
	}
	rows := req.Bindings()

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		n, err := s.lockAndCountAttempts(txCtx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.NewTestLockedError().WithContext("attempts", n)
		}
		if err := s.checkSelection(txCtx, test, rows); err != nil {
			return err
		}
		if err := s.tests.Update(txCtx, test); err != nil {
			return err
		}
		if err := s.testQuestions.DeleteStatic(txCtx, test.ID); err != nil {
			return err
		}
		return s.bindQuestions(txCtx, test.ID, rows)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewTestNotFoundError(id)
		}
		if isClientError(err) {
			return nil, err
		}
		logger.Get().Error("Failed to update test", zap.Error(err), zap.String("testID", id))
		return nil, domain.NewInternalError("Failed to update test", err)
	}

	resp := dto.NewTestResponse(test)
	if !test.IsRandom {
		resp.QuestionCount = len(rows)
	}
	return &resp, nil
}

func (s *testService) ToggleActive(ctx context.Context, id string) (*dto.TestResponse, error) {
	test, err := s.getTest(ctx, id)
	if err != nil {
		return nil, err
	}
	test.IsActive = !test.IsActive
	if err := s.tests.SetActive(ctx, id, test.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewTestNotFoundError(id)
		}
		return nil, domain.NewInternalError("Failed to toggle test", err)
	}
	logger.Get().Info("Test activation toggled", zap.String("testID", id), zap.Bool("active", test.IsActive))
	resp := dto.NewTestResponse(test)
	return &resp, nil
}

// Delete removes a test that was never attempted, with its settings and question rows.
func (s *testService) Delete(ctx context.Context, id string) error {
	if _, err := s.getTest(ctx, id); err != nil {
		return err
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		n, err := s.lockAndCountAttempts(txCtx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.NewTestHasAttemptsError(n)
		}
		if err := s.testQuestions.DeleteByTest(txCtx, id); err != nil {
			return err
		}
		return s.tests.Delete(txCtx, id)
	})
	if err != nil {
		if isClientError(err) {
			return err
		}
		logger.Get().Error("Failed to delete test", zap.Error(err), zap.String("testID", id))
		return domain.NewInternalError("Failed to delete test", err)
	}
	s.statsCache.Invalidate(ctx, id)
	logger.Get().Info("Test deleted", zap.String("testID", id))
	return nil
}

// lockAndCountAttempts locks the test row and counts its attempts. Attempt starts take the same
// lock, so the count holds until the transaction ends.
func (s *testService) lockAndCountAttempts(ctx context.Context, id string) (int, error) {
	test, err := s.tests.GetByIDForUpdate(ctx, id)
	if err != nil {
		return 0, domain.NewInternalError("Failed to lock test", err)
	}
	if test == nil {
		return 0, domain.NewTestNotFoundError(id)
	}
	n, err := s.attempts.CountByTest(ctx, id)
	if err != nil {
		return 0, domain.NewInternalError("Failed to count attempts", err)
	}
	return n, nil
}

// isClientError reports whether err should reach the caller as is rather than as an internal error.
func isClientError(err error) bool {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return true
	}
	var de *domain.DomainError
	return errors.As(err, &de) && de.Code != domain.CodeInternal
}

func (s *testService) Get(ctx context.Context, id string) (*dto.TestResponse, error) {
	return s.detail(ctx, id, false)
}

func (s *testService) Preview(ctx context.Context, id string) (*dto.TestResponse, error) {
	return s.detail(ctx, id, true)
}

func (s *testService) detail(ctx context.Context, id string, withAnswers bool) (*dto.TestResponse, error) {
	test, err := s.getTest(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.staticQuestions(ctx, id, withAnswers)
	if err != nil {
		return nil, err
	}
	resp := dto.NewTestResponse(test)
	resp.Questions = items
	if !test.IsRandom {
		resp.QuestionCount = len(items)
	}
	return &resp, nil
}

func (s *testService) List(ctx context.Context, query dto.TestQuery, p dto.Pagination) (*dto.TestListResponse, error) {
	p = p.Normalize()
	filter := domain.TestFilter{PositionID: query.PositionID, ShipTypeID: query.ShipTypeID, Search: query.Search}
	tests, total, err := s.tests.List(ctx, filter, domain.Page{Limit: p.Limit, Offset: p.Offset})
	if err != nil {
		return nil, domain.NewInternalError("Failed to list tests", err)
	}

	items := make([]dto.TestResponse, len(tests))
	for i, t := range tests {
		items[i] = dto.NewTestResponse(t)
		if !t.IsRandom {
			n, err := s.testQuestions.CountStatic(ctx, t.ID)
			if err != nil {
				return nil, domain.NewInternalError("Failed to count test questions", err)
			}
			items[i].QuestionCount = n
		}
	}
	return &dto.TestListResponse{Items: items, PaginationInfo: dto.NewPaginationInfo(total, p)}, nil
}

func (s *testService) Results(ctx context.Context, id string, p dto.Pagination) (*dto.TestResultsResponse, error) {
	test, err := s.getTest(ctx, id)
	if err != nil {
		return nil, err
	}
	p = p.Normalize()
	attempts, total, err := s.attempts.ListByTest(ctx, id, domain.Page{Limit: p.Limit, Offset: p.Offset})
	if err != nil {
		return nil, domain.NewInternalError("Failed to list attempts", err)
	}

	summaries := make([]dto.AttemptSummary, len(attempts))
	for i, a := range attempts {
		summaries[i] = dto.NewAttemptSummary(a, test)
	}
	return &dto.TestResultsResponse{
		Test:           dto.NewTestResponse(test),
		Attempts:       summaries,
		PaginationInfo: dto.NewPaginationInfo(total, p),
	}, nil
}

// Statistics serves from cache when possible; the test and its attempts are read concurrently otherwise.
func (s *testService) Statistics(ctx context.Context, id string) (*dto.TestStatistics, error) {
	if cached, err := s.statsCache.Get(ctx, id); err == nil {
		return cached, nil
	} else if !errors.Is(err, ErrStatsNotCached) {
		logger.Get().Warn("Statistics cache unavailable, computing from storage", zap.Error(err), zap.String("testID", id))
	}

	var (
		test     *domain.Test
		attempts []*domain.TestAttempt
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		test, err = s.getTest(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		attempts, err = s.attempts.ListCompletedByTest(gctx, id)
		if err != nil {
			return domain.NewInternalError("Failed to list completed attempts", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := ComputeStatistics(test, attempts, s.now())
	if err := s.statsCache.Put(ctx, id, stats); err != nil {
		logger.Get().Warn("Failed to cache statistics", zap.Error(err), zap.String("testID", id))
	}
	return stats, nil
}

func (s *testService) getTest(ctx context.Context, id string) (*domain.Test, error) {
	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get test", err)
	}
	if test == nil {
		return nil, domain.NewTestNotFoundError(id)
	}
	return test, nil
}

// checkSelection verifies that fixed-mode ids name live questions and that a random rule matches something.
func (s *testService) checkSelection(ctx context.Context, test *domain.Test, rows []domain.TestQuestion) error {
	if test.IsRandom {
		n, err := s.questions.CountEligible(ctx, test.EligibilityFilter())
		if err != nil {
			return domain.NewInternalError("Failed to count eligible questions", err)
		}
		if n == 0 {
			return domain.NewNoEligibleQuestionsError()
		}
		return nil
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.QuestionID
	}
	found, err := s.questions.GetByIDs(ctx, ids)
	if err != nil {
		return domain.NewInternalError("Failed to load questions", err)
	}
	live := make(map[string]struct{}, len(found))
	for _, q := range found {
		live[q.ID] = struct{}{}
	}
	var errs domain.ValidationErrors
	for i, id := range ids {
		if _, ok := live[id]; !ok {
			errs = append(errs, domain.ValidationError{
				Field:   fmt.Sprintf("fixed.question_ids[%d]", i),
				Code:    domain.CodeNotFound,
				Message: "question does not exist",
				Value:   id,
			})
		}
	}
	return errs.OrNil()
}

func (s *testService) bindQuestions(ctx context.Context, testID string, rows []domain.TestQuestion) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].TestID = testID
	}
	return s.testQuestions.CreateBatch(ctx, rows)
}

// staticQuestions returns the authored question list in order; rows whose question was deleted are skipped.
func (s *testService) staticQuestions(ctx context.Context, testID string, withAnswers bool) ([]dto.TestQuestionResponse, error) {
	rows, err := s.testQuestions.ListStatic(ctx, testID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list test questions", err)
	}
	if len(rows) == 0 {
		return []dto.TestQuestionResponse{}, nil
	}

	byID, err := loadQuestions(ctx, s.questions, rows, withAnswers, false)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TestQuestionResponse, 0, len(rows))
	for _, r := range rows {
		q, ok := byID[r.QuestionID]
		if !ok {
			continue
		}
		qr := dto.NewQuestionResponse(q)
		items = append(items, dto.TestQuestionResponse{QuestionID: r.QuestionID, Order: r.Order, Points: r.Points, Question: qr})
	}
	return items, nil
}

// loadQuestions fetches the questions named by rows, keyed by id. withDeleted keeps soft-deleted rows.
func loadQuestions(ctx context.Context, repo domain.QuestionRepository, rows []domain.TestQuestion, withAnswers, withDeleted bool) (map[string]*domain.Question, error) {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.QuestionID
	}
	get := repo.GetByIDs
	if withDeleted {
		get = repo.GetByIDsWithDeleted
	}
	questions, err := get(ctx, ids)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load questions", err)
	}
	if withAnswers {
		if err := attachAnswers(ctx, repo, questions); err != nil {
			return nil, err
		}
	}
	byID := make(map[string]*domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return byID, nil
}
