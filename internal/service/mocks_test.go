package service

import (
	"context"
	"time"

	"crew-exam/internal/domain"
	"crew-exam/internal/dto"

	"github.com/stretchr/testify/mock"
)

// MockTransactionManager runs fn inline; set Err to fail before fn is called. Before, when set,
// runs as the transaction opens.
type MockTransactionManager struct {
	Err    error
	Calls  int
	Before func()
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.Before != nil {
		m.Before()
	}
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}

type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) List(ctx context.Context, kind domain.ReferenceKind) ([]*domain.Reference, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reference), args.Error(1)
}

func (m *MockReferenceRepository) GetByID(ctx context.Context, kind domain.ReferenceKind, id string) (*domain.Reference, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reference), args.Error(1)
}

func (m *MockReferenceRepository) Create(ctx context.Context, ref *domain.Reference) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, q *domain.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuestionRepository) Update(ctx context.Context, q *domain.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Question, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDsWithDeleted(ctx context.Context, ids []string) ([]*domain.Question, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) List(ctx context.Context, filter domain.QuestionFilter, page domain.Page) ([]*domain.Question, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Question), args.Int(1), args.Error(2)
}

func (m *MockQuestionRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) ExistsByContent(ctx context.Context, content string) (bool, error) {
	args := m.Called(ctx, content)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestionRepository) CountEligible(ctx context.Context, filter domain.EligibilityFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionRepository) ListEligibleIDs(ctx context.Context, filter domain.EligibilityFilter) ([]string, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuestionRepository) SyncAnswers(ctx context.Context, questionID string, answers []domain.Answer) error {
	args := m.Called(ctx, questionID, answers)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetAnswersByQuestionIDs(ctx context.Context, questionIDs []string) (map[string][]domain.Answer, error) {
	args := m.Called(ctx, questionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.Answer), args.Error(1)
}

type MockTestRepository struct {
	mock.Mock
}

func (m *MockTestRepository) Create(ctx context.Context, t *domain.Test) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTestRepository) Update(ctx context.Context, t *domain.Test) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTestRepository) GetByID(ctx context.Context, id string) (*domain.Test, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Test), args.Error(1)
}

func (m *MockTestRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Test, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Test), args.Error(1)
}

func (m *MockTestRepository) List(ctx context.Context, filter domain.TestFilter, page domain.Page) ([]*domain.Test, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Test), args.Int(1), args.Error(2)
}

func (m *MockTestRepository) ListAvailable(ctx context.Context, filter domain.CatalogueFilter, page domain.Page) ([]*domain.Test, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Test), args.Int(1), args.Error(2)
}

func (m *MockTestRepository) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockTestRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTestQuestionRepository struct {
	mock.Mock
}

func (m *MockTestQuestionRepository) ListStatic(ctx context.Context, testID string) ([]domain.TestQuestion, error) {
	args := m.Called(ctx, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TestQuestion), args.Error(1)
}

func (m *MockTestQuestionRepository) ListForAttempt(ctx context.Context, attemptID string) ([]domain.TestQuestion, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TestQuestion), args.Error(1)
}

func (m *MockTestQuestionRepository) CreateBatch(ctx context.Context, rows []domain.TestQuestion) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockTestQuestionRepository) DeleteStatic(ctx context.Context, testID string) error {
	args := m.Called(ctx, testID)
	return args.Error(0)
}

func (m *MockTestQuestionRepository) DeleteByTest(ctx context.Context, testID string) error {
	args := m.Called(ctx, testID)
	return args.Error(0)
}

func (m *MockTestQuestionRepository) CountStatic(ctx context.Context, testID string) (int, error) {
	args := m.Called(ctx, testID)
	return args.Int(0), args.Error(1)
}

type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, a *domain.TestAttempt) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id string) (*domain.TestAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TestAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.TestAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TestAttempt), args.Error(1)
}

func (m *MockAttemptRepository) Finish(ctx context.Context, a *domain.TestAttempt) (bool, error) {
	args := m.Called(ctx, a)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttemptRepository) UpdateScore(ctx context.Context, id string, score float64) error {
	args := m.Called(ctx, id, score)
	return args.Error(0)
}

func (m *MockAttemptRepository) CountByTest(ctx context.Context, testID string) (int, error) {
	args := m.Called(ctx, testID)
	return args.Int(0), args.Error(1)
}

func (m *MockAttemptRepository) CountByUserAndTest(ctx context.Context, userID, testID string) (int, error) {
	args := m.Called(ctx, userID, testID)
	return args.Int(0), args.Error(1)
}

func (m *MockAttemptRepository) ListByTest(ctx context.Context, testID string, page domain.Page) ([]*domain.TestAttempt, int, error) {
	args := m.Called(ctx, testID, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.TestAttempt), args.Int(1), args.Error(2)
}

func (m *MockAttemptRepository) ListCompletedByTest(ctx context.Context, testID string) ([]*domain.TestAttempt, error) {
	args := m.Called(ctx, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TestAttempt), args.Error(1)
}

func (m *MockAttemptRepository) ListByUser(ctx context.Context, userID string, testIDs []string) ([]*domain.TestAttempt, error) {
	args := m.Called(ctx, userID, testIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TestAttempt), args.Error(1)
}

type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) CreateBatch(ctx context.Context, responses []domain.UserResponse) error {
	args := m.Called(ctx, responses)
	return args.Error(0)
}

func (m *MockResponseRepository) ListByAttempt(ctx context.Context, attemptID string) ([]domain.UserResponse, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserResponse), args.Error(1)
}

func (m *MockResponseRepository) GetByID(ctx context.Context, id string) (*domain.UserResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserResponse), args.Error(1)
}

func (m *MockResponseRepository) Grade(ctx context.Context, id string, score float64) error {
	args := m.Called(ctx, id, score)
	return args.Error(0)
}

type MockCrewProfileRepository struct {
	mock.Mock
}

func (m *MockCrewProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.CrewProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CrewProfile), args.Error(1)
}

// ManualMockCache is a hand-rolled domain.Cache; nil funcs behave like an empty cache.
type ManualMockCache struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value string, expiration time.Duration) error
	DeleteFunc func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
}

func (m *ManualMockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", domain.ErrCacheMiss
}

func (m *ManualMockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *ManualMockCache) Delete(ctx context.Context, keys ...string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, keys...)
	}
	return nil
}

func (m *ManualMockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) Put(ctx context.Context, testID string, stats *dto.TestStatistics) error {
	args := m.Called(ctx, testID, stats)
	return args.Error(0)
}

func (m *MockStatsCache) Get(ctx context.Context, testID string) (*dto.TestStatistics, error) {
	args := m.Called(ctx, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TestStatistics), args.Error(1)
}

func (m *MockStatsCache) Invalidate(ctx context.Context, testID string) {
	m.Called(ctx, testID)
}
