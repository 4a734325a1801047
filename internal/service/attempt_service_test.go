package service

import (
	"context"
	"testing"
	"time"

	"crew-exam/internal/config"
	"crew-exam/internal/domain"
	"crew-exam/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAssembler struct {
	mock.Mock
}

func (m *MockAssembler) Assemble(ctx context.Context, test *domain.Test, attemptID string) ([]domain.AssembledQuestion, error) {
	args := m.Called(ctx, test, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssembledQuestion), args.Error(1)
}

func (m *MockAssembler) Load(ctx context.Context, test *domain.Test, attempt *domain.TestAttempt) ([]domain.AssembledQuestion, error) {
	args := m.Called(ctx, test, attempt.ID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssembledQuestion), args.Error(1)
}

type attemptMocks struct {
	tests     *MockTestRepository
	attempts  *MockAttemptRepository
	responses *MockResponseRepository
	assembler *MockAssembler
	tx        *MockTransactionManager
	stats     *MockStatsCache
}

var attemptNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newAttemptServiceUnderTest() (*attemptService, attemptMocks) {
	m := attemptMocks{
		tests:     new(MockTestRepository),
		attempts:  new(MockAttemptRepository),
		responses: new(MockResponseRepository),
		assembler: new(MockAssembler),
		tx:        &MockTransactionManager{},
		stats:     new(MockStatsCache),
	}
	svc := NewAttemptService(m.tests, m.attempts, m.responses, m.assembler, m.tx, m.stats,
		config.AttemptConfig{SubmitGrace: 30 * time.Second}).(*attemptService)
	svc.now = func() time.Time { return attemptNow }
	return svc, m
}

func activeTest() *domain.Test {
	return &domain.Test{
		ID:              "t1",
		Title:           "Bridge watch",
		DurationMinutes: 30,
		PassingScore:    70,
		IsActive:        true,
		Settings:        domain.TestSettings{AllowBack: true, MaxAttempts: 2},
	}
}

func fourQuestions() []domain.AssembledQuestion {
	return assembled(
		mcQuestion("q1", "a1", "b1"),
		mcQuestion("q2", "a2", "b2"),
		mcQuestion("q3", "a3", "b3"),
		mcQuestion("q4", "a4", "b4"),
	)
}

func TestAttemptService_StartInactive(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	test := activeTest()
	test.IsActive = false
	m.tests.On("GetByIDForUpdate", mock.Anything, "t1").Return(test, nil)

	_, err := svc.Start(context.Background(), "u1", "t1")
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeTestInactive, de.Code)
}

func TestAttemptService_StartMaxAttempts(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	m.tests.On("GetByIDForUpdate", mock.Anything, "t1").Return(activeTest(), nil)
	m.attempts.On("CountByUserAndTest", mock.Anything, "u1", "t1").Return(2, nil)

	_, err := svc.Start(context.Background(), "u1", "t1")
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeMaxAttemptsReached, de.Code)
	m.attempts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAttemptService_StartCountsInsideLockedTransaction(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	var steps []string
	m.tx.Before = func() { steps = append(steps, "begin") }
	m.tests.On("GetByIDForUpdate", mock.Anything, "t1").Run(func(mock.Arguments) {
		steps = append(steps, "lock")
	}).Return(activeTest(), nil)
	m.attempts.On("CountByUserAndTest", mock.Anything, "u1", "t1").Run(func(mock.Arguments) {
		steps = append(steps, "count")
	}).Return(2, nil)

	_, err := svc.Start(context.Background(), "u1", "t1")
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeMaxAttemptsReached, de.Code)
	assert.Equal(t, []string{"begin", "lock", "count"}, steps)
	m.tests.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAttemptService_StartUnknownTest(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	m.tests.On("GetByIDForUpdate", mock.Anything, "t404").Return(nil, nil)

	_, err := svc.Start(context.Background(), "u1", "t404")
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeNotFound, de.Code)
}

func TestAttemptService_Start(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	test := activeTest()
	m.tests.On("GetByIDForUpdate", mock.Anything, "t1").Return(test, nil)
	m.attempts.On("CountByUserAndTest", mock.Anything, "u1", "t1").Return(1, nil)
	m.attempts.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.TestAttempt) bool {
		return a.UserID == "u1" && a.StartTime.Equal(attemptNow) && a.DeadlineAt.Equal(attemptNow.Add(30*time.Minute))
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.TestAttempt).ID = "att1"
	}).Return(nil)
	m.assembler.On("Assemble", mock.Anything, test, "att1").Return(fourQuestions(), nil)

	resp, err := svc.Start(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "att1", resp.Attempt.ID)
	assert.Equal(t, int64(1800), resp.RemainingSeconds)
	assert.True(t, resp.AllowBack)
	require.Len(t, resp.Questions, 4)
	assert.Len(t, resp.Questions[0].Answers, 2)
	assert.Equal(t, 1, m.tx.Calls)
}

func TestAttemptService_StartNoEligible(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	test := activeTest()
	test.Settings.MaxAttempts = 0
	m.tests.On("GetByIDForUpdate", mock.Anything, "t1").Return(test, nil)
	m.attempts.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.assembler.On("Assemble", mock.Anything, test, mock.Anything).Return(nil, domain.NewNoEligibleQuestionsError())

	_, err := svc.Start(context.Background(), "u1", "t1")
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeNoEligibleQuestions, de.Code)
	m.attempts.AssertNotCalled(t, "CountByUserAndTest", mock.Anything, mock.Anything, mock.Anything)
}

func inProgress(deadline time.Time) *domain.TestAttempt {
	return &domain.TestAttempt{
		ID:         "att1",
		UserID:     "u1",
		TestID:     "t1",
		StartTime:  deadline.Add(-30 * time.Minute),
		DeadlineAt: deadline,
		Status:     domain.AttemptInProgress,
	}
}

func expectResultReads(m attemptMocks, finished *domain.TestAttempt, test *domain.Test, responses []domain.UserResponse) {
	m.attempts.On("GetByID", mock.Anything, "att1").Return(finished, nil)
	m.responses.On("ListByAttempt", mock.Anything, "att1").Return(responses, nil)
	m.tests.On("GetByID", mock.Anything, test.ID).Return(test, nil)
}

func TestAttemptService_SubmitScoresThreeOfFour(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	test := activeTest()
	list := fourQuestions()

	m.attempts.On("GetByIDForUpdate", mock.Anything, "att1").Return(inProgress(attemptNow.Add(time.Minute)), nil)
	m.assembler.On("Load", mock.Anything, test, "att1").Return(list, nil)

	var saved []domain.UserResponse
	m.responses.On("CreateBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]domain.UserResponse)
	}).Return(nil)
	var finished *domain.TestAttempt
	m.attempts.On("Finish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		finished = args.Get(1).(*domain.TestAttempt)
	}).Return(true, nil)
	m.stats.On("Invalidate", mock.Anything, "t1").Return()

	score := 75.0
	end := attemptNow
	expectResultReads(m, &domain.TestAttempt{ID: "att1", UserID: "u1", TestID: "t1", Status: domain.AttemptCompleted, Score: &score, EndTime: &end}, test, nil)

	res, err := svc.Submit(context.Background(), "u1", "att1", &dto.SubmitRequest{Responses: map[string]domain.SubmittedAnswer{
		"q1": {AnswerID: "a1"}, "q2": {AnswerID: "a2"}, "q3": {AnswerID: "a3"}, "q4": {AnswerID: "b4"},
		"q99": {AnswerID: "zz"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 75.0, res.Score)
	assert.True(t, res.Passed)

	require.Len(t, saved, 4, "one row per assembled question")
	require.NotNil(t, finished)
	assert.Equal(t, domain.AttemptCompleted, finished.Status)
	assert.Equal(t, 75.0, *finished.Score)
	assert.True(t, finished.EndTime.Equal(attemptNow))
	m.stats.AssertExpectations(t)
}

func TestAttemptService_SubmitForbidden(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	m.attempts.On("GetByIDForUpdate", mock.Anything, "att1").Return(inProgress(attemptNow.Add(time.Minute)), nil)

	_, err := svc.Submit(context.Background(), "intruder", "att1", &dto.SubmitRequest{})
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeForbidden, de.Code)
	m.responses.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestAttemptService_ResubmitReturnsStoredResult(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	score := 50.0
	end := attemptNow.Add(-time.Hour)
	done := &domain.TestAttempt{ID: "att1", UserID: "u1", TestID: "t1", Status: domain.AttemptCompleted, Score: &score, EndTime: &end}
	test := activeTest()

	m.attempts.On("GetByIDForUpdate", mock.Anything, "att1").Return(done, nil)
	m.assembler.On("Load", mock.Anything, test, "att1").Return(fourQuestions(), nil)
	expectResultReads(m, done, test, nil)

	res, err := svc.Submit(context.Background(), "u1", "att1", &dto.SubmitRequest{Responses: map[string]domain.SubmittedAnswer{"q1": {AnswerID: "a1"}}})
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.Score)
	assert.Equal(t, &end, res.FinishedAt)
	m.responses.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	m.attempts.AssertNotCalled(t, "Finish", mock.Anything, mock.Anything)
	m.stats.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestAttemptService_SubmitAfterDeadlineExpires(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	test := activeTest()
	m.attempts.On("GetByIDForUpdate", mock.Anything, "att1").Return(inProgress(attemptNow.Add(-time.Minute)), nil)
	m.tests.On("GetByID", mock.Anything, "t1").Return(test, nil)
	m.assembler.On("Load", mock.Anything, test, "att1").Return(fourQuestions(), nil)
	m.responses.On("CreateBatch", mock.Anything, mock.MatchedBy(func(rows []domain.UserResponse) bool {
		for _, r := range rows {
			if r.Status != domain.ResponseUnanswered {
				return false
			}
		}
		return len(rows) == 4
	})).Return(nil)
	m.attempts.On("Finish", mock.Anything, mock.MatchedBy(func(a *domain.TestAttempt) bool {
		return a.Status == domain.AttemptExpired && *a.Score == 0
	})).Return(true, nil)
	m.stats.On("Invalidate", mock.Anything, "t1").Return()

	_, err := svc.Submit(context.Background(), "u1", "att1", &dto.SubmitRequest{Responses: map[string]domain.SubmittedAnswer{"q1": {AnswerID: "a1"}}})
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeAttemptExpired, de.Code)
	m.attempts.AssertExpectations(t)
}

func TestAttemptService_SubmitWithinGrace(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	test := activeTest()
	m.attempts.On("GetByIDForUpdate", mock.Anything, "att1").Return(inProgress(attemptNow.Add(-10*time.Second)), nil)
	m.tests.On("GetByID", mock.Anything, "t1").Return(test, nil)
	m.assembler.On("Load", mock.Anything, test, "att1").Return(fourQuestions(), nil)
	m.responses.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	m.attempts.On("Finish", mock.Anything, mock.MatchedBy(func(a *domain.TestAttempt) bool {
		return a.Status == domain.AttemptCompleted
	})).Return(true, nil)
	m.stats.On("Invalidate", mock.Anything, "t1").Return()
	score := 0.0
	m.attempts.On("GetByID", mock.Anything, "att1").Return(&domain.TestAttempt{ID: "att1", UserID: "u1", TestID: "t1", Status: domain.AttemptCompleted, Score: &score}, nil)
	m.responses.On("ListByAttempt", mock.Anything, "att1").Return([]domain.UserResponse{}, nil)

	_, err := svc.Submit(context.Background(), "u1", "att1", nil)
	require.NoError(t, err)
}

func TestAttemptService_ResultRevealRules(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	test := activeTest()
	test.Settings.ShowResultImmediately = false
	list := fourQuestions()
	list[0].Question.Explanation = "CO2 smothers the fire"
	score := 25.0
	done := &domain.TestAttempt{ID: "att1", UserID: "u1", TestID: "t1", Status: domain.AttemptCompleted, Score: &score}
	one, zero := 1.0, 0.0
	a1, b2 := "a1", "b2"
	text := "Call the master"
	responses := []domain.UserResponse{
		{ID: "r2", QuestionID: "q2", AnswerID: &b2, Score: &zero, Status: domain.ResponseIncorrect},
		{ID: "r1", QuestionID: "q1", AnswerID: &a1, Score: &one, Status: domain.ResponseCorrect},
		{ID: "r3", QuestionID: "q3", Score: &zero, Status: domain.ResponseUnanswered},
		{ID: "r9", QuestionID: "gone", TextResponse: &text, Status: domain.ResponsePendingReview},
	}
	expectResultReads(m, done, test, responses)
	m.assembler.On("Load", mock.Anything, test, "att1").Return(list, nil)

	res, err := svc.Result(context.Background(), "u1", "att1", false)
	require.NoError(t, err)
	assert.False(t, res.Revealed)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 1, res.PendingReview)
	assert.Equal(t, 1, res.Unanswered)
	assert.False(t, res.Passed)
	require.Len(t, res.Items, 4)
	assert.Equal(t, "q1", res.Items[0].QuestionID)
	assert.Empty(t, res.Items[0].CorrectAnswerID)
	assert.Empty(t, res.Items[0].Explanation)
	assert.Equal(t, "gone", res.Items[3].QuestionID)

	res, err = svc.Result(context.Background(), "admin", "att1", true)
	require.NoError(t, err)
	assert.True(t, res.Revealed)
	assert.Equal(t, "a1", res.Items[0].CorrectAnswerID)
	assert.Equal(t, "CO2 smothers the fire", res.Items[0].Explanation)

	_, err = svc.Result(context.Background(), "u2", "att1", false)
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeForbidden, de.Code)
}

func TestAttemptService_GetRemainingTime(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	test := activeTest()
	m.attempts.On("GetByID", mock.Anything, "att1").Return(inProgress(attemptNow.Add(90*time.Second)), nil)
	m.tests.On("GetByID", mock.Anything, "t1").Return(test, nil)
	m.assembler.On("Load", mock.Anything, test, "att1").Return(fourQuestions(), nil)

	resp, err := svc.Get(context.Background(), "u1", "att1")
	require.NoError(t, err)
	assert.Equal(t, int64(90), resp.RemainingSeconds)
	assert.Len(t, resp.Questions, 4)

	_, err = svc.Get(context.Background(), "u2", "att1")
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeForbidden, de.Code)
}

func TestAttemptService_GradeRecomputesScore(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	test := activeTest()
	one, zero := 1.0, 0.0
	text := "Muster at the lifeboat station"
	score := 50.0
	attempt := &domain.TestAttempt{ID: "att1", UserID: "u1", TestID: "t1", Status: domain.AttemptCompleted, Score: &score}
	responses := []domain.UserResponse{
		{ID: "r1", AttemptID: "att1", QuestionID: "q1", Score: &one, Status: domain.ResponseCorrect},
		{ID: "r2", AttemptID: "att1", QuestionID: "q2", Score: &zero, Status: domain.ResponseIncorrect},
		{ID: "r3", AttemptID: "att1", QuestionID: "q3", TextResponse: &text, Status: domain.ResponsePendingReview},
		{ID: "r4", AttemptID: "att1", QuestionID: "q4", Score: &one, Status: domain.ResponseCorrect},
	}

	m.responses.On("GetByID", mock.Anything, "r3").Return(&responses[2], nil)
	m.attempts.On("GetByIDForUpdate", mock.Anything, "att1").Return(attempt, nil)
	m.responses.On("Grade", mock.Anything, "r3", 0.5).Return(nil)
	m.responses.On("ListByAttempt", mock.Anything, "att1").Return(responses, nil)
	m.attempts.On("UpdateScore", mock.Anything, "att1", 62.5).Return(nil)
	m.stats.On("Invalidate", mock.Anything, "t1").Return()
	m.attempts.On("GetByID", mock.Anything, "att1").Return(attempt, nil)
	m.tests.On("GetByID", mock.Anything, "t1").Return(test, nil)
	m.assembler.On("Load", mock.Anything, test, "att1").Return(fourQuestions(), nil)

	res, err := svc.Grade(context.Background(), "r3", 0.5)
	require.NoError(t, err)
	assert.Equal(t, 62.5, res.Score)
	assert.True(t, res.Revealed)
	m.attempts.AssertExpectations(t)
	m.stats.AssertExpectations(t)
}

func TestAttemptService_GradeRejectsAutoScored(t *testing.T) {
	svc, m := newAttemptServiceUnderTest()
	m.responses.On("GetByID", mock.Anything, "r1").Return(&domain.UserResponse{ID: "r1", Status: domain.ResponseCorrect}, nil)

	_, err := svc.Grade(context.Background(), "r1", 1)
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeInvalidInput, de.Code)

	_, err = svc.Grade(context.Background(), "r1", 1.5)
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}
