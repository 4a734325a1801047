package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"crew-exam/internal/domain"
	"crew-exam/internal/logger"

	"go.uber.org/zap"
)

// TestAssembler resolves a test definition into the ordered questions of one attempt.
type TestAssembler interface {
	// Assemble builds the list for a new attempt. Random tests persist their sample under attemptID.
	Assemble(ctx context.Context, test *domain.Test, attemptID string) ([]domain.AssembledQuestion, error)
	// Load rebuilds the list presented to an existing attempt. Questions soft-deleted after the
	// attempt started are still part of it.
	Load(ctx context.Context, test *domain.Test, attempt *domain.TestAttempt) ([]domain.AssembledQuestion, error)
}

type testAssembler struct {
	testQuestions domain.TestQuestionRepository
	questions     domain.QuestionRepository
	orders        AttemptOrderCache
	orderTTL      time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTestAssembler seeds from the clock when rng is nil. orderTTL is added to the test duration
// when caching the presented order.
func NewTestAssembler(
	testQuestions domain.TestQuestionRepository,
	questions domain.QuestionRepository,
	orders AttemptOrderCache,
	rng *rand.Rand,
	orderTTL time.Duration,
) TestAssembler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(time.Now().Unix())))
	}
	if orders == nil {
		orders = NewAttemptOrderCache(nil)
	}
	return &testAssembler{
		testQuestions: testQuestions,
		questions:     questions,
		orders:        orders,
		orderTTL:      orderTTL,
		rng:           rng,
	}
}

func (a *testAssembler) Assemble(ctx context.Context, test *domain.Test, attemptID string) ([]domain.AssembledQuestion, error) {
	var (
		list []domain.AssembledQuestion
		err  error
	)
	if test.IsRandom {
		list, err = a.assembleRandom(ctx, test, attemptID)
	} else {
		list, err = a.assembleFixed(ctx, test)
	}
	if err != nil {
		return nil, err
	}

	if test.Settings.ShuffleAnswers {
		for i := range list {
			a.shuffleAnswers(list[i].Question.Answers)
		}
	}

	a.orders.Put(ctx, attemptID, orderOf(list), test.Duration()+a.orderTTL)
	logger.Get().Debug("Attempt assembled",
		zap.String("testID", test.ID),
		zap.String("attemptID", attemptID),
		zap.Int("questions", len(list)))
	return list, nil
}

func (a *testAssembler) assembleFixed(ctx context.Context, test *domain.Test) ([]domain.AssembledQuestion, error) {
	rows, err := a.testQuestions.ListStatic(ctx, test.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list test questions", err)
	}
	list, err := a.build(ctx, rows, nil)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.NewNoEligibleQuestionsError()
	}

	if test.Settings.ShuffleQuestions {
		a.mu.Lock()
		a.rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
		a.mu.Unlock()
		for i := range list {
			list[i].Order = i + 1
		}
	}
	return list, nil
}

func (a *testAssembler) assembleRandom(ctx context.Context, test *domain.Test, attemptID string) ([]domain.AssembledQuestion, error) {
	ids, err := a.questions.ListEligibleIDs(ctx, test.EligibilityFilter())
	if err != nil {
		return nil, domain.NewInternalError("Failed to list eligible questions", err)
	}
	if len(ids) == 0 {
		return nil, domain.NewNoEligibleQuestionsError()
	}

	picked := a.sample(ids, test.RandomQuestionsCount)
	rows := make([]domain.TestQuestion, len(picked))
	for i, id := range picked {
		rows[i] = domain.TestQuestion{
			TestID:     test.ID,
			QuestionID: id,
			Order:      i + 1,
			Points:     domain.DefaultPoints,
			AttemptID:  &attemptID,
		}
	}
	if err := a.testQuestions.CreateBatch(ctx, rows); err != nil {
		return nil, domain.NewInternalError("Failed to store sampled questions", err)
	}
	if len(picked) < test.RandomQuestionsCount {
		logger.Get().Info("Random test has fewer eligible questions than requested",
			zap.String("testID", test.ID),
			zap.Int("requested", test.RandomQuestionsCount),
			zap.Int("eligible", len(ids)))
	}
	return a.build(ctx, rows, nil)
}

// sample draws min(k, len(ids)) distinct ids uniformly with a partial Fisher-Yates shuffle.
// ids is not modified.
func (a *testAssembler) sample(ids []string, k int) []string {
	pool := append([]string(nil), ids...)
	if k <= 0 || k > len(pool) {
		k = len(pool)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i < k; i++ {
		j := i + a.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

func (a *testAssembler) shuffleAnswers(answers []domain.Answer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rng.Shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })
}

func (a *testAssembler) Load(ctx context.Context, test *domain.Test, attempt *domain.TestAttempt) ([]domain.AssembledQuestion, error) {
	var (
		rows []domain.TestQuestion
		err  error
	)
	if test.IsRandom {
		rows, err = a.testQuestions.ListForAttempt(ctx, attempt.ID)
	} else {
		rows, err = a.testQuestions.ListStatic(ctx, test.ID)
	}
	if err != nil {
		return nil, domain.NewInternalError("Failed to list attempt questions", err)
	}
	started := attempt.StartTime
	list, err := a.build(ctx, rows, &started)
	if err != nil {
		return nil, err
	}
	if order := a.orders.Get(ctx, attempt.ID); order != nil {
		list = applyOrder(list, order)
	}
	return list, nil
}

// build loads the questions of rows with their answers, in row order. With a nil presentedAt
// only live questions are used; otherwise a question counts when it was not yet deleted at that time.
func (a *testAssembler) build(ctx context.Context, rows []domain.TestQuestion, presentedAt *time.Time) ([]domain.AssembledQuestion, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	byID, err := loadQuestions(ctx, a.questions, rows, true, presentedAt != nil)
	if err != nil {
		return nil, err
	}
	list := make([]domain.AssembledQuestion, 0, len(rows))
	for _, r := range rows {
		q, ok := byID[r.QuestionID]
		if !ok {
			continue
		}
		if presentedAt != nil && q.DeletedAt != nil && q.DeletedAt.Before(*presentedAt) {
			continue
		}
		points := r.Points
		if points <= 0 {
			points = domain.DefaultPoints
		}
		list = append(list, domain.AssembledQuestion{Question: *q, Order: r.Order, Points: points})
	}
	return list, nil
}

func orderOf(list []domain.AssembledQuestion) *AttemptOrder {
	order := &AttemptOrder{
		QuestionIDs: make([]string, len(list)),
		AnswerIDs:   make(map[string][]string),
	}
	for i, aq := range list {
		order.QuestionIDs[i] = aq.Question.ID
		if len(aq.Question.Answers) == 0 {
			continue
		}
		ids := make([]string, len(aq.Question.Answers))
		for j, ans := range aq.Question.Answers {
			ids[j] = ans.ID
		}
		order.AnswerIDs[aq.Question.ID] = ids
	}
	return order
}

// applyOrder rearranges list to a cached presentation. Questions missing from the cached
// order keep their relative position at the end.
func applyOrder(list []domain.AssembledQuestion, order *AttemptOrder) []domain.AssembledQuestion {
	byID := make(map[string]domain.AssembledQuestion, len(list))
	for _, aq := range list {
		byID[aq.Question.ID] = aq
	}

	out := make([]domain.AssembledQuestion, 0, len(list))
	for _, id := range order.QuestionIDs {
		if aq, ok := byID[id]; ok {
			out = append(out, aq)
			delete(byID, id)
		}
	}
	for _, aq := range list {
		if _, left := byID[aq.Question.ID]; left {
			out = append(out, aq)
		}
	}

	for i := range out {
		out[i].Order = i + 1
		if ids, ok := order.AnswerIDs[out[i].Question.ID]; ok {
			out[i].Question.Answers = reorderAnswers(out[i].Question.Answers, ids)
		}
	}
	return out
}

func reorderAnswers(answers []domain.Answer, ids []string) []domain.Answer {
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	out := make([]domain.Answer, 0, len(answers))
	var rest []domain.Answer
	slots := make([]*domain.Answer, len(ids))
	for i := range answers {
		if p, ok := pos[answers[i].ID]; ok {
			slots[p] = &answers[i]
		} else {
			rest = append(rest, answers[i])
		}
	}
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	return append(out, rest...)
}
