package service

import (
	"context"

	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
)

// CatalogueService lists the active tests a seafarer may take.
type CatalogueService interface {
	ListAvailable(ctx context.Context, userID string, query dto.CatalogueQuery, p dto.Pagination) (*dto.CatalogueResponse, error)
	GetDetail(ctx context.Context, userID, testID string) (*dto.CatalogueItem, error)
}

type catalogueService struct {
	tests         domain.TestRepository
	testQuestions domain.TestQuestionRepository
	attempts      domain.AttemptRepository
	profiles      domain.CrewProfileRepository
}

func NewCatalogueService(
	tests domain.TestRepository,
	testQuestions domain.TestQuestionRepository,
	attempts domain.AttemptRepository,
	profiles domain.CrewProfileRepository,
) CatalogueService {
	return &catalogueService{tests: tests, testQuestions: testQuestions, attempts: attempts, profiles: profiles}
}

func (s *catalogueService) ListAvailable(ctx context.Context, userID string, query dto.CatalogueQuery, p dto.Pagination) (*dto.CatalogueResponse, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	filter := domain.CatalogueFilter{
		PositionID: profile.PositionID,
		ShipTypeID: profile.ShipTypeID,
		Search:     query.Search,
		Sort:       domain.CatalogueSort(query.Sort),
	}
	if t, ok := domain.ParseQuestionType(query.Type); ok {
		filter.Type = t
	} else if query.Type == string(domain.TestTypeMixed) {
		filter.Type = domain.TestTypeMixed
	}
	if d, ok := domain.ParseDifficulty(query.Difficulty); ok {
		filter.Difficulty = d
	}

	p = p.Normalize()
	tests, total, err := s.tests.ListAvailable(ctx, filter, domain.Page{Limit: p.Limit, Offset: p.Offset})
	if err != nil {
		return nil, domain.NewInternalError("Failed to list available tests", err)
	}

	byTest := map[string][]dto.AttemptSummary{}
	if len(tests) > 0 {
		ids := make([]string, len(tests))
		for i, t := range tests {
			ids[i] = t.ID
		}
		attempts, err := s.attempts.ListByUser(ctx, userID, ids)
		if err != nil {
			return nil, domain.NewInternalError("Failed to list attempts", err)
		}
		testsByID := make(map[string]*domain.Test, len(tests))
		for _, t := range tests {
			testsByID[t.ID] = t
		}
		for _, a := range attempts {
			byTest[a.TestID] = append(byTest[a.TestID], dto.NewAttemptSummary(a, testsByID[a.TestID]))
		}
	}

	items := make([]dto.CatalogueItem, len(tests))
	for i, t := range tests {
		resp, err := s.withCount(ctx, t)
		if err != nil {
			return nil, err
		}
		attempts := byTest[t.ID]
		if attempts == nil {
			attempts = []dto.AttemptSummary{}
		}
		items[i] = dto.CatalogueItem{Test: resp, Attempts: attempts}
	}
	return &dto.CatalogueResponse{Items: items, PaginationInfo: dto.NewPaginationInfo(total, p)}, nil
}

// GetDetail hides inactive tests and tests scoped to another position or ship type.
func (s *catalogueService) GetDetail(ctx context.Context, userID, testID string) (*dto.CatalogueItem, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get test", err)
	}
	if test == nil || !test.IsActive || !visibleTo(test, profile) {
		return nil, domain.NewTestNotFoundError(testID)
	}

	resp, err := s.withCount(ctx, test)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts.ListByUser(ctx, userID, []string{testID})
	if err != nil {
		return nil, domain.NewInternalError("Failed to list attempts", err)
	}
	summaries := make([]dto.AttemptSummary, len(attempts))
	for i, a := range attempts {
		summaries[i] = dto.NewAttemptSummary(a, test)
	}
	return &dto.CatalogueItem{Test: resp, Attempts: summaries}, nil
}

// profile returns an empty profile for users without one; they see only unscoped tests.
func (s *catalogueService) profile(ctx context.Context, userID string) (*domain.CrewProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get crew profile", err)
	}
	if profile == nil {
		profile = &domain.CrewProfile{UserID: userID}
	}
	return profile, nil
}

func (s *catalogueService) withCount(ctx context.Context, t *domain.Test) (dto.TestResponse, error) {
	resp := dto.NewTestResponse(t)
	if !t.IsRandom {
		n, err := s.testQuestions.CountStatic(ctx, t.ID)
		if err != nil {
			return resp, domain.NewInternalError("Failed to count test questions", err)
		}
		resp.QuestionCount = n
	}
	return resp, nil
}

func visibleTo(t *domain.Test, p *domain.CrewProfile) bool {
	return scopeMatches(t.PositionID, p.PositionID) && scopeMatches(t.ShipTypeID, p.ShipTypeID)
}

func scopeMatches(testScope, profileScope *string) bool {
	if testScope == nil {
		return true
	}
	return profileScope != nil && *testScope == *profileScope
}
