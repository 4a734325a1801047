package handler_test

import (
	"context"
	"io"

	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/port"
	"crew-exam/internal/service"
)

// --- Manual Mocks ---

// MockAuthService treats the bearer token as "<role>:<userID>".
type MockAuthService struct{}

func (m *MockAuthService) CreateJWT(ctx context.Context, userID string, role domain.Role) (string, error) {
	return string(role) + ":" + userID, nil
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleSeafarer} {
		prefix := string(role) + ":"
		if len(tokenString) > len(prefix) && tokenString[:len(prefix)] == prefix {
			return &dto.AuthClaims{UserID: tokenString[len(prefix):], Role: string(role), TokenType: service.TokenTypeAccess}, nil
		}
	}
	return nil, service.ErrInvalidJWTToken
}

type MockReferenceService struct {
	ListFunc   func(ctx context.Context, kind domain.ReferenceKind) ([]*domain.Reference, error)
	CreateFunc func(ctx context.Context, kind domain.ReferenceKind, req *dto.ReferenceRequest) (*domain.Reference, error)
}

func (m *MockReferenceService) List(ctx context.Context, kind domain.ReferenceKind) ([]*domain.Reference, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, kind)
	}
	panic("MockReferenceService.ListFunc not implemented")
}
func (m *MockReferenceService) GetByID(ctx context.Context, kind domain.ReferenceKind, id string) (*domain.Reference, error) {
	panic("MockReferenceService.GetByID not implemented")
}
func (m *MockReferenceService) Create(ctx context.Context, kind domain.ReferenceKind, req *dto.ReferenceRequest) (*domain.Reference, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, kind, req)
	}
	panic("MockReferenceService.CreateFunc not implemented")
}

type MockQuestionService struct {
	CreateFunc        func(ctx context.Context, userID string, req *dto.QuestionRequest) (*dto.QuestionResponse, error)
	UpdateFunc        func(ctx context.Context, id string, req *dto.QuestionRequest) (*dto.QuestionResponse, error)
	GetFunc           func(ctx context.Context, id string) (*dto.QuestionResponse, error)
	ListFunc          func(ctx context.Context, query dto.QuestionQuery, p dto.Pagination) (*dto.QuestionListResponse, error)
	DeleteFunc        func(ctx context.Context, id string) error
	CountEligibleFunc func(ctx context.Context, query dto.EligibilityQuery) (int, error)
}

func (m *MockQuestionService) Create(ctx context.Context, userID string, req *dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, req)
	}
	panic("MockQuestionService.CreateFunc not implemented")
}
func (m *MockQuestionService) Update(ctx context.Context, id string, req *dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req)
	}
	panic("MockQuestionService.UpdateFunc not implemented")
}
func (m *MockQuestionService) Get(ctx context.Context, id string) (*dto.QuestionResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	panic("MockQuestionService.GetFunc not implemented")
}
func (m *MockQuestionService) List(ctx context.Context, query dto.QuestionQuery, p dto.Pagination) (*dto.QuestionListResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, query, p)
	}
	panic("MockQuestionService.ListFunc not implemented")
}
func (m *MockQuestionService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	panic("MockQuestionService.DeleteFunc not implemented")
}
func (m *MockQuestionService) CountEligible(ctx context.Context, query dto.EligibilityQuery) (int, error) {
	if m.CountEligibleFunc != nil {
		return m.CountEligibleFunc(ctx, query)
	}
	panic("MockQuestionService.CountEligibleFunc not implemented")
}

type MockImportService struct {
	ImportFunc func(ctx context.Context, r io.Reader, opts service.ImportOptions) (*dto.ImportSummary, error)
}

func (m *MockImportService) Import(ctx context.Context, r io.Reader, opts service.ImportOptions) (*dto.ImportSummary, error) {
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, r, opts)
	}
	panic("MockImportService.ImportFunc not implemented")
}
func (m *MockImportService) ImportRows(ctx context.Context, rows []port.QuestionRow, opts service.ImportOptions) (*dto.ImportSummary, error) {
	panic("MockImportService.ImportRows not implemented")
}

type MockExportService struct {
	ExportTemplateFunc  func(ctx context.Context, w io.Writer) error
	ExportQuestionsFunc func(ctx context.Context, w io.Writer, query dto.QuestionQuery) error
}

func (m *MockExportService) ExportTemplate(ctx context.Context, w io.Writer) error {
	if m.ExportTemplateFunc != nil {
		return m.ExportTemplateFunc(ctx, w)
	}
	panic("MockExportService.ExportTemplateFunc not implemented")
}
func (m *MockExportService) ExportQuestions(ctx context.Context, w io.Writer, query dto.QuestionQuery) error {
	if m.ExportQuestionsFunc != nil {
		return m.ExportQuestionsFunc(ctx, w, query)
	}
	panic("MockExportService.ExportQuestionsFunc not implemented")
}

type MockTestService struct {
	CreateFunc       func(ctx context.Context, userID string, req *dto.TestRequest) (*dto.TestResponse, error)
	UpdateFunc       func(ctx context.Context, id string, req *dto.TestRequest) (*dto.TestResponse, error)
	ToggleActiveFunc func(ctx context.Context, id string) (*dto.TestResponse, error)
	DeleteFunc       func(ctx context.Context, id string) error
	GetFunc          func(ctx context.Context, id string) (*dto.TestResponse, error)
	ListFunc         func(ctx context.Context, query dto.TestQuery, p dto.Pagination) (*dto.TestListResponse, error)
	PreviewFunc      func(ctx context.Context, id string) (*dto.TestResponse, error)
	ResultsFunc      func(ctx context.Context, id string, p dto.Pagination) (*dto.TestResultsResponse, error)
	StatisticsFunc   func(ctx context.Context, id string) (*dto.TestStatistics, error)
}

func (m *MockTestService) Create(ctx context.Context, userID string, req *dto.TestRequest) (*dto.TestResponse, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, req)
	}
	panic("MockTestService.CreateFunc not implemented")
}
func (m *MockTestService) Update(ctx context.Context, id string, req *dto.TestRequest) (*dto.TestResponse, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req)
	}
	panic("MockTestService.UpdateFunc not implemented")
}
func (m *MockTestService) ToggleActive(ctx context.Context, id string) (*dto.TestResponse, error) {
	if m.ToggleActiveFunc != nil {
		return m.ToggleActiveFunc(ctx, id)
	}
	panic("MockTestService.ToggleActiveFunc not implemented")
}
func (m *MockTestService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	panic("MockTestService.DeleteFunc not implemented")
}
func (m *MockTestService) Get(ctx context.Context, id string) (*dto.TestResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	panic("MockTestService.GetFunc not implemented")
}
func (m *MockTestService) List(ctx context.Context, query dto.TestQuery, p dto.Pagination) (*dto.TestListResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, query, p)
	}
	panic("MockTestService.ListFunc not implemented")
}
func (m *MockTestService) Preview(ctx context.Context, id string) (*dto.TestResponse, error) {
	if m.PreviewFunc != nil {
		return m.PreviewFunc(ctx, id)
	}
	panic("MockTestService.PreviewFunc not implemented")
}
func (m *MockTestService) Results(ctx context.Context, id string, p dto.Pagination) (*dto.TestResultsResponse, error) {
	if m.ResultsFunc != nil {
		return m.ResultsFunc(ctx, id, p)
	}
	panic("MockTestService.ResultsFunc not implemented")
}
func (m *MockTestService) Statistics(ctx context.Context, id string) (*dto.TestStatistics, error) {
	if m.StatisticsFunc != nil {
		return m.StatisticsFunc(ctx, id)
	}
	panic("MockTestService.StatisticsFunc not implemented")
}

type MockAttemptService struct {
	StartFunc  func(ctx context.Context, userID, testID string) (*dto.AttemptResponse, error)
	GetFunc    func(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error)
	SubmitFunc func(ctx context.Context, userID, attemptID string, req *dto.SubmitRequest) (*dto.AttemptResult, error)
	ResultFunc func(ctx context.Context, userID, attemptID string, asAdmin bool) (*dto.AttemptResult, error)
	GradeFunc  func(ctx context.Context, responseID string, score float64) (*dto.AttemptResult, error)
}

func (m *MockAttemptService) Start(ctx context.Context, userID, testID string) (*dto.AttemptResponse, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, userID, testID)
	}
	panic("MockAttemptService.StartFunc not implemented")
}
func (m *MockAttemptService) Get(ctx context.Context, userID, attemptID string) (*dto.AttemptResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, attemptID)
	}
	panic("MockAttemptService.GetFunc not implemented")
}
func (m *MockAttemptService) Submit(ctx context.Context, userID, attemptID string, req *dto.SubmitRequest) (*dto.AttemptResult, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, userID, attemptID, req)
	}
	panic("MockAttemptService.SubmitFunc not implemented")
}
func (m *MockAttemptService) Result(ctx context.Context, userID, attemptID string, asAdmin bool) (*dto.AttemptResult, error) {
	if m.ResultFunc != nil {
		return m.ResultFunc(ctx, userID, attemptID, asAdmin)
	}
	panic("MockAttemptService.ResultFunc not implemented")
}
func (m *MockAttemptService) Grade(ctx context.Context, responseID string, score float64) (*dto.AttemptResult, error) {
	if m.GradeFunc != nil {
		return m.GradeFunc(ctx, responseID, score)
	}
	panic("MockAttemptService.GradeFunc not implemented")
}

type MockCatalogueService struct {
	ListAvailableFunc func(ctx context.Context, userID string, query dto.CatalogueQuery, p dto.Pagination) (*dto.CatalogueResponse, error)
	GetDetailFunc     func(ctx context.Context, userID, testID string) (*dto.CatalogueItem, error)
}

func (m *MockCatalogueService) ListAvailable(ctx context.Context, userID string, query dto.CatalogueQuery, p dto.Pagination) (*dto.CatalogueResponse, error) {
	if m.ListAvailableFunc != nil {
		return m.ListAvailableFunc(ctx, userID, query, p)
	}
	panic("MockCatalogueService.ListAvailableFunc not implemented")
}
func (m *MockCatalogueService) GetDetail(ctx context.Context, userID, testID string) (*dto.CatalogueItem, error) {
	if m.GetDetailFunc != nil {
		return m.GetDetailFunc(ctx, userID, testID)
	}
	panic("MockCatalogueService.GetDetailFunc not implemented")
}
