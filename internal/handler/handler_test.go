package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crew-exam/internal/config"
	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/handler"
	"crew-exam/internal/middleware"
	"crew-exam/internal/service"
	"crew-exam/internal/util"
	"crew-exam/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	app        *fiber.App
	references *MockReferenceService
	questions  *MockQuestionService
	imports    *MockImportService
	exports    *MockExportService
	tests      *MockTestService
	attempts   *MockAttemptService
	catalogue  *MockCatalogueService
	checks     map[string]handler.HealthCheck
}

func newTestApp() *testApp {
	ta := &testApp{
		references: &MockReferenceService{},
		questions:  &MockQuestionService{},
		imports:    &MockImportService{},
		exports:    &MockExportService{},
		tests:      &MockTestService{},
		attempts:   &MockAttemptService{},
		catalogue:  &MockCatalogueService{},
		checks:     map[string]handler.HealthCheck{},
	}
	v := validation.NewValidator()
	importCfg := config.ImportConfig{MaxRows: 100, SkipDuplicates: true, CreateMissing: true}

	ta.app = fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(ta.app, handler.Handlers{
		Health:    handler.NewHealthHandler(ta.checks),
		Reference: handler.NewReferenceHandler(ta.references, v),
		Question:  handler.NewQuestionHandler(ta.questions, ta.imports, ta.exports, v, importCfg),
		Test:      handler.NewTestHandler(ta.tests, ta.attempts, v),
		Attempt:   handler.NewAttemptHandler(ta.catalogue, ta.attempts, v),
	}, &MockAuthService{}, nil, middleware.NewValidationMiddleware(v))
	return ta
}

func (ta *testApp) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

const (
	adminToken    = "admin:admin1"
	seafarerToken = "seafarer:crew1"
)

func TestRoutes_RequireToken(t *testing.T) {
	ta := newTestApp()
	resp := ta.do(t, "GET", "/api/tests", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = ta.do(t, "GET", "/api/tests", "bogus", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRoutes_AdminOnly(t *testing.T) {
	ta := newTestApp()
	resp := ta.do(t, "GET", "/api/admin/tests", seafarerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRoutes_InvalidID(t *testing.T) {
	ta := newTestApp()
	resp := ta.do(t, "GET", "/api/admin/tests/123", adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	decode(t, resp, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "id", body.Errors[0].Field)
}

func TestHealth(t *testing.T) {
	ta := newTestApp()
	resp := ta.do(t, "GET", "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	ta.checks["database"] = func(ctx context.Context) error { return errors.New("ORA-12541: no listener") }
	resp = ta.do(t, "GET", "/health", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body handler.HealthResponse
	decode(t, resp, &body)
	assert.Equal(t, "degraded", body.Status)
	assert.Contains(t, body.Checks["database"], "no listener")
}

func TestReferences(t *testing.T) {
	ta := newTestApp()
	ta.references.ListFunc = func(ctx context.Context, kind domain.ReferenceKind) ([]*domain.Reference, error) {
		assert.Equal(t, domain.ReferenceShipType, kind)
		return []*domain.Reference{{ID: "s1", Name: "Tanker"}}, nil
	}

	resp := ta.do(t, "GET", "/api/references/ship-types", seafarerToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var refs []domain.Reference
	decode(t, resp, &refs)
	require.Len(t, refs, 1)

	resp = ta.do(t, "GET", "/api/references/crews", seafarerToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = ta.do(t, "POST", "/api/admin/references/positions", adminToken, dto.ReferenceRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "name is required")
}

func TestStartAttempt(t *testing.T) {
	ta := newTestApp()
	testID := util.NewULID()
	ta.attempts.StartFunc = func(ctx context.Context, userID, id string) (*dto.AttemptResponse, error) {
		assert.Equal(t, "crew1", userID)
		assert.Equal(t, testID, id)
		return &dto.AttemptResponse{TestTitle: "Fire safety", RemainingSeconds: 1800}, nil
	}

	resp := ta.do(t, "POST", "/api/tests/"+testID+"/start", seafarerToken, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body dto.AttemptResponse
	decode(t, resp, &body)
	assert.Equal(t, int64(1800), body.RemainingSeconds)
}

func TestStartAttempt_BusinessErrors(t *testing.T) {
	ta := newTestApp()
	testID := util.NewULID()

	ta.attempts.StartFunc = func(ctx context.Context, userID, id string) (*dto.AttemptResponse, error) {
		return nil, domain.NewMaxAttemptsReachedError(1)
	}
	resp := ta.do(t, "POST", "/api/tests/"+testID+"/start", seafarerToken, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	ta.attempts.StartFunc = func(ctx context.Context, userID, id string) (*dto.AttemptResponse, error) {
		return nil, domain.NewNoEligibleQuestionsError()
	}
	resp = ta.do(t, "POST", "/api/tests/"+testID+"/start", seafarerToken, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSubmitAttempt(t *testing.T) {
	ta := newTestApp()
	attemptID, questionID, answerID := util.NewULID(), util.NewULID(), util.NewULID()

	ta.attempts.SubmitFunc = func(ctx context.Context, userID, id string, req *dto.SubmitRequest) (*dto.AttemptResult, error) {
		assert.Equal(t, "crew1", userID)
		assert.Equal(t, attemptID, id)
		assert.Equal(t, answerID, req.Responses[questionID].AnswerID)
		return &dto.AttemptResult{Score: 75, Passed: true, Correct: 3, Total: 4}, nil
	}

	body := map[string]interface{}{"responses": map[string]interface{}{questionID: map[string]string{"answer_id": answerID}}}
	resp := ta.do(t, "POST", "/api/attempts/"+attemptID+"/submit", seafarerToken, body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result dto.AttemptResult
	decode(t, resp, &result)
	assert.Equal(t, 75.0, result.Score)
	assert.True(t, result.Passed)
}

func TestSubmitAttempt_Rejected(t *testing.T) {
	ta := newTestApp()
	attemptID := util.NewULID()

	resp := ta.do(t, "POST", "/api/attempts/"+attemptID+"/submit", seafarerToken,
		map[string]interface{}{"responses": map[string]interface{}{"q1": map[string]string{"answer_id": "a"}}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	ta.attempts.SubmitFunc = func(ctx context.Context, userID, id string, req *dto.SubmitRequest) (*dto.AttemptResult, error) {
		return nil, domain.NewAttemptExpiredError(id)
	}
	resp = ta.do(t, "POST", "/api/attempts/"+attemptID+"/submit", seafarerToken, map[string]interface{}{"responses": map[string]interface{}{}})
	assert.Equal(t, fiber.StatusGone, resp.StatusCode)

	ta.attempts.SubmitFunc = func(ctx context.Context, userID, id string, req *dto.SubmitRequest) (*dto.AttemptResult, error) {
		return nil, domain.NewForbiddenError("Attempt belongs to another user")
	}
	resp = ta.do(t, "POST", "/api/attempts/"+attemptID+"/submit", seafarerToken, map[string]interface{}{"responses": map[string]interface{}{}})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAttemptResult_AdminFlag(t *testing.T) {
	ta := newTestApp()
	attemptID := util.NewULID()
	var gotAdmin []bool
	ta.attempts.ResultFunc = func(ctx context.Context, userID, id string, asAdmin bool) (*dto.AttemptResult, error) {
		gotAdmin = append(gotAdmin, asAdmin)
		return &dto.AttemptResult{}, nil
	}

	ta.do(t, "GET", "/api/attempts/"+attemptID+"/result", seafarerToken, nil)
	ta.do(t, "GET", "/api/attempts/"+attemptID+"/result", adminToken, nil)
	assert.Equal(t, []bool{false, true}, gotAdmin)
}

func TestCatalogue(t *testing.T) {
	ta := newTestApp()
	ta.catalogue.ListAvailableFunc = func(ctx context.Context, userID string, query dto.CatalogueQuery, p dto.Pagination) (*dto.CatalogueResponse, error) {
		assert.Equal(t, "crew1", userID)
		assert.Equal(t, "duration_asc", query.Sort)
		assert.Equal(t, 5, p.Limit)
		assert.Equal(t, 5, p.Offset)
		return &dto.CatalogueResponse{Items: []dto.CatalogueItem{}}, nil
	}

	resp := ta.do(t, "GET", "/api/tests?sort=duration_asc&limit=5&page=2", seafarerToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func validTestBody() dto.TestRequest {
	return dto.TestRequest{
		Mode:            dto.TestModeRandom,
		Title:           "Basic safety",
		Description:     "STCW refresher",
		DurationMinutes: 30,
		PassingScore:    70,
		Category:        "Safety",
		Difficulty:      "medium",
		Type:            "multiple_choice",
		Random:          &dto.RandomSelection{Count: 10},
	}
}

func TestCreateTest(t *testing.T) {
	ta := newTestApp()
	ta.tests.CreateFunc = func(ctx context.Context, userID string, req *dto.TestRequest) (*dto.TestResponse, error) {
		assert.Equal(t, "admin1", userID)
		assert.Equal(t, 10, req.Random.Count)
		return &dto.TestResponse{ID: "t1", Title: req.Title}, nil
	}

	resp := ta.do(t, "POST", "/api/admin/tests", adminToken, validTestBody())
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	bad := validTestBody()
	bad.Random = nil
	resp = ta.do(t, "POST", "/api/admin/tests", adminToken, bad)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	decode(t, resp, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "random.count", body.Errors[0].Field)
}

func TestDeleteTest_WithAttempts(t *testing.T) {
	ta := newTestApp()
	ta.tests.DeleteFunc = func(ctx context.Context, id string) error {
		return domain.NewTestHasAttemptsError(2)
	}
	resp := ta.do(t, "DELETE", "/api/admin/tests/"+util.NewULID(), adminToken, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	ta.tests.DeleteFunc = func(ctx context.Context, id string) error { return nil }
	resp = ta.do(t, "DELETE", "/api/admin/tests/"+util.NewULID(), adminToken, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestGradeResponse(t *testing.T) {
	ta := newTestApp()
	responseID := util.NewULID()
	ta.attempts.GradeFunc = func(ctx context.Context, id string, score float64) (*dto.AttemptResult, error) {
		assert.Equal(t, responseID, id)
		assert.Equal(t, 0.5, score)
		return &dto.AttemptResult{Score: 62.5}, nil
	}

	resp := ta.do(t, "POST", "/api/admin/responses/"+responseID+"/grade", adminToken, dto.GradeRequest{Score: 0.5})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = ta.do(t, "POST", "/api/admin/responses/"+responseID+"/grade", adminToken, dto.GradeRequest{Score: 1.5})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func multipartImport(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withFile {
		part, err := w.CreateFormFile("file", "questions.xlsx")
		require.NoError(t, err)
		_, err = part.Write([]byte("xlsx-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestImportQuestions(t *testing.T) {
	ta := newTestApp()
	ta.imports.ImportFunc = func(ctx context.Context, r io.Reader, opts service.ImportOptions) (*dto.ImportSummary, error) {
		content, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "xlsx-bytes", string(content))
		assert.Equal(t, "admin1", opts.UserID)
		assert.False(t, opts.SkipDuplicates)
		assert.True(t, opts.CreateMissing, "config default applies when the field is absent")
		return &dto.ImportSummary{ImportedCount: 3, Errors: []string{}, Warnings: []string{}}, nil
	}

	body, contentType := multipartImport(t, map[string]string{"skip_duplicates": "false"}, true)
	req := httptest.NewRequest("POST", "/api/admin/questions/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var summary dto.ImportSummary
	decode(t, resp, &summary)
	assert.Equal(t, 3, summary.ImportedCount)
}

func TestImportQuestions_MissingFile(t *testing.T) {
	ta := newTestApp()
	body, contentType := multipartImport(t, map[string]string{"create_missing": "true"}, false)
	req := httptest.NewRequest("POST", "/api/admin/questions/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExportTemplate(t *testing.T) {
	ta := newTestApp()
	ta.exports.ExportTemplateFunc = func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("PK"))
		return err
	}

	resp := ta.do(t, "GET", "/api/admin/questions/export/template", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.True(t, strings.Contains(resp.Header.Get("Content-Disposition"), "question_import_template.xlsx"))
}

func TestExportQuestions_PassesFilter(t *testing.T) {
	ta := newTestApp()
	ta.exports.ExportQuestionsFunc = func(ctx context.Context, w io.Writer, query dto.QuestionQuery) error {
		assert.Equal(t, "c1", query.CategoryID)
		return nil
	}

	resp := ta.do(t, "GET", "/api/admin/questions/export?category_id=c1", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
