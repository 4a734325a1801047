//go:build integration

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"crew-exam/internal/adapter"
	"crew-exam/internal/adapter/spreadsheet"
	"crew-exam/internal/cache"
	"crew-exam/internal/config"
	"crew-exam/internal/database"
	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/handler"
	"crew-exam/internal/logger"
	"crew-exam/internal/middleware"
	"crew-exam/internal/repository"
	"crew-exam/internal/service"
	"crew-exam/internal/util"
	"crew-exam/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: ENV=test go test -tags integration ./internal/handler/...
// Needs the Oracle and Redis instances named in the repository config.yaml.

var (
	itApp   *fiber.App
	itDB    *sqlx.DB
	itRedis *redis.Client
	itAuth  service.AuthService
)

// seeded by 000002_seed_reference_data
const itCategoryID = "01HZSEEDC00000000000000001"

func TestMain(m *testing.M) {
	os.Setenv("ENV", "test")

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	itDB, err = database.NewSQLXOracleDB(cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	if _, err := database.RunMigrations(context.Background(), itDB); err != nil {
		panic(fmt.Sprintf("Failed to run migrations: %v", err))
	}
	itRedis, err = cache.NewRedisClient(cfg.Redis)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test Redis: %v", err))
	}
	itAuth, err = service.NewAuthService(cfg.JWT)
	if err != nil {
		panic(fmt.Sprintf("Failed to create AuthService: %v", err))
	}

	itApp = buildIntegrationApp(cfg)
	code := m.Run()

	itRedis.Close()
	itDB.Close()
	os.Exit(code)
}

func buildIntegrationApp(cfg *config.Config) *fiber.App {
	cacheAdapter := adapter.NewRedisCacheAdapter(itRedis)
	references := repository.NewReferenceDatabaseAdapter(itDB)
	questions := repository.NewQuestionDatabaseAdapter(itDB)
	tests := repository.NewTestDatabaseAdapter(itDB)
	testQuestions := repository.NewSQLXTestQuestionRepository(itDB)
	attempts := repository.NewSQLXAttemptRepository(itDB)
	responses := repository.NewSQLXResponseRepository(itDB)
	tx := repository.NewTransactionManagerAdapter(itDB)

	stats := service.NewStatsCacheService(cacheAdapter, cfg.Stats.CacheTTL)
	assembler := service.NewTestAssembler(testQuestions, questions, service.NewAttemptOrderCache(cacheAdapter), nil, cfg.Attempt.OrderCacheTTL)
	codec := spreadsheet.NewExcelizeCodec()
	attemptService := service.NewAttemptService(tests, attempts, responses, assembler, tx, stats, cfg.Attempt)
	v := validation.NewValidator()

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app, handler.Handlers{
		Health:    handler.NewHealthHandler(map[string]handler.HealthCheck{"database": itDB.PingContext}),
		Reference: handler.NewReferenceHandler(service.NewReferenceService(references), v),
		Question: handler.NewQuestionHandler(
			service.NewQuestionService(questions, references, tx),
			service.NewImportService(questions, references, tx, codec, cfg.Import),
			service.NewExportService(questions, references, codec),
			v, cfg.Import),
		Test:    handler.NewTestHandler(service.NewTestService(tests, testQuestions, questions, attempts, tx, stats), attemptService, v),
		Attempt: handler.NewAttemptHandler(service.NewCatalogueService(tests, testQuestions, attempts, repository.NewSQLXCrewProfileRepository(itDB)), attemptService, v),
	}, itAuth, nil, middleware.NewValidationMiddleware(v))
	return app
}

func itToken(t *testing.T, userID string, role domain.Role) string {
	t.Helper()
	token, err := itAuth.CreateJWT(context.Background(), userID, role)
	require.NoError(t, err)
	return token
}

func itCall(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := itApp.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < http.StatusBadRequest {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestIntegration_AttemptLifecycle(t *testing.T) {
	admin := itToken(t, "it-admin-"+util.NewULID(), domain.RoleAdmin)
	seafarerID := "it-crew-" + util.NewULID()
	seafarer := itToken(t, seafarerID, domain.RoleSeafarer)

	var q1, q2 dto.QuestionResponse
	require.Equal(t, http.StatusCreated, itCall(t, "POST", "/api/admin/questions", admin, dto.QuestionRequest{
		Content:    "Integration: which signal means man overboard? " + util.NewULID(),
		Type:       "multiple_choice",
		Difficulty: "easy",
		CategoryID: itCategoryID,
		Answers: []dto.AnswerRequest{
			{Content: "Flag O", IsCorrect: true},
			{Content: "Flag A"},
		},
	}, &q1))
	require.Equal(t, http.StatusCreated, itCall(t, "POST", "/api/admin/questions", admin, dto.QuestionRequest{
		Content:    "Integration: describe a muster. " + util.NewULID(),
		Type:       "essay",
		Difficulty: "medium",
		CategoryID: itCategoryID,
	}, &q2))

	var created dto.TestResponse
	require.Equal(t, http.StatusCreated, itCall(t, "POST", "/api/admin/tests", admin, dto.TestRequest{
		Mode:            dto.TestModeFixed,
		Title:           "Integration test " + util.NewULID(),
		Description:     "Lifecycle",
		DurationMinutes: 10,
		PassingScore:    50,
		Category:        "Safety",
		Difficulty:      "all",
		Type:            "mixed",
		Fixed:           &dto.FixedSelection{QuestionIDs: []string{q1.ID, q2.ID}},
	}, &created))
	t.Cleanup(func() {
		itDB.Exec(`DELETE FROM user_responses WHERE attempt_id IN (SELECT id FROM test_attempts WHERE test_id = :1)`, created.ID)
		itDB.Exec(`DELETE FROM test_attempts WHERE test_id = :1`, created.ID)
		itDB.Exec(`DELETE FROM test_questions WHERE test_id = :1`, created.ID)
		itDB.Exec(`DELETE FROM test_settings WHERE test_id = :1`, created.ID)
		itDB.Exec(`DELETE FROM tests WHERE id = :1`, created.ID)
	})

	var attempt dto.AttemptResponse
	require.Equal(t, http.StatusCreated, itCall(t, "POST", "/api/tests/"+created.ID+"/start", seafarer, nil, &attempt))
	require.Len(t, attempt.Questions, 2)
	assert.Equal(t, seafarerID, attempt.Attempt.UserID)

	var correctID string
	for _, a := range q1.Answers {
		if a.IsCorrect {
			correctID = a.ID
		}
	}
	submit := dto.SubmitRequest{Responses: map[string]domain.SubmittedAnswer{
		q1.ID: {AnswerID: correctID},
		q2.ID: {TextResponse: "Crew gathers at the muster station and is counted."},
	}}
	var result dto.AttemptResult
	require.Equal(t, http.StatusOK, itCall(t, "POST", "/api/attempts/"+attempt.Attempt.ID+"/submit", seafarer, submit, &result))
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 1, result.PendingReview)
	assert.Equal(t, 50.0, result.Score)

	var again dto.AttemptResult
	require.Equal(t, http.StatusOK, itCall(t, "POST", "/api/attempts/"+attempt.Attempt.ID+"/submit", seafarer, submit, &again))
	assert.Equal(t, result.Score, again.Score)

	var graded dto.AttemptResult
	var pendingID string
	var adminView dto.AttemptResult
	require.Equal(t, http.StatusOK, itCall(t, "GET", "/api/attempts/"+attempt.Attempt.ID+"/result", admin, nil, &adminView))
	for _, item := range adminView.Items {
		if item.Status == string(domain.ResponsePendingReview) {
			pendingID = item.ResponseID
		}
	}
	require.NotEmpty(t, pendingID)
	require.Equal(t, http.StatusOK, itCall(t, "POST", "/api/admin/responses/"+pendingID+"/grade", admin, dto.GradeRequest{Score: 1}, &graded))
	assert.Equal(t, 100.0, graded.Score)

	assert.Equal(t, http.StatusConflict, itCall(t, "DELETE", "/api/admin/tests/"+created.ID, admin, nil, nil))
}
