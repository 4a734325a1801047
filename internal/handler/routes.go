package handler

import (
	"crew-exam/internal/domain"
	"crew-exam/internal/middleware"
	"crew-exam/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every HTTP handler the API mounts.
type Handlers struct {
	Health    *HealthHandler
	Reference *ReferenceHandler
	Question  *QuestionHandler
	Test      *TestHandler
	Attempt   *AttemptHandler
}

// RegisterRoutes mounts the API. limiter may be nil.
func RegisterRoutes(app *fiber.App, h Handlers, authService service.AuthService, limiter fiber.Handler, ids *middleware.ValidationMiddleware) {
	app.Get("/health", h.Health.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	if limiter != nil {
		api.Use(limiter)
	}
	api.Use(middleware.Protected(authService))
	id := ids.ValidateIDParam("id")

	api.Get("/references/:kind", h.Reference.List)

	api.Get("/tests", h.Attempt.ListTests)
	api.Get("/tests/:id", id, h.Attempt.GetTest)
	api.Post("/tests/:id/start", id, h.Attempt.Start)
	api.Get("/attempts/:id", id, h.Attempt.GetAttempt)
	api.Post("/attempts/:id/submit", id, h.Attempt.Submit)
	api.Get("/attempts/:id/result", id, h.Attempt.Result)

	admin := api.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.Post("/references/:kind", h.Reference.Create)

	admin.Get("/questions", h.Question.List)
	admin.Post("/questions", h.Question.Create)
	admin.Get("/questions/count", h.Question.Count)
	admin.Post("/questions/import", h.Question.Import)
	admin.Get("/questions/export/template", h.Question.ExportTemplate)
	admin.Get("/questions/export", h.Question.Export)
	admin.Get("/questions/:id", id, h.Question.Get)
	admin.Put("/questions/:id", id, h.Question.Update)
	admin.Delete("/questions/:id", id, h.Question.Delete)

	admin.Get("/tests", h.Test.List)
	admin.Post("/tests", h.Test.Create)
	admin.Get("/tests/:id", id, h.Test.Get)
	admin.Put("/tests/:id", id, h.Test.Update)
	admin.Delete("/tests/:id", id, h.Test.Delete)
	admin.Post("/tests/:id/toggle", id, h.Test.Toggle)
	admin.Get("/tests/:id/preview", id, h.Test.Preview)
	admin.Get("/tests/:id/results", id, h.Test.Results)
	admin.Get("/tests/:id/statistics", id, h.Test.Statistics)
	admin.Post("/responses/:id/grade", id, h.Test.Grade)
}
