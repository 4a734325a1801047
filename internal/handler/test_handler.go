package handler

import (
	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/middleware"
	"crew-exam/internal/service"
	"crew-exam/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// TestHandler handles the admin test definition endpoints.
type TestHandler struct {
	tests     service.TestService
	attempts  service.AttemptService
	validator *validation.Validator
}

func NewTestHandler(tests service.TestService, attempts service.AttemptService, validator *validation.Validator) *TestHandler {
	return &TestHandler{tests: tests, attempts: attempts, validator: validator}
}

// List godoc
// @Summary List tests
// @Tags tests
// @Produce json
// @Param position_id query string false "Position"
// @Param ship_type_id query string false "Ship type"
// @Param search query string false "Title search"
// @Param limit query int false "Page size"
// @Param page query int false "Page number"
// @Success 200 {object} dto.TestListResponse
// @Security ApiKeyAuth
// @Router /admin/tests [get]
func (h *TestHandler) List(c *fiber.Ctx) error {
	var query dto.TestQuery
	if err := c.QueryParser(&query); err != nil {
		return domain.NewInvalidInputError("Invalid query parameters")
	}
	p, err := parsePagination(c)
	if err != nil {
		return err
	}
	resp, err := h.tests.List(c.Context(), query, p)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Create godoc
// @Summary Create a test
// @Description Creates a fixed test bound to explicit questions or a random test drawing from a filter
// @Tags tests
// @Accept json
// @Produce json
// @Param body body dto.TestRequest true "Test"
// @Success 201 {object} dto.TestResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/tests [post]
func (h *TestHandler) Create(c *fiber.Ctx) error {
	var req dto.TestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.ValidateTestRequest(&req); len(errs) > 0 {
		return errs
	}
	resp, err := h.tests.Create(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Get godoc
// @Summary Get a test
// @Tags tests
// @Produce json
// @Param id path string true "Test ID"
// @Success 200 {object} dto.TestResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/tests/{id} [get]
func (h *TestHandler) Get(c *fiber.Ctx) error {
	resp, err := h.tests.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary Update a test
// @Tags tests
// @Accept json
// @Produce json
// @Param id path string true "Test ID"
// @Param body body dto.TestRequest true "Test"
// @Success 200 {object} dto.TestResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/tests/{id} [put]
func (h *TestHandler) Update(c *fiber.Ctx) error {
	var req dto.TestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.ValidateTestRequest(&req); len(errs) > 0 {
		return errs
	}
	resp, err := h.tests.Update(c.Context(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete a test
// @Description Rejected once the test has attempts
// @Tags tests
// @Param id path string true "Test ID"
// @Success 204
// @Failure 409 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/tests/{id} [delete]
func (h *TestHandler) Delete(c *fiber.Ctx) error {
	if err := h.tests.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Toggle godoc
// @Summary Activate or deactivate a test
// @Tags tests
// @Produce json
// @Param id path string true "Test ID"
// @Success 200 {object} dto.TestResponse
// @Security ApiKeyAuth
// @Router /admin/tests/{id}/toggle [post]
func (h *TestHandler) Toggle(c *fiber.Ctx) error {
	resp, err := h.tests.ToggleActive(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Preview godoc
// @Summary Preview a test with its answers
// @Tags tests
// @Produce json
// @Param id path string true "Test ID"
// @Success 200 {object} dto.TestResponse
// @Security ApiKeyAuth
// @Router /admin/tests/{id}/preview [get]
func (h *TestHandler) Preview(c *fiber.Ctx) error {
	resp, err := h.tests.Preview(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Results godoc
// @Summary List the attempts of a test
// @Tags tests
// @Produce json
// @Param id path string true "Test ID"
// @Param limit query int false "Page size"
// @Param page query int false "Page number"
// @Success 200 {object} dto.TestResultsResponse
// @Security ApiKeyAuth
// @Router /admin/tests/{id}/results [get]
func (h *TestHandler) Results(c *fiber.Ctx) error {
	p, err := parsePagination(c)
	if err != nil {
		return err
	}
	resp, err := h.tests.Results(c.Context(), c.Params("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Statistics godoc
// @Summary Score statistics of a test
// @Tags tests
// @Produce json
// @Param id path string true "Test ID"
// @Success 200 {object} dto.TestStatistics
// @Security ApiKeyAuth
// @Router /admin/tests/{id}/statistics [get]
func (h *TestHandler) Statistics(c *fiber.Ctx) error {
	resp, err := h.tests.Statistics(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Grade godoc
// @Summary Grade a free-text response
// @Tags tests
// @Accept json
// @Produce json
// @Param id path string true "Response ID"
// @Param body body dto.GradeRequest true "Score between 0 and 1"
// @Success 200 {object} dto.AttemptResult
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Security ApiKeyAuth
// @Router /admin/responses/{id}/grade [post]
func (h *TestHandler) Grade(c *fiber.Ctx) error {
	var req dto.GradeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.Struct(&req); len(errs) > 0 {
		return errs
	}
	resp, err := h.attempts.Grade(c.Context(), c.Params("id"), req.Score)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
