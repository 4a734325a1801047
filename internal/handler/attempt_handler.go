package handler

import (
	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/middleware"
	"crew-exam/internal/service"
	"crew-exam/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AttemptHandler serves the seafarer catalogue and the attempt lifecycle.
type AttemptHandler struct {
	catalogue service.CatalogueService
	attempts  service.AttemptService
	validator *validation.Validator
}

func NewAttemptHandler(catalogue service.CatalogueService, attempts service.AttemptService, validator *validation.Validator) *AttemptHandler {
	return &AttemptHandler{catalogue: catalogue, attempts: attempts, validator: validator}
}

// ListTests godoc
// @Summary List tests available to the caller
// @Description Active tests scoped to the caller's position and ship type, with their attempt history
// @Tags attempts
// @Produce json
// @Param search query string false "Title search"
// @Param type query string false "Question type"
// @Param difficulty query string false "Difficulty"
// @Param sort query string false "newest, oldest, duration_asc or duration_desc"
// @Param limit query int false "Page size"
// @Param page query int false "Page number"
// @Success 200 {object} dto.CatalogueResponse
// @Security ApiKeyAuth
// @Router /tests [get]
func (h *AttemptHandler) ListTests(c *fiber.Ctx) error {
	var query dto.CatalogueQuery
	if err := c.QueryParser(&query); err != nil {
		return domain.NewInvalidInputError("Invalid query parameters")
	}
	p, err := parsePagination(c)
	if err != nil {
		return err
	}
	resp, err := h.catalogue.ListAvailable(c.Context(), middleware.UserID(c), query, p)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetTest godoc
// @Summary Get an available test
// @Tags attempts
// @Produce json
// @Param id path string true "Test ID"
// @Success 200 {object} dto.CatalogueItem
// @Failure 404 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /tests/{id} [get]
func (h *AttemptHandler) GetTest(c *fiber.Ctx) error {
	resp, err := h.catalogue.GetDetail(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Start godoc
// @Summary Start an attempt
// @Tags attempts
// @Produce json
// @Param id path string true "Test ID"
// @Success 201 {object} dto.AttemptResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /tests/{id}/start [post]
func (h *AttemptHandler) Start(c *fiber.Ctx) error {
	resp, err := h.attempts.Start(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetAttempt godoc
// @Summary Resume an attempt
// @Description Returns the attempt with its questions in the order first presented
// @Tags attempts
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c *fiber.Ctx) error {
	resp, err := h.attempts.Get(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Submit godoc
// @Summary Submit an attempt
// @Description Grades the responses; submitting a finished attempt returns the stored result
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param body body dto.SubmitRequest true "Responses keyed by question id"
// @Success 200 {object} dto.AttemptResult
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 410 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /attempts/{id}/submit [post]
func (h *AttemptHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.ValidateSubmitRequest(&req); len(errs) > 0 {
		return errs
	}
	resp, err := h.attempts.Submit(c.Context(), middleware.UserID(c), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Result godoc
// @Summary Get the result of a finished attempt
// @Tags attempts
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResult
// @Failure 403 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /attempts/{id}/result [get]
func (h *AttemptHandler) Result(c *fiber.Ctx) error {
	resp, err := h.attempts.Result(c.Context(), middleware.UserID(c), c.Params("id"), middleware.IsAdmin(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
