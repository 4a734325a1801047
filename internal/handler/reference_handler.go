package handler

import (
	"crew-exam/internal/dto"
	"crew-exam/internal/service"
	"crew-exam/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ReferenceHandler serves positions, ship types and categories.
type ReferenceHandler struct {
	service   service.ReferenceService
	validator *validation.Validator
}

func NewReferenceHandler(service service.ReferenceService, validator *validation.Validator) *ReferenceHandler {
	return &ReferenceHandler{service: service, validator: validator}
}

// List godoc
// @Summary List reference entries
// @Description Returns all positions, ship types or categories ordered by name
// @Tags references
// @Produce json
// @Param kind path string true "positions, ship-types or categories"
// @Success 200 {array} domain.Reference
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Security ApiKeyAuth
// @Router /references/{kind} [get]
func (h *ReferenceHandler) List(c *fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return err
	}
	refs, err := h.service.List(c.Context(), kind)
	if err != nil {
		return err
	}
	return c.JSON(refs)
}

// Create godoc
// @Summary Create a reference entry
// @Tags references
// @Accept json
// @Produce json
// @Param kind path string true "positions, ship-types or categories"
// @Param body body dto.ReferenceRequest true "Reference"
// @Success 201 {object} domain.Reference
// @Failure 400 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/references/{kind} [post]
func (h *ReferenceHandler) Create(c *fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return err
	}
	var req dto.ReferenceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.Struct(&req); len(errs) > 0 {
		return errs
	}
	ref, err := h.service.Create(c.Context(), kind, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ref)
}
