package handler

import (
	"bytes"

	"crew-exam/internal/config"
	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/logger"
	"crew-exam/internal/middleware"
	"crew-exam/internal/service"
	"crew-exam/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	xlsxContentType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	templateFileName     = "question_import_template.xlsx"
	questionExportPrefix = "questions_"
)

// QuestionHandler handles the admin question bank endpoints.
type QuestionHandler struct {
	questions service.QuestionService
	imports   service.ImportService
	exports   service.ExportService
	validator *validation.Validator
	importCfg config.ImportConfig
}

func NewQuestionHandler(
	questions service.QuestionService,
	imports service.ImportService,
	exports service.ExportService,
	validator *validation.Validator,
	importCfg config.ImportConfig,
) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		imports:   imports,
		exports:   exports,
		validator: validator,
		importCfg: importCfg,
	}
}

// List godoc
// @Summary List questions
// @Tags questions
// @Produce json
// @Param position_id query string false "Position"
// @Param ship_type_id query string false "Ship type"
// @Param category_id query string false "Category"
// @Param type query string false "Question type"
// @Param search query string false "Content search"
// @Param limit query int false "Page size"
// @Param page query int false "Page number"
// @Success 200 {object} dto.QuestionListResponse
// @Security ApiKeyAuth
// @Router /admin/questions [get]
func (h *QuestionHandler) List(c *fiber.Ctx) error {
	var query dto.QuestionQuery
	if err := c.QueryParser(&query); err != nil {
		return domain.NewInvalidInputError("Invalid query parameters")
	}
	p, err := parsePagination(c)
	if err != nil {
		return err
	}
	resp, err := h.questions.List(c.Context(), query, p)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Count godoc
// @Summary Count questions eligible for a random test
// @Tags questions
// @Produce json
// @Param position_id query string false "Position"
// @Param ship_type_id query string false "Ship type"
// @Param difficulty query string false "Difficulty or all"
// @Param category query string false "Category name"
// @Success 200 {object} dto.CountResponse
// @Security ApiKeyAuth
// @Router /admin/questions/count [get]
func (h *QuestionHandler) Count(c *fiber.Ctx) error {
	var query dto.EligibilityQuery
	if err := c.QueryParser(&query); err != nil {
		return domain.NewInvalidInputError("Invalid query parameters")
	}
	n, err := h.questions.CountEligible(c.Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(dto.CountResponse{Count: n})
}

// Get godoc
// @Summary Get a question
// @Tags questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/questions/{id} [get]
func (h *QuestionHandler) Get(c *fiber.Ctx) error {
	resp, err := h.questions.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Create godoc
// @Summary Create a question
// @Tags questions
// @Accept json
// @Produce json
// @Param body body dto.QuestionRequest true "Question"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Security ApiKeyAuth
// @Router /admin/questions [post]
func (h *QuestionHandler) Create(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.Struct(&req); len(errs) > 0 {
		return errs
	}
	resp, err := h.questions.Create(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Update godoc
// @Summary Update a question
// @Description Replaces the question fields and its whole answer set
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param body body dto.QuestionRequest true "Question"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/questions/{id} [put]
func (h *QuestionHandler) Update(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.Struct(&req); len(errs) > 0 {
		return errs
	}
	resp, err := h.questions.Update(c.Context(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete a question
// @Description Soft-deletes the question; past responses keep referring to it
// @Tags questions
// @Param id path string true "Question ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/questions/{id} [delete]
func (h *QuestionHandler) Delete(c *fiber.Ctx) error {
	if err := h.questions.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Import godoc
// @Summary Import questions from a spreadsheet
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Param skip_duplicates formData bool false "Skip rows whose content already exists"
// @Param create_missing formData bool false "Create unknown positions, ship types and categories"
// @Success 200 {object} dto.ImportSummary
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/questions/import [post]
func (h *QuestionHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("file")}
	}

	opts := service.NewImportOptions(h.importCfg, middleware.UserID(c))
	if opts.SkipDuplicates, err = formBool(c, "skip_duplicates", opts.SkipDuplicates); err != nil {
		return err
	}
	if opts.CreateMissing, err = formBool(c, "create_missing", opts.CreateMissing); err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return domain.NewInternalError("Failed to open uploaded file", err)
	}
	defer f.Close()

	logger.Get().Info("Question import requested",
		zap.String("userID", opts.UserID),
		zap.String("file", fh.Filename),
		zap.Int64("size", fh.Size))
	summary, err := h.imports.Import(c.Context(), f, opts)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// ExportTemplate godoc
// @Summary Download the import template
// @Tags questions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Security ApiKeyAuth
// @Router /admin/questions/export/template [get]
func (h *QuestionHandler) ExportTemplate(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.exports.ExportTemplate(c.Context(), &buf); err != nil {
		return err
	}
	return sendWorkbook(c, templateFileName, buf.Bytes())
}

// Export godoc
// @Summary Export questions
// @Description Writes the filtered question bank in the import layout
// @Tags questions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param position_id query string false "Position"
// @Param ship_type_id query string false "Ship type"
// @Param category_id query string false "Category"
// @Param type query string false "Question type"
// @Param search query string false "Content search"
// @Success 200 {file} file
// @Security ApiKeyAuth
// @Router /admin/questions/export [get]
func (h *QuestionHandler) Export(c *fiber.Ctx) error {
	var query dto.QuestionQuery
	if err := c.QueryParser(&query); err != nil {
		return domain.NewInvalidInputError("Invalid query parameters")
	}
	var buf bytes.Buffer
	if err := h.exports.ExportQuestions(c.Context(), &buf, query); err != nil {
		return err
	}
	return sendWorkbook(c, questionExportPrefix+timestamp()+".xlsx", buf.Bytes())
}

func sendWorkbook(c *fiber.Ctx, name string, body []byte) error {
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(body)
}
