package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"crew-exam/internal/config"
	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/logger"
	"crew-exam/internal/metrics"
	"crew-exam/internal/port"

	"go.uber.org/zap"
)

// ImportOptions controls one spreadsheet import.
type ImportOptions struct {
	UserID string
	// SkipDuplicates skips rows whose content already exists in the bank or earlier in the file.
	SkipDuplicates bool
	// CreateMissing creates positions, ship types and categories that no name matches.
	CreateMissing bool
}

// NewImportOptions returns the configured defaults for userID.
func NewImportOptions(cfg config.ImportConfig, userID string) ImportOptions {
	return ImportOptions{UserID: userID, SkipDuplicates: cfg.SkipDuplicates, CreateMissing: cfg.CreateMissing}
}

// ImportService bulk-loads questions from spreadsheet rows.
type ImportService interface {
	Import(ctx context.Context, r io.Reader, opts ImportOptions) (*dto.ImportSummary, error)
	ImportRows(ctx context.Context, rows []port.QuestionRow, opts ImportOptions) (*dto.ImportSummary, error)
}

type importService struct {
	questions  domain.QuestionRepository
	references domain.ReferenceRepository
	tx         domain.TransactionManager
	codec      port.SpreadsheetCodec
	maxRows    int
}

func NewImportService(
	questions domain.QuestionRepository,
	references domain.ReferenceRepository,
	tx domain.TransactionManager,
	codec port.SpreadsheetCodec,
	cfg config.ImportConfig,
) ImportService {
	return &importService{
		questions:  questions,
		references: references,
		tx:         tx,
		codec:      codec,
		maxRows:    cfg.MaxRows,
	}
}

func (s *importService) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*dto.ImportSummary, error) {
	rows, err := s.codec.ReadQuestions(r)
	if err != nil {
		logger.Get().Warn("Failed to read import spreadsheet", zap.Error(err))
		return nil, domain.NewError(domain.CodeInvalidInput, "The file is not a readable question spreadsheet", err)
	}
	return s.ImportRows(ctx, rows, opts)
}

// ImportRows stores all valid rows in one transaction. Invalid rows are reported and skipped;
// a repository failure rolls back the whole batch.
func (s *importService) ImportRows(ctx context.Context, rows []port.QuestionRow, opts ImportOptions) (*dto.ImportSummary, error) {
	if s.maxRows > 0 && len(rows) > s.maxRows {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("The file has %d rows; at most %d can be imported at once", len(rows), s.maxRows)).
			WithContext("max_rows", s.maxRows)
	}

	summary := newImportSummary()
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		b, err := s.newBatch(txCtx, opts)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err := b.add(txCtx, row, summary); err != nil {
				return fmt.Errorf("row %d: %w", row.Line, err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Get().Error("Question import rolled back",
			zap.Error(err),
			zap.String("userID", opts.UserID),
			zap.Int("rows", len(rows)))
		failed := newImportSummary()
		failed.Errors = append(failed.Errors, "Import failed and no question was saved")
		return failed, domain.NewImportFailedError(err)
	}

	metrics.ImportRows.WithLabelValues(metrics.OutcomeImported).Add(float64(summary.ImportedCount))
	metrics.ImportRows.WithLabelValues(metrics.OutcomeSkipped).Add(float64(summary.SkippedCount))
	metrics.ImportRows.WithLabelValues(metrics.OutcomeError).Add(float64(summary.ErrorCount))

	logger.Get().Info("Questions imported",
		zap.String("userID", opts.UserID),
		zap.Int("imported", summary.ImportedCount),
		zap.Int("skipped", summary.SkippedCount),
		zap.Int("errors", summary.ErrorCount),
		zap.Int("warnings", len(summary.Warnings)))
	return summary, nil
}

func newImportSummary() *dto.ImportSummary {
	return &dto.ImportSummary{Errors: []string{}, Warnings: []string{}}
}

// importBatch holds the per-import state: resolvers and content seen so far.
type importBatch struct {
	questions domain.QuestionRepository
	opts      ImportOptions
	positions *nameResolver
	shipTypes *nameResolver
	category  *nameResolver
	seen      map[string]struct{}
}

func (s *importService) newBatch(ctx context.Context, opts ImportOptions) (*importBatch, error) {
	resolvers := make(map[domain.ReferenceKind]*nameResolver, len(domain.ReferenceKinds))
	for _, kind := range domain.ReferenceKinds {
		refs, err := s.references.List(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", kind, err)
		}
		resolvers[kind] = newNameResolver(kind, refs, s.references, opts.CreateMissing)
	}
	return &importBatch{
		questions: s.questions,
		opts:      opts,
		positions: resolvers[domain.ReferencePosition],
		shipTypes: resolvers[domain.ReferenceShipType],
		category:  resolvers[domain.ReferenceCategory],
		seen:      make(map[string]struct{}),
	}, nil
}

// add imports one row. Row problems land in the summary; only repository failures are returned.
func (b *importBatch) add(ctx context.Context, row port.QuestionRow, summary *dto.ImportSummary) error {
	content := strings.TrimSpace(row.Content)
	if content == "" {
		return nil
	}
	rowError := func(msg string) {
		summary.ErrorCount++
		summary.Errors = append(summary.Errors, fmt.Sprintf("Row %d: %s", row.Line, msg))
	}

	if b.opts.SkipDuplicates {
		if _, dup := b.seen[content]; dup {
			summary.SkippedCount++
			return nil
		}
		exists, err := b.questions.ExistsByContent(ctx, content)
		if err != nil {
			return err
		}
		if exists {
			summary.SkippedCount++
			return nil
		}
	}

	q := &domain.Question{Content: content, CreatedBy: b.opts.UserID}

	q.Type = domain.QuestionTypeMultipleChoice
	if row.Type != "" {
		t, ok := domain.ParseQuestionType(row.Type)
		if !ok {
			rowError(fmt.Sprintf("unknown question type %q", row.Type))
			return nil
		}
		q.Type = t
	}
	q.Difficulty = domain.DifficultyMedium
	if row.Difficulty != "" {
		d, ok := domain.ParseDifficulty(row.Difficulty)
		if !ok {
			rowError(fmt.Sprintf("unknown difficulty %q", row.Difficulty))
			return nil
		}
		q.Difficulty = d
	}

	if q.Type == domain.QuestionTypeMultipleChoice {
		answers, msg := importAnswers(row)
		if msg != "" {
			rowError(msg)
			return nil
		}
		q.Answers = answers
	}

	if strings.TrimSpace(row.Category) == "" {
		rowError("category is required")
		return nil
	}
	cat, err := b.category.Resolve(ctx, row.Category)
	if err != nil {
		return err
	}
	if cat.ID == "" {
		rowError(fmt.Sprintf("category %q not found", row.Category))
		return nil
	}
	q.CategoryID, q.CategoryName = cat.ID, cat.Name
	b.warn(summary, row.Line, cat.Warning)

	pos, err := b.positions.Resolve(ctx, row.Position)
	if err != nil {
		return err
	}
	q.PositionID = idOrNil(pos.ID)
	b.warn(summary, row.Line, pos.Warning)

	ship, err := b.shipTypes.Resolve(ctx, row.ShipType)
	if err != nil {
		return err
	}
	q.ShipTypeID = idOrNil(ship.ID)
	b.warn(summary, row.Line, ship.Warning)

	if err := q.Validate(); err != nil {
		rowError(err.Error())
		return nil
	}

	if err := b.questions.Create(ctx, q); err != nil {
		return err
	}
	if err := b.questions.SyncAnswers(ctx, q.ID, q.Answers); err != nil {
		return err
	}
	b.seen[content] = struct{}{}
	summary.ImportedCount++
	return nil
}

func (b *importBatch) warn(summary *dto.ImportSummary, line int, msg string) {
	if msg != "" {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Row %d: %s", line, msg))
	}
}

// importAnswers builds the options of a multiple choice row. Options 1 and 2 are required and
// the correct index must point at a filled option.
func importAnswers(row port.QuestionRow) ([]domain.Answer, string) {
	if strings.TrimSpace(row.Options[0]) == "" || strings.TrimSpace(row.Options[1]) == "" {
		return nil, "options 1 and 2 are required for multiple choice questions"
	}
	correct, err := strconv.Atoi(strings.TrimSpace(row.Correct))
	if err != nil || correct < 1 || correct > len(row.Options) {
		return nil, fmt.Sprintf("correct option must be a number from 1 to %d", len(row.Options))
	}
	if strings.TrimSpace(row.Options[correct-1]) == "" {
		return nil, fmt.Sprintf("correct option %d is empty", correct)
	}

	var answers []domain.Answer
	for i, opt := range row.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		answers = append(answers, domain.Answer{Content: opt, IsCorrect: i+1 == correct, Position: i + 1})
	}
	return answers, ""
}

func idOrNil(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
