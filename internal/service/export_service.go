package service

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/logger"
	"crew-exam/internal/port"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const exportPageSize = 200

// ExportService writes the question bank workbooks.
type ExportService interface {
	ExportTemplate(ctx context.Context, w io.Writer) error
	ExportQuestions(ctx context.Context, w io.Writer, query dto.QuestionQuery) error
}

type exportService struct {
	questions  domain.QuestionRepository
	references domain.ReferenceRepository
	codec      port.SpreadsheetCodec
}

func NewExportService(questions domain.QuestionRepository, references domain.ReferenceRepository, codec port.SpreadsheetCodec) ExportService {
	return &exportService{questions: questions, references: references, codec: codec}
}

func (s *exportService) ExportTemplate(ctx context.Context, w io.Writer) error {
	refs, err := s.loadReferences(ctx)
	if err != nil {
		return err
	}
	if err := s.codec.WriteTemplate(w, refs.sheets()); err != nil {
		logger.Get().Error("Failed to write import template", zap.Error(err))
		return domain.NewInternalError("Failed to write import template", err)
	}
	return nil
}

// ExportQuestions writes every live question matching query in the import layout.
func (s *exportService) ExportQuestions(ctx context.Context, w io.Writer, query dto.QuestionQuery) error {
	refs, err := s.loadReferences(ctx)
	if err != nil {
		return err
	}

	filter := query.ToFilter()
	var questions []*domain.Question
	for offset := 0; ; offset += exportPageSize {
		page, total, err := s.questions.List(ctx, filter, domain.Page{Limit: exportPageSize, Offset: offset})
		if err != nil {
			return domain.NewInternalError("Failed to list questions", err)
		}
		questions = append(questions, page...)
		if len(page) == 0 || offset+len(page) >= total {
			break
		}
	}
	if err := attachAnswers(ctx, s.questions, questions); err != nil {
		return err
	}

	rows := make([]port.QuestionRow, len(questions))
	for i, q := range questions {
		rows[i] = refs.row(q)
	}
	if err := s.codec.WriteQuestions(w, rows, refs.sheets()); err != nil {
		logger.Get().Error("Failed to write question export", zap.Error(err))
		return domain.NewInternalError("Failed to write question export", err)
	}
	logger.Get().Info("Questions exported", zap.Int("count", len(rows)))
	return nil
}

type referenceTables struct {
	positions  []*domain.Reference
	shipTypes  []*domain.Reference
	categories []*domain.Reference
}

func (s *exportService) loadReferences(ctx context.Context) (*referenceTables, error) {
	var refs referenceTables
	g, gctx := errgroup.WithContext(ctx)
	targets := []struct {
		kind domain.ReferenceKind
		dst  *[]*domain.Reference
	}{
		{domain.ReferencePosition, &refs.positions},
		{domain.ReferenceShipType, &refs.shipTypes},
		{domain.ReferenceCategory, &refs.categories},
	}
	for _, t := range targets {
		g.Go(func() error {
			list, err := s.references.List(gctx, t.kind)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", t.kind, err)
			}
			*t.dst = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("Failed to load reference data", err)
	}
	return &refs, nil
}

func (r *referenceTables) sheets() port.ReferenceSheets {
	return port.ReferenceSheets{
		Positions:  names(r.positions),
		ShipTypes:  names(r.shipTypes),
		Categories: names(r.categories),
	}
}

func (r *referenceTables) row(q *domain.Question) port.QuestionRow {
	row := port.QuestionRow{
		Content:    q.Content,
		Type:       q.Type.Label(),
		Difficulty: q.Difficulty.Label(),
		Position:   nameOf(r.positions, q.PositionID),
		ShipType:   nameOf(r.shipTypes, q.ShipTypeID),
		Category:   q.CategoryName,
	}
	if row.Category == "" {
		row.Category = nameOf(r.categories, &q.CategoryID)
	}
	for i, a := range q.Answers {
		if i >= len(row.Options) {
			break
		}
		row.Options[i] = a.Content
		if a.IsCorrect {
			row.Correct = strconv.Itoa(i + 1)
		}
	}
	return row
}

func names(refs []*domain.Reference) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Name
	}
	return out
}

func nameOf(refs []*domain.Reference, id *string) string {
	if id == nil {
		return ""
	}
	for _, r := range refs {
		if r.ID == *id {
			return r.Name
		}
	}
	return ""
}
