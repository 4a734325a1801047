package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"crew-exam/internal/domain"
	"crew-exam/internal/port"

	"github.com/xuri/excelize/v2"
)

const (
	questionSheet = "Questions"
	// validationRows bounds the list validations of the template.
	validationRows = 1000
)

var headers = [port.QuestionColumns]string{
	"Question", "Type", "Difficulty", "Position", "Ship type", "Category",
	"Option 1", "Option 2", "Option 3", "Option 4", "Correct option (1-4)",
}

var columnWidths = [port.QuestionColumns]float64{50, 15, 15, 20, 20, 20, 30, 30, 30, 30, 20}

var sampleRow = port.QuestionRow{
	Content:    "A person falls overboard. What is the first action?",
	Type:       domain.QuestionTypeMultipleChoice.Label(),
	Difficulty: domain.DifficultyMedium.Label(),
	Position:   "Master",
	ShipType:   "Bulk carrier",
	Category:   "Maritime safety",
	Options:    [4]string{"Raise the man overboard alarm", "Throw a lifebuoy", "Inform the master", "Stop the engine"},
	Correct:    "1",
}

// ExcelizeCodec implements port.SpreadsheetCodec on xlsx workbooks.
type ExcelizeCodec struct{}

func NewExcelizeCodec() port.SpreadsheetCodec {
	return &ExcelizeCodec{}
}

func (c *ExcelizeCodec) ReadQuestions(r io.Reader) ([]port.QuestionRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	var rows []port.QuestionRow
	for i, line := range cells {
		if i == 0 {
			continue
		}
		row := toRow(line)
		if row.Content == "" {
			continue
		}
		row.Line = i + 1
		rows = append(rows, row)
	}
	return rows, nil
}

func toRow(line []string) port.QuestionRow {
	cell := func(i int) string {
		if i < len(line) {
			return strings.TrimSpace(line[i])
		}
		return ""
	}
	return port.QuestionRow{
		Content:    cell(0),
		Type:       cell(1),
		Difficulty: cell(2),
		Position:   cell(3),
		ShipType:   cell(4),
		Category:   cell(5),
		Options:    [4]string{cell(6), cell(7), cell(8), cell(9)},
		Correct:    cell(10),
	}
}

func (c *ExcelizeCodec) WriteTemplate(w io.Writer, refs port.ReferenceSheets) error {
	return c.write(w, []port.QuestionRow{sampleRow}, refs, true)
}

func (c *ExcelizeCodec) WriteQuestions(w io.Writer, rows []port.QuestionRow, refs port.ReferenceSheets) error {
	return c.write(w, rows, refs, false)
}

func (c *ExcelizeCodec) write(w io.Writer, rows []port.QuestionRow, refs port.ReferenceSheets, withValidations bool) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), questionSheet); err != nil {
		return fmt.Errorf("failed to name question sheet: %w", err)
	}
	if err := writeHeader(f); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(f, questionSheet, i+2, row); err != nil {
			return err
		}
	}
	if withValidations {
		if err := addValidations(f); err != nil {
			return err
		}
	}

	refSheets := []struct {
		name   string
		values []string
	}{
		{"Positions", refs.Positions},
		{"ShipTypes", refs.ShipTypes},
		{"Categories", refs.Categories},
	}
	for _, s := range refSheets {
		if err := writeList(f, s.name, s.values); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(questionSheet, col+"1", h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetColWidth(questionSheet, col, col, columnWidths[i]); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	last, _ := excelize.ColumnNumberToName(port.QuestionColumns)
	return f.SetCellStyle(questionSheet, "A1", last+"1", style)
}

func writeRow(f *excelize.File, sheet string, line int, row port.QuestionRow) error {
	values := []string{row.Content, row.Type, row.Difficulty, row.Position, row.ShipType, row.Category,
		row.Options[0], row.Options[1], row.Options[2], row.Options[3], row.Correct}
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", line, err)
	}
	return nil
}

func addValidations(f *excelize.File) error {
	typeLabels := make([]string, len(domain.QuestionTypes))
	for i, t := range domain.QuestionTypes {
		typeLabels[i] = t.Label()
	}
	difficultyLabels := make([]string, len(domain.Difficulties))
	for i, d := range domain.Difficulties {
		difficultyLabels[i] = d.Label()
	}

	lists := []struct {
		col    string
		values []string
	}{
		{"B", typeLabels},
		{"C", difficultyLabels},
		{"K", []string{"1", "2", "3", "4"}},
	}
	for _, l := range lists {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s%d", l.col, l.col, validationRows)
		if err := dv.SetDropList(l.values); err != nil {
			return fmt.Errorf("failed to build list for column %s: %w", l.col, err)
		}
		if err := f.AddDataValidation(questionSheet, dv); err != nil {
			return fmt.Errorf("failed to add validation to column %s: %w", l.col, err)
		}
	}
	return nil
}

func writeList(f *excelize.File, sheet string, values []string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	if err := f.SetCellValue(sheet, "A1", "Name"); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return err
	}
	for i, v := range values {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), v); err != nil {
			return fmt.Errorf("failed to write %s: %w", sheet, err)
		}
	}
	return nil
}
