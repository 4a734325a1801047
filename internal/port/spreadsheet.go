package port

import "io"

// QuestionColumns is the number of columns of a question sheet (A..K).
const QuestionColumns = 11

// QuestionRow is one line of a question sheet. Cells are kept as typed by the author.
type QuestionRow struct {
	// Line is the 1-based sheet row, used in import messages.
	Line       int
	Content    string
	Type       string
	Difficulty string
	Position   string
	ShipType   string
	Category   string
	Options    [4]string
	// Correct is the 1-based index of the correct option.
	Correct string
}

// ReferenceSheets lists the valid names written next to the question sheet.
type ReferenceSheets struct {
	Positions  []string
	ShipTypes  []string
	Categories []string
}

// SpreadsheetCodec reads and writes the question bank workbook.
type SpreadsheetCodec interface {
	// ReadQuestions returns the non-empty rows of the first sheet, skipping the header.
	ReadQuestions(r io.Reader) ([]QuestionRow, error)
	// WriteTemplate writes an empty question sheet with one sample row.
	WriteTemplate(w io.Writer, refs ReferenceSheets) error
	WriteQuestions(w io.Writer, rows []QuestionRow, refs ReferenceSheets) error
}
