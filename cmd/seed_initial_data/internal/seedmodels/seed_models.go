package seedmodels

import (
	"strconv"

	"crew-exam/internal/port"
)

// SeedQuestion defines the structure for a question item in the JSON seed file.
type SeedQuestion struct {
	Content    string   `json:"content"`
	Type       string   `json:"type"`
	Difficulty string   `json:"difficulty"`
	Options    []string `json:"options"`
	// Correct is the 1-based index into Options; zero for free-text questions.
	Correct int `json:"correct"`
}

// SeedGroup shares the reference names of the questions it holds.
type SeedGroup struct {
	Category  string         `json:"category"`
	Position  string         `json:"position"`
	ShipType  string         `json:"ship_type"`
	Questions []SeedQuestion `json:"questions"`
}

// Rows flattens the groups into import rows numbered from 1 in file order.
func Rows(groups []SeedGroup) []port.QuestionRow {
	var rows []port.QuestionRow
	for _, g := range groups {
		for _, q := range g.Questions {
			row := port.QuestionRow{
				Line:       len(rows) + 1,
				Content:    q.Content,
				Type:       q.Type,
				Difficulty: q.Difficulty,
				Position:   g.Position,
				ShipType:   g.ShipType,
				Category:   g.Category,
			}
			copy(row.Options[:], q.Options)
			if q.Correct > 0 {
				row.Correct = strconv.Itoa(q.Correct)
			}
			rows = append(rows, row)
		}
	}
	return rows
}
