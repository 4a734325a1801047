package seedmodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRows(t *testing.T) {
	groups := []SeedGroup{
		{
			Category: "Firefighting",
			Position: "Master",
			Questions: []SeedQuestion{
				{Content: "Class B fires involve?", Type: "multiple_choice", Options: []string{"Wood", "Oil", "Metal", "Gas", "Extra"}, Correct: 2},
				{Content: "Describe a fire drill.", Type: "essay"},
			},
		},
		{
			Category:  "Cargo",
			ShipType:  "Tanker",
			Questions: []SeedQuestion{{Content: "Inert gas keeps oxygen below?", Options: []string{"8%", "21%"}, Correct: 1}},
		},
	}

	rows := Rows(groups)
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Line)
	assert.Equal(t, "Master", rows[0].Position)
	assert.Equal(t, [4]string{"Wood", "Oil", "Metal", "Gas"}, rows[0].Options)
	assert.Equal(t, "2", rows[0].Correct)

	assert.Empty(t, rows[1].Correct)
	assert.Equal(t, "Firefighting", rows[1].Category)

	assert.Equal(t, 3, rows[2].Line)
	assert.Equal(t, "Tanker", rows[2].ShipType)
	assert.Equal(t, [4]string{"8%", "21%", "", ""}, rows[2].Options)
}
