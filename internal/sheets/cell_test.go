package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellFromValue(t *testing.T) {
	tests := []struct {
		input any
		want  Cell
		name  string
	}{
		{name: "nil", input: nil, want: Blank()},
		{name: "empty string", input: "", want: Blank()},
		{name: "whitespace", input: "  \t", want: Blank()},
		{name: "text", input: "Groceries", want: Cell{Kind: CellText, Text: "Groceries"}},
		{name: "float", input: 250.5, want: Cell{Kind: CellNumber, Number: 250.5}},
		{name: "int", input: 3, want: Cell{Kind: CellNumber, Number: 3}},
		{name: "bool", input: true, want: Cell{Kind: CellText, Text: "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CellFromValue(tt.input))
		})
	}
}

func TestCell_String(t *testing.T) {
	assert.Equal(t, "", Blank().String())
	assert.Equal(t, "Coffee", Text("  Coffee ").String())
	assert.Equal(t, "99.99", Number(99.99).String())
}

func TestGrid_At(t *testing.T) {
	grid := GridFromValues([][]any{
		{"a", "b"},
		{},
		{nil, 4.0},
	})

	assert.Equal(t, "a", grid.At(0, 0).String())
	assert.True(t, grid.At(1, 0).IsBlank())
	assert.True(t, grid.At(2, 0).IsBlank())
	assert.Equal(t, 4.0, grid.At(2, 1).Number)
	assert.True(t, grid.At(5, 5).IsBlank())
	assert.True(t, grid.At(-1, 0).IsBlank())

	assert.True(t, grid.rowBlank(1, 2))
	assert.False(t, grid.rowBlank(2, 2))
}
