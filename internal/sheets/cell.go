package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// CellKind tags the variant held by a Cell.
type CellKind int

// Cell kinds.
const (
	CellBlank CellKind = iota
	CellText
	CellNumber
)

// Cell is a single worksheet value, converted from the backend's dynamic representation.
type Cell struct {
	Text   string
	Number float64
	Kind   CellKind
}

// Blank returns an empty cell.
func Blank() Cell { return Cell{} }

// Text returns a text cell. Text that is empty after trimming is blank.
func Text(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// Number returns a numeric cell.
func Number(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// CellFromValue converts a raw value returned by the Sheets API.
func CellFromValue(v any) Cell {
	switch val := v.(type) {
	case nil:
		return Blank()
	case string:
		return Text(val)
	case float64:
		return Number(val)
	case int:
		return Number(float64(val))
	case int64:
		return Number(float64(val))
	case bool:
		return Text(strconv.FormatBool(val))
	default:
		return Text(fmt.Sprint(val))
	}
}

// IsBlank reports whether the cell holds no value.
func (c Cell) IsBlank() bool {
	return c.Kind == CellBlank
}

// String renders the cell as trimmed text.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return strings.TrimSpace(c.Text)
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Grid is a row-major block of cells. Rows may be ragged; missing cells are blank.
type Grid [][]Cell

// GridFromValues converts a ValueRange payload into a Grid.
func GridFromValues(values [][]any) Grid {
	grid := make(Grid, len(values))
	for i, row := range values {
		cells := make([]Cell, len(row))
		for j, v := range row {
			cells[j] = CellFromValue(v)
		}
		grid[i] = cells
	}
	return grid
}

// At returns the cell at zero-based (row, col), or a blank cell when out of range.
func (g Grid) At(row, col int) Cell {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return Blank()
	}
	return g[row][col]
}

// rowBlank reports whether the first width cells of a grid row are all blank.
func (g Grid) rowBlank(row, width int) bool {
	for col := 0; col < width; col++ {
		if !g.At(row, col).IsBlank() {
			return false
		}
	}
	return true
}
