package sheets

import (
	"context"
	"fmt"
)

// DefaultGrowRows is how many rows are appended when a tab runs out of room.
const DefaultGrowRows = 100

// Planner picks the destination row for the next record in a region.
type Planner struct {
	GrowBy int
}

// NextRow returns the first row at or after the region's tail where both columns are blank.
// When every row down to the end of the tab is taken, the tab is extended.
func (p Planner) NextRow(ctx context.Context, tab Tab, region *Region) (int, error) {
	growBy := p.GrowBy
	if growBy <= 0 {
		growBy = DefaultGrowRows
	}

	first := max(region.StartRow, region.EndRow+1)
	rowCount := tab.RowCount()

	if first <= rowCount {
		a1, err := RangeRef(region.CategoryColumn, first, region.AmountColumn, rowCount)
		if err != nil {
			return 0, err
		}
		rows, err := tab.ReadRange(ctx, a1)
		if err != nil {
			return 0, fmt.Errorf("failed to read tail %s of tab %q: %w", a1, tab.Title(), err)
		}

		for i := range rows {
			if rows.rowBlank(i, 2) {
				return first + i, nil
			}
		}
		// Trailing blank rows are omitted from the response.
		if next := first + len(rows); next <= rowCount {
			return next, nil
		}
	}

	if err := tab.AddRows(ctx, growBy); err != nil {
		return 0, fmt.Errorf("failed to extend tab %q: %w", tab.Title(), err)
	}
	return max(first, tab.RowCount()-growBy+1), nil
}
