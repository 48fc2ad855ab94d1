package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/spend/internal/common"
)

// DefaultScanRows is how far past the data start the locator reads at minimum.
const DefaultScanRows = 1000

// Region is the two-column data block under a header label.
type Region struct {
	TabTitle       string
	SheetID        int64
	StartRow       int
	EndRow         int
	CategoryColumn int
	AmountColumn   int
}

// Empty reports whether the block holds no data rows yet.
func (r *Region) Empty() bool {
	return r.EndRow < r.StartRow
}

// SourceRow is the row whose formatting new rows copy.
func (r *Region) SourceRow() int {
	return max(r.EndRow, r.StartRow)
}

// FindHeader returns the 1-based position of the cell whose trimmed text equals label.
// Scanning continues after a match, so the last match in row-major order wins.
func FindHeader(grid Grid, label string) (row, col int, err error) {
	label = strings.TrimSpace(label)
	for r, cells := range grid {
		for c, cell := range cells {
			if cell.Kind == CellText && strings.TrimSpace(cell.Text) == label {
				row, col = r+1, c+1
			}
		}
	}

	if row == 0 {
		return 0, 0, fmt.Errorf("%w: %q", common.ErrHeaderNotFound, label)
	}
	return row, col, nil
}

// Locator finds block regions and caches them.
type Locator struct {
	Cache    *RegionCache
	Logger   *slog.Logger
	Header   string
	ScanRows int
}

// Locate returns the region under the header label in tab, reading the tab only on a cache miss.
func (l *Locator) Locate(ctx context.Context, spreadsheetID string, tab Tab) (*Region, error) {
	key := RegionKey{SpreadsheetID: spreadsheetID, TabTitle: tab.Title()}
	if region, ok := l.Cache.Get(key); ok {
		return region, nil
	}

	logger := common.LoggerOrDefault(l.Logger)

	grid, err := tab.Values(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tab %q: %w", tab.Title(), err)
	}

	headerRow, headerCol, err := FindHeader(grid, l.Header)
	if err != nil {
		return nil, fmt.Errorf("tab %q: %w", tab.Title(), err)
	}

	start := headerRow + 2
	scanRows := l.ScanRows
	if scanRows <= 0 {
		scanRows = DefaultScanRows
	}
	last := max(tab.RowCount(), start+scanRows)

	a1, err := RangeRef(headerCol, start, headerCol+1, last)
	if err != nil {
		return nil, err
	}
	block, err := tab.ReadRange(ctx, a1)
	if err != nil {
		return nil, fmt.Errorf("failed to read block %s of tab %q: %w", a1, tab.Title(), err)
	}

	region := &Region{
		TabTitle:       tab.Title(),
		SheetID:        tab.SheetID(),
		StartRow:       start,
		EndRow:         start - 1 + contiguousRows(block),
		CategoryColumn: headerCol,
		AmountColumn:   headerCol + 1,
	}

	l.Cache.Put(key, region)

	logger.Debug("located block region",
		"tab", region.TabTitle,
		"start_row", region.StartRow,
		"end_row", region.EndRow,
		"column", region.CategoryColumn)

	return region, nil
}

// contiguousRows counts leading two-column rows that are not fully blank.
// The first blank row ends the block; anything after it is not part of it.
func contiguousRows(block Grid) int {
	n := 0
	for i := range block {
		if block.rowBlank(i, 2) {
			break
		}
		n++
	}
	return n
}
