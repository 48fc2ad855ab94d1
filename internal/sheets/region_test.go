package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/spend/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = "Траты на себя"

// newBlockTab builds a tab with the header at (headerRow, headerCol), column
// titles below it and the given category/amount rows starting two rows down.
func newBlockTab(headerRow, headerCol int, rows ...[]any) (*MemoryWorkbook, *MemoryTab) {
	wb := NewMemoryWorkbook("sheet-1")
	tab := wb.AddTab("Январь 2025", 300, 12)
	tab.Set(1, 1, "Бюджет")
	tab.Set(headerRow, headerCol, testHeader)
	tab.SetRow(headerRow+1, headerCol, "Категория", "Сумма")
	for i, row := range rows {
		tab.SetRow(headerRow+2+i, headerCol, row...)
	}
	return wb, tab
}

func newLocator(cache *RegionCache) *Locator {
	return &Locator{Cache: cache, Header: testHeader}
}

func TestFindHeader(t *testing.T) {
	tests := []struct {
		name    string
		grid    Grid
		wantRow int
		wantCol int
		wantErr bool
	}{
		{
			name:    "single match",
			grid:    GridFromValues([][]any{{"x"}, {"", testHeader}}),
			wantRow: 2,
			wantCol: 2,
		},
		{
			name:    "surrounding whitespace",
			grid:    GridFromValues([][]any{{"  " + testHeader + " "}}),
			wantRow: 1,
			wantCol: 1,
		},
		{
			name:    "last match wins",
			grid:    GridFromValues([][]any{{testHeader}, {}, {"", "", testHeader}}),
			wantRow: 3,
			wantCol: 3,
		},
		{
			name:    "later column in same row wins",
			grid:    GridFromValues([][]any{{testHeader, "", testHeader}}),
			wantRow: 1,
			wantCol: 3,
		},
		{
			name:    "numbers never match",
			grid:    GridFromValues([][]any{{42.0}}),
			wantErr: true,
		},
		{
			name:    "empty grid",
			grid:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, err := FindHeader(tt.grid, testHeader)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrHeaderNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRow, row)
			assert.Equal(t, tt.wantCol, col)
		})
	}
}

func TestLocator_Locate(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]any
		wantEnd int
	}{
		{
			name:    "empty block",
			wantEnd: 6,
		},
		{
			name:    "three data rows",
			rows:    [][]any{{"Food", 100.0}, {"Taxi", 50.0}, {"Cinema", 700.0}},
			wantEnd: 9,
		},
		{
			name:    "row with only an amount still counts",
			rows:    [][]any{{"Food", 100.0}, {nil, 20.0}},
			wantEnd: 8,
		},
		{
			name:    "gap ends the block",
			rows:    [][]any{{"Food", 100.0}, {}, {"Taxi", 50.0}},
			wantEnd: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb, tab := newBlockTab(5, 2, tt.rows...)
			cache := NewRegionCache()

			region, err := newLocator(cache).Locate(context.Background(), wb.ID(), tab)
			require.NoError(t, err)

			assert.Equal(t, "Январь 2025", region.TabTitle)
			assert.Equal(t, tab.SheetID(), region.SheetID)
			assert.Equal(t, 2, region.CategoryColumn)
			assert.Equal(t, 3, region.AmountColumn)
			assert.Equal(t, 7, region.StartRow)
			assert.Equal(t, tt.wantEnd, region.EndRow)
			assert.Equal(t, 1, cache.Len())
		})
	}
}

func TestLocator_Locate_LastHeaderWins(t *testing.T) {
	wb, tab := newBlockTab(20, 5, []any{"Food", 10.0})
	tab.Set(3, 1, testHeader)

	region, err := newLocator(NewRegionCache()).Locate(context.Background(), wb.ID(), tab)
	require.NoError(t, err)

	assert.Equal(t, 22, region.StartRow)
	assert.Equal(t, 22, region.EndRow)
	assert.Equal(t, 5, region.CategoryColumn)
	assert.Equal(t, 6, region.AmountColumn)
}

func TestLocator_Locate_CachedOnce(t *testing.T) {
	wb, tab := newBlockTab(5, 2, []any{"Food", 10.0})
	cache := NewRegionCache()
	locator := newLocator(cache)

	first, err := locator.Locate(context.Background(), wb.ID(), tab)
	require.NoError(t, err)

	tab.SetRow(8, 2, "Taxi", 20.0)

	second, err := locator.Locate(context.Background(), wb.ID(), tab)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 7, second.EndRow)
	assert.Equal(t, 1, tab.ValuesCalls())
	assert.Equal(t, 1, tab.RangeCalls())
}

func TestLocator_Locate_HeaderMissing(t *testing.T) {
	wb := NewMemoryWorkbook("sheet-1")
	tab := wb.AddTab("Февраль 2025", 300, 12)
	tab.Set(1, 1, "Траты на дом")
	cache := NewRegionCache()

	_, err := newLocator(cache).Locate(context.Background(), wb.ID(), tab)

	assert.ErrorIs(t, err, common.ErrHeaderNotFound)
	assert.Contains(t, err.Error(), "Февраль 2025")
	assert.Equal(t, 0, cache.Len())
}

func TestLocator_Locate_ReadError(t *testing.T) {
	wb, tab := newBlockTab(5, 2)
	tab.ReadErr = errors.New("quota exceeded")
	cache := NewRegionCache()

	_, err := newLocator(cache).Locate(context.Background(), wb.ID(), tab)

	assert.ErrorIs(t, err, common.ErrBackendUnavailable)
	assert.Equal(t, 0, cache.Len())
}

func TestLocator_Locate_ScansPastShortTab(t *testing.T) {
	wb := NewMemoryWorkbook("sheet-1")
	tab := wb.AddTab("Март 2025", 10, 4)
	tab.Set(1, 1, testHeader)
	for row := 3; row <= 10; row++ {
		tab.SetRow(row, 1, "Food", float64(row))
	}

	region, err := (&Locator{Cache: NewRegionCache(), Header: testHeader, ScanRows: 5}).
		Locate(context.Background(), wb.ID(), tab)
	require.NoError(t, err)

	assert.Equal(t, 3, region.StartRow)
	assert.Equal(t, 10, region.EndRow)
}

func TestRegion_SourceRow(t *testing.T) {
	empty := &Region{StartRow: 7, EndRow: 6}
	assert.True(t, empty.Empty())
	assert.Equal(t, 7, empty.SourceRow())

	filled := &Region{StartRow: 7, EndRow: 12}
	assert.False(t, filled.Empty())
	assert.Equal(t, 12, filled.SourceRow())
}
