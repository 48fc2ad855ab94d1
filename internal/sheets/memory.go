package sheets

import (
	"context"
	"fmt"
	"sync"
)

var (
	_ Workbook = (*MemoryWorkbook)(nil)
	_ Tab      = (*MemoryTab)(nil)
)

// MemoryWorkbook is an in-process Workbook used by tests and local development.
type MemoryWorkbook struct {
	tabs        map[string]*MemoryTab
	OpenErr     error
	id          string
	order       []string
	nextSheetID int64
	mu          sync.Mutex
}

// NewMemoryWorkbook creates an empty workbook with the given id.
func NewMemoryWorkbook(id string) *MemoryWorkbook {
	return &MemoryWorkbook{
		id:          id,
		tabs:        make(map[string]*MemoryTab),
		nextSheetID: 1,
	}
}

// ID implements Workbook.
func (w *MemoryWorkbook) ID() string { return w.id }

// AddTab creates a tab directly, replacing any tab with the same title.
func (w *MemoryWorkbook) AddTab(title string, rows, cols int) *MemoryTab {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.addTabLocked(title, rows, cols)
}

func (w *MemoryWorkbook) addTabLocked(title string, rows, cols int) *MemoryTab {
	tab := &MemoryTab{
		title:   title,
		sheetID: w.nextSheetID,
		rows:    rows,
		cols:    cols,
		cells:   make(map[[2]int]Cell),
		notes:   make(map[[2]int]string),
	}
	w.nextSheetID++
	if _, exists := w.tabs[title]; !exists {
		w.order = append(w.order, title)
	}
	w.tabs[title] = tab
	return tab
}

// Tab returns an existing tab by title.
func (w *MemoryWorkbook) Tab(title string) (*MemoryTab, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	tab, ok := w.tabs[title]
	return tab, ok
}

// Titles lists tab titles in creation order.
func (w *MemoryWorkbook) Titles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	titles := make([]string, len(w.order))
	copy(titles, w.order)
	return titles
}

// OpenOrCreateTab implements Workbook.
func (w *MemoryWorkbook) OpenOrCreateTab(_ context.Context, title string, rows, cols int) (Tab, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.OpenErr != nil {
		return nil, backendError("get spreadsheet", w.OpenErr)
	}
	if tab, ok := w.tabs[title]; ok {
		return tab, nil
	}
	return w.addTabLocked(title, rows, cols), nil
}

// MemoryTab is an in-process Tab. Cells are addressed 1-based.
type MemoryTab struct {
	ReadErr    error
	WriteErr   error
	AddRowsErr error
	cells      map[[2]int]Cell
	notes      map[[2]int]string
	title      string
	writes     []AtomicRowWrite
	formats    [][2]int
	sheetID    int64
	rows       int
	cols       int

	valuesCalls int
	rangeCalls  int
	addRowCalls int
	mu          sync.Mutex
}

// Title implements Tab.
func (t *MemoryTab) Title() string { return t.title }

// SheetID implements Tab.
func (t *MemoryTab) SheetID() int64 { return t.sheetID }

// RowCount implements Tab.
func (t *MemoryTab) RowCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.rows
}

// Set stores a raw value at (row, col), converting it like a backend read would.
func (t *MemoryTab) Set(row, col int, v any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cells[[2]int{row, col}] = CellFromValue(v)
}

// SetRow stores values starting at (row, col) going right.
func (t *MemoryTab) SetRow(row, col int, values ...any) {
	for i, v := range values {
		t.Set(row, col+i, v)
	}
}

// Cell returns the cell at (row, col).
func (t *MemoryTab) Cell(row, col int) Cell {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.cells[[2]int{row, col}]
}

// Note returns the note attached to (row, col).
func (t *MemoryTab) Note(row, col int) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.notes[[2]int{row, col}]
}

// Writes returns a copy of every applied row write.
func (t *MemoryTab) Writes() []AtomicRowWrite {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]AtomicRowWrite, len(t.writes))
	copy(out, t.writes)
	return out
}

// FormatCopies returns (source, destination) row pairs of applied format copies.
func (t *MemoryTab) FormatCopies() [][2]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([][2]int, len(t.formats))
	copy(out, t.formats)
	return out
}

// ValuesCalls returns how many full-grid reads were made.
func (t *MemoryTab) ValuesCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.valuesCalls
}

// RangeCalls returns how many range reads were made.
func (t *MemoryTab) RangeCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.rangeCalls
}

// AddRowsCalls returns how many times the tab was extended.
func (t *MemoryTab) AddRowsCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.addRowCalls
}

// Values implements Tab.
func (t *MemoryTab) Values(_ context.Context) (Grid, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.valuesCalls++
	if t.ReadErr != nil {
		return nil, backendError("read "+t.title, t.ReadErr)
	}
	return t.gridLocked(1, 1, max(t.cols, t.maxColLocked()), t.rows), nil
}

// ReadRange implements Tab. Rows past the end of the tab are clamped.
func (t *MemoryTab) ReadRange(_ context.Context, a1 string) (Grid, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rangeCalls++
	if t.ReadErr != nil {
		return nil, backendError("read "+a1, t.ReadErr)
	}

	col1, row1, col2, row2, err := ParseRangeRef(a1)
	if err != nil {
		return nil, err
	}
	return t.gridLocked(col1, row1, col2, min(row2, t.rows)), nil
}

// gridLocked renders a range the way the Sheets API does: trailing blank rows
// and trailing blank cells in each row are dropped.
func (t *MemoryTab) gridLocked(col1, row1, col2, row2 int) Grid {
	var grid Grid
	lastRow := -1
	for r := row1; r <= row2; r++ {
		var cells []Cell
		lastCol := -1
		for c := col1; c <= col2; c++ {
			cell := t.cells[[2]int{r, c}]
			cells = append(cells, cell)
			if !cell.IsBlank() {
				lastCol = len(cells) - 1
			}
		}
		grid = append(grid, cells[:lastCol+1])
		if lastCol >= 0 {
			lastRow = len(grid) - 1
		}
	}
	return grid[:lastRow+1]
}

func (t *MemoryTab) maxColLocked() int {
	m := 0
	for k := range t.cells {
		m = max(m, k[1])
	}
	return m
}

// AddRows implements Tab.
func (t *MemoryTab) AddRows(_ context.Context, n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.addRowCalls++
	if t.AddRowsErr != nil {
		return backendError("append rows", t.AddRowsErr)
	}
	t.rows += n
	return nil
}

// ApplyRowWrite implements Tab. A failing write leaves the tab untouched.
func (t *MemoryTab) ApplyRowWrite(_ context.Context, w AtomicRowWrite) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.WriteErr != nil {
		return backendError("write row", t.WriteErr)
	}
	if w.DestRow < 1 || w.DestRow > t.rows || w.SourceRow < 1 || w.SourceRow > t.rows {
		return backendError("write row", fmt.Errorf("row %d exceeds grid limits (%d rows)", w.DestRow, t.rows))
	}
	if w.SheetID != t.sheetID {
		return backendError("write row", fmt.Errorf("no grid with id %d", w.SheetID))
	}

	t.writes = append(t.writes, w)
	t.formats = append(t.formats, [2]int{w.SourceRow, w.DestRow})

	first := min(w.FirstColumn, w.LastColumn)
	last := max(w.FirstColumn, w.LastColumn)
	t.cells[[2]int{w.DestRow, first}] = Text(w.Category)
	t.notes[[2]int{w.DestRow, first}] = w.Note
	t.cells[[2]int{w.DestRow, last}] = Number(w.Amount)
	delete(t.notes, [2]int{w.DestRow, last})
	return nil
}
