package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

const pasteFormat = "PASTE_FORMAT"

// AtomicRowWrite copies formatting from SourceRow onto DestRow and writes the
// category (with its note) and amount into DestRow. Rows and columns are 1-based.
type AtomicRowWrite struct {
	Category    string
	Note        string
	SheetID     int64
	SourceRow   int
	DestRow     int
	FirstColumn int
	LastColumn  int
	Amount      float64
}

// Requests builds the batch: a format-only copy followed by the value write.
// They must be sent in one BatchUpdate call.
func (w AtomicRowWrite) Requests() []*sheets.Request {
	category := w.Category
	amount := w.Amount

	return []*sheets.Request{
		{
			CopyPaste: &sheets.CopyPasteRequest{
				Source:      w.rowRange(w.SourceRow),
				Destination: w.rowRange(w.DestRow),
				PasteType:   pasteFormat,
			},
		},
		{
			UpdateCells: &sheets.UpdateCellsRequest{
				Range: w.rowRange(w.DestRow),
				Rows: []*sheets.RowData{
					{
						Values: []*sheets.CellData{
							{
								UserEnteredValue: &sheets.ExtendedValue{StringValue: &category},
								Note:             w.Note,
							},
							{
								UserEnteredValue: &sheets.ExtendedValue{NumberValue: &amount},
							},
						},
					},
				},
				Fields: "userEnteredValue,note",
			},
		},
	}
}

func (w AtomicRowWrite) rowRange(row int) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          w.SheetID,
		StartRowIndex:    int64(row - 1),
		EndRowIndex:      int64(row),
		StartColumnIndex: int64(min(w.FirstColumn, w.LastColumn) - 1),
		EndColumnIndex:   int64(max(w.FirstColumn, w.LastColumn)),
		ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}
}

// WriteRow writes one record into dst, copying the format of the region's last data row.
func WriteRow(ctx context.Context, tab Tab, region *Region, dst int, category string, amount float64, note string) error {
	w := AtomicRowWrite{
		SheetID:     region.SheetID,
		SourceRow:   region.SourceRow(),
		DestRow:     dst,
		FirstColumn: region.CategoryColumn,
		LastColumn:  region.AmountColumn,
		Category:    category,
		Amount:      amount,
		Note:        note,
	}

	if err := tab.ApplyRowWrite(ctx, w); err != nil {
		return fmt.Errorf("failed to write row %d of tab %q: %w", dst, tab.Title(), err)
	}
	return nil
}
