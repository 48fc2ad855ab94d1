package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/spend/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicRowWrite_Requests(t *testing.T) {
	w := AtomicRowWrite{
		SheetID:     42,
		SourceRow:   9,
		DestRow:     10,
		FirstColumn: 2,
		LastColumn:  3,
		Category:    "Groceries",
		Amount:      250.5,
		Note:        "id=1a2b3c4d; ts=2025-01-15T10:00:00+03:00",
	}

	reqs := w.Requests()
	require.Len(t, reqs, 2)

	copyReq := reqs[0].CopyPaste
	require.NotNil(t, copyReq)
	assert.Nil(t, reqs[0].UpdateCells)
	assert.Equal(t, "PASTE_FORMAT", copyReq.PasteType)
	assert.Equal(t, int64(42), copyReq.Source.SheetId)
	assert.Equal(t, int64(8), copyReq.Source.StartRowIndex)
	assert.Equal(t, int64(9), copyReq.Source.EndRowIndex)
	assert.Equal(t, int64(1), copyReq.Source.StartColumnIndex)
	assert.Equal(t, int64(3), copyReq.Source.EndColumnIndex)
	assert.Equal(t, int64(9), copyReq.Destination.StartRowIndex)
	assert.Equal(t, int64(10), copyReq.Destination.EndRowIndex)

	update := reqs[1].UpdateCells
	require.NotNil(t, update)
	assert.Equal(t, "userEnteredValue,note", update.Fields)
	assert.Equal(t, copyReq.Destination, update.Range)
	require.Len(t, update.Rows, 1)
	require.Len(t, update.Rows[0].Values, 2)

	category := update.Rows[0].Values[0]
	require.NotNil(t, category.UserEnteredValue.StringValue)
	assert.Equal(t, "Groceries", *category.UserEnteredValue.StringValue)
	assert.Equal(t, w.Note, category.Note)

	amount := update.Rows[0].Values[1]
	require.NotNil(t, amount.UserEnteredValue.NumberValue)
	assert.InDelta(t, 250.5, *amount.UserEnteredValue.NumberValue, 1e-9)
	assert.Empty(t, amount.Note)
}

func TestAtomicRowWrite_FirstColumnSentAsZero(t *testing.T) {
	w := AtomicRowWrite{SheetID: 0, SourceRow: 1, DestRow: 1, FirstColumn: 1, LastColumn: 2}

	rng := w.Requests()[0].CopyPaste.Source
	assert.Zero(t, rng.StartColumnIndex)
	assert.Zero(t, rng.StartRowIndex)
	assert.Contains(t, rng.ForceSendFields, "SheetId")
	assert.Contains(t, rng.ForceSendFields, "StartRowIndex")
	assert.Contains(t, rng.ForceSendFields, "StartColumnIndex")
}

func TestWriteRow(t *testing.T) {
	wb, tab := newBlockTab(5, 2, []any{"Food", 100.0})
	region, err := newLocator(NewRegionCache()).Locate(context.Background(), wb.ID(), tab)
	require.NoError(t, err)

	err = WriteRow(context.Background(), tab, region, 8, "Coffee", 99.99, "id=deadbeef")
	require.NoError(t, err)

	assert.Equal(t, "Coffee", tab.Cell(8, 2).String())
	assert.Equal(t, "id=deadbeef", tab.Note(8, 2))
	assert.Equal(t, Number(99.99), tab.Cell(8, 3))
	assert.Empty(t, tab.Note(8, 3))
	assert.Equal(t, [][2]int{{7, 8}}, tab.FormatCopies())
}

func TestWriteRow_EmptyRegionCopiesFromStartRow(t *testing.T) {
	wb, tab := newBlockTab(5, 2)
	region, err := newLocator(NewRegionCache()).Locate(context.Background(), wb.ID(), tab)
	require.NoError(t, err)

	require.NoError(t, WriteRow(context.Background(), tab, region, 7, "Food", 1, ""))
	assert.Equal(t, [][2]int{{7, 7}}, tab.FormatCopies())
}

func TestWriteRow_Failure(t *testing.T) {
	tests := []struct {
		prepare func(tab *MemoryTab)
		name    string
		dst     int
	}{
		{
			name:    "backend rejects the batch",
			prepare: func(tab *MemoryTab) { tab.WriteErr = errors.New("permission denied") },
			dst:     8,
		},
		{
			name:    "row beyond grid",
			prepare: func(*MemoryTab) {},
			dst:     301,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb, tab := newBlockTab(5, 2, []any{"Food", 100.0})
			region, err := newLocator(NewRegionCache()).Locate(context.Background(), wb.ID(), tab)
			require.NoError(t, err)
			tt.prepare(tab)

			err = WriteRow(context.Background(), tab, region, tt.dst, "Coffee", 1, "note")

			assert.ErrorIs(t, err, common.ErrBackendUnavailable)
			assert.Empty(t, tab.Writes())
			assert.True(t, tab.Cell(tt.dst, 2).IsBlank())
			assert.Empty(t, tab.Note(tt.dst, 2))
		})
	}
}
