package sheets

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/spend/internal/common"
)

// Workbook is a spreadsheet document holding monthly tabs.
type Workbook interface {
	ID() string
	// OpenOrCreateTab returns the tab with the given title, creating it with the
	// given grid size when it does not exist yet.
	OpenOrCreateTab(ctx context.Context, title string, rows, cols int) (Tab, error)
}

// Tab is one worksheet inside a Workbook.
type Tab interface {
	Title() string
	SheetID() int64
	RowCount() int
	// Values reads every cell of the tab.
	Values(ctx context.Context) (Grid, error)
	// ReadRange reads an A1 range such as "B7:C300" relative to the tab.
	ReadRange(ctx context.Context, a1 string) (Grid, error)
	// AddRows extends the tab by n empty rows.
	AddRows(ctx context.Context, n int) error
	// ApplyRowWrite submits the format copy and value write as one batch.
	ApplyRowWrite(ctx context.Context, w AtomicRowWrite) error
}

// BackendError wraps a failed spreadsheet backend call.
type BackendError struct {
	Err error
	Op  string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("sheets %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is makes every BackendError match common.ErrBackendUnavailable.
func (e *BackendError) Is(target error) bool {
	return target == common.ErrBackendUnavailable
}

func backendError(op string, err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Op: op, Err: err}
}
