package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is one expense entry written as a spreadsheet row.
type Record struct {
	Timestamp   time.Time
	ID          string
	Description string
	Tab         string
	Amount      float64
	Row         int
}

// NewRecordID returns a short random identifier: the first 8 hex characters of a UUID.
func NewRecordID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// FormatNote renders the note attached to a record's category cell.
func FormatNote(id string, ts time.Time) string {
	return "id=" + id + "; ts=" + ts.Format(time.RFC3339)
}
