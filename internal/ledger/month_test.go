package ledger

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthTitle(t *testing.T) {
	tests := []struct {
		ts     time.Time
		locale string
		want   string
	}{
		{ts: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), locale: LocaleRU, want: "Январь 2025"},
		{ts: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), locale: LocaleRU, want: "Май 2025"},
		{ts: time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC), locale: LocaleRU, want: "Декабрь 2024"},
		{ts: time.Date(2025, time.September, 3, 0, 0, 0, 0, time.UTC), locale: LocaleEN, want: "September 2025"},
		{ts: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), locale: "", want: "Март 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthTitle(tt.ts, tt.locale))
		})
	}
}

func TestNewRecordID(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{8}$`)
	seen := make(map[string]bool)
	for range 100 {
		id := NewRecordID()
		assert.Regexp(t, pattern, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 95)
}

func TestFormatNote(t *testing.T) {
	ts := time.Date(2025, time.January, 15, 10, 30, 0, 0, time.FixedZone("MSK", 3*60*60))
	assert.Equal(t, "id=1a2b3c4d; ts=2025-01-15T10:30:00+03:00", FormatNote("1a2b3c4d", ts))
}
