// Package testutil provides shared helpers for tests that need real backends.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/spend/internal/service"
	"github.com/Veraticus/spend/internal/sheets"
	"github.com/Veraticus/spend/internal/storage"
)

// SetupTestDB creates a migrated in-memory session database that is closed when the test ends.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return store
}

// SeedSession stores a session in store or fails the test.
func SeedSession(t *testing.T, store service.SessionStore, session service.Session) {
	t.Helper()

	if err := store.SaveSession(context.Background(), &session); err != nil {
		t.Fatalf("failed to seed session %d: %v", session.ChatID, err)
	}
}

// MonthTab adds a tab laid out like a real monthly sheet: a title in A1, the
// block header at (headerRow, headerCol), column titles below it, then rows.
func MonthTab(wb *sheets.MemoryWorkbook, title string, headerRow, headerCol int, rows ...[]any) *sheets.MemoryTab {
	tab := wb.AddTab(title, 300, 12)
	tab.Set(1, 1, title)
	tab.Set(headerRow, headerCol, sheets.DefaultHeader)
	tab.SetRow(headerRow+1, headerCol, "Категория", "Сумма")
	for i, row := range rows {
		tab.SetRow(headerRow+2+i, headerCol, row...)
	}
	return tab
}
