package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/spend/internal/config"
	"github.com/Veraticus/spend/internal/ledger"
	"github.com/Veraticus/spend/internal/sheets"
)

// memoryHeaderRow and memoryHeaderCol place the header of freshly seeded
// in-memory tabs at B2.
const (
	memoryHeaderRow = 2
	memoryHeaderCol = 2
)

// newLedger builds the expense ledger from the sheets configuration.
func newLedger(ctx context.Context, logger *slog.Logger) (*ledger.Service, error) {
	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, err
	}

	workbook, err := openWorkbook(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return ledger.New(workbook, nil, *cfg, logger)
}

func openWorkbook(ctx context.Context, cfg *sheets.Config, logger *slog.Logger) (sheets.Workbook, error) {
	switch cfg.Backend {
	case sheets.BackendMemory:
		logger.Warn("Using in-memory spreadsheet; records are lost on exit")
		return newSeededWorkbook(sheets.NewMemoryWorkbook("memory"), cfg.Header), nil
	default:
		workbook, err := sheets.NewGoogleWorkbook(ctx, *cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
		}
		return workbook, nil
	}
}

// seededWorkbook lays out the expense block on every tab it creates, so the
// in-memory backend behaves like a spreadsheet prepared from a template.
type seededWorkbook struct {
	*sheets.MemoryWorkbook
	header string
	mu     sync.Mutex
}

func newSeededWorkbook(wb *sheets.MemoryWorkbook, header string) *seededWorkbook {
	return &seededWorkbook{MemoryWorkbook: wb, header: header}
}

func (w *seededWorkbook) OpenOrCreateTab(ctx context.Context, title string, rows, cols int) (sheets.Tab, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, existed := w.Tab(title)
	tab, err := w.MemoryWorkbook.OpenOrCreateTab(ctx, title, rows, cols)
	if err != nil || existed {
		return tab, err
	}

	if mt, ok := tab.(*sheets.MemoryTab); ok {
		mt.Set(1, 1, title)
		mt.Set(memoryHeaderRow, memoryHeaderCol, w.header)
		mt.SetRow(memoryHeaderRow+1, memoryHeaderCol, "Категория", "Сумма")
	}
	return tab, nil
}
