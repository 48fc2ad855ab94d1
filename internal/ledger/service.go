// Package ledger records expenses as rows in monthly spreadsheet tabs.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Veraticus/spend/internal/common"
	"github.com/Veraticus/spend/internal/sheets"
)

// Service appends expense records to the block under the configured header.
type Service struct {
	workbook sheets.Workbook
	cache    *sheets.RegionCache
	locator  *sheets.Locator
	logger   *slog.Logger
	location *time.Location
	newID    func() string
	config   sheets.Config
	planner  sheets.Planner
}

// New creates a Service writing to workbook. The cache may be shared between
// services that write to the same spreadsheet; nil creates a private one.
func New(workbook sheets.Workbook, cache *sheets.RegionCache, config sheets.Config, logger *slog.Logger) (*Service, error) {
	location, err := config.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	if cache == nil {
		cache = sheets.NewRegionCache()
	}
	logger = common.LoggerOrDefault(logger)

	return &Service{
		workbook: workbook,
		cache:    cache,
		locator: &sheets.Locator{
			Cache:    cache,
			Logger:   logger,
			Header:   config.Header,
			ScanRows: config.ScanRows,
		},
		planner:  sheets.Planner{GrowBy: config.GrowRows},
		logger:   logger,
		location: location,
		newID:    NewRecordID,
		config:   config,
	}, nil
}

// AddRecord writes one expense into the tab for the month of ts and returns it.
func (s *Service) AddRecord(ctx context.Context, amount float64, description string, ts time.Time) (Record, error) {
	description = strings.TrimSpace(description)
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Record{}, common.InvalidArgument("amount must be a finite number, got %v", amount)
	}
	if description == "" {
		return Record{}, common.InvalidArgument("description must not be empty")
	}

	ts = ts.In(s.location)
	title := MonthTitle(ts, s.config.Locale)
	key := sheets.RegionKey{SpreadsheetID: s.workbook.ID(), TabTitle: title}

	unlock := s.cache.Lock(key)
	defer unlock()

	tab, region, err := s.locate(ctx, title)
	if err != nil {
		return Record{}, err
	}

	id := s.newID()
	note := FormatNote(id, ts)

	row, err := s.planner.NextRow(ctx, tab, region)
	if err != nil {
		return Record{}, fmt.Errorf("failed to plan row: %w", err)
	}

	if err := sheets.WriteRow(ctx, tab, region, row, description, amount, note); err != nil {
		return Record{}, err
	}

	region.EndRow = max(region.EndRow, row)
	s.cache.Put(key, region)

	s.logger.Info("recorded expense",
		"tab", title,
		"row", row,
		"record_id", id,
		"amount", amount)

	return Record{
		ID:          id,
		Description: description,
		Amount:      amount,
		Timestamp:   ts,
		Tab:         title,
		Row:         row,
	}, nil
}

// Locate returns a snapshot of the region for the month of ts.
func (s *Service) Locate(ctx context.Context, ts time.Time) (sheets.Region, error) {
	title := MonthTitle(ts.In(s.location), s.config.Locale)
	key := sheets.RegionKey{SpreadsheetID: s.workbook.ID(), TabTitle: title}

	unlock := s.cache.Lock(key)
	defer unlock()

	_, region, err := s.locate(ctx, title)
	if err != nil {
		return sheets.Region{}, err
	}
	return *region, nil
}


func (s *Service) locate(ctx context.Context, title string) (sheets.Tab, *sheets.Region, error) {
	tab, err := s.workbook.OpenOrCreateTab(ctx, title, s.config.NewTabRows, s.config.NewTabCols)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open tab %q: %w", title, err)
	}

	region, err := s.locator.Locate(ctx, s.workbook.ID(), tab)
	if err != nil {
		return nil, nil, err
	}
	return tab, region, nil
}
