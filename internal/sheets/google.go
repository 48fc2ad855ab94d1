package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/Veraticus/spend/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valueRenderFormatted = "FORMATTED_VALUE"

var (
	_ Workbook = (*GoogleWorkbook)(nil)
	_ Tab      = (*googleTab)(nil)
)

// GoogleWorkbook is a Workbook backed by the Google Sheets API.
type GoogleWorkbook struct {
	service       *sheets.Service
	logger        *slog.Logger
	spreadsheetID string
}

// NewGoogleWorkbook connects to the spreadsheet named in config.
func NewGoogleWorkbook(ctx context.Context, config Config, logger *slog.Logger) (*GoogleWorkbook, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewGoogleWorkbookWithService(service, config.SpreadsheetID, logger), nil
}

// NewGoogleWorkbookWithService wraps an existing Sheets service.
func NewGoogleWorkbookWithService(service *sheets.Service, spreadsheetID string, logger *slog.Logger) *GoogleWorkbook {
	return &GoogleWorkbook{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        common.LoggerOrDefault(logger),
	}
}

// ID returns the spreadsheet id.
func (w *GoogleWorkbook) ID() string {
	return w.spreadsheetID
}

// OpenOrCreateTab implements Workbook.
func (w *GoogleWorkbook) OpenOrCreateTab(ctx context.Context, title string, rows, cols int) (Tab, error) {
	spreadsheet, err := w.service.Spreadsheets.Get(w.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, backendError("get spreadsheet", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return &googleTab{workbook: w, props: sheet.Properties}, nil
		}
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: title,
						GridProperties: &sheets.GridProperties{
							RowCount:    int64(rows),
							ColumnCount: int64(cols),
						},
					},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return nil, backendError("add sheet", err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return nil, backendError("add sheet", fmt.Errorf("empty reply for tab %q", title))
	}

	w.logger.Info("created monthly tab", "tab", title, "rows", rows, "cols", cols)

	return &googleTab{workbook: w, props: resp.Replies[0].AddSheet.Properties}, nil
}

type googleTab struct {
	workbook *GoogleWorkbook
	props    *sheets.SheetProperties
	mu       sync.Mutex
}

func (t *googleTab) Title() string  { return t.props.Title }
func (t *googleTab) SheetID() int64 { return t.props.SheetId }

func (t *googleTab) RowCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.props.GridProperties == nil {
		return 0
	}
	return int(t.props.GridProperties.RowCount)
}

func (t *googleTab) Values(ctx context.Context) (Grid, error) {
	return t.get(ctx, quoteTitle(t.props.Title, ""))
}

func (t *googleTab) ReadRange(ctx context.Context, a1 string) (Grid, error) {
	return t.get(ctx, quoteTitle(t.props.Title, a1))
}

func (t *googleTab) get(ctx context.Context, rng string) (Grid, error) {
	resp, err := t.workbook.service.Spreadsheets.Values.Get(t.workbook.spreadsheetID, rng).
		ValueRenderOption(valueRenderFormatted).
		Context(ctx).
		Do()
	if err != nil {
		return nil, backendError("read "+rng, err)
	}
	return GridFromValues(resp.Values), nil
}

func (t *googleTab) AddRows(ctx context.Context, n int) error {
	_, err := t.workbook.service.Spreadsheets.BatchUpdate(t.workbook.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AppendDimension: &sheets.AppendDimensionRequest{
					SheetId:         t.props.SheetId,
					Dimension:       "ROWS",
					Length:          int64(n),
					ForceSendFields: []string{"SheetId"},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return backendError("append rows", err)
	}

	t.mu.Lock()
	if t.props.GridProperties == nil {
		t.props.GridProperties = &sheets.GridProperties{}
	}
	t.props.GridProperties.RowCount += int64(n)
	t.mu.Unlock()

	t.workbook.logger.Debug("extended tab", "tab", t.props.Title, "rows_added", n)
	return nil
}

func (t *googleTab) ApplyRowWrite(ctx context.Context, w AtomicRowWrite) error {
	_, err := t.workbook.service.Spreadsheets.BatchUpdate(t.workbook.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: w.Requests(),
	}).Context(ctx).Do()
	if err != nil {
		return backendError("write row", err)
	}
	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	switch {
	case config.ServiceAccountJSON != "" || config.ServiceAccountPath != "":
		jsonKey := []byte(config.ServiceAccountJSON)
		if len(jsonKey) == 0 {
			var err error
			jsonKey, err = os.ReadFile(config.ServiceAccountPath)
			if err != nil {
				return nil, fmt.Errorf("unable to read service account key file: %w", err)
			}
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	default:
		client := OAuth2Config{ClientID: config.ClientID, ClientSecret: config.ClientSecret}.oauth()
		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}
