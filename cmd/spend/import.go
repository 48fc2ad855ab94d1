package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/spend/internal/bot"
	"github.com/Veraticus/spend/internal/cli"
	"github.com/Veraticus/spend/internal/common"
	"github.com/Veraticus/spend/internal/ledger"
	"github.com/gocarina/gocsv"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

// importRow is one line of an expense CSV file.
type importRow struct {
	Date        string `csv:"date"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
}

// expense is a validated importRow.
type expense struct {
	Timestamp   time.Time
	Description string
	Amount      float64
	Line        int
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Record expenses from a CSV or Excel file",
		Long: `Record every row of a CSV file, or of the first sheet of an .xlsx
workbook, with the columns date, amount and description. Dates use 2006-01-02
or RFC 3339; amounts accept a comma as the decimal separator. Rows are written
in file order, each into the tab of its own month.

An interrupted import can be resumed with --skip set to the number of rows
already written.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Int("skip", 0, "Skip this many data rows before writing")
	cmd.Flags().String("delimiter", ",", "Field delimiter")
	cmd.Flags().Bool("dry-run", false, "Validate the file without writing")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	skip, _ := cmd.Flags().GetInt("skip")
	if skip < 0 {
		return common.InvalidArgument("--skip must not be negative")
	}
	delimiter, _ := cmd.Flags().GetString("delimiter")
	comma, size := utf8.DecodeRuneInString(delimiter)
	if size == 0 || size != len(delimiter) {
		return common.InvalidArgument("--delimiter must be a single character")
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Warn("Failed to close import file", "error", err)
		}
	}()

	var expenses []expense
	if strings.EqualFold(filepath.Ext(args[0]), ".xlsx") {
		expenses, err = parseWorkbookExpenses(file, time.Local)
	} else {
		expenses, err = parseExpenses(file, comma, time.Local)
	}
	if err != nil {
		return err
	}
	if skip > len(expenses) {
		skip = len(expenses)
	}
	pending := expenses[skip:]

	fmt.Fprintln(out, cli.FormatTitle("Importing "+filepath.Base(args[0])))
	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d rows in file, %d to write", len(expenses), len(pending))))
	if dryRun || len(pending) == 0 {
		return nil
	}

	interrupts := cli.NewInterruptHandler(out)
	ctx := interrupts.HandleInterrupts(cmd.Context(), "Rows written so far stay in the sheet.")

	svc, err := newLedger(ctx, slog.Default())
	if err != nil {
		return err
	}

	written, err := importExpenses(ctx, svc, pending, out)
	if interrupts.WasInterrupted() || errors.Is(err, context.Canceled) {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Resume with: spend import %s --skip %d", args[0], skip+written)))
		return nil
	}
	if err != nil {
		reason := "Stopped"
		if common.IsRetryable(err) {
			reason = "Spreadsheet unavailable, stopped"
		}
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%s after %d rows; resume with --skip %d", reason, written, skip+written)))
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d expenses", written)))
	return nil
}

// parseExpenses reads and validates every row. Dates without a zone are taken in loc.
func parseExpenses(r io.Reader, comma rune, loc *time.Location) ([]expense, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	return decodeExpenses(reader, loc)
}

// parseWorkbookExpenses reads the first sheet of an .xlsx workbook laid out like the CSV file.
func parseWorkbookExpenses(r io.Reader, loc *time.Location) ([]expense, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := book.Close(); err != nil {
			slog.Warn("Failed to close workbook", "error", err)
		}
	}()

	if len(book.GetSheetList()) == 0 {
		return nil, fmt.Errorf("workbook contains 0 sheets")
	}
	rows, err := book.GetRows(book.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	return decodeExpenses(newRowsReader(rows), loc)
}

func decodeExpenses(reader gocsv.CSVReader, loc *time.Location) ([]expense, error) {
	var rows []importRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse rows: %w", err)
	}

	expenses := make([]expense, 0, len(rows))
	for i, row := range rows {
		line := i + 2 // 1-indexed plus the header line

		ts, err := parseTimestamp(strings.TrimSpace(row.Date), loc)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		amount, err := bot.ParseAmount(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		description := strings.TrimSpace(row.Description)
		if description == "" {
			return nil, fmt.Errorf("line %d: %w", line, common.InvalidArgument("empty description"))
		}

		expenses = append(expenses, expense{
			Timestamp:   ts,
			Description: description,
			Amount:      amount,
			Line:        line,
		})
	}
	return expenses, nil
}

// rowsReader serves already split rows through the gocsv.CSVReader interface.
// Rows are padded to the header width since GetRows drops trailing empty cells.
type rowsReader struct {
	rows  [][]string
	width int
	next  int
}

func newRowsReader(rows [][]string) *rowsReader {
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	return &rowsReader{rows: rows, width: width}
}

func (r *rowsReader) Read() ([]string, error) {
	for r.next < len(r.rows) {
		row := r.rows[r.next]
		r.next++
		if r.next > 1 && blankRow(row) {
			continue
		}
		if len(row) < r.width {
			row = append(row, make([]string, r.width-len(row))...)
		}
		return row, nil
	}
	return nil, io.EOF
}

func (r *rowsReader) ReadAll() ([][]string, error) {
	var all [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
		all = append(all, row)
	}
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	ts, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, common.InvalidArgument("invalid date %q", value)
	}
	return ts.Add(12 * time.Hour), nil
}

// importExpenses writes expenses in order and returns how many succeeded.
func importExpenses(ctx context.Context, records bot.RecordAdder, expenses []expense, out io.Writer) (int, error) {
	bar := progressbar.NewOptions(len(expenses),
		progressbar.OptionSetWriter(out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Recording expenses...[reset]"),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(out); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	written := 0
	for _, e := range expenses {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if _, err := records.AddRecord(ctx, e.Amount, e.Description, e.Timestamp); err != nil {
			return written, fmt.Errorf("line %d: %w", e.Line, err)
		}
		written++
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
	return written, nil
}

var _ bot.RecordAdder = (*ledger.Service)(nil)
