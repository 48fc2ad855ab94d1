package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spend/internal/cli"
	"github.com/Veraticus/spend/internal/sheets"
	"github.com/spf13/cobra"
)

func locateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Show where the expense block of a month lives",
		Long: `Find the personal expenses header in a month's tab and print the block
boundaries that the next record would be appended after. The tab is created
when it does not exist yet.`,
		Args: cobra.NoArgs,
		RunE: runLocate,
	}

	cmd.Flags().String("month", "", "Month to inspect (format: 2006-01, default: current month)")

	return cmd
}

func runLocate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	ts := time.Now()
	if month, _ := cmd.Flags().GetString("month"); month != "" {
		parsed, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected format: 2006-01): %w", month, err)
		}
		ts = parsed.AddDate(0, 0, 14)
	}

	svc, err := newLedger(ctx, slog.Default())
	if err != nil {
		return err
	}

	region, err := svc.Locate(ctx, ts)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.SheetIcon+" "+region.TabTitle, describeRegion(region)))
	return nil
}

func describeRegion(region sheets.Region) string {
	var b strings.Builder

	category, _ := sheets.ColumnToLabel(region.CategoryColumn)
	amount, _ := sheets.ColumnToLabel(region.AmountColumn)

	b.WriteString(cli.FormatField("Columns", fmt.Sprintf("%s (category), %s (amount)", category, amount)))
	b.WriteString("\n")
	b.WriteString(cli.FormatField("First data row", fmt.Sprint(region.StartRow)))
	b.WriteString("\n")
	if region.Empty() {
		b.WriteString(cli.FormatField("Rows", "none yet"))
	} else {
		b.WriteString(cli.FormatField("Last data row", fmt.Sprint(region.EndRow)))
		b.WriteString("\n")
		b.WriteString(cli.FormatField("Rows", fmt.Sprint(region.EndRow-region.StartRow+1)))
	}
	return b.String()
}
