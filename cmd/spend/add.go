package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spend/internal/bot"
	"github.com/Veraticus/spend/internal/cli"
	"github.com/Veraticus/spend/internal/ledger"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [amount] [description...]",
		Short: "Record one expense",
		Long: `Record one expense in the tab for the current month.

Missing arguments are asked for interactively:

  spend add 350 coffee and a croissant
  spend add 1299,90
  spend add`,
		RunE: runAdd,
	}

	cmd.Flags().String("date", "", "Book the expense on this date instead of now (format: 2006-01-02)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	ts := time.Now()
	if date, _ := cmd.Flags().GetString("date"); date != "" {
		parsed, err := parseDate(date)
		if err != nil {
			return err
		}
		ts = parsed
	}

	amount, description, err := collectExpense(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), out, args)
	if err != nil {
		return err
	}

	svc, err := newLedger(ctx, slog.Default())
	if err != nil {
		return err
	}

	record, err := svc.AddRecord(ctx, amount, description, ts)
	if err != nil {
		fmt.Fprintln(out, cli.FormatError("Could not record the expense"))
		return err
	}

	printRecord(out, record)
	return nil
}

// collectExpense takes the amount and description from args, prompting for whatever is missing.
func collectExpense(ctx context.Context, reader *cli.NonBlockingReader, out io.Writer, args []string) (float64, string, error) {
	var amountText string
	if len(args) > 0 {
		amountText = args[0]
	} else {
		text, err := reader.Prompt(ctx, out, "Amount")
		if err != nil {
			return 0, "", err
		}
		amountText = text
	}

	amount, err := bot.ParseAmount(amountText)
	if err != nil {
		return 0, "", err
	}

	description := ""
	if len(args) > 1 {
		description = strings.Join(args[1:], " ")
	}
	for strings.TrimSpace(description) == "" {
		text, err := reader.Prompt(ctx, out, "Spent on")
		if err != nil {
			return 0, "", err
		}
		description = text
	}

	return amount, strings.TrimSpace(description), nil
}

func printRecord(out io.Writer, record ledger.Record) {
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Recorded %s on %s", bot.FormatAmount(record.Amount), record.Description)))
	fmt.Fprintln(out, cli.FormatField("Tab", record.Tab))
	fmt.Fprintln(out, cli.FormatField("Row", fmt.Sprint(record.Row)))
	fmt.Fprintln(out, cli.FormatField("ID", record.ID))
}

func parseDate(value string) (time.Time, error) {
	ts, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected format: 2006-01-02): %w", value, err)
	}
	// Midday keeps the date stable when converted to the sheet's time zone.
	return ts.Add(12 * time.Hour), nil
}
