package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/theirongolddev/holdcalc/internal/cli"
	"github.com/theirongolddev/holdcalc/internal/config"
	"github.com/theirongolddev/holdcalc/internal/model"
	"github.com/theirongolddev/holdcalc/internal/projection"
	"github.com/theirongolddev/holdcalc/internal/store"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved projections",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one saved projection",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete one saved projection",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&flagHistoryLimit, "limit", "l", 20, "Maximum records to list (0 for all)")
	historyCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved projections",
		Args:  cobra.NoArgs,
		RunE:  runHistoryList,
	})
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*store.History, error) {
	hist, err := store.Open(config.HistoryPath(appCfg))
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return hist, nil
}

func runHistoryList(_ *cobra.Command, _ []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	var records []model.Record
	if flagServer != "" {
		records, err = remoteHistory(flagHistoryLimit)
	} else {
		records, err = localHistory(flagHistoryLimit)
	}
	if err != nil {
		return err
	}
	switch format {
	case "csv":
		return writeHistoryCSV(os.Stdout, records)
	case "json", "yaml":
		return cli.WriteStructured(os.Stdout, format, records)
	}
	if len(records) == 0 {
		info("  No saved projections. Use --save to store one.\n")
		return nil
	}

	t := cli.Table{
		Title:   "Saved projections",
		Headers: []string{"ID", "Saved", "Label", "Portfolio", "Year 10", "Year 20"},
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			shortID(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Label,
			cli.FormatAmount(r.Portfolio.Total()),
			cli.FormatAmount(r.SavingsY10),
			cli.FormatAmount(r.SavingsY20),
		})
	}
	fmt.Print(cli.RenderTable(t))
	return nil
}

func localHistory(limit int) ([]model.Record, error) {
	hist, err := openHistory()
	if err != nil {
		return nil, err
	}
	defer func() { _ = hist.Close() }()
	return hist.List(context.Background(), limit)
}

func runHistoryShow(_ *cobra.Command, args []string) error {
	if err := requireLocal("history show"); err != nil {
		return err
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}
	hist, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = hist.Close() }()

	rec, err := hist.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	// A saved record re-projects identically, so the full report is rebuilt
	// from its portfolio.
	report := projection.NewReport(rec.Portfolio)
	if format != "table" {
		return cli.WriteReport(os.Stdout, format, report)
	}
	fmt.Printf("  %s  %s  %s\n\n", rec.ID, rec.CreatedAt.Local().Format("2006-01-02 15:04"), rec.Label)
	fmt.Print(renderProjection(report))
	return nil
}

func runHistoryDelete(_ *cobra.Command, args []string) error {
	if err := requireLocal("history delete"); err != nil {
		return err
	}
	hist, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = hist.Close() }()

	if err := hist.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	info("  Deleted %s\n", args[0])
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func writeHistoryCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "created_at", "label", "vehicles", "real_estate", "cash", "savings_y10", "savings_y20"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		rec := []string{
			r.ID,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.Label,
			r.Portfolio.Vehicles.String(),
			r.Portfolio.RealEstate.String(),
			r.Portfolio.Cash.String(),
			r.SavingsY10.String(),
			r.SavingsY20.String(),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
