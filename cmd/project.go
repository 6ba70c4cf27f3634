package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/theirongolddev/holdcalc/internal/cli"
	"github.com/theirongolddev/holdcalc/internal/config"
	"github.com/theirongolddev/holdcalc/internal/model"
	"github.com/theirongolddev/holdcalc/internal/projection"
	"github.com/theirongolddev/holdcalc/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagSave  bool
	flagLabel string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project savings over 20 years (default command)",
	RunE:  runProject,
}

func init() {
	addSaveFlags(projectCmd)
	rootCmd.AddCommand(projectCmd)
}

func addSaveFlags(c *cobra.Command) {
	c.Flags().BoolVar(&flagSave, "save", false, "Save the projection to history")
	c.Flags().StringVar(&flagLabel, "label", "", "Label for the saved projection")
}

func runProject(_ *cobra.Command, _ []string) error {
	p, err := resolvePortfolio()
	if err != nil {
		return err
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}

	if flagServer != "" {
		return runRemoteProject(p, format)
	}

	report := projection.NewReport(p)
	if format == "table" {
		fmt.Print(renderProjection(report))
	} else if err := cli.WriteReport(os.Stdout, format, report); err != nil {
		return err
	}

	if flagSave {
		return saveProjection(p)
	}
	return nil
}

func saveProjection(p model.Portfolio) error {
	hist, err := store.Open(config.HistoryPath(appCfg))
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer func() { _ = hist.Close() }()

	rec, err := hist.Save(context.Background(), store.NewRecord(flagLabel, p))
	if err != nil {
		return err
	}
	logger.Info().Str("id", rec.ID).Msg("projection saved")
	info("  Saved projection %s\n", rec.ID)
	return nil
}

func renderProjection(r projection.Report) string {
	out := cli.RenderTitle("Savings with a holding structure") + "\n\n"

	out += cli.RenderTable(portfolioTable(r))
	out += "\n"

	years := cli.Table{
		Title:   "Cumulative cost by year",
		Headers: []string{"Year", "Without", "With", "Savings"},
	}
	for _, row := range r.Years {
		years.Rows = append(years.Rows, []string{
			strconv.Itoa(row.Year),
			cli.FormatAmount(row.Without),
			cli.FormatAmount(row.With),
			cli.FormatAmount(row.Savings),
		})
	}
	out += cli.RenderTable(years)
	out += "\n"

	spark := make([]float64, len(r.Savings))
	for i, v := range r.Savings {
		spark[i] = v.InexactFloat64()
	}
	out += "  Savings  " + cli.RenderSparkline(spark) + "  " +
		cli.RenderSavings(cli.FormatAmount(r.Savings[projection.Horizon])) + "\n\n"

	peak := 0.0
	for _, c := range r.Classes {
		peak = max(peak, c.Savings[projection.Horizon].InexactFloat64())
	}
	for _, c := range r.Classes {
		final := c.Savings[projection.Horizon]
		out += cli.RenderHorizontalBar(fmt.Sprintf("%-12s", c.Class.Label()), final.InexactFloat64(), peak, 30, cli.ColorAccent)
		out += " " + cli.FormatAmount(final) + "\n"
	}
	out += "\n" + cli.RenderLegend(
		cli.LegendEntry{Label: "without holding", Color: cli.ColorWithout},
		cli.LegendEntry{Label: "with holding", Color: cli.ColorWith},
	) + "\n"
	return out
}

func portfolioTable(r projection.Report) cli.Table {
	t := cli.Table{
		Title:   "Portfolio",
		Headers: []string{"Class", "Amount", "Savings by 20", "Share"},
	}
	total := r.Savings[projection.Horizon]
	for _, c := range r.Classes {
		saved := c.Savings[projection.Horizon]
		t.Rows = append(t.Rows, []string{
			c.Class.Label(),
			cli.FormatAmount(c.Amount),
			cli.FormatAmount(saved),
			cli.FormatShare(saved, total),
		})
	}
	t.Rows = append(t.Rows, []string{"---"}, []string{
		"Total",
		cli.FormatAmount(r.Portfolio.Total()),
		cli.FormatAmount(total),
		"",
	})
	return t
}
