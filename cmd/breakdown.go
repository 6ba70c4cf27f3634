package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/holdcalc/internal/cli"
	"github.com/theirongolddev/holdcalc/internal/projection"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagYear int

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Show each asset class with and without the structure at one year",
	RunE:  runBreakdown,
}

func init() {
	breakdownCmd.Flags().IntVarP(&flagYear, "year", "y", projection.Horizon, "Elapsed year (0-20)")
	rootCmd.AddCommand(breakdownCmd)
}

// classRow is one asset class at a single year.
type classRow struct {
	Class   projection.AssetClass `json:"class" yaml:"class"`
	Amount  decimal.Decimal       `json:"amount" yaml:"amount"`
	Without decimal.Decimal       `json:"without" yaml:"without"`
	With    decimal.Decimal       `json:"with" yaml:"with"`
	Savings decimal.Decimal       `json:"savings" yaml:"savings"`
}

type breakdownView struct {
	Year    int        `json:"year" yaml:"year"`
	Classes []classRow `json:"classes" yaml:"classes"`
	Total   classRow   `json:"total" yaml:"total"`
}

func buildBreakdown(r projection.Report, year int) breakdownView {
	v := breakdownView{Year: year}
	total := classRow{Amount: r.Portfolio.Total()}
	for _, c := range r.Classes {
		row := classRow{
			Class:   c.Class,
			Amount:  c.Amount,
			Without: c.Without[year],
			With:    c.With[year],
			Savings: c.Savings[year],
		}
		v.Classes = append(v.Classes, row)
		total.Without = total.Without.Add(row.Without)
		total.With = total.With.Add(row.With)
		total.Savings = total.Savings.Add(row.Savings)
	}
	v.Total = total
	return v
}

func runBreakdown(_ *cobra.Command, _ []string) error {
	if flagYear < 0 || flagYear > projection.Horizon {
		return fmt.Errorf("--year must be between 0 and %d, got %d", projection.Horizon, flagYear)
	}
	p, err := resolvePortfolio()
	if err != nil {
		return err
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}

	view := buildBreakdown(projection.NewReport(p), flagYear)
	switch format {
	case "table":
	case "csv":
		return fmt.Errorf("csv is only available for the year table; use `holdcalc project -f csv`")
	default:
		return cli.WriteStructured(os.Stdout, format, view)
	}

	t := cli.Table{
		Title:   fmt.Sprintf("Breakdown at year %d", view.Year),
		Headers: []string{"Class", "Amount", "Without", "With", "Savings", "Share"},
	}
	for _, row := range view.Classes {
		t.Rows = append(t.Rows, []string{
			row.Class.Label(),
			cli.FormatAmount(row.Amount),
			cli.FormatAmount(row.Without),
			cli.FormatAmount(row.With),
			cli.FormatAmount(row.Savings),
			cli.FormatShare(row.Savings, view.Total.Savings),
		})
	}
	t.Rows = append(t.Rows, []string{"---"}, []string{
		"Total",
		cli.FormatAmount(view.Total.Amount),
		cli.FormatAmount(view.Total.Without),
		cli.FormatAmount(view.Total.With),
		cli.FormatAmount(view.Total.Savings),
		"",
	})
	fmt.Print(cli.RenderTable(t))
	return nil
}
