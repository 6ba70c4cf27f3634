package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/theirongolddev/holdcalc/internal/assets"
	"github.com/theirongolddev/holdcalc/internal/cli"
	"github.com/theirongolddev/holdcalc/internal/succession"

	"github.com/spf13/cobra"
)

var (
	flagProperties     int
	flagPropertyValue  string
	flagCompanies      int
	flagRegime         string
	flagMonthlyProfit  string
	flagMonthlyRent    string
	flagHeirs          int
	flagAvoidConflicts bool
)

var successionCmd = &cobra.Command{
	Use:   "succession",
	Short: "Estimate inventory, profit and rental savings for an estate",
	Long: "Estimate what a holding structure saves on an inheritance inventory, on\n" +
		"distributed company profits and on rental income, and how long a\n" +
		"traditional inventory would take for the given number of heirs.",
	Args: cobra.NoArgs,
	RunE: runSuccession,
}

func init() {
	f := successionCmd.Flags()
	f.IntVar(&flagProperties, "properties", 0, "Number of properties")
	f.StringVar(&flagPropertyValue, "property-value", "", "Total value of the properties")
	f.IntVar(&flagCompanies, "companies", 0, "Number of operating companies")
	f.StringVar(&flagRegime, "regime", "", "Company tax regime: simples, presumido, real")
	f.StringVar(&flagMonthlyProfit, "monthly-profit", "", "Profit distributed per month")
	f.StringVar(&flagMonthlyRent, "monthly-rent", "", "Rental income per month")
	f.IntVar(&flagHeirs, "heirs", 0, "Number of heirs")
	f.BoolVar(&flagAvoidConflicts, "avoid-conflicts", false, "Plan the succession to avoid family disputes")
	rootCmd.AddCommand(successionCmd)
}

func successionInput() succession.Input {
	return succession.Input{
		Properties:     flagProperties,
		PropertyValue:  assets.ParseAmount(flagPropertyValue),
		Companies:      flagCompanies,
		Regime:         succession.Regime(flagRegime),
		MonthlyProfit:  assets.ParseAmount(flagMonthlyProfit),
		MonthlyRent:    assets.ParseAmount(flagMonthlyRent),
		Heirs:          flagHeirs,
		AvoidConflicts: flagAvoidConflicts,
	}
}

func runSuccession(_ *cobra.Command, _ []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	in := successionInput()
	if err := in.Validate(); err != nil {
		return err
	}

	r := succession.Simulate(in)
	logger.Debug().
		Str("total_savings", r.TotalSavings.String()).
		Str("conflict_risk", string(r.ConflictRisk)).
		Msg("succession simulated")

	switch format {
	case "table":
		fmt.Print(renderSuccession(r))
		return nil
	case "csv":
		return writeSuccessionCSV(os.Stdout, r)
	default:
		return cli.WriteStructured(os.Stdout, format, r)
	}
}

// successionRows lists the result as display label/value pairs.
func successionRows(r succession.Result) [][]string {
	return [][]string{
		{"Inventory cost without holding", cli.FormatAmount(r.InventoryCostWithout)},
		{"Inventory cost with holding", cli.FormatAmount(r.InventoryCostWith)},
		{"Inventory savings", cli.FormatAmount(r.InventorySavings)},
		{"Annual distributed profit", cli.FormatAmount(r.AnnualProfit)},
		{"Profit tax savings per year", cli.FormatAmount(r.ProfitSavings)},
		{"Annual rent", cli.FormatAmount(r.AnnualRent)},
		{"Rental tax without holding", cli.FormatAmount(r.RentalTaxWithout)},
		{"Rental tax with holding", cli.FormatAmount(r.RentalTaxWith)},
		{"Rental tax savings per year", cli.FormatAmount(r.RentalSavings)},
		{"Inventory months without holding", strconv.Itoa(r.InventoryMonthsWithout)},
		{"Inventory months with holding", strconv.Itoa(r.InventoryMonthsWith)},
		{"Conflict risk", riskLabel(r.ConflictRisk)},
		{"Total savings", cli.FormatAmount(r.TotalSavings)},
	}
}

func riskLabel(r succession.Risk) string {
	switch r {
	case succession.RiskLow:
		return "Low"
	case succession.RiskMedium:
		return "Medium"
	case succession.RiskHigh:
		return "High"
	default:
		return "Not applicable"
	}
}

func renderSuccession(r succession.Result) string {
	out := cli.RenderTitle("Succession planning with a holding structure") + "\n\n"
	t := cli.Table{
		Title:   "Estimate",
		Headers: []string{"Item", "Value"},
		Rows:    successionRows(r),
	}
	out += cli.RenderTable(t) + "\n"

	for _, note := range successionNotes(r) {
		out += "  " + cli.RenderMuted(note) + "\n"
	}
	return out
}

func successionNotes(r succession.Result) []string {
	var notes []string
	if r.Input.Companies > 0 && r.Input.Regime == succession.RegimeSimples {
		notes = append(notes, "Simples Nacional already distributes profit free of income tax.")
	}
	if r.InventoryMonthsWithout > 0 {
		notes = append(notes, fmt.Sprintf("A traditional inventory with %d heir(s) can take up to %d months.",
			r.Input.Heirs, r.InventoryMonthsWithout))
	} else if r.Input.Heirs > 0 {
		notes = append(notes, "With no estate value given, the holding still organizes the succession in advance.")
	}
	if r.Input.AvoidConflicts {
		notes = append(notes, "Rules set in the holding's articles settle the succession while you are alive.")
	}
	return notes
}

func writeSuccessionCSV(w io.Writer, r succession.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"item", "value"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	rows := [][]string{
		{"inventory_cost_without", r.InventoryCostWithout.String()},
		{"inventory_cost_with", r.InventoryCostWith.String()},
		{"inventory_savings", r.InventorySavings.String()},
		{"annual_profit", r.AnnualProfit.String()},
		{"profit_savings", r.ProfitSavings.String()},
		{"annual_rent", r.AnnualRent.String()},
		{"rental_tax_without", r.RentalTaxWithout.String()},
		{"rental_tax_with", r.RentalTaxWith.String()},
		{"rental_savings", r.RentalSavings.String()},
		{"inventory_months_without", strconv.Itoa(r.InventoryMonthsWithout)},
		{"inventory_months_with", strconv.Itoa(r.InventoryMonthsWith)},
		{"conflict_risk", string(r.ConflictRisk)},
		{"total_savings", r.TotalSavings.String()},
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv rows: %w", err)
	}
	return cw.Error()
}
