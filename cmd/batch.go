package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/holdcalc/internal/cli"
	"github.com/theirongolddev/holdcalc/internal/pipeline"
	"github.com/theirongolddev/holdcalc/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagWorkers   int
	flagBatchSave bool
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Project every scenario in a yaml, json or csv file",
	Long: "Project many named portfolios at once and rank them by savings at year 20.\n" +
		"YAML and JSON files hold a top-level \"scenarios\" list of name, vehicles,\n" +
		"real_estate and cash; CSV files use those names as header columns.",
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 0, "Parallel workers (0 uses every CPU)")
	batchCmd.Flags().BoolVar(&flagBatchSave, "save", false, "Save every accepted scenario to history")
	rootCmd.AddCommand(batchCmd)
}

// batchRow is one ranked scenario as written by the structured formats.
type batchRow struct {
	Name       string            `json:"name" yaml:"name"`
	Vehicles   decimal.Decimal   `json:"vehicles" yaml:"vehicles"`
	RealEstate decimal.Decimal   `json:"real_estate" yaml:"real_estate"`
	Cash       decimal.Decimal   `json:"cash" yaml:"cash"`
	SavingsY10 decimal.Decimal   `json:"savings_y10" yaml:"savings_y10"`
	SavingsY20 decimal.Decimal   `json:"savings_y20" yaml:"savings_y20"`
	Savings    []decimal.Decimal `json:"savings,omitempty" yaml:"savings,omitempty"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
}

type batchView struct {
	Scenarios []batchRow       `json:"scenarios" yaml:"scenarios"`
	Summary   pipeline.Summary `json:"summary" yaml:"summary"`
}

func buildBatchView(outcomes []pipeline.Outcome) batchView {
	v := batchView{Summary: pipeline.Summarize(outcomes)}
	for _, o := range pipeline.Ranked(outcomes) {
		p := o.Scenario.Portfolio
		row := batchRow{
			Name:       o.Scenario.Name,
			Vehicles:   p.Vehicles,
			RealEstate: p.RealEstate,
			Cash:       p.Cash,
		}
		if o.Err != nil {
			row.Error = strings.ReplaceAll(o.Err.Error(), "\n", "; ")
		} else {
			row.SavingsY10 = o.Savings.At(10)
			row.SavingsY20 = o.Savings.Final()
			row.Savings = o.Savings.Values()
		}
		v.Scenarios = append(v.Scenarios, row)
	}
	return v
}

func runBatch(_ *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	scenarios, err := pipeline.LoadFile(args[0])
	if err != nil {
		return err
	}

	info("  Projecting %d scenarios...\n", len(scenarios))
	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%100 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Projecting [%d/%d]", current, total)
		}
	}

	outcomes, err := pipeline.Run(context.Background(), scenarios,
		pipeline.Options{Workers: flagWorkers, AllowNegative: allowNegative()}, progressFn)
	if err != nil {
		return err
	}
	info("\n")

	view := buildBatchView(outcomes)
	logger.Debug().
		Int("scenarios", view.Summary.Scenarios).
		Int("rejected", view.Summary.Rejected).
		Str("total_y20", view.Summary.TotalY20.String()).
		Msg("batch projected")

	switch format {
	case "table":
		fmt.Print(renderBatch(view))
	case "csv":
		if err := writeBatchCSV(os.Stdout, view); err != nil {
			return err
		}
	default:
		if err := cli.WriteStructured(os.Stdout, format, view); err != nil {
			return err
		}
	}

	if flagBatchSave {
		return saveBatch(outcomes)
	}
	return nil
}

func saveBatch(outcomes []pipeline.Outcome) error {
	hist, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = hist.Close() }()

	ctx := context.Background()
	saved := 0
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		if _, err := hist.Save(ctx, store.NewRecord(o.Scenario.Name, o.Scenario.Portfolio)); err != nil {
			return fmt.Errorf("saving %s: %w", o.Scenario.Name, err)
		}
		saved++
	}
	logger.Info().Int("saved", saved).Msg("batch saved")
	info("  Saved %d projections\n", saved)
	return nil
}

func renderBatch(v batchView) string {
	out := cli.RenderTitle("Scenario ranking") + "\n\n"

	t := cli.Table{
		Title:   "Savings by scenario",
		Headers: []string{"#", "Scenario", "Total assets", "Savings by 10", "Savings by 20", "Trend"},
	}
	for i, r := range v.Scenarios {
		total := r.Vehicles.Add(r.RealEstate).Add(r.Cash)
		if r.Error != "" {
			t.Rows = append(t.Rows, []string{"-", r.Name, cli.FormatAmount(total), cli.RenderWarning(r.Error), "", ""})
			continue
		}
		spark := make([]float64, len(r.Savings))
		for y, s := range r.Savings {
			spark[y] = s.InexactFloat64()
		}
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%d", i+1),
			r.Name,
			cli.FormatAmount(total),
			cli.FormatAmount(r.SavingsY10),
			cli.FormatAmount(r.SavingsY20),
			cli.RenderSparkline(spark),
		})
	}
	out += cli.RenderTable(t) + "\n"

	s := v.Summary
	sum := cli.Table{
		Title:   "Summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Scenarios", fmt.Sprintf("%d", s.Scenarios)},
			{"Rejected", fmt.Sprintf("%d", s.Rejected)},
			{"Total savings by 10", cli.FormatAmount(s.TotalY10)},
			{"Total savings by 20", cli.FormatAmount(s.TotalY20)},
			{"Mean savings by 20", cli.FormatAmount(s.MeanY20)},
			{"Best", s.Best},
			{"Worst", s.Worst},
		},
	}
	out += cli.RenderTable(sum)
	return out
}

func writeBatchCSV(w io.Writer, v batchView) error {
	cw := csv.NewWriter(w)
	header := []string{"name", "vehicles", "real_estate", "cash", "savings_y10", "savings_y20", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range v.Scenarios {
		rec := []string{
			r.Name,
			r.Vehicles.String(),
			r.RealEstate.String(),
			r.Cash.String(),
			r.SavingsY10.String(),
			r.SavingsY20.String(),
			r.Error,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
