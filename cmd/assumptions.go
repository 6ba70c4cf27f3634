package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/holdcalc/internal/cli"
	"github.com/theirongolddev/holdcalc/internal/projection"

	"github.com/spf13/cobra"
)

var assumptionsCmd = &cobra.Command{
	Use:   "assumptions",
	Short: "List the fixed rates behind every projection",
	RunE:  runAssumptions,
}

func init() {
	rootCmd.AddCommand(assumptionsCmd)
}

func runAssumptions(_ *cobra.Command, _ []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	rates := projection.Assumptions()
	if format != "table" {
		return cli.WriteStructured(os.Stdout, format, rates)
	}

	t := cli.Table{
		Title:   "Assumptions",
		Headers: []string{"Class", "Charge", "Rate", "Applies"},
	}
	for _, a := range rates {
		t.Rows = append(t.Rows, []string{a.Class.Label(), a.Name, cli.FormatRate(a.Rate), a.Basis})
	}
	fmt.Print(cli.RenderTable(t))
	fmt.Println(cli.RenderMuted("  One-time charges apply once the 10th year has elapsed and again at year 20."))
	return nil
}
