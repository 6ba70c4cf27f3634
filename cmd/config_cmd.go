package cmd

import (
	"fmt"

	"github.com/theirongolddev/holdcalc/internal/cli"
	"github.com/theirongolddev/holdcalc/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Format:          %s\n", cfg.General.Format)
	fmt.Printf("    Allow negatives: %v\n", cfg.General.AllowNegative)
	fmt.Println()

	units := cfg.Units.UnitValues()
	fmt.Println("  [Units]")
	fmt.Printf("    Car:   %s\n", cli.FormatAmount(units.Car))
	fmt.Printf("    House: %s\n", cli.FormatAmount(units.House))
	fmt.Printf("    Cash:  %s\n", cli.FormatAmount(units.Cash))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", config.ServerAddr(cfg))
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", config.LogLevel(cfg))
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	fmt.Println()

	fmt.Println("  [History]")
	fmt.Printf("    Database: %s\n", config.HistoryPath(cfg))
	fmt.Println()

	fmt.Println("  Run `holdcalc setup` to reconfigure.")
	return nil
}
