// Package cmd implements the holdcalc CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/holdcalc/internal/assets"
	"github.com/theirongolddev/holdcalc/internal/config"
	"github.com/theirongolddev/holdcalc/internal/logging"
	"github.com/theirongolddev/holdcalc/internal/model"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagVehicles      string
	flagRealEstate    string
	flagCash          string
	flagCars          int
	flagHouses        int
	flagCashUnits     int
	flagFormat        string
	flagAllowNegative bool
	flagQuiet         bool
	flagLogLevel      string
	flagServer        string
)

// Loaded once in PersistentPreRunE.
var (
	appCfg config.Config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "holdcalc",
	Short: "Project the savings of holding assets through a structure",
	Long: "Compare 20 years of direct ownership against holding vehicles, real estate\n" +
		"and cash through a holding structure, year by year.",
	SilenceUsage:      true,
	PersistentPreRunE: setupRun,
	RunE:              runProject,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, assets.ErrInvalidAssetValue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagVehicles, "vehicles", "", "Total value of vehicles (overrides --cars)")
	pf.StringVar(&flagRealEstate, "real-estate", "", "Total value of real estate (overrides --houses)")
	pf.StringVar(&flagCash, "cash", "", "Total cash (overrides --cash-units)")
	pf.IntVar(&flagCars, "cars", 0, "Number of cars at the configured unit value")
	pf.IntVar(&flagHouses, "houses", 0, "Number of houses at the configured unit value")
	pf.IntVar(&flagCashUnits, "cash-units", 0, "Number of cash units at the configured unit value")
	pf.StringVarP(&flagFormat, "format", "f", "", "Output format: table, json, yaml, csv")
	pf.BoolVar(&flagAllowNegative, "allow-negative", false, "Accept negative amounts and show the inverted result")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	pf.StringVar(&flagServer, "server", "", "Project and list history through a running holdcalc server (URL or host:port)")

	addSaveFlags(rootCmd)
}

func setupRun(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		// Keep going on defaults; a broken config should not block a projection.
		fmt.Fprintf(os.Stderr, "  warning: %v (using defaults)\n", err)
	}
	appCfg = cfg

	level := flagLogLevel
	if level == "" {
		level = config.LogLevel(cfg)
	}
	logger, err = logging.New(logging.Config{Level: level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	logger.Debug().Str("config", config.Path()).Msg("configuration loaded")
	return nil
}

// portfolioInputs is the raw projection input gathered from flags.
type portfolioInputs struct {
	vehicles, realEstate, cash string // used when set
	cars, houses, cashUnits    int
}

// portfolio resolves each class from its amount when given, otherwise from
// its quantity at the unit value.
func (in portfolioInputs) portfolio(units model.UnitValues) model.Portfolio {
	basket := model.Basket{Cars: in.cars, Houses: in.houses, CashUnits: in.cashUnits}
	p := basket.Portfolio(units)
	if in.vehicles != "" {
		p.Vehicles = assets.ParseAmount(in.vehicles)
	}
	if in.realEstate != "" {
		p.RealEstate = assets.ParseAmount(in.realEstate)
	}
	if in.cash != "" {
		p.Cash = assets.ParseAmount(in.cash)
	}
	return p
}

func flagInputs() portfolioInputs {
	return portfolioInputs{
		vehicles:   flagVehicles,
		realEstate: flagRealEstate,
		cash:       flagCash,
		cars:       flagCars,
		houses:     flagHouses,
		cashUnits:  flagCashUnits,
	}
}

func allowNegative() bool {
	return flagAllowNegative || appCfg.General.AllowNegative
}

// resolvePortfolio builds the portfolio from flags and validates it unless
// negatives are allowed.
func resolvePortfolio() (model.Portfolio, error) {
	p := flagInputs().portfolio(appCfg.Units.UnitValues())
	logger.Debug().
		Str("vehicles", p.Vehicles.String()).
		Str("real_estate", p.RealEstate.String()).
		Str("cash", p.Cash.String()).
		Msg("portfolio resolved")

	if allowNegative() {
		return p, nil
	}
	if err := assets.Validate(p); err != nil {
		return p, err
	}
	return p, nil
}

func outputFormat() (string, error) {
	format := flagFormat
	if format == "" {
		format = appCfg.General.Format
	}
	if format == "" {
		format = "table"
	}
	if !config.ValidFormat(format) {
		return "", fmt.Errorf("unknown format %q (want one of %v)", format, config.Formats)
	}
	return format, nil
}

func info(format string, args ...interface{}) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
