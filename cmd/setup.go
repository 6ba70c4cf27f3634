package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/holdcalc/internal/assets"
	"github.com/theirongolddev/holdcalc/internal/config"
	"github.com/theirongolddev/holdcalc/internal/model"
	"github.com/theirongolddev/holdcalc/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup of unit values, theme and logging",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupValues backs the setup form.
type setupValues struct {
	car, house, cash string
	theme            string
	format           string
	logLevel         string
	allowNegative    bool
}

func newSetupValues(cfg config.Config) *setupValues {
	units := cfg.Units.UnitValues()
	return &setupValues{
		car:           units.Car.String(),
		house:         units.House.String(),
		cash:          units.Cash.String(),
		theme:         cfg.Appearance.Theme,
		format:        cfg.General.Format,
		logLevel:      cfg.Log.Level,
		allowNegative: cfg.General.AllowNegative,
	}
}

// apply writes the form answers into cfg. Blank or non-positive unit
// values fall back to the defaults.
func (v *setupValues) apply(cfg *config.Config) {
	stock := model.DefaultUnitValues()
	units := model.UnitValues{
		Car:   positiveOr(v.car, stock.Car),
		House: positiveOr(v.house, stock.House),
		Cash:  positiveOr(v.cash, stock.Cash),
	}
	cfg.Units.SetUnitValues(units)
	cfg.Appearance.Theme = v.theme
	cfg.General.Format = v.format
	cfg.General.AllowNegative = v.allowNegative
	cfg.Log.Level = v.logLevel
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := appCfg
	vals := newSetupValues(cfg)

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}
	formatOpts := make([]huh.Option[string], 0, len(config.Formats))
	for _, f := range config.Formats {
		formatOpts = append(formatOpts, huh.NewOption(f, f))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to holdcalc").
				Description("Unit values price one step of the quantity counters."),
			huh.NewInput().Title("Car unit value").Value(&vals.car).Validate(validUnit),
			huh.NewInput().Title("House unit value").Value(&vals.house).Validate(validUnit),
			huh.NewInput().Title("Cash unit value").Value(&vals.cash).Validate(validUnit),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Color theme").Options(themeOpts...).Value(&vals.theme),
			huh.NewSelect[string]().Title("Default output format").Options(formatOpts...).Value(&vals.format),
			huh.NewSelect[string]().Title("Log level").
				Options(huh.NewOptions("error", "warn", "info", "debug")...).
				Value(&vals.logLevel),
			huh.NewConfirm().Title("Accept negative amounts?").Value(&vals.allowNegative),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			info("  Setup cancelled.\n")
			return nil
		}
		return err
	}

	vals.apply(&cfg)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `holdcalc setup` anytime to reconfigure.")
	return nil
}

func positiveOr(raw string, fallback decimal.Decimal) decimal.Decimal {
	if d := assets.ParseAmount(raw); d.IsPositive() {
		return d
	}
	return fallback
}

func validUnit(s string) error {
	if s == "" {
		return nil
	}
	if !assets.ParseAmount(s).IsPositive() {
		return errors.New("unit value must be a positive amount")
	}
	return nil
}
