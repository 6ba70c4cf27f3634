package cmd

import (
	"fmt"

	"github.com/theirongolddev/holdcalc/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Force TrueColor so background styling always produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	cfg := appCfg
	if flagAllowNegative {
		cfg.General.AllowNegative = true
	}

	// The dashboard still works without history.
	var hist tui.HistoryStore
	h, err := openHistory()
	if err != nil {
		logger.Warn().Err(err).Msg("history unavailable")
	} else {
		defer func() { _ = h.Close() }()
		hist = h
	}

	app := tui.NewApp(cfg, hist)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
