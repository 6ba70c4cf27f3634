package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/holdcalc/internal/config"
	"github.com/theirongolddev/holdcalc/internal/server"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr         string
	flagServeEventsBuffer int
	flagServeNoHistory    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve projections over a local HTTP API with an SSE event stream",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")
	serveCmd.Flags().BoolVar(&flagServeNoHistory, "no-history", false, "Disable saving and the history endpoint")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := server.Config{
		Addr:          config.ServerAddr(appCfg),
		EventsBuffer:  appCfg.Server.EventsBuffer,
		AllowNegative: allowNegative(),
	}
	if flagServeAddr != "" {
		cfg.Addr = flagServeAddr
	}
	if flagServeEventsBuffer > 0 {
		cfg.EventsBuffer = flagServeEventsBuffer
	}

	var st server.Store
	if !flagServeNoHistory {
		hist, err := openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = hist.Close() }()
		st = hist
	}

	svc, err := server.New(cfg, logger, st)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info("  holdcalc listening on http://%s\n", svc.Addr())
	info("  Endpoints: /healthz /v1/projection /v1/assumptions /v1/history /v1/events /v1/stream\n")
	return svc.Run(ctx)
}
