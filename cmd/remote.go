package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/theirongolddev/holdcalc/internal/cli"
	"github.com/theirongolddev/holdcalc/internal/model"
	"github.com/theirongolddev/holdcalc/internal/remote"
)

// requireLocal rejects --server for commands the server API does not cover.
func requireLocal(command string) error {
	if flagServer != "" {
		return fmt.Errorf("%s works on the local history only; drop --server", command)
	}
	return nil
}

func remoteClient() (*remote.Client, error) {
	c, err := remote.NewClient(flagServer)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, flagServer)
	}
	return c, nil
}

// runRemoteProject projects p on the server. The server applies its own
// negative-amount policy.
func runRemoteProject(p model.Portfolio, format string) error {
	c, err := remoteClient()
	if err != nil {
		return err
	}

	resp, err := c.Project(context.Background(), p, flagLabel, flagSave)
	if err != nil {
		return err
	}
	logger.Debug().Str("server", flagServer).Str("record_id", resp.RecordID).Msg("remote projection")

	report := resp.Report()
	if format == "table" {
		fmt.Print(renderProjection(report))
	} else if err := cli.WriteReport(os.Stdout, format, report); err != nil {
		return err
	}
	if resp.RecordID != "" {
		info("  Saved projection %s on %s\n", resp.RecordID, flagServer)
	}
	return nil
}

func remoteHistory(limit int) ([]model.Record, error) {
	c, err := remoteClient()
	if err != nil {
		return nil, err
	}
	return c.History(context.Background(), limit)
}
