package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/planchis/game/config"
	"github.com/wricardo/planchis/game/engine"
	"github.com/wricardo/planchis/game/sim"
)

// runSimulate plays a batch of automated games of one preset and writes the
// report to out.
func runSimulate(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	configs, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}

	cfg := configs.GetDefault()
	if name := cmd.String("config"); name != "" {
		if cfg, err = configs.LoadConfig(name); err != nil {
			return fmt.Errorf("failed to load config %q: %w", name, err)
		}
	}

	opts := sim.Options{
		Games:    int(cmd.Int("games")),
		Seed:     cmd.Int64("seed"),
		MaxTurns: int(cmd.Int("max-turns")),
	}
	log.Debug().Str("config", cfg.Name).Int("games", opts.Games).Int64("seed", opts.Seed).Msg("simulating")

	report, err := sim.Run(cfg, opts)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return writeReport(out, report)
}

func writeReport(out io.Writer, report *sim.Report) error {
	fmt.Fprintf(out, "%s: %d games, %d unfinished, %.1f turns on average\n",
		report.ConfigName, report.Games, report.Unfinished, report.AverageTurns())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEAT\tCOLOR\tWINS\tRATE")
	for _, seat := range report.Seats {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.1f%%\n", seat, engine.PlayerColor(seat), report.Wins[seat], 100*report.WinRate(seat))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "captures %d, blocked %d, cross entries %d, forfeits %d\n",
		report.Captures, report.BlockedCaptures, report.CrossEntries, report.Forfeits)
	return nil
}
