// Command analyze prints quick, human-readable balance heuristics for the
// game presets in a configs directory. Each preset is simulated with every
// seat automated; the report shows win rates per seat, game length and
// capture activity, and flags seats whose win rate strays from an even
// split and games that never finish.
package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/planchis/game/config"
	"github.com/wricardo/planchis/game/engine"
	"github.com/wricardo/planchis/game/sim"
)

const (
	// imbalanceThreshold is the largest gap between a seat's win rate and
	// an even split that goes unflagged.
	imbalanceThreshold = 0.15
	// minGamesForBalance is the sample size below which win rates are not
	// judged.
	minGamesForBalance = 20
)

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "simulate every preset and report balance heuristics",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing game presets"},
			&cli.IntFlag{Name: "games", Value: 200, Usage: "games per preset"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "seed of the first game of each preset"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := sim.Options{Games: int(cmd.Int("games")), Seed: cmd.Int64("seed")}
			return analyzeDir(os.Stdout, cmd.String("config-dir"), opts)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// analyzeDir analyzes every preset listed by the config manager for dir.
func analyzeDir(out io.Writer, dir string, opts sim.Options) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}
	infos, err := manager.ListConfigs()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return fmt.Errorf("no valid presets in %s", dir)
	}

	for _, info := range infos {
		fmt.Fprintf(out, "\n=== Analyzing %s ===\n", info.Filename)
		cfg, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Fprintf(out, "Error loading preset: %v\n", err)
			continue
		}
		if _, _, err := analyzeConfig(out, cfg, opts); err != nil {
			fmt.Fprintf(out, "Error simulating preset: %v\n", err)
		}
	}
	return nil
}

// analyzeConfig simulates cfg, prints the report and returns it with the
// warnings raised.
func analyzeConfig(out io.Writer, cfg *engine.GameConfig, opts sim.Options) (*sim.Report, []string, error) {
	report, err := sim.Run(cfg, opts)
	if err != nil {
		return nil, nil, err
	}

	fmt.Fprintf(out, "Name: %s\n", cfg.Name)
	fmt.Fprintf(out, "Mode: %d players, seats %v\n", len(report.Seats), report.Seats)
	fmt.Fprintf(out, "Games: %d (average %.1f turns)\n", report.Games, report.AverageTurns())
	for _, seat := range report.Seats {
		fmt.Fprintf(out, "Seat %d (%s): %d wins, %.1f%%\n", seat, engine.PlayerColor(seat), report.Wins[seat], 100*report.WinRate(seat))
	}
	perGame := func(n int) float64 { return float64(n) / float64(report.Games) }
	fmt.Fprintf(out, "Per game: %.1f captures, %.1f blocked, %.1f cross entries, %.1f forfeits\n",
		perGame(report.Captures), perGame(report.BlockedCaptures), perGame(report.CrossEntries), perGame(report.Forfeits))

	warnings := balanceWarnings(report)
	if len(warnings) == 0 {
		fmt.Fprintf(out, "✅ No balance issues found\n")
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "⚠️  WARNING: %s\n", w)
	}
	return report, warnings, nil
}

// balanceWarnings flags unfinished games and, given enough games, seats
// whose win rate is far from an even split.
func balanceWarnings(report *sim.Report) []string {
	var warnings []string
	if report.Unfinished > 0 {
		warnings = append(warnings, fmt.Sprintf("%d/%d games hit the turn limit", report.Unfinished, report.Games))
	}
	if report.Games < minGamesForBalance || len(report.Seats) == 0 {
		return warnings
	}

	fair := 1 / float64(len(report.Seats))
	for _, seat := range report.Seats {
		rate := report.WinRate(seat)
		if math.Abs(rate-fair) > imbalanceThreshold {
			warnings = append(warnings, fmt.Sprintf("seat %d wins %.0f%% of games, an even split is %.0f%%", seat, 100*rate, 100*fair))
		}
	}
	return warnings
}
