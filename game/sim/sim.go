// Package sim plays headless Planchis games with every seat automated and
// aggregates the outcomes, for balancing presets and smoke-testing the
// engine.
package sim

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/wricardo/planchis/game/engine"
)

// DefaultMaxTurns bounds a single simulated game.
const DefaultMaxTurns = 5000

// Options controls a batch of simulated games.
type Options struct {
	Games int

	// Seed of the first game; game i uses Seed+i. Zero draws from the clock.
	Seed     int64
	MaxTurns int
}

// Report aggregates a batch of simulated games.
type Report struct {
	ConfigName      string                 `json:"config_name"`
	Seats           []int                  `json:"seats"`
	Games           int                    `json:"games"`
	Wins            [engine.NumPlayers]int `json:"wins"`
	Unfinished      int                    `json:"unfinished"`
	TotalTurns      int                    `json:"total_turns"`
	Captures        int                    `json:"captures"`
	BlockedCaptures int                    `json:"blocked_captures"`
	CrossEntries    int                    `json:"cross_entries"`
	Forfeits        int                    `json:"forfeits"`
}

// AverageTurns is the mean number of turns of the finished games.
func (r *Report) AverageTurns() float64 {
	finished := r.Games - r.Unfinished
	if finished == 0 {
		return 0
	}
	return float64(r.TotalTurns) / float64(finished)
}

// WinRate is the share of all games won by seat.
func (r *Report) WinRate(seat int) float64 {
	if r.Games == 0 || seat < 0 || seat >= engine.NumPlayers {
		return 0
	}
	return float64(r.Wins[seat]) / float64(r.Games)
}

// Run plays opts.Games games of cfg. Human seats in cfg are automated for
// the simulation; cfg itself is not modified.
func Run(cfg *engine.GameConfig, opts Options) (*Report, error) {
	if err := engine.ValidateGameConfig(cfg); err != nil {
		return nil, err
	}
	if opts.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", opts.Games)
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}

	bots := *cfg
	bots.HumanPlayers = nil

	report := &Report{
		ConfigName: cfg.Name,
		Seats:      lo.Uniq(cfg.ActivePlayers),
		Games:      opts.Games,
	}

	for i := 0; i < opts.Games; i++ {
		seed := opts.Seed
		if seed != 0 {
			seed += int64(i)
		}
		if err := playOne(&bots, seed, opts.MaxTurns, report); err != nil {
			return nil, fmt.Errorf("game %d: %w", i+1, err)
		}
	}
	return report, nil
}

func playOne(cfg *engine.GameConfig, seed int64, maxTurns int, report *Report) error {
	tally := engine.ObserverFunc(func(ev engine.Event) {
		switch ev.Type {
		case engine.EventPieceCaptured:
			report.Captures++
		case engine.EventCaptureBlocked:
			report.BlockedCaptures++
		case engine.EventCrossEntered:
			report.CrossEntries++
		case engine.EventTurnPassed:
			report.Forfeits++
		}
	})

	eng, err := engine.NewEngine(cfg, engine.WithRand(engine.NewRand(seed)), engine.WithObserver(tally))
	if err != nil {
		return err
	}

	for played := 0; played < maxTurns && !eng.IsGameOver(); {
		results := eng.PlayAutomatedTurns(maxTurns - played)
		if len(results) == 0 {
			break
		}
		played += len(results)
		// Events are also queued for DrainEvents; nobody reads them here
		eng.DrainEvents()
	}

	if winner, ok := eng.Winner(); ok {
		report.Wins[winner]++
		report.TotalTurns += eng.GetState().TurnNumber
		return nil
	}
	report.Unfinished++
	return nil
}
