// Command validate checks the game presets in a configs directory
// (../configs by default, or the first argument). For every *.json file it
// checks:
//   - JSON structure, rejecting unknown fields
//   - seat rules: name and description present, 2 to 4 distinct active
//     seats, human seats a subset of the active ones
//   - that an engine can be built from the preset
//   - a short seeded game with every seat automated, after which each
//     player still owns exactly its pieces
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/wricardo/planchis/game/engine"
)

// smokeTurns bounds the automated game played for each preset.
const smokeTurns = 200

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var config engine.GameConfig
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%v", err)
		return result
	}

	seats := lo.Uniq(config.ActivePlayers)
	if len(seats) == 2 && !lo.Every(seats, engine.TwoPlayerSeats) {
		result.Errors = append(result.Errors, fmt.Sprintf("Note: two-player games usually seat %v", engine.TwoPlayerSeats))
	}

	smoke := validateSmokeRun(&config)
	result.Errors = append(result.Errors, smoke.Errors...)
	if !smoke.Valid {
		result.Valid = false
		return result
	}

	humans := lo.Map(config.HumanPlayers, func(p int, _ int) string {
		if p < len(config.PlayerNames) && config.PlayerNames[p] != "" {
			return config.PlayerNames[p]
		}
		return engine.PlayerName(p)
	})

	result.info("Name: %s", config.Name)
	result.info("Mode: %d players, seats %v", len(seats), seats)
	result.info("Humans: %d %v", len(humans), humans)
	result.info("Block immune landing: %t", config.BlockImmuneLanding)
	if config.Seed != 0 {
		result.info("Seed: %d", config.Seed)
	}
	return result
}

// validateSmokeRun plays up to smokeTurns automated turns of config and
// checks that every player still accounts for all of its pieces.
func validateSmokeRun(config *engine.GameConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	bots := *config
	bots.HumanPlayers = nil
	seed := config.Seed
	if seed == 0 {
		seed = 1
	}

	eng, err := engine.NewEngine(&bots, engine.WithRand(engine.NewRand(seed)))
	if err != nil {
		result.fail("Cannot build engine: %v", err)
		return result
	}

	played := len(eng.PlayAutomatedTurns(smokeTurns))
	state := eng.GetState()

	for _, player := range state.Players {
		owned := lo.CountBy(state.Pieces, func(p engine.Piece) bool { return p.Owner == player.Index })
		if owned != engine.PiecesPerPlayer {
			result.fail("Player %d owns %d pieces after %d turns, want %d", player.Index, owned, played, engine.PiecesPerPlayer)
		}
		if total := player.PiecesInHouse + player.PiecesOnTrack + player.PiecesInCross; total != engine.PiecesPerPlayer {
			result.fail("Player %d counters add up to %d after %d turns, want %d", player.Index, total, played, engine.PiecesPerPlayer)
		}
	}

	if !result.Valid {
		return result
	}
	if winner, ok := eng.Winner(); ok {
		result.info("Smoke run: %s won after %d turns", state.Players[winner].Name, played)
	} else {
		result.info("Smoke run: %d turns played without errors", played)
	}
	return result
}

// validateDir validates every preset in configDir, writes a report to out
// and reports whether all of them are valid.
func validateDir(configDir string, out io.Writer) (bool, error) {
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no config files in %s", configDir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(out, "  "+info)
			}
		} else {
			fmt.Fprintln(out, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(out, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(out, "❌ Some configurations have errors")
	}
	return allValid, nil
}

func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	ok, err := validateDir(configDir, os.Stdout)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}
