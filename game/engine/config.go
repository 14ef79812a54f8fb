package engine

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// GameConfig describes a game preset loaded from JSON.
type GameConfig struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ActivePlayers []int    `json:"active_players"`
	HumanPlayers  []int    `json:"human_players"`
	PlayerNames   []string `json:"player_names,omitempty"`

	// BlockImmuneLanding removes moves that would land on an immune
	// opponent instead of letting the pieces share the cell.
	BlockImmuneLanding bool `json:"block_immune_landing"`

	// Seed fixes the random source; zero means seeded from the clock.
	Seed int64 `json:"seed,omitempty"`
}

// Game modes supported by the board.
var (
	TwoPlayerSeats  = []int{0, 2}
	FourPlayerSeats = []int{0, 1, 2, 3}
)

// DefaultConfig is the four-player preset with the first seat human.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:          "classic",
		Description:   "Four players, seat 1 human, the rest automated",
		ActivePlayers: append([]int(nil), FourPlayerSeats...),
		HumanPlayers:  []int{0},
	}
}

// ValidateGameConfig validates a game configuration.
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if config.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidConfig)
	}

	if n := len(config.ActivePlayers); n < 2 || n > NumPlayers {
		return fmt.Errorf("%w: active_players must list between 2 and %d seats, got %d",
			ErrInvalidConfig, NumPlayers, n)
	}
	for _, p := range config.ActivePlayers {
		if p < 0 || p >= NumPlayers {
			return fmt.Errorf("%w: active player %d out of range 0..%d", ErrInvalidConfig, p, NumPlayers-1)
		}
	}
	if dups := lo.FindDuplicates(config.ActivePlayers); len(dups) > 0 {
		return fmt.Errorf("%w: active player %d listed twice", ErrInvalidConfig, dups[0])
	}

	for _, p := range config.HumanPlayers {
		if !lo.Contains(config.ActivePlayers, p) {
			return fmt.Errorf("%w: human player %d is not active", ErrInvalidConfig, p)
		}
	}
	if dups := lo.FindDuplicates(config.HumanPlayers); len(dups) > 0 {
		return fmt.Errorf("%w: human player %d listed twice", ErrInvalidConfig, dups[0])
	}

	if len(config.PlayerNames) > NumPlayers {
		return fmt.Errorf("%w: at most %d player names", ErrInvalidConfig, NumPlayers)
	}
	return nil
}

// NewState builds the opening position for config: every piece in its
// house and the lowest active seat to roll.
func NewState(config *GameConfig) *State {
	rotation := append([]int(nil), config.ActivePlayers...)
	sort.Ints(rotation)

	s := &State{
		ConfigName:         config.Name,
		Mode:               len(rotation),
		BlockImmuneLanding: config.BlockImmuneLanding,
		Rotation:           rotation,
		Phase:              AwaitingRoll,
		TurnNumber:         1,
		History:            []HistoryEntry{},
	}

	for p := 0; p < NumPlayers; p++ {
		name := PlayerName(p)
		if p < len(config.PlayerNames) && config.PlayerNames[p] != "" {
			name = config.PlayerNames[p]
		}
		active := lo.Contains(rotation, p)
		s.Players = append(s.Players, Player{
			Index:     p,
			Name:      name,
			Color:     PlayerColor(p),
			Active:    active,
			Automated: active && !lo.Contains(config.HumanPlayers, p),
		})
		for i := 1; i <= PiecesPerPlayer; i++ {
			s.Pieces = append(s.Pieces, Piece{
				ID:    fmt.Sprintf("p%d-%d", p, i),
				Owner: p,
				State: InHouse,
			})
		}
	}
	syncCounts(s)
	s.Message = fmt.Sprintf("%s to roll", s.Players[s.Current()].Name)
	return s
}

// syncCounts recomputes every player's counters from the pieces.
func syncCounts(s *State) {
	for i := range s.Players {
		p := &s.Players[i]
		p.PiecesInHouse = CountPieces(s, p.Index, InHouse)
		p.PiecesOnTrack = CountPieces(s, p.Index, OnTrack)
		p.PiecesInCross = CountPieces(s, p.Index, InCross)
	}
}
