package service

import (
	"time"

	"github.com/wricardo/planchis/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.State      `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// TurnResult is returned by every operation that changes a game.
type TurnResult struct {
	SessionID string             `json:"session_id"`
	GameState *engine.State      `json:"game_state"`
	Message   string             `json:"message"`
	Roll      *engine.RollResult `json:"roll,omitempty"`
	Exec      *engine.ExecResult `json:"exec,omitempty"`

	// Automated holds the turns played by automated seats after the
	// request, until a human is to move or the game ends.
	Automated []engine.RollResult `json:"automated,omitempty"`

	Events   []engine.Event `json:"events"`
	GameOver bool           `json:"game_over"`
	Winner   *int           `json:"winner,omitempty"`
}

// MovesResponse lists candidate moves for a player and outcome.
type MovesResponse struct {
	SessionID string              `json:"session_id"`
	Player    int                 `json:"player"`
	Outcome   *engine.DiceOutcome `json:"outcome,omitempty"`
	Offered   bool                `json:"offered"` // true when the moves are the ones awaiting execution
	Moves     []engine.Move       `json:"moves"`
}

// HistoryOptions configures history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains a page of the game history
type HistoryResponse struct {
	Entries      []engine.HistoryEntry `json:"entries"`
	TotalEntries int                   `json:"total_entries"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
	HasNext      bool                  `json:"has_next"`
	HasPrevious  bool                  `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename      string `json:"filename"`
	ConfigID      string `json:"config_id"` // The identifier to use for session creation
	Name          string `json:"name"`      // Display name
	Description   string `json:"description"`
	Mode          int    `json:"mode"`
	ActivePlayers []int  `json:"active_players"`
	HumanPlayers  []int  `json:"human_players"`
}
