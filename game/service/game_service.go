package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/planchis/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Turn Operations
	Roll(ctx context.Context, sessionID string, player int) (*TurnResult, error)
	LegalMoves(ctx context.Context, sessionID string, player int, outcome *engine.DiceOutcome) (*MovesResponse, error)
	Execute(ctx context.Context, sessionID string, player int, move engine.Move) (*TurnResult, error)
	Pass(ctx context.Context, sessionID string, player int) (*TurnResult, error)
	Reset(ctx context.Context, sessionID string) (*TurnResult, error)

	// Seats
	Deactivate(ctx context.Context, sessionID string, player int) (*TurnResult, error)
	SetAutomated(ctx context.Context, sessionID string, player int, automated bool) (*TurnResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.State, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session. The engine is not safe for
// concurrent use, so every access goes through Do or Snapshot.
type Session struct {
	ID             string
	ConfigID       string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu       sync.Mutex
	accessMu sync.RWMutex
}

// Touch records an access at t.
func (s *Session) Touch(t time.Time) {
	s.accessMu.Lock()
	s.LastAccessedAt = t
	s.accessMu.Unlock()
}

// LastAccessed returns the time of the latest access.
func (s *Session) LastAccessed() time.Time {
	s.accessMu.RLock()
	defer s.accessMu.RUnlock()
	return s.LastAccessedAt
}

// Do runs fn with exclusive access to the session's engine.
func (s *Session) Do(fn func(e *engine.GameEngine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.Engine)
}

// Snapshot returns a copy of the current game state.
func (s *Session) Snapshot() *engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.GetState().Clone()
}
