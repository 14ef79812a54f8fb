package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/wricardo/planchis/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(sess *Session) string {
	if sess.ConfigID != "" {
		return sess.ConfigID
	}
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == sess.Config.Name {
				return cfg.ConfigID
			}
		}
	}
	if sess.Config.Name == "" {
		return "default"
	}
	return sess.Config.Name
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		GameState:      sess.Snapshot(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session. Automated seats that open the
// game play immediately.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					ids := lo.Map(availableConfigs, func(c *ConfigInfo, _ int) string { return c.ConfigID })
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, ids)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if configName != "" {
		sess.ConfigID = configName
	}

	if err := sess.Do(func(e *engine.GameEngine) error {
		e.PlayAutomatedTurns(0)
		e.DrainEvents()
		return nil
	}); err != nil {
		return nil, err
	}
	s.persist(sess.ID)

	log.Info().Str("session", sess.ID).Str("config", config.Name).Msg("session created")
	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Map(s.sessions.List(), func(sess *Session, _ int) *SessionInfo {
		return s.sessionInfo(sess)
	}), nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// Roll rolls the dice for player.
func (s *gameServiceImpl) Roll(ctx context.Context, sessionID string, player int) (*TurnResult, error) {
	return s.mutate(ctx, sessionID, func(e *engine.GameEngine, res *TurnResult) error {
		roll, err := e.Roll(player)
		if err != nil {
			return err
		}
		res.Roll = roll
		return nil
	})
}

// Execute applies one of the moves offered after the last roll.
func (s *gameServiceImpl) Execute(ctx context.Context, sessionID string, player int, move engine.Move) (*TurnResult, error) {
	return s.mutate(ctx, sessionID, func(e *engine.GameEngine, res *TurnResult) error {
		exec, err := e.Execute(player, move)
		if err != nil {
			return err
		}
		res.Exec = exec
		return nil
	})
}

// Pass gives up the rest of player's turn after a roll.
func (s *gameServiceImpl) Pass(ctx context.Context, sessionID string, player int) (*TurnResult, error) {
	return s.mutate(ctx, sessionID, func(e *engine.GameEngine, _ *TurnResult) error {
		return e.Pass(player)
	})
}

// Reset restarts the game with the session's configuration.
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*TurnResult, error) {
	return s.mutate(ctx, sessionID, func(e *engine.GameEngine, _ *TurnResult) error {
		e.Reset()
		return nil
	})
}

// Deactivate removes player from the rotation.
func (s *gameServiceImpl) Deactivate(ctx context.Context, sessionID string, player int) (*TurnResult, error) {
	return s.mutate(ctx, sessionID, func(e *engine.GameEngine, _ *TurnResult) error {
		return e.Deactivate(player)
	})
}

// SetAutomated hands player's seat to the built-in policy or back.
func (s *gameServiceImpl) SetAutomated(ctx context.Context, sessionID string, player int, automated bool) (*TurnResult, error) {
	return s.mutate(ctx, sessionID, func(e *engine.GameEngine, _ *TurnResult) error {
		return e.SetAutomated(player, automated)
	})
}

// mutate runs op under the session lock, lets automated seats play, and
// persists the session afterwards.
func (s *gameServiceImpl) mutate(ctx context.Context, sessionID string, op func(e *engine.GameEngine, res *TurnResult) error) (*TurnResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	res := &TurnResult{SessionID: sess.ID}
	err = sess.Do(func(e *engine.GameEngine) error {
		if err := op(e, res); err != nil {
			return err
		}
		res.Automated = e.PlayAutomatedTurns(0)
		res.Events = e.DrainEvents()
		if res.Events == nil {
			res.Events = []engine.Event{}
		}
		state := e.GetState()
		res.GameState = state.Clone()
		res.Message = state.Message
		res.GameOver = state.IsOver()
		if w, ok := e.Winner(); ok {
			res.Winner = &w
		}
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Str("session", sessionID).Msg("request rejected")
		return nil, err
	}

	s.persist(sess.ID)
	if res.GameOver && res.Winner != nil {
		log.Info().Str("session", sess.ID).Int("winner", *res.Winner).Msg("game over")
	}
	return res, nil
}

// LegalMoves returns the moves awaiting execution, or a preview of the
// moves outcome would allow when one is given.
func (s *gameServiceImpl) LegalMoves(ctx context.Context, sessionID string, player int, outcome *engine.DiceOutcome) (*MovesResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	resp := &MovesResponse{SessionID: sess.ID, Moves: []engine.Move{}}
	err = sess.Do(func(e *engine.GameEngine) error {
		state := e.GetState()
		if player < 0 {
			player = state.Current()
		}
		if player < 0 || player >= engine.NumPlayers {
			return fmt.Errorf("%w: %d", engine.ErrUnknownPlayer, player)
		}
		resp.Player = player

		if outcome != nil {
			o := *outcome
			resp.Outcome = &o
			resp.Moves = append(resp.Moves, e.LegalMoves(player, o)...)
			return nil
		}
		if state.Phase == engine.MovesOffered && state.Dice != nil && player == state.Current() {
			d := *state.Dice
			resp.Outcome = &d
			resp.Offered = true
			resp.Moves = append(resp.Moves, state.Offered...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetGameState returns a snapshot of the game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Snapshot(), nil
}

// GetHistory returns paginated game history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return paginateHistory(sess.Snapshot().History, opts), nil
}

func paginateHistory(history []engine.HistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	entries := []engine.HistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				entries = append(entries, history[i])
			}
		} else {
			entries = append(entries, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Entries:      entries,
		TotalEntries: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	return sess, nil
}

func (s *gameServiceImpl) persist(sessionID string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("failed to persist session")
	}
}
