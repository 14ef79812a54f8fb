package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/planchis/game/engine"
	"github.com/wricardo/planchis/game/service"
)

// Dice faces by index.
const (
	marsBlue = 1
	sunRed   = 10
	sunGreen = 11
)

// fixedRand replays vals in a loop.
type fixedRand struct {
	vals []int
	i    int
}

func (r *fixedRand) Intn(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	rolls    []int
	saves    int
}

func NewMockSessionManager(rolls ...int) *MockSessionManager {
	if len(rolls) == 0 {
		rolls = []int{marsBlue}
	}
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
		rolls:    rolls,
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("t%03d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, fmt.Errorf("session %s already exists", id)
	}

	eng, err := engine.NewEngine(config, engine.WithRand(&fixedRand{vals: m.rolls}))
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, config)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.Touch(time.Now())
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	m.saves++
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"duel": {
				Name:          "Duel",
				Description:   "Two humans",
				ActivePlayers: []int{0, 2},
				HumanPlayers:  []int{0, 2},
			},
			"solo": {
				Name:          "Solo",
				Description:   "One human against one bot",
				ActivePlayers: []int{0, 2},
				HumanPlayers:  []int{0},
			},
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, service.ErrConfigNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var result []*service.ConfigInfo
	for id, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:      id + ".json",
			ConfigID:      id,
			Name:          config.Name,
			Description:   config.Description,
			Mode:          len(config.ActivePlayers),
			ActivePlayers: config.ActivePlayers,
			HumanPlayers:  config.HumanPlayers,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["duel"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.configs[name] = config
	return nil
}

func newService(rolls ...int) (service.GameService, *MockSessionManager) {
	sessions := NewMockSessionManager(rolls...)
	return service.NewGameService(sessions, NewMockConfigManager()), sessions
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("default config", func(t *testing.T) {
		svc, _ := newService()
		info, err := svc.CreateSession(ctx, "")
		require.NoError(t, err)
		assert.NotEmpty(t, info.ID)
		assert.Equal(t, "duel", info.ConfigName)
		assert.Equal(t, engine.AwaitingRoll, info.GameState.Phase)
		assert.Equal(t, 0, info.GameState.Current())
	})

	t.Run("named config", func(t *testing.T) {
		svc, sessions := newService()
		info, err := svc.CreateSession(ctx, "solo")
		require.NoError(t, err)
		assert.Equal(t, "solo", info.ConfigName)
		assert.True(t, info.GameState.Players[2].Automated)
		assert.Equal(t, 1, sessions.saves)
	})

	t.Run("unknown config", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.CreateSession(ctx, "nope")
		assert.ErrorIs(t, err, service.ErrConfigNotFound)
		assert.Contains(t, err.Error(), "duel")
	})
}

func TestGameService_SessionNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	_, err = svc.Roll(ctx, "missing", 0)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	_, err = svc.GetGameState(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	assert.ErrorIs(t, svc.DeleteSession(ctx, "missing"), service.ErrSessionNotFound)
}

func TestGameService_RollAndExecute(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(sunGreen)
	info, err := svc.CreateSession(ctx, "duel")
	require.NoError(t, err)

	_, err = svc.Roll(ctx, info.ID, 2)
	assert.ErrorIs(t, err, engine.ErrNotPlayersTurn)

	res, err := svc.Roll(ctx, info.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, res.Roll)
	require.Len(t, res.Roll.Moves, 1)
	assert.Equal(t, engine.MovesOffered, res.GameState.Phase)
	require.NotEmpty(t, res.Events)
	assert.Equal(t, engine.EventDiceRolled, res.Events[0].Type)

	moves, err := svc.LegalMoves(ctx, info.ID, -1, nil)
	require.NoError(t, err)
	assert.True(t, moves.Offered)
	assert.Equal(t, res.Roll.Moves, moves.Moves)

	_, err = svc.Execute(ctx, info.ID, 0, engine.Move{Kind: engine.Normal, PieceID: "p0-1", Target: engine.Cell{Row: 8, Col: 9}})
	assert.ErrorIs(t, err, engine.ErrIllegalMove)

	res, err = svc.Execute(ctx, info.ID, 0, res.Roll.Moves[0])
	require.NoError(t, err)
	require.NotNil(t, res.Exec)
	assert.Equal(t, "p0-1", res.Exec.PieceID)
	assert.Equal(t, 2, res.GameState.Current())
	assert.False(t, res.GameOver)

	state, err := svc.GetGameState(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.OnTrack, state.Piece("p0-1").State)
}

func TestGameService_AutomatedSeatsPlayAfterHuman(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(sunGreen, sunRed)
	info, err := svc.CreateSession(ctx, "solo")
	require.NoError(t, err)

	res, err := svc.Roll(ctx, info.ID, 0)
	require.NoError(t, err)
	res, err = svc.Execute(ctx, info.ID, 0, res.Roll.Moves[0])
	require.NoError(t, err)

	require.Len(t, res.Automated, 1)
	assert.Equal(t, 2, res.Automated[0].Player)
	assert.Equal(t, 0, res.GameState.Current())
	assert.Equal(t, engine.OnTrack, res.GameState.Piece("p2-1").State)
}

func TestGameService_LegalMovesPreview(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	info, err := svc.CreateSession(ctx, "duel")
	require.NoError(t, err)

	d, ok := engine.FindOutcome(engine.Sun, engine.Green)
	require.True(t, ok)
	moves, err := svc.LegalMoves(ctx, info.ID, 0, &d)
	require.NoError(t, err)
	assert.False(t, moves.Offered)
	require.Len(t, moves.Moves, 1)
	assert.Equal(t, engine.FromHouse, moves.Moves[0].Kind)

	moves, err = svc.LegalMoves(ctx, info.ID, -1, nil)
	require.NoError(t, err)
	assert.Empty(t, moves.Moves, "nothing offered before a roll")

	_, err = svc.LegalMoves(ctx, info.ID, 9, &d)
	assert.ErrorIs(t, err, engine.ErrUnknownPlayer)
}

func TestGameService_PassAndSeats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(sunGreen)
	info, err := svc.CreateSession(ctx, "duel")
	require.NoError(t, err)

	_, err = svc.Pass(ctx, info.ID, 0)
	assert.ErrorIs(t, err, engine.ErrNoDiceRolled)

	_, err = svc.Roll(ctx, info.ID, 0)
	require.NoError(t, err)
	res, err := svc.Pass(ctx, info.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, res.GameState.Current())

	res, err = svc.Deactivate(ctx, info.ID, 0)
	require.NoError(t, err)
	assert.True(t, res.GameOver)
	require.NotNil(t, res.Winner)
	assert.Equal(t, 2, *res.Winner)

	_, err = svc.Roll(ctx, info.ID, 2)
	assert.ErrorIs(t, err, engine.ErrGameAlreadyOver)

	res, err = svc.Reset(ctx, info.ID)
	require.NoError(t, err)
	assert.False(t, res.GameOver)
	assert.Equal(t, 0, res.GameState.Current())
}

func TestGameService_SetAutomated(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(marsBlue)
	info, err := svc.CreateSession(ctx, "duel")
	require.NoError(t, err)

	res, err := svc.SetAutomated(ctx, info.ID, 0, true)
	require.NoError(t, err)
	require.Len(t, res.Automated, 1, "seat 0 plays its pending turn")
	assert.True(t, res.Automated[0].Forfeited)
	assert.Equal(t, 2, res.GameState.Current())

	_, err = svc.SetAutomated(ctx, info.ID, 1, true)
	assert.ErrorIs(t, err, engine.ErrUnknownPlayer)
}

func TestGameService_SetAutomatedAfterRoll(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(sunGreen)
	info, err := svc.CreateSession(ctx, "duel")
	require.NoError(t, err)

	res, err := svc.Roll(ctx, info.ID, 0)
	require.NoError(t, err)
	require.Equal(t, engine.MovesOffered, res.GameState.Phase)

	res, err = svc.SetAutomated(ctx, info.ID, 0, true)
	require.NoError(t, err)
	require.Len(t, res.Automated, 1, "the offered move is played for seat 0")
	assert.Equal(t, 0, res.Automated[0].Player)
	require.NotNil(t, res.Automated[0].Auto)
	assert.Equal(t, "p0-1", res.Automated[0].Auto.PieceID)
	assert.Equal(t, engine.OnTrack, res.GameState.Piece("p0-1").State)
	assert.Equal(t, 2, res.GameState.Current())
	assert.Equal(t, engine.AwaitingRoll, res.GameState.Phase)

	// The human seat is unaffected and can roll
	_, err = svc.Roll(ctx, info.ID, 2)
	assert.NoError(t, err)
}

func TestGameService_History(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(marsBlue)
	info, err := svc.CreateSession(ctx, "duel")
	require.NoError(t, err)

	for _, p := range []int{0, 2, 0} {
		res, err := svc.Roll(ctx, info.ID, p)
		require.NoError(t, err)
		require.True(t, res.Roll.Forfeited)
	}

	h, err := svc.GetHistory(ctx, info.ID, service.HistoryOptions{Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, h.TotalEntries)
	assert.Equal(t, 2, h.TotalPages)
	assert.True(t, h.HasNext)
	assert.False(t, h.HasPrevious)
	require.Len(t, h.Entries, 4)
	assert.Equal(t, "pass", h.Entries[0].Action)
	assert.Equal(t, 0, h.Entries[0].Player)

	h, err = svc.GetHistory(ctx, info.ID, service.HistoryOptions{Page: 2, Limit: 4, Order: "asc"})
	require.NoError(t, err)
	require.Len(t, h.Entries, 2)
	assert.Equal(t, "roll", h.Entries[0].Action)
	assert.False(t, h.HasNext)
	assert.True(t, h.HasPrevious)

	h, err = svc.GetHistory(ctx, info.ID, service.HistoryOptions{Page: 5})
	require.NoError(t, err)
	assert.Empty(t, h.Entries)
}

func TestGameService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	a, err := svc.CreateSession(ctx, "duel")
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, "solo")
	require.NoError(t, err)

	list, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.DeleteSession(ctx, a.ID))
	list, err = svc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGameService_Configs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	configs, err := svc.ListConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, configs, 2)

	cfg := &engine.GameConfig{Name: "four", Description: "all bots", ActivePlayers: []int{0, 1, 2, 3}}
	require.NoError(t, svc.SaveConfig(ctx, "four", cfg))
	loaded, err := svc.LoadConfig(ctx, "four")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	bad := &engine.GameConfig{Name: "bad", Description: "x", ActivePlayers: []int{0}}
	assert.ErrorIs(t, svc.SaveConfig(ctx, "bad", bad), engine.ErrInvalidConfig)
}
