package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *State
	SetState(state *State) error
	Reset() *State
	IsGameOver() bool
	Winner() (int, bool)
	CurrentPlayer() int

	// Turn operations
	Roll(player int) (*RollResult, error)
	Execute(player int, move Move) (*ExecResult, error)
	Pass(player int) error
	LegalMoves(player int, outcome DiceOutcome) []Move
	PlayAutomatedTurns(limit int) []RollResult

	// Seat management
	Deactivate(player int) error
	SetAutomated(player int, automated bool) error

	// Configuration
	GetConfig() *GameConfig

	// Notifications
	DrainEvents() []Event
}

// GameEngine implements the Engine interface. It is not safe for
// concurrent use; callers serialise access per session.
type GameEngine struct {
	state    *State
	config   *GameConfig
	rng      Rand
	observer Observer
	logger   zerolog.Logger
	pending  []Event
}

// Option configures a GameEngine.
type Option func(*GameEngine)

// WithRand injects the random source used for dice and tie-breaking.
func WithRand(r Rand) Option {
	return func(e *GameEngine) { e.rng = r }
}

// WithObserver registers an observer for engine events.
func WithObserver(o Observer) Option {
	return func(e *GameEngine) { e.observer = o }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *GameEngine) { e.logger = l }
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config: config,
		state:  NewState(config),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRand(config.Seed)
	}
	return e, nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *State {
	return e.state
}

// SetState replaces the game state (used for persistence loading)
func (e *GameEngine) SetState(state *State) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if len(state.Players) != NumPlayers {
		return fmt.Errorf("state must have %d players, got %d", NumPlayers, len(state.Players))
	}
	if len(state.Pieces) != NumPlayers*PiecesPerPlayer {
		return fmt.Errorf("state must have %d pieces, got %d", NumPlayers*PiecesPerPlayer, len(state.Pieces))
	}
	e.state = state
	syncCounts(e.state)
	return nil
}

// Reset starts a new game with the same configuration
func (e *GameEngine) Reset() *State {
	e.state = NewState(e.config)
	return e.state
}

// IsGameOver returns whether a winner has been declared
func (e *GameEngine) IsGameOver() bool {
	return e.state.IsOver()
}

// Winner returns the winning player once the game is over
func (e *GameEngine) Winner() (int, bool) {
	if e.state.Winner == nil {
		return 0, false
	}
	return *e.state.Winner, true
}

// CurrentPlayer returns the player whose turn it is
func (e *GameEngine) CurrentPlayer() int {
	return e.state.Current()
}

// GetConfig returns the game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// LegalMoves computes candidates for player without touching the state
func (e *GameEngine) LegalMoves(player int, outcome DiceOutcome) []Move {
	return LegalMoves(e.state, player, outcome)
}

// DrainEvents returns the events emitted since the last call.
func (e *GameEngine) DrainEvents() []Event {
	events := e.pending
	e.pending = nil
	return events
}

// checkTurn validates that player may act now.
func (e *GameEngine) checkTurn(player int) error {
	if e.state.IsOver() {
		return ErrGameAlreadyOver
	}
	if player < 0 || player >= NumPlayers {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, player)
	}
	if player != e.state.Current() {
		return fmt.Errorf("%w: player %d, current %d", ErrNotPlayersTurn, player, e.state.Current())
	}
	return nil
}

// Roll draws a dice outcome for player and offers the resulting moves.
// With no legal move the turn is forfeited. Automated players have their
// move chosen and executed immediately.
func (e *GameEngine) Roll(player int) (*RollResult, error) {
	if err := e.checkTurn(player); err != nil {
		return nil, err
	}
	if e.state.Phase == MovesOffered {
		return nil, ErrDiceAlreadyRolled
	}

	outcome := RollDice(e.rng)
	moves := LegalMoves(e.state, player, outcome)

	e.state.Dice = &outcome
	e.state.Offered = moves
	e.state.Phase = MovesOffered
	e.record(player, "roll", &outcome, nil, nil)
	e.emit(Event{
		Type:    EventDiceRolled,
		Player:  player,
		Outcome: &outcome,
		Message: fmt.Sprintf("%s rolled %s", e.playerName(player), outcome),
	})
	e.logger.Debug().Int("player", player).Str("outcome", outcome.String()).Int("moves", len(moves)).Msg("dice rolled")

	result := &RollResult{Player: player, Outcome: outcome, Moves: moves}

	if len(moves) == 0 {
		result.Forfeited = true
		e.forfeit(player, "no legal moves")
		return result, nil
	}

	if !e.state.Players[player].Automated {
		e.state.Message = fmt.Sprintf("%s rolled %s: choose a move", e.playerName(player), outcome)
		return result, nil
	}
	return e.autoMove(player, result)
}

// autoMove lets the policy pick among result.Moves and executes the pick,
// forfeiting the turn when nothing can be played.
func (e *GameEngine) autoMove(player int, result *RollResult) (*RollResult, error) {
	move, ok := ChooseMove(e.state, player, result.Moves, e.rng)
	if !ok {
		result.Forfeited = true
		e.forfeit(player, "no playable move")
		return result, nil
	}
	exec, err := e.execute(player, move)
	if err != nil {
		return nil, err
	}
	result.Auto = exec
	return result, nil
}

// resolveOffered plays the moves already offered to an automated player,
// as happens when a seat is handed to the policy after rolling.
func (e *GameEngine) resolveOffered(player int) (*RollResult, error) {
	result := &RollResult{
		Player:  player,
		Outcome: *e.state.Dice,
		Moves:   append([]Move(nil), e.state.Offered...),
	}
	return e.autoMove(player, result)
}

// Execute applies one of the offered moves for player.
func (e *GameEngine) Execute(player int, move Move) (*ExecResult, error) {
	if err := e.checkTurn(player); err != nil {
		return nil, err
	}
	if e.state.Phase != MovesOffered || e.state.Dice == nil {
		return nil, ErrNoDiceRolled
	}
	offered, ok := lo.Find(e.state.Offered, func(m Move) bool { return m.Matches(move) })
	if !ok {
		return nil, fmt.Errorf("%w: %s was not offered", ErrIllegalMove, move)
	}
	return e.execute(player, offered)
}

// Pass ends player's turn without moving after a roll.
func (e *GameEngine) Pass(player int) error {
	if err := e.checkTurn(player); err != nil {
		return err
	}
	if e.state.Phase != MovesOffered {
		return ErrNoDiceRolled
	}
	e.forfeit(player, "passed")
	return nil
}

// PlayAutomatedTurns rolls for automated players until a human is to move,
// the game ends, or limit turns have been played. An automated player that
// already rolled has its offered moves played instead.
func (e *GameEngine) PlayAutomatedTurns(limit int) []RollResult {
	if limit <= 0 || limit > MaxAutomatedTurns {
		limit = MaxAutomatedTurns
	}
	var results []RollResult
	for i := 0; i < limit && !e.state.IsOver(); i++ {
		current := e.state.Current()
		if current < 0 || !e.state.Players[current].Automated {
			break
		}
		var res *RollResult
		var err error
		if e.state.Phase == MovesOffered && e.state.Dice != nil {
			res, err = e.resolveOffered(current)
		} else {
			res, err = e.Roll(current)
		}
		if err != nil {
			e.logger.Warn().Err(err).Int("player", current).Msg("automated roll rejected")
			break
		}
		results = append(results, *res)
	}
	return results
}

// Deactivate removes player from the rotation, typically after a
// disconnect. The game ends when a single active player remains.
func (e *GameEngine) Deactivate(player int) error {
	if e.state.IsOver() {
		return ErrGameAlreadyOver
	}
	if player < 0 || player >= NumPlayers || !e.state.Players[player].Active {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, player)
	}

	pos := lo.IndexOf(e.state.Rotation, player)
	wasCurrent := e.state.Current() == player
	turn := e.state.Turn % len(e.state.Rotation)

	e.state.Players[player].Active = false
	e.state.Rotation = append(e.state.Rotation[:pos:pos], e.state.Rotation[pos+1:]...)
	if pos < turn {
		turn--
	}
	if len(e.state.Rotation) > 0 {
		turn %= len(e.state.Rotation)
	}
	e.state.Turn = turn

	e.record(player, "deactivated", nil, nil, nil)
	e.emit(Event{
		Type:    EventPlayerDeactivated,
		Player:  player,
		Message: fmt.Sprintf("%s left the game", e.playerName(player)),
	})

	if len(e.state.Rotation) == 1 {
		e.finish(e.state.Rotation[0])
		return nil
	}
	if wasCurrent {
		e.state.Dice = nil
		e.state.Offered = nil
		e.state.Phase = AwaitingRoll
		e.announceTurn()
	}
	return nil
}

// SetAutomated hands a seat to the built-in policy or back to a human.
func (e *GameEngine) SetAutomated(player int, automated bool) error {
	if player < 0 || player >= NumPlayers || !e.state.Players[player].Active {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, player)
	}
	e.state.Players[player].Automated = automated
	return nil
}

// execute re-validates move against a fresh evaluation of the board and
// then applies it. All state mutation of a move happens here.
func (e *GameEngine) execute(player int, move Move) (*ExecResult, error) {
	fresh := LegalMoves(e.state, player, *e.state.Dice)
	if !lo.ContainsBy(fresh, func(m Move) bool { return m.Matches(move) }) {
		return nil, fmt.Errorf("%w: %s no longer legal", ErrIllegalMove, move)
	}
	if move.Kind == ToCross && !ValidCrossMove(move, player) {
		return nil, fmt.Errorf("%w: %s does not match its slot", ErrIllegalMove, move)
	}

	result := &ExecResult{Player: player, Move: move}

	switch move.Kind {
	case FromHouse:
		piece, ok := lo.Find(e.state.Pieces, func(p Piece) bool {
			return p.Owner == player && p.State == InHouse
		})
		if !ok {
			return nil, fmt.Errorf("%w: no piece in house", ErrIllegalMove)
		}
		p := e.state.Piece(piece.ID)
		line, _ := LineOf(move.Target)
		p.State, p.Cell, p.Line, p.Slot = OnTrack, move.Target, line, 0
		result.PieceID = p.ID
		e.emit(Event{
			Type:    EventPieceEntered,
			Player:  player,
			PieceID: p.ID,
			To:      cellPtr(move.Target),
			Message: fmt.Sprintf("%s entered a piece at %s", e.playerName(player), move.Target),
		})
		e.applyCapture(result, player, move.Target)

	case Normal:
		p := e.state.Piece(move.PieceID)
		from := p.Cell
		line, _ := LineOf(move.Target)
		p.Cell, p.Line = move.Target, line
		result.PieceID = p.ID
		e.emit(Event{
			Type:    EventPieceMoved,
			Player:  player,
			PieceID: p.ID,
			From:    cellPtr(from),
			To:      cellPtr(move.Target),
			Message: fmt.Sprintf("%s moved %s from %s to %s", e.playerName(player), p.ID, from, move.Target),
		})
		e.applyCapture(result, player, move.Target)

	case ToCross:
		p := e.state.Piece(move.PieceID)
		from := p.Cell
		p.State, p.Cell, p.Line, p.Slot = InCross, move.Target, "", move.Slot
		result.PieceID = p.ID
		result.EnteredCross = true
		slot := move.Slot
		e.emit(Event{
			Type:    EventCrossEntered,
			Player:  player,
			PieceID: p.ID,
			From:    cellPtr(from),
			To:      cellPtr(move.Target),
			Slot:    &slot,
			Message: fmt.Sprintf("%s entered the cross at %s", e.playerName(player), move.Planet),
		})
	}

	syncCounts(e.state)
	e.record(player, string(move.Kind), nil, &move, result.Captured)

	if e.state.Players[player].PiecesInCross >= CrossSlots {
		e.finish(player)
		w := player
		result.Winner = &w
		return result, nil
	}

	e.advance()
	return result, nil
}

// applyCapture sends the victims of a landing back home.
func (e *GameEngine) applyCapture(result *ExecResult, lander int, c Cell) {
	res := ResolveCapture(e.state, c, lander)
	if res.Blocked {
		result.Blocked = true
		e.emit(Event{
			Type:    EventCaptureBlocked,
			Player:  lander,
			To:      cellPtr(c),
			Message: fmt.Sprintf("pieces at %s are on a safe spot", c),
		})
		return
	}
	for _, id := range res.Victims {
		victim := e.state.Piece(id)
		victim.State, victim.Cell, victim.Line, victim.Slot = InHouse, Cell{}, "", 0
		result.Captured = append(result.Captured, id)
		e.emit(Event{
			Type:    EventPieceCaptured,
			Player:  victim.Owner,
			PieceID: id,
			From:    cellPtr(c),
			Message: fmt.Sprintf("%s captured %s at %s", e.playerName(lander), id, c),
		})
	}
}

// forfeit ends the current turn without a move.
func (e *GameEngine) forfeit(player int, reason string) {
	e.record(player, "pass", nil, nil, nil)
	e.emit(Event{
		Type:    EventTurnPassed,
		Player:  player,
		Message: fmt.Sprintf("%s passes: %s", e.playerName(player), reason),
	})
	e.advance()
}

// advance hands the turn to the next active player.
func (e *GameEngine) advance() {
	e.state.Dice = nil
	e.state.Offered = nil
	e.state.Phase = AwaitingRoll
	if len(e.state.Rotation) > 0 {
		e.state.Turn = (e.state.Turn + 1) % len(e.state.Rotation)
	}
	e.state.TurnNumber++
	e.announceTurn()
}

func (e *GameEngine) announceTurn() {
	next := e.state.Current()
	e.state.Message = fmt.Sprintf("%s to roll", e.playerName(next))
	e.emit(Event{
		Type:    EventTurnChanged,
		Player:  next,
		Message: e.state.Message,
	})
	e.logger.Debug().Int("player", next).Int("turn", e.state.TurnNumber).Msg("turn changed")
}

func (e *GameEngine) finish(winner int) {
	w := winner
	e.state.Winner = &w
	e.state.Phase = GameOver
	e.state.Dice = nil
	e.state.Offered = nil
	e.state.Message = fmt.Sprintf("%s wins", e.playerName(winner))
	e.record(winner, "win", nil, nil, nil)
	e.emit(Event{
		Type:    EventGameOver,
		Player:  winner,
		Message: e.state.Message,
	})
	e.logger.Info().Int("winner", winner).Int("turn", e.state.TurnNumber).Msg("game over")
}

func (e *GameEngine) record(player int, action string, outcome *DiceOutcome, move *Move, captured []string) {
	e.state.History = append(e.state.History, HistoryEntry{
		Turn:      e.state.TurnNumber,
		Player:    player,
		Action:    action,
		Outcome:   outcome,
		Move:      move,
		Captured:  captured,
		Timestamp: time.Now().Unix(),
	})
}

func (e *GameEngine) emit(ev Event) {
	ev.Timestamp = time.Now()
	e.pending = append(e.pending, ev)
	if e.observer != nil {
		e.observer.Notify(ev)
	}
}

func (e *GameEngine) playerName(player int) string {
	if player < 0 || player >= len(e.state.Players) {
		return fmt.Sprintf("player %d", player)
	}
	return e.state.Players[player].Name
}

func cellPtr(c Cell) *Cell {
	return &c
}
