package engine

import "errors"

// Errors returned by the turn state machine. A rejected request never
// changes the game state.
var (
	ErrNotPlayersTurn    = errors.New("not player's turn")
	ErrNoDiceRolled      = errors.New("no dice rolled")
	ErrDiceAlreadyRolled = errors.New("dice already rolled this turn")
	ErrIllegalMove       = errors.New("illegal move")
	ErrGameAlreadyOver   = errors.New("game already over")
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrInvalidConfig     = errors.New("invalid configuration")
)
