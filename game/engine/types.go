package engine

import "fmt"

// Color identifies one of the four arms of the board.
type Color string

const (
	Red    Color = "Rojo"
	Yellow Color = "Amarillo"
	Green  Color = "Verde"
	Blue   Color = "Azul"
)

// Humidity distinguishes the two lines of a color.
type Humidity string

const (
	Wet Humidity = "Humedo"
	Dry Humidity = "Seco"
)

// Element is the cosmetic element printed on a dice face.
type Element string

const (
	Fire  Element = "Fuego"
	Water Element = "Agua"
	Earth Element = "Tierra"
	Air   Element = "Aire"
)

// Planet is a symbol printed on the board and on the dice.
type Planet string

const (
	Jupiter Planet = "Júpiter"
	Mars    Planet = "Marte"
	Venus   Planet = "Venus"
	Mercury Planet = "Mercurio"
	Moon    Planet = "Luna"
	Sun     Planet = "Sol"
	Saturn  Planet = "Saturno"
)

// LineID names one of the eight track lines.
type LineID string

const (
	RedWet    LineID = "Rojo_Humedo"
	RedDry    LineID = "Rojo_Seco"
	YellowWet LineID = "Amarillo_Humedo"
	YellowDry LineID = "Amarillo_Seco"
	GreenWet  LineID = "Verde_Humedo"
	GreenDry  LineID = "Verde_Seco"
	BlueWet   LineID = "Azul_Humedo"
	BlueDry   LineID = "Azul_Seco"
)

// PieceState is where a piece currently lives.
type PieceState string

const (
	InHouse PieceState = "in_house"
	OnTrack PieceState = "on_track"
	InCross PieceState = "in_cross"
)

// MoveKind tags the Move variant.
type MoveKind string

const (
	FromHouse MoveKind = "from_house"
	Normal    MoveKind = "normal"
	ToCross   MoveKind = "to_cross"
)

// Phase is the turn state machine position.
type Phase string

const (
	AwaitingRoll Phase = "awaiting_roll"
	MovesOffered Phase = "moves_offered"
	GameOver     Phase = "game_over"
)

const (
	NumPlayers      = 4
	PiecesPerPlayer = 6
	CrossSlots      = 6
	BoardSize       = 15

	// MaxAutomatedTurns bounds a single PlayAutomatedTurns call.
	MaxAutomatedTurns   = 10000
	WebSocketBufferSize = 256
)

// Cell is a logical board coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Symbol is the printed planet of a cell. Color is empty for the uncolored
// planets of the cross arms.
type Symbol struct {
	Planet Planet `json:"planet"`
	Color  Color  `json:"color,omitempty"`
}

func (s Symbol) String() string {
	if s.Color == "" {
		return string(s.Planet)
	}
	return string(s.Planet) + "_" + string(s.Color)
}

// DiceOutcome is one of the twelve faces of the planetary dice.
type DiceOutcome struct {
	Planet  Planet  `json:"planet"`
	Element Element `json:"element"`
	Color   Color   `json:"color"`
}

// Symbol returns the board symbol a roll targets.
func (d DiceOutcome) Symbol() Symbol {
	return Symbol{Planet: d.Planet, Color: d.Color}
}

func (d DiceOutcome) String() string {
	return fmt.Sprintf("%s (%s)", d.Symbol(), d.Element)
}

// Piece is a single token. Cell and Line are meaningful only on the track;
// Slot only inside the cross.
type Piece struct {
	ID    string     `json:"id"`
	Owner int        `json:"owner"`
	State PieceState `json:"state"`
	Cell  Cell       `json:"cell"`
	Line  LineID     `json:"line,omitempty"`
	Slot  int        `json:"slot"`
}

// Player is a turn slot and its derived piece counters.
type Player struct {
	Index         int    `json:"index"`
	Name          string `json:"name"`
	Color         Color  `json:"color"`
	Active        bool   `json:"active"`
	Automated     bool   `json:"automated"`
	PiecesInHouse int    `json:"pieces_in_house"`
	PiecesOnTrack int    `json:"pieces_on_track"`
	PiecesInCross int    `json:"pieces_in_cross"`
}

// Move is a candidate action offered for the current roll.
type Move struct {
	Kind    MoveKind `json:"kind"`
	PieceID string   `json:"piece_id,omitempty"`
	Target  Cell     `json:"target"`
	Slot    int      `json:"slot,omitempty"`
	Planet  Planet   `json:"planet,omitempty"`
}

// Matches reports whether o denotes the same action as m, ignoring the
// fields that carry no meaning for the move kind.
func (m Move) Matches(o Move) bool {
	if m.Kind != o.Kind {
		return false
	}
	switch m.Kind {
	case FromHouse:
		return m.Target == o.Target
	case Normal:
		return m.PieceID == o.PieceID && m.Target == o.Target
	case ToCross:
		return m.PieceID == o.PieceID && m.Slot == o.Slot && m.Planet == o.Planet
	}
	return false
}

func (m Move) String() string {
	switch m.Kind {
	case FromHouse:
		return fmt.Sprintf("enter %s", m.Target)
	case ToCross:
		return fmt.Sprintf("%s to cross slot %d (%s)", m.PieceID, m.Slot, m.Planet)
	default:
		return fmt.Sprintf("%s to %s", m.PieceID, m.Target)
	}
}

// ExecResult reports the effects of an executed move.
type ExecResult struct {
	Player       int      `json:"player"`
	Move         Move     `json:"move"`
	PieceID      string   `json:"piece_id"`
	Captured     []string `json:"captured,omitempty"`
	Blocked      bool     `json:"capture_blocked,omitempty"`
	EnteredCross bool     `json:"entered_cross"`
	Winner       *int     `json:"winner,omitempty"`
}

// RollResult reports a dice roll and, for automated players, the move the
// policy executed on their behalf.
type RollResult struct {
	Player    int         `json:"player"`
	Outcome   DiceOutcome `json:"outcome"`
	Moves     []Move      `json:"moves"`
	Forfeited bool        `json:"forfeited"`
	Auto      *ExecResult `json:"auto,omitempty"`
}

// HistoryEntry records one action taken during the game.
type HistoryEntry struct {
	Turn      int          `json:"turn"`
	Player    int          `json:"player"`
	Action    string       `json:"action"`
	Outcome   *DiceOutcome `json:"outcome,omitempty"`
	Move      *Move        `json:"move,omitempty"`
	Captured  []string     `json:"captured,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

// State is the complete, serializable state of one game session.
type State struct {
	ConfigName         string         `json:"config_name"`
	Mode               int            `json:"mode"`
	BlockImmuneLanding bool           `json:"block_immune_landing"`
	Players            []Player       `json:"players"`
	Pieces             []Piece        `json:"pieces"`
	Rotation           []int          `json:"rotation"`
	Turn               int            `json:"turn"`
	TurnNumber         int            `json:"turn_number"`
	Phase              Phase          `json:"phase"`
	Dice               *DiceOutcome   `json:"dice,omitempty"`
	Offered            []Move         `json:"offered,omitempty"`
	Winner             *int           `json:"winner,omitempty"`
	Message            string         `json:"message"`
	History            []HistoryEntry `json:"history"`
}

// Current returns the index of the player whose turn it is, or -1 when no
// player is left in the rotation.
func (s *State) Current() int {
	if len(s.Rotation) == 0 {
		return -1
	}
	return s.Rotation[s.Turn%len(s.Rotation)]
}

// IsOver reports whether a winner has been declared.
func (s *State) IsOver() bool {
	return s.Phase == GameOver
}

// Piece returns a pointer to the piece with the given id.
func (s *State) Piece(id string) *Piece {
	for i := range s.Pieces {
		if s.Pieces[i].ID == id {
			return &s.Pieces[i]
		}
	}
	return nil
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s *State) Clone() *State {
	c := *s
	c.Players = append([]Player(nil), s.Players...)
	c.Pieces = append([]Piece(nil), s.Pieces...)
	c.Rotation = append([]int(nil), s.Rotation...)
	c.Offered = append([]Move(nil), s.Offered...)
	c.History = append([]HistoryEntry{}, s.History...)
	if s.Dice != nil {
		d := *s.Dice
		c.Dice = &d
	}
	if s.Winner != nil {
		w := *s.Winner
		c.Winner = &w
	}
	return &c
}
