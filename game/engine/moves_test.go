package engine

import (
	"fmt"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestState returns an opening position for the given seats, all human.
func newTestState(t *testing.T, seats ...int) *State {
	t.Helper()
	cfg := &GameConfig{
		Name:          "test",
		Description:   "test",
		ActivePlayers: seats,
		HumanPlayers:  seats,
	}
	require.NoError(t, ValidateGameConfig(cfg))
	return NewState(cfg)
}

// place puts a piece on the track at c.
func place(t *testing.T, s *State, id string, c Cell) {
	t.Helper()
	line, ok := LineOf(c)
	require.True(t, ok, "cell %s is not on a line", c)
	p := s.Piece(id)
	require.NotNil(t, p, id)
	p.State, p.Cell, p.Line = OnTrack, c, line
	syncCounts(s)
}

// putInCross puts a piece in its owner's cross slot.
func putInCross(t *testing.T, s *State, id string, slot int) {
	t.Helper()
	p := s.Piece(id)
	require.NotNil(t, p, id)
	p.State, p.Cell, p.Line, p.Slot = InCross, SlotPosition(p.Owner, slot), "", slot
	syncCounts(s)
}

func outcome(t *testing.T, p Planet, c Color) DiceOutcome {
	t.Helper()
	d, ok := FindOutcome(p, c)
	require.True(t, ok, "%s_%s", p, c)
	return d
}

func movesOfKind(moves []Move, kind MoveKind) []Move {
	return lo.Filter(moves, func(m Move, _ int) bool { return m.Kind == kind })
}

func TestLegalMoves_FromHouse(t *testing.T) {
	s := newTestState(t, 0, 1, 2, 3)

	t.Run("own color enters at the rolled symbol", func(t *testing.T) {
		moves := LegalMoves(s, 0, outcome(t, Sun, Green))
		require.Len(t, moves, 1)
		assert.Equal(t, Move{Kind: FromHouse, Target: Cell{8, 9}}, moves[0])

		moves = LegalMoves(s, 0, outcome(t, Venus, Green))
		require.Len(t, moves, 1)
		assert.Equal(t, Cell{11, 8}, moves[0].Target)
	})

	t.Run("other colors cannot leave the house", func(t *testing.T) {
		for _, d := range Dice {
			if d.Color == Green {
				continue
			}
			assert.Empty(t, LegalMoves(s, 0, d), d.String())
		}
	})

	t.Run("no pieces left in house", func(t *testing.T) {
		s := newTestState(t, 0, 2)
		for i := 1; i <= PiecesPerPlayer; i++ {
			place(t, s, fmt.Sprintf("p0-%d", i), Cell{8, 13})
		}
		moves := LegalMoves(s, 0, outcome(t, Sun, Green))
		assert.Empty(t, movesOfKind(moves, FromHouse))
	})
}

func TestLegalMoves_Normal(t *testing.T) {
	t.Run("same line slide", func(t *testing.T) {
		s := newTestState(t, 0, 2)
		place(t, s, "p0-1", Cell{8, 13})
		moves := LegalMoves(s, 0, outcome(t, Mercury, Green))
		normal := movesOfKind(moves, Normal)
		require.Len(t, normal, 1)
		assert.Equal(t, Move{Kind: Normal, PieceID: "p0-1", Target: Cell{8, 11}}, normal[0])
	})

	t.Run("adjacent line allowed", func(t *testing.T) {
		s := newTestState(t, 0, 2)
		place(t, s, "p0-1", Cell{8, 10})
		moves := LegalMoves(s, 0, outcome(t, Moon, Blue))
		require.Len(t, moves, 1)
		assert.Equal(t, Move{Kind: Normal, PieceID: "p0-1", Target: Cell{6, 13}}, moves[0])
	})

	t.Run("adjacent line barred for its owner", func(t *testing.T) {
		s := newTestState(t, 0, 1, 2, 3)
		place(t, s, "p1-1", Cell{8, 10})
		moves := LegalMoves(s, 1, outcome(t, Moon, Blue))
		assert.Empty(t, movesOfKind(moves, Normal))
		assert.Len(t, movesOfKind(moves, FromHouse), 1)
	})

	t.Run("non adjacent line", func(t *testing.T) {
		s := newTestState(t, 0, 2)
		place(t, s, "p0-1", Cell{8, 10})
		assert.Empty(t, LegalMoves(s, 0, outcome(t, Sun, Red)))
	})

	t.Run("already on the target", func(t *testing.T) {
		s := newTestState(t, 0, 2)
		place(t, s, "p0-1", Cell{8, 9})
		moves := LegalMoves(s, 0, outcome(t, Sun, Green))
		assert.Empty(t, movesOfKind(moves, Normal))
	})

	t.Run("pieces in the cross never move", func(t *testing.T) {
		s := newTestState(t, 0, 2)
		putInCross(t, s, "p0-1", 0)
		for _, d := range Dice {
			for _, m := range LegalMoves(s, 0, d) {
				assert.NotEqual(t, "p0-1", m.PieceID)
			}
		}
	})
}

func TestLegalMoves_CrossEntry(t *testing.T) {
	t.Run("ready lane with the sun offers the last slot", func(t *testing.T) {
		s := newTestState(t, 0, 2)
		place(t, s, "p0-1", Cell{9, 6})

		moves := LegalMoves(s, 0, outcome(t, Sun, Green))
		cross := movesOfKind(moves, ToCross)
		require.Len(t, cross, 1)
		assert.Equal(t, 5, cross[0].Slot)
		assert.Equal(t, Sun, cross[0].Planet)
		assert.Equal(t, Cell{8, 7}, cross[0].Target)
		assert.Equal(t, "p0-1", cross[0].PieceID)

		assert.Len(t, movesOfKind(moves, FromHouse), 1)
		assert.Empty(t, movesOfKind(moves, Normal))
	})

	t.Run("any color maps its planet to a slot", func(t *testing.T) {
		s := newTestState(t, 0, 2)
		place(t, s, "p0-1", Cell{12, 6})
		cross := movesOfKind(LegalMoves(s, 0, outcome(t, Mars, Blue)), ToCross)
		require.Len(t, cross, 1)
		assert.Equal(t, 1, cross[0].Slot)
		assert.Equal(t, Cell{12, 7}, cross[0].Target)
	})

	t.Run("both ends of the lane are ready", func(t *testing.T) {
		for _, c := range []Cell{{9, 6}, {13, 6}} {
			assert.True(t, IsReadyForCross(c, YellowDry, 0), c)
		}
		assert.False(t, IsReadyForCross(Cell{14, 6}, YellowDry, 0))
		assert.False(t, IsReadyForCross(Cell{9, 6}, YellowDry, 2))
	})

	t.Run("inside the stripe but outside the lane", func(t *testing.T) {
		s := newTestState(t, 0, 2)
		place(t, s, "p0-1", Cell{14, 6})
		place(t, s, "p0-2", Cell{11, 8})
		for _, d := range Dice {
			assert.Empty(t, movesOfKind(LegalMoves(s, 0, d), ToCross), d.String())
		}
	})

	t.Run("another player's lane", func(t *testing.T) {
		s := newTestState(t, 0, 1, 2, 3)
		place(t, s, "p1-1", Cell{9, 6})
		for _, d := range Dice {
			assert.Empty(t, movesOfKind(LegalMoves(s, 1, d), ToCross), d.String())
		}
	})

	t.Run("occupied slot", func(t *testing.T) {
		s := newTestState(t, 0, 2)
		place(t, s, "p0-1", Cell{9, 6})
		putInCross(t, s, "p0-2", 5)
		assert.Empty(t, movesOfKind(LegalMoves(s, 0, outcome(t, Sun, Green)), ToCross))
		assert.Len(t, movesOfKind(LegalMoves(s, 0, outcome(t, Moon, Blue)), ToCross), 1)
	})
}

func TestLegalMoves_Idempotent(t *testing.T) {
	s := newTestState(t, 0, 1, 2, 3)
	place(t, s, "p0-1", Cell{9, 6})
	place(t, s, "p0-2", Cell{8, 13})
	place(t, s, "p1-1", Cell{8, 11})
	pieces := append([]Piece(nil), s.Pieces...)
	players := append([]Player(nil), s.Players...)

	for _, d := range Dice {
		first := LegalMoves(s, 0, d)
		second := LegalMoves(s, 0, d)
		assert.Equal(t, first, second, d.String())
	}
	assert.Equal(t, pieces, s.Pieces)
	assert.Equal(t, players, s.Players)
}

func TestLegalMoves_BlockImmuneLanding(t *testing.T) {
	s := newTestState(t, 0, 1, 2, 3)
	place(t, s, "p0-1", Cell{8, 13})
	place(t, s, "p1-1", Cell{6, 13})

	d := outcome(t, Moon, Blue)
	require.Len(t, movesOfKind(LegalMoves(s, 0, d), Normal), 1, "landing allowed by default")

	s.BlockImmuneLanding = true
	assert.Empty(t, movesOfKind(LegalMoves(s, 0, d), Normal))
}

func TestLegalMoves_UnknownPlayer(t *testing.T) {
	s := newTestState(t, 0, 2)
	assert.Nil(t, LegalMoves(s, 9, Dice[0]))
	assert.Nil(t, LegalMoves(s, -1, Dice[0]))
}
