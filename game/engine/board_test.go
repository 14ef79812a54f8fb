package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineOf(t *testing.T) {
	tests := []struct {
		cell Cell
		want LineID
	}{
		{Cell{0, 6}, RedWet},
		{Cell{5, 6}, RedWet},
		{Cell{6, 0}, RedDry},
		{Cell{8, 2}, YellowWet},
		{Cell{14, 6}, YellowDry},
		{Cell{9, 8}, GreenWet},
		{Cell{8, 14}, GreenDry},
		{Cell{6, 9}, BlueWet},
		{Cell{5, 8}, BlueDry},
	}
	for _, tt := range tests {
		t.Run(tt.cell.String(), func(t *testing.T) {
			got, ok := LineOf(tt.cell)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("off track", func(t *testing.T) {
		for _, c := range []Cell{Center, {6, 6}, {7, 3}, {0, 0}, {14, 14}} {
			_, ok := LineOf(c)
			assert.False(t, ok, "cell %s", c)
		}
	})
}

func TestLinesHaveSixCells(t *testing.T) {
	seen := map[Cell]bool{}
	for _, l := range Lines() {
		cells := l.Cells()
		assert.Len(t, cells, 6, l.ID)
		for _, c := range cells {
			assert.False(t, seen[c], "cell %s shared", c)
			seen[c] = true
		}
	}
	assert.Len(t, seen, 48)
}

func TestAdjacencyRing(t *testing.T) {
	for _, a := range Lines() {
		neighbours := 0
		for _, b := range Lines() {
			if Adjacent(a.ID, b.ID) {
				neighbours++
				assert.True(t, Adjacent(b.ID, a.ID), "%s-%s not symmetric", a.ID, b.ID)
			}
		}
		assert.Equal(t, 2, neighbours, a.ID)
	}

	ring := []LineID{RedWet, RedDry, YellowWet, YellowDry, GreenWet, GreenDry, BlueWet, BlueDry}
	for i, id := range ring {
		assert.True(t, Adjacent(id, ring[(i+1)%len(ring)]))
	}
	assert.False(t, Adjacent(RedWet, YellowWet))
	assert.False(t, Adjacent(RedWet, RedWet))
}

func TestConnected(t *testing.T) {
	t.Run("reflexive", func(t *testing.T) {
		for _, l := range Lines() {
			assert.True(t, Connected(l.ID, l.ID), l.ID)
		}
	})

	t.Run("same color different humidity", func(t *testing.T) {
		assert.True(t, Connected(RedWet, RedDry))
		for p := 0; p < NumPlayers; p++ {
			assert.False(t, IsForbidden(RedWet, RedDry, p), "player %d", p)
			assert.False(t, IsForbidden(RedDry, RedWet, p), "player %d", p)
		}
	})

	t.Run("not neighbours", func(t *testing.T) {
		assert.False(t, Connected(RedWet, GreenWet))
		assert.False(t, Connected("nowhere", "nowhere"))
	})
}

func TestIsForbidden(t *testing.T) {
	t.Run("yellow dry into green wet only for player 0", func(t *testing.T) {
		assert.True(t, IsForbidden(YellowDry, GreenWet, 0))
		for p := 1; p < NumPlayers; p++ {
			assert.False(t, IsForbidden(YellowDry, GreenWet, p), "player %d", p)
		}
	})

	t.Run("each player has exactly one barred entry", func(t *testing.T) {
		for p := 0; p < NumPlayers; p++ {
			count := 0
			for _, a := range Lines() {
				for _, b := range Lines() {
					if a.ID != b.ID && Adjacent(a.ID, b.ID) && IsForbidden(a.ID, b.ID, p) {
						count++
						assert.Equal(t, Dry, a.Humidity)
						assert.Equal(t, Wet, b.Humidity)
						assert.Equal(t, PlayerColor(p), b.Color)
					}
				}
			}
			assert.Equal(t, 1, count, "player %d", p)
		}
	})

	t.Run("reverse of a barred entry is allowed", func(t *testing.T) {
		assert.False(t, IsForbidden(GreenWet, YellowDry, 0))
	})

	t.Run("same color and humidity", func(t *testing.T) {
		assert.True(t, IsForbidden(BlueDry, BlueDry, 1))
	})
}

func TestCrossZones(t *testing.T) {
	tests := []struct {
		player, slot int
		want         Cell
	}{
		{0, 0, Cell{13, 7}},
		{0, 5, Cell{8, 7}},
		{1, 0, Cell{7, 8}},
		{1, 5, Cell{7, 13}},
		{2, 0, Cell{1, 7}},
		{2, 5, Cell{6, 7}},
		{3, 0, Cell{7, 6}},
		{3, 5, Cell{7, 1}},
	}
	for _, tt := range tests {
		got := SlotPosition(tt.player, tt.slot)
		assert.Equal(t, tt.want, got, "player %d slot %d", tt.player, tt.slot)
		info, ok := CrossInfoOf(got)
		require.True(t, ok)
		assert.Equal(t, CrossInfo{Player: tt.player, Slot: tt.slot}, info)
	}

	_, ok := CrossInfoOf(Center)
	assert.False(t, ok)
	_, ok = CrossInfoOf(Cell{9, 6})
	assert.False(t, ok)

	slot, ok := SlotForPlanet(Sun)
	require.True(t, ok)
	assert.Equal(t, 5, slot)
	_, ok = SlotForPlanet(Saturn)
	assert.False(t, ok)
}

func TestDiceTargets(t *testing.T) {
	assert.Len(t, Dice, 12)
	seen := map[Cell]bool{}
	for _, d := range Dice {
		cell, line, ok := TargetCell(d)
		require.True(t, ok, d.String())
		l, _ := LineByID(line)
		assert.Equal(t, d.Color, l.Color, d.String())
		assert.Equal(t, ElementColor[d.Element], d.Color, d.String())
		sym, _ := SymbolAt(cell)
		assert.Equal(t, d.Symbol(), sym)
		assert.False(t, seen[cell])
		seen[cell] = true
	}

	cell, line, _ := TargetCell(DiceOutcome{Planet: Sun, Element: Earth, Color: Green})
	assert.Equal(t, Cell{8, 9}, cell)
	assert.Equal(t, GreenDry, line)
}

func TestIsSaturn(t *testing.T) {
	assert.True(t, IsSaturn(Cell{6, 6}))
	assert.True(t, IsSaturn(Cell{14, 7}))
	assert.False(t, IsSaturn(Center))
	assert.False(t, IsSaturn(Cell{0, 6}))
}

func TestIsSafeFor(t *testing.T) {
	assert.True(t, IsSafeFor(Symbol{Sun, Green}, 0))
	assert.False(t, IsSafeFor(Symbol{Sun, Green}, 1))
	assert.True(t, IsSafeFor(Symbol{Venus, Green}, 1))
	assert.True(t, IsSafeFor(Symbol{Jupiter, Red}, 3))
	assert.False(t, IsSafeFor(Symbol{Sun, ""}, 0))
	assert.False(t, IsSafeFor(Symbol{Sun, Green}, 7))
}

func TestInApproachZone(t *testing.T) {
	assert.True(t, InApproachZone(Cell{11, 8}, 0))
	assert.True(t, InApproachZone(Cell{12, 6}, 0))
	assert.False(t, InApproachZone(Cell{13, 6}, 0))
	assert.False(t, InApproachZone(Cell{11, 7}, 0))
	assert.True(t, InApproachZone(Cell{6, 11}, 1))
	assert.True(t, InApproachZone(Cell{3, 8}, 2))
	assert.True(t, InApproachZone(Cell{8, 2}, 3))
	assert.False(t, InApproachZone(Cell{8, 2}, 1))
}

func TestStartLines(t *testing.T) {
	assert.Equal(t, [2]LineID{GreenWet, GreenDry}, StartLines(0))
	assert.Equal(t, [2]LineID{BlueWet, BlueDry}, StartLines(1))
	assert.Equal(t, [2]LineID{RedWet, RedDry}, StartLines(2))
	assert.Equal(t, [2]LineID{YellowWet, YellowDry}, StartLines(3))
}

func TestIsReadyForCross(t *testing.T) {
	assert.True(t, IsReadyForCross(Cell{9, 6}, YellowDry, 0))
	assert.True(t, IsReadyForCross(Cell{13, 6}, YellowDry, 0))
	assert.False(t, IsReadyForCross(Cell{14, 6}, YellowDry, 0))
	assert.False(t, IsReadyForCross(Cell{11, 8}, GreenWet, 0), "own start line")
	assert.False(t, IsReadyForCross(Cell{9, 6}, YellowDry, 1))
	assert.True(t, IsReadyForCross(Cell{8, 9}, GreenDry, 1))
	assert.True(t, IsReadyForCross(Cell{1, 8}, BlueDry, 2))
	assert.False(t, IsReadyForCross(Cell{0, 8}, BlueDry, 2))
	assert.True(t, IsReadyForCross(Cell{6, 5}, RedDry, 3))
	assert.False(t, IsReadyForCross(Cell{6, 0}, RedDry, 3))
}

func TestLayout(t *testing.T) {
	b := Layout()
	assert.Equal(t, BoardSize, b.Size)
	assert.Len(t, b.Lines, 8)
	assert.Len(t, b.Crosses, NumPlayers)
	assert.Len(t, b.SaturnCells, 8)
	assert.NotEmpty(t, b.Symbols)
}
