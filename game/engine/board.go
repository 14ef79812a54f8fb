package engine

import "fmt"

// Line is a straight track segment of six cells.
type Line struct {
	ID       LineID   `json:"id"`
	Color    Color    `json:"color"`
	Humidity Humidity `json:"humidity"`
	Vertical bool     `json:"vertical"`
	Fixed    int      `json:"fixed"` // column when vertical, row otherwise
	From     int      `json:"from"`
	To       int      `json:"to"`
}

// Contains reports whether c lies on the line.
func (l Line) Contains(c Cell) bool {
	if l.Vertical {
		return c.Col == l.Fixed && c.Row >= l.From && c.Row <= l.To
	}
	return c.Row == l.Fixed && c.Col >= l.From && c.Col <= l.To
}

// Cells returns the line's cells in ascending order.
func (l Line) Cells() []Cell {
	cells := make([]Cell, 0, l.To-l.From+1)
	for i := l.From; i <= l.To; i++ {
		if l.Vertical {
			cells = append(cells, Cell{Row: i, Col: l.Fixed})
		} else {
			cells = append(cells, Cell{Row: l.Fixed, Col: i})
		}
	}
	return cells
}

// lines is stored in ring order: each line is adjacent to its neighbours
// in the slice, and the last wraps to the first.
var lines = []Line{
	{ID: RedWet, Color: Red, Humidity: Wet, Vertical: true, Fixed: 6, From: 0, To: 5},
	{ID: RedDry, Color: Red, Humidity: Dry, Vertical: false, Fixed: 6, From: 0, To: 5},
	{ID: YellowWet, Color: Yellow, Humidity: Wet, Vertical: false, Fixed: 8, From: 0, To: 5},
	{ID: YellowDry, Color: Yellow, Humidity: Dry, Vertical: true, Fixed: 6, From: 9, To: 14},
	{ID: GreenWet, Color: Green, Humidity: Wet, Vertical: true, Fixed: 8, From: 9, To: 14},
	{ID: GreenDry, Color: Green, Humidity: Dry, Vertical: false, Fixed: 8, From: 9, To: 14},
	{ID: BlueWet, Color: Blue, Humidity: Wet, Vertical: false, Fixed: 6, From: 9, To: 14},
	{ID: BlueDry, Color: Blue, Humidity: Dry, Vertical: true, Fixed: 8, From: 0, To: 5},
}

var playerColors = [NumPlayers]Color{Green, Blue, Red, Yellow}

var playerNames = [NumPlayers]string{"Jugador 1", "Jugador 2", "Jugador 3", "Jugador 4"}

// forbiddenEntry bars each player from looping back into the line that
// precedes its own start.
var forbiddenEntry = [NumPlayers]struct{ from, to LineID }{
	{YellowDry, GreenWet},
	{GreenDry, BlueWet},
	{BlueDry, RedWet},
	{RedDry, YellowWet},
}

// crossZone puts slot i on the fixed row or column at base+step*i.
type crossZone struct {
	vertical bool
	fixed    int
	base     int
	step     int
}

var crossZones = [NumPlayers]crossZone{
	{vertical: true, fixed: 7, base: 13, step: -1},
	{vertical: false, fixed: 7, base: 8, step: 1},
	{vertical: true, fixed: 7, base: 1, step: 1},
	{vertical: false, fixed: 7, base: 6, step: -1},
}

// CrossOrder is the planet sequence of cross slots 0..5.
var CrossOrder = [CrossSlots]Planet{Jupiter, Mars, Venus, Mercury, Moon, Sun}

// readyLane is the stretch of track from which a player may jump into its
// cross. It sits alongside the cross on the line preceding the player's
// own arm.
type readyLane struct {
	line     LineID
	from, to int
}

var readyLanes = [NumPlayers]readyLane{
	{line: YellowDry, from: 9, to: 13},
	{line: GreenDry, from: 9, to: 13},
	{line: BlueDry, from: 1, to: 5},
	{line: RedDry, from: 1, to: 5},
}

// approachZone is the two-rank strip right before a player's cross where
// safe spots stop protecting anyone.
type approachZone struct {
	vertical bool
	ranks    [2]int
}

var approachZones = [NumPlayers]approachZone{
	{vertical: true, ranks: [2]int{11, 12}},
	{vertical: false, ranks: [2]int{11, 12}},
	{vertical: true, ranks: [2]int{2, 3}},
	{vertical: false, ranks: [2]int{2, 3}},
}

var safeSpots = [NumPlayers][3]Symbol{
	{{Sun, Green}, {Mercury, Green}, {Mars, Blue}},
	{{Moon, Blue}, {Venus, Green}, {Jupiter, Blue}},
	{{Sun, Red}, {Mercury, Yellow}, {Mars, Red}},
	{{Moon, Yellow}, {Venus, Yellow}, {Jupiter, Red}},
}

var saturnCells = []Cell{
	{6, 6}, {6, 8}, {8, 6}, {8, 8},
	{0, 7}, {7, 0}, {7, 14}, {14, 7},
}

// Center is the middle cell where the four crosses meet.
var Center = Cell{Row: 7, Col: 7}

// armSymbols lists columns 6, 7 and 8 of the vertical arms by row.
var armSymbols = map[int][3]Symbol{
	0:  {{Sun, Red}, {Saturn, ""}, {Jupiter, Red}},
	1:  {{Moon, Blue}, {Jupiter, ""}, {Mars, Blue}},
	2:  {{Mercury, Yellow}, {Mars, ""}, {Venus, Yellow}},
	3:  {{Venus, Green}, {Venus, ""}, {Mercury, Green}},
	4:  {{Mars, Red}, {Mercury, ""}, {Moon, Yellow}},
	5:  {{Jupiter, Blue}, {Moon, ""}, {Sun, Green}},
	9:  {{Sun, Green}, {Moon, ""}, {Jupiter, Blue}},
	10: {{Moon, Yellow}, {Mercury, ""}, {Mars, Red}},
	11: {{Mercury, Green}, {Venus, ""}, {Venus, Green}},
	12: {{Venus, Yellow}, {Mars, ""}, {Mercury, Yellow}},
	13: {{Mars, Blue}, {Jupiter, ""}, {Moon, Blue}},
	14: {{Jupiter, Red}, {Saturn, ""}, {Sun, Red}},
}

// bandSymbols lists rows 6, 7 and 8 of the horizontal arms by column.
// Column 7 of row 7 is the center and carries no symbol.
var bandSymbols = [3][BoardSize]Symbol{
	{
		{Jupiter, Red}, {Mars, Blue}, {Venus, Yellow}, {Mercury, Green}, {Moon, Yellow},
		{Sun, Green}, {Saturn, ""}, {Sun, ""}, {Saturn, ""}, {Jupiter, Blue},
		{Mars, Red}, {Venus, Green}, {Mercury, Yellow}, {Moon, Blue}, {Sun, Red},
	},
	{
		{Saturn, ""}, {Jupiter, ""}, {Mars, ""}, {Venus, ""}, {Mercury, ""},
		{Moon, ""}, {Sun, ""}, {}, {Sun, ""}, {Moon, ""},
		{Mercury, ""}, {Venus, ""}, {Mars, ""}, {Jupiter, ""}, {Saturn, ""},
	},
	{
		{Sun, Red}, {Moon, Blue}, {Mercury, Yellow}, {Venus, Green}, {Mars, Red},
		{Jupiter, Blue}, {Saturn, ""}, {Sun, ""}, {Saturn, ""}, {Sun, Green},
		{Moon, Yellow}, {Mercury, Green}, {Venus, Yellow}, {Mars, Blue}, {Jupiter, Red},
	},
}

// Lookup indexes built once from the tables above.
var (
	lineIndex    = map[LineID]int{}
	cellLine     = map[Cell]LineID{}
	cellSymbol   = map[Cell]Symbol{}
	cellCross    = map[Cell]CrossInfo{}
	symbolTarget = map[Symbol]Cell{}
)

func init() {
	if err := buildIndexes(); err != nil {
		panic(err)
	}
}

// buildIndexes derives the lookup maps and checks the tables are
// exhaustive: every dice face must resolve to exactly one cell on a line of
// its own color.
func buildIndexes() error {
	for row, syms := range armSymbols {
		for i, sym := range syms {
			cellSymbol[Cell{Row: row, Col: 6 + i}] = sym
		}
	}
	for i, band := range bandSymbols {
		for col, sym := range band {
			if sym.Planet != "" {
				cellSymbol[Cell{Row: 6 + i, Col: col}] = sym
			}
		}
	}

	for i, l := range lines {
		lineIndex[l.ID] = i
		for _, c := range l.Cells() {
			if other, ok := cellLine[c]; ok {
				return fmt.Errorf("board: cell %s on both %s and %s", c, other, l.ID)
			}
			cellLine[c] = l.ID
			sym := cellSymbol[c]
			if sym.Color != l.Color {
				continue
			}
			if prev, dup := symbolTarget[sym]; dup {
				return fmt.Errorf("board: symbol %s on %s and %s", sym, prev, c)
			}
			symbolTarget[sym] = c
		}
	}

	for p := 0; p < NumPlayers; p++ {
		for slot := 0; slot < CrossSlots; slot++ {
			cellCross[SlotPosition(p, slot)] = CrossInfo{Player: p, Slot: slot}
		}
	}

	for _, d := range Dice {
		if _, ok := symbolTarget[d.Symbol()]; !ok {
			return fmt.Errorf("board: dice face %s has no target cell", d.Symbol())
		}
	}
	return nil
}

// CrossInfo identifies a cross slot.
type CrossInfo struct {
	Player int `json:"player"`
	Slot   int `json:"slot"`
}

// Lines returns the eight track lines in ring order.
func Lines() []Line {
	return append([]Line(nil), lines...)
}

// LineByID returns the line definition for id.
func LineByID(id LineID) (Line, bool) {
	i, ok := lineIndex[id]
	if !ok {
		return Line{}, false
	}
	return lines[i], true
}

// LineOf returns the line owning c.
func LineOf(c Cell) (LineID, bool) {
	id, ok := cellLine[c]
	return id, ok
}

// CrossInfoOf returns the cross slot at c.
func CrossInfoOf(c Cell) (CrossInfo, bool) {
	info, ok := cellCross[c]
	return info, ok
}

// SymbolAt returns the planet printed on c.
func SymbolAt(c Cell) (Symbol, bool) {
	sym, ok := cellSymbol[c]
	return sym, ok
}

// IsSaturn reports whether c is one of the decorative Saturn cells.
func IsSaturn(c Cell) bool {
	for _, s := range saturnCells {
		if s == c {
			return true
		}
	}
	return false
}

// SaturnCells returns the decorative Saturn cells.
func SaturnCells() []Cell {
	return append([]Cell(nil), saturnCells...)
}

// IsSafeFor reports whether sym is one of player's safe spots. Callers
// decide whether safe spots are in effect for the game mode.
func IsSafeFor(sym Symbol, player int) bool {
	if player < 0 || player >= NumPlayers {
		return false
	}
	for _, s := range safeSpots[player] {
		if s == sym {
			return true
		}
	}
	return false
}

// SafeSpots returns the three safe symbols of player.
func SafeSpots(player int) []Symbol {
	return append([]Symbol(nil), safeSpots[player][:]...)
}

// InApproachZone reports whether c is within the two ranks right before
// player's cross.
func InApproachZone(c Cell, player int) bool {
	z := approachZones[player]
	along, across := c.Row, c.Col
	if !z.vertical {
		along, across = c.Col, c.Row
	}
	if across != 6 && across != 8 {
		return false
	}
	return along == z.ranks[0] || along == z.ranks[1]
}

// Adjacent reports whether a and b are neighbours on the line ring.
func Adjacent(a, b LineID) bool {
	ia, okA := lineIndex[a]
	ib, okB := lineIndex[b]
	if !okA || !okB {
		return false
	}
	n := len(lines)
	return (ia+1)%n == ib || (ib+1)%n == ia
}

// Connected reports whether a piece on a could, ignoring player
// restrictions, reach b: the same line or a ring neighbour.
func Connected(a, b LineID) bool {
	if a == b {
		_, ok := lineIndex[a]
		return ok
	}
	return Adjacent(a, b)
}

// IsForbidden reports whether moving from one line to another is barred for
// player. Same color and humidity means reversing along one's own arm.
func IsForbidden(from, to LineID, player int) bool {
	lf, okF := LineByID(from)
	lt, okT := LineByID(to)
	if !okF || !okT {
		return true
	}
	if lf.Color == lt.Color && lf.Humidity == lt.Humidity {
		return true
	}
	if player < 0 || player >= NumPlayers {
		return false
	}
	f := forbiddenEntry[player]
	return f.from == from && f.to == to
}

// CanTransition combines the slide, adjacency and direction rules.
func CanTransition(from, to LineID, player int) bool {
	if from == to {
		return true
	}
	return Adjacent(from, to) && !IsForbidden(from, to, player)
}

// PlayerColor returns the arm color of player.
func PlayerColor(player int) Color {
	return playerColors[player]
}

// PlayerName returns the default display name of player.
func PlayerName(player int) string {
	return playerNames[player]
}

// StartLines returns the two lines of player's own color, wet first.
func StartLines(player int) [2]LineID {
	var out [2]LineID
	i := 0
	for _, l := range lines {
		if l.Color == playerColors[player] {
			out[i] = l.ID
			i++
		}
	}
	if lines[lineIndex[out[0]]].Humidity != Wet {
		out[0], out[1] = out[1], out[0]
	}
	return out
}

// SlotPosition returns the cell of a player's cross slot.
func SlotPosition(player, slot int) Cell {
	z := crossZones[player]
	v := z.base + z.step*slot
	if z.vertical {
		return Cell{Row: v, Col: z.fixed}
	}
	return Cell{Row: z.fixed, Col: v}
}

// SlotForPlanet returns the cross slot a planet maps to.
func SlotForPlanet(p Planet) (int, bool) {
	for i, cp := range CrossOrder {
		if cp == p {
			return i, true
		}
	}
	return 0, false
}

// TargetCell returns the unique cell a dice face sends pieces to: the cell
// bearing its symbol on one of the two lines of its color.
func TargetCell(d DiceOutcome) (Cell, LineID, bool) {
	c, ok := symbolTarget[d.Symbol()]
	if !ok {
		return Cell{}, "", false
	}
	return c, cellLine[c], true
}

// IsReadyForCross reports whether a piece of player standing at c on line
// may jump into its cross.
func IsReadyForCross(c Cell, line LineID, player int) bool {
	if player < 0 || player >= NumPlayers {
		return false
	}
	lane := readyLanes[player]
	if line != lane.line {
		return false
	}
	l, ok := LineByID(line)
	if !ok || !l.Contains(c) {
		return false
	}
	along := c.Col
	if l.Vertical {
		along = c.Row
	}
	return along >= lane.from && along <= lane.to
}

// BoardLayout is a static description of the board for renderers.
type BoardLayout struct {
	Size        int                `json:"size"`
	Lines       []Line             `json:"lines"`
	Symbols     []CellSymbol       `json:"symbols"`
	Crosses     [][CrossSlots]Cell `json:"crosses"`
	SaturnCells []Cell             `json:"saturn_cells"`
	SafeSpots   [][]Symbol         `json:"safe_spots"`
	Colors      [NumPlayers]Color  `json:"colors"`
	Center      Cell               `json:"center"`
}

// CellSymbol pairs a cell with its printed symbol.
type CellSymbol struct {
	Cell   Cell   `json:"cell"`
	Symbol Symbol `json:"symbol"`
}

// Layout returns the board description.
func Layout() BoardLayout {
	b := BoardLayout{
		Size:        BoardSize,
		Lines:       Lines(),
		SaturnCells: SaturnCells(),
		Colors:      playerColors,
		Center:      Center,
	}
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			cell := Cell{Row: r, Col: c}
			if sym, ok := cellSymbol[cell]; ok {
				b.Symbols = append(b.Symbols, CellSymbol{Cell: cell, Symbol: sym})
			}
		}
	}
	for p := 0; p < NumPlayers; p++ {
		var slots [CrossSlots]Cell
		for s := range slots {
			slots[s] = SlotPosition(p, s)
		}
		b.Crosses = append(b.Crosses, slots)
		b.SafeSpots = append(b.SafeSpots, SafeSpots(p))
	}
	return b
}
