package engine

import "github.com/samber/lo"

// CaptureResult describes what landing on a cell would do to the opposing
// pieces already there.
type CaptureResult struct {
	Victims []string `json:"victims,omitempty"`
	Immune  []string `json:"immune,omitempty"`
	Blocked bool     `json:"blocked"`
}

// ResolveCapture decides the outcome of lander arriving at c. It does not
// modify s; the engine applies the result.
//
// Cross cells never capture. If any opposing piece on c is immune the whole
// capture is called off; otherwise every opposing piece goes home.
func ResolveCapture(s *State, c Cell, lander int) CaptureResult {
	var res CaptureResult
	if _, ok := CrossInfoOf(c); ok {
		return res
	}

	opposing := lo.Filter(s.Pieces, func(p Piece, _ int) bool {
		return p.Owner != lander && p.State != InHouse && p.Cell == c
	})
	for _, p := range opposing {
		if IsImmune(s, p, c, lander) {
			res.Immune = append(res.Immune, p.ID)
		}
	}
	if len(res.Immune) > 0 {
		res.Blocked = true
		return res
	}

	res.Victims = lo.Map(opposing, func(p Piece, _ int) string { return p.ID })
	return res
}

// IsImmune reports whether victim, standing on c, is protected from lander.
// Safe spots only exist in four-player games and are suspended inside the
// lander's approach zone.
func IsImmune(s *State, victim Piece, c Cell, lander int) bool {
	if s.Mode != NumPlayers {
		return false
	}
	if lander >= 0 && lander < NumPlayers && InApproachZone(c, lander) {
		return false
	}
	sym, ok := SymbolAt(c)
	return ok && IsSafeFor(sym, victim.Owner)
}

// WouldCapture reports whether lander arriving at c removes at least one
// opposing piece.
func WouldCapture(s *State, c Cell, lander int) bool {
	res := ResolveCapture(s, c, lander)
	return !res.Blocked && len(res.Victims) > 0
}
