package engine

import "github.com/samber/lo"

// ChooseMove picks a move for an automated player. Tiers are tried in order
// and the first non-empty one wins, with ties broken by r:
//
//  1. cross entries whose planet still maps to their slot
//  2. track moves that capture
//  3. entries from the house
//  4. anything else except stale cross entries
//
// It returns false when nothing is playable and the turn is forfeited.
func ChooseMove(s *State, player int, moves []Move, r Rand) (Move, bool) {
	tiers := [][]Move{
		lo.Filter(moves, func(m Move, _ int) bool {
			return ValidCrossMove(m, player)
		}),
		lo.Filter(moves, func(m Move, _ int) bool {
			return m.Kind != ToCross && WouldCapture(s, m.Target, player)
		}),
		lo.Filter(moves, func(m Move, _ int) bool {
			return m.Kind == FromHouse
		}),
		lo.Filter(moves, func(m Move, _ int) bool {
			return m.Kind != ToCross || ValidCrossMove(m, player)
		}),
	}
	for _, tier := range tiers {
		if len(tier) > 0 {
			return tier[r.Intn(len(tier))], true
		}
	}
	return Move{}, false
}
