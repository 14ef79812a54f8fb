package engine

import "github.com/samber/lo"

// LegalMoves returns every move player may make with outcome. It only
// reads s, so calling it twice on the same state yields the same slice.
//
// A roll names one symbol on one of the two lines of its color; that cell
// is the only track destination. Pieces from the house may enter when the
// roll is the player's own color. Pieces on the track may go there when
// their line connects to the destination line for this player. Pieces in
// the player's ready lane may jump to the cross slot of the rolled planet
// if it is still free.
func LegalMoves(s *State, player int, outcome DiceOutcome) []Move {
	if player < 0 || player >= len(s.Players) || player >= NumPlayers {
		return nil
	}
	target, targetLine, ok := TargetCell(outcome)
	if !ok {
		return nil
	}

	var moves []Move
	if outcome.Color == PlayerColor(player) && CountPieces(s, player, InHouse) > 0 {
		moves = append(moves, Move{Kind: FromHouse, Target: target})
	}

	slot, hasSlot := SlotForPlanet(outcome.Planet)
	slotFree := hasSlot && !slotTaken(s, player, slot)

	for _, p := range s.Pieces {
		if p.Owner != player || p.State != OnTrack {
			continue
		}
		if p.Cell != target && CanTransition(p.Line, targetLine, player) {
			moves = append(moves, Move{Kind: Normal, PieceID: p.ID, Target: target})
		}
		if slotFree && IsReadyForCross(p.Cell, p.Line, player) {
			moves = append(moves, Move{
				Kind:    ToCross,
				PieceID: p.ID,
				Target:  SlotPosition(player, slot),
				Slot:    slot,
				Planet:  outcome.Planet,
			})
		}
	}

	if s.BlockImmuneLanding {
		moves = lo.Filter(moves, func(m Move, _ int) bool {
			return m.Kind == ToCross || !ResolveCapture(s, m.Target, player).Blocked
		})
	}
	return moves
}

// ValidCrossMove reports whether a ToCross candidate still agrees with the
// slot its planet maps to.
func ValidCrossMove(m Move, player int) bool {
	if m.Kind != ToCross {
		return false
	}
	slot, ok := SlotForPlanet(m.Planet)
	return ok && slot == m.Slot && SlotPosition(player, slot) == m.Target
}

// CountPieces counts player's pieces in the given state.
func CountPieces(s *State, player int, state PieceState) int {
	return lo.CountBy(s.Pieces, func(p Piece) bool {
		return p.Owner == player && p.State == state
	})
}

func slotTaken(s *State, player, slot int) bool {
	return lo.ContainsBy(s.Pieces, func(p Piece) bool {
		return p.Owner == player && p.State == InCross && p.Slot == slot
	})
}
