// Package engine provides the rules engine for Planchis, a four-player
// cross-board race game played on an 8-armed track with planetary symbols.
//
// The engine package implements:
//   - The static board topology (lines, adjacency ring, crosses, safe spots)
//   - Move legality for a dice outcome
//   - Capture resolution with safe-spot immunity
//   - The per-turn state machine and win check
//   - The heuristic policy used for automated players
//
// Core Types:
//
// State is the complete, JSON-serializable state of one game. GameEngine
// owns a State and is the only thing that mutates it. LegalMoves,
// ResolveCapture and ChooseMove are pure functions over a State and can be
// used on their own by renderers and analysis tools.
//
// Usage:
//
//	eng, err := engine.NewEngine(engine.DefaultConfig(), engine.WithRand(engine.NewRand(42)))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	roll, err := eng.Roll(eng.CurrentPlayer())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if len(roll.Moves) > 0 {
//		res, err := eng.Execute(roll.Player, roll.Moves[0])
//		...
//	}
//
// Game Rules:
//
// A roll names one planet on one color. The only track destination is the
// cell bearing that symbol on one of the two lines of that color. A piece
// may go there when its own line is the same line, or a ring neighbour
// that is not a forbidden direction for its owner. Pieces leave the house
// when the roll is the owner's color, and enter the cross from a short
// lane beside it, landing on the slot of the rolled planet. The first
// player with all six pieces in the cross wins.
package engine
