// Package mcp lets AI agents play Planchis through the Model Context
// Protocol.
//
// Client registers a set of tools on an mcp-go server and forwards every
// call to the REST API, so an agent sees the same sessions as browsers and
// HTTP clients. Tool results are plain text meant to be read by a model:
// the seat whose turn it is, piece counters and a numbered list of offered
// moves that execute_move refers to.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state, roll_dice, legal_moves, execute_move, pass_turn
//   - reset_game, set_automated, leave_game
//   - game_history, list_configs, game_rules
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	client.ServeStdio()
//
// The HTTP server also mounts the same tools at /mcp by passing request
// bodies to GetMCPServer().HandleMessage.
package mcp
