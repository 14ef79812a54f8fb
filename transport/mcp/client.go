package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/lo"
	"github.com/wricardo/planchis/game/engine"
	"github.com/wricardo/planchis/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Planchis",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Planchis - MCP Interface

A four-player race on a cross-shaped board. Every request is proxied to the
REST API server.

TURN LOOP:
1. roll_dice for your seat. The result lists the offered moves, numbered.
2. execute_move with the number of the move you want, or pass_turn.
Automated seats play on their own right after your action.

AVAILABLE TOOLS:
- create_session, list_sessions, get_session
- game_state: board summary, whose turn it is and the offered moves
- roll_dice, legal_moves, execute_move, pass_turn
- reset_game, set_automated, leave_game
- game_history, list_configs
- game_rules: full rules

Call game_rules first if you have not played before.`),
	)

	c.registerTools()
}

func sessionProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func playerProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     engine.NumPlayers - 1,
		"description": "Seat index (0 green, 1 blue, 2 red, 3 yellow)",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the preset to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Turn operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dice",
		Description: "Roll the planetary dice for your seat. Lists the moves you may execute.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"player":     playerProp(),
			},
			Required: []string{"session_id", "player"},
		},
	}, c.handleRoll)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_moves",
		Description: "List the moves offered for the current roll, or preview the moves a dice face would allow",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"player":     playerProp(),
				"planet": map[string]interface{}{
					"type":        "string",
					"description": "Planet of the face to preview, e.g. Marte (optional)",
				},
				"color": map[string]interface{}{
					"type":        "string",
					"description": "Color of the face to preview, e.g. Rojo (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleLegalMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "execute_move",
		Description: "Execute one of the offered moves by its number",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"player":     playerProp(),
				"move": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"description": "Number of the move as listed by roll_dice or legal_moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why you chose this move",
				},
			},
			Required: []string{"session_id", "player", "move"},
		},
	}, c.handleExecute)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "pass_turn",
		Description: "Give up the current roll without moving",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"player":     playerProp(),
			},
			Required: []string{"session_id", "player"},
		},
	}, c.handlePass)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Restart the session with the same preset",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	// Seats
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_automated",
		Description: "Hand a seat over to the built-in policy, or take it back",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"player":     playerProp(),
				"automated": map[string]interface{}{
					"type":        "boolean",
					"description": "true to automate the seat",
				},
			},
			Required: []string{"session_id", "player", "automated"},
		},
	}, c.handleSetAutomated)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leave_game",
		Description: "Remove a seat from the game. Its pieces stay on the board.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"player":     playerProp(),
			},
			Required: []string{"session_id", "player"},
		},
	}, c.handleLeave)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_history",
		Description: "View past rolls and moves with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Entries per page (default 20)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleHistory)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the complete rules of Planchis",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeStdio serves the MCP protocol over stdin and stdout until EOF.
func (c *Client) ServeStdio() error {
	return server.ServeStdio(c.mcpServer)
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func requireArgs(args map[string]interface{}, keys ...string) error {
	missing := lo.Filter(keys, func(k string, _ int) bool {
		v, ok := args[k]
		return !ok || v == nil || v == ""
	})
	if len(missing) > 0 {
		return fmt.Errorf("missing required argument(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "in progress"
		if s.GameState != nil && s.GameState.Winner != nil {
			status = fmt.Sprintf("won by %s", playerLabel(s.GameState, *s.GameState.Winner))
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s, %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), status)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	if err := requireArgs(args, "session_id"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	if err := requireArgs(args, "session_id"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID, _ := args["session_id"].(string)

	var state engine.State
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/state", url.PathEscape(sessionID)), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

// turnCall posts a player-scoped action and formats the resulting turn.
func (c *Client) turnCall(ctx context.Context, request mcp.CallToolRequest, action string) (*mcp.CallToolResult, error) {
	args := arguments(request)
	if err := requireArgs(args, "session_id", "player"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID, _ := args["session_id"].(string)
	player, ok := intArg(args, "player")
	if !ok {
		return mcp.NewToolResultError("player must be a number"), nil
	}

	var result service.TurnResult
	path := fmt.Sprintf("/api/sessions/%s/%s", url.PathEscape(sessionID), action)
	if err := c.apiCall(ctx, "POST", path, map[string]int{"player": player}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTurnResult(&result)), nil
}

func (c *Client) handleRoll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.turnCall(ctx, request, "roll")
}

func (c *Client) handlePass(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.turnCall(ctx, request, "pass")
}

func (c *Client) handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	if err := requireArgs(args, "session_id"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	if player, ok := intArg(args, "player"); ok {
		query.Set("player", fmt.Sprint(player))
	}
	if planet, _ := args["planet"].(string); planet != "" {
		query.Set("planet", planet)
	}
	if color, _ := args["color"].(string); color != "" {
		query.Set("color", color)
	}

	path := fmt.Sprintf("/api/sessions/%s/moves", url.PathEscape(sessionID))
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var moves service.MovesResponse
	if err := c.apiCall(ctx, "GET", path, nil, &moves); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoves(&moves)), nil
}

func (c *Client) handleExecute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	if err := requireArgs(args, "session_id", "player", "move"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID, _ := args["session_id"].(string)
	player, ok := intArg(args, "player")
	if !ok {
		return mcp.NewToolResultError("player must be a number"), nil
	}
	number, ok := intArg(args, "move")
	if !ok || number < 1 {
		return mcp.NewToolResultError("move must be the number of an offered move, starting at 1"), nil
	}

	var result service.TurnResult
	body := map[string]int{"player": player, "index": number - 1}
	path := fmt.Sprintf("/api/sessions/%s/execute", url.PathEscape(sessionID))
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTurnResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	if err := requireArgs(args, "session_id"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID, _ := args["session_id"].(string)

	var result service.TurnResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/reset", url.PathEscape(sessionID)), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Game reset.\n\n" + formatTurnResult(&result)), nil
}

func (c *Client) handleSetAutomated(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	if err := requireArgs(args, "session_id", "player", "automated"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID, _ := args["session_id"].(string)
	player, ok := intArg(args, "player")
	automated, isBool := args["automated"].(bool)
	if !ok || !isBool {
		return mcp.NewToolResultError("player must be a number and automated a boolean"), nil
	}

	var result service.TurnResult
	path := fmt.Sprintf("/api/sessions/%s/players/%d/automated", url.PathEscape(sessionID), player)
	if err := c.apiCall(ctx, "POST", path, map[string]bool{"automated": automated}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTurnResult(&result)), nil
}

func (c *Client) handleLeave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	if err := requireArgs(args, "session_id", "player"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID, _ := args["session_id"].(string)
	player, ok := intArg(args, "player")
	if !ok {
		return mcp.NewToolResultError("player must be a number"), nil
	}

	var result service.TurnResult
	path := fmt.Sprintf("/api/sessions/%s/players/%d/deactivate", url.PathEscape(sessionID), player)
	if err := c.apiCall(ctx, "POST", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTurnResult(&result)), nil
}

func (c *Client) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	if err := requireArgs(args, "session_id"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}

	path := fmt.Sprintf("/api/sessions/%s/history", url.PathEscape(sessionID))
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Players: %d, seats %v, human seats %v\n\n",
			config.Name, config.ConfigID, config.Description, config.Mode, config.ActivePlayers, config.HumanPlayers)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(rules), nil
}

const rules = `PLANCHIS RULES

BOARD
A 15x15 cross. Eight track lines run along the arms, two per color
(wet and dry): Rojo, Amarillo, Verde and Azul. The lines form a ring and a
piece may only move to a cell on its own line or on one of the two
neighbouring lines. Every track cell carries a planet symbol. The center
column and row of each arm is a player's cross: six slots, one per planet
in the order Jupiter, Mars, Venus, Mercury, Moon, Sun.

SEATS
Seat 0 is green, 1 blue, 2 red, 3 yellow. Each seat owns 6 pieces that
start in the house. Two-player games use seats 0 and 2.

DICE
One roll gives a planet and a color (12 faces). The face names exactly one
track cell: the cell with that planet on the line of that color that
carries it.

MOVES
- Enter: when the rolled color is your color, bring a piece from the house
  to the rolled cell.
- Normal: move a piece on the track to the rolled cell when it is on the
  same line or a neighbouring line. Each seat has one forbidden crossing
  into its own color from the previous arm.
- Cross: a piece in your ready lane (the last stretch before your cross)
  may jump into the cross slot of the rolled planet if that slot is free.

CAPTURES
Landing on opponents sends them home. In 4-player games each seat has
three safe symbols; opponents standing on one of their safe symbols cannot
be captured outside the lander's last two rows, and the landing piece just
shares the cell. Pieces in a cross are never captured.

TURNS
Roll, then execute one offered move or pass. With no legal move the turn
is forfeited. Automated seats move on their own.

WINNING
The first seat with all six pieces in its cross wins. A seat that leaves
is removed from the rotation; the last seat left wins.`

// Formatting helpers

func playerLabel(state *engine.State, player int) string {
	if state != nil && player >= 0 && player < len(state.Players) {
		p := state.Players[player]
		return fmt.Sprintf("%s (seat %d, %s)", p.Name, player, p.Color)
	}
	return fmt.Sprintf("seat %d", player)
}

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nLast accessed: %s\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339))
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return result
}

func formatGameState(state *engine.State) string {
	if state == nil {
		return "Game state unavailable"
	}

	var b strings.Builder
	switch {
	case state.Winner != nil:
		fmt.Fprintf(&b, "🏆 GAME OVER: %s wins\n", playerLabel(state, *state.Winner))
	default:
		fmt.Fprintf(&b, "Turn %d: %s to play (%s)\n", state.TurnNumber, playerLabel(state, state.Current()), state.Phase)
	}
	if state.Dice != nil && state.Phase == engine.MovesOffered {
		fmt.Fprintf(&b, "Dice: %s\n", state.Dice)
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}

	b.WriteString("\nSeats:\n")
	for _, p := range state.Players {
		if !p.Active {
			continue
		}
		kind := "human"
		if p.Automated {
			kind = "automated"
		}
		fmt.Fprintf(&b, "- %s [%s]: house %d, track %d, cross %d/%d\n",
			playerLabel(state, p.Index), kind, p.PiecesInHouse, p.PiecesOnTrack, p.PiecesInCross, engine.PiecesPerPlayer)
	}

	onTrack := lo.Filter(state.Pieces, func(p engine.Piece, _ int) bool { return p.State == engine.OnTrack })
	if len(onTrack) > 0 {
		b.WriteString("\nPieces on track:\n")
		for _, p := range onTrack {
			sym, _ := engine.SymbolAt(p.Cell)
			fmt.Fprintf(&b, "- %s at %s on %s (%s)\n", p.ID, p.Cell, p.Line, sym)
		}
	}

	if state.Phase == engine.MovesOffered && len(state.Offered) > 0 {
		b.WriteString("\nOffered moves:\n")
		b.WriteString(formatMoveList(state.Offered))
	}

	return b.String()
}

func formatMoveList(moves []engine.Move) string {
	var b strings.Builder
	for i, m := range moves {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m)
	}
	return b.String()
}

func formatMoves(resp *service.MovesResponse) string {
	var b strings.Builder
	switch {
	case resp.Outcome == nil:
		fmt.Fprintf(&b, "No moves offered to seat %d. Roll the dice first.\n", resp.Player)
		return b.String()
	case resp.Offered:
		fmt.Fprintf(&b, "Offered moves for seat %d after rolling %s:\n", resp.Player, resp.Outcome)
	default:
		fmt.Fprintf(&b, "Preview for seat %d if %s were rolled:\n", resp.Player, resp.Outcome)
	}
	if len(resp.Moves) == 0 {
		b.WriteString("(no legal moves)\n")
		return b.String()
	}
	b.WriteString(formatMoveList(resp.Moves))
	return b.String()
}

func formatRoll(b *strings.Builder, state *engine.State, roll *engine.RollResult) {
	fmt.Fprintf(b, "%s rolled %s", playerLabel(state, roll.Player), roll.Outcome)
	switch {
	case roll.Forfeited:
		b.WriteString(": no playable move, turn forfeited\n")
	case roll.Auto != nil:
		fmt.Fprintf(b, ": played %s%s\n", roll.Auto.Move, execSuffix(roll.Auto))
	default:
		fmt.Fprintf(b, ": %d move(s) offered\n", len(roll.Moves))
	}
}

func execSuffix(exec *engine.ExecResult) string {
	var parts []string
	if len(exec.Captured) > 0 {
		parts = append(parts, "captured "+strings.Join(exec.Captured, ", "))
	}
	if exec.Blocked {
		parts = append(parts, "capture blocked by a safe spot")
	}
	if exec.EnteredCross {
		parts = append(parts, "entered the cross")
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, "; ") + ")"
}

func formatTurnResult(result *service.TurnResult) string {
	var b strings.Builder
	if result.Roll != nil {
		formatRoll(&b, result.GameState, result.Roll)
		if !result.Roll.Forfeited && result.Roll.Auto == nil && len(result.Roll.Moves) > 0 {
			b.WriteString(formatMoveList(result.Roll.Moves))
		}
	}
	if result.Exec != nil {
		fmt.Fprintf(&b, "✓ Executed %s%s\n", result.Exec.Move, execSuffix(result.Exec))
	}
	if len(result.Automated) > 0 {
		b.WriteString("\nAutomated seats:\n")
		for i := range result.Automated {
			b.WriteString("- ")
			formatRoll(&b, result.GameState, &result.Automated[i])
		}
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "History (Page %d/%d), total entries: %d\n\n", history.Page, history.TotalPages, history.TotalEntries)

	for _, e := range history.Entries {
		fmt.Fprintf(&b, "turn %d, seat %d: %s", e.Turn, e.Player, e.Action)
		if e.Outcome != nil {
			fmt.Fprintf(&b, " %s", e.Outcome)
		}
		if e.Move != nil {
			fmt.Fprintf(&b, " %s", e.Move)
		}
		if len(e.Captured) > 0 {
			fmt.Fprintf(&b, " captured %s", strings.Join(e.Captured, ", "))
		}
		b.WriteString("\n")
	}

	return b.String()
}
