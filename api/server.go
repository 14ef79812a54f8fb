package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/wricardo/planchis/game/engine"
	"github.com/wricardo/planchis/game/service"
	"github.com/wricardo/planchis/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil when no live viewers
// are served.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(logRequests)

	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	// Must be registered before the {id} pattern
	api.HandleFunc("/sessions/unified", s.handleUnifiedSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Turn operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/roll", s.handleRoll).Methods("POST")
	api.HandleFunc("/sessions/{id}/moves", s.handleLegalMoves).Methods("GET")
	api.HandleFunc("/sessions/{id}/execute", s.handleExecute).Methods("POST")
	api.HandleFunc("/sessions/{id}/pass", s.handlePass).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// Seats
	api.HandleFunc("/sessions/{id}/players/{player}/deactivate", s.handleDeactivate).Methods("POST")
	api.HandleFunc("/sessions/{id}/players/{player}/automated", s.handleSetAutomated).Methods("POST")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// Static board description for clients that draw it
	api.HandleFunc("/board", s.handleBoard).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the underlying router so callers can mount extra routes.
func (s *Server) Router() *mux.Router {
	return s.router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The websocket upgrade needs the raw writer
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps engine and service errors to HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNotPlayersTurn),
		errors.Is(err, engine.ErrNoDiceRolled),
		errors.Is(err, engine.ErrDiceAlreadyRolled):
		return http.StatusConflict
	case errors.Is(err, engine.ErrIllegalMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrGameAlreadyOver):
		return http.StatusGone
	case errors.Is(err, engine.ErrUnknownPlayer),
		errors.Is(err, engine.ErrInvalidConfig),
		errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) broadcast(res *service.TurnResult) {
	if s.hub != nil && res != nil {
		s.hub.BroadcastToSession(res.SessionID, res.GameState, res.Events)
	}
}

// playerRequest is the body shared by roll and pass.
type playerRequest struct {
	Player *int `json:"player"`
}

func decodePlayer(r *http.Request) (int, error) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 0, fmt.Errorf("%w: invalid request body", service.ErrInvalidInput)
	}
	if req.Player == nil {
		return 0, fmt.Errorf("%w: player is required", service.ErrInvalidInput)
	}
	return *req.Player, nil
}

func pathPlayer(r *http.Request) (int, error) {
	p, err := strconv.Atoi(mux.Vars(r)["player"])
	if err != nil {
		return 0, fmt.Errorf("%w: player must be a number", service.ErrInvalidInput)
	}
	return p, nil
}

// parseOutcome finds the dice face named by planet and color, ignoring case.
func parseOutcome(planet, color string) (*engine.DiceOutcome, error) {
	face, ok := lo.Find(engine.Dice[:], func(d engine.DiceOutcome) bool {
		return strings.EqualFold(string(d.Planet), planet) && strings.EqualFold(string(d.Color), color)
	})
	if !ok {
		return nil, fmt.Errorf("%w: no dice face %s %s", service.ErrInvalidInput, planet, color)
	}
	return &face, nil
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	configID := req.ConfigID
	if configID == "" {
		configID = req.ConfigName
	}

	session, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("session", session.ID).Str("config", session.ConfigName).Msg("session created")
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// handleUnifiedSessions returns several sessions at once, selected by ID
// list or by config, for multi-board viewers.
func (s *Server) handleUnifiedSessions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var sessions []*service.SessionInfo
	if ids := query.Get("sessionIds"); ids != "" {
		for _, id := range strings.Split(ids, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if session, err := s.service.GetSession(r.Context(), id); err == nil {
				sessions = append(sessions, session)
			}
		}
	} else {
		all, err := s.service.ListSessions(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}
		sessions = all
		if configName := query.Get("configName"); configName != "" {
			sessions = lo.Filter(all, func(si *service.SessionInfo, _ int) bool {
				return si.ConfigName == configName
			})
		}
	}

	entries := lo.Map(sessions, func(si *service.SessionInfo, _ int) map[string]interface{} {
		entry := map[string]interface{}{
			"session_id":    si.ID,
			"config_name":   si.ConfigName,
			"game_state":    si.GameState,
			"created_at":    si.CreatedAt,
			"last_accessed": si.LastAccessedAt,
		}
		if si.GameState != nil && si.GameState.Winner != nil {
			entry["winner"] = *si.GameState.Winner
		}
		return entry
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(entries),
		"sessions": entries,
	})
}

// Turn Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	player, err := decodePlayer(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result, err := s.service.Roll(r.Context(), sessionID, player)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.broadcast(result)

	if result.Roll != nil {
		log.Debug().
			Str("session", sessionID).
			Int("player", player).
			Str("outcome", result.Roll.Outcome.String()).
			Int("moves", len(result.Roll.Moves)).
			Bool("forfeited", result.Roll.Forfeited).
			Msg("roll")
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleLegalMoves(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	query := r.URL.Query()

	player := -1
	if p := query.Get("player"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			respondError(w, http.StatusBadRequest, "player must be a number")
			return
		}
		player = n
	}

	var outcome *engine.DiceOutcome
	planet, color := query.Get("planet"), query.Get("color")
	if planet != "" || color != "" {
		o, err := parseOutcome(planet, color)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		outcome = o
	}

	moves, err := s.service.LegalMoves(r.Context(), sessionID, player, outcome)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, moves)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Player *int         `json:"player"`
		Move   *engine.Move `json:"move,omitempty"`
		// Index selects one of the offered moves instead of spelling it out
		Index *int `json:"index,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Player == nil {
		respondError(w, http.StatusBadRequest, "player is required")
		return
	}

	move := req.Move
	if move == nil {
		if req.Index == nil {
			respondError(w, http.StatusBadRequest, "move or index is required")
			return
		}
		offered, err := s.service.LegalMoves(r.Context(), sessionID, *req.Player, nil)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		switch {
		case !offered.Offered:
			// Let the engine report why nothing is offered to this player
			move = &engine.Move{}
		case *req.Index < 0 || *req.Index >= len(offered.Moves):
			respondServiceError(w, fmt.Errorf("%w: index %d out of %d offered moves", engine.ErrIllegalMove, *req.Index, len(offered.Moves)))
			return
		default:
			move = &offered.Moves[*req.Index]
		}
	}

	result, err := s.service.Execute(r.Context(), sessionID, *req.Player, *move)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.broadcast(result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	player, err := decodePlayer(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result, err := s.service.Pass(r.Context(), sessionID, player)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.broadcast(result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Reset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.broadcast(result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetHistory(r.Context(), mux.Vars(r)["id"], opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Seat Handlers

func (s *Server) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	player, err := pathPlayer(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result, err := s.service.Deactivate(r.Context(), mux.Vars(r)["id"], player)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.broadcast(result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSetAutomated(w http.ResponseWriter, r *http.Request) {
	player, err := pathPlayer(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var req struct {
		Automated *bool `json:"automated"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Automated == nil {
		respondError(w, http.StatusBadRequest, "automated is required")
		return
	}

	result, err := s.service.SetAutomated(r.Context(), mux.Vars(r)["id"], player, *req.Automated)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.broadcast(result)

	respondJSON(w, http.StatusOK, result)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	config, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id,omitempty"`
		engine.GameConfig
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	configID := req.ConfigID
	if configID == "" {
		configID = slug(req.Name)
	}
	if configID == "" {
		respondError(w, http.StatusBadRequest, "config_id is required")
		return
	}

	gameConfig := req.GameConfig
	if err := s.service.SaveConfig(r.Context(), configID, &gameConfig); err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": configID,
	})
}

// slug turns a display name into a file-safe config ID.
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}

// Board Handler

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, engine.Layout())
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "live updates disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
