// Package websocket pushes Planchis session updates to browsers and other
// live viewers.
//
// A single Hub owns every connection. Clients attach to one session with
// ServeWS and receive a JSON Message per frame:
//
//	{"session_id":"ab12","event":"state_update","game_state":{...},"events":[...]}
//
// The HTTP layer calls BroadcastToSession after each successful action,
// passing the state snapshot and the engine events the action produced.
// Broadcasting never blocks the caller. Messages are dropped when the hub
// is saturated and clients that fall behind are disconnected.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Incoming frames are read only to keep the connection alive.
package websocket
