// Package api exposes Planchis sessions over HTTP.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                 create a session ({"config_id": "duel"})
//   - GET    /api/sessions                 list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/unified         several sessions at once (?sessionIds=a,b or ?configName=x)
//   - GET    /api/sessions/{id}            session info with state
//   - DELETE /api/sessions/{id}            delete a session
//
// Turns:
//   - GET  /api/sessions/{id}/state        current state
//   - POST /api/sessions/{id}/roll         {"player": 0}
//   - GET  /api/sessions/{id}/moves        offered moves, or a preview with ?player=&planet=&color=
//   - POST /api/sessions/{id}/execute      {"player": 0, "move": {...}} or {"player": 0, "index": 1}
//   - POST /api/sessions/{id}/pass         {"player": 0}
//   - POST /api/sessions/{id}/reset        restart with the same preset
//   - GET  /api/sessions/{id}/history      ?page=&limit=&order=
//
// Seats:
//   - POST /api/sessions/{id}/players/{player}/deactivate
//   - POST /api/sessions/{id}/players/{player}/automated   {"automated": true}
//
// Configuration and board:
//   - GET  /api/configs, GET /api/configs/{name}, POST /api/configs
//   - GET  /api/board                      static layout for renderers
//
// Live updates are served at /ws?session={id} by the websocket hub. Every
// successful turn request is broadcast to the session's viewers.
//
// Rule violations map to status codes: wrong turn or phase is 409, a move
// that was not offered is 422, a finished game is 410, unknown sessions
// and presets are 404 and malformed input is 400.
package api
