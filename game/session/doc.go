// Package session keeps the live game sessions of the server.
//
// Manager stores sessions in memory under 4-character hex IDs generated
// with nanoid, looked up case-insensitively. Each session owns one
// engine.GameEngine; callers go through Session.Do so that requests for
// the same session are applied one at a time.
//
// With a SessionPersistence attached, sessions are written on creation and
// after every change, restored on startup by LoadPersistedSessions, and
// loaded on demand by Get. FilePersistence stores one JSON document per
// session holding the config ID, a copy of the preset and the full game
// state.
//
//	configs, _ := config.NewManager("configs")
//	store, _ := session.NewFilePersistence("sessions", configs)
//	manager := session.NewManagerWithPersistence(store)
//	_ = manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", configs.GetDefault())
package session
