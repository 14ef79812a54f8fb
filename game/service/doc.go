// Package service is the layer between the transports (REST, WebSocket,
// MCP) and the rules engine. GameService resolves sessions, serialises
// access to their engines, lets automated seats play after each request,
// and returns the resulting state together with the engine events.
package service
