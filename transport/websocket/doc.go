// Package websocket pushes game updates to browsers watching a session.
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each connection has a read goroutine that only
// handles control frames and a write goroutine fed by a buffered channel.
//
// Message Protocol:
//
// Clients never send game commands over the socket; moves go through the
// REST API. The server sends one JSON document per frame:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "flip", "data": {"card": "S3R7", ...}}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Concurrency:
//
// Broadcast calls never block: messages are queued for the hub goroutine and
// dropped with a warning when the queue is full. A client whose own buffer
// is full is disconnected.
package websocket
