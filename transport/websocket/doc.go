// Package websocket provides the WebSocket transport for the ghost maze game.
//
// The package uses a hub-and-spoke model where a central Hub owns every
// connection. Run is the only goroutine touching the session registry;
// everything else talks to it over channels.
//
// Message Protocol:
//
// Outgoing messages are JSON objects {session_id, event, game_state, data}.
// The event is an engine event type (started, move, ghost_move, victory,
// defeat, stopped, reset) for state broadcasts, "result" or "error" for
// command replies.
//
// Incoming messages are commands such as {"action": "move", "direction":
// "up"}, executed by the CommandHandler given to NewHub. The reply goes to
// the sender only; the resulting state change reaches every client of the
// session through the broadcast.
//
// Usage:
//
//	hub := websocket.NewHub(websocket.WithCommandHandler(handle))
//	go hub.Run(ctx)
//
//	svc := service.NewGameService(sessions, configs,
//		service.WithStateObserver(hub.BroadcastState))
//
// BroadcastState never blocks, so it is safe to call from the ghost
// goroutines that drive most updates. Clients whose buffer fills up are
// disconnected.
package websocket
