// Package ws implements the WebSocket stream for the todo service.
//
// Hub manages a set of connected clients and broadcasts the full current
// todo list to all of them: on a configurable interval (default 5s in
// production) and immediately after any mutation reported through Publish.
//
// New(store, interval) creates a Hub.
// Hub.Run(ctx) starts the broadcast loop — blocks until ctx is cancelled,
// then closes all active connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, sends the current
// list immediately on connect, then streams updates.
//
// Message format sent to clients:
//
//	{
//	  "event": "todos",
//	  "data":  [ {"id": "...", "title": "...", "completed": false}, ... ]
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The stream is mounted at /ws/todos by the server.
package ws
