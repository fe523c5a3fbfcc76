// Package api implements the HTTP REST surface of the todo service.
//
// New(store, rec, pubs...) returns an http.Handler that serves:
//
//	GET    /healthz      — liveness, current item count
//	GET    /todos        — all items, JSON array, insertion order
//	GET    /todos/{id}   — single item; 404 if unknown
//	POST   /todos        — create from {"title": string}; 201 with the new item
//	PUT    /todos/{id}   — replace the title; 200 with the updated item
//	DELETE /todos/{id}   — remove the item; 204 empty body
//
// Success and 400/405 responses carry Content-Type: application/json.
// 404 responses carry a plain-text body: "Todo with id {id} not found".
//
// Every successful mutation is forwarded to the registered Publishers
// (WebSocket hub, webhook notifier) after the store has been updated.
// No external HTTP framework is used.
package api
