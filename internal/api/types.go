package api

// todoRequest is the body of POST /todos and PUT /todos/{id}.
// Title is a pointer so an absent field can be told apart from "".
type todoRequest struct {
	Title *string `json:"title"`
}

// HealthResponse is the payload for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Todos  int    `json:"todos"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
