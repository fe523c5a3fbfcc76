package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/todostack/todostack/internal/todo"
)

// Recorder counts served requests. Implemented by metrics.Collector.
type Recorder interface {
	IncRequest(op string)
	IncNotFound()
}

// Publisher receives a change event after every successful mutation.
// Implemented by the WebSocket hub and the webhook notifier.
type Publisher interface {
	Publish(event string, item todo.Todo)
}

// Handler is the HTTP handler for the todo REST surface.
type Handler struct {
	store *todo.Store
	rec   Recorder
	pubs  []Publisher
	mux   *http.ServeMux
}

// New creates a Handler wired to the given store and registers all routes.
// rec may be nil; pubs may be empty.
func New(st *todo.Store, rec Recorder, pubs ...Publisher) http.Handler {
	h := &Handler{store: st, rec: rec, pubs: pubs, mux: http.NewServeMux()}

	h.mux.HandleFunc("/healthz", h.health)
	h.mux.HandleFunc("/todos", h.collection)
	h.mux.HandleFunc("/todos/", h.item) // subtree — extracts {id}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /healthz — liveness plus the current item count.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.record("health")
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok", Todos: h.store.Count()})
}

// collection dispatches /todos: GET lists, POST creates.
func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// item dispatches /todos/{id}: GET, PUT and DELETE on a single item.
func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/todos/")
	if id == "" {
		// Bare /todos/ behaves like /todos.
		h.collection(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	h.record("list")
	jsonResp(w, http.StatusOK, h.store.List())
}

func (h *Handler) get(w http.ResponseWriter, _ *http.Request, id string) {
	h.record("get")
	item, err := h.store.Get(id)
	if err != nil {
		h.notFound(w, err)
		return
	}
	jsonResp(w, http.StatusOK, item)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	h.record("create")
	req, ok := decodeTitle(w, r)
	if !ok {
		return
	}
	item := h.store.Create(*req.Title)
	h.publish("created", item)
	jsonResp(w, http.StatusCreated, item)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id string) {
	h.record("update")
	req, ok := decodeTitle(w, r)
	if !ok {
		return
	}
	item, err := h.store.Update(id, *req.Title)
	if err != nil {
		h.notFound(w, err)
		return
	}
	h.publish("updated", item)
	jsonResp(w, http.StatusOK, item)
}

func (h *Handler) delete(w http.ResponseWriter, _ *http.Request, id string) {
	h.record("delete")
	item, err := h.store.Delete(id)
	if err != nil {
		h.notFound(w, err)
		return
	}
	h.publish("deleted", item)
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ----------------------------------------------------------------

// decodeTitle parses a {"title": ...} body. On a malformed body or a missing
// title field it writes a 400 response and returns ok=false. An empty title
// string is accepted.
func decodeTitle(w http.ResponseWriter, r *http.Request) (todoRequest, bool) {
	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if req.Title == nil {
		jsonErr(w, http.StatusBadRequest, "title is required")
		return req, false
	}
	return req, true
}

// notFound writes the 404 response. The body is plain text carrying the
// store error message, which names the missing id.
func (h *Handler) notFound(w http.ResponseWriter, err error) {
	if h.rec != nil {
		h.rec.IncNotFound()
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, err.Error()) //nolint:errcheck
}

func (h *Handler) record(op string) {
	if h.rec != nil {
		h.rec.IncRequest(op)
	}
}

func (h *Handler) publish(event string, item todo.Todo) {
	for _, p := range h.pubs {
		p.Publish(event, item)
	}
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
