package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/todostack/todostack/internal/config"
	"github.com/todostack/todostack/internal/todo"
)

const deliverTimeout = 10 * time.Second

// Event is the JSON payload delivered to each webhook target.
type Event struct {
	// Event is one of: created | updated | deleted.
	Event string `json:"event"`

	// Todo is the item after the mutation (for deleted: the removed item).
	Todo todo.Todo `json:"todo"`

	// OccurredAt is when the service observed the change. RFC3339.
	OccurredAt string `json:"occurred_at"`
}

// Webhooks delivers todo change events to the configured HTTP targets.
// Delivery is asynchronous and best-effort: failures are logged, never
// surfaced to the request that caused the change.
type Webhooks struct {
	targets []config.WebhookConfig
	client  *http.Client
	now     func() time.Time // injectable for deterministic tests

	wg sync.WaitGroup
}

// New creates a Webhooks notifier. An empty target list is valid — Publish
// becomes a no-op.
func New(targets []config.WebhookConfig) *Webhooks {
	return &Webhooks{
		targets: targets,
		client:  &http.Client{Timeout: deliverTimeout},
		now:     time.Now,
	}
}

// Publish delivers the change event to every configured target in the
// background and returns immediately.
func (n *Webhooks) Publish(event string, item todo.Todo) {
	if len(n.targets) == 0 {
		return
	}

	ev := Event{
		Event:      event,
		Todo:       item,
		OccurredAt: n.now().UTC().Format(time.RFC3339),
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.deliver(ev)
	}()
}

// Wait blocks until all in-flight deliveries have finished. Used on shutdown
// and in tests.
func (n *Webhooks) Wait() {
	n.wg.Wait()
}

// deliver sends ev to all configured targets. Errors are logged but do not
// affect the caller.
func (n *Webhooks) deliver(ev Event) {
	for _, target := range n.targets {
		url := target.URL()
		if url == "" {
			slog.Warn("notify: webhook url not set — skipping",
				"name", target.Name, "url_env", target.URLEnv)
			continue
		}

		if err := n.post(url, ev); err != nil {
			slog.Error("notify: webhook delivery failed",
				"name", target.Name,
				"event", ev.Event,
				"todo_id", ev.Todo.ID,
				"err", err,
			)
			continue
		}
		slog.Debug("notify: webhook delivered",
			"name", target.Name,
			"event", ev.Event,
			"todo_id", ev.Todo.ID,
		)
	}
}

func (n *Webhooks) post(url string, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
