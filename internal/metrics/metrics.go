package metrics

import (
	"log/slog"
	"net/http"
	"sort"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// Metric names in the exposition.
const (
	// Requests served per store operation, labelled by op.
	requestsName = "todo_http_requests_total"

	// Requests that resolved to a 404 (unknown id on get/update/delete).
	notFoundName = "todo_http_not_found_total"

	// Items currently held by the store.
	itemsName = "todo_items"
)

// Collector counts served requests and exposes them, together with the live
// item count, in the Prometheus text exposition format at /metrics.
//
// Collector is safe for concurrent use.
type Collector struct {
	countItems func() int

	mu       sync.Mutex
	requests map[string]float64 // keyed by op: list|get|create|update|delete|health
	notFound float64
}

// New creates a Collector. countItems is read at scrape time, typically
// Store.Count.
func New(countItems func() int) *Collector {
	return &Collector{
		countItems: countItems,
		requests:   make(map[string]float64),
	}
}

// IncRequest counts one served request for the given operation.
func (c *Collector) IncRequest(op string) {
	c.mu.Lock()
	c.requests[op]++
	c.mu.Unlock()
}

// IncNotFound counts one request that resolved to a 404.
func (c *Collector) IncNotFound() {
	c.mu.Lock()
	c.notFound++
	c.mu.Unlock()
}

// ServeHTTP writes the current metric families as Prometheus text exposition.
func (c *Collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))

	enc := expfmt.NewEncoder(w, format)
	for _, mf := range c.gather() {
		if err := enc.Encode(mf); err != nil {
			slog.Error("metrics: encode failed", "family", mf.GetName(), "err", err)
			return
		}
	}
}

// gather builds the metric families from the current counter state.
func (c *Collector) gather() []*dto.MetricFamily {
	c.mu.Lock()
	ops := make([]string, 0, len(c.requests))
	for op := range c.requests {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	reqMetrics := make([]*dto.Metric, 0, len(ops))
	for _, op := range ops {
		reqMetrics = append(reqMetrics, &dto.Metric{
			Label: []*dto.LabelPair{{
				Name:  proto.String("op"),
				Value: proto.String(op),
			}},
			Counter: &dto.Counter{Value: proto.Float64(c.requests[op])},
		})
	}
	notFound := c.notFound
	c.mu.Unlock()

	fams := []*dto.MetricFamily{
		{
			Name: proto.String(notFoundName),
			Help: proto.String("Requests that named an unknown todo id."),
			Type: dto.MetricType_COUNTER.Enum(),
			Metric: []*dto.Metric{
				{Counter: &dto.Counter{Value: proto.Float64(notFound)}},
			},
		},
		{
			Name: proto.String(itemsName),
			Help: proto.String("Todos currently held in the store."),
			Type: dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{
				{Gauge: &dto.Gauge{Value: proto.Float64(float64(c.countItems()))}},
			},
		},
	}

	// An empty counter family is not valid exposition — emit it only once
	// at least one request has been served.
	if len(reqMetrics) > 0 {
		fams = append(fams, &dto.MetricFamily{
			Name:   proto.String(requestsName),
			Help:   proto.String("HTTP requests served, by store operation."),
			Type:   dto.MetricType_COUNTER.Enum(),
			Metric: reqMetrics,
		})
	}

	return fams
}
