// Package metrics exposes service counters in the Prometheus text
// exposition format.
//
// Collector counts requests per store operation (IncRequest) and 404
// resolutions (IncNotFound), and reads the live item count at scrape time.
// Its ServeHTTP hand-encodes client_model MetricFamily values with
// common/expfmt — no client library registry is involved.
//
// Exposed families:
//
//	todo_http_requests_total{op="..."}  counter
//	todo_http_not_found_total           counter
//	todo_items                          gauge
package metrics
