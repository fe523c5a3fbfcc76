// Package notify delivers todo change events to configured webhook targets.
//
// Webhooks.Publish(event, item) posts {event, todo, occurred_at} as JSON to
// every target asynchronously. Target URLs are resolved from environment
// variables named in the config, so secrets never live in the config file.
// Delivery is best-effort: a failed or misconfigured target is logged and
// skipped, and the originating request is never blocked or failed.
package notify
