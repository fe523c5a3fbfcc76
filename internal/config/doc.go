// Package config loads the service configuration from the `server:` section
// of config.yaml.
//
// Config fields:
//   - Host            — bind interface for the HTTP listener (default 127.0.0.1)
//   - HTTPPort        — port for REST API, WebSocket stream and /metrics (default 8080)
//   - LogLevel        — debug | info | warn | error (default info)
//   - Stream.Interval — WebSocket rebroadcast interval (default 5s)
//   - Webhooks        — change-notification targets; URLs resolved from env vars
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, level, setInterval) reloads the file on change and applies
// the two live-reloadable settings itself: the log level onto the given
// slog.LevelVar and the stream interval through setInterval. Everything else
// requires a restart.
package config
