package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/todostack/todostack/internal/api"
	"github.com/todostack/todostack/internal/config"
	"github.com/todostack/todostack/internal/metrics"
	"github.com/todostack/todostack/internal/notify"
	"github.com/todostack/todostack/internal/todo"
	"github.com/todostack/todostack/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Log level lives in a LevelVar so a config reload can change it without
	// a restart.
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Optional .env — webhook URLs are resolved from the environment, and
	// local deployments keep them in a dotenv file.
	if err := godotenv.Load(); err == nil {
		slog.Info(".env loaded")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	level.Set(cfg.Server.SlogLevel())

	slog.Info("todostack-server starting",
		"config", *configPath,
		"addr", cfg.Server.Addr(),
		"log_level", cfg.Server.LogLevel,
		"stream_interval", cfg.Server.Stream.Interval,
		"webhooks", len(cfg.Server.Webhooks),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The store is the single shared mutable resource; everything below gets
	// a handle to it rather than reaching for ambient state.
	st := todo.NewStore()

	// WebSocket hub — broadcasts the todo list to connected clients.
	hub := ws.New(st, cfg.Server.Stream.Interval)
	go hub.Run(ctx)

	// Webhook notifier and request metrics.
	hooks := notify.New(cfg.Server.Webhooks)
	coll := metrics.New(st.Count)

	// Combined HTTP server: REST API + WebSocket stream + metrics.
	mux := http.NewServeMux()
	mux.Handle("/", api.New(st, coll, hub, hooks))
	mux.Handle("/ws/todos", hub)
	mux.Handle("/metrics", coll)

	// Config hot reload — log level and stream interval apply live.
	go func() {
		if err := config.Watch(ctx, *configPath, level, hub.SetInterval); err != nil {
			slog.Error("config: watch unavailable", "err", err)
		}
	}()

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: mux,
	}
	go func() {
		slog.Info("HTTP server listening", "addr", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("todostack-server shutting down")
	srv.Shutdown(context.Background()) //nolint:errcheck
	hooks.Wait()
}
