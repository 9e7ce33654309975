package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
)

const persistTimeout = 2 * time.Second

// load returns the stored value of key or def when the value is missing,
// empty or unreadable.
func load(ctx context.Context, kv port.KeyValueStore, key, def string) string {
	const op = "service.load"

	if kv == nil {
		return def
	}

	v, ok, err := kv.Get(ctx, key)
	if err != nil {
		slog.Warn("failed to read setting, using default", "op", op, "key", key, "err", err)
		return def
	}
	if !ok || v == "" {
		return def
	}
	return v
}

// persist writes a single key. Failures are logged and dropped: the
// in-memory value stays authoritative for the running process.
func persist(kv port.KeyValueStore, key, value string) {
	const op = "service.persist"

	if kv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := kv.Set(ctx, key, value); err != nil {
		slog.Error("failed to persist setting", "op", op, "key", key, "err", err)
	}
}
