// Package history persists per-session conversation turns. Storage here is
// best-effort memory for the assistant: callers degrade gracefully when the
// backend is unavailable instead of failing the turn.
package history

import (
	"context"
	"log"
	"time"

	"github.com/jurema-br/nino/config"
	"github.com/jurema-br/nino/models"
)

// Store is the history store adapter the orchestrator reads and writes.
type Store interface {
	// Append durably records one turn. Once it returns nil the turn must
	// survive; duplicate suppression is not required.
	Append(ctx context.Context, turn models.Turn) error
	// Recent returns up to limit most recent turns for the session in
	// chronological order (oldest of the window first). A never-seen
	// session yields an empty slice, not an error.
	Recent(ctx context.Context, sessionID string, limit int) ([]models.Turn, error)
}

// Pruner is implemented by stores that support age-based retention sweeps.
type Pruner interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// New creates a history store based on configuration. An explicit driver is
// honored; otherwise Postgres is preferred when configured, with Redis as the
// fallback. ttl bounds session lifetime on backends that expire keys natively
// (Redis); Postgres retention runs through the Sweeper instead.
func New(cfg config.StorageConfig, ttl time.Duration) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgresStore(cfg.Postgres)
	case "redis":
		return NewRedisStore(cfg.Redis, ttl)
	case "memory":
		return NewInMemoryStore(), nil
	}
	if cfg.Postgres.URL != "" || cfg.Postgres.Host != "" || cfg.Postgres.DBName != "" {
		ps, err := NewPostgresStore(cfg.Postgres)
		if err == nil {
			return ps, nil
		}
		log.Printf("Warning: Postgres history store init failed: %v, falling back to Redis", err)
	}
	return NewRedisStore(cfg.Redis, ttl)
}
