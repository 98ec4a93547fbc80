package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jurema-br/nino/config"
	"github.com/jurema-br/nino/models"
)

const sessionKeyPrefix = "history:"

// RedisStore keeps each session's turns as a JSON-encoded list. Expiry is the
// backend's business: a non-zero ttl refreshes the session key on every
// append, so idle sessions age out without a sweeper.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects and pings a Redis-backed history store.
func NewRedisStore(cfg config.RedisConfig, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.Timeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed (%s): %w", cfg.Addr(), err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Append(ctx context.Context, turn models.Turn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}
	key := sessionKeyPrefix + turn.SessionID
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	if s.ttl > 0 {
		_ = s.client.Expire(ctx, key, s.ttl).Err()
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, sessionID string, limit int) ([]models.Turn, error) {
	if limit <= 0 {
		return []models.Turn{}, nil
	}
	// RPush keeps the list chronological, so the tail window is already in
	// oldest-first order.
	vals, err := s.client.LRange(ctx, sessionKeyPrefix+sessionID, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read recent turns: %w", err)
	}
	turns := make([]models.Turn, 0, len(vals))
	for _, v := range vals {
		var t models.Turn
		if err := json.Unmarshal([]byte(v), &t); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// Close releases the client.
func (s *RedisStore) Close() error { return s.client.Close() }
