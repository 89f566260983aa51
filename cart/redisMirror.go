package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMirror keeps the slot under one Redis key. A zero ttl keeps it forever.
type RedisMirror struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisMirror(client *redis.Client, key string, ttl time.Duration) *RedisMirror {
	return &RedisMirror{client: client, key: key, ttl: ttl}
}

func (m *RedisMirror) Load(ctx context.Context) ([]byte, error) {
	data, err := m.client.Get(ctx, m.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", m.key, err)
	}
	return data, nil
}

func (m *RedisMirror) Save(ctx context.Context, data []byte) error {
	if err := m.client.Set(ctx, m.key, data, m.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", m.key, err)
	}
	return nil
}
