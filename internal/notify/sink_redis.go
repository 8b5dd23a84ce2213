package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultOutboxKey = "doctrack:notifications:outbox"

// RedisSink pushes serialized events onto a Redis list. The delivery worker
// that drains the list lives outside this service.
type RedisSink struct {
	client *redis.Client
	key    string
}

func NewRedisSink(client *redis.Client, key string) *RedisSink {
	if key == "" {
		key = defaultOutboxKey
	}
	return &RedisSink{client: client, key: key}
}

func (s *RedisSink) Emit(ctx context.Context, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := s.client.LPush(ctx, s.key, raw).Err(); err != nil {
		return fmt.Errorf("push event: %w", err)
	}
	return nil
}
