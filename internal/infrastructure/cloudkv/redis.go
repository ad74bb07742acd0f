package cloudkv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/usecase/cloudsync"
)

// RedisStore keeps the backup document in a Redis hash, one field per chunk
type RedisStore struct {
	client *redis.Client
	basket string
	ids    IDSource
}

var _ cloudsync.Backend = (*RedisStore)(nil)

// NewRedisStore creates a Redis backend
func NewRedisStore(client *redis.Client, basket string, ids IDSource) *RedisStore {
	return &RedisStore{client: client, basket: basket, ids: ids}
}

// Name implements cloudsync.Backend
func (r *RedisStore) Name() string {
	return "redis"
}

func (r *RedisStore) key(ctx context.Context) (string, error) {
	ns, err := namespace(ctx, r.ids)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("lasto:%s:%s", ns, r.basket), nil
}

// Load reads every chunk field of the hash
func (r *RedisStore) Load(ctx context.Context) (cloudsync.Document, error) {
	key, err := r.key(ctx)
	if err != nil {
		return nil, err
	}
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, entities.ErrRemoteEmpty
	}

	doc := make(cloudsync.Document, len(fields))
	for field, value := range fields {
		doc[field] = json.RawMessage(value)
	}
	return doc, nil
}

// Store atomically replaces the hash with doc
func (r *RedisStore) Store(ctx context.Context, doc cloudsync.Document) error {
	key, err := r.key(ctx)
	if err != nil {
		return err
	}
	values := make(map[string]interface{}, len(doc))
	for field, raw := range doc {
		values[field] = string(raw)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.HSet(ctx, key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
