package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pageKeyPrefix = "page:"

// RedisStore keeps one hash per path; each field is a variant of the page.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects using a redis:// URL and checks the connection.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStoreFromClient(client), nil
}

func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, path, variant string) ([]byte, error) {
	data, err := s.client.HGet(ctx, pageKeyPrefix+path, variant).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get page from cache: %w", err)
	}
	return data, nil
}

// Set stores the variant and pushes the expiry of the whole hash forward, so
// the variants of a path expire together.
func (s *RedisStore) Set(ctx context.Context, path, variant string, body []byte, ttl time.Duration) error {
	key := pageKeyPrefix + path
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, variant, body)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to cache page: %w", err)
	}
	return nil
}

func (s *RedisStore) Purge(ctx context.Context, path string) error {
	if err := s.client.Del(ctx, pageKeyPrefix+path).Err(); err != nil {
		return fmt.Errorf("failed to purge page cache: %w", err)
	}
	return nil
}
