package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client redis.UniversalClient
	prefix string
}

var _ DocumentStore = (*redisStore)(nil)

// NewRedisClient creates a client for a single redis instance.
func NewRedisClient(addr string) (redis.UniversalClient, error) {
	if addr == "" {
		return nil, errors.New("storage: redis address is required")
	}
	return redis.NewClient(&redis.Options{
		Addr: addr,
	}), nil
}

// NewRedisStore keeps each document under prefix+key with no TTL.
func NewRedisStore(client redis.UniversalClient, prefix string) (*redisStore, error) {
	if client == nil {
		return nil, errors.New("storage: redis client is required")
	}
	return &redisStore{
		client: client,
		prefix: prefix,
	}, nil
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return b, nil
}

func (s *redisStore) Put(ctx context.Context, key string, body []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, body, 0).Err(); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}
