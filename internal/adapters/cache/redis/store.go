package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/bnema/usahome-cli/internal/ports"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultPrefix = "usahome:"

// client is the subset of go-redis commands the store issues.
type client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// Store shares the ledger cache between machines through Redis. Entries never
// expire; the backend remains the source of truth.
type Store struct {
	rdb    client
	prefix string
}

var _ ports.CacheStore = (*Store)(nil)

func NewClient(addr string, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewStore(rdb client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	fullKey, err := s.key(key)
	if err != nil {
		return "", err
	}

	value, err := s.rdb.Get(ctx, fullKey).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", fmt.Errorf("cache entry %q: %w", key, domain.ErrKeyNotFound)
		}
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	fullKey, err := s.key(key)
	if err != nil {
		return err
	}

	if err := s.rdb.Set(ctx, fullKey, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	fullKey, err := s.key(key)
	if err != nil {
		return err
	}

	if err := s.rdb.Del(ctx, fullKey).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

func (s *Store) key(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("cache key is empty")
	}
	return s.prefix + trimmed, nil
}
