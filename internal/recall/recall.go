// Package recall remembers the question texts a user has recently seen per
// topic, so generation can steer away from them across sessions.
package recall

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultSize = 50
	defaultTTL  = 30 * 24 * time.Hour
)

// Store remembers recently asked questions.
type Store interface {
	// Remember records text as the newest question for (userID, topic).
	Remember(ctx context.Context, userID, topic, text string) error

	// Recent returns up to the configured number of texts, newest first.
	Recent(ctx context.Context, userID, topic string) ([]string, error)
}

type Config struct {
	Redis  redis.UniversalClient
	Prefix string
	Size   int
	TTL    time.Duration
}

// RedisStore keeps one capped list per user and topic.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
	size   int
	ttl    time.Duration
}

func NewRedisStore(c Config) *RedisStore {
	if c.Size <= 0 {
		c.Size = defaultSize
	}
	if c.TTL <= 0 {
		c.TTL = defaultTTL
	}
	if c.Prefix == "" {
		c.Prefix = "quizmind"
	}
	return &RedisStore{redis: c.Redis, prefix: c.Prefix, size: c.Size, ttl: c.TTL}
}

// Connect dials addrs and verifies the connection with a PING.
func Connect(ctx context.Context, addrs []string, password string) (redis.UniversalClient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	r := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    addrs,
		Password: password,
	})
	if err := r.Ping(ctx).Err(); err != nil {
		r.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return r, nil
}

func (s *RedisStore) Remember(ctx context.Context, userID, topic, text string) error {
	key := s.key(userID, topic)
	_, err := s.redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LRem(ctx, key, 0, text)
		p.LPush(ctx, key, text)
		p.LTrim(ctx, key, 0, int64(s.size-1))
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("remember question: %w", err)
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, userID, topic string) ([]string, error) {
	texts, err := s.redis.LRange(ctx, s.key(userID, topic), 0, int64(s.size-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("recent questions: %w", err)
	}
	return texts, nil
}

func (s *RedisStore) key(userID, topic string) string {
	return fmt.Sprintf("%s:%s:%s:recent", s.prefix, userID, topic)
}

// Noop is a Store that remembers nothing.
type Noop struct{}

func (Noop) Remember(context.Context, string, string, string) error { return nil }

func (Noop) Recent(context.Context, string, string) ([]string, error) { return nil, nil }
