// Package pending stores the role a user picked just before being redirected
// to an external OAuth provider. The value bridges the redirect gap and is
// consumed at most once when the session comes back.
package pending

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pending_oauth_role:"

// Dial connects a redis client and verifies the connection.
func Dial(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisStore keeps pending roles keyed by the OAuth state nonce, each with a
// TTL so an abandoned redirect cannot leave a role lying around.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Stash(ctx context.Context, key, role string) error {
	if key == "" {
		return fmt.Errorf("pending role key must not be empty")
	}
	return s.client.Set(ctx, keyPrefix+key, role, s.ttl).Err()
}

// Consume returns the stashed role and deletes it atomically. A missing key
// yields an empty role with no error.
func (s *RedisStore) Consume(ctx context.Context, key string) (string, error) {
	role, err := s.client.GetDel(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}
