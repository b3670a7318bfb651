package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore records issued tokens so they can be revoked on logout.
// A token is only accepted while its record exists.
type TokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Exists(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
}

// ErrTokenNotFound reports a revoke of a token that was never saved or
// was already revoked.
var ErrTokenNotFound = errors.New("token not found")

type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func tokenKey(token string) string {
	return fmt.Sprintf("token:%s", token)
}

func (s *RedisTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Exists(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, tokenKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists failed: %w", err)
	}
	return n > 0, nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	n, err := s.client.Del(ctx, tokenKey(token)).Result()
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	if n == 0 {
		return ErrTokenNotFound
	}
	return nil
}
