package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cursos-uc/cursos-app/internal/core/ports"
)

const keyPrefix = "cursosuc:credential:"

// CredentialStore persists the bearer credential under one fixed key, so it
// survives process restarts.
// Key format: cursosuc:credential:<name>
type CredentialStore struct {
	client redis.Cmdable
	key    string
}

// NewCredentialStore returns a store writing to the key derived from name.
func NewCredentialStore(client redis.Cmdable, name string) *CredentialStore {
	return &CredentialStore{client: client, key: keyPrefix + name}
}

func (s *CredentialStore) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ports.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("redis get credential: %w", err)
	}
	return token, nil
}

func (s *CredentialStore) Save(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del credential: %w", err)
	}
	return nil
}

var _ ports.CredentialStore = (*CredentialStore)(nil)
