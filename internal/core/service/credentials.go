package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cursos-uc/cursos-app/internal/core/ports"
)

// Credentials is the one bearer-credential slot of the process. It is built
// at startup, filled by Restore or Login, and emptied by Logout. The gateway
// client reads it through ports.TokenSource on every call.
type Credentials struct {
	mu    sync.RWMutex
	token string
	store ports.CredentialStore
}

func NewCredentials(store ports.CredentialStore) *Credentials {
	return &Credentials{store: store}
}

// Token satisfies ports.TokenSource.
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Load reads the persisted credential into the slot. It returns
// ports.ErrNoCredential when nothing is persisted.
func (c *Credentials) Load(ctx context.Context) (string, error) {
	token, err := c.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrNoCredential) {
			return "", err
		}
		return "", fmt.Errorf("load credential: %w", err)
	}
	if token == "" {
		return "", ports.ErrNoCredential
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return token, nil
}

// Set installs token in the slot, then persists it. The slot is updated even
// when persisting fails, so the current process keeps its session.
func (c *Credentials) Set(ctx context.Context, token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	if err := c.store.Save(ctx, token); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Clear empties the slot and discards the persisted credential.
func (c *Credentials) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
