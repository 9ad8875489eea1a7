package ports

import (
	"context"
	"errors"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

// ErrNoCredential is returned by CredentialStore.Load when nothing is persisted.
var ErrNoCredential = errors.New("no credential stored")

// CredentialStore persists the bearer credential between process runs.
type CredentialStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// TokenSource yields the bearer credential at call time. An empty string means
// no session.
type TokenSource interface {
	Token() string
}

// Identity exposes the current session user to the stores that act on its
// behalf. It returns a copy, never a mutable reference.
type Identity interface {
	CurrentUser() (domain.User, bool)
}
