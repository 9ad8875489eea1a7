// Package memory holds process-local stores, used when no persistent backend
// is configured.
package memory

import (
	"context"
	"sync"

	"github.com/cursos-uc/cursos-app/internal/core/ports"
)

// CredentialStore keeps the credential for the life of the process.
type CredentialStore struct {
	mu    sync.Mutex
	token string
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

func (s *CredentialStore) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", ports.ErrNoCredential
	}
	return s.token, nil
}

func (s *CredentialStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *CredentialStore) Clear(context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

var _ ports.CredentialStore = (*CredentialStore)(nil)
