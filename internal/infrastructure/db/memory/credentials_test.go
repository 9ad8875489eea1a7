package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/cursos-uc/cursos-app/internal/core/ports"
)

func TestCredentialStore(t *testing.T) {
	s := NewCredentialStore()
	ctx := context.Background()

	if _, err := s.Load(ctx); !errors.Is(err, ports.ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
	if err := s.Save(ctx, "tok"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got, err := s.Load(ctx); err != nil || got != "tok" {
		t.Fatalf("expected tok, got %q %v", got, err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := s.Load(ctx); !errors.Is(err, ports.ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential after clear, got %v", err)
	}
}
