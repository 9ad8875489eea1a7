package redis

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/cursos-uc/cursos-app/internal/core/ports"
)

// Runs against a live server; set TEST_REDIS_ADDR to enable.
func TestCredentialStore_Live(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr, DB: 15})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	s := NewCredentialStore(client, "test-"+t.Name())
	t.Cleanup(func() { _ = s.Clear(context.Background()) })

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
