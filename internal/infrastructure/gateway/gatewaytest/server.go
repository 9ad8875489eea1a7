// Package gatewaytest serves the fake backend to tests. Binaries use
// fakebackend directly.
package gatewaytest

import (
	"net/http/httptest"
	"testing"

	"github.com/cursos-uc/cursos-app/internal/infrastructure/gateway/fakebackend"
)

// NewServer starts a backend on a local listener, closed at test cleanup.
func NewServer(t testing.TB) (*fakebackend.Backend, *httptest.Server) {
	t.Helper()
	b := fakebackend.New()
	srv := httptest.NewServer(b.Echo)
	t.Cleanup(srv.Close)
	return b, srv
}
