package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

func TestResolveError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), 400, "invalid payload"},
		{"validation", domain.NewValidationError("name is required"), 422, "name is required"},
		{"busy", fmt.Errorf("delete list: %w", domain.ErrBusy), 409, "operation already in progress"},
		{"forbidden", domain.ErrForbidden, 403, "access forbidden"},
		{
			"gateway message",
			&domain.GatewayError{Kind: domain.ErrNotFound, Op: "get_course", Status: 404, Message: "Curso no encontrado"},
			404, "Curso no encontrado",
		},
		{
			"gateway without message",
			fmt.Errorf("load: %w", &domain.GatewayError{Kind: domain.ErrNetwork, Op: "list_courses"}),
			502, "backend unavailable",
		},
		{"verification", &domain.GatewayError{Kind: domain.ErrVerification, Message: "Código inválido"}, 400, "Código inválido"},
		{"unknown", errors.New("boom"), 500, "internal server error"},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			code, msg := resolveError(tt.err, zerolog.Nop(), c)
			if code != tt.wantCode || msg != tt.wantMsg {
				t.Fatalf("got (%d, %q), want (%d, %q)", code, msg, tt.wantCode, tt.wantMsg)
			}
		})
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrBusy, c)
	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was rewritten: %d %q", rec.Code, rec.Body.String())
	}
}
