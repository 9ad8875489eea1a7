package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps error kinds
// to status codes and renders {"error": "<message>"}. Backend and validation
// messages are shown as is; anything unclassified is logged and hidden.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

var kindStatus = []struct {
	kind   error
	status int
	msg    string
}{
	{domain.ErrValidation, http.StatusUnprocessableEntity, "invalid input"},
	{domain.ErrAuth, http.StatusUnauthorized, "authentication required"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, "not found"},
	{domain.ErrBusy, http.StatusConflict, "operation already in progress"},
	{domain.ErrVerification, http.StatusBadRequest, "invalid verification code"},
	{domain.ErrNetwork, http.StatusBadGateway, "backend unavailable"},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, k := range kindStatus {
		if !errors.Is(err, k.kind) {
			continue
		}
		msg := k.msg
		var ge *domain.GatewayError
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ge) && ge.Message != "":
			msg = ge.Message
		case errors.As(err, &ve):
			msg = ve.Message
		}
		if k.status >= http.StatusInternalServerError {
			log.Warn().Err(err).Str("path", c.Path()).Msg("backend call failed")
		}
		return k.status, msg
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
