package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

// SessionManager is the session store as seen by the API.
type SessionManager interface {
	CurrentUser() (domain.User, bool)
	Busy() bool
	Err() string
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, email, name, password string) (*domain.User, error)
	Verify(ctx context.Context, email, code string) (*domain.User, error)
	Logout(ctx context.Context)
}

type SessionHandler struct {
	session SessionManager
}

func NewSessionHandler(session SessionManager) *SessionHandler {
	return &SessionHandler{session: session}
}

func (h *SessionHandler) snapshot() sessionResponse {
	resp := sessionResponse{Busy: h.session.Busy(), Error: h.session.Err()}
	if u, ok := h.session.CurrentUser(); ok {
		resp.User = &u
	}
	return resp
}

// Get returns the current session.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.snapshot())
}

// Login authenticates against the backend and persists the credential.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if _, err := h.session.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.snapshot())
}

// Register creates an unverified account.
//
// @Summary      Register
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account"
// @Success      201   {object}  sessionResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/session/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if _, err := h.session.Register(c.Request().Context(), req.Email, req.Name, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.snapshot())
}

// Verify submits the emailed one-time code.
//
// @Summary      Verify account
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRequest  true  "Code"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/session/verify [post]
func (h *SessionHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if _, err := h.session.Verify(c.Request().Context(), req.Email, req.Code); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.snapshot())
}

// Logout drops the session. It always succeeds.
//
// @Summary      Logout
// @Tags         session
// @Success      204
// @Router       /api/session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	h.session.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}
