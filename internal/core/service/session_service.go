package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
	"github.com/cursos-uc/cursos-app/internal/core/ports"
)

// SessionService owns the authenticated user. Login and verification share a
// busy flag; a second call while one runs fails with domain.ErrBusy.
type SessionService struct {
	gw    ports.AuthGateway
	creds *Credentials
	log   zerolog.Logger
	now   func() time.Time

	mu      sync.RWMutex
	user    *domain.User
	busy    bool
	lastErr string
}

func NewSessionService(gw ports.AuthGateway, creds *Credentials, log zerolog.Logger) *SessionService {
	return &SessionService{
		gw:    gw,
		creds: creds,
		log:   log.With().Str("service", "SessionService").Logger(),
		now:   time.Now,
	}
}

// CurrentUser returns a copy of the signed-in user. It satisfies ports.Identity.
func (s *SessionService) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// Busy reports whether a login or verification is in flight.
func (s *SessionService) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// Err returns the message of the last failed login, registration or
// verification, or "" after a success.
func (s *SessionService) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Restore resolves a persisted credential into a user without a fresh login.
// No persisted credential is not an error: the result is simply nil.
func (s *SessionService) Restore(ctx context.Context) (*domain.User, error) {
	token, err := s.creds.Load(ctx)
	if errors.Is(err, ports.ErrNoCredential) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	if tokenExpired(token, s.now()) {
		s.log.Info().Msg("persisted credential expired, discarding")
		s.discardCredential(ctx)
		return nil, nil
	}

	user, err := s.gw.Profile(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAuth) {
			s.log.Info().Err(err).Msg("persisted credential rejected, discarding")
			s.discardCredential(ctx)
		}
		return nil, fmt.Errorf("restore session: %w", err)
	}

	s.setUser(user)
	s.log.Info().Str("user_id", user.ID).Msg("session restored")
	return cloneUser(user), nil
}

// Login authenticates and persists the returned credential. On failure the
// held user is left untouched.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	res, err := s.gw.Login(ctx, email, password)
	if err != nil {
		s.fail("Error al iniciar sesión", err)
		return nil, fmt.Errorf("login: %w", err)
	}

	if res.Token != "" {
		if err := s.creds.Set(ctx, res.Token); err != nil {
			s.log.Warn().Err(err).Msg("credential not persisted, session limited to this process")
		}
	}
	s.setUser(res.User)
	s.log.Info().Str("user_id", res.User.ID).Msg("logged in")
	return cloneUser(res.User), nil
}

// Register creates an unverified account and holds it as the current user.
// Registration never grants a credential.
func (s *SessionService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	user, err := s.gw.Register(ctx, email, name, password)
	if err != nil {
		s.fail("Error al registrarse", err)
		return nil, fmt.Errorf("register: %w", err)
	}
	s.setUser(user)
	s.log.Info().Str("user_id", user.ID).Msg("registered")
	return cloneUser(user), nil
}

// Verify exchanges a one-time code for verified status. A held user is marked
// verified in place; a returned credential is persisted. When a credential
// arrives but no user is held, the profile is fetched to fill it.
func (s *SessionService) Verify(ctx context.Context, email, code string) (*domain.User, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	token, err := s.gw.Verify(ctx, email, code)
	if err != nil {
		s.fail("Error al verificar el código", err)
		return nil, fmt.Errorf("verify: %w", err)
	}

	if token != "" {
		if err := s.creds.Set(ctx, token); err != nil {
			s.log.Warn().Err(err).Msg("credential not persisted, session limited to this process")
		}
	}

	s.mu.Lock()
	if s.user != nil {
		s.user.IsVerified = true
		u := *s.user
		s.mu.Unlock()
		return &u, nil
	}
	s.mu.Unlock()

	if token == "" {
		return nil, nil
	}
	user, err := s.gw.Profile(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("profile after verification failed")
		return nil, nil
	}
	user.IsVerified = true
	s.setUser(user)
	return cloneUser(user), nil
}

// Logout drops the user and the credential. Remote revocation is best-effort:
// its failure is logged and never surfaces.
func (s *SessionService) Logout(ctx context.Context) {
	if s.creds.Token() != "" {
		if err := s.gw.Logout(ctx); err != nil {
			s.log.Warn().Err(err).Msg("remote logout failed")
		}
	}

	s.mu.Lock()
	s.user = nil
	s.lastErr = ""
	s.mu.Unlock()

	s.discardCredential(ctx)
	s.log.Info().Msg("logged out")
}

func (s *SessionService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.ErrBusy
	}
	s.busy = true
	s.lastErr = ""
	return nil
}

func (s *SessionService) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *SessionService) fail(fallback string, err error) {
	msg := fallback
	var ge *domain.GatewayError
	if errors.As(err, &ge) && ge.Message != "" {
		msg = ge.Message
	}
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
	s.log.Warn().Err(err).Msg(fallback)
}

func (s *SessionService) setUser(u *domain.User) {
	s.mu.Lock()
	s.user = cloneUser(u)
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *SessionService) discardCredential(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to discard credential")
	}
}

// tokenExpired reports whether token is a JWT whose exp claim lies before now.
// Opaque tokens are never considered expired; the backend decides.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
