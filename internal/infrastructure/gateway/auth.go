package gateway

import (
	"context"
	"net/http"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type userEnvelope struct {
	User  *apiUser `json:"user"`
	Token string   `json:"token"`
}

// Login exchanges credentials for a user and a bearer token. Any 4xx answer is
// a domain.ErrAuth.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	var env userEnvelope
	cl := call{
		op:       "login",
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     credentialsRequest{Email: email, Password: password},
		rejected: domain.ErrAuth,
	}
	if err := c.do(ctx, cl, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, malformedUser(cl.op)
	}
	return &domain.AuthResult{User: env.User.toDomain(), Token: env.Token}, nil
}

func (c *Client) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	var env userEnvelope
	cl := call{
		op:       "register",
		method:   http.MethodPost,
		path:     "/auth/signup",
		body:     credentialsRequest{Email: email, Name: name, Password: password},
		rejected: domain.ErrValidation,
	}
	if err := c.do(ctx, cl, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, malformedUser(cl.op)
	}
	return env.User.toDomain(), nil
}

// Verify submits a one-time code. Any 4xx answer is a domain.ErrVerification.
func (c *Client) Verify(ctx context.Context, email, code string) (string, error) {
	var env userEnvelope
	cl := call{
		op:       "verify",
		method:   http.MethodPost,
		path:     "/auth/verify",
		body:     verifyRequest{Email: email, Code: code},
		rejected: domain.ErrVerification,
	}
	if err := c.do(ctx, cl, &env); err != nil {
		return "", err
	}
	return env.Token, nil
}

func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var env userEnvelope
	cl := call{op: "profile", method: http.MethodGet, path: "/auth/profile", bearer: true}
	if err := c.do(ctx, cl, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, malformedUser(cl.op)
	}
	return env.User.toDomain(), nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{op: "logout", method: http.MethodPost, path: "/auth/logout", bearer: true}, nil)
}

func malformedUser(op string) error {
	return &domain.GatewayError{Kind: domain.ErrNetwork, Op: op, Message: "malformed response: missing user"}
}
