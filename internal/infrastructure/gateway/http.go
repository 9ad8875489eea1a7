package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
	"github.com/cursos-uc/cursos-app/internal/pkg/metrics"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-ID"
	contentTypeJSON     = "application/json"
)

// call describes one backend request.
type call struct {
	op     string
	method string
	path   string
	// bearer attaches the session credential; the call fails locally with
	// domain.ErrAuth when there is none.
	bearer bool
	body   any
	// rejected classifies 4xx answers; nil keeps the generic mapping.
	rejected error
	// optionalBody makes a 2xx answer a success even when its body is empty
	// or does not decode; result is then left untouched.
	optionalBody bool
}

// do performs the request and decodes a successful body into result when it
// is non-nil.
func (c *Client) do(ctx context.Context, cl call, result any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var token string
	if cl.bearer {
		token = c.tokens.Token()
		if token == "" {
			return &domain.GatewayError{Kind: domain.ErrAuth, Op: cl.op, Message: "no credential available"}
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &domain.GatewayError{Kind: domain.ErrNetwork, Op: cl.op, Message: err.Error()}
		}
	}

	var bodyReader io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: marshal request body: %w", cl.op, err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, bodyReader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", cl.op, err)
	}
	req.Header.Set(headerContentType, contentTypeJSON)
	req.Header.Set(headerRequestID, uuid.NewString())
	if token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.GatewayRequestDuration.WithLabelValues(cl.op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(cl.op, "transport").Inc()
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "request timed out"
		}
		c.log.Warn().Err(err).Str("op", cl.op).Msg("backend request failed")
		return &domain.GatewayError{Kind: domain.ErrNetwork, Op: cl.op, Message: msg}
	}
	defer resp.Body.Close()

	metrics.GatewayRequestsTotal.WithLabelValues(cl.op, strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.GatewayError{Kind: domain.ErrNetwork, Op: cl.op, Status: resp.StatusCode, Message: err.Error()}
	}

	c.log.Debug().
		Str("op", cl.op).
		Str("method", cl.method).
		Str("path", cl.path).
		Int("status", resp.StatusCode).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(cl, resp.StatusCode, respBody)
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			if cl.optionalBody {
				c.log.Debug().Err(err).Str("op", cl.op).Msg("ignoring undecodable write response")
				return nil
			}
			return &domain.GatewayError{Kind: domain.ErrNetwork, Op: cl.op, Status: resp.StatusCode, Message: "malformed response: " + err.Error()}
		}
	}
	return nil
}

// parseError builds the error for a non-2xx answer. The message is taken from
// the body's "message" or "error" field, else the status text.
func parseError(cl call, status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := http.StatusText(status)
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error != "":
			msg = payload.Error
		}
	}
	return &domain.GatewayError{
		Kind:    domain.KindForStatus(status, cl.rejected),
		Op:      cl.op,
		Status:  status,
		Message: msg,
	}
}
