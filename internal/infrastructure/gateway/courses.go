package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

// ListCourses fetches the whole catalog.
func (c *Client) ListCourses(ctx context.Context) ([]domain.Course, error) {
	var body json.RawMessage
	if err := c.do(ctx, call{op: "list_courses", method: http.MethodGet, path: "/courses/all"}, &body); err != nil {
		return nil, err
	}
	items, err := decodeMany[apiCourse](unwrapData(body))
	if err != nil {
		return nil, malformed("list_courses", err)
	}
	out := make([]domain.Course, 0, len(items))
	for _, it := range items {
		out = append(out, it.toDomain())
	}
	return out, nil
}

// GetCourse fetches one course. The backend may answer with an object or a
// one-element array; an empty answer is domain.ErrNotFound.
func (c *Client) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	var body json.RawMessage
	cl := call{op: "get_course", method: http.MethodGet, path: "/courses/" + url.PathEscape(id)}
	if err := c.do(ctx, cl, &body); err != nil {
		return nil, err
	}
	items, err := decodeMany[apiCourse](unwrapData(body))
	if err != nil {
		return nil, malformed(cl.op, err)
	}
	if len(items) == 0 {
		return nil, &domain.GatewayError{Kind: domain.ErrNotFound, Op: cl.op, Status: http.StatusOK, Message: "course " + id + " not found"}
	}
	course := items[0].toDomain()
	return &course, nil
}

func malformed(op string, err error) error {
	return &domain.GatewayError{Kind: domain.ErrNetwork, Op: op, Message: fmt.Sprintf("malformed response: %v", err)}
}
