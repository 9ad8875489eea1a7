package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

// ListUserLists returns every list owned by userID. A single object answer is
// read as a list of one.
func (c *Client) ListUserLists(ctx context.Context, userID string) ([]domain.CourseList, error) {
	var body json.RawMessage
	cl := call{op: "list_user_lists", method: http.MethodGet, path: "/lists/user/" + url.PathEscape(userID), bearer: true}
	if err := c.do(ctx, cl, &body); err != nil {
		return nil, err
	}
	items, err := decodeMany[apiList](unwrapData(body))
	if err != nil {
		return nil, malformed(cl.op, err)
	}
	out := make([]domain.CourseList, 0, len(items))
	for _, it := range items {
		out = append(out, it.toDomain())
	}
	return out, nil
}

func (c *Client) GetList(ctx context.Context, listID string) (*domain.CourseList, error) {
	var body json.RawMessage
	cl := call{op: "get_list", method: http.MethodGet, path: "/lists/" + url.PathEscape(listID), bearer: true}
	if err := c.do(ctx, cl, &body); err != nil {
		return nil, err
	}
	return decodeList(cl.op, body)
}

func (c *Client) CreateList(ctx context.Context, in domain.NewCourseList) (*domain.CourseList, error) {
	var body json.RawMessage
	cl := call{
		op:     "create_list",
		method: http.MethodPost,
		path:   "/lists/",
		bearer: true,
		body:   listPayload{UserID: in.UserID, Name: in.Name},
	}
	if err := c.do(ctx, cl, &body); err != nil {
		return nil, err
	}
	return decodeList(cl.op, body)
}

// UpdateList replaces the list's owner, name and full course sequence.
func (c *Client) UpdateList(ctx context.Context, list domain.CourseList) error {
	courses := list.Courses
	if courses == nil {
		courses = []string{}
	}
	return c.do(ctx, call{
		op:     "update_list",
		method: http.MethodPut,
		path:   "/lists/" + url.PathEscape(list.ID),
		bearer: true,
		body: struct {
			UserID  string   `json:"user_id"`
			Name    string   `json:"name"`
			Courses []string `json:"courses"`
		}{list.UserID, list.Name, courses},
	}, nil)
}

func (c *Client) DeleteList(ctx context.Context, listID string) error {
	return c.do(ctx, call{
		op:     "delete_list",
		method: http.MethodDelete,
		path:   "/lists/delete/" + url.PathEscape(listID),
		bearer: true,
	}, nil)
}

func decodeList(op string, body json.RawMessage) (*domain.CourseList, error) {
	var raw apiList
	if err := json.Unmarshal(unwrapData(body), &raw); err != nil {
		return nil, malformed(op, err)
	}
	l := raw.toDomain()
	return &l, nil
}
