package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

func (c *Client) ListCourseComments(ctx context.Context, courseID string) ([]domain.Comment, error) {
	return c.listComments(ctx, "list_course_comments", "/comments/course/"+url.PathEscape(courseID))
}

func (c *Client) ListUserComments(ctx context.Context, userID string) ([]domain.Comment, error) {
	return c.listComments(ctx, "list_user_comments", "/comments/user/"+url.PathEscape(userID))
}

func (c *Client) listComments(ctx context.Context, op, path string) ([]domain.Comment, error) {
	var body json.RawMessage
	if err := c.do(ctx, call{op: op, method: http.MethodGet, path: path}, &body); err != nil {
		return nil, err
	}
	items, err := decodeMany[apiComment](unwrapData(body))
	if err != nil {
		return nil, malformed(op, err)
	}
	out := make([]domain.Comment, 0, len(items))
	for _, it := range items {
		out = append(out, it.toDomain())
	}
	return out, nil
}

// CreateComment posts a new comment. The author name is not stored by the
// backend, so the returned comment carries the one supplied in. A 2xx answer
// without a decodable comment yields (nil, nil): the write was accepted and
// callers resync from the comment list.
func (c *Client) CreateComment(ctx context.Context, in domain.NewComment) (*domain.Comment, error) {
	var body json.RawMessage
	cl := call{
		op:     "create_comment",
		method: http.MethodPost,
		path:   "/comments/",
		body: commentPayload{
			CourseID:    in.CourseID,
			UserID:      in.UserID,
			Description: in.Content,
			Rating:      in.Rating,
			Difficulty:  in.Difficulty,
		},
		optionalBody: true,
	}
	if err := c.do(ctx, cl, &body); err != nil {
		return nil, err
	}
	raw, ok := c.writtenComment(cl.op, body)
	if !ok {
		return nil, nil
	}
	created := raw.toDomain()
	created.UserName = in.UserName
	return &created, nil
}

// UpdateComment rewrites a comment. Same response handling as CreateComment.
func (c *Client) UpdateComment(ctx context.Context, commentID string, in domain.CommentInput) (*domain.Comment, error) {
	var body json.RawMessage
	cl := call{
		op:     "update_comment",
		method: http.MethodPut,
		path:   "/comments/" + url.PathEscape(commentID),
		body: commentPayload{
			Description: in.Content,
			Rating:      in.Rating,
			Difficulty:  in.Difficulty,
		},
		optionalBody: true,
	}
	if err := c.do(ctx, cl, &body); err != nil {
		return nil, err
	}
	raw, ok := c.writtenComment(cl.op, body)
	if !ok {
		return nil, nil
	}
	updated := raw.toDomain()
	return &updated, nil
}

// writtenComment decodes the comment echoed by a write, if any.
func (c *Client) writtenComment(op string, body json.RawMessage) (apiComment, bool) {
	var raw apiComment
	if len(bytes.TrimSpace(body)) == 0 {
		return raw, false
	}
	if err := json.Unmarshal(unwrapData(body), &raw); err != nil {
		c.log.Debug().Err(err).Str("op", op).Msg("write response carries no comment")
		return raw, false
	}
	return raw, true
}

// DeleteComment soft-deletes a comment.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, call{
		op:     "delete_comment",
		method: http.MethodPut,
		path:   "/comments/delete/" + url.PathEscape(commentID),
		bearer: true,
	}, nil)
}
