package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cursos-uc/cursos-app/internal/api/middleware"
	"github.com/cursos-uc/cursos-app/internal/core/domain"
	"github.com/cursos-uc/cursos-app/internal/core/service"
)

// CourseDetails opens course aggregates.
type CourseDetails interface {
	Load(ctx context.Context, courseID string) (*service.CourseDetail, error)
	UserComments(ctx context.Context, userID string) ([]domain.Comment, error)
	AddToList(ctx context.Context, listID, courseID string) (*domain.ListUpdate, error)
}

// DetailHandler serves a course page. Each request loads the aggregate fresh,
// so authorship checks run against the backend's current comments.
type DetailHandler struct {
	details CourseDetails
	now     func() time.Time
}

func NewDetailHandler(details CourseDetails) *DetailHandler {
	return &DetailHandler{details: details, now: time.Now}
}

func (h *DetailHandler) render(c echo.Context, status int, d *service.CourseDetail) error {
	course := d.Course()
	return c.JSON(status, courseDetailResponse{
		Course:         course,
		Comments:       nonNil(d.Comments()),
		BuscaCursosURL: domain.BuscaCursosURL(course.Code, h.now()),
	})
}

// Get returns one course with its comments.
//
// @Summary      Course detail
// @Tags         courses
// @Produce      json
// @Param        id   path      string  true  "Course ID"
// @Success      200  {object}  courseDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/courses/{id} [get]
func (h *DetailHandler) Get(c echo.Context) error {
	d, err := h.details.Load(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, d)
}

// AddComment posts a comment as the signed-in user.
//
// @Summary      Add comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Course ID"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  courseDetailResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/courses/{id}/comments [post]
func (h *DetailHandler) AddComment(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	user, _ := middleware.SessionUser(c)

	ctx := c.Request().Context()
	d, err := h.details.Load(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if err := d.AddComment(ctx, user.ID, user.Name, req.input()); err != nil {
		return err
	}
	return h.render(c, http.StatusCreated, d)
}

// EditComment rewrites one of the signed-in user's comments.
//
// @Summary      Edit comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id         path      string          true  "Course ID"
// @Param        commentId  path      string          true  "Comment ID"
// @Param        body       body      commentRequest  true  "Comment"
// @Success      200        {object}  courseDetailResponse
// @Failure      403        {object}  errorResponse
// @Router       /api/courses/{id}/comments/{commentId} [put]
func (h *DetailHandler) EditComment(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ctx := c.Request().Context()
	d, err := h.details.Load(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if err := d.EditComment(ctx, c.Param("commentId"), req.input()); err != nil {
		return err
	}
	return h.render(c, http.StatusOK, d)
}

// DeleteComment soft-deletes one of the signed-in user's comments.
//
// @Summary      Delete comment
// @Tags         comments
// @Produce      json
// @Param        id         path      string  true  "Course ID"
// @Param        commentId  path      string  true  "Comment ID"
// @Success      200        {object}  courseDetailResponse
// @Failure      403        {object}  errorResponse
// @Router       /api/courses/{id}/comments/{commentId} [delete]
func (h *DetailHandler) DeleteComment(c echo.Context) error {
	ctx := c.Request().Context()
	d, err := h.details.Load(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if err := d.DeleteComment(ctx, c.Param("commentId")); err != nil {
		return err
	}
	return h.render(c, http.StatusOK, d)
}

// AddToList adds the course to one of the user's lists.
//
// @Summary      Add course to list
// @Tags         lists
// @Produce      json
// @Param        id      path      string  true  "Course ID"
// @Param        listId  path      string  true  "List ID"
// @Success      200     {object}  domain.ListUpdate
// @Router       /api/courses/{id}/lists/{listId} [post]
func (h *DetailHandler) AddToList(c echo.Context) error {
	upd, err := h.details.AddToList(c.Request().Context(), c.Param("listId"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, upd)
}

// MyComments lists the signed-in user's comments across courses.
//
// @Summary      My comments
// @Tags         comments
// @Produce      json
// @Success      200  {object}  commentsResponse
// @Router       /api/me/comments [get]
func (h *DetailHandler) MyComments(c echo.Context) error {
	user, _ := middleware.SessionUser(c)
	comments, err := h.details.UserComments(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentsResponse{Comments: nonNil(comments)})
}
