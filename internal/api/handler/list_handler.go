package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cursos-uc/cursos-app/internal/api/middleware"
	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

// ListManager is the signed-in user's list store.
type ListManager interface {
	Load(ctx context.Context) error
	Lists() []domain.CourseList
	Courses() map[string]domain.Course
	CreateList(ctx context.Context, userID, name string) (*domain.CourseList, error)
	DeleteList(ctx context.Context, listID string) error
	AddCourse(ctx context.Context, listID, courseID string) (*domain.ListUpdate, error)
	RemoveCourse(ctx context.Context, listID, courseID string) (*domain.ListUpdate, error)
}

type ListHandler struct {
	lists ListManager
}

func NewListHandler(lists ListManager) *ListHandler {
	return &ListHandler{lists: lists}
}

func (h *ListHandler) snapshot() listsResponse {
	return listsResponse{Lists: nonNil(h.lists.Lists()), Courses: h.lists.Courses()}
}

// List reloads and returns the user's lists with their hydrated courses.
//
// @Summary      My lists
// @Tags         lists
// @Produce      json
// @Success      200  {object}  listsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/lists [get]
func (h *ListHandler) List(c echo.Context) error {
	if err := h.lists.Load(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.snapshot())
}

// Create makes a new empty list.
//
// @Summary      Create list
// @Tags         lists
// @Accept       json
// @Produce      json
// @Param        body  body      createListRequest  true  "List"
// @Success      201   {object}  domain.CourseList
// @Failure      422   {object}  errorResponse
// @Router       /api/lists [post]
func (h *ListHandler) Create(c echo.Context) error {
	var req createListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	user, _ := middleware.SessionUser(c)

	created, err := h.lists.CreateList(c.Request().Context(), user.ID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Delete removes a list.
//
// @Summary      Delete list
// @Tags         lists
// @Param        id   path  string  true  "List ID"
// @Success      204
// @Failure      409  {object}  errorResponse
// @Router       /api/lists/{id} [delete]
func (h *ListHandler) Delete(c echo.Context) error {
	if err := h.lists.DeleteList(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddCourse adds a course to a list.
//
// @Summary      Add course
// @Tags         lists
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "List ID"
// @Param        body  body      addCourseRequest  true  "Course"
// @Success      200   {object}  domain.ListUpdate
// @Router       /api/lists/{id}/courses [post]
func (h *ListHandler) AddCourse(c echo.Context) error {
	var req addCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	upd, err := h.lists.AddCourse(c.Request().Context(), c.Param("id"), req.CourseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, upd)
}

// RemoveCourse removes a course from a list.
//
// @Summary      Remove course
// @Tags         lists
// @Produce      json
// @Param        id        path      string  true  "List ID"
// @Param        courseId  path      string  true  "Course ID"
// @Success      200       {object}  domain.ListUpdate
// @Router       /api/lists/{id}/courses/{courseId} [delete]
func (h *ListHandler) RemoveCourse(c echo.Context) error {
	upd, err := h.lists.RemoveCourse(c.Request().Context(), c.Param("id"), c.Param("courseId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, upd)
}
