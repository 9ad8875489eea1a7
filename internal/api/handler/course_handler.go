package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

// Catalog is the full course collection.
type Catalog interface {
	Refresh(ctx context.Context) error
	Sort(criteria domain.SortCriteria, order domain.SortOrder)
	Courses() []domain.Course
	Loading() bool
	Err() string
}

// Searcher is the filtered view derived from a fresh catalog fetch.
type Searcher interface {
	Search(ctx context.Context, query string, filters domain.SearchFilters) ([]domain.Course, error)
	Results() ([]domain.Course, bool)
	Sort(criteria domain.SortCriteria, order domain.SortOrder) bool
	Clear()
}

// CourseHandler serves the home view. Once a search has run, the view and
// every sort apply to the search results until the search is cleared.
type CourseHandler struct {
	catalog Catalog
	search  Searcher
}

func NewCourseHandler(catalog Catalog, search Searcher) *CourseHandler {
	return &CourseHandler{catalog: catalog, search: search}
}

func (h *CourseHandler) view() coursesResponse {
	if results, searched := h.search.Results(); searched {
		return coursesResponse{Courses: nonNil(results), Searched: true}
	}
	return coursesResponse{
		Courses: nonNil(h.catalog.Courses()),
		Loading: h.catalog.Loading(),
		Error:   h.catalog.Err(),
	}
}

// List returns the visible courses.
//
// @Summary      Home view
// @Tags         courses
// @Produce      json
// @Success      200  {object}  coursesResponse
// @Router       /api/courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.view())
}

// Refresh refetches the catalog.
//
// @Summary      Refresh catalog
// @Tags         courses
// @Produce      json
// @Success      200  {object}  coursesResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/courses/refresh [post]
func (h *CourseHandler) Refresh(c echo.Context) error {
	if err := h.catalog.Refresh(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view())
}

// Sort orders the visible courses.
//
// @Summary      Sort visible courses
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        body  body      sortRequest  true  "rating|difficulty, asc|desc"
// @Success      200   {object}  coursesResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/courses/sort [post]
func (h *CourseHandler) Sort(c echo.Context) error {
	var req sortRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	criteria, order, err := domain.ParseSort(req.Criteria, req.Order)
	if err != nil {
		return err
	}

	if !h.search.Sort(criteria, order) {
		h.catalog.Sort(criteria, order)
	}
	return c.JSON(http.StatusOK, h.view())
}

// Search runs a search and makes its results the visible courses.
//
// @Summary      Search courses
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        body  body      searchRequest  true  "Query and filters"
// @Success      200   {object}  coursesResponse
// @Failure      409   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/search [post]
func (h *CourseHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	filters := domain.SearchFilters{Area: req.Area, Difficulty: req.Difficulty, Rating: req.Rating}
	if _, err := h.search.Search(c.Request().Context(), req.Query, filters); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view())
}

// ClearSearch returns the home view to the full catalog.
//
// @Summary      Clear search
// @Tags         courses
// @Produce      json
// @Success      200  {object}  coursesResponse
// @Router       /api/search [delete]
func (h *CourseHandler) ClearSearch(c echo.Context) error {
	h.search.Clear()
	return c.JSON(http.StatusOK, h.view())
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
