package service

import (
	"context"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
	"github.com/cursos-uc/cursos-app/internal/core/ports"
)

const (
	warnAlreadyInList = "Este curso ya está en la lista seleccionada."
	warnNotInList     = "El curso no está en la lista."
)

// rewriteList runs one read-modify-write cycle on a list: fetch the current
// list, compute the new course sequence, PUT the whole object, then refetch.
// The write carries no revision, so a concurrent writer's change made between
// the fetch and the PUT is overwritten (last write wins).
//
// When edit reports no change the PUT is skipped and the fetched list is
// returned with Changed=false.
func rewriteList(
	ctx context.Context,
	gw ports.ListGateway,
	listID string,
	edit func(domain.CourseList) ([]string, bool),
) (*domain.ListUpdate, error) {
	current, err := gw.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}

	courses, changed := edit(*current)
	if !changed {
		return &domain.ListUpdate{List: current}, nil
	}

	next := *current
	next.Courses = courses
	if err := gw.UpdateList(ctx, next); err != nil {
		return nil, err
	}

	fresh, err := gw.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	return &domain.ListUpdate{List: fresh, Changed: true}, nil
}

func addCourseEdit(courseID string) func(domain.CourseList) ([]string, bool) {
	return func(l domain.CourseList) ([]string, bool) { return l.WithCourse(courseID) }
}

func removeCourseEdit(courseID string) func(domain.CourseList) ([]string, bool) {
	return func(l domain.CourseList) ([]string, bool) { return l.WithoutCourse(courseID) }
}
