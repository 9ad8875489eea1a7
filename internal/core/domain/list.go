package domain

import (
	"slices"
	"time"

	"github.com/cursos-uc/cursos-app/internal/pkg/validation"
)

// CourseList is a user-curated, named collection of course ids. Courses is
// ordered but treated as a set: an id never appears twice.
type CourseList struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Courses   []string  `json:"courses"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contains reports whether courseID is already in the list.
func (l CourseList) Contains(courseID string) bool {
	return slices.Contains(l.Courses, courseID)
}

// WithCourse returns the course sequence with courseID appended, or the
// current sequence unchanged if it is already present.
func (l CourseList) WithCourse(courseID string) ([]string, bool) {
	if l.Contains(courseID) {
		return slices.Clone(l.Courses), false
	}
	return append(slices.Clone(l.Courses), courseID), true
}

// WithoutCourse returns the course sequence with every occurrence of courseID
// removed. The second result is false when nothing was removed.
func (l CourseList) WithoutCourse(courseID string) ([]string, bool) {
	out := make([]string, 0, len(l.Courses))
	for _, id := range l.Courses {
		if id != courseID {
			out = append(out, id)
		}
	}
	return out, len(out) != len(l.Courses)
}

// NewCourseList is the payload for creating a list.
type NewCourseList struct {
	UserID string `validate:"required"`
	Name   string `validate:"required,notblank"`
}

// Validate requires an owner and a non-blank name.
func (n NewCourseList) Validate() error {
	if err := validation.Struct(n); err != nil {
		return NewValidationError(err.Error())
	}
	return nil
}

// ListUpdate is the outcome of an add/remove on a list. Changed is false when
// the operation was a no-op; Warning then carries a user-facing explanation.
type ListUpdate struct {
	List    *CourseList `json:"list"`
	Changed bool        `json:"changed"`
	Warning string      `json:"warning,omitempty"`
}
