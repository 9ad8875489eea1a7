package domain

import (
	"errors"
	"testing"
)

func TestCourseList_WithCourse(t *testing.T) {
	l := CourseList{Courses: []string{"1", "2"}}

	got, changed := l.WithCourse("3")
	if !changed || len(got) != 3 || got[2] != "3" {
		t.Fatalf("expected append, got %v changed=%v", got, changed)
	}
	if len(l.Courses) != 2 {
		t.Fatalf("receiver must not be modified")
	}

	got, changed = l.WithCourse("2")
	if changed || len(got) != 2 {
		t.Fatalf("expected no-op for present course, got %v changed=%v", got, changed)
	}
}

func TestCourseList_WithoutCourse(t *testing.T) {
	l := CourseList{Courses: []string{"1", "2", "3"}}

	got, changed := l.WithoutCourse("2")
	if !changed || len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Fatalf("unexpected removal: %v changed=%v", got, changed)
	}

	if _, changed := l.WithoutCourse("9"); changed {
		t.Fatalf("removing an absent course must report no change")
	}
}

func TestNewCourseList_Validate(t *testing.T) {
	if err := (NewCourseList{UserID: "1", Name: "Favoritos"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (NewCourseList{UserID: "1", Name: "   "}).Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for blank name, got %v", err)
	}
	if err := (NewCourseList{Name: "x"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation without owner, got %v", err)
	}
}
