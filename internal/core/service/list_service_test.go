package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

func newLists(gw *stubGateway, user *domain.User) *ListService {
	return NewListService(gw, gw, fixedIdentity{user: user}, 2, zerolog.Nop())
}

func TestLists_LoadRequiresSession(t *testing.T) {
	gw := &stubGateway{}
	svc := newLists(gw, nil)

	if err := svc.Load(context.Background()); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	if gw.count("ListUserLists") != 0 {
		t.Fatalf("no backend call expected without a session")
	}
}

func TestLists_LoadHydratesEachCourseOnce(t *testing.T) {
	gw := &stubGateway{}
	lb := newListBackend(
		domain.CourseList{ID: "L1", UserID: ana.ID, Name: "A", Courses: []string{"1", "2"}},
		domain.CourseList{ID: "L2", UserID: ana.ID, Name: "B", Courses: []string{"2", "3"}},
	)
	lb.wire(gw)
	svc := newLists(gw, ana)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svc.Lists()) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(svc.Lists()))
	}
	if n := gw.count("GetCourse"); n != 3 {
		t.Fatalf("expected 3 distinct course fetches, got %d", n)
	}
	if len(svc.Courses()) != 3 {
		t.Fatalf("expected 3 hydrated courses, got %d", len(svc.Courses()))
	}

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if n := gw.count("GetCourse"); n != 3 {
		t.Fatalf("cached courses must not be refetched, got %d fetches", n)
	}
}

func TestLists_HydrationFailureIsPartial(t *testing.T) {
	gw := &stubGateway{getCourse: func(_ context.Context, id string) (*domain.Course, error) {
		if id == "2" {
			return nil, errBackendDown
		}
		return &domain.Course{ID: id}, nil
	}}
	lb := newListBackend(domain.CourseList{ID: "L1", UserID: ana.ID, Name: "A", Courses: []string{"1", "2"}})
	lb.wire(gw)
	svc := newLists(gw, ana)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("hydration failures must not fail the load: %v", err)
	}
	courses := svc.Courses()
	if _, ok := courses["1"]; !ok {
		t.Fatalf("course 1 should be hydrated")
	}
	if _, ok := courses["2"]; ok {
		t.Fatalf("course 2 should stay unhydrated")
	}
}

func TestLists_AddCourseIsIdempotent(t *testing.T) {
	gw := &stubGateway{}
	lb := newListBackend(domain.CourseList{ID: "L1", UserID: ana.ID, Name: "A", Courses: []string{"1"}})
	lb.wire(gw)
	svc := newLists(gw, ana)
	ctx := context.Background()

	upd, err := svc.AddCourse(ctx, "L1", "2")
	if err != nil || !upd.Changed {
		t.Fatalf("expected change, got %+v %v", upd, err)
	}
	upd, err = svc.AddCourse(ctx, "L1", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Changed || upd.Warning == "" {
		t.Fatalf("second add must be a warned no-op, got %+v", upd)
	}
	if got := lb.courses("L1"); len(got) != 2 {
		t.Fatalf("expected no duplicate, got %v", got)
	}
	if gw.count("UpdateList") != 1 {
		t.Fatalf("expected a single write, got %d", gw.count("UpdateList"))
	}
}

func TestLists_RemoveCourse(t *testing.T) {
	gw := &stubGateway{}
	lb := newListBackend(domain.CourseList{ID: "L1", UserID: ana.ID, Name: "A", Courses: []string{"1", "2"}})
	lb.wire(gw)
	svc := newLists(gw, ana)
	ctx := context.Background()

	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	upd, err := svc.RemoveCourse(ctx, "L1", "1")
	if err != nil || !upd.Changed {
		t.Fatalf("expected change, got %+v %v", upd, err)
	}
	if got := svc.Lists()[0].Courses; len(got) != 1 || got[0] != "2" {
		t.Fatalf("held list not replaced, got %v", got)
	}

	upd, err = svc.RemoveCourse(ctx, "L1", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Changed {
		t.Fatalf("removing an absent course must not change the list")
	}
	if gw.count("UpdateList") != 1 {
		t.Fatalf("no write expected for an absent course")
	}
}

func TestLists_RemovalsAreTrackedPerListAndCourse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gw := &stubGateway{getList: func(_ context.Context, id string) (*domain.CourseList, error) {
		if id == "a_b" {
			close(started)
			<-release
		}
		return &domain.CourseList{ID: id, UserID: ana.ID, Name: id}, nil
	}}
	svc := newLists(gw, ana)

	done := make(chan error, 1)
	go func() {
		_, err := svc.RemoveCourse(context.Background(), "a_b", "c")
		done <- err
	}()
	<-started

	if !svc.Removing("a_b", "c") {
		t.Fatalf("expected removal in flight")
	}
	if svc.Removing("a", "b_c") {
		t.Fatalf("a different list and course pair must not read as busy")
	}
	if _, err := svc.RemoveCourse(context.Background(), "a", "b_c"); err != nil {
		t.Fatalf("unrelated removal: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first removal: %v", err)
	}
	if svc.Removing("a_b", "c") {
		t.Fatalf("busy flag not released")
	}
}

func TestLists_DeleteOnlyAfterConfirmation(t *testing.T) {
	gw := &stubGateway{}
	lb := newListBackend(domain.CourseList{ID: "L1", UserID: ana.ID, Name: "A"})
	lb.wire(gw)
	svc := newLists(gw, ana)
	ctx := context.Background()

	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	gw.deleteList = func(context.Context, string) error { return errBackendDown }
	if err := svc.DeleteList(ctx, "L1"); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if len(svc.Lists()) != 1 {
		t.Fatalf("list must stay after a failed delete")
	}
	if svc.Deleting("L1") {
		t.Fatalf("busy flag not released")
	}

	gw.deleteList = nil
	if err := svc.DeleteList(ctx, "L1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(svc.Lists()) != 0 {
		t.Fatalf("list must be gone after a confirmed delete")
	}
}

func TestLists_DeleteWhileDeleting(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gw := &stubGateway{deleteList: func(context.Context, string) error {
		close(started)
		<-release
		return nil
	}}
	svc := newLists(gw, ana)

	done := make(chan error, 1)
	go func() { done <- svc.DeleteList(context.Background(), "L1") }()
	<-started

	if err := svc.DeleteList(context.Background(), "L1"); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first delete: %v", err)
	}
}

func TestLists_CreateValidatesName(t *testing.T) {
	gw := &stubGateway{}
	svc := newLists(gw, ana)

	if _, err := svc.CreateList(context.Background(), ana.ID, "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if gw.count("CreateList") != 0 {
		t.Fatalf("blank name must not reach the backend")
	}

	created, err := svc.CreateList(context.Background(), ana.ID, "Semestre 1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Semestre 1" || len(svc.Lists()) != 1 {
		t.Fatalf("created list not held")
	}
}
