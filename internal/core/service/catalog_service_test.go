package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

func sampleCatalog() []domain.Course {
	return []domain.Course{
		{ID: "1", Code: "IIC2233", Name: "Programación Avanzada", Difficulty: 5, AverageRating: 4.8},
		{ID: "2", Code: "MAT1610", Name: "Cálculo I", Difficulty: 5, AverageRating: 4.1},
		{ID: "3", Code: "IIC1103", Name: "Introducción a la Programación", Difficulty: 3, AverageRating: 4.8},
		{ID: "4", Code: "LET1000", Name: "Literatura Contemporánea", Difficulty: 2, AverageRating: 4.6},
	}
}

func courseIDs(cs []domain.Course) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func sameIDs(got []domain.Course, want ...string) bool {
	g := courseIDs(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestCatalog_RefreshAndSort(t *testing.T) {
	gw := &stubGateway{listCourses: func(context.Context) ([]domain.Course, error) { return sampleCatalog(), nil }}
	svc := NewCatalogService(gw, zerolog.Nop())

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sameIDs(svc.Courses(), "1", "2", "3", "4") {
		t.Fatalf("expected natural order, got %v", courseIDs(svc.Courses()))
	}

	svc.Sort(domain.SortByRating, domain.OrderDesc)
	if got := svc.Courses(); !sameIDs(got, "1", "3", "4", "2") {
		t.Fatalf("expected stable rating desc, got %v", courseIDs(got))
	}

	svc.Sort(domain.SortByDifficulty, domain.OrderAsc)
	if got := svc.Courses(); !sameIDs(got, "4", "3", "1", "2") {
		t.Fatalf("expected stable difficulty asc, got %v", courseIDs(got))
	}
}

func TestCatalog_FailureKeepsPreviousCollection(t *testing.T) {
	fail := false
	gw := &stubGateway{listCourses: func(context.Context) ([]domain.Course, error) {
		if fail {
			return nil, errBackendDown
		}
		return sampleCatalog(), nil
	}}
	svc := NewCatalogService(gw, zerolog.Nop())
	ctx := context.Background()

	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	fail = true
	if err := svc.Refresh(ctx); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if len(svc.Courses()) != 4 {
		t.Fatalf("previous collection must survive a failed refresh")
	}
	if svc.Err() != catalogLoadError {
		t.Fatalf("unexpected error message %q", svc.Err())
	}
	if svc.Loading() {
		t.Fatalf("loading flag not released")
	}
}

func TestCatalog_ConcurrentRefreshesCoalesce(t *testing.T) {
	release := make(chan struct{})
	gw := &stubGateway{listCourses: func(context.Context) ([]domain.Course, error) {
		<-release
		return sampleCatalog(), nil
	}}
	svc := NewCatalogService(gw, zerolog.Nop())

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Refresh(context.Background()); err != nil {
				t.Errorf("refresh: %v", err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := gw.count("ListCourses"); n != 1 {
		t.Fatalf("expected 1 fetch, got %d", n)
	}
}

func TestCatalog_FirstCallerCancelDoesNotFailSharedRefresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gw := &stubGateway{listCourses: func(ctx context.Context) ([]domain.Course, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return sampleCatalog(), nil
	}}
	svc := NewCatalogService(gw, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() { first <- svc.Refresh(ctx) }()
	<-started

	second := make(chan error, 1)
	go func() { second <- svc.Refresh(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the cancelled caller to give up, got %v", err)
	}
	close(release)

	if err := <-second; err != nil {
		t.Fatalf("second caller failed: %v", err)
	}
	if !sameIDs(svc.Courses(), "1", "2", "3", "4") {
		t.Fatalf("expected the shared fetch applied, got %v", courseIDs(svc.Courses()))
	}
	if n := gw.count("ListCourses"); n != 1 {
		t.Fatalf("expected 1 fetch, got %d", n)
	}
}
