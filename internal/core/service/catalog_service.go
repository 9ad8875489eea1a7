package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
	"github.com/cursos-uc/cursos-app/internal/core/ports"
	"github.com/cursos-uc/cursos-app/internal/pkg/metrics"
)

const catalogLoadError = "Error al cargar los cursos. Por favor, intenta nuevamente."

// CatalogService holds the full course collection. Concurrent refreshes are
// coalesced; a fetch that started before the currently applied one never
// overwrites it.
type CatalogService struct {
	gw    ports.CourseGateway
	log   zerolog.Logger
	group singleflight.Group

	mu      sync.RWMutex
	courses []domain.Course
	loading bool
	lastErr string
	nextGen uint64
	applied uint64
}

func NewCatalogService(gw ports.CourseGateway, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		gw:  gw,
		log: log.With().Str("service", "CatalogService").Logger(),
	}
}

// Refresh replaces the held collection with a full fetch. The shared fetch
// is detached from the caller's cancellation, so one caller giving up does
// not fail the others waiting on it; the gateway timeout still bounds it.
func (s *CatalogService) Refresh(ctx context.Context) error {
	ch := s.group.DoChan("refresh", func() (any, error) {
		return nil, s.fetch(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Shared {
			s.log.Debug().Msg("refresh coalesced")
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *CatalogService) fetch(ctx context.Context) error {
	s.mu.Lock()
	s.nextGen++
	gen := s.nextGen
	s.loading = true
	s.mu.Unlock()

	courses, err := s.gw.ListCourses(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = catalogLoadError
		metrics.CatalogRefreshTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("failed to fetch courses")
		return fmt.Errorf("refresh courses: %w", err)
	}
	if gen < s.applied {
		metrics.CatalogRefreshTotal.WithLabelValues("stale").Inc()
		return nil
	}
	s.courses = courses
	s.applied = gen
	s.lastErr = ""
	metrics.CatalogRefreshTotal.WithLabelValues("applied").Inc()
	s.log.Debug().Int("count", len(courses)).Msg("catalog refreshed")
	return nil
}

// Sort orders the held collection in place. Equal keys keep their order.
func (s *CatalogService) Sort(criteria domain.SortCriteria, order domain.SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	domain.SortCourses(s.courses, criteria, order)
}

// Courses returns a snapshot of the held collection in its current order.
func (s *CatalogService) Courses() []domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.courses)
}

// Loading reports whether a refresh is in flight.
func (s *CatalogService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the user-facing message of the last failed refresh.
func (s *CatalogService) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
