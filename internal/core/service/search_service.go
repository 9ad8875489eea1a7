package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
	"github.com/cursos-uc/cursos-app/internal/core/ports"
	"github.com/cursos-uc/cursos-app/internal/pkg/metrics"
)

// SearchService derives a filtered view from a fresh full catalog fetch. It
// never reads or writes the CatalogService's collection. Only one search may
// be in flight at a time.
type SearchService struct {
	gw  ports.CourseGateway
	log zerolog.Logger

	mu       sync.Mutex
	results  []domain.Course
	searched bool
	inFlight bool
}

func NewSearchService(gw ports.CourseGateway, log zerolog.Logger) *SearchService {
	return &SearchService{
		gw:  gw,
		log: log.With().Str("service", "SearchService").Logger(),
	}
}

// Search returns the catalog courses matching query and filters in natural
// order. On failure the previous results are kept.
func (s *SearchService) Search(ctx context.Context, query string, filters domain.SearchFilters) ([]domain.Course, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		metrics.SearchesTotal.WithLabelValues("busy").Inc()
		return nil, domain.ErrBusy
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	all, err := s.gw.ListCourses(ctx)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("query", query).Msg("search failed")
		return nil, fmt.Errorf("search courses: %w", err)
	}

	found := domain.FilterCourses(all, query, filters)

	s.mu.Lock()
	s.results = found
	s.searched = true
	s.mu.Unlock()

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	return slices.Clone(found), nil
}

// Results returns the last search results and whether a search has been
// performed. An empty successful search still reports true.
func (s *SearchService) Results() ([]domain.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results), s.searched
}

// Sort orders the search results in place and reports whether there were
// results to sort, i.e. whether a search has been performed.
func (s *SearchService) Sort(criteria domain.SortCriteria, order domain.SortOrder) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.searched {
		return false
	}
	domain.SortCourses(s.results, criteria, order)
	return true
}

// Clear forgets the search so the view falls back to the full catalog.
func (s *SearchService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
	s.searched = false
}

// Searching reports whether a search is in flight.
func (s *SearchService) Searching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}
