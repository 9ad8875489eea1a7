package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
	"github.com/cursos-uc/cursos-app/internal/core/ports"
	"github.com/cursos-uc/cursos-app/internal/pkg/metrics"
)

const defaultHydrateConcurrency = 4

// ListService holds the signed-in user's course lists and a by-id cache of the
// courses they reference. Add and remove are whole-list read-modify-write
// cycles; see rewriteList.
type ListService struct {
	lists    ports.ListGateway
	courses  ports.CourseGateway
	identity ports.Identity
	log      zerolog.Logger
	limit    int

	mu       sync.RWMutex
	held     []domain.CourseList
	details  map[string]domain.Course
	deleting map[string]bool
	removing map[removal]bool
}

// removal identifies one in-flight course removal.
type removal struct{ list, course string }

func NewListService(
	lists ports.ListGateway,
	courses ports.CourseGateway,
	identity ports.Identity,
	hydrateConcurrency int,
	log zerolog.Logger,
) *ListService {
	if hydrateConcurrency <= 0 {
		hydrateConcurrency = defaultHydrateConcurrency
	}
	return &ListService{
		lists:    lists,
		courses:  courses,
		identity: identity,
		log:      log.With().Str("service", "ListService").Logger(),
		limit:    hydrateConcurrency,
		details:  make(map[string]domain.Course),
		deleting: make(map[string]bool),
		removing: make(map[removal]bool),
	}
}

// Load fetches the current user's lists and hydrates every referenced course.
func (s *ListService) Load(ctx context.Context) error {
	user, ok := s.identity.CurrentUser()
	if !ok {
		return fmt.Errorf("load lists: %w", domain.ErrAuth)
	}

	lists, err := s.lists.ListUserLists(ctx, user.ID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("error fetching course lists")
		return fmt.Errorf("load lists: %w", err)
	}

	s.mu.Lock()
	s.held = lists
	s.mu.Unlock()

	s.hydrate(ctx, lists)
	return nil
}

// Lists returns a deep copy of the held lists.
func (s *ListService) Lists() []domain.CourseList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CourseList, len(s.held))
	for i, l := range s.held {
		l.Courses = slices.Clone(l.Courses)
		out[i] = l
	}
	return out
}

// Courses returns the hydrated course cache keyed by course id.
func (s *ListService) Courses() map[string]domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.details)
}

// CreateList creates a list for userID and appends it to the held lists.
func (s *ListService) CreateList(ctx context.Context, userID, name string) (*domain.CourseList, error) {
	in := domain.NewCourseList{UserID: userID, Name: name}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	created, err := s.lists.CreateList(ctx, in)
	if err != nil {
		metrics.ListMutationsTotal.WithLabelValues("create", "error").Inc()
		s.log.Error().Err(err).Str("user_id", userID).Msg("error creating list")
		return nil, fmt.Errorf("create list: %w", err)
	}

	s.mu.Lock()
	s.held = append(s.held, *created)
	s.mu.Unlock()

	metrics.ListMutationsTotal.WithLabelValues("create", "changed").Inc()
	return created, nil
}

// DeleteList deletes a list. The held lists change only once the backend
// confirms. A second delete of the same list while one runs fails with
// domain.ErrBusy.
func (s *ListService) DeleteList(ctx context.Context, listID string) error {
	s.mu.Lock()
	if s.deleting[listID] {
		s.mu.Unlock()
		metrics.ListMutationsTotal.WithLabelValues("delete", "busy").Inc()
		return domain.ErrBusy
	}
	s.deleting[listID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.deleting, listID)
		s.mu.Unlock()
	}()

	if err := s.lists.DeleteList(ctx, listID); err != nil {
		metrics.ListMutationsTotal.WithLabelValues("delete", "error").Inc()
		s.log.Error().Err(err).Str("list_id", listID).Msg("error deleting list")
		return fmt.Errorf("delete list: %w", err)
	}

	s.mu.Lock()
	s.held = slices.DeleteFunc(s.held, func(l domain.CourseList) bool { return l.ID == listID })
	s.mu.Unlock()

	metrics.ListMutationsTotal.WithLabelValues("delete", "changed").Inc()
	return nil
}

// Deleting reports whether a delete of listID is in flight.
func (s *ListService) Deleting(listID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deleting[listID]
}

// AddCourse adds courseID to a list. Adding a course already present writes
// nothing and returns a warning.
func (s *ListService) AddCourse(ctx context.Context, listID, courseID string) (*domain.ListUpdate, error) {
	upd, err := rewriteList(ctx, s.lists, listID, addCourseEdit(courseID))
	if err != nil {
		metrics.ListMutationsTotal.WithLabelValues("add_course", "error").Inc()
		s.log.Error().Err(err).Str("list_id", listID).Str("course_id", courseID).Msg("error adding course to list")
		return nil, fmt.Errorf("add course to list: %w", err)
	}
	if !upd.Changed {
		upd.Warning = warnAlreadyInList
		metrics.ListMutationsTotal.WithLabelValues("add_course", "noop").Inc()
	} else {
		metrics.ListMutationsTotal.WithLabelValues("add_course", "changed").Inc()
	}

	s.replace(*upd.List)
	s.hydrate(ctx, []domain.CourseList{*upd.List})
	return upd, nil
}

// RemoveCourse removes courseID from a list. Removing an absent course leaves
// the list untouched.
func (s *ListService) RemoveCourse(ctx context.Context, listID, courseID string) (*domain.ListUpdate, error) {
	key := removal{list: listID, course: courseID}
	s.mu.Lock()
	if s.removing[key] {
		s.mu.Unlock()
		metrics.ListMutationsTotal.WithLabelValues("remove_course", "busy").Inc()
		return nil, domain.ErrBusy
	}
	s.removing[key] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.removing, key)
		s.mu.Unlock()
	}()

	upd, err := rewriteList(ctx, s.lists, listID, removeCourseEdit(courseID))
	if err != nil {
		metrics.ListMutationsTotal.WithLabelValues("remove_course", "error").Inc()
		s.log.Error().Err(err).Str("list_id", listID).Str("course_id", courseID).Msg("error removing course from list")
		return nil, fmt.Errorf("remove course from list: %w", err)
	}
	if !upd.Changed {
		upd.Warning = warnNotInList
		metrics.ListMutationsTotal.WithLabelValues("remove_course", "noop").Inc()
	} else {
		metrics.ListMutationsTotal.WithLabelValues("remove_course", "changed").Inc()
	}

	s.replace(*upd.List)
	return upd, nil
}

// Removing reports whether courseID is being removed from listID.
func (s *ListService) Removing(listID, courseID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.removing[removal{list: listID, course: courseID}]
}

// replace swaps a held list for its refetched version. Lists not held (for
// instance added from a course page before Load) are appended.
func (s *ListService) replace(l domain.CourseList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.held {
		if s.held[i].ID == l.ID {
			s.held[i] = l
			return
		}
	}
	s.held = append(s.held, l)
}

// hydrate fetches each distinct, not yet cached course id once. A failed fetch
// only leaves that id unhydrated.
func (s *ListService) hydrate(ctx context.Context, lists []domain.CourseList) {
	s.mu.RLock()
	var missing []string
	seen := make(map[string]bool)
	for _, l := range lists {
		for _, id := range l.Courses {
			if seen[id] {
				continue
			}
			seen[id] = true
			if _, ok := s.details[id]; !ok {
				missing = append(missing, id)
			}
		}
	}
	s.mu.RUnlock()

	if len(missing) == 0 {
		return
	}

	var (
		g       errgroup.Group
		fetchMu sync.Mutex
		fetched = make(map[string]domain.Course, len(missing))
	)
	g.SetLimit(s.limit)
	for _, id := range missing {
		g.Go(func() error {
			course, err := s.courses.GetCourse(ctx, id)
			if err != nil {
				s.log.Warn().Err(err).Str("course_id", id).Msg("course hydration failed")
				return nil
			}
			fetchMu.Lock()
			fetched[id] = *course
			fetchMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	maps.Copy(s.details, fetched)
	s.mu.Unlock()
}
