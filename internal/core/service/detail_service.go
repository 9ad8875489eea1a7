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

// DetailService opens course detail aggregates and serves the operations that
// need no loaded course.
type DetailService struct {
	courses  ports.CourseGateway
	comments ports.CommentGateway
	lists    ports.ListGateway
	identity ports.Identity
	log      zerolog.Logger
}

func NewDetailService(
	courses ports.CourseGateway,
	comments ports.CommentGateway,
	lists ports.ListGateway,
	identity ports.Identity,
	log zerolog.Logger,
) *DetailService {
	return &DetailService{
		courses:  courses,
		comments: comments,
		lists:    lists,
		identity: identity,
		log:      log.With().Str("service", "DetailService").Logger(),
	}
}

// Load fetches one course and its comments. A missing course yields
// domain.ErrNotFound.
func (s *DetailService) Load(ctx context.Context, courseID string) (*CourseDetail, error) {
	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course %s: %w", courseID, err)
	}

	comments, err := s.comments.ListCourseComments(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load comments for %s: %w", courseID, err)
	}

	return &CourseDetail{svc: s, course: *course, comments: comments}, nil
}

// UserComments lists every comment authored by userID.
func (s *DetailService) UserComments(ctx context.Context, userID string) ([]domain.Comment, error) {
	comments, err := s.comments.ListUserComments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user comments: %w", err)
	}
	return comments, nil
}

// AddToList adds courseID to the list unless it is already there, in which case
// nothing is written and the update carries a warning. The returned list is
// always the one read back from the backend.
func (s *DetailService) AddToList(ctx context.Context, listID, courseID string) (*domain.ListUpdate, error) {
	upd, err := rewriteList(ctx, s.lists, listID, addCourseEdit(courseID))
	if err != nil {
		metrics.ListMutationsTotal.WithLabelValues("add_course", "error").Inc()
		s.log.Error().Err(err).Str("list_id", listID).Str("course_id", courseID).Msg("add to list failed")
		return nil, fmt.Errorf("add course to list: %w", err)
	}
	if !upd.Changed {
		upd.Warning = warnAlreadyInList
		metrics.ListMutationsTotal.WithLabelValues("add_course", "noop").Inc()
		return upd, nil
	}
	metrics.ListMutationsTotal.WithLabelValues("add_course", "changed").Inc()
	return upd, nil
}

// CourseDetail is one course with its live comment list. Every comment
// mutation is followed by a full refetch of the comments, so the held list
// always mirrors the backend, including denormalized user names.
type CourseDetail struct {
	svc    *DetailService
	course domain.Course

	mu       sync.RWMutex
	comments []domain.Comment
}

func (d *CourseDetail) Course() domain.Course {
	return d.course
}

func (d *CourseDetail) Comments() []domain.Comment {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.comments)
}

// AddComment posts a new comment for the loaded course. Rating and difficulty
// are checked locally first; an invalid input never reaches the backend.
func (d *CourseDetail) AddComment(ctx context.Context, userID, userName string, in domain.CommentInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	nc := domain.NewComment{
		CourseID:     d.course.ID,
		UserID:       userID,
		UserName:     userName,
		CommentInput: in,
	}
	if err := nc.Validate(); err != nil {
		return err
	}

	if _, err := d.svc.comments.CreateComment(ctx, nc); err != nil {
		return d.mutationFailed("create", err)
	}
	metrics.CommentMutationsTotal.WithLabelValues("create", "ok").Inc()
	return d.Resync(ctx)
}

// EditComment rewrites a comment. Only its author may edit it; the check is
// advisory, the backend remains the authority.
func (d *CourseDetail) EditComment(ctx context.Context, commentID string, in domain.CommentInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := d.authorize(commentID); err != nil {
		return err
	}

	if _, err := d.svc.comments.UpdateComment(ctx, commentID, in); err != nil {
		return d.mutationFailed("update", err)
	}
	metrics.CommentMutationsTotal.WithLabelValues("update", "ok").Inc()
	return d.Resync(ctx)
}

// DeleteComment soft-deletes a comment. Same authorship rule as EditComment.
func (d *CourseDetail) DeleteComment(ctx context.Context, commentID string) error {
	if err := d.authorize(commentID); err != nil {
		return err
	}

	if err := d.svc.comments.DeleteComment(ctx, commentID); err != nil {
		return d.mutationFailed("delete", err)
	}
	metrics.CommentMutationsTotal.WithLabelValues("delete", "ok").Inc()
	return d.Resync(ctx)
}

// Resync replaces the held comments with the backend's current list. On
// failure the previous list stays visible.
func (d *CourseDetail) Resync(ctx context.Context) error {
	comments, err := d.svc.comments.ListCourseComments(ctx, d.course.ID)
	if err != nil {
		d.svc.log.Error().Err(err).Str("course_id", d.course.ID).Msg("error refreshing comments")
		return fmt.Errorf("resync comments: %w", err)
	}
	d.mu.Lock()
	d.comments = comments
	d.mu.Unlock()
	return nil
}

// authorize compares the session user with the held comment's author. A
// comment not in the held list is left for the backend to judge.
func (d *CourseDetail) authorize(commentID string) error {
	user, ok := d.svc.identity.CurrentUser()
	if !ok {
		return fmt.Errorf("comment %s: %w", commentID, domain.ErrAuth)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.comments {
		if c.ID == commentID && c.UserID != user.ID {
			return fmt.Errorf("comment %s: %w", commentID, domain.ErrForbidden)
		}
	}
	return nil
}

func (d *CourseDetail) mutationFailed(op string, err error) error {
	metrics.CommentMutationsTotal.WithLabelValues(op, "error").Inc()
	d.svc.log.Error().Err(err).Str("course_id", d.course.ID).Str("op", op).Msg("comment mutation failed")
	return fmt.Errorf("%s comment: %w", op, err)
}
