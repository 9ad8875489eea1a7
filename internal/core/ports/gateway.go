package ports

import (
	"context"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

// CourseGateway reads the remote course catalog.
type CourseGateway interface {
	ListCourses(ctx context.Context) ([]domain.Course, error)
	// GetCourse returns domain.ErrNotFound when the backend yields no record.
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
}

// CommentGateway reads and mutates course comments.
type CommentGateway interface {
	ListCourseComments(ctx context.Context, courseID string) ([]domain.Comment, error)
	ListUserComments(ctx context.Context, userID string) ([]domain.Comment, error)
	// CreateComment and UpdateComment may return a nil comment with a nil
	// error when the backend accepts the write without echoing it.
	CreateComment(ctx context.Context, in domain.NewComment) (*domain.Comment, error)
	UpdateComment(ctx context.Context, commentID string, in domain.CommentInput) (*domain.Comment, error)
	// DeleteComment is a soft delete and requires a bearer credential.
	DeleteComment(ctx context.Context, commentID string) error
}

// ListGateway reads and mutates course lists. Every call requires a bearer
// credential. UpdateList replaces the whole list object.
type ListGateway interface {
	ListUserLists(ctx context.Context, userID string) ([]domain.CourseList, error)
	GetList(ctx context.Context, listID string) (*domain.CourseList, error)
	CreateList(ctx context.Context, in domain.NewCourseList) (*domain.CourseList, error)
	UpdateList(ctx context.Context, list domain.CourseList) error
	DeleteList(ctx context.Context, listID string) error
}

// AuthGateway talks to the backend's auth endpoints. Profile and Logout send
// the credential from the TokenSource; the others are anonymous.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Register(ctx context.Context, email, name, password string) (*domain.User, error)
	// Verify returns the token the backend granted, or "" when it sent none.
	Verify(ctx context.Context, email, code string) (string, error)
	Profile(ctx context.Context) (*domain.User, error)
	Logout(ctx context.Context) error
}

// Gateway is the full remote backend surface.
type Gateway interface {
	CourseGateway
	CommentGateway
	ListGateway
	AuthGateway
}
