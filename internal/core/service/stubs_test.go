package service

import (
	"context"
	"errors"
	"sync"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
	"github.com/cursos-uc/cursos-app/internal/core/ports"
)

var errBackendDown = &domain.GatewayError{Kind: domain.ErrNetwork, Op: "test", Status: 500, Message: "backend down"}

// stubGateway implements ports.Gateway with overridable funcs and per-method
// call counters. Unset funcs return a zero value.
type stubGateway struct {
	mu    sync.Mutex
	calls map[string]int

	listCourses        func(ctx context.Context) ([]domain.Course, error)
	getCourse          func(ctx context.Context, id string) (*domain.Course, error)
	listCourseComments func(ctx context.Context, courseID string) ([]domain.Comment, error)
	listUserComments   func(ctx context.Context, userID string) ([]domain.Comment, error)
	createComment      func(ctx context.Context, in domain.NewComment) (*domain.Comment, error)
	updateComment      func(ctx context.Context, id string, in domain.CommentInput) (*domain.Comment, error)
	deleteComment      func(ctx context.Context, id string) error
	listUserLists      func(ctx context.Context, userID string) ([]domain.CourseList, error)
	getList            func(ctx context.Context, listID string) (*domain.CourseList, error)
	createList         func(ctx context.Context, in domain.NewCourseList) (*domain.CourseList, error)
	updateList         func(ctx context.Context, l domain.CourseList) error
	deleteList         func(ctx context.Context, listID string) error
	login              func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	register           func(ctx context.Context, email, name, password string) (*domain.User, error)
	verify             func(ctx context.Context, email, code string) (string, error)
	profile            func(ctx context.Context) (*domain.User, error)
	logout             func(ctx context.Context) error
}

var _ ports.Gateway = (*stubGateway)(nil)

func (g *stubGateway) hit(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.calls == nil {
		g.calls = make(map[string]int)
	}
	g.calls[name]++
}

func (g *stubGateway) count(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[name]
}

func (g *stubGateway) ListCourses(ctx context.Context) ([]domain.Course, error) {
	g.hit("ListCourses")
	if g.listCourses == nil {
		return nil, nil
	}
	return g.listCourses(ctx)
}

func (g *stubGateway) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	g.hit("GetCourse")
	if g.getCourse == nil {
		return &domain.Course{ID: id}, nil
	}
	return g.getCourse(ctx, id)
}

func (g *stubGateway) ListCourseComments(ctx context.Context, courseID string) ([]domain.Comment, error) {
	g.hit("ListCourseComments")
	if g.listCourseComments == nil {
		return nil, nil
	}
	return g.listCourseComments(ctx, courseID)
}

func (g *stubGateway) ListUserComments(ctx context.Context, userID string) ([]domain.Comment, error) {
	g.hit("ListUserComments")
	if g.listUserComments == nil {
		return nil, nil
	}
	return g.listUserComments(ctx, userID)
}

func (g *stubGateway) CreateComment(ctx context.Context, in domain.NewComment) (*domain.Comment, error) {
	g.hit("CreateComment")
	if g.createComment == nil {
		return &domain.Comment{}, nil
	}
	return g.createComment(ctx, in)
}

func (g *stubGateway) UpdateComment(ctx context.Context, id string, in domain.CommentInput) (*domain.Comment, error) {
	g.hit("UpdateComment")
	if g.updateComment == nil {
		return &domain.Comment{ID: id}, nil
	}
	return g.updateComment(ctx, id, in)
}

func (g *stubGateway) DeleteComment(ctx context.Context, id string) error {
	g.hit("DeleteComment")
	if g.deleteComment == nil {
		return nil
	}
	return g.deleteComment(ctx, id)
}

func (g *stubGateway) ListUserLists(ctx context.Context, userID string) ([]domain.CourseList, error) {
	g.hit("ListUserLists")
	if g.listUserLists == nil {
		return nil, nil
	}
	return g.listUserLists(ctx, userID)
}

func (g *stubGateway) GetList(ctx context.Context, listID string) (*domain.CourseList, error) {
	g.hit("GetList")
	if g.getList == nil {
		return nil, &domain.GatewayError{Kind: domain.ErrNotFound, Op: "get_list", Status: 404}
	}
	return g.getList(ctx, listID)
}

func (g *stubGateway) CreateList(ctx context.Context, in domain.NewCourseList) (*domain.CourseList, error) {
	g.hit("CreateList")
	if g.createList == nil {
		return &domain.CourseList{ID: "new", UserID: in.UserID, Name: in.Name, Courses: []string{}}, nil
	}
	return g.createList(ctx, in)
}

func (g *stubGateway) UpdateList(ctx context.Context, l domain.CourseList) error {
	g.hit("UpdateList")
	if g.updateList == nil {
		return nil
	}
	return g.updateList(ctx, l)
}

func (g *stubGateway) DeleteList(ctx context.Context, listID string) error {
	g.hit("DeleteList")
	if g.deleteList == nil {
		return nil
	}
	return g.deleteList(ctx, listID)
}

func (g *stubGateway) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	g.hit("Login")
	if g.login == nil {
		return nil, errors.New("login not stubbed")
	}
	return g.login(ctx, email, password)
}

func (g *stubGateway) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	g.hit("Register")
	if g.register == nil {
		return nil, errors.New("register not stubbed")
	}
	return g.register(ctx, email, name, password)
}

func (g *stubGateway) Verify(ctx context.Context, email, code string) (string, error) {
	g.hit("Verify")
	if g.verify == nil {
		return "", nil
	}
	return g.verify(ctx, email, code)
}

func (g *stubGateway) Profile(ctx context.Context) (*domain.User, error) {
	g.hit("Profile")
	if g.profile == nil {
		return nil, errors.New("profile not stubbed")
	}
	return g.profile(ctx)
}

func (g *stubGateway) Logout(ctx context.Context) error {
	g.hit("Logout")
	if g.logout == nil {
		return nil
	}
	return g.logout(ctx)
}

// listBackend is a tiny in-memory list store behind stubGateway's list funcs.
type listBackend struct {
	mu    sync.Mutex
	lists map[string]domain.CourseList
}

func newListBackend(lists ...domain.CourseList) *listBackend {
	b := &listBackend{lists: make(map[string]domain.CourseList)}
	for _, l := range lists {
		b.lists[l.ID] = l
	}
	return b
}

func (b *listBackend) wire(g *stubGateway) {
	g.getList = func(_ context.Context, id string) (*domain.CourseList, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		l, ok := b.lists[id]
		if !ok {
			return nil, &domain.GatewayError{Kind: domain.ErrNotFound, Op: "get_list", Status: 404}
		}
		l.Courses = append([]string{}, l.Courses...)
		return &l, nil
	}
	g.updateList = func(_ context.Context, l domain.CourseList) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.lists[l.ID] = l
		return nil
	}
	g.listUserLists = func(_ context.Context, userID string) ([]domain.CourseList, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		var out []domain.CourseList
		for _, l := range b.lists {
			if l.UserID == userID {
				out = append(out, l)
			}
		}
		return out, nil
	}
	g.deleteList = func(_ context.Context, id string) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.lists, id)
		return nil
	}
}

func (b *listBackend) courses(id string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lists[id].Courses
}

type memStore struct {
	mu      sync.Mutex
	token   string
	saveErr error
}

func (m *memStore) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ports.ErrNoCredential
	}
	return m.token, nil
}

func (m *memStore) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func (m *memStore) stored() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

type fixedIdentity struct {
	user *domain.User
}

func (f fixedIdentity) CurrentUser() (domain.User, bool) {
	if f.user == nil {
		return domain.User{}, false
	}
	return *f.user, true
}

func strPtr(s string) *string { return &s }
