// Package fakebackend runs an in-memory Cursos UC backend over HTTP for
// local development and tests. It speaks the same wire format as the real
// backend, including its inconsistencies (numeric ids, data envelopes).
package fakebackend

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// DefaultVerificationCode is the code handed to every new account.
const DefaultVerificationCode = "123456"

type Course struct {
	ID            int     `json:"course_id"`
	Initials      string  `json:"initials"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Requirements  string  `json:"requirements,omitempty"`
	Term          string  `json:"term,omitempty"`
	Program       string  `json:"program,omitempty"`
	Difficulty    int     `json:"difficulty,omitempty"`
	AverageRating float64 `json:"average_rating,omitempty"`
}

type user struct {
	id       int
	email    string
	name     string
	hash     []byte
	verified bool
	code     string
}

type comment struct {
	ID          int       `json:"comment_id"`
	UserID      int       `json:"user_id"`
	CourseID    int       `json:"course_id"`
	Description *string   `json:"description"`
	Rating      int       `json:"rating"`
	Difficulty  int       `json:"difficulty"`
	UserName    string    `json:"user_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	active      bool
}

type list struct {
	ID        int       `json:"list_id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Courses   []int     `json:"courses"`
	CreatedAt time.Time `json:"created_at"`
}

// Backend is the fake server state. All exported methods are safe for
// concurrent use.
type Backend struct {
	Echo *echo.Echo

	secret   []byte
	tokenTTL time.Duration

	mu       sync.Mutex
	nextID   int
	courses  []Course
	users    map[string]*user
	comments []*comment
	lists    map[int]*list
	revoked  map[string]bool
	calls    map[string]int
	failures map[string]int
	delay    map[string]time.Duration
}

// New builds a backend with no data.
func New() *Backend {
	b := &Backend{
		Echo:     echo.New(),
		secret:   []byte("fakebackend-secret"),
		tokenTTL: time.Hour,
		nextID:   100,
		users:    make(map[string]*user),
		lists:    make(map[int]*list),
		revoked:  make(map[string]bool),
		calls:    make(map[string]int),
		failures: make(map[string]int),
		delay:    make(map[string]time.Duration),
	}
	b.Echo.HideBanner = true
	b.routes()
	return b
}

// AddCourses appends catalog entries.
func (b *Backend) AddCourses(cs ...Course) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.courses = append(b.courses, cs...)
}

// AddUser registers an account directly and returns its id.
func (b *Backend) AddUser(email, name, password string, verified bool) int {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.users[strings.ToLower(email)] = &user{
		id:       b.nextID,
		email:    email,
		name:     name,
		hash:     hash,
		verified: verified,
		code:     DefaultVerificationCode,
	}
	return b.nextID
}

// AddList stores a list owned by userID and returns its id.
func (b *Backend) AddList(userID int, name string, courses ...int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.lists[b.nextID] = &list{ID: b.nextID, UserID: userID, Name: name, Courses: append([]int{}, courses...), CreatedAt: time.Now().UTC()}
	return b.nextID
}

// AddComment stores an active comment and returns its id.
func (b *Backend) AddComment(userID, courseID int, text string, rating, difficulty int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	desc := text
	b.comments = append(b.comments, &comment{
		ID: b.nextID, UserID: userID, CourseID: courseID, Description: &desc,
		Rating: rating, Difficulty: difficulty, CreatedAt: time.Now().UTC(), active: true,
	})
	return b.nextID
}

// ListCourses returns the stored course ids of a list, or nil when unknown.
func (b *Backend) ListCourses(listID int) []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if l, ok := b.lists[listID]; ok {
		return append([]int{}, l.Courses...)
	}
	return nil
}

// HasList reports whether a list exists.
func (b *Backend) HasList(listID int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.lists[listID]
	return ok
}

// CommentActive reports whether a comment exists and is not soft-deleted.
func (b *Backend) CommentActive(commentID int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.comments {
		if c.ID == commentID {
			return c.active
		}
	}
	return false
}

// IssueToken signs a credential for userID valid for ttl. A negative ttl
// yields an already expired token.
func (b *Backend) IssueToken(userID int, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"sub": strconv.Itoa(userID),
		"exp": time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// Calls returns how often a route was hit, keyed as "METHOD /pattern", for
// instance "PUT /lists/:id".
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// Fail makes every later request to route answer with status until cleared
// with a zero status.
func (b *Backend) Fail(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, route)
		return
	}
	b.failures[route] = status
}

// Delay holds every later request to route for d before answering.
func (b *Backend) Delay(route string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay[route] = d
}

// instrument counts calls and applies configured failures and delays.
func (b *Backend) instrument(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		route := c.Request().Method + " " + c.Path()
		b.mu.Lock()
		b.calls[route]++
		status := b.failures[route]
		d := b.delay[route]
		b.mu.Unlock()

		if d > 0 {
			select {
			case <-time.After(d):
			case <-c.Request().Context().Done():
				return c.Request().Context().Err()
			}
		}
		if status != 0 {
			return c.JSON(status, map[string]string{"message": http.StatusText(status)})
		}
		return next(c)
	}
}
