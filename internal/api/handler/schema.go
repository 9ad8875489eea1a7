package handler

import "github.com/cursos-uc/cursos-app/internal/core/domain"

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required,notblank"`
	Password string `json:"password" validate:"required,min=6"`
}

type verifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required,notblank"`
}

type sessionResponse struct {
	User  *domain.User `json:"user"`
	Busy  bool         `json:"busy"`
	Error string       `json:"error,omitempty"`
}

type sortRequest struct {
	Criteria string `json:"criteria" validate:"required"`
	Order    string `json:"order"`
}

type searchRequest struct {
	Query      string  `json:"query"`
	Area       string  `json:"area"`
	Difficulty int     `json:"difficulty" validate:"min=0,max=5"`
	Rating     float64 `json:"rating"     validate:"min=0,max=5"`
}

// coursesResponse is the home view: search results when a search is active,
// otherwise the full catalog.
type coursesResponse struct {
	Courses  []domain.Course `json:"courses"`
	Searched bool            `json:"searched"`
	Loading  bool            `json:"loading"`
	Error    string          `json:"error,omitempty"`
}

type courseDetailResponse struct {
	Course         domain.Course    `json:"course"`
	Comments       []domain.Comment `json:"comments"`
	BuscaCursosURL string           `json:"buscaCursosUrl"`
}

type commentRequest struct {
	Content    *string `json:"content"`
	Rating     int     `json:"rating"     validate:"required,min=1,max=5"`
	Difficulty int     `json:"difficulty" validate:"required,min=1,max=5"`
}

func (r commentRequest) input() domain.CommentInput {
	return domain.CommentInput{Content: r.Content, Rating: r.Rating, Difficulty: r.Difficulty}
}

type commentsResponse struct {
	Comments []domain.Comment `json:"comments"`
}

type createListRequest struct {
	Name string `json:"name" validate:"required,notblank"`
}

type addCourseRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

type listsResponse struct {
	Lists   []domain.CourseList      `json:"lists"`
	Courses map[string]domain.Course `json:"courses"`
}

type chatRequest struct {
	Content string `json:"content"`
}

type chatResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
	Awaiting bool                 `json:"awaiting"`
	Error    string               `json:"error,omitempty"`
}
