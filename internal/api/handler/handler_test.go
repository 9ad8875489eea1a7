package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
	"github.com/cursos-uc/cursos-app/internal/core/service"
)

// --- stubs ---

type stubCatalog struct {
	courses  []domain.Course
	sortedBy domain.SortCriteria
}

func (s *stubCatalog) Refresh(context.Context) error {
	return nil
}

func (s *stubCatalog) Sort(c domain.SortCriteria, _ domain.SortOrder) {
	s.sortedBy = c
}

func (s *stubCatalog) Courses() []domain.Course {
	return s.courses
}

func (s *stubCatalog) Loading() bool {
	return false
}

func (s *stubCatalog) Err() string {
	return ""
}

type stubSearch struct {
	results  []domain.Course
	searched bool
	query    string
	err      error
}

func (s *stubSearch) Search(_ context.Context, q string, _ domain.SearchFilters) ([]domain.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.query = q
	s.searched = true
	return s.results, nil
}

func (s *stubSearch) Results() ([]domain.Course, bool) {
	return s.results, s.searched
}

func (s *stubSearch) Sort(domain.SortCriteria, domain.SortOrder) bool {
	return s.searched
}

func (s *stubSearch) Clear() {
	s.searched = false
}

type stubTranscript struct {
	messages []domain.ChatMessage
	sendErr  error
	cleared  bool
}

func (s *stubTranscript) Send(_ context.Context, content string) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.messages = append(s.messages,
		domain.ChatMessage{ID: "1", Sender: domain.SenderUser, Content: content},
		domain.ChatMessage{ID: "2", Sender: domain.SenderBot, Content: "ok"},
	)
	return nil
}

func (s *stubTranscript) LoadHistory(context.Context) error {
	return nil
}

func (s *stubTranscript) Clear(context.Context) {
	s.cleared = true
	s.messages = nil
}

func (s *stubTranscript) Messages() []domain.ChatMessage {
	return s.messages
}

func (s *stubTranscript) Awaiting() bool {
	return false
}

func (s *stubTranscript) Err() string {
	return ""
}

func newContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// --- course handler ---

func TestCourseHandler_ViewSwitchesToSearch(t *testing.T) {
	catalog := &stubCatalog{courses: []domain.Course{{ID: "1"}, {ID: "2"}}}
	search := &stubSearch{results: []domain.Course{{ID: "2"}}}
	h := NewCourseHandler(catalog, search)

	c, rec := newContext(http.MethodGet, "/api/courses", "")
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	var before coursesResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &before)
	if before.Searched || len(before.Courses) != 2 {
		t.Fatalf("expected catalog view, got %+v", before)
	}

	c, rec = newContext(http.MethodPost, "/api/search", `{"query":"IIC"}`)
	if err := h.Search(c); err != nil {
		t.Fatalf("search: %v", err)
	}
	var after coursesResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &after)
	if !after.Searched || len(after.Courses) != 1 || search.query != "IIC" {
		t.Fatalf("expected search view, got %+v", after)
	}
}

func TestCourseHandler_SortFallsBackToCatalog(t *testing.T) {
	catalog := &stubCatalog{}
	h := NewCourseHandler(catalog, &stubSearch{})

	c, _ := newContext(http.MethodPost, "/api/courses/sort", `{"criteria":"rating","order":"desc"}`)
	if err := h.Sort(c); err != nil {
		t.Fatalf("sort: %v", err)
	}
	if catalog.sortedBy != domain.SortByRating {
		t.Fatalf("catalog not sorted, got %q", catalog.sortedBy)
	}
}

func TestCourseHandler_SortRejectsUnknownCriteria(t *testing.T) {
	h := NewCourseHandler(&stubCatalog{}, &stubSearch{})

	c, _ := newContext(http.MethodPost, "/api/courses/sort", `{"criteria":"name"}`)
	if err := h.Sort(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCourseHandler_SearchBusyPropagates(t *testing.T) {
	h := NewCourseHandler(&stubCatalog{}, &stubSearch{err: domain.ErrBusy})

	c, _ := newContext(http.MethodPost, "/api/search", `{"query":"x"}`)
	if err := h.Search(c); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

// --- chat handler ---

func TestChatHandler_SendReturnsTranscript(t *testing.T) {
	chat := &stubTranscript{}
	h := NewChatHandler(chat)

	c, rec := newContext(http.MethodPost, "/api/chat", `{"content":"hola"}`)
	if err := h.Send(c); err != nil {
		t.Fatalf("send: %v", err)
	}
	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Messages) != 2 || resp.Messages[0].Content != "hola" {
		t.Fatalf("unexpected transcript %+v", resp.Messages)
	}
}

func TestChatHandler_Clear(t *testing.T) {
	chat := &stubTranscript{messages: []domain.ChatMessage{{ID: "1"}}}
	h := NewChatHandler(chat)

	c, rec := newContext(http.MethodDelete, "/api/chat", "")
	if err := h.Clear(c); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if rec.Code != http.StatusNoContent || !chat.cleared {
		t.Fatalf("expected cleared transcript and 204, got %d", rec.Code)
	}
}

func TestChatHandler_HistoryAfterClearStaysEmpty(t *testing.T) {
	chat := service.NewChatService(service.NewKeywordBot(-1), nil, "s", 0, zerolog.Nop())
	h := NewChatHandler(chat)

	c, _ := newContext(http.MethodGet, "/api/chat", "")
	if err := h.History(c); err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(chat.Messages()) == 0 {
		t.Fatalf("expected the greeting on first load")
	}

	c, _ = newContext(http.MethodDelete, "/api/chat", "")
	if err := h.Clear(c); err != nil {
		t.Fatalf("clear: %v", err)
	}

	c, rec := newContext(http.MethodGet, "/api/chat", "")
	if err := h.History(c); err != nil {
		t.Fatalf("history: %v", err)
	}
	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Messages) != 0 {
		t.Fatalf("transcript has %d messages after clear", len(resp.Messages))
	}
}

func TestChatHandler_EmptyTranscriptIsArray(t *testing.T) {
	h := NewChatHandler(&stubTranscript{})

	c, rec := newContext(http.MethodGet, "/api/chat", "")
	if err := h.History(c); err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"messages":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

// --- health ---

func TestReadiness_Degraded(t *testing.T) {
	h := NewReadinessHandler(map[string]Check{
		"redis":   func(context.Context) error { return nil },
		"mongodb": func(context.Context) error { return errors.New("no reachable servers") },
	})

	c, rec := newContext(http.MethodGet, "/health/ready", "")
	if err := h.Readiness(c); err != nil {
		t.Fatalf("readiness: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var resp readinessResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Dependencies["redis"].Status != "ok" || resp.Dependencies["mongodb"].Status != "unhealthy" {
		t.Fatalf("unexpected dependencies %+v", resp.Dependencies)
	}
}
