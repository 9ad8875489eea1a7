package gateway

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

// Facet defaults for fields the backend does not carry yet.
const (
	defaultDifficulty     = 4
	defaultAverageRating  = 4.4
	defaultSections       = 4
	defaultAvailableSpots = 100
	anonymousName         = "Anónimo"
)

// flexID accepts a JSON number or string and keeps its textual form.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// first returns the first non-empty id.
func first(ids ...flexID) string {
	for _, id := range ids {
		if id != "" {
			return string(id)
		}
	}
	return ""
}

// unwrapData returns the payload under "data" when present, else body itself.
func unwrapData(body json.RawMessage) json.RawMessage {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		d := bytes.TrimSpace(env.Data)
		if len(d) > 0 && !bytes.Equal(d, []byte("null")) {
			return d
		}
	}
	return body
}

// isArray reports whether raw is a JSON array.
func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// decodeMany decodes raw as a list of T, accepting a single object as a list
// of one.
func decodeMany[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if isArray(raw) {
		var out []T
		err := json.Unmarshal(raw, &out)
		return out, err
	}
	var one T
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

func splitCSV(s string) []string {
	out := []string{}
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseTime accepts RFC 3339 with or without fractional seconds; anything
// else yields the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type apiCourse struct {
	CourseID       flexID   `json:"course_id"`
	ID             flexID   `json:"id"`
	Initials       string   `json:"initials"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Requirements   string   `json:"requirements"`
	Term           string   `json:"term"`
	Program        *string  `json:"program"`
	Area           string   `json:"area"`
	Difficulty     *int     `json:"difficulty"`
	AverageRating  *float64 `json:"average_rating"`
	TotalRatings   int      `json:"total_ratings"`
	Sections       *int     `json:"sections"`
	AvailableSpots *int     `json:"available_spots"`
	Professors     []string `json:"professors"`
	HasLabs        bool     `json:"has_labs"`
	HasWorkshops   bool     `json:"has_workshops"`
	HasTASessions  bool     `json:"has_ta_sessions"`
}

func (a apiCourse) toDomain() domain.Course {
	c := domain.Course{
		ID:             first(a.CourseID, a.ID),
		Code:           a.Initials,
		Name:           a.Name,
		Description:    a.Description,
		Requirements:   splitCSV(a.Requirements),
		Semesters:      splitCSV(a.Term),
		HasLabs:        a.HasLabs,
		HasWorkshops:   a.HasWorkshops,
		HasTASessions:  a.HasTASessions,
		Sections:       defaultSections,
		Professors:     a.Professors,
		AvailableSpots: defaultAvailableSpots,
		Difficulty:     defaultDifficulty,
		AverageRating:  defaultAverageRating,
		TotalRatings:   a.TotalRatings,
		Area:           a.Area,
	}
	if a.Program != nil {
		c.Category = *a.Program
	}
	if a.Difficulty != nil {
		c.Difficulty = *a.Difficulty
	}
	if a.AverageRating != nil {
		c.AverageRating = *a.AverageRating
	}
	if a.Sections != nil {
		c.Sections = *a.Sections
	}
	if a.AvailableSpots != nil {
		c.AvailableSpots = *a.AvailableSpots
	}
	if c.Professors == nil {
		c.Professors = []string{}
	}
	return c
}

type apiComment struct {
	CommentID      flexID  `json:"comment_id"`
	ID             flexID  `json:"id"`
	UserID         flexID  `json:"user_id"`
	CourseID       flexID  `json:"course_id"`
	Description    *string `json:"description"`
	Rating         int     `json:"rating"`
	Difficulty     int     `json:"difficulty"`
	UserName       string  `json:"user_name"`
	CreatedAt      string  `json:"created_at"`
	CreatedAtCamel string  `json:"createdAt"`
}

func (a apiComment) toDomain() domain.Comment {
	created := a.CreatedAt
	if created == "" {
		created = a.CreatedAtCamel
	}
	name := a.UserName
	if name == "" {
		name = anonymousName
	}
	return domain.Comment{
		ID:         first(a.CommentID, a.ID),
		UserID:     string(a.UserID),
		UserName:   name,
		CourseID:   string(a.CourseID),
		Content:    a.Description,
		Rating:     a.Rating,
		Difficulty: a.Difficulty,
		CreatedAt:  parseTime(created),
	}
}

type commentPayload struct {
	CourseID    string  `json:"course_id,omitempty"`
	UserID      string  `json:"user_id,omitempty"`
	Description *string `json:"description"`
	Rating      int     `json:"rating"`
	Difficulty  int     `json:"difficulty"`
}

type apiList struct {
	ListID         flexID   `json:"list_id"`
	ID             flexID   `json:"id"`
	UserID         flexID   `json:"user_id"`
	UserIDCamel    flexID   `json:"userId"`
	Name           string   `json:"name"`
	Courses        []flexID `json:"courses"`
	CreatedAt      string   `json:"created_at"`
	CreatedAtCamel string   `json:"createdAt"`
}

func (a apiList) toDomain() domain.CourseList {
	courses := make([]string, 0, len(a.Courses))
	for _, id := range a.Courses {
		courses = append(courses, string(id))
	}
	created := a.CreatedAt
	if created == "" {
		created = a.CreatedAtCamel
	}
	return domain.CourseList{
		ID:        first(a.ListID, a.ID),
		UserID:    first(a.UserID, a.UserIDCamel),
		Name:      a.Name,
		Courses:   courses,
		CreatedAt: parseTime(created),
	}
}

type listPayload struct {
	UserID  string   `json:"user_id"`
	Name    string   `json:"name"`
	Courses []string `json:"courses,omitempty"`
}

type apiUser struct {
	ID         flexID `json:"id"`
	UserID     flexID `json:"user_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	IsVerified *bool  `json:"isVerified"`
	Verified   *bool  `json:"verified"`
}

func (a apiUser) toDomain() *domain.User {
	u := &domain.User{
		ID:    first(a.ID, a.UserID),
		Email: a.Email,
		Name:  a.Name,
	}
	switch {
	case a.IsVerified != nil:
		u.IsVerified = *a.IsVerified
	case a.Verified != nil:
		u.IsVerified = *a.Verified
	}
	return u
}
