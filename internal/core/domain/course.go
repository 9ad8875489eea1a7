package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Course is a catalog entry as held by the client. Values are never mutated
// locally; a refetch replaces them wholesale.
type Course struct {
	ID             string   `json:"id"`
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Requirements   []string `json:"requirements"`
	Semesters      []string `json:"semesters"`
	HasLabs        bool     `json:"hasLabs"`
	HasWorkshops   bool     `json:"hasWorkshops"`
	HasTASessions  bool     `json:"hasTASessions"`
	Sections       int      `json:"sections"`
	Professors     []string `json:"professors"`
	AvailableSpots int      `json:"availableSpots"`
	Category       string   `json:"category"`
	Difficulty     int      `json:"difficulty"`
	AverageRating  float64  `json:"averageRating"`
	TotalRatings   int      `json:"totalRatings"`
	Area           string   `json:"area"`
}

// SortCriteria selects the numeric facet a course collection is ordered by.
type SortCriteria string

const (
	SortByRating     SortCriteria = "rating"
	SortByDifficulty SortCriteria = "difficulty"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseSort validates a criteria/order pair coming from an outer surface.
func ParseSort(criteria, order string) (SortCriteria, SortOrder, error) {
	c := SortCriteria(strings.ToLower(strings.TrimSpace(criteria)))
	o := SortOrder(strings.ToLower(strings.TrimSpace(order)))
	if c != SortByRating && c != SortByDifficulty {
		return "", "", NewValidationError(fmt.Sprintf("criteria must be one of: %s %s", SortByRating, SortByDifficulty))
	}
	if o == "" {
		o = OrderAsc
	}
	if o != OrderAsc && o != OrderDesc {
		return "", "", NewValidationError(fmt.Sprintf("order must be one of: %s %s", OrderAsc, OrderDesc))
	}
	return c, o, nil
}

// SortCourses orders courses in place. The sort is stable: courses with equal
// keys keep their prior relative order, since no secondary key exists.
func SortCourses(courses []Course, criteria SortCriteria, order SortOrder) {
	slices.SortStableFunc(courses, func(a, b Course) int {
		var c int
		switch criteria {
		case SortByRating:
			c = cmp.Compare(a.AverageRating, b.AverageRating)
		case SortByDifficulty:
			c = cmp.Compare(a.Difficulty, b.Difficulty)
		}
		if order == OrderDesc {
			return -c
		}
		return c
	})
}

// SearchFilters narrows a search. Zero values mean "no filter".
type SearchFilters struct {
	Area       string  `json:"area,omitempty"`
	Difficulty int     `json:"difficulty,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
}

// Matches reports whether c satisfies the query and every set filter.
// The query is matched case-insensitively against code and name.
func (f SearchFilters) Matches(c Course, query string) bool {
	q := strings.ToLower(query)
	if q != "" &&
		!strings.Contains(strings.ToLower(c.Code), q) &&
		!strings.Contains(strings.ToLower(c.Name), q) {
		return false
	}
	if f.Area != "" && c.Area != f.Area {
		return false
	}
	if f.Difficulty != 0 && c.Difficulty != f.Difficulty {
		return false
	}
	if f.Rating != 0 && c.AverageRating < f.Rating {
		return false
	}
	return true
}

// FilterCourses returns the courses matching query and filters, in input order.
// The input slice is not modified.
func FilterCourses(courses []Course, query string, f SearchFilters) []Course {
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		if f.Matches(c, query) {
			out = append(out, c)
		}
	}
	return out
}

const buscaCursosURL = "https://buscacursos.uc.cl/?cxml_semestre=%d-%d&cxml_sigla=%s#resultados"

// BuscaCursosURL links a course code to the university enrollment site for the
// semester containing now. January through June is the first semester.
func BuscaCursosURL(code string, now time.Time) string {
	semester := 2
	if now.Month() <= time.June {
		semester = 1
	}
	return fmt.Sprintf(buscaCursosURL, now.Year(), semester, code)
}
