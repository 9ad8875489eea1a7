package fakebackend

import (
	"go/parser"
	"go/token"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
)

// The CLI links this package into the binary for --fake-backend.
func TestNonTestFilesAvoidTestingPackages(t *testing.T) {
	entries, err := os.ReadDir(".")
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	fset := token.NewFileSet()
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		for _, imp := range f.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			if path == "testing" || path == "net/http/httptest" {
				t.Errorf("%s imports %s", name, path)
			}
		}
	}
}

func TestBackend_ServesCatalogInEnvelope(t *testing.T) {
	b := New()
	b.AddCourses(Course{ID: 1, Initials: "IIC2233", Name: "Programación Avanzada"})

	rec := httptest.NewRecorder()
	b.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/all", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"data"`) || !strings.Contains(rec.Body.String(), "IIC2233") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if got := b.Calls("GET /courses/all"); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
}
