package validation

import (
	"strings"
	"testing"
)

type sample struct {
	Name   string `validate:"required,notblank"`
	Rating int    `validate:"required,min=1,max=5"`
}

func TestStruct_OK(t *testing.T) {
	if err := Struct(sample{Name: "Favoritos", Rating: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStruct_Messages(t *testing.T) {
	err := Struct(sample{Name: "   ", Rating: 9})
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "name must not be blank") {
		t.Fatalf("missing blank message: %q", msg)
	}
	if !strings.Contains(msg, "rating must be at most 5") {
		t.Fatalf("missing max message: %q", msg)
	}
}

func TestStruct_Required(t *testing.T) {
	err := Struct(sample{Name: "x"})
	if err == nil || !strings.Contains(err.Error(), "rating is required") {
		t.Fatalf("expected required error, got %v", err)
	}
}
