package cmderr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_Structured(t *testing.T) {
	err := Newf(NotFound, "node not found: %s", "abc")
	if got := KindOf(err); got != NotFound {
		t.Fatalf("expected NotFound, got %s", got)
	}
}

func TestKindOf_WrappedStructured(t *testing.T) {
	inner := New(Font, "font Inter Bold unavailable")
	err := fmt.Errorf("command set_font: %w", inner)
	if got := KindOf(err); got != Font {
		t.Fatalf("expected Font through wrapping, got %s", got)
	}
}

func TestKindOf_UnstructuredFallsBackToClassify(t *testing.T) {
	err := errors.New("node xyz not found")
	if got := KindOf(err); got != NotFound {
		t.Fatalf("expected classified NotFound, got %s", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		msg  string
		want Kind
	}{
		{"missing required parameter \"nodeId\"", MissingParameter},
		{"unknown command: frobnicate", UnknownCommand},
		{"node abc does not exist", NotFound},
		{"permission denied", PermissionDenied},
		{"document is read-only", WrongMode},
		{"node TEXT does not support fills", Unsupported},
		{"connection refused", Network},
		{"image fetch failed: 404", Network},
		{"font family Comic not available", Font},
		{"something else entirely", Generic},
	}
	for _, c := range cases {
		if got := Classify(c.msg); got != c.want {
			t.Errorf("Classify(%q) = %s, want %s", c.msg, got, c.want)
		}
	}
}

func TestErrorString(t *testing.T) {
	base := errors.New("dial tcp: refused")
	err := Wrap(Network, base, "image fetch failed")
	if err.Error() != "image fetch failed: dial tcp: refused" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, base) {
		t.Fatal("wrapped error should be reachable via errors.Is")
	}
}
