package errors

import (
	"strings"
	"testing"
)

func TestSourceLocationString(t *testing.T) {
	cases := []struct {
		loc  SourceLocation
		want string
	}{
		{SourceLocation{}, ""},
		{SourceLocation{File: "point.gy"}, "point.gy"},
		{SourceLocation{File: "point.gy", Line: 3, Column: 5}, "point.gy:3:5"},
	}
	for _, c := range cases {
		if got := c.loc.String(); got != c.want {
			t.Errorf("SourceLocation.String() = %q, want %q", got, c.want)
		}
	}
}

func TestCompileErrorMessage(t *testing.T) {
	err := New("field count has no initializer", SourceLocation{File: "point.gy", Line: 3, Column: 5})
	got := err.Error()
	if !strings.HasPrefix(got, "compile error: field count has no initializer") {
		t.Errorf("Error() = %q, missing message prefix", got)
	}
	if !strings.Contains(got, "point.gy:3:5") {
		t.Errorf("Error() = %q, missing location", got)
	}
}

func TestWithFrameAppendsTrail(t *testing.T) {
	err := New("undefined variable x", SourceLocation{File: "point.gy", Line: 10})
	err.WithFrame("in constructor 0 of Point", SourceLocation{File: "point.gy", Line: 8})
	err.WithFrame("in initializer of Point", SourceLocation{File: "point.gy", Line: 2})

	got := err.Error()
	if len(err.Frames) != 2 {
		t.Fatalf("len(Frames) = %d, want 2", len(err.Frames))
	}
	for _, want := range []string{"in constructor 0 of Point", "in initializer of Point", "point.gy:8", "point.gy:2"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestWithFrameReturnsSameError(t *testing.T) {
	err := New("boom", SourceLocation{})
	if got := err.WithFrame("in main", SourceLocation{}); got != err {
		t.Error("WithFrame should return the same *CompileError for chaining")
	}
}

func TestWrapPreservesUnderlyingMessage(t *testing.T) {
	underlying := New("disk full", SourceLocation{})
	wrapped := Wrap(underlying, "writing package header")
	if !strings.Contains(wrapped.Error(), "writing package header") {
		t.Errorf("Wrap error = %q, missing wrap message", wrapped.Error())
	}
	if !strings.Contains(wrapped.Error(), "disk full") {
		t.Errorf("Wrap error = %q, missing underlying message", wrapped.Error())
	}
}
