// Package errors defines CompileError, the error kind for a user-facing
// failure against the compiler's input (spec section 7). Adapted from
// the teacher's multi-ErrorType SentraError (SyntaxError/RuntimeError/
// TypeError/...), which modeled a whole language pipeline. A broken
// invariant (like a double id assignment) is a Go panic, never a
// CompileError.
package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// SourceLocation pinpoints where a CompileError was raised.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (loc SourceLocation) String() string {
	if loc.File == "" {
		return ""
	}
	if loc.Line == 0 {
		return loc.File
	}
	return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Column)
}

// StackFrame is one entry of a CompileError's nested-expression trail
// (e.g. "in initializer of Point", "in constructor 2 of Shape").
type StackFrame struct {
	Description string
	Location    SourceLocation
}

// CompileError is a user-facing compile failure with a source location
// and a trail of nested-expression frames. The CFG builder in
// internal/cfg does not construct it: it reports its failures as plain
// fmt.Errorf errors. Where the serializer wraps an underlying I/O
// failure it uses github.com/pkg/errors, since an I/O failure isn't a
// property of the input package.
type CompileError struct {
	Message  string
	Location SourceLocation
	Frames   []StackFrame
}

func New(message string, loc SourceLocation) *CompileError {
	return &CompileError{Message: message, Location: loc}
}

func (e *CompileError) Error() string {
	var sb strings.Builder
	sb.WriteString("compile error: ")
	sb.WriteString(e.Message)
	if loc := e.Location.String(); loc != "" {
		sb.WriteString(" at ")
		sb.WriteString(loc)
	}
	for _, f := range e.Frames {
		sb.WriteString("\n  in ")
		sb.WriteString(f.Description)
		if loc := f.Location.String(); loc != "" {
			sb.WriteString(" at ")
			sb.WriteString(loc)
		}
	}
	return sb.String()
}

// WithFrame appends a trail entry and returns e, for chaining up a call
// stack of nested-expression compile functions the same way the
// original's compiler.py re-raises CompileError with added context.
func (e *CompileError) WithFrame(description string, loc SourceLocation) *CompileError {
	e.Frames = append(e.Frames, StackFrame{Description: description, Location: loc})
	return e
}

// Wrap attaches a message to a non-CompileError failure (serializer and
// decoder I/O) using github.com/pkg/errors, which preserves a
// stack trace distinct from CompileError's source-location trail.
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}
