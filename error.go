package molt

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// LexError reports a scanning failure: an unknown character, '!' not
// followed by '=', an unterminated string literal, or a numeric literal
// that does not parse.
type LexError struct {
	Span  Span
	Cause error
}

func NewLexError(span Span, cause error) *LexError {
	return &LexError{Span: span, Cause: errors.Trace(cause)}
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Cause)
}

func (e *LexError) Unwrap() error { return e.Cause }

// SyntaxError reports a parser failure: an expected-X-got-Y mismatch at a
// span, tagged with the number of tokens the parser had consumed when the
// error was raised. The parser does not compare competing errors; it
// returns the first one it meets.
type SyntaxError struct {
	Span    Span
	Cause   error
	Advance int
}

func NewSyntaxError(span Span, cause error, advance int) *SyntaxError {
	return &SyntaxError{Span: span, Cause: errors.Trace(cause), Advance: advance}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Cause)
}

func (e *SyntaxError) Unwrap() error { return e.Cause }

// FrameInfo is a snapshot of one call-stack entry taken at the moment a
// RuntimeError is raised: the display name of the function being
// evaluated and the span of the call expression that entered it.
type FrameInfo struct {
	DisplayName string
	Span        Span
}

// RuntimeError is the single error kind covering every runtime failure:
// division by zero, undefined variable, index out of range, arity
// mismatch, operator type mismatch, built-in argument violations, and
// propagated errors from a nested run() script. It carries the explicit
// call-stack vector captured at the raise site rather than walking
// Context parent pointers, per the traceback redesign.
type RuntimeError struct {
	Span   Span
	Frames []FrameInfo
	Cause  error
}

func NewRuntimeError(span Span, frames []FrameInfo, cause error) *RuntimeError {
	return &RuntimeError{Span: span, Frames: frames, Cause: errors.Trace(cause)}
}

// WithFrames returns a copy of the error with its frame snapshot filled
// in, or the error itself if it already carries one; used by the
// interpreter, which knows the call stack at the point
// an error surfaces from a leaf helper like applyBinary that does not
// itself have access to the stack.
func (e *RuntimeError) WithFrames(frames []FrameInfo) *RuntimeError {
	if e.Frames != nil {
		return e
	}
	cp := *e
	cp.Frames = frames
	return &cp
}

func (e *RuntimeError) Unwrap() error { return e.Cause }

// Error renders the original's generate_traceback() shape: a header,
// one "File %s, line %d, in %s" line per frame (innermost last), then
// the message itself.
func (e *RuntimeError) Error() string {
	var b strings.Builder
	if len(e.Frames) > 0 {
		b.WriteString("Traceback (most recent call last):\n")
		for _, f := range e.Frames {
			fmt.Fprintf(&b, "  File %s, line %d, in %s\n", f.Span.Start.File, f.Span.Start.Line+1, f.DisplayName)
		}
	}
	fmt.Fprintf(&b, "%s: %s", e.Span.Start, e.Cause)
	return b.String()
}
