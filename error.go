package rex

import (
	"fmt"

	"github.com/coregx/rex/parse"
)

// ParseError reports a pattern that failed to parse, naming the offending
// position and the pattern it came from. Grounded on the teacher's
// nfa.CompileError (github.com/coregx/coregex/nfa/error.go): a wrapping
// error type that carries the source pattern alongside the underlying
// cause and implements Unwrap.
type ParseError struct {
	Pattern string
	Err     *parse.Error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("rex: error parsing %q: %s at position %d", e.Pattern, e.Err.Kind, e.Err.Pos)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CompileError reports a parsed pattern that failed the structural
// validation prog.Validate performs after compilation — a defect in the
// compiler itself rather than in the pattern, since a successfully parsed
// pattern is expected to always produce a valid program.
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("rex: internal error compiling %q: %v", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }
