package builder

import (
	"encoding/json"

	"github.com/ledgerscript/beancount/ast"
)

// Category classifies where in the pipeline an Error originated.
type Category int

const (
	// CategoryLex marks errors raised by the tokenizer (invalid UTF-8,
	// unterminated string, malformed number).
	CategoryLex Category = iota
	// CategoryGrammar marks errors raised while matching a production
	// (unexpected token, missing required field).
	CategoryGrammar
	// CategoryBuilder marks errors returned by an Interface method
	// (e.g. a transaction callback rejecting an unbalanced posting set).
	CategoryBuilder
	// CategoryIO marks errors reading the source itself.
	CategoryIO
	// CategoryDeprecated marks constructs that parse but are scheduled for
	// removal (kept recoverable so callers can warn instead of fail).
	CategoryDeprecated
)

func (c Category) String() string {
	switch c {
	case CategoryLex:
		return "lex"
	case CategoryGrammar:
		return "grammar"
	case CategoryBuilder:
		return "builder"
	case CategoryIO:
		return "io"
	case CategoryDeprecated:
		return "deprecated"
	default:
		return "unknown"
	}
}

// Error is one entry in a parse's unified error list.
type Error struct {
	Pos      ast.Position
	Category Category
	Message  string
	Err      error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Pos.Filename != "" || e.Pos.Line != 0 {
		return e.Pos.String() + ": " + e.Message
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// MarshalJSON lets tools (editors, CI annotators) consume the accumulated
// error list as structured data instead of parsing Error() strings.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":     "Error",
		"category": e.Category.String(),
		"message":  e.Error(),
		"position": e.Pos,
	})
}

// NewError constructs an Error in the given category.
func NewError(pos ast.Position, category Category, message string) *Error {
	return &Error{Pos: pos, Category: category, Message: message}
}

// NewErrorf wraps an underlying error with position and category context.
func NewErrorf(pos ast.Position, category Category, err error) *Error {
	return &Error{Pos: pos, Category: category, Message: err.Error(), Err: err}
}

// ErrorAccumulator is an append-only, unordered-by-category but
// source-ordered list of Errors. It never causes the parse to abort; it is
// simply where every lex, grammar, builder and I/O problem gets recorded so
// the parse can continue and report everything it found in one pass.
type ErrorAccumulator struct {
	errors []*Error
}

// Add appends err to the list.
func (a *ErrorAccumulator) Add(err *Error) {
	a.errors = append(a.errors, err)
}

// Errors returns all recorded errors in the order they were added, which is
// source order since the grammar engine reports them as it encounters them.
func (a *ErrorAccumulator) Errors() []*Error {
	return a.errors
}

// HasErrors reports whether any error has been recorded.
func (a *ErrorAccumulator) HasErrors() bool {
	return len(a.errors) > 0
}

// Len returns the number of recorded errors.
func (a *ErrorAccumulator) Len() int {
	return len(a.errors)
}
