package parser

import (
	"fmt"

	"github.com/ledgerscript/beancount/ast"
	"github.com/ledgerscript/beancount/builder"
)

// StringLiteralError reports a malformed string literal (bad escape, unclosed
// quote) found while unquoting.
type StringLiteralError struct {
	Message string
}

func (e *StringLiteralError) Error() string { return e.Message }

// tokenPosition converts a Token into an ast.Position against filename.
func tokenPosition(tok Token, filename string) ast.Position {
	return ast.Position{Filename: filename, Offset: tok.Start, Line: tok.Line, Column: tok.Column}
}

// positionedError carries the source position alongside its message so a
// later stage can recover structured position information instead of
// re-parsing an error string.
type positionedError struct {
	pos     ast.Position
	message string
}

func (e *positionedError) Error() string { return e.pos.String() + ": " + e.message }

// errAtf builds a positionedError at tok. Grammar- and directive-level
// parsing methods decide whether to route the result into the builder's
// accumulator via reportErr/builderErrorf, so this package has no
// dependency on builder's error categories beyond what its callers choose
// to attach.
func errAtf(tok Token, filename string, format string, args ...any) error {
	pos := tokenPosition(tok, filename)
	return &positionedError{pos: pos, message: fmt.Sprintf(format, args...)}
}

// builderErrorf converts a plain error from this package into a
// *builder.Error, recovering its source position when the error is a
// *positionedError and falling back to an unpositioned grammar error
// otherwise.
func builderErrorf(err error) *builder.Error {
	if perr, ok := err.(*positionedError); ok {
		return builder.NewError(perr.pos, builder.CategoryGrammar, perr.message)
	}
	return builder.NewError(ast.Position{}, builder.CategoryGrammar, err.Error())
}

// reportBuilderErr records an error returned by a builder.Interface method
// (as opposed to one raised internally by the grammar engine itself). pos is
// the directive/statement position already known at the call site, since
// these errors (e.g. "poptag without matching pushtag") don't carry their
// own position the way a *positionedError does.
func (p *Parser) reportBuilderErr(pos ast.Position, err error) {
	if err == nil {
		return
	}
	p.builder.Error(builder.NewErrorf(pos, builder.CategoryBuilder, err))
}
