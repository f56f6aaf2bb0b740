// Package builder defines the callback contract the grammar engine in the
// parser package drives as it reduces productions, plus TreeBuilder, a
// reference implementation that assembles the callbacks into an ast.AST.
//
// The grammar never holds the parse result. For every production it
// recognizes it builds the ast node and passes it to exactly one method on
// the active Interface, in source order, and folds the returned
// node (or error) back into its own bookkeeping. A Builder method never
// panics and never returns early out of the parse: a non-nil error is
// recorded by the grammar engine's error recovery and parsing continues at
// the next line, exactly as a malformed token sequence would be recovered
// from.
package builder

import "github.com/ledgerscript/beancount/ast"

// Interface is the capability surface a grammar engine needs to build a
// tree. Every method must be implemented; this package ships no no-op base
// implementation, and TreeBuilder is its only implementation.
type Interface interface {
	// Option records a top-level "option" declaration.
	Option(pos ast.Position, name, value string) (*ast.Option, error)

	// Include records a top-level "include" declaration. The builder never
	// opens the named file itself.
	Include(pos ast.Position, filename string) (*ast.Include, error)

	// Plugin records a top-level "plugin" declaration.
	Plugin(pos ast.Position, name, config string) (*ast.Plugin, error)

	// PushTag and PopTag maintain the implicit tag context applied to every
	// transaction parsed between the matching pair.
	PushTag(pos ast.Position, tag ast.Tag) error
	PopTag(pos ast.Position, tag ast.Tag) error

	// PushMeta and PopMeta maintain the implicit metadata context applied
	// to every directive parsed between the matching pair.
	PushMeta(pos ast.Position, key string, value *ast.MetadataValue) error
	PopMeta(pos ast.Position, key string) error

	// Transaction is called once the full header and posting block for a
	// transaction have been parsed.
	Transaction(txn *ast.Transaction) (*ast.Transaction, error)

	Balance(b *ast.Balance) (*ast.Balance, error)
	Open(o *ast.Open) (*ast.Open, error)
	Close(c *ast.Close) (*ast.Close, error)
	Commodity(c *ast.Commodity) (*ast.Commodity, error)
	Pad(p *ast.Pad) (*ast.Pad, error)
	Note(n *ast.Note) (*ast.Note, error)
	Document(d *ast.Document) (*ast.Document, error)
	Price(p *ast.Price) (*ast.Price, error)
	Event(e *ast.Event) (*ast.Event, error)
	Query(q *ast.Query) (*ast.Query, error)
	Custom(c *ast.Custom) (*ast.Custom, error)

	// Comment and BlankLine record trivia the grammar skips over but that a
	// round-tripping caller still wants preserved.
	Comment(c *ast.Comment) error
	BlankLine(b *ast.BlankLine) error

	// Error is called by the grammar engine's recovery path whenever a
	// lex or grammar error is detected; the builder decides how (or
	// whether) to record it. TreeBuilder appends to its ErrorAccumulator.
	Error(err *Error)
}
