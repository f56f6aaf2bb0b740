package builder

import (
	"fmt"

	"github.com/ledgerscript/beancount/ast"
)

// ParseResult is the outcome of driving a grammar engine against a
// TreeBuilder: every directive and header declaration recorded, in source
// order, alongside the accumulated errors. A non-empty Errors list does not
// mean Directives is empty or unusable; the parse always continues past a
// recoverable error and returns everything it was able to build.
type ParseResult struct {
	Directives ast.Directives
	Options    []*ast.Option
	Includes   []*ast.Include
	Plugins    []*ast.Plugin
	Comments   []*ast.Comment
	BlankLines []*ast.BlankLine
	Errors     []*Error

	// Incomplete is true when the parse stopped early because its context
	// was canceled, rather than because it reached end of input.
	Incomplete bool
}

// Success reports whether the parse completed with no recorded errors.
func (r *ParseResult) Success() bool { return len(r.Errors) == 0 }

// AST converts the result into a plain ast.AST, discarding error and
// incompleteness information.
func (r *ParseResult) AST() *ast.AST {
	return &ast.AST{
		Directives: r.Directives,
		Options:    r.Options,
		Includes:   r.Includes,
		Plugins:    r.Plugins,
		Comments:   r.Comments,
		BlankLines: r.BlankLines,
	}
}

// TreeBuilder is the reference builder.Interface implementation: it
// assembles every callback into an ast.AST, applying the live tag/metadata
// context to each directive as it is built and recording every reported
// error in an ErrorAccumulator. Embedders that want a different in-memory
// representation (streaming to disk, building a different type system)
// implement Interface themselves instead.
type TreeBuilder struct {
	ErrorAccumulator
	tags *TagContext

	directives ast.Directives
	options    []*ast.Option
	includes   []*ast.Include
	plugins    []*ast.Plugin
	comments   []*ast.Comment
	blanks     []*ast.BlankLine
}

var _ Interface = (*TreeBuilder)(nil)

// NewTreeBuilder returns an empty TreeBuilder ready to receive callbacks.
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{tags: NewTagContext()}
}

// Result returns everything built so far as a ParseResult. Safe to call
// mid-parse (e.g. after a cancellation) as well as at the end.
func (b *TreeBuilder) Result() *ParseResult {
	return &ParseResult{
		Directives: b.directives,
		Options:    b.options,
		Includes:   b.includes,
		Plugins:    b.plugins,
		Comments:   b.comments,
		BlankLines: b.blanks,
		Errors:     b.Errors(),
	}
}

func (b *TreeBuilder) Option(pos ast.Position, name, value string) (*ast.Option, error) {
	o := &ast.Option{Pos: pos, Name: name, Value: value}
	b.options = append(b.options, o)
	return o, nil
}

func (b *TreeBuilder) Include(pos ast.Position, filename string) (*ast.Include, error) {
	i := &ast.Include{Pos: pos, Filename: filename}
	b.includes = append(b.includes, i)
	return i, nil
}

func (b *TreeBuilder) Plugin(pos ast.Position, name, config string) (*ast.Plugin, error) {
	p := &ast.Plugin{Pos: pos, Name: name, Config: config}
	b.plugins = append(b.plugins, p)
	return p, nil
}

func (b *TreeBuilder) PushTag(pos ast.Position, tag ast.Tag) error {
	b.tags.PushTag(tag)
	return nil
}

func (b *TreeBuilder) PopTag(pos ast.Position, tag ast.Tag) error {
	if !b.tags.PopTag(tag) {
		return fmt.Errorf("poptag %q without matching pushtag", tag)
	}
	return nil
}

func (b *TreeBuilder) PushMeta(pos ast.Position, key string, value *ast.MetadataValue) error {
	b.tags.PushMeta(key, value)
	return nil
}

func (b *TreeBuilder) PopMeta(pos ast.Position, key string) error {
	if !b.tags.PopMeta(key) {
		return fmt.Errorf("popmeta %q without matching pushmeta", key)
	}
	return nil
}

// applyContext folds the live tag/metadata context onto a newly built
// directive: active tags for transactions, active metadata for anything
// that accepts it. Explicit metadata already on the node wins over context
// metadata with the same key.
func (b *TreeBuilder) applyContext(d ast.Directive) {
	if txn, ok := d.(*ast.Transaction); ok {
		txn.Tags = append(b.tags.ActiveTags(), txn.Tags...)
	}
	existing := make(map[string]bool, len(d.MetadataList()))
	for _, m := range d.MetadataList() {
		existing[m.Key] = true
	}
	for _, m := range b.tags.ActiveMeta() {
		if !existing[m.Key] {
			d.AddMetadata(m)
		}
	}
}

func (b *TreeBuilder) Transaction(txn *ast.Transaction) (*ast.Transaction, error) {
	b.applyContext(txn)
	b.directives = append(b.directives, txn)
	return txn, nil
}

func (b *TreeBuilder) Balance(x *ast.Balance) (*ast.Balance, error) {
	b.applyContext(x)
	b.directives = append(b.directives, x)
	return x, nil
}

func (b *TreeBuilder) Open(x *ast.Open) (*ast.Open, error) {
	b.applyContext(x)
	b.directives = append(b.directives, x)
	return x, nil
}

func (b *TreeBuilder) Close(x *ast.Close) (*ast.Close, error) {
	b.applyContext(x)
	b.directives = append(b.directives, x)
	return x, nil
}

func (b *TreeBuilder) Commodity(x *ast.Commodity) (*ast.Commodity, error) {
	b.applyContext(x)
	b.directives = append(b.directives, x)
	return x, nil
}

func (b *TreeBuilder) Pad(x *ast.Pad) (*ast.Pad, error) {
	b.applyContext(x)
	b.directives = append(b.directives, x)
	return x, nil
}

func (b *TreeBuilder) Note(x *ast.Note) (*ast.Note, error) {
	b.applyContext(x)
	b.directives = append(b.directives, x)
	return x, nil
}

func (b *TreeBuilder) Document(x *ast.Document) (*ast.Document, error) {
	b.applyContext(x)
	b.directives = append(b.directives, x)
	return x, nil
}

func (b *TreeBuilder) Price(x *ast.Price) (*ast.Price, error) {
	b.applyContext(x)
	b.directives = append(b.directives, x)
	return x, nil
}

func (b *TreeBuilder) Event(x *ast.Event) (*ast.Event, error) {
	b.applyContext(x)
	b.directives = append(b.directives, x)
	return x, nil
}

func (b *TreeBuilder) Query(x *ast.Query) (*ast.Query, error) {
	b.applyContext(x)
	b.directives = append(b.directives, x)
	return x, nil
}

func (b *TreeBuilder) Custom(x *ast.Custom) (*ast.Custom, error) {
	b.applyContext(x)
	b.directives = append(b.directives, x)
	return x, nil
}

func (b *TreeBuilder) Comment(c *ast.Comment) error {
	b.comments = append(b.comments, c)
	return nil
}

func (b *TreeBuilder) BlankLine(x *ast.BlankLine) error {
	b.blanks = append(b.blanks, x)
	return nil
}

func (b *TreeBuilder) Error(err *Error) {
	b.Add(err)
}
