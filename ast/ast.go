// Package ast declares the types used to represent syntax trees for
// Beancount files. These nodes are produced incrementally by the grammar
// engine in the parser package, via the callback methods on a
// builder.Interface implementation, or can be constructed directly using the
// functional-option constructors in this package.
package ast

// DirectiveKind identifies the concrete type of a Directive without a type
// switch, useful for dispatch tables and diagnostics.
type DirectiveKind int

const (
	KindTransaction DirectiveKind = iota
	KindBalance
	KindOpen
	KindClose
	KindCommodity
	KindPad
	KindNote
	KindDocument
	KindPrice
	KindEvent
	KindQuery
	KindCustom
)

func (k DirectiveKind) String() string {
	switch k {
	case KindTransaction:
		return "transaction"
	case KindBalance:
		return "balance"
	case KindOpen:
		return "open"
	case KindClose:
		return "close"
	case KindCommodity:
		return "commodity"
	case KindPad:
		return "pad"
	case KindNote:
		return "note"
	case KindDocument:
		return "document"
	case KindPrice:
		return "price"
	case KindEvent:
		return "event"
	case KindQuery:
		return "query"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Directives is an ordered list of Directive nodes. Order always matches the
// order directives were reduced by the grammar engine, i.e. source order;
// nothing in this package re-sorts it by date.
type Directives []Directive

// WithMetadata is implemented by nodes that accept metadata entries.
type WithMetadata interface {
	AddMetadata(...*Metadata)
	MetadataList() []*Metadata
}

// WithComment is implemented by nodes that can carry a trailing inline
// comment on their own source line.
type WithComment interface {
	GetComment() *Comment
	SetComment(*Comment)
}

type withMetadata struct {
	Metadata []*Metadata
}

func (w *withMetadata) AddMetadata(m ...*Metadata) { w.Metadata = append(w.Metadata, m...) }
func (w *withMetadata) MetadataList() []*Metadata  { return w.Metadata }

type withComment struct {
	InlineComment *Comment
}

func (w *withComment) GetComment() *Comment    { return w.InlineComment }
func (w *withComment) SetComment(c *Comment)   { w.InlineComment = c }

// Directive is the interface implemented by every Beancount directive
// builder.Interface methods return. Option, Include and Plugin are
// deliberately not Directives: the grammar does not date them and they are
// collected separately on AST.
type Directive interface {
	Positioned
	WithMetadata
	WithComment

	GetDate() *Date
	Kind() DirectiveKind
}

// AST is the top-level parse result: all directives in source order, plus
// the header-level declarations that aren't themselves dated directives.
type AST struct {
	Directives Directives
	Options    []*Option
	Includes   []*Include
	Plugins    []*Plugin
	Comments   []*Comment
	BlankLines []*BlankLine
}
