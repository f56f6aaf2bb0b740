package parser

import (
	"context"
	"fmt"
	"os"

	"github.com/ledgerscript/beancount/ast"
	"github.com/ledgerscript/beancount/builder"
	"github.com/ledgerscript/beancount/telemetry"
)

// Parser is a hand-written recursive-descent grammar engine over the token
// stream produced by Lexer. For every production it recognizes it builds the
// ast node, hands it to exactly one method on its builder and folds the
// result (or error) back into its own bookkeeping, continuing at
// the next line on any lex or grammar error rather than aborting.
type Parser struct {
	source   []byte
	filename string
	tokens   []Token
	pos      int

	interner *Interner
	builder  builder.Interface

	exprOptions ExprOptions
	maxErrors   int // 0 means unlimited

	ctx context.Context
}

// Option configures the Parser that ParseBytes, ParseString and ParseFile
// construct.
type Option func(*Parser)

// WithBuilder sets the builder.Interface the grammar engine drives. Defaults
// to a fresh *builder.TreeBuilder when not given.
func WithBuilder(b builder.Interface) Option {
	return func(p *Parser) { p.builder = b }
}

// WithExprPrecision overrides the Number Expression Evaluator's division
// precision, in digits after the decimal point. Default is 28.
func WithExprPrecision(digits int32) Option {
	return func(p *Parser) { p.exprOptions.Precision = digits }
}

// WithExprRounding overrides the Number Expression Evaluator's rounding mode
// for division. Default is RoundHalfEven.
func WithExprRounding(mode RoundingMode) Option {
	return func(p *Parser) { p.exprOptions.Rounding = mode }
}

// WithMaxErrors stops the parse early, marking the result Incomplete, once
// more than n errors have accumulated. Zero (the default) means unlimited.
func WithMaxErrors(n int) Option {
	return func(p *Parser) { p.maxErrors = n }
}

// WithContext makes the parse cooperatively cancellable: ctx.Err() is
// checked once per top-level declaration, returning a partial,
// Incomplete result if it's non-nil.
func WithContext(ctx context.Context) Option {
	return func(p *Parser) { p.ctx = ctx }
}

func newParser(source []byte, filename string, tokens []Token, interner *Interner, opts ...Option) *Parser {
	p := &Parser{
		source:      source,
		filename:    filename,
		tokens:      tokens,
		interner:    interner,
		exprOptions: DefaultExprOptions(),
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.builder == nil {
		p.builder = builder.NewTreeBuilder()
	}
	return p
}

// ParseBytes tokenizes and parses source in one pass. When a telemetry root
// timer is present in a context supplied via WithContext, lexing and
// parsing/building are each reported as a child span of it; building is not
// broken out separately since the grammar engine calls straight into the
// builder production by production rather than as a distinct pass.
func ParseBytes(source []byte, filename string, opts ...Option) (*builder.ParseResult, error) {
	cfg := &Parser{ctx: context.Background()}
	for _, opt := range opts {
		opt(cfg)
	}
	root := telemetry.RootTimerFromContext(cfg.ctx)

	var lexTimer telemetry.Timer
	if root != nil {
		lexTimer = root.Child(fmt.Sprintf("parser.lexing (%d bytes)", len(source)))
	}
	lex := NewLexer(source, filename)
	tokens, err := lex.ScanAll()
	if lexTimer != nil {
		lexTimer.End()
	}
	if err != nil {
		return nil, err
	}

	var parseTimer telemetry.Timer
	if root != nil {
		parseTimer = root.Child("parser.parsing")
	}
	p := newParser(source, filename, tokens, lex.Interner(), opts...)
	result := p.Parse()
	if parseTimer != nil {
		parseTimer.End()
	}
	return result, nil
}

// ParseString is ParseBytes over a string.
func ParseString(source, filename string, opts ...Option) (*builder.ParseResult, error) {
	return ParseBytes([]byte(source), filename, opts...)
}

// ParseFile reads filename and parses its contents.
func ParseFile(filename string, opts ...Option) (*builder.ParseResult, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data, filename, opts...)
}

// Parse runs the grammar engine over the token stream to completion (or
// until cancellation/the error cap is hit) and returns the accumulated
// result from its builder.
func (p *Parser) Parse() *builder.ParseResult {
	for !p.isAtEnd() {
		if err := p.ctx.Err(); err != nil {
			return p.incompleteResult()
		}

		if p.maxErrors > 0 {
			if acc, ok := p.builder.(interface{ Len() int }); ok && acc.Len() > p.maxErrors {
				return p.incompleteResult()
			}
		}

		p.parseDeclaration()
	}

	return p.result()
}

func (p *Parser) result() *builder.ParseResult {
	if tb, ok := p.builder.(*builder.TreeBuilder); ok {
		return tb.Result()
	}
	return &builder.ParseResult{}
}

func (p *Parser) incompleteResult() *builder.ParseResult {
	r := p.result()
	r.Incomplete = true
	return r
}

// parseDeclaration dispatches on the first token of a top-level line:
// trivia, header declarations, tag/meta context changes, or a dated
// directive (including a transaction introduced by "txn" or a flag).
func (p *Parser) parseDeclaration() {
	tok := p.peek()

	switch tok.Type {
	case NEWLINE:
		p.advance()
		p.builder.BlankLine(&ast.BlankLine{Pos: tokenPosition(tok, p.filename)})
		return

	case COMMENT:
		p.advance()
		p.builder.Comment(p.commentFromToken(tok))
		return

	case OPTION:
		p.parseOption()
		return
	case INCLUDE:
		p.parseInclude()
		return
	case PLUGIN:
		p.parsePlugin()
		return
	case PUSHTAG:
		p.parsePushTag()
		return
	case POPTAG:
		p.parsePopTag()
		return
	case PUSHMETA:
		p.parsePushMeta()
		return
	case POPMETA:
		p.parsePopMeta()
		return

	case DATE:
		p.parseDatedDirective()
		return

	default:
		p.reportErr(p.error("unexpected token %s at start of declaration", tok.Type))
		p.advance()
		p.skipLine()
	}
}

func (p *Parser) commentFromToken(tok Token) *ast.Comment {
	content := tok.String(p.source)
	for len(content) > 0 && (content[len(content)-1] == '\n' || content[len(content)-1] == '\r') {
		content = content[:len(content)-1]
	}
	return &ast.Comment{Pos: tokenPosition(tok, p.filename), Content: content}
}

// parseDatedDirective parses the directive keyword following a date and
// dispatches to the matching production.
func (p *Parser) parseDatedDirective() {
	startTok := p.peek()
	date, err := p.parseDate()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	kwTok := p.peek()
	if isLetterFlag(kwTok, p.source) {
		p.parseTransaction(startTok, date)
		return
	}
	switch kwTok.Type {
	case TXN, ASTERISK, EXCLAIM, FLAGCHAR:
		p.parseTransaction(startTok, date)
	case BALANCE:
		p.advance()
		p.parseBalance(startTok, date)
	case OPEN:
		p.advance()
		p.parseOpen(startTok, date)
	case CLOSE:
		p.advance()
		p.parseClose(startTok, date)
	case COMMODITY:
		p.advance()
		p.parseCommodity(startTok, date)
	case PAD:
		p.advance()
		p.parsePad(startTok, date)
	case NOTE:
		p.advance()
		p.parseNote(startTok, date)
	case DOCUMENT:
		p.advance()
		p.parseDocument(startTok, date)
	case PRICE:
		p.advance()
		p.parsePrice(startTok, date)
	case EVENT:
		p.advance()
		p.parseEvent(startTok, date)
	case QUERY:
		p.advance()
		p.parseQuery(startTok, date)
	case CUSTOM:
		p.advance()
		p.parseCustom(startTok, date)
	default:
		p.reportErr(p.error("unexpected token %s after date, expected a directive keyword", kwTok.Type))
		p.skipLine()
	}
}

func (p *Parser) parseOption() {
	pos := tokenPosition(p.peek(), p.filename)
	p.advance()

	name, err := p.parseString()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}
	value, err := p.parseString()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	if _, err := p.builder.Option(pos, name.Value, value.Value); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parseInclude() {
	pos := tokenPosition(p.peek(), p.filename)
	p.advance()

	filename, err := p.parseString()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	if _, err := p.builder.Include(pos, filename.Value); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parsePlugin() {
	pos := tokenPosition(p.peek(), p.filename)
	p.advance()

	name, err := p.parseString()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	config := ""
	if p.check(STRING) {
		cfg, err := p.parseString()
		if err != nil {
			p.reportErr(err)
			p.skipLine()
			return
		}
		config = cfg.Value
	}

	if _, err := p.builder.Plugin(pos, name.Value, config); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parsePushTag() {
	pos := tokenPosition(p.peek(), p.filename)
	p.advance()

	tag, err := p.parseTag()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	if err := p.builder.PushTag(pos, tag); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parsePopTag() {
	pos := tokenPosition(p.peek(), p.filename)
	p.advance()

	tag, err := p.parseTag()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	if err := p.builder.PopTag(pos, tag); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parsePushMeta() {
	pos := tokenPosition(p.peek(), p.filename)
	p.advance()

	key, err := p.parseIdent()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}
	if _, err := p.consume(COLON, "expected ':' after pushmeta key"); err != nil {
		p.reportErr(err)
	}
	value := p.parseMetadataValue()

	if err := p.builder.PushMeta(pos, key, value); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parsePopMeta() {
	pos := tokenPosition(p.peek(), p.filename)
	p.advance()

	key, err := p.parseIdent()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	if err := p.builder.PopMeta(pos, key); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}
