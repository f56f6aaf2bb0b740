package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerscript/beancount/ast"
	"github.com/ledgerscript/beancount/builder"
)

// Helper parsing methods shared across directive and transaction parsing.
// These implement the small, repeated patterns in Beancount's grammar:
// dates, accounts, amounts, costs, strings, and metadata.

// isLetterFlag reports whether tok is a single uppercase ASCII letter,
// which the grammar permits as a txn/posting flag character alongside '*',
// '!', and the symbols lexed as FLAGCHAR. Such a token lexes as a
// one-character IDENT since it starts with an uppercase letter but carries
// no colon (the ACCOUNT/IDENT split in scanAccountOrIdent).
func isLetterFlag(tok Token, source []byte) bool {
	if tok.Type != IDENT || tok.Len() != 1 {
		return false
	}
	b := source[tok.Start]
	return b >= 'A' && b <= 'Z'
}

// stripThousandsSeparators drops comma thousands separators from a numeric
// token's text (e.g. "1,234.00" -> "1234.00"), per the grammar's rule that
// commas inside numbers are thousand separators rather than significant
// digits; the resulting comma-free string is what gets handed to the
// Builder and decimal.NewFromString, neither of which understand commas.
func stripThousandsSeparators(s string) string {
	if !strings.ContainsRune(s, ',') {
		return s
	}
	return strings.ReplaceAll(s, ",", "")
}

func (p *Parser) parseDate() (*ast.Date, error) {
	tok, err := p.expect(DATE, "expected date")
	if err != nil {
		return nil, err
	}

	date, err := ast.NewDate(tok.String(p.source))
	if err != nil {
		return nil, errAtf(tok, p.filename, "invalid date: %v", err)
	}
	return date, nil
}

func (p *Parser) parseAccount() (ast.Account, error) {
	tok, err := p.expect(ACCOUNT, "expected account")
	if err != nil {
		return "", err
	}
	return ast.Account(p.internIdent(tok)), nil
}

// parseAmount parses NUMBER CURRENCY or (EXPRESSION) CURRENCY. For a plain
// number the written digits are kept verbatim in Amount.Raw so formatting
// can reproduce e.g. trailing zeros; an expression is evaluated by the
// Number Expression Evaluator and its source span kept in Raw for the same
// reason.
func (p *Parser) parseAmount() (*ast.Amount, error) {
	number, raw, err := p.parseCostNumber()
	if err != nil {
		return nil, err
	}

	currTok, err := p.expect(IDENT, "expected currency")
	if err != nil {
		return nil, err
	}
	currency := p.internCurrency(currTok)

	return &ast.Amount{Number: number, Currency: currency, Raw: raw}, nil
}

// parseCostNumber parses a bare NUMBER or parenthesized expression and
// returns its value and source text, without consuming a trailing
// currency the way parseAmount does. Shared by parseAmount and
// parseCostAmount, which uses it for the total after a compound "/"
// separator and for any per-unit number not directly followed by one.
func (p *Parser) parseCostNumber() (decimal.Decimal, string, error) {
	if p.isExpressionStart() {
		startTok := p.peek()
		number, err := p.parseExpression()
		if err != nil {
			return decimal.Zero, "", err
		}
		endOffset := p.previous().End
		return number, string(p.source[startTok.Start:endOffset]), nil
	}

	numTok, err := p.expect(NUMBER, "expected number or expression")
	if err != nil {
		return decimal.Zero, "", err
	}
	raw := numTok.String(p.source)
	number, err := decimal.NewFromString(stripThousandsSeparators(raw))
	if err != nil {
		return decimal.Zero, "", errAtf(numTok, p.filename, "invalid number: %v", err)
	}
	return number, raw, nil
}

// parseCostAmount parses one lot_comp compound amount: either a plain
// "number currency", or the deprecated "number / number currency" form
// that sets both a per-unit and a total cost in one component. The
// deprecated form is accepted and recorded as a CategoryDeprecated error
// rather than rejected, so callers can warn on it instead of failing the
// parse.
func (p *Parser) parseCostAmount() (perUnit, total *ast.Amount, err error) {
	startTok := p.peek()
	var perNumber decimal.Decimal
	var perRaw string
	if p.check(NUMBER) && p.peekAhead(1).Type == SLASH {
		// A bare number directly followed by '/' is the per-unit half of
		// the compound form, not the start of a division expression.
		numTok := p.advance()
		perRaw = numTok.String(p.source)
		perNumber, err = decimal.NewFromString(stripThousandsSeparators(perRaw))
		if err != nil {
			return nil, nil, errAtf(numTok, p.filename, "invalid number: %v", err)
		}
	} else if perNumber, perRaw, err = p.parseCostNumber(); err != nil {
		return nil, nil, err
	}

	if p.match(SLASH) {
		totalNumber, totalRaw, err := p.parseCostNumber()
		if err != nil {
			return nil, nil, err
		}
		currTok, err := p.expect(IDENT, "expected currency")
		if err != nil {
			return nil, nil, err
		}
		currency := p.internCurrency(currTok)

		p.builder.Error(builder.NewError(
			tokenPosition(startTok, p.filename),
			builder.CategoryDeprecated,
			"'/' compound cost separator is deprecated, write the per-unit and total costs as separate lot components instead",
		))

		return &ast.Amount{Number: perNumber, Currency: currency, Raw: perRaw},
			&ast.Amount{Number: totalNumber, Currency: currency, Raw: totalRaw}, nil
	}

	currTok, err := p.expect(IDENT, "expected currency")
	if err != nil {
		return nil, nil, err
	}
	currency := p.internCurrency(currTok)

	return &ast.Amount{Number: perNumber, Currency: currency, Raw: perRaw}, nil, nil
}

// parseCost parses a cost specification:
// "{" "*" "}" (merge cost), or
// "{" [COMPOUND_AMOUNT] ["," DATE] ["," STRING] "}" or
// "{{" COMPOUND_AMOUNT ["," DATE] ["," STRING] "}}"
// where COMPOUND_AMOUNT is "number currency" or the deprecated
// "number / number currency" form parsed by parseCostAmount.
func (p *Parser) parseCost() (*ast.CostSpec, error) {
	isTotal := false
	if p.check(LDBRACE) {
		p.advance()
		isTotal = true
	} else if _, err := p.consume(LBRACE, "expected '{' or '{{'"); err != nil {
		return nil, err
	}

	cost := &ast.CostSpec{}

	if p.match(ASTERISK) {
		if isTotal {
			return nil, p.error("merge cost {*} cannot use total cost syntax {{}}")
		}
		cost.Merge = true
		if _, err := p.consume(RBRACE, "expected '}'"); err != nil {
			return nil, err
		}
		return cost, nil
	}

	closingToken := RBRACE
	if isTotal {
		closingToken = RDBRACE
	}

	if p.check(closingToken) {
		if isTotal {
			return nil, p.error("empty total cost {{}} is not allowed")
		}
		p.advance()
		return cost, nil
	}

	if p.check(NUMBER) || p.isExpressionStart() {
		perUnit, total, err := p.parseCostAmount()
		if err != nil {
			return nil, err
		}
		if isTotal {
			// {{...}} names a total cost; a compound "per / total" amount
			// inside it still contributes both fields.
			if total != nil {
				cost.Total = total
			} else {
				cost.Total = perUnit
			}
			if total != nil {
				cost.PerUnit = perUnit
			}
		} else {
			cost.PerUnit = perUnit
			if total != nil {
				cost.Total = total
			}
		}
	} else if isTotal {
		return nil, p.error("total cost {{}} requires an amount")
	}

	if p.match(COMMA) {
		if p.check(DATE) {
			date, err := p.parseDate()
			if err != nil {
				return nil, err
			}
			cost.Date = date

			if p.match(COMMA) {
				if p.check(STRING) {
					label, err := p.parseString()
					if err != nil {
						return nil, err
					}
					cost.Label = label.Value
				}
			}
		} else if p.check(STRING) {
			label, err := p.parseString()
			if err != nil {
				return nil, err
			}
			cost.Label = label.Value
		}
	}

	var err error
	if isTotal {
		_, err = p.consume(RDBRACE, "expected '}}'")
	} else {
		_, err = p.consume(RBRACE, "expected '}'")
	}
	if err != nil {
		return nil, err
	}

	return cost, nil
}

// parseString parses a STRING token, keeping both its raw quoted form and
// decoded value for round-trip formatting.
func (p *Parser) parseString() (ast.RawString, error) {
	tok, err := p.expect(STRING, "expected string")
	if err != nil {
		return ast.RawString{}, err
	}

	rawValue := tok.String(p.source)
	unquoted, err := p.unquoteString(rawValue)
	if err != nil {
		return ast.RawString{}, errAtf(tok, p.filename, "invalid string literal: %v", err)
	}

	return ast.NewRawStringWithRaw(rawValue, p.internString(unquoted)), nil
}

func (p *Parser) unquoteString(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s, &StringLiteralError{Message: "string must be enclosed in double quotes"}
	}

	inner := s[1 : len(s)-1]
	if strings.IndexByte(inner, '\\') < 0 {
		return inner, nil
	}
	return p.processEscapeSequences(inner)
}

func (p *Parser) processEscapeSequences(inner string) (string, error) {
	var buf strings.Builder
	buf.Grow(len(inner))

	i := 0
	for i < len(inner) {
		if inner[i] != '\\' {
			buf.WriteByte(inner[i])
			i++
			continue
		}

		if i+1 >= len(inner) {
			return "", &StringLiteralError{Message: "escape sequence at end of string"}
		}

		switch inner[i+1] {
		case '"':
			buf.WriteByte('"')
		case '\\':
			buf.WriteByte('\\')
		case 'n':
			buf.WriteByte('\n')
		case 't':
			buf.WriteByte('\t')
		case 'r':
			buf.WriteByte('\r')
		default:
			return "", &StringLiteralError{Message: "invalid escape sequence '\\" + string(inner[i+1]) + "'"}
		}
		i += 2
	}

	return buf.String(), nil
}

func (p *Parser) parseIdent() (string, error) {
	tok, err := p.expect(IDENT, "expected identifier")
	if err != nil {
		return "", err
	}
	return p.internCurrency(tok), nil
}

func (p *Parser) parseTag() (ast.Tag, error) {
	tok, err := p.expect(TAG, "expected tag")
	if err != nil {
		return "", err
	}
	return ast.NewTag(tok.String(p.source)), nil
}

func (p *Parser) parseLink() (ast.Link, error) {
	tok, err := p.expect(LINK, "expected link")
	if err != nil {
		return "", err
	}
	return ast.NewLink(tok.String(p.source)), nil
}

// finishDirective attaches a trailing inline comment (if one appears on
// headerLine) and any indented metadata lines that follow to d. Every
// directive-level parsing method calls this once its required fields have
// been parsed, right before handing d to its builder method.
func (p *Parser) finishDirective(d ast.Directive, headerLine int) {
	if p.check(COMMENT) && p.peek().Line == headerLine {
		tok := p.advance()
		d.SetComment(p.commentFromToken(tok))
	}
	for _, m := range p.parseMetadataFromLine() {
		d.AddMetadata(m)
	}
}

// parseMetadataFromLine parses the run of "key: value" lines indented under
// a directive or posting.
func (p *Parser) parseMetadataFromLine() []*ast.Metadata {
	var metadata []*ast.Metadata

	for {
		keyTok := p.peek()

		isMetadataKey := (keyTok.Type == IDENT || p.isKeyword(keyTok.Type)) &&
			p.peekAhead(1).Type == COLON &&
			keyTok.Column+keyTok.Len() == p.peekAhead(1).Column

		if !isMetadataKey {
			break
		}

		p.advance()
		if _, err := p.consume(COLON, "expected ':'"); err != nil {
			p.reportErr(err)
		}

		value := p.parseMetadataValue()

		metadata = append(metadata, &ast.Metadata{
			Pos:   tokenPosition(keyTok, p.filename),
			Key:   keyTok.String(p.source),
			Value: value,
		})
	}

	return metadata
}

// parseMetadataValue parses one of the nine typed metadata value forms.
func (p *Parser) parseMetadataValue() *ast.MetadataValue {
	tok := p.peek()

	switch tok.Type {
	case STRING:
		if str, err := p.parseString(); err == nil {
			return &ast.MetadataValue{StringValue: &str}
		}

	case DATE:
		if date, err := p.parseDate(); err == nil {
			return &ast.MetadataValue{Date: date}
		}

	case TAG:
		if tag, err := p.parseTag(); err == nil {
			return &ast.MetadataValue{Tag: &tag}
		}

	case LINK:
		if link, err := p.parseLink(); err == nil {
			return &ast.MetadataValue{Link: &link}
		}

	case ACCOUNT:
		if account, err := p.parseAccount(); err == nil {
			return &ast.MetadataValue{Account: &account}
		}

	case NUMBER:
		if p.peekAhead(1).Type == IDENT {
			if amount, err := p.parseAmount(); err == nil {
				return &ast.MetadataValue{Amount: amount}
			}
		} else {
			numTok := p.advance()
			if n, err := decimal.NewFromString(stripThousandsSeparators(numTok.String(p.source))); err == nil {
				return &ast.MetadataValue{Number: &n}
			}
		}

	case IDENT:
		identStr := tok.String(p.source)

		switch identStr {
		case "TRUE":
			p.advance()
			v := true
			return &ast.MetadataValue{Boolean: &v}
		case "FALSE":
			p.advance()
			v := false
			return &ast.MetadataValue{Boolean: &v}
		}

		p.advance()
		currency := p.internCurrency(tok)
		return &ast.MetadataValue{Currency: &currency}
	}

	value := p.parseRestOfLine()
	unquoted, err := p.unquoteString(value)
	if err != nil {
		rawStr := ast.NewRawString(value)
		return &ast.MetadataValue{StringValue: &rawStr}
	}
	rawStr := ast.NewRawString(unquoted)
	return &ast.MetadataValue{StringValue: &rawStr}
}

func (p *Parser) isKeyword(typ TokenType) bool {
	switch typ {
	case TXN, BALANCE, OPEN, CLOSE, COMMODITY, PAD, NOTE, DOCUMENT,
		PRICE, EVENT, QUERY, CUSTOM, OPTION, INCLUDE, PLUGIN,
		PUSHTAG, POPTAG, PUSHMETA, POPMETA:
		return true
	default:
		return false
	}
}

func (p *Parser) parseRestOfLine() string {
	currentLine := p.peek().Line

	var parts []string
	for !p.isAtEnd() && p.peek().Line == currentLine {
		tok := p.advance()
		parts = append(parts, tok.String(p.source))
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

// skipLine discards all remaining tokens on the current line (the line of
// the most recently consumed token), the grammar engine's error-recovery
// step after a builder or grammar error.
func (p *Parser) skipLine() {
	line := p.previous().Line
	for !p.isAtEnd() && p.peek().Line == line {
		p.advance()
	}
}

// Token navigation.

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAhead(n int) Token {
	pos := p.pos + n
	if pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[pos]
}

func (p *Parser) previous() Token {
	if p.pos == 0 {
		return Token{Type: ILLEGAL}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) isAtEnd() bool { return p.peek().Type == EOF }

func (p *Parser) check(typ TokenType) bool { return p.peek().Type == typ }

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

// consume advances past typ, or leaves the position unchanged and returns
// an ILLEGAL token paired with message formatted as an error at the current
// position, so the caller can decide whether to abandon the production or
// keep building with a zero-valued field.
func (p *Parser) consume(typ TokenType, message string) (Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}

	tok := p.peek()
	return Token{Type: ILLEGAL, Start: tok.Start, End: tok.End, Line: tok.Line, Column: tok.Column},
		errAtf(tok, p.filename, "%s, got %s", message, tok.Type)
}

func (p *Parser) expect(typ TokenType, message string) (Token, error) {
	return p.consume(typ, message)
}

// String interning.

func (p *Parser) internCurrency(tok Token) string { return p.interner.InternBytes(tok.Bytes(p.source)) }
func (p *Parser) internString(s string) string    { return p.interner.Intern(s) }
func (p *Parser) internIdent(tok Token) string    { return p.interner.InternBytes(tok.Bytes(p.source)) }

// Error helpers. Most parsing helpers only construct and return plain Go
// errors, and the directive- and transaction-level parsing methods route a
// failed production into the builder's accumulator via reportErr, since
// they're the ones that know whether the production can still be partially
// built or must be abandoned entirely. Two helpers report directly:
// parseMetadataFromLine (a missing ':') and parseCostAmount (the deprecated
// compound cost form).

func (p *Parser) reportErr(err error) {
	if err == nil {
		return
	}
	p.builder.Error(builderErrorf(err))
}

func (p *Parser) error(format string, args ...any) error {
	return errAtf(p.peek(), p.filename, format, args...)
}
