package parser

import "github.com/ledgerscript/beancount/ast"

// Directive-level parsing: each method here has already consumed the date
// and directive keyword (done by parseDatedDirective) and is responsible
// for the remainder of the header line plus any trailing comment/metadata
// block, ending with exactly one call to the matching builder.Interface
// method.

func (p *Parser) parseBalance(startTok Token, date *ast.Date) {
	headerLine := startTok.Line
	pos := tokenPosition(startTok, p.filename)

	account, err := p.parseAccount()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	amount, err := p.parseAmount()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	var tolerance *ast.Amount
	if p.match(TILDE) {
		tol, err := p.parseAmount()
		if err != nil {
			p.reportErr(err)
		} else {
			tolerance = tol
		}
	}

	b := &ast.Balance{Pos: pos, Date: date, Account: account, Amount: amount, Tolerance: tolerance}
	p.finishDirective(b, headerLine)

	if _, err := p.builder.Balance(b); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parseOpen(startTok Token, date *ast.Date) {
	headerLine := startTok.Line
	pos := tokenPosition(startTok, p.filename)

	account, err := p.parseAccount()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	var currencies []string
	for p.check(IDENT) && p.peek().Line == headerLine {
		curr, err := p.parseIdent()
		if err != nil {
			p.reportErr(err)
			break
		}
		currencies = append(currencies, curr)
		if !p.match(COMMA) {
			break
		}
	}

	bookingMethod := ""
	if p.check(STRING) && p.peek().Line == headerLine {
		method, err := p.parseString()
		if err != nil {
			p.reportErr(err)
		} else {
			bookingMethod = method.Value
		}
	}

	o := &ast.Open{Pos: pos, Date: date, Account: account, ConstraintCurrencies: currencies, BookingMethod: bookingMethod}
	p.finishDirective(o, headerLine)

	if _, err := p.builder.Open(o); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parseClose(startTok Token, date *ast.Date) {
	headerLine := startTok.Line
	pos := tokenPosition(startTok, p.filename)

	account, err := p.parseAccount()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	c := &ast.Close{Pos: pos, Date: date, Account: account}
	p.finishDirective(c, headerLine)

	if _, err := p.builder.Close(c); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parseCommodity(startTok Token, date *ast.Date) {
	headerLine := startTok.Line
	pos := tokenPosition(startTok, p.filename)

	currency, err := p.parseIdent()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	c := &ast.Commodity{Pos: pos, Date: date, Currency: currency}
	p.finishDirective(c, headerLine)

	if _, err := p.builder.Commodity(c); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parsePad(startTok Token, date *ast.Date) {
	headerLine := startTok.Line
	pos := tokenPosition(startTok, p.filename)

	account, err := p.parseAccount()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	padAccount, err := p.parseAccount()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	pad := &ast.Pad{Pos: pos, Date: date, Account: account, AccountPad: padAccount}
	p.finishDirective(pad, headerLine)

	if _, err := p.builder.Pad(pad); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parseNote(startTok Token, date *ast.Date) {
	headerLine := startTok.Line
	pos := tokenPosition(startTok, p.filename)

	account, err := p.parseAccount()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	description, err := p.parseString()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	n := &ast.Note{Pos: pos, Date: date, Account: account, Description: description}
	p.finishDirective(n, headerLine)

	if _, err := p.builder.Note(n); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parseDocument(startTok Token, date *ast.Date) {
	headerLine := startTok.Line
	pos := tokenPosition(startTok, p.filename)

	account, err := p.parseAccount()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	path, err := p.parseString()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	d := &ast.Document{Pos: pos, Date: date, Account: account, PathToDocument: path}
	p.finishDirective(d, headerLine)

	if _, err := p.builder.Document(d); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parsePrice(startTok Token, date *ast.Date) {
	headerLine := startTok.Line
	pos := tokenPosition(startTok, p.filename)

	commodity, err := p.parseIdent()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	amount, err := p.parseAmount()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	pr := &ast.Price{Pos: pos, Date: date, Commodity: commodity, Amount: amount}
	p.finishDirective(pr, headerLine)

	if _, err := p.builder.Price(pr); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parseEvent(startTok Token, date *ast.Date) {
	headerLine := startTok.Line
	pos := tokenPosition(startTok, p.filename)

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

	e := &ast.Event{Pos: pos, Date: date, Name: name, Value: value}
	p.finishDirective(e, headerLine)

	if _, err := p.builder.Event(e); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parseQuery(startTok Token, date *ast.Date) {
	headerLine := startTok.Line
	pos := tokenPosition(startTok, p.filename)

	name, err := p.parseString()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	query, err := p.parseString()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	q := &ast.Query{Pos: pos, Date: date, Name: name, Query: query}
	p.finishDirective(q, headerLine)

	if _, err := p.builder.Query(q); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

func (p *Parser) parseCustom(startTok Token, date *ast.Date) {
	headerLine := startTok.Line
	pos := tokenPosition(startTok, p.filename)

	typeName, err := p.parseString()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return
	}

	var values []*ast.CustomValue
	for p.peek().Line == headerLine && !p.check(COMMENT) {
		cv, ok := p.parseCustomValue()
		if !ok {
			break
		}
		values = append(values, cv)
	}

	c := &ast.Custom{Pos: pos, Date: date, Type: typeName, Values: values}
	p.finishDirective(c, headerLine)

	if _, err := p.builder.Custom(c); err != nil {
		p.reportBuilderErr(pos, err)
	}
	p.skipLine()
}

// parseCustomValue parses one positional value of a custom directive: a
// string, boolean, account, or number (optionally with a currency, in which
// case it is reported as an amount).
func (p *Parser) parseCustomValue() (*ast.CustomValue, bool) {
	tok := p.peek()

	switch tok.Type {
	case STRING:
		s, err := p.parseString()
		if err != nil {
			p.reportErr(err)
			return nil, false
		}
		return &ast.CustomValue{String: &s}, true

	case ACCOUNT:
		account, err := p.parseAccount()
		if err != nil {
			p.reportErr(err)
			return nil, false
		}
		return &ast.CustomValue{Account: &account}, true

	case NUMBER:
		if p.peekAhead(1).Type == IDENT && p.peekAhead(1).Line == tok.Line {
			amt, err := p.parseAmount()
			if err != nil {
				p.reportErr(err)
				return nil, false
			}
			return &ast.CustomValue{Amount: amt}, true
		}
		numTok := p.advance()
		raw := numTok.String(p.source)
		return &ast.CustomValue{Number: &raw}, true

	case IDENT:
		text := tok.String(p.source)
		if text == "TRUE" || text == "FALSE" {
			p.advance()
			v := text == "TRUE"
			return &ast.CustomValue{Boolean: &v}, true
		}
		return nil, false

	default:
		return nil, false
	}
}
