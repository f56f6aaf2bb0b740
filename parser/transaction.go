package parser

import "github.com/ledgerscript/beancount/ast"

// parseTransaction parses a transaction header (flag, optional payee,
// narration, tags and links) and then its indented posting block: each
// following line whose first token starts at a column greater than 1 and is
// an account or a posting flag is a posting of this transaction; the block
// ends at the first line that is not. The flag is one of '*', '!', the FLAGCHAR symbols
// '&', '?', '%', or a single uppercase letter; bare "txn" defaults to '*'.
func (p *Parser) parseTransaction(startTok Token, date *ast.Date) {
	headerLine := startTok.Line
	pos := tokenPosition(startTok, p.filename)

	flagTok := p.advance()
	flag := "*"
	switch {
	case flagTok.Type == EXCLAIM:
		flag = "!"
	case flagTok.Type == FLAGCHAR || isLetterFlag(flagTok, p.source):
		flag = flagTok.String(p.source)
	}

	var payee, narration ast.RawString
	if p.check(STRING) {
		first, err := p.parseString()
		if err != nil {
			p.reportErr(err)
			p.skipLine()
			return
		}
		if p.check(STRING) {
			second, err := p.parseString()
			if err != nil {
				p.reportErr(err)
				p.skipLine()
				return
			}
			payee, narration = first, second
		} else {
			narration = first
		}
	}

	var tags []ast.Tag
	var links []ast.Link
headerFields:
	for p.peek().Line == headerLine {
		switch {
		case p.check(TAG):
			tag, err := p.parseTag()
			if err != nil {
				p.reportErr(err)
			} else {
				tags = append(tags, tag)
			}
		case p.check(LINK):
			link, err := p.parseLink()
			if err != nil {
				p.reportErr(err)
			} else {
				links = append(links, link)
			}
		default:
			break headerFields
		}
	}

	txn := &ast.Transaction{
		Pos:       pos,
		Date:      date,
		Flag:      flag,
		Payee:     payee,
		Narration: narration,
		Tags:      tags,
		Links:     links,
	}
	p.finishDirective(txn, headerLine)

	txn.Postings = p.parsePostings()

	if _, err := p.builder.Transaction(txn); err != nil {
		p.reportBuilderErr(pos, err)
	}
}

// parsePostings consumes the indented posting lines following a transaction
// header, stopping at the first line at column 1 (a blank line, comment, or
// the next top-level declaration) or at an indented line that does not
// start with an account or a posting flag.
func (p *Parser) parsePostings() []*ast.Posting {
	var postings []*ast.Posting

	for {
		tok := p.peek()
		if p.isAtEnd() || tok.Column <= 1 {
			break
		}
		if tok.Type != ACCOUNT && tok.Type != ASTERISK && tok.Type != EXCLAIM &&
			tok.Type != FLAGCHAR && !isLetterFlag(tok, p.source) {
			break
		}

		posting := p.parsePosting()
		if posting != nil {
			postings = append(postings, posting)
		}
	}

	return postings
}

// parsePosting parses one leg of a transaction: an optional flag, account,
// optional amount, optional cost spec, and optional price annotation.
func (p *Parser) parsePosting() *ast.Posting {
	startTok := p.peek()
	pos := tokenPosition(startTok, p.filename)
	headerLine := startTok.Line

	flag := ""
	switch {
	case p.check(ASTERISK):
		flag = "*"
		p.advance()
	case p.check(EXCLAIM):
		flag = "!"
		p.advance()
	case p.check(FLAGCHAR) || isLetterFlag(p.peek(), p.source):
		flag = p.peek().String(p.source)
		p.advance()
	}

	account, err := p.parseAccount()
	if err != nil {
		p.reportErr(err)
		p.skipLine()
		return nil
	}

	posting := &ast.Posting{Pos: pos, Flag: flag, Account: account}

	if (p.check(NUMBER) || p.isExpressionStart()) && p.peek().Line == headerLine {
		amount, err := p.parseAmount()
		if err != nil {
			p.reportErr(err)
		} else {
			posting.Amount = amount
		}

		if p.check(LBRACE) || p.check(LDBRACE) {
			cost, err := p.parseCost()
			if err != nil {
				p.reportErr(err)
			} else {
				cost.Explicit = true
				posting.Cost = cost
			}
		}

		if p.match(AT) {
			posting.PriceTotal = false
			price, err := p.parseAmount()
			if err != nil {
				p.reportErr(err)
			} else {
				posting.Price = price
			}
		} else if p.match(ATAT) {
			posting.PriceTotal = true
			price, err := p.parseAmount()
			if err != nil {
				p.reportErr(err)
			} else {
				posting.Price = price
			}
		}
	}

	if p.check(COMMENT) && p.peek().Line == headerLine {
		tok := p.advance()
		posting.SetComment(p.commentFromToken(tok))
	}
	for _, m := range p.parseMetadataFromLine() {
		posting.AddMetadata(m)
	}

	return posting
}
