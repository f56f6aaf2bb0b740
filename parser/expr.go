package parser

import "github.com/shopspring/decimal"

// Number Expression Evaluator: infix arithmetic over arbitrary-precision
// decimals, embedded wherever the grammar accepts an amount. Supports the
// four binary operators, unary minus and plus, and parenthesized grouping,
// matching ordinary arithmetic precedence.
//
//	expression → term (('+' | '-') term)*
//	term       → factor (('*' | '/') factor)*
//	factor     → NUMBER | ('-' | '+') factor | '(' expression ')'
//
// Division is the only operation that can produce a non-terminating decimal
// expansion, so it is the only one governed by RoundingMode/Precision below;
// addition, subtraction and multiplication are always exact.

// RoundingMode selects how a division result is rounded to Precision
// digits.
type RoundingMode int

const (
	// RoundHalfEven rounds .5 to the nearest even digit ("banker's
	// rounding"), matching the reference beancount implementation's default.
	RoundHalfEven RoundingMode = iota
	// RoundHalfUp rounds .5 away from zero.
	RoundHalfUp
)

// ExprOptions configures the Number Expression Evaluator's division
// behavior.
type ExprOptions struct {
	Precision int32
	Rounding  RoundingMode
}

// DefaultExprOptions returns 28 digits of precision with banker's rounding.
func DefaultExprOptions() ExprOptions {
	return ExprOptions{Precision: 28, Rounding: RoundHalfEven}
}

// parseExpression parses and evaluates an arithmetic expression starting at
// the current token.
func (p *Parser) parseExpression() (decimal.Decimal, error) {
	return p.parseAddSubtract()
}

func (p *Parser) parseAddSubtract() (decimal.Decimal, error) {
	left, err := p.parseMultiplyDivide()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		op := p.peek().Type
		if op != PLUS && op != MINUS {
			break
		}
		p.advance()

		right, err := p.parseMultiplyDivide()
		if err != nil {
			return decimal.Zero, err
		}

		if op == PLUS {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}

	return left, nil
}

func (p *Parser) parseMultiplyDivide() (decimal.Decimal, error) {
	left, err := p.parseUnary()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		op := p.peek().Type
		if op != ASTERISK && op != SLASH {
			break
		}
		opToken := p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}

		switch op {
		case ASTERISK:
			left = left.Mul(right)
		case SLASH:
			if right.IsZero() {
				return decimal.Zero, errAtf(opToken, p.filename, "division by zero")
			}
			left = p.divide(left, right)
		}
	}

	return left, nil
}

// divide evaluates left/right to the evaluator's configured precision and
// rounding mode.
func (p *Parser) divide(left, right decimal.Decimal) decimal.Decimal {
	guardDigits := p.exprOptions.Precision + 2
	raw := left.DivRound(right, int32(guardDigits))
	if p.exprOptions.Rounding == RoundHalfEven {
		return raw.RoundBank(p.exprOptions.Precision)
	}
	return raw.Round(p.exprOptions.Precision)
}

func (p *Parser) parseUnary() (decimal.Decimal, error) {
	if p.check(MINUS) {
		p.advance()
		value, err := p.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}
		return value.Neg(), nil
	}
	if p.check(PLUS) {
		p.advance()
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (decimal.Decimal, error) {
	tok := p.peek()

	if tok.Type == LPAREN {
		p.advance()
		result, err := p.parseExpression()
		if err != nil {
			return decimal.Zero, err
		}
		if !p.check(RPAREN) {
			return decimal.Zero, errAtf(p.peek(), p.filename, "expected ')' after expression")
		}
		p.advance()
		return result, nil
	}

	if tok.Type == NUMBER {
		numTok := p.advance()
		d, err := decimal.NewFromString(stripThousandsSeparators(numTok.String(p.source)))
		if err != nil {
			return decimal.Zero, errAtf(numTok, p.filename, "invalid number in expression: %v", err)
		}
		return d, nil
	}

	return decimal.Zero, errAtf(tok, p.filename, "expected number or '(' in expression, got %s", tok.Type)
}

// isExpressionStart reports whether the current position begins an
// arithmetic expression rather than a bare number, used by amount parsing
// to decide whether to preserve the written span verbatim.
func (p *Parser) isExpressionStart() bool {
	if p.check(NUMBER) {
		next := p.peekAhead(1)
		return next.Type == PLUS || next.Type == MINUS || next.Type == ASTERISK || next.Type == SLASH
	}
	return p.check(LPAREN) || p.check(MINUS) || p.check(PLUS)
}
