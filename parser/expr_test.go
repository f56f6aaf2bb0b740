package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func evalExpr(t *testing.T, input string, opts ...Option) decimal.Decimal {
	t.Helper()
	lexer := NewLexer([]byte(input), "test")
	tokens, err := lexer.ScanAll()
	assert.NoError(t, err)

	p := newParser(lexer.source, "test", tokens, lexer.Interner(), opts...)
	got, err := p.parseExpression()
	assert.NoError(t, err)
	return got
}

func TestExprArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2", "3"},
		{"10 - 4", "6"},
		{"3 * 4", "12"},
		{"10 / 4", "2.5"},
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"-5 + 3", "-2"},
		{"-(2 + 3)", "-5"},
		{"100 + 50", "150"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := evalExpr(t, tt.input)
			want, err := decimal.NewFromString(tt.want)
			assert.NoError(t, err)
			assert.True(t, want.Equal(got), "expected %s, got %s", tt.want, got.String())
		})
	}
}

func TestExprDivisionByZero(t *testing.T) {
	lexer := NewLexer([]byte("1 / 0"), "test")
	tokens, err := lexer.ScanAll()
	assert.NoError(t, err)

	p := newParser(lexer.source, "test", tokens, lexer.Interner())
	_, err = p.parseExpression()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "division by zero")
}

func TestExprDivisionRoundsHalfEvenByDefault(t *testing.T) {
	// 100/3 at 28 digits, rounded to the default precision, rounds down
	// since it isn't exactly at the halfway point.
	got := evalExpr(t, "100/3")
	want, _ := decimal.NewFromString("33.3333333333333333333333333333")
	assert.True(t, want.Equal(got), "got %s", got.String())
}

func TestExprDivisionPrecisionOption(t *testing.T) {
	got := evalExpr(t, "10 / 3", WithExprPrecision(4))
	assert.Equal(t, "3.3333", got.String())
}

func TestExprDivisionRoundHalfUpOption(t *testing.T) {
	got := evalExpr(t, "5 / 2", WithExprPrecision(0), WithExprRounding(RoundHalfUp))
	assert.Equal(t, "3", got.String())
}

func TestExprDivisionRoundHalfEvenBankersRounding(t *testing.T) {
	// 0.5 rounds to the nearest even digit: 2.5 -> 2, 3.5 -> 4.
	gotDown := evalExpr(t, "5 / 2", WithExprPrecision(0), WithExprRounding(RoundHalfEven))
	assert.Equal(t, "2", gotDown.String())

	gotUp := evalExpr(t, "7 / 2", WithExprPrecision(0), WithExprRounding(RoundHalfEven))
	assert.Equal(t, "4", gotUp.String())
}

func TestExprMalformedExpression(t *testing.T) {
	lexer := NewLexer([]byte("(1 + "), "test")
	tokens, err := lexer.ScanAll()
	assert.NoError(t, err)

	p := newParser(lexer.source, "test", tokens, lexer.Interner())
	_, err = p.parseExpression()
	assert.Error(t, err)
}

func TestIsExpressionStart(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"100 USD", false},
		{"100+50 USD", true},
		{"(100+50) USD", true},
		{"-100 USD", false},
		{"-(100) USD", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test")
			tokens, err := lexer.ScanAll()
			assert.NoError(t, err)

			p := newParser(lexer.source, "test", tokens, lexer.Interner())
			assert.Equal(t, tt.want, p.isExpressionStart())
		})
	}
}
