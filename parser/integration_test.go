package parser

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/ledgerscript/beancount/ast"
	"github.com/ledgerscript/beancount/builder"
)

// Scenario A: a minimal transaction parses cleanly end to end.
func TestIntegrationMinimalTransaction(t *testing.T) {
	input := `2014-05-05 * "Coffee"
  Expenses:Food:Coffee  4.50 USD
  Assets:Cash
`
	result, err := ParseString(input, "integration.beancount")
	assert.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, 1, len(result.Directives))
}

// Scenario B: a posting cost spec in per-unit form round-trips through Raw.
func TestIntegrationCostSpecPerUnit(t *testing.T) {
	input := `2014-02-11 * "Buy shares"
  Assets:Investments:Brokerage   10 HOOL {518.73 USD}
  Assets:Cash
`
	result, err := ParseString(input, "integration.beancount")
	assert.NoError(t, err)
	assert.True(t, result.Success())

	posting := result.Directives[0].(*ast.Transaction).Postings[0]
	assert.Equal(t, "518.73", posting.Cost.PerUnit.Raw)
}

// Scenario C: a balance assertion with an explicit tolerance.
func TestIntegrationBalanceWithTolerance(t *testing.T) {
	input := `2014-08-09 balance Assets:Checking 100.00 USD ~ 0.01 USD`
	result, err := ParseString(input, "integration.beancount")
	assert.NoError(t, err)
	assert.True(t, result.Success())

	balance := result.Directives[0].(*ast.Balance)
	assert.Equal(t, "0.01", balance.Tolerance.Raw)
}

// Scenario D: error recovery across two Open directives bracketing one
// grammar error keeps building everything that parses and records exactly
// one recoverable error.
func TestIntegrationErrorRecoveryAcrossDirectives(t *testing.T) {
	input := `2014-01-01 open Assets:Checking USD
2014-01-02 open
2014-01-03 open Assets:Savings USD
`
	result, err := ParseString(input, "integration.beancount")
	assert.NoError(t, err)
	assert.False(t, result.Success())
	assert.Equal(t, 1, len(result.Errors))
	assert.Equal(t, 2, len(result.Directives))
}

// Scenario E: a pushed tag applies to every transaction parsed before the
// matching poptag.
func TestIntegrationPushedTagAppliesAcrossTransactions(t *testing.T) {
	input := `pushtag #vacation
2014-07-01 * "Flight"
  Expenses:Travel:Air   500 USD
  Assets:Cash
2014-07-02 * "Hotel"
  Expenses:Travel:Lodging   300 USD
  Assets:Cash
poptag #vacation
2014-07-03 * "Groceries"
  Expenses:Food   50 USD
  Assets:Cash
`
	result, err := ParseString(input, "integration.beancount")
	assert.NoError(t, err)
	assert.True(t, result.Success(), "%v", result.Errors)
	assert.Equal(t, 3, len(result.Directives))

	for i := 0; i < 2; i++ {
		txn := result.Directives[i].(*ast.Transaction)
		assert.Equal(t, 1, len(txn.Tags), "transaction %d should carry the pushed tag", i)
		assert.Equal(t, ast.Tag("vacation"), txn.Tags[0])
	}

	last := result.Directives[2].(*ast.Transaction)
	assert.Equal(t, 0, len(last.Tags), "transaction after poptag should not carry the tag")
}

// Scenario F: arithmetic in an amount position is evaluated and the written
// expression is preserved verbatim in Amount.Raw.
func TestIntegrationArithmeticAmount(t *testing.T) {
	input := `2014-07-04 * "Split the bill"
  Assets:Cash   (100+50)/3 USD
  Expenses:Shared
`
	result, err := ParseString(input, "integration.beancount")
	assert.NoError(t, err)
	assert.True(t, result.Success())

	posting := result.Directives[0].(*ast.Transaction).Postings[0]
	assert.Equal(t, "(100+50)/3", posting.Amount.Raw)
	assert.Equal(t, "50", posting.Amount.Number.String())
}

func TestIntegrationFullLedgerWithHeaderDeclarationsAndTrivia(t *testing.T) {
	input := `option "title" "Test Ledger"
include "accounts.beancount"
plugin "beancount.plugins.auto_accounts"

; opening balances
2014-01-01 open Assets:Checking USD
2014-01-01 open Equity:Opening-Balances USD

2014-01-02 * "Initial deposit"
  Assets:Checking            1000.00 USD
  Equity:Opening-Balances   -1000.00 USD

2014-06-30 balance Assets:Checking 1000.00 USD
`
	result, err := ParseString(input, "ledger.beancount")
	assert.NoError(t, err)
	assert.True(t, result.Success(), "%v", result.Errors)

	assert.Equal(t, 1, len(result.Options))
	assert.Equal(t, 1, len(result.Includes))
	assert.Equal(t, 1, len(result.Plugins))
	assert.Equal(t, 1, len(result.Comments))
	assert.True(t, len(result.BlankLines) > 0)
	assert.Equal(t, 4, len(result.Directives))
}

func TestIntegrationMaxErrorsStopsEarly(t *testing.T) {
	input := `2014-01-01 open
2014-01-02 open
2014-01-03 open
2014-01-04 open Assets:Checking USD
`
	result, err := ParseString(input, "integration.beancount", WithMaxErrors(1))
	assert.NoError(t, err)
	assert.True(t, result.Incomplete)
	assert.Equal(t, 0, len(result.Directives))
}

func TestIntegrationContextCancellationStopsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := `2014-01-01 open Assets:Checking USD
2014-01-02 open Assets:Savings USD
`
	result, err := ParseString(input, "integration.beancount", WithContext(ctx))
	assert.NoError(t, err)
	assert.True(t, result.Incomplete)
}

func TestIntegrationCustomBuilderReceivesCallbacks(t *testing.T) {
	tb := builder.NewTreeBuilder()
	input := `2014-01-01 open Assets:Checking USD`

	result, err := ParseString(input, "integration.beancount", WithBuilder(tb))
	assert.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, 1, len(tb.Result().Directives))
}
