package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/ledgerscript/beancount/ast"
	"github.com/ledgerscript/beancount/builder"
)

func TestParseMinimalTransaction(t *testing.T) {
	input := `2014-05-05 * "Coffee"
  Expenses:Food:Coffee  4.50 USD
  Assets:Cash
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success(), "%v", result.Errors)
	assert.Equal(t, 1, len(result.Directives))

	txn, ok := result.Directives[0].(*ast.Transaction)
	assert.True(t, ok)
	assert.Equal(t, "*", txn.Flag)
	assert.False(t, txn.HasPayee())
	assert.Equal(t, "Coffee", txn.Narration.Value)
	assert.Equal(t, 2, len(txn.Postings))

	first := txn.Postings[0]
	assert.Equal(t, ast.Account("Expenses:Food:Coffee"), first.Account)
	assert.True(t, first.HasAmount())
	assert.Equal(t, "4.50", first.Amount.Raw)
	assert.Equal(t, "USD", first.Amount.Currency)

	second := txn.Postings[1]
	assert.Equal(t, ast.Account("Assets:Cash"), second.Account)
	assert.False(t, second.HasAmount())
}

func TestParseTransactionWithPayeeAndNarration(t *testing.T) {
	input := `2014-05-05 * "Cafe Mogador" "Lamb tagine with wine"
  Liabilities:CreditCard:CapitalOne  -37.45 USD
  Expenses:Food:Restaurant
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success())

	txn := result.Directives[0].(*ast.Transaction)
	assert.True(t, txn.HasPayee())
	assert.Equal(t, "Cafe Mogador", txn.Payee.Value)
	assert.Equal(t, "Lamb tagine with wine", txn.Narration.Value)
	assert.Equal(t, "-37.45", txn.Postings[0].Amount.Raw)
}

func TestParseTransactionPendingFlag(t *testing.T) {
	input := `2014-05-07 ! "Pending" #tag ^link
  Assets:Bank:Checking  -100.00 USD
  Expenses:Shopping     100.00 USD
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success())

	txn := result.Directives[0].(*ast.Transaction)
	assert.Equal(t, "!", txn.Flag)
	assert.Equal(t, 1, len(txn.Tags))
	assert.Equal(t, ast.Tag("tag"), txn.Tags[0])
	assert.Equal(t, 1, len(txn.Links))
	assert.Equal(t, ast.Link("link"), txn.Links[0])
}

func TestParseTransactionWithLetterFlag(t *testing.T) {
	input := `2014-05-07 A "Needs review"
  Assets:Bank:Checking  -100.00 USD
  Expenses:Shopping     100.00 USD
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success(), "%v", result.Errors)

	txn := result.Directives[0].(*ast.Transaction)
	assert.Equal(t, "A", txn.Flag)
}

func TestParseTransactionWithSymbolFlags(t *testing.T) {
	for _, flag := range []string{"&", "?", "%"} {
		input := "2014-05-07 " + flag + ` "Symbol-flagged"
  Assets:Bank:Checking  -100.00 USD
  Expenses:Shopping     100.00 USD
`
		result, err := ParseString(input, "test")
		assert.NoError(t, err)
		assert.True(t, result.Success(), "%v", result.Errors)

		txn := result.Directives[0].(*ast.Transaction)
		assert.Equal(t, flag, txn.Flag)
	}
}

func TestParsePostingWithLetterFlag(t *testing.T) {
	input := `2014-05-07 * "Needs review"
  A Assets:Bank:Checking  -100.00 USD
  Expenses:Shopping     100.00 USD
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success(), "%v", result.Errors)

	txn := result.Directives[0].(*ast.Transaction)
	assert.Equal(t, "A", txn.Postings[0].Flag)
}

func TestParseTransactionWithCostPerUnit(t *testing.T) {
	input := `2014-02-11 * "Buy shares"
  Assets:Investments:Brokerage   10 HOOL {518.73 USD}
  Assets:Cash
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success(), "%v", result.Errors)

	txn := result.Directives[0].(*ast.Transaction)
	posting := txn.Postings[0]
	assert.NotZero(t, posting.Cost)
	assert.True(t, posting.Cost.Explicit)
	assert.NotZero(t, posting.Cost.PerUnit)
	assert.Equal(t, "518.73", posting.Cost.PerUnit.Raw)
	assert.Equal(t, "USD", posting.Cost.PerUnit.Currency)
}

func TestParseTransactionWithTotalCostAndDateAndLabel(t *testing.T) {
	input := `2014-02-11 * "Buy shares"
  Assets:Investments:Brokerage   10 HOOL {{5187.30 USD, 2014-02-10, "lot-1"}}
  Assets:Cash
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success(), "%v", result.Errors)

	posting := result.Directives[0].(*ast.Transaction).Postings[0]
	assert.NotZero(t, posting.Cost.Total)
	assert.Equal(t, "5187.30", posting.Cost.Total.Raw)
	assert.Equal(t, "2014-02-10", posting.Cost.Date.String())
	assert.Equal(t, "lot-1", posting.Cost.Label)
}

func TestParseTransactionWithDeprecatedCompoundCost(t *testing.T) {
	input := `2014-02-11 * "Buy shares"
  Assets:Investments:Brokerage   10 HOOL {518.73 / 5187.30 USD}
  Assets:Cash
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.False(t, result.Success())

	posting := result.Directives[0].(*ast.Transaction).Postings[0]
	assert.NotZero(t, posting.Cost.PerUnit)
	assert.Equal(t, "518.73", posting.Cost.PerUnit.Raw)
	assert.NotZero(t, posting.Cost.Total)
	assert.Equal(t, "5187.30", posting.Cost.Total.Raw)
	assert.Equal(t, "USD", posting.Cost.Total.Currency)

	assert.Equal(t, 1, len(result.Errors))
	assert.Equal(t, builder.CategoryDeprecated, result.Errors[0].Category)
}

func TestParseTransactionWithMergeCost(t *testing.T) {
	input := `2014-02-11 * "Sell shares"
  Assets:Investments:Brokerage   -10 HOOL {*}
  Assets:Cash
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success(), "%v", result.Errors)

	posting := result.Directives[0].(*ast.Transaction).Postings[0]
	assert.True(t, posting.Cost.Merge)
	assert.True(t, posting.Cost.IsMergeCost())
}

func TestParseTransactionWithPerUnitPrice(t *testing.T) {
	input := `2014-02-11 * "Currency exchange"
  Assets:Cash:EUR   200 EUR @ 1.35 USD
  Assets:Cash:USD
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success(), "%v", result.Errors)

	posting := result.Directives[0].(*ast.Transaction).Postings[0]
	assert.False(t, posting.PriceTotal)
	assert.NotZero(t, posting.Price)
	assert.Equal(t, "1.35", posting.Price.Raw)
}

func TestParseTransactionWithTotalPrice(t *testing.T) {
	input := `2014-02-11 * "Currency exchange"
  Assets:Cash:EUR   200 EUR @@ 270.00 USD
  Assets:Cash:USD
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success())

	posting := result.Directives[0].(*ast.Transaction).Postings[0]
	assert.True(t, posting.PriceTotal)
	assert.Equal(t, "270.00", posting.Price.Raw)
}

func TestParseTransactionWithArithmeticAmount(t *testing.T) {
	input := `2014-02-11 * "Split three ways"
  Assets:Cash   (100+50)/3 USD
  Expenses:Shared
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success(), "%v", result.Errors)

	posting := result.Directives[0].(*ast.Transaction).Postings[0]
	assert.Equal(t, "(100+50)/3", posting.Amount.Raw)
	assert.Equal(t, "50", posting.Amount.Number.String())
}

func TestParseTransactionPostingFlag(t *testing.T) {
	input := `2014-02-11 * "Partially cleared"
  ! Assets:Cash   10 USD
  Expenses:Misc
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success(), "%v", result.Errors)

	posting := result.Directives[0].(*ast.Transaction).Postings[0]
	assert.Equal(t, "!", posting.Flag)
}

func TestParseTransactionPostingMetadataAndComment(t *testing.T) {
	input := `2014-02-11 * "With posting metadata"
  Assets:Cash   10 USD  ; inline note
    receipt: "12345"
  Expenses:Misc
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success(), "%v", result.Errors)

	posting := result.Directives[0].(*ast.Transaction).Postings[0]
	assert.NotZero(t, posting.GetComment())
	assert.Equal(t, 1, len(posting.MetadataList()))
	assert.Equal(t, "receipt", posting.MetadataList()[0].Key)
}

func TestParsePostingsStopAtUnindentedLine(t *testing.T) {
	input := `2014-02-11 * "First"
  Assets:Cash   10 USD
  Expenses:Misc
2014-02-12 * "Second"
  Assets:Cash   20 USD
  Expenses:Misc
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.True(t, result.Success(), "%v", result.Errors)
	assert.Equal(t, 2, len(result.Directives))

	first := result.Directives[0].(*ast.Transaction)
	assert.Equal(t, 2, len(first.Postings))
	second := result.Directives[1].(*ast.Transaction)
	assert.Equal(t, 2, len(second.Postings))
}

func TestParseTransactionMissingAccountIsRecoverable(t *testing.T) {
	input := `2014-02-11 * "Broken"
  10 USD
  Expenses:Misc
2014-02-12 * "Fine"
  Assets:Cash   10 USD
  Expenses:Misc
`

	result, err := ParseString(input, "test")
	assert.NoError(t, err)
	assert.False(t, result.Success())
	assert.Equal(t, 2, len(result.Directives), "both transactions should still be recorded")
}
