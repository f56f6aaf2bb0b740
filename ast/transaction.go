package ast

// Transaction records a financial transaction: a date, flag, optional payee,
// narration, tags/links, and a list of postings that must sum to zero once
// costs and prices are priced out.
//
//	2014-05-05 * "Cafe Mogador" "Lamb tagine with wine"
//	  Liabilities:CreditCard:CapitalOne         -37.45 USD
//	  Expenses:Food:Restaurant
type Transaction struct {
	Pos       Position
	Date      *Date
	Flag      string
	Payee     RawString
	Narration RawString
	Tags      []Tag
	Links     []Link
	Postings  []*Posting

	withComment
	withMetadata
}

var _ Directive = (*Transaction)(nil)

func (t *Transaction) Position() Position  { return t.Pos }
func (t *Transaction) GetDate() *Date      { return t.Date }
func (t *Transaction) Kind() DirectiveKind { return KindTransaction }

// HasPayee reports whether a payee string (as opposed to only a narration)
// was present in the source.
func (t *Transaction) HasPayee() bool { return t.Payee.Value != "" || t.Payee.Raw != "" }

// Posting is a single leg of a transaction.
//
//	Assets:Investments:Brokerage    10 HOOL {518.73 USD}
//	Assets:Investments:Cash        200 EUR @ 1.35 USD
//	Assets:Checking
type Posting struct {
	Pos        Position
	Flag       string
	Account    Account
	Amount     *Amount
	Cost       *CostSpec
	PriceTotal bool // true for @@ (total price), false for @ (per-unit)
	Price      *Amount

	withComment
	withMetadata
}

func (p *Posting) Position() Position { return p.Pos }

// HasAmount reports whether this posting specified an amount explicitly, as
// opposed to relying on balance inference (at most one posting per
// transaction may omit it).
func (p *Posting) HasAmount() bool { return p.Amount != nil }
