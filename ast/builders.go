// Package ast (this file) provides constructor functions for
// programmatically building Beancount syntax trees, following the same
// functional-option style used throughout this module's other configurable
// constructors. Useful for generating Beancount output from code (CSV
// importers and the like) without going through the parser.
package ast

import "github.com/shopspring/decimal"

// NewTransaction creates a Transaction with the given date and narration.
// Additional fields are set via options.
func NewTransaction(date *Date, narration string, opts ...TransactionOption) *Transaction {
	txn := &Transaction{
		Date:      date,
		Narration: NewRawString(narration),
	}
	for _, opt := range opts {
		opt(txn)
	}
	return txn
}

type TransactionOption func(*Transaction)

func WithFlag(flag string) TransactionOption {
	return func(t *Transaction) { t.Flag = flag }
}

func WithPayee(payee string) TransactionOption {
	return func(t *Transaction) { t.Payee = NewRawString(payee) }
}

func WithTags(tags ...string) TransactionOption {
	return func(t *Transaction) {
		for _, tag := range tags {
			t.Tags = append(t.Tags, NewTag(tag))
		}
	}
}

func WithLinks(links ...string) TransactionOption {
	return func(t *Transaction) {
		for _, link := range links {
			t.Links = append(t.Links, NewLink(link))
		}
	}
}

func WithTransactionMetadata(metadata ...*Metadata) TransactionOption {
	return func(t *Transaction) { t.AddMetadata(metadata...) }
}

func WithPostings(postings ...*Posting) TransactionOption {
	return func(t *Transaction) { t.Postings = postings }
}

// NewPosting creates a Posting for the given account.
func NewPosting(account Account, opts ...PostingOption) *Posting {
	p := &Posting{Account: account}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type PostingOption func(*Posting)

// WithAmount sets a posting's amount from a decimal string; panics only if
// value cannot parse, so callers that don't control the string should use
// ast.NewAmount directly and WithAmountValue instead.
func WithAmount(value, currency string) PostingOption {
	n := decimal.RequireFromString(value)
	return func(p *Posting) {
		p.Amount = &Amount{Number: n, Currency: currency, Raw: value}
	}
}

func WithAmountValue(amount *Amount) PostingOption {
	return func(p *Posting) { p.Amount = amount }
}

func WithCost(cost *CostSpec) PostingOption {
	return func(p *Posting) { p.Cost = cost }
}

func WithPrice(price *Amount) PostingOption {
	return func(p *Posting) { p.Price = price; p.PriceTotal = false }
}

func WithTotalPrice(price *Amount) PostingOption {
	return func(p *Posting) { p.Price = price; p.PriceTotal = true }
}

func WithPostingFlag(flag string) PostingOption {
	return func(p *Posting) { p.Flag = flag }
}

func WithPostingMetadata(metadata ...*Metadata) PostingOption {
	return func(p *Posting) { p.AddMetadata(metadata...) }
}

// NewCost creates a per-unit cost specification, e.g. {518.73 USD}.
func NewCost(amount *Amount) *CostSpec {
	return &CostSpec{PerUnit: amount}
}

func NewCostWithDate(amount *Amount, date *Date) *CostSpec {
	return &CostSpec{PerUnit: amount, Date: date}
}

func NewCostWithLabel(amount *Amount, date *Date, label string) *CostSpec {
	return &CostSpec{PerUnit: amount, Date: date, Label: label}
}

// NewEmptyCost creates the bare {} automatic-lot-selection form.
func NewEmptyCost() *CostSpec { return &CostSpec{} }

// NewMergeCost creates the {*} averaging form.
func NewMergeCost() *CostSpec { return &CostSpec{Merge: true} }

func NewClearedTransaction(date *Date, narration string, postings ...*Posting) *Transaction {
	return NewTransaction(date, narration, WithFlag("*"), WithPostings(postings...))
}

func NewPendingTransaction(date *Date, narration string, postings ...*Posting) *Transaction {
	return NewTransaction(date, narration, WithFlag("!"), WithPostings(postings...))
}

func NewOpen(date *Date, account Account, constraintCurrencies []string, bookingMethod string) *Open {
	return &Open{Date: date, Account: account, ConstraintCurrencies: constraintCurrencies, BookingMethod: bookingMethod}
}

func NewClose(date *Date, account Account) *Close {
	return &Close{Date: date, Account: account}
}

func NewBalance(date *Date, account Account, amount *Amount) *Balance {
	return &Balance{Date: date, Account: account, Amount: amount}
}

func NewPad(date *Date, account, padAccount Account) *Pad {
	return &Pad{Date: date, Account: account, AccountPad: padAccount}
}

func NewNote(date *Date, account Account, description string) *Note {
	return &Note{Date: date, Account: account, Description: NewRawString(description)}
}

func NewDocument(date *Date, account Account, pathToDocument string) *Document {
	return &Document{Date: date, Account: account, PathToDocument: NewRawString(pathToDocument)}
}

func NewCommodity(date *Date, currency string) *Commodity {
	return &Commodity{Date: date, Currency: currency}
}

func NewPrice(date *Date, commodity string, amount *Amount) *Price {
	return &Price{Date: date, Commodity: commodity, Amount: amount}
}

func NewEvent(date *Date, name, value string) *Event {
	return &Event{Date: date, Name: NewRawString(name), Value: NewRawString(value)}
}

func NewQuery(date *Date, name, query string) *Query {
	return &Query{Date: date, Name: NewRawString(name), Query: NewRawString(query)}
}

func NewCustom(date *Date, typeName string, values []*CustomValue) *Custom {
	return &Custom{Date: date, Type: NewRawString(typeName), Values: values}
}

// NewMetadata creates a string-valued Metadata entry, the common case.
func NewMetadata(key, value string) *Metadata {
	rs := NewRawString(value)
	return &Metadata{Key: key, Value: &MetadataValue{StringValue: &rs}}
}
