package ast

// Commodity declares a commodity or currency usable in the ledger.
//
//	2014-01-01 commodity USD
//	  name: "US Dollar"
type Commodity struct {
	Pos      Position
	Date     *Date
	Currency string

	withComment
	withMetadata
}

var _ Directive = (*Commodity)(nil)

func (c *Commodity) Position() Position   { return c.Pos }
func (c *Commodity) GetDate() *Date       { return c.Date }
func (c *Commodity) Kind() DirectiveKind  { return KindCommodity }

// Open declares the opening of an account.
//
//	2014-05-01 open Assets:US:BofA:Checking USD
type Open struct {
	Pos                  Position
	Date                 *Date
	Account              Account
	ConstraintCurrencies []string
	BookingMethod        string

	withComment
	withMetadata
}

var _ Directive = (*Open)(nil)

func (o *Open) Position() Position  { return o.Pos }
func (o *Open) GetDate() *Date      { return o.Date }
func (o *Open) Kind() DirectiveKind { return KindOpen }

// Close declares the closing of an account.
//
//	2015-09-23 close Assets:US:BofA:Checking
type Close struct {
	Pos     Position
	Date    *Date
	Account Account

	withComment
	withMetadata
}

var _ Directive = (*Close)(nil)

func (c *Close) Position() Position  { return c.Pos }
func (c *Close) GetDate() *Date      { return c.Date }
func (c *Close) Kind() DirectiveKind { return KindClose }

// Balance asserts an account's balance at the start of a date.
//
//	2014-08-09 balance Assets:US:BofA:Checking 562.00 USD
type Balance struct {
	Pos       Position
	Date      *Date
	Account   Account
	Amount    *Amount
	Tolerance *Amount // explicit ~ tolerance, nil if not specified

	withComment
	withMetadata
}

var _ Directive = (*Balance)(nil)

func (b *Balance) Position() Position  { return b.Pos }
func (b *Balance) GetDate() *Date      { return b.Date }
func (b *Balance) Kind() DirectiveKind { return KindBalance }

// Pad inserts an automatic balancing transaction against AccountPad.
//
//	2014-01-01 pad Assets:US:BofA:Checking Equity:Opening-Balances
type Pad struct {
	Pos        Position
	Date       *Date
	Account    Account
	AccountPad Account

	withComment
	withMetadata
}

var _ Directive = (*Pad)(nil)

func (p *Pad) Position() Position  { return p.Pos }
func (p *Pad) GetDate() *Date      { return p.Date }
func (p *Pad) Kind() DirectiveKind { return KindPad }

// Note attaches a dated note to an account.
//
//	2014-07-09 note Assets:US:BofA:Checking "Called bank"
type Note struct {
	Pos         Position
	Date        *Date
	Account     Account
	Description RawString

	withComment
	withMetadata
}

var _ Directive = (*Note)(nil)

func (n *Note) Position() Position  { return n.Pos }
func (n *Note) GetDate() *Date      { return n.Date }
func (n *Note) Kind() DirectiveKind { return KindNote }

// Document links an external file to an account at a date.
//
//	2014-07-09 document Assets:US:BofA:Checking "/statements/2014-07.pdf"
type Document struct {
	Pos            Position
	Date           *Date
	Account        Account
	PathToDocument RawString

	withComment
	withMetadata
}

var _ Directive = (*Document)(nil)

func (d *Document) Position() Position  { return d.Pos }
func (d *Document) GetDate() *Date      { return d.Date }
func (d *Document) Kind() DirectiveKind { return KindDocument }

// Price records the price of a commodity in another currency at a date.
//
//	2014-07-09 price USD 1.08 CAD
type Price struct {
	Pos       Position
	Date      *Date
	Commodity string
	Amount    *Amount

	withComment
	withMetadata
}

var _ Directive = (*Price)(nil)

func (p *Price) Position() Position  { return p.Pos }
func (p *Price) GetDate() *Date      { return p.Date }
func (p *Price) Kind() DirectiveKind { return KindPrice }

// Event records a named event value at a date.
//
//	2014-07-09 event "location" "New York, USA"
type Event struct {
	Pos   Position
	Date  *Date
	Name  RawString
	Value RawString

	withComment
	withMetadata
}

var _ Directive = (*Event)(nil)

func (e *Event) Position() Position  { return e.Pos }
func (e *Event) GetDate() *Date      { return e.Date }
func (e *Event) Kind() DirectiveKind { return KindEvent }

// Query names a stored SQL-like query against the ledger. The core parser
// only records name and query text; evaluating it is out of scope.
//
//	2014-07-09 query "france-balances" "SELECT account, sum(position) ..."
type Query struct {
	Pos   Position
	Date  *Date
	Name  RawString
	Query RawString

	withComment
	withMetadata
}

var _ Directive = (*Query)(nil)

func (q *Query) Position() Position  { return q.Pos }
func (q *Query) GetDate() *Date      { return q.Date }
func (q *Query) Kind() DirectiveKind { return KindQuery }

// Custom is an open-ended directive for plugin-defined data.
//
//	2014-07-09 custom "budget" "..." TRUE 45.30 USD
type Custom struct {
	Pos    Position
	Date   *Date
	Type   RawString
	Values []*CustomValue

	withComment
	withMetadata
}

var _ Directive = (*Custom)(nil)

func (c *Custom) Position() Position  { return c.Pos }
func (c *Custom) GetDate() *Date      { return c.Date }
func (c *Custom) Kind() DirectiveKind { return KindCustom }

// CustomValue is one positional value in a Custom directive: exactly one
// field is non-nil.
type CustomValue struct {
	String  *RawString
	Boolean *bool
	Amount  *Amount
	Number  *string
	Account *Account
}

// GetValue returns the underlying Go value for this CustomValue.
func (cv *CustomValue) GetValue() any {
	switch {
	case cv.String != nil:
		return cv.String.Value
	case cv.Boolean != nil:
		return *cv.Boolean
	case cv.Amount != nil:
		return cv.Amount
	case cv.Number != nil:
		return *cv.Number
	case cv.Account != nil:
		return *cv.Account
	default:
		return nil
	}
}
