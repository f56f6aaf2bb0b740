package ast

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a Beancount account name consisting of at least two
// colon-separated segments. The grammar itself does not enforce the account
// type vocabulary or segment casing rules; those belong to a semantic layer
// built on top of the parsed tree. Capture is kept for callers (formatters,
// importers) that want the stricter historical validation on demand.
type Account string

// accountSegmentRegex validates account segments after the first one.
var accountSegmentRegex = regexp.MustCompile(`^[A-Z0-9][A-Za-z0-9-]*$`)

// Validate applies the traditional five-root-category account rule. The
// core grammar never calls this; it exists for callers layered above the
// parser that want it.
func (a Account) Validate() error {
	parts := strings.Split(string(a), ":")
	if len(parts) < 2 {
		return fmt.Errorf("account must have at least two segments: %s", a)
	}
	switch parts[0] {
	case "Assets", "Liabilities", "Equity", "Income", "Expenses":
	default:
		return fmt.Errorf("unexpected account type %q", parts[0])
	}
	for i := 1; i < len(parts); i++ {
		if !accountSegmentRegex.MatchString(parts[i]) {
			return fmt.Errorf("invalid account segment at position %d: %s", i, parts[i])
		}
	}
	return nil
}

// Date represents a calendar date (YYYY-MM-DD or YYYY/MM/DD on input; always
// rendered YYYY-MM-DD).
type Date struct {
	time.Time
}

// NewDate parses a date string, accepting both the '-' and '/' segment
// separators that Beancount permits.
func NewDate(s string) (*Date, error) {
	normalized := strings.ReplaceAll(s, "/", "-")
	t, err := time.Parse("2006-01-02", normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %s", s)
	}
	return &Date{Time: t}, nil
}

// IsZero reports whether the Date is nil or the zero time, nil-safe so
// callers can check optional dates without guarding first.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}

func (d *Date) String() string {
	if d == nil {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

// Tag is a hashtag attached to a transaction, with or without the leading #.
type Tag string

// NewTag strips an optional leading '#'.
func NewTag(name string) Tag {
	return Tag(strings.TrimPrefix(name, "#"))
}

// Link is a reference connecting related transactions, with or without the
// leading ^.
type Link string

// NewLink strips an optional leading '^'.
func NewLink(name string) Link {
	return Link(strings.TrimPrefix(name, "^"))
}

// RawString preserves both the canonical value and the raw source span of a
// quoted string, so round-trip formatting can recover the original escape
// sequences instead of re-escaping the decoded value.
type RawString struct {
	Value string
	Raw   string // original quoted source text, quotes included; empty if not captured
}

// NewRawString creates a RawString with no raw span captured.
func NewRawString(value string) RawString {
	return RawString{Value: value}
}

// NewRawStringWithRaw creates a RawString that also remembers its original
// quoted form.
func NewRawStringWithRaw(raw, value string) RawString {
	return RawString{Value: value, Raw: raw}
}

func (r RawString) String() string { return r.Value }

// EscapeType classifies a single escape sequence found inside a quoted
// string, so a formatter can tell a literal backslash from an encoded one.
type EscapeType int

const (
	EscapeNone EscapeType = iota
	EscapeNewline
	EscapeTab
	EscapeQuote
	EscapeBackslash
)

// StringEscape records the position (byte offset into the raw span) and
// kind of one escape sequence decoded from a quoted string literal.
type StringEscape struct {
	Offset int
	Type   EscapeType
}

// StringMetadata carries the escape sequences found while unquoting a string
// literal, alongside the decoded value. Kept separate from RawString because
// not every RawString consumer needs escape-level detail.
type StringMetadata struct {
	Escapes []StringEscape
}

// Amount is a number paired with a currency. Number holds the arbitrary
// precision decimal value; Raw preserves the exact digits as written
// (including trailing zeros, e.g. "10.50") since Number.String() does not
// always reproduce them.
type Amount struct {
	Number   decimal.Decimal
	Currency string
	Raw      string
}

// NewAmount builds an Amount from a decimal string.
func NewAmount(value, currency string) (*Amount, error) {
	n, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", value, err)
	}
	return &Amount{Number: n, Currency: currency, Raw: value}, nil
}

func (a *Amount) String() string {
	if a == nil {
		return ""
	}
	raw := a.Raw
	if raw == "" {
		raw = a.Number.String()
	}
	return raw + " " + a.Currency
}

// CostSpec represents a posting's cost basis specification, e.g.
// "{518.73 USD, 2014-05-01, "lot"}" or the total-cost "{{...}}" and
// merge "{*}"/empty "{}" shorthands.
type CostSpec struct {
	PerUnit  *Amount // per-unit cost, from {N CCY}
	Total    *Amount // total cost, from {{N CCY}}
	Date     *Date
	Label    string
	Merge    bool // {*}
	Explicit bool // set by the parser for every cost spec written in braces; the ast constructors leave it false
}

// IsEmpty reports whether this is the bare {} automatic-lot-selection form.
func (c *CostSpec) IsEmpty() bool {
	return c != nil && !c.Merge && c.PerUnit == nil && c.Total == nil && c.Date == nil && c.Label == ""
}

// IsMergeCost reports whether this is the {*} averaging form.
func (c *CostSpec) IsMergeCost() bool {
	return c != nil && c.Merge
}

// MetadataValue is a discriminated union over the nine value kinds
// metadata can carry. Exactly one field is non-nil.
type MetadataValue struct {
	StringValue *RawString
	Date        *Date
	Account     *Account
	Currency    *string
	Tag         *Tag
	Link        *Link
	Number      *decimal.Decimal
	Amount      *Amount
	Boolean     *bool
}

// Type names the kind of value stored.
func (m *MetadataValue) Type() string {
	if m == nil {
		return "nil"
	}
	switch {
	case m.StringValue != nil:
		return "string"
	case m.Date != nil:
		return "date"
	case m.Account != nil:
		return "account"
	case m.Currency != nil:
		return "currency"
	case m.Tag != nil:
		return "tag"
	case m.Link != nil:
		return "link"
	case m.Number != nil:
		return "number"
	case m.Amount != nil:
		return "amount"
	case m.Boolean != nil:
		return "boolean"
	default:
		return "unknown"
	}
}

func (m *MetadataValue) String() string {
	if m == nil {
		return ""
	}
	switch {
	case m.StringValue != nil:
		return m.StringValue.Value
	case m.Date != nil:
		return m.Date.String()
	case m.Account != nil:
		return string(*m.Account)
	case m.Currency != nil:
		return *m.Currency
	case m.Tag != nil:
		return "#" + string(*m.Tag)
	case m.Link != nil:
		return "^" + string(*m.Link)
	case m.Number != nil:
		return m.Number.String()
	case m.Amount != nil:
		return m.Amount.String()
	case m.Boolean != nil:
		if *m.Boolean {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// Metadata is a single key/value entry attached to a directive or posting.
type Metadata struct {
	Pos   Position
	Key   string
	Value *MetadataValue
}
