// Package formatter renders parsed directives back to Beancount source
// text. It is deliberately minimal compared to a full "bean-format": it
// does not align amounts into columns, preserve original comment
// placement, or reproduce whitespace byte-for-byte. Its job is narrower —
// give the grammar+builder core a print(d) half to round-trip against, so
// parse(print(d)) can be checked to reproduce the directive it started
// from.
package formatter

import (
	"fmt"
	"strings"

	"github.com/ledgerscript/beancount/ast"
)

const postingIndent = "  "
const metadataIndent = "    "

// Print renders a single directive to its canonical Beancount source text,
// including metadata lines and a trailing newline. Unsupported directive
// kinds report an error rather than silently producing wrong output.
func Print(d ast.Directive) (string, error) {
	var b strings.Builder

	switch v := d.(type) {
	case *ast.Transaction:
		writeTransaction(&b, v)
		return b.String(), nil
	case *ast.Balance:
		writeBalance(&b, v)
	case *ast.Open:
		writeOpen(&b, v)
	case *ast.Close:
		writeClose(&b, v)
	case *ast.Commodity:
		writeCommodity(&b, v)
	case *ast.Pad:
		writePad(&b, v)
	case *ast.Note:
		writeNote(&b, v)
	case *ast.Document:
		writeDocument(&b, v)
	case *ast.Price:
		writePrice(&b, v)
	case *ast.Event:
		writeEvent(&b, v)
	case *ast.Query:
		writeQuery(&b, v)
	case *ast.Custom:
		writeCustom(&b, v)
	default:
		return "", fmt.Errorf("formatter: unsupported directive kind %T", d)
	}

	writeMetadataList(&b, d.MetadataList(), postingIndent)

	return b.String(), nil
}

func writeBalance(b *strings.Builder, v *ast.Balance) {
	fmt.Fprintf(b, "%s balance %s %s", v.Date, v.Account, v.Amount)
	if v.Tolerance != nil {
		fmt.Fprintf(b, " ~ %s", v.Tolerance)
	}
	b.WriteByte('\n')
}

func writeOpen(b *strings.Builder, v *ast.Open) {
	fmt.Fprintf(b, "%s open %s", v.Date, v.Account)
	if len(v.ConstraintCurrencies) > 0 {
		fmt.Fprintf(b, " %s", strings.Join(v.ConstraintCurrencies, ","))
	}
	if v.BookingMethod != "" {
		fmt.Fprintf(b, " %s", quoteString(v.BookingMethod))
	}
	b.WriteByte('\n')
}

func writeClose(b *strings.Builder, v *ast.Close) {
	fmt.Fprintf(b, "%s close %s\n", v.Date, v.Account)
}

func writeCommodity(b *strings.Builder, v *ast.Commodity) {
	fmt.Fprintf(b, "%s commodity %s\n", v.Date, v.Currency)
}

func writePad(b *strings.Builder, v *ast.Pad) {
	fmt.Fprintf(b, "%s pad %s %s\n", v.Date, v.Account, v.AccountPad)
}

func writeNote(b *strings.Builder, v *ast.Note) {
	fmt.Fprintf(b, "%s note %s %s\n", v.Date, v.Account, renderString(v.Description))
}

func writeDocument(b *strings.Builder, v *ast.Document) {
	fmt.Fprintf(b, "%s document %s %s\n", v.Date, v.Account, renderString(v.PathToDocument))
}

func writePrice(b *strings.Builder, v *ast.Price) {
	fmt.Fprintf(b, "%s price %s %s\n", v.Date, v.Commodity, v.Amount)
}

func writeEvent(b *strings.Builder, v *ast.Event) {
	fmt.Fprintf(b, "%s event %s %s\n", v.Date, renderString(v.Name), renderString(v.Value))
}

func writeQuery(b *strings.Builder, v *ast.Query) {
	fmt.Fprintf(b, "%s query %s %s\n", v.Date, renderString(v.Name), renderString(v.Query))
}

func writeCustom(b *strings.Builder, v *ast.Custom) {
	fmt.Fprintf(b, "%s custom %s", v.Date, renderString(v.Type))
	for _, cv := range v.Values {
		b.WriteByte(' ')
		b.WriteString(renderCustomValue(cv))
	}
	b.WriteByte('\n')
}

func renderCustomValue(cv *ast.CustomValue) string {
	switch {
	case cv.String != nil:
		return renderString(*cv.String)
	case cv.Boolean != nil:
		if *cv.Boolean {
			return "TRUE"
		}
		return "FALSE"
	case cv.Amount != nil:
		return cv.Amount.String()
	case cv.Number != nil:
		return *cv.Number
	case cv.Account != nil:
		return string(*cv.Account)
	default:
		return ""
	}
}

func writeTransaction(b *strings.Builder, txn *ast.Transaction) {
	fmt.Fprintf(b, "%s %s", txn.Date, flagOrDefault(txn.Flag))
	if txn.HasPayee() {
		fmt.Fprintf(b, " %s", renderString(txn.Payee))
	}
	if txn.Narration.Value != "" || txn.Narration.Raw != "" {
		fmt.Fprintf(b, " %s", renderString(txn.Narration))
	}
	for _, tag := range txn.Tags {
		fmt.Fprintf(b, " #%s", tag)
	}
	for _, link := range txn.Links {
		fmt.Fprintf(b, " ^%s", link)
	}
	b.WriteByte('\n')
	writeMetadataList(b, txn.MetadataList(), postingIndent)

	for _, posting := range txn.Postings {
		writePosting(b, posting)
	}
}

func writePosting(b *strings.Builder, p *ast.Posting) {
	b.WriteString(postingIndent)
	if p.Flag != "" {
		fmt.Fprintf(b, "%s ", p.Flag)
	}
	b.WriteString(string(p.Account))

	if p.HasAmount() {
		fmt.Fprintf(b, "  %s", p.Amount)
		if p.Cost != nil {
			b.WriteString(renderCost(p.Cost))
		}
		if p.Price != nil {
			if p.PriceTotal {
				fmt.Fprintf(b, " @@ %s", p.Price)
			} else {
				fmt.Fprintf(b, " @ %s", p.Price)
			}
		}
	}
	b.WriteByte('\n')

	writeMetadataList(b, p.MetadataList(), metadataIndent)
}

// renderCost renders a posting's cost specification. The per-unit/total
// brace style is reconstructed from which of CostSpec.PerUnit/Total is set
// rather than stored directly: a lone Total means the lot was written with
// "{{...}}", a PerUnit (with or without an accompanying Total, the latter
// only ever set together via the deprecated "/" compound form) means "{...}".
func renderCost(c *ast.CostSpec) string {
	if c.Merge {
		return " {*}"
	}
	if c.IsEmpty() {
		return " {}"
	}

	var inner []string
	switch {
	case c.PerUnit != nil && c.Total != nil:
		inner = append(inner, fmt.Sprintf("%s / %s %s", c.PerUnit.Raw, c.Total.Raw, c.PerUnit.Currency))
	case c.PerUnit != nil:
		inner = append(inner, c.PerUnit.String())
	case c.Total != nil:
		inner = append(inner, c.Total.String())
	}
	if c.Date != nil {
		inner = append(inner, c.Date.String())
	}
	if c.Label != "" {
		inner = append(inner, quoteString(c.Label))
	}

	open, closeBrace := "{", "}"
	if c.PerUnit == nil && c.Total != nil {
		open, closeBrace = "{{", "}}"
	}
	return " " + open + strings.Join(inner, ", ") + closeBrace
}

func writeMetadataList(b *strings.Builder, list []*ast.Metadata, indent string) {
	for _, m := range list {
		fmt.Fprintf(b, "%s%s: %s\n", indent, m.Key, renderMetadataValue(m.Value))
	}
}

func renderMetadataValue(v *ast.MetadataValue) string {
	switch {
	case v.StringValue != nil:
		return renderString(*v.StringValue)
	case v.Date != nil:
		return v.Date.String()
	case v.Account != nil:
		return string(*v.Account)
	case v.Currency != nil:
		return *v.Currency
	case v.Tag != nil:
		return "#" + string(*v.Tag)
	case v.Link != nil:
		return "^" + string(*v.Link)
	case v.Number != nil:
		return v.Number.String()
	case v.Amount != nil:
		return v.Amount.String()
	case v.Boolean != nil:
		if *v.Boolean {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// renderString prefers the captured original quoted source text (which
// round-trips escape sequences exactly) and only re-quotes+escapes the
// decoded value when no raw span was captured, e.g. for a RawString built
// programmatically rather than by the parser.
func renderString(s ast.RawString) string {
	if s.Raw != "" {
		return s.Raw
	}
	return quoteString(s.Value)
}

// flagOrDefault reports the transaction flag to print, defaulting to the
// cleared flag '*' for directives built without one set (e.g. constructed
// directly rather than parsed from "txn").
func flagOrDefault(flag string) string {
	if flag == "" {
		return "*"
	}
	return flag
}
