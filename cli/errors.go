package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ledgerscript/beancount/builder"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders accumulated parse errors with terminal styling and
// surrounding source context, in the style of bean-check's file:line:
// message diagnostics.
type ErrorRenderer struct {
	source []byte
}

// NewErrorRenderer creates a renderer that shows source context from source
// when available. source may be nil, in which case Render falls back to a
// plain "file:line:column: message" line.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats a single accumulated error.
func (r *ErrorRenderer) Render(err *builder.Error) string {
	if r.source == nil || err.Pos.Line <= 0 {
		return errorStyle.Render(err.Error())
	}
	return r.renderWithSourceContext(err)
}

// RenderAll formats every error in errs, separated by blank lines.
func (r *ErrorRenderer) RenderAll(errs []*builder.Error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func (r *ErrorRenderer) renderWithSourceContext(err *builder.Error) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(err.Error()))
	buf.WriteString("\n\n")

	sourceLines := strings.Split(string(r.source), "\n")

	startLine := err.Pos.Line - 3
	endLine := err.Pos.Line + 1

	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sourceLines) {
		endLine = len(sourceLines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		if i >= len(sourceLines) {
			break
		}
		buf.WriteString("   ")
		buf.WriteString(errContextStyle.Render(sourceLines[i]))
		buf.WriteByte('\n')

		if i == err.Pos.Line-1 && err.Pos.Column > 0 {
			buf.WriteString("   ")
			for j := 0; j < err.Pos.Column-1; j++ {
				buf.WriteByte(' ')
			}
			buf.WriteString(errCaretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}
