package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/ledgerscript/beancount/formatter"
	"github.com/ledgerscript/beancount/parser"
)

// FormatCmd re-renders every directive in a beancount file back to source
// text via the formatter package, one directive per print(d) call. It
// exists to exercise the round-trip half of the grammar+builder core
// (parse(print(d)) == d) from the command line, not as a column-aligning
// "bean-format" replacement.
type FormatCmd struct {
	File FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *FormatCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	result, err := parser.ParseBytes(source, cmd.File.GetAbsoluteFilename())
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}

	if !result.Success() {
		renderer := NewErrorRenderer(source)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(result.Errors))
		printError(ctx.Stderr, fmt.Sprintf("%d error(s) found", len(result.Errors)))
		return NewCommandError(1)
	}

	for _, d := range result.Directives {
		printed, err := formatter.Print(d)
		if err != nil {
			return fmt.Errorf("failed to format directive at %s: %w", d.Position(), err)
		}
		_, _ = fmt.Fprint(ctx.Stdout, printed)
	}

	return nil
}
