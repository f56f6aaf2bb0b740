package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/ledgerscript/beancount/parser"
	"github.com/ledgerscript/beancount/telemetry"
)

// ParseCmd runs the parse driver over a beancount input file and reports a
// directive-count summary, or the accumulated errors if parsing was not
// fully successful.
type ParseCmd struct {
	File      FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	MaxErrors int         `help:"Stop parsing once more than this many errors have accumulated (0 means unlimited)." default:"0"`
	Dump      bool        `help:"Print the parsed AST for each directive." name:"dump"`
}

func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var rootTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				rootTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr)
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		rootTimer = collector.Start(fmt.Sprintf("parse %s", cmd.File.GetAbsoluteFilename()))
		runCtx = telemetry.WithRootTimer(runCtx, rootTimer)

		defer reportTelemetry()
	}

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if isTerminal() {
		printInfof(ctx.Stdout, "Parsing %s", pathStyle.Render(cmd.File.GetAbsoluteFilename()))
	}

	var opts []parser.Option
	opts = append(opts, parser.WithContext(runCtx))
	if cmd.MaxErrors > 0 {
		opts = append(opts, parser.WithMaxErrors(cmd.MaxErrors))
	}

	result, err := parser.ParseBytes(source, cmd.File.GetAbsoluteFilename(), opts...)
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}

	reportTelemetry()

	if !result.Success() {
		renderer := NewErrorRenderer(source)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(result.Errors))
		printError(ctx.Stderr, fmt.Sprintf("%d error(s) found", len(result.Errors)))
		return NewCommandError(1)
	}

	if cmd.Dump {
		for _, d := range result.Directives {
			repr.Println(d, repr.Indent("  "))
		}
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Parsed %d directive(s)", len(result.Directives)))

	return nil
}
