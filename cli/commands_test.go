package cli

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"
)

func newTestKongContext(t *testing.T, stdout, stderr *bytes.Buffer) *kong.Context {
	t.Helper()

	var cli struct{}
	parser, err := kong.New(&cli, kong.Writers(stdout, stderr))
	assert.NoError(t, err)

	ctx, err := kong.Trace(parser, nil)
	assert.NoError(t, err)
	ctx.Stdout = stdout
	ctx.Stderr = stderr

	return ctx
}

func TestParseCmd(t *testing.T) {
	t.Run("ValidLedgerReportsDirectiveCount", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		ctx := newTestKongContext(t, &stdout, &stderr)

		cmd := &ParseCmd{File: FileOrStdin{Filename: "<stdin>", Contents: []byte("2024-01-01 open Assets:Checking USD\n")}}
		err := cmd.Run(ctx, &Globals{})
		assert.NoError(t, err)
		assert.Contains(t, stdout.String(), "Parsed 1 directive(s)")
	})

	t.Run("MalformedLedgerReturnsCommandError", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		ctx := newTestKongContext(t, &stdout, &stderr)

		cmd := &ParseCmd{File: FileOrStdin{Filename: "<stdin>", Contents: []byte("2024-01-01 open\n")}}
		err := cmd.Run(ctx, &Globals{})
		assert.Error(t, err)

		cmdErr, ok := err.(*CommandError)
		assert.True(t, ok)
		assert.Equal(t, 1, cmdErr.ExitCode())
		assert.Contains(t, stderr.String(), "error(s) found")
	})

	t.Run("MaxErrorsStopsParseEarly", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		ctx := newTestKongContext(t, &stdout, &stderr)

		source := "2024-01-01 open\n2024-01-02 open\n2024-01-03 open Assets:Checking USD\n"
		cmd := &ParseCmd{File: FileOrStdin{Filename: "<stdin>", Contents: []byte(source)}, MaxErrors: 1}
		err := cmd.Run(ctx, &Globals{})
		assert.Error(t, err)
	})
}

func TestLexCmd(t *testing.T) {
	var stdout, stderr bytes.Buffer
	ctx := newTestKongContext(t, &stdout, &stderr)

	cmd := &LexCmd{File: FileOrStdin{Filename: "<stdin>", Contents: []byte("2024-01-01 open Assets:Checking USD\n")}}
	err := cmd.Run(ctx, &Globals{})
	assert.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "DATE")
	assert.Contains(t, output, "open")
	assert.Contains(t, output, "ACCOUNT")
	assert.Contains(t, output, "IDENT")
}
