package cli

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestFormatCmd(t *testing.T) {
	t.Run("ValidLedgerIsReprinted", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		ctx := newTestKongContext(t, &stdout, &stderr)

		cmd := &FormatCmd{File: FileOrStdin{Filename: "<stdin>", Contents: []byte("2024-01-01 open Assets:Checking USD\n")}}
		err := cmd.Run(ctx, &Globals{})
		assert.NoError(t, err)
		assert.Contains(t, stdout.String(), "2024-01-01 open Assets:Checking USD")
	})

	t.Run("MalformedLedgerReturnsCommandError", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		ctx := newTestKongContext(t, &stdout, &stderr)

		cmd := &FormatCmd{File: FileOrStdin{Filename: "<stdin>", Contents: []byte("2024-01-01 open\n")}}
		err := cmd.Run(ctx, &Globals{})
		assert.Error(t, err)

		cmdErr, ok := err.(*CommandError)
		assert.True(t, ok)
		assert.Equal(t, 1, cmdErr.ExitCode())
		assert.Contains(t, stderr.String(), "error(s) found")
	})
}
