package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Parse  ParseCmd  `cmd:"" help:"Parse a beancount input file and report directives or errors."`
	Lex    LexCmd    `cmd:"" help:"Show lexical tokens from a beancount file."`
	Format FormatCmd `cmd:"" help:"Re-render a beancount file's directives through the formatter."`
}
