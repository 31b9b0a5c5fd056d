package sqldocument

// DelimiterTester follows the significant tokens of a statement and tells
// the parser which delimiter currently ends it. Each dialect has its own
// implementation; the parser owns one instance per script.
//
// CurrentDelimiter must not change state. An empty Delimiter means no
// statement boundary is possible at the moment (inside a Postgres dollar
// quote, for instance).
type DelimiterTester interface {
	// SetDelimiters configures the standard delimiter and the dialect's
	// alternate block delimiter. The alternate may be empty.
	SetDelimiters(standard, alternate Delimiter)

	// CurrentToken is called for every significant token in order.
	// startOfStatement is true for the first token of a statement.
	CurrentToken(tok Token, startOfStatement bool)

	CurrentDelimiter() Delimiter

	// StatementFinished is called after the parser has closed a statement.
	StatementFinished()
}

// ClientCommandTester is implemented by testers that recognize commands
// meant for the client rather than the server, such as MySQL's DELIMITER.
// While ClientCommand returns true the current statement ends at the end of
// its line and is not returned to the caller.
type ClientCommandTester interface {
	ClientCommand() bool
}

// BlockTester is implemented by testers that know when the current
// statement is a procedural block. A blank line never ends a block.
type BlockTester interface {
	InBlock() bool
}

// StandardTester always reports the standard delimiter.
type StandardTester struct {
	standard Delimiter
}

var _ DelimiterTester = (*StandardTester)(nil)

func NewStandardTester() *StandardTester {
	return &StandardTester{standard: Standard}
}

func (t *StandardTester) SetDelimiters(standard, _ Delimiter) {
	t.standard = standard
}

func (t *StandardTester) CurrentToken(Token, bool) {}

func (t *StandardTester) CurrentDelimiter() Delimiter {
	return t.standard
}

func (t *StandardTester) StatementFinished() {}
