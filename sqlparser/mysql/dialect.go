// Package mysql holds the MySQL and MariaDB rules for splitting scripts the
// way the mysql client does, including its DELIMITER command.
package mysql

import "github.com/vippsas/sqlscript/sqlparser/sqldocument"

// LexerConfig returns the MySQL lexical rules: '' and "" strings with
// backslash escapes, `backtick` identifiers, # and -- comments and
// @user_variables.
func LexerConfig() *sqldocument.LexerConfig {
	return &sqldocument.LexerConfig{
		Quotes: []sqldocument.QuoteRule{
			{Open: '\'', Close: '\'', Type: sqldocument.StringLiteralToken, Escape: sqldocument.BackslashEscape},
			{Open: '"', Close: '"', Type: sqldocument.StringLiteralToken, Escape: sqldocument.BackslashEscape},
			{Open: '`', Close: '`', Type: sqldocument.QuotedIdentifierToken, Escape: sqldocument.DuplicateQuoteEscape},
		},
		LineComments:     []string{"--", "#"},
		StringPrefixes:   "xXbBnN",
		VariablePrefixes: "@",
		ReservedWords:    sqldocument.WordSet(reservedWords...),
	}
}

var blockRules = sqldocument.BlockRules{
	HeaderStarts: []string{"create"},
	Modifiers:    []string{"or", "replace", "definer", "aggregate"},
	BlockTypes:   []string{"procedure", "function", "trigger", "event"},
}

// Tester handles two things.
//
// CREATE [DEFINER=...] PROCEDURE|FUNCTION|TRIGGER|EVENT switches to the
// alternate delimiter, if one is configured.
//
// DELIMITER xx is a client command: the parser ends it at the end of its
// line and does not return it, and from then on xx is the standard
// delimiter.
type Tester struct {
	*sqldocument.BlockTracker

	command    bool
	commandArg string
	argEnd     int
	argDone    bool
}

var (
	_ sqldocument.DelimiterTester     = (*Tester)(nil)
	_ sqldocument.ClientCommandTester = (*Tester)(nil)
	_ sqldocument.BlockTester         = (*Tester)(nil)
)

func NewTester() *Tester {
	return &Tester{
		BlockTracker: sqldocument.NewBlockTracker(blockRules, sqldocument.Standard, sqldocument.Delimiter{}),
	}
}

func (t *Tester) CurrentToken(tok sqldocument.Token, startOfStatement bool) {
	if startOfStatement && tok.IsWord("delimiter") {
		t.command = true
		t.commandArg = ""
		t.argDone = false
		return
	}
	if t.command {
		t.collectArgument(tok)
		return
	}
	t.BlockTracker.CurrentToken(tok, startOfStatement)
}

// collectArgument gathers the first whitespace separated word after
// DELIMITER; it may be lexed as several tokens, like // or $$.
func (t *Tester) collectArgument(tok sqldocument.Token) {
	switch {
	case t.argDone:
	case t.commandArg == "":
		t.commandArg = tok.Text
		t.argEnd = tok.End
	case tok.Start == t.argEnd:
		t.commandArg += tok.Text
		t.argEnd = tok.End
	default:
		t.argDone = true
	}
}

// ClientCommand reports whether the current statement is a DELIMITER
// command.
func (t *Tester) ClientCommand() bool {
	return t.command
}

func (t *Tester) StatementFinished() {
	if t.command {
		if t.commandArg != "" {
			_, alternate := t.Delimiters()
			t.SetDelimiters(sqldocument.Delimiter{Text: t.commandArg}, alternate)
		}
		t.command = false
		t.commandArg = ""
	}
	t.BlockTracker.StatementFinished()
}

var reservedWords = []string{
	"accessible", "add", "all", "alter", "analyze", "and", "as", "asc",
	"before", "between", "bigint", "binary", "blob", "both", "by", "call",
	"cascade", "case", "change", "char", "character", "check", "collate",
	"column", "condition", "constraint", "continue", "convert", "create",
	"cross", "cursor", "database", "databases", "declare", "default",
	"delayed", "delete", "desc", "describe", "deterministic", "distinct",
	"distinctrow", "div", "double", "drop", "dual", "each", "else", "elseif",
	"enclosed", "escaped", "exists", "exit", "explain", "false", "fetch",
	"float", "for", "force", "foreign", "from", "fulltext", "grant", "group",
	"having", "if", "ignore", "in", "index", "infile", "inner", "inout",
	"insert", "int", "integer", "interval", "into", "is", "iterate", "join",
	"key", "keys", "kill", "leading", "leave", "left", "like", "limit",
	"lines", "load", "lock", "long", "loop", "match", "modifies", "natural",
	"not", "null", "on", "optimize", "option", "or", "order", "out", "outer",
	"procedure", "purge", "range", "read", "reads", "references", "regexp",
	"release", "rename", "repeat", "replace", "require", "restrict", "return",
	"revoke", "right", "rlike", "schema", "select", "set", "show", "signal",
	"spatial", "sql", "table", "then", "to", "trailing", "trigger", "true",
	"undo", "union", "unique", "unlock", "unsigned", "update", "usage", "use",
	"using", "values", "when", "where", "while", "with", "write", "xor",
	"zerofill",
}
