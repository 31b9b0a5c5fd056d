// Package mssql holds the Transact-SQL rules for splitting scripts the way
// sqlcmd and SQL Server Management Studio do: statements inside a
// procedure, function or trigger body, or a BEGIN ... END block, run until
// a GO on its own line.
package mssql

import "github.com/vippsas/sqlscript/sqlparser/sqldocument"

// LexerConfig returns the T-SQL lexical rules:
//   - 'strings' and N'unicode strings' with '' as escape
//   - [bracket] and "double quoted" identifiers, escaped by doubling
//   - @variables and @@system functions
//   - #temp and ##global temp table names
//   - nested /* */ comments
func LexerConfig() *sqldocument.LexerConfig {
	return &sqldocument.LexerConfig{
		Quotes: []sqldocument.QuoteRule{
			{Open: '\'', Close: '\'', Type: sqldocument.StringLiteralToken, Escape: sqldocument.DuplicateQuoteEscape},
			{Open: '[', Close: ']', Type: sqldocument.QuotedIdentifierToken, Escape: sqldocument.DuplicateQuoteEscape},
			{Open: '"', Close: '"', Type: sqldocument.QuotedIdentifierToken, Escape: sqldocument.DuplicateQuoteEscape},
		},
		LineComments:         []string{"--"},
		NestedBlockComments:  true,
		StringPrefixes:       "N",
		VariablePrefixes:     "@",
		ExtraIdentifierChars: "#@",
		ReservedWords:        sqldocument.WordSet(reservedWords...),
	}
}

var blockRules = sqldocument.BlockRules{
	HeaderStarts:    []string{"create", "alter"},
	Modifiers:       []string{"or", "alter"},
	BlockTypes:      []string{"proc", "procedure", "function", "trigger"},
	BlockStarts:     []string{"begin"},
	BeginExceptions: []string{"tran", "transaction", "distributed", "dialog", "conversation"},
}

// Tester switches to GO for CREATE|ALTER [OR ALTER] PROC|PROCEDURE|FUNCTION|
// TRIGGER and for BEGIN blocks. BEGIN TRAN and its relatives are ordinary
// statements.
type Tester struct {
	*sqldocument.BlockTracker
}

var _ sqldocument.DelimiterTester = (*Tester)(nil)

func NewTester() *Tester {
	return &Tester{
		BlockTracker: sqldocument.NewBlockTracker(blockRules, sqldocument.Standard, sqldocument.MSSQLDelimiter),
	}
}
