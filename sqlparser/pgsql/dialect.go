// Package pgsql holds the PostgreSQL rules for splitting scripts the way
// psql does. Function bodies are usually dollar quoted; a semicolon inside
// $tag$ ... $tag$ never ends a statement.
package pgsql

import "github.com/vippsas/sqlscript/sqlparser/sqldocument"

// LexerConfig returns the PostgreSQL lexical rules:
//   - 'strings' with '' as escape, E'strings' with backslash escapes
//   - B'..', X'..' and N'..' literals
//   - "quoted identifiers"
//   - $tag$ dollar quoting
//   - nested /* */ comments
func LexerConfig() *sqldocument.LexerConfig {
	return &sqldocument.LexerConfig{
		Quotes: []sqldocument.QuoteRule{
			{Open: '\'', Close: '\'', Type: sqldocument.StringLiteralToken, Escape: sqldocument.DuplicateQuoteEscape},
			{Open: '"', Close: '"', Type: sqldocument.QuotedIdentifierToken, Escape: sqldocument.DuplicateQuoteEscape},
		},
		LineComments:         []string{"--"},
		NestedBlockComments:  true,
		StringPrefixes:       "BbXxNn",
		EscapeStringPrefixes: "Ee",
		DollarQuotes:         true,
		ReservedWords:        sqldocument.WordSet(reservedWords...),
	}
}

// Tester tracks dollar quotes. While one is open no delimiter applies and
// StatementFinished is ignored; a marker with a different tag does not close
// it.
type Tester struct {
	standard sqldocument.Delimiter
	openTag  string
}

var _ sqldocument.DelimiterTester = (*Tester)(nil)

func NewTester() *Tester {
	return &Tester{standard: sqldocument.Standard}
}

func (t *Tester) SetDelimiters(standard, _ sqldocument.Delimiter) {
	t.standard = standard
}

func (t *Tester) CurrentToken(tok sqldocument.Token, _ bool) {
	if tok.Type != sqldocument.DollarQuoteToken {
		return
	}
	switch {
	case t.openTag == "":
		t.openTag = tok.Text
	case tok.Text == t.openTag:
		t.openTag = ""
	}
}

// InDollarQuote reports whether a dollar quote is open.
func (t *Tester) InDollarQuote() bool {
	return t.openTag != ""
}

func (t *Tester) CurrentDelimiter() sqldocument.Delimiter {
	if t.InDollarQuote() {
		return sqldocument.Delimiter{}
	}
	return t.standard
}

// StatementFinished has nothing to reset: the quote state follows the
// markers, and a bare terminator cannot end a dollar-quoted body.
func (t *Tester) StatementFinished() {}
