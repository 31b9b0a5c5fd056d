// Package oracle holds the Oracle rules for splitting scripts the way
// SQL*Plus does: PL/SQL units and anonymous blocks end with a slash on its
// own line, everything else with a semicolon.
package oracle

import "github.com/vippsas/sqlscript/sqlparser/sqldocument"

// LexerConfig returns the Oracle lexical rules. Besides the ANSI quotes this
// covers N'..' national strings and q'[..]' alternative quoting.
func LexerConfig() *sqldocument.LexerConfig {
	return &sqldocument.LexerConfig{
		Quotes: []sqldocument.QuoteRule{
			{Open: '\'', Close: '\'', Type: sqldocument.StringLiteralToken, Escape: sqldocument.DuplicateQuoteEscape},
			{Open: '"', Close: '"', Type: sqldocument.QuotedIdentifierToken, Escape: sqldocument.DuplicateQuoteEscape},
		},
		LineComments:       []string{"--"},
		StringPrefixes:     "Nn",
		AlternativeQuoting: true,
		ReservedWords:      sqldocument.WordSet(reservedWords...),
	}
}

var blockRules = sqldocument.BlockRules{
	HeaderStarts: []string{"create"},
	Modifiers: []string{
		"or", "replace", "editionable", "noneditionable",
		"and", "compile", "resolve", "noforce",
	},
	BlockTypes:  []string{"procedure", "function", "package", "trigger", "java", "library"},
	BodyTypes:   []string{"type"},
	BlockStarts: []string{"begin", "declare"},
}

// Tester switches to the slash for CREATE [OR REPLACE] PROCEDURE, FUNCTION,
// PACKAGE [BODY], TRIGGER, TYPE BODY and JAVA, and for statements starting
// with BEGIN or DECLARE.
type Tester struct {
	*sqldocument.BlockTracker
}

var _ sqldocument.DelimiterTester = (*Tester)(nil)

func NewTester() *Tester {
	return &Tester{
		BlockTracker: sqldocument.NewBlockTracker(blockRules, sqldocument.Standard, sqldocument.OracleDelimiter),
	}
}

// Reserved words of Oracle SQL (V$RESERVED_WORDS with RESERVED = 'Y') and
// the PL/SQL words that open blocks.
var reservedWords = []string{
	"access", "add", "all", "alter", "and", "any", "as", "asc", "audit",
	"begin", "between", "by", "char", "check", "cluster", "column", "comment",
	"compress", "connect", "create", "current", "date", "decimal", "declare",
	"default", "delete", "desc", "distinct", "drop", "else", "end",
	"exclusive", "exists", "file", "float", "for", "from", "function", "grant",
	"group", "having", "identified", "immediate", "in", "increment", "index",
	"initial", "insert", "integer", "intersect", "into", "is", "level", "like",
	"lock", "long", "maxextents", "minus", "mlslabel", "mode", "modify",
	"noaudit", "nocompress", "not", "nowait", "null", "number", "of",
	"offline", "on", "online", "option", "or", "order", "package", "pctfree",
	"prior", "procedure", "public", "raw", "rename", "resource", "revoke",
	"row", "rowid", "rownum", "rows", "select", "session", "set", "share",
	"size", "smallint", "start", "successful", "synonym", "sysdate", "table",
	"then", "to", "trigger", "uid", "union", "unique", "update", "user",
	"validate", "values", "varchar", "varchar2", "view", "whenever", "where",
	"with",
}
