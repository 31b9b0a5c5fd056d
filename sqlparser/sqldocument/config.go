package sqldocument

import "strings"

// EscapeStyle says how a quote character can appear inside a quoted token.
type EscapeStyle int

const (
	// NoEscape: the first closing character ends the token.
	NoEscape EscapeStyle = iota
	// DuplicateQuoteEscape: a doubled closing character ('' or ]]) is literal.
	DuplicateQuoteEscape
	// BackslashEscape: \x is literal for any x. Doubling is accepted as well,
	// as MySQL does.
	BackslashEscape
)

// QuoteRule describes one kind of quoted token.
type QuoteRule struct {
	Open   byte
	Close  byte
	Type   TokenType
	Escape EscapeStyle
}

// LexerConfig carries the lexical rules of a dialect. Dialect packages
// return a fully populated config; the zero value lexes nothing but
// whitespace, words, numbers and /* */ comments.
type LexerConfig struct {
	Quotes []QuoteRule

	// LineComments are the prefixes that start a comment running to the end
	// of the line.
	LineComments []string

	// NestedBlockComments makes /* */ nest, as in Postgres.
	NestedBlockComments bool

	// StringPrefixes are letters that may be glued to the front of a
	// '-quoted string without changing its rules (T-SQL N'..').
	StringPrefixes string

	// EscapeStringPrefixes are letters that turn the following '-quoted
	// string into one with backslash escapes (Postgres E'..').
	EscapeStringPrefixes string

	// AlternativeQuoting enables Oracle q'[...]' literals.
	AlternativeQuoting bool

	// DollarQuotes enables Postgres $tag$...$tag$ strings.
	DollarQuotes bool

	// VariablePrefixes are characters that start a variable name (@ in
	// T-SQL and MySQL).
	VariablePrefixes string

	// ExtraIdentifierChars may appear in unquoted identifiers besides the
	// Unicode identifier classes.
	ExtraIdentifierChars string

	// ReservedWords holds lowercase words lexed as ReservedWordToken.
	ReservedWords map[string]struct{}
}

// StandardLexerConfig returns the lexical rules of ANSI SQL: '' strings and
// "" identifiers, both escaped by doubling, and -- comments.
func StandardLexerConfig() *LexerConfig {
	return &LexerConfig{
		Quotes: []QuoteRule{
			{Open: '\'', Close: '\'', Type: StringLiteralToken, Escape: DuplicateQuoteEscape},
			{Open: '"', Close: '"', Type: QuotedIdentifierToken, Escape: DuplicateQuoteEscape},
		},
		LineComments:  []string{"--"},
		ReservedWords: WordSet(standardReservedWords...),
	}
}

// WordSet builds a ReservedWords set, lowercasing the words.
func WordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

func (c *LexerConfig) quoteRule(b byte) (QuoteRule, bool) {
	for _, q := range c.Quotes {
		if q.Open == b {
			return q, true
		}
	}
	return QuoteRule{}, false
}

func (c *LexerConfig) isReserved(lower string) bool {
	_, ok := c.ReservedWords[lower]
	return ok
}

// Words that matter to statement splitting in every dialect.
var standardReservedWords = []string{
	"alter", "and", "as", "begin", "between", "by", "case", "create", "declare",
	"delete", "distinct", "drop", "else", "end", "exists", "from", "function",
	"grant", "group", "having", "in", "insert", "into", "is", "join", "like",
	"not", "null", "or", "order", "procedure", "replace", "revoke", "select",
	"set", "table", "then", "trigger", "union", "update", "values", "view",
	"when", "where", "with",
}
