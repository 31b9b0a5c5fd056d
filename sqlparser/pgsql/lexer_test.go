package pgsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vippsas/sqlscript/sqlparser/source"
	"github.com/vippsas/sqlscript/sqlparser/sqldocument"
)

func allTokens(t *testing.T, input string) []sqldocument.Token {
	t.Helper()
	l := sqldocument.NewLexer(source.NewString(input), LexerConfig())
	var result []sqldocument.Token
	for tok := l.NextToken(); tok.Type != sqldocument.EOFToken; tok = l.NextToken() {
		result = append(result, tok)
	}
	require.NoError(t, l.Err())
	return result
}

func TestLexer_StringLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"simple string", "'hello'"},
		{"escaped quote", "'it''s'"},
		{"empty string", "''"},
		{"multiline string", "'line1\nline2'"},
		{"simple escape string", "E'hello'"},
		{"backslash escape", "E'it\\'s'"},
		{"newline escape", "E'line1\\nline2'"},
		{"lowercase e", "e'hello'"},
		{"bit string", "B'101010'"},
		{"lowercase b", "b'1100'"},
		{"hex string", "X'1FF'"},
		{"national string", "N'abc'"},
		{"unterminated string", "'hello"},
		{"unterminated escape string", "E'hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := allTokens(t, tt.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, sqldocument.StringLiteralToken, tokens[0].Type)
			assert.Equal(t, tt.input, tokens[0].Text)
		})
	}
}

func TestLexer_DollarQuotedStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		tag   string
		body  string
	}{
		{"simple dollar quote", "$$hello$$", "$$", "hello"},
		{"tagged dollar quote", "$body$hello$body$", "$body$", "hello"},
		{"multiline dollar quote", "$$line1\nline2$$", "$$", "line1\nline2"},
		{"nested quotes in dollar", "$$it's a 'test'$$", "$$", "it's a 'test'"},
		{"function body", "$func$\nBEGIN\n  RETURN 1;\nEND;\n$func$", "$func$", "\nBEGIN\n  RETURN 1;\nEND;\n"},
		{"other tag inside", "$a$ $b$ $a$", "$a$", " $b$ "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := allTokens(t, tt.input)
			require.Len(t, tokens, 3)
			assert.Equal(t, sqldocument.DollarQuoteToken, tokens[0].Type)
			assert.Equal(t, tt.tag, tokens[0].Text)
			assert.Equal(t, sqldocument.DollarQuotedBodyToken, tokens[1].Type)
			assert.Equal(t, tt.body, tokens[1].Text)
			assert.Equal(t, sqldocument.DollarQuoteToken, tokens[2].Type)
			assert.Equal(t, tt.tag, tokens[2].Text)
		})
	}
}

func TestLexer_UnterminatedDollarQuote(t *testing.T) {
	tokens := allTokens(t, "$$hello;\nselect 1;")
	require.Len(t, tokens, 2)
	assert.Equal(t, sqldocument.DollarQuotedBodyToken, tokens[1].Type)
	assert.Equal(t, "hello;\nselect 1;", tokens[1].Text)
}

func TestLexer_PositionalParameter(t *testing.T) {
	var texts []string
	for _, tok := range allTokens(t, "select $1, $23") {
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []string{"select", " ", "$", "1", ",", " ", "$", "23"}, texts)
}

func TestLexer_QuotedIdentifier(t *testing.T) {
	for _, input := range []string{`"MyTable"`, `"my ""quoted"" table"`, `"MyTable`} {
		tokens := allTokens(t, input)
		require.Len(t, tokens, 1)
		assert.Equal(t, sqldocument.QuotedIdentifierToken, tokens[0].Type)
		assert.Equal(t, input, tokens[0].Text)
	}
}

func TestLexer_Identifiers(t *testing.T) {
	tests := []struct {
		input        string
		expectedType sqldocument.TokenType
	}{
		{"select", sqldocument.ReservedWordToken},
		{"SELECT", sqldocument.ReservedWordToken},
		{"my_table", sqldocument.UnquotedIdentifierToken},
		{"tbl$1", sqldocument.UnquotedIdentifierToken},
		{"ærlig", sqldocument.UnquotedIdentifierToken},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := allTokens(t, tt.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.expectedType, tokens[0].Type)
		})
	}
}

func TestLexer_Lines(t *testing.T) {
	tokens := allTokens(t, "SELECT\nFROM $$\n\n$$ x")
	var lines []int
	for _, tok := range tokens {
		lines = append(lines, tok.Line)
	}
	assert.Equal(t, []int{1, 1, 2, 2, 2, 2, 4, 4, 4}, lines)
}
