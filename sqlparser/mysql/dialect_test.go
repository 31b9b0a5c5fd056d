package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vippsas/sqlscript/sqlparser/source"
	"github.com/vippsas/sqlscript/sqlparser/sqldocument"
)

func significant(t *testing.T, input string) []sqldocument.Token {
	t.Helper()
	l := sqldocument.NewLexer(source.NewString(input), LexerConfig())
	var result []sqldocument.Token
	for tok := l.NextToken(); tok.Type != sqldocument.EOFToken; tok = l.NextToken() {
		if tok.Significant() {
			result = append(result, tok)
		}
	}
	require.NoError(t, l.Err())
	return result
}

func feed(t *testing.T, tester *Tester, statement string) {
	t.Helper()
	for i, tok := range significant(t, statement) {
		tester.CurrentToken(tok, i == 0)
	}
}

func TestLexerConfig(t *testing.T) {
	tokens := significant(t, "select 'a\\';', \"b;\", `c;` # comment;\nfrom t")

	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []string{"select", `'a\';'`, ",", `"b;"`, ",", "`c;`", "from", "t"}, texts)
	assert.Equal(t, sqldocument.QuotedIdentifierToken, tokens[5].Type)
}

func TestTester_Blocks(t *testing.T) {
	alt := sqldocument.Delimiter{Text: "//"}
	tests := []struct {
		name      string
		alternate sqldocument.Delimiter
		statement string
		expected  sqldocument.Delimiter
	}{
		{"procedure with alternate", alt, "create procedure p() begin select 1; end", alt},
		{"definer", alt, "CREATE DEFINER=`root`@`localhost` TRIGGER trg BEFORE INSERT ON t", alt},
		{"definer unquoted", alt, "create definer = admin@'%' event e on schedule every 1 hour do", alt},
		{"procedure without alternate", sqldocument.Delimiter{}, "create procedure p() begin select 1; end", sqldocument.Standard},
		{"table", alt, "create table t (a int)", sqldocument.Standard},
		{"begin is a transaction", alt, "begin", sqldocument.Standard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := NewTester()
			tester.SetDelimiters(sqldocument.Standard, tt.alternate)
			feed(t, tester, tt.statement)
			assert.Equal(t, tt.expected, tester.CurrentDelimiter())
			assert.False(t, tester.ClientCommand())
		})
	}
}

func TestTester_DelimiterCommand(t *testing.T) {
	tests := []struct {
		command  string
		expected sqldocument.Delimiter
	}{
		{"DELIMITER //", sqldocument.Delimiter{Text: "//"}},
		{"delimiter $$", sqldocument.Delimiter{Text: "$$"}},
		{"delimiter ;", sqldocument.Standard},
		{"delimiter ;; trailing", sqldocument.Delimiter{Text: ";;"}},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			tester := NewTester()
			feed(t, tester, tt.command)
			assert.True(t, tester.ClientCommand())

			tester.StatementFinished()
			assert.False(t, tester.ClientCommand())
			assert.Equal(t, tt.expected, tester.CurrentDelimiter())
		})
	}
}

func TestTester_DelimiterCommandKeepsAlternate(t *testing.T) {
	tester := NewTester()
	tester.SetDelimiters(sqldocument.Standard, sqldocument.Delimiter{Text: "@@"})
	feed(t, tester, "delimiter //")
	tester.StatementFinished()

	standard, alternate := tester.Delimiters()
	assert.Equal(t, sqldocument.Delimiter{Text: "//"}, standard)
	assert.Equal(t, sqldocument.Delimiter{Text: "@@"}, alternate)

	// DELIMITER is only a command at the start of a statement
	feed(t, tester, "select delimiter from t")
	assert.False(t, tester.ClientCommand())
}
