package oracle

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

func TestLexerConfig(t *testing.T) {
	tokens := significant(t, `select q'[it's; fine]', n'x;', "a;b" from dual`)
	require.Len(t, tokens, 8)
	assert.Equal(t, sqldocument.StringLiteralToken, tokens[1].Type)
	assert.Equal(t, "q'[it's; fine]'", tokens[1].Text)
	assert.Equal(t, sqldocument.StringLiteralToken, tokens[3].Type)
	assert.Equal(t, sqldocument.QuotedIdentifierToken, tokens[5].Type)
	assert.Equal(t, "from", tokens[6].ReservedWord)
}

func TestTester(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		inBlock   bool
	}{
		{"procedure", "CREATE OR REPLACE PROCEDURE p IS BEGIN NULL; END;", true},
		{"editionable function", "create or replace editionable function f return number", true},
		{"package body", "create package body pkg as", true},
		{"trigger", "create trigger trg before insert on t", true},
		{"type body", "create or replace type body t as", true},
		{"java", "create or replace and compile java source named x as", true},
		{"anonymous block", "begin dbms_output.put_line('x'); end;", true},
		{"declare", "declare n number; begin null; end;", true},
		{"type spec", "create type t as object (a number)", false},
		{"table", "create table t (a number)", false},
		{"view", "create or replace force view v as select 1 from dual", false},
		{"select", "select 1 from dual", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := NewTester()
			for i, tok := range significant(t, tt.statement) {
				tester.CurrentToken(tok, i == 0)
			}
			assert.Equal(t, tt.inBlock, tester.InBlock())
			if tt.inBlock {
				assert.Equal(t, sqldocument.OracleDelimiter, tester.CurrentDelimiter())
			} else {
				assert.Equal(t, sqldocument.Standard, tester.CurrentDelimiter())
			}
		})
	}
}
