package sqldocument

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToken_Classes(t *testing.T) {
	tests := []struct {
		tok         Token
		comment     bool
		significant bool
	}{
		{Token{Type: WhitespaceToken, Text: "\n"}, false, false},
		{Token{Type: SinglelineCommentToken, Text: "-- x"}, true, false},
		{Token{Type: MultilineCommentToken, Text: "/* x */"}, true, false},
		{Token{Type: EOFToken}, false, false},
		{Token{Type: SemicolonToken, Text: ";"}, false, true},
		{Token{Type: DollarQuotedBodyToken, Text: "select 1;"}, false, true},
		{Token{Type: OtherToken, Text: "/"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.tok.Type.String(), func(t *testing.T) {
			assert.Equal(t, tt.comment, tt.tok.IsComment())
			assert.Equal(t, tt.significant, tt.tok.Significant())
		})
	}
}

func TestToken_IsWord(t *testing.T) {
	assert.True(t, Token{Type: UnquotedIdentifierToken, Text: "Delimiter"}.IsWord("DELIMITER"))
	assert.True(t, Token{Type: ReservedWordToken, Text: "BEGIN"}.IsWord("begin"))
	assert.False(t, Token{Type: QuotedIdentifierToken, Text: `"begin"`}.IsWord("begin"))
	assert.False(t, Token{Type: StringLiteralToken, Text: "begin"}.IsWord("begin"))
}
