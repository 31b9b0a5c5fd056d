package sqldocument

import (
	"strings"
)

// TokenType is the lexical category of a Token. The same set of types is
// used for every dialect; dialects differ only in which characters produce
// which type (see LexerConfig).
type TokenType int

const (
	WhitespaceToken TokenType = iota + 1

	LeftParenToken
	RightParenToken
	SemicolonToken
	EqualToken
	CommaToken
	DotToken

	StringLiteralToken
	NumberToken

	MultilineCommentToken
	SinglelineCommentToken

	ReservedWordToken
	UnquotedIdentifierToken
	QuotedIdentifierToken
	VariableIdentifierToken

	// DollarQuoteToken is the opening or closing `$tag$` of a Postgres
	// dollar-quoted string. The text between the two markers is returned as
	// a single DollarQuotedBodyToken.
	DollarQuoteToken
	DollarQuotedBodyToken

	OtherToken
	EOFToken
)

func (tt TokenType) GoString() string {
	return tokenToDescription[tt]
}

func (tt TokenType) String() string {
	return tokenToDescription[tt]
}

func init() {
	// make sure we panic if a description isn't declared
	for tt := TokenType(1); tt <= EOFToken; tt++ {
		if tokenToDescription[tt] == "" {
			panic("you have not updated tokenToDescription")
		}
	}
}

var tokenToDescription = map[TokenType]string{
	WhitespaceToken: "WhitespaceToken",
	LeftParenToken:  "LeftParenToken",
	RightParenToken: "RightParenToken",
	SemicolonToken:  "SemicolonToken",
	EqualToken:      "EqualToken",
	CommaToken:      "CommaToken",
	DotToken:        "DotToken",

	StringLiteralToken: "StringLiteralToken",
	NumberToken:        "NumberToken",

	MultilineCommentToken:  "MultilineCommentToken",
	SinglelineCommentToken: "SinglelineCommentToken",

	ReservedWordToken:       "ReservedWordToken",
	UnquotedIdentifierToken: "UnquotedIdentifierToken",
	QuotedIdentifierToken:   "QuotedIdentifierToken",
	VariableIdentifierToken: "VariableIdentifierToken",

	DollarQuoteToken:      "DollarQuoteToken",
	DollarQuotedBodyToken: "DollarQuotedBodyToken",

	OtherToken: "OtherToken",
	EOFToken:   "EOFToken",
}

// Token is one lexical unit of a script. Start and End are byte offsets into
// the UTF-8 text of the whole script and Line is the 1-based line of Start.
type Token struct {
	Type  TokenType
	Text  string
	Start int
	End   int
	Line  int

	// ReservedWord is the lowercase word if Type is ReservedWordToken.
	ReservedWord string
}

// Lower returns the token text in lowercase.
func (t Token) Lower() string {
	return strings.ToLower(t.Text)
}

// IsWord reports whether the token is the bare word w, ignoring case.
// Quoted identifiers never match.
func (t Token) IsWord(w string) bool {
	switch t.Type {
	case ReservedWordToken, UnquotedIdentifierToken:
		return strings.EqualFold(t.Text, w)
	}
	return false
}

// IsComment reports whether the token is a comment of either style.
func (t Token) IsComment() bool {
	return t.Type == MultilineCommentToken || t.Type == SinglelineCommentToken
}

// Significant reports whether the token is part of a statement's content.
// Whitespace, comments and EOF are not; they are never shown to a
// DelimiterTester.
func (t Token) Significant() bool {
	switch t.Type {
	case WhitespaceToken, MultilineCommentToken, SinglelineCommentToken, EOFToken:
		return false
	}
	return true
}
