package sqldocument

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smasher164/xid"
	"github.com/vippsas/sqlscript/sqlparser/source"
)

type dollarState int

const (
	dollarNone dollarState = iota
	dollarBody             // opening marker returned, body next
	dollarClose            // body returned, closing marker next
)

// Lexer turns a source.Source into Tokens on demand.
//
// The lexer is forward-only; a parser that has matched a delimiter calls
// SkipTo to continue after it. Tokens are produced lazily, so a script is
// never tokenized ahead of what the parser has asked for.
//
// Read errors from the source are sticky: once one happens NextToken returns
// EOF and Err reports the error, like bufio.Scanner.
type Lexer struct {
	src source.Source
	cfg *LexerConfig

	pos  int
	line int
	err  error

	dollar    dollarState
	dollarTag string
}

func NewLexer(src source.Source, cfg *LexerConfig) *Lexer {
	if cfg == nil {
		cfg = StandardLexerConfig()
	}
	return &Lexer{src: src, cfg: cfg, line: 1}
}

// Err returns the first error reported by the source, if any.
func (l *Lexer) Err() error {
	return l.err
}

// Pos returns the offset the next token starts at.
func (l *Lexer) Pos() int {
	return l.pos
}

// Line returns the 1-based line of Pos.
func (l *Lexer) Line() int {
	return l.line
}

// Reset restarts lexing at offset, which must be a token boundary, with the
// given line number.
func (l *Lexer) Reset(offset, line int) {
	l.pos = offset
	l.line = line
	l.dollar = dollarNone
	l.dollarTag = ""
}

// SkipTo advances to offset, counting the line breaks passed over.
func (l *Lexer) SkipTo(offset int) {
	if offset <= l.pos || l.err != nil {
		return
	}
	text, err := l.src.Slice(l.pos, offset)
	if err != nil {
		l.err = err
		return
	}
	l.line += strings.Count(text, "\n")
	l.pos = offset
}

// NextToken returns the next token. At the end of input, and after an
// error, it keeps returning an EOFToken.
func (l *Lexer) NextToken() Token {
	if l.err != nil || (l.pos >= l.src.Len() && l.dollar == dollarNone) {
		return l.eof()
	}

	start, line := l.pos, l.line
	tt := l.scan()
	if l.err != nil {
		return l.eof()
	}
	if tt == EOFToken {
		return l.eof()
	}
	text, err := l.src.Slice(start, l.pos)
	if err != nil {
		l.err = err
		return l.eof()
	}
	l.line += strings.Count(text, "\n")

	tok := Token{Type: tt, Text: text, Start: start, End: l.pos, Line: line}
	if tt == UnquotedIdentifierToken {
		lower := strings.ToLower(text)
		if l.cfg.isReserved(lower) {
			tok.Type = ReservedWordToken
			tok.ReservedWord = lower
		}
	}
	return tok
}

func (l *Lexer) eof() Token {
	return Token{Type: EOFToken, Start: l.pos, End: l.pos, Line: l.line}
}

func (l *Lexer) scan() TokenType {
	switch l.dollar {
	case dollarBody:
		return l.scanDollarBody()
	case dollarClose:
		l.dollar = dollarNone
		l.pos += len(l.dollarTag)
		return DollarQuoteToken
	}

	r, w := l.runeAt(l.pos)
	if w == 0 {
		return EOFToken
	}

	// First, decisions that can be made after one character:
	switch r {
	case '(':
		l.pos += w
		return LeftParenToken
	case ')':
		l.pos += w
		return RightParenToken
	case ';':
		l.pos += w
		return SemicolonToken
	case '=':
		l.pos += w
		return EqualToken
	case ',':
		l.pos += w
		return CommaToken
	}
	if unicode.IsSpace(r) {
		return l.scanWhitespace()
	}
	if r == '/' && l.byteIs(l.pos+1, '*') {
		l.pos += 2
		return l.scanMultilineComment()
	}
	for _, prefix := range l.cfg.LineComments {
		if l.hasPrefix(l.pos, prefix) {
			return l.scanSinglelineComment()
		}
	}
	if r == '.' {
		if b, ok := l.byteAt(l.pos + 1); ok && isDigit(b) {
			return l.scanNumber()
		}
		l.pos += w
		return DotToken
	}
	if r < utf8.RuneSelf {
		if tt, ok := l.scanPrefixedString(byte(r)); ok {
			return tt
		}
		if rule, ok := l.cfg.quoteRule(byte(r)); ok {
			l.pos++
			return l.scanQuoted(rule)
		}
		if isDigit(byte(r)) {
			return l.scanNumber()
		}
		if r == '$' && l.cfg.DollarQuotes {
			if tag, ok := l.dollarQuoteAt(l.pos); ok {
				l.pos += len(tag)
				l.dollar = dollarBody
				l.dollarTag = tag
				return DollarQuoteToken
			}
		}
		if strings.ContainsRune(l.cfg.VariablePrefixes, r) {
			if next, nw := l.runeAt(l.pos + w); nw > 0 && (l.isIdentStart(next) || next == r) {
				l.pos += w
				if next == r {
					// @@rowcount
					l.pos += nw
				}
				l.scanIdentifier()
				return VariableIdentifierToken
			}
		}
	}
	if l.isIdentStart(r) {
		l.pos += w
		l.scanIdentifier()
		return UnquotedIdentifierToken
	}

	if w < 1 {
		w = 1
	}
	l.pos += w
	return OtherToken
}

func (l *Lexer) scanWhitespace() TokenType {
	for {
		r, w := l.runeAt(l.pos)
		if w == 0 || !unicode.IsSpace(r) {
			return WhitespaceToken
		}
		l.pos += w
	}
}

// scanMultilineComment assumes one has advanced over '/*'
func (l *Lexer) scanMultilineComment() TokenType {
	depth := 1
	for {
		b, ok := l.byteAt(l.pos)
		if !ok {
			// unterminated; the comment runs to the end of input
			return MultilineCommentToken
		}
		switch {
		case b == '*' && l.byteIs(l.pos+1, '/'):
			l.pos += 2
			depth--
			if depth == 0 || !l.cfg.NestedBlockComments {
				return MultilineCommentToken
			}
		case b == '/' && l.byteIs(l.pos+1, '*') && l.cfg.NestedBlockComments:
			l.pos += 2
			depth++
		default:
			l.pos++
		}
	}
}

// scanSinglelineComment runs to the end of the line; the '\n' is left to the
// following whitespace token.
func (l *Lexer) scanSinglelineComment() TokenType {
	for {
		b, ok := l.byteAt(l.pos)
		if !ok || b == '\n' {
			return SinglelineCommentToken
		}
		l.pos++
	}
}

// scanQuoted assumes the opening character has been consumed. An
// unterminated literal runs to the end of input.
func (l *Lexer) scanQuoted(rule QuoteRule) TokenType {
	for {
		b, ok := l.byteAt(l.pos)
		if !ok {
			return rule.Type
		}
		l.pos++
		switch {
		case b == '\\' && rule.Escape == BackslashEscape:
			if _, ok := l.byteAt(l.pos); ok {
				l.pos++
			}
		case b == rule.Close:
			if rule.Escape != NoEscape && l.byteIs(l.pos, rule.Close) {
				l.pos++
				continue
			}
			return rule.Type
		}
	}
}

// scanPrefixedString handles N'..', E'..' and q'[..]' where the dialect
// has them.
func (l *Lexer) scanPrefixedString(c byte) (TokenType, bool) {
	i := l.pos
	if l.cfg.AlternativeQuoting && (c == 'n' || c == 'N') && (l.byteIs(i+1, 'q') || l.byteIs(i+1, 'Q')) && l.byteIs(i+2, '\'') {
		l.pos = i + 3
		return l.scanAlternativeQuote(), true
	}
	if !l.byteIs(i+1, '\'') {
		return 0, false
	}
	switch {
	case l.cfg.AlternativeQuoting && (c == 'q' || c == 'Q'):
		l.pos = i + 2
		return l.scanAlternativeQuote(), true
	case strings.IndexByte(l.cfg.EscapeStringPrefixes, c) >= 0:
		l.pos = i + 2
		return l.scanQuoted(QuoteRule{Open: '\'', Close: '\'', Type: StringLiteralToken, Escape: BackslashEscape}), true
	case strings.IndexByte(l.cfg.StringPrefixes, c) >= 0:
		rule, ok := l.cfg.quoteRule('\'')
		if !ok {
			return 0, false
		}
		l.pos = i + 2
		return l.scanQuoted(rule), true
	}
	return 0, false
}

// scanAlternativeQuote assumes q' has been consumed. The next character is
// the quote delimiter; brackets close with their counterpart.
func (l *Lexer) scanAlternativeQuote() TokenType {
	open, ok := l.byteAt(l.pos)
	if !ok {
		return StringLiteralToken
	}
	l.pos++
	closing := open
	switch open {
	case '[':
		closing = ']'
	case '{':
		closing = '}'
	case '<':
		closing = '>'
	case '(':
		closing = ')'
	}
	for {
		b, ok := l.byteAt(l.pos)
		if !ok {
			return StringLiteralToken
		}
		l.pos++
		if b == closing && l.byteIs(l.pos, '\'') {
			l.pos++
			return StringLiteralToken
		}
	}
}

// dollarQuoteAt returns the $tag$ starting at i. A tag is empty or an
// identifier that does not start with a digit, so $1 is not a tag.
func (l *Lexer) dollarQuoteAt(i int) (string, bool) {
	for j := i + 1; ; {
		r, w := l.runeAt(j)
		switch {
		case w == 0:
			return "", false
		case r == '$':
			tag, err := l.src.Slice(i, j+1)
			if err != nil {
				l.err = err
				return "", false
			}
			return tag, true
		case j == i+1 && !(xid.Start(r) || r == '_'):
			return "", false
		case !(xid.Continue(r) || r == '_'):
			return "", false
		}
		j += w
	}
}

// scanDollarBody runs to the closing tag. An empty body yields the closing
// marker directly.
func (l *Lexer) scanDollarBody() TokenType {
	start := l.pos
	for {
		b, ok := l.byteAt(l.pos)
		if !ok {
			// unterminated; the body runs to the end of input
			l.dollar = dollarNone
			if l.pos == start {
				return EOFToken
			}
			return DollarQuotedBodyToken
		}
		if b == '$' && l.hasPrefix(l.pos, l.dollarTag) {
			if l.pos == start {
				l.dollar = dollarNone
				l.pos += len(l.dollarTag)
				return DollarQuoteToken
			}
			l.dollar = dollarClose
			return DollarQuotedBodyToken
		}
		l.pos++
	}
}

func (l *Lexer) scanNumber() TokenType {
	l.skipDigits()
	if l.byteIs(l.pos, '.') {
		l.pos++
		l.skipDigits()
	}
	if l.byteIs(l.pos, 'e') || l.byteIs(l.pos, 'E') {
		j := l.pos + 1
		if l.byteIs(j, '+') || l.byteIs(j, '-') {
			j++
		}
		if b, ok := l.byteAt(j); ok && isDigit(b) {
			l.pos = j
			l.skipDigits()
		}
	}
	return NumberToken
}

func (l *Lexer) skipDigits() {
	for {
		b, ok := l.byteAt(l.pos)
		if !ok || !isDigit(b) {
			return
		}
		l.pos++
	}
}

// scanIdentifier assumes first character of an identifier has been
// identified, and scans to the end
func (l *Lexer) scanIdentifier() {
	for {
		r, w := l.runeAt(l.pos)
		if w == 0 || !l.isIdentContinue(r) {
			return
		}
		l.pos += w
	}
}

func (l *Lexer) isIdentStart(r rune) bool {
	return xid.Start(r) || r == '_' || strings.ContainsRune(l.cfg.ExtraIdentifierChars, r)
}

func (l *Lexer) isIdentContinue(r rune) bool {
	return xid.Continue(r) || r == '_' || r == '$' || unicode.Is(unicode.Cf, r) ||
		strings.ContainsRune(l.cfg.ExtraIdentifierChars, r)
}

func (l *Lexer) byteAt(i int) (byte, bool) {
	if l.err != nil || i >= l.src.Len() {
		return 0, false
	}
	b, err := l.src.ByteAt(i)
	if err != nil {
		l.err = err
		return 0, false
	}
	return b, true
}

func (l *Lexer) byteIs(i int, want byte) bool {
	b, ok := l.byteAt(i)
	return ok && b == want
}

func (l *Lexer) hasPrefix(i int, prefix string) bool {
	for k := 0; k < len(prefix); k++ {
		if !l.byteIs(i+k, prefix[k]) {
			return false
		}
	}
	return true
}

// runeAt decodes the character at i. The width is 0 at end of input and at
// least 1 otherwise, also for invalid UTF-8.
func (l *Lexer) runeAt(i int) (rune, int) {
	b, ok := l.byteAt(i)
	if !ok {
		return utf8.RuneError, 0
	}
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	var buf [utf8.UTFMax]byte
	buf[0] = b
	n := 1
	for ; n < utf8.UTFMax; n++ {
		c, ok := l.byteAt(i + n)
		if !ok || utf8.RuneStart(c) {
			break
		}
		buf[n] = c
	}
	return utf8.DecodeRune(buf[:n])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
