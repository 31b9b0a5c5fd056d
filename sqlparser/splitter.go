package sqlparser

import (
	"io"
	"strings"

	"github.com/vippsas/sqlscript/sqlparser/internal/utils"
	"github.com/vippsas/sqlscript/sqlparser/source"
	"github.com/vippsas/sqlscript/sqlparser/sqldocument"
)

type lineMode int

const (
	lineModeNone lineMode = iota
	lineModeInclude
	lineModeClientCommand
)

// splitter cuts the token stream of one script into Commands. It is shared
// by the bulk and the iterating parser; only the iterating parser keeps it
// around between calls.
type splitter struct {
	src    source.Source
	lexer  *sqldocument.Lexer
	tester sqldocument.DelimiterTester

	standard       sqldocument.Delimiter
	alternate      sqldocument.Delimiter
	emptyLineDelim bool

	index int
	err   error

	// afterDelimiter is set when the last command ended at a delimiter.
	afterDelimiter bool
}

func newSplitter(src source.Source, cfg Config) *splitter {
	cfg = cfg.WithDefaults()
	s := &splitter{
		src:    src,
		lexer:  sqldocument.NewLexer(src, cfg.Dialect.LexerConfig()),
		tester: cfg.Dialect.NewTester(),
	}
	s.setDelimiters(cfg.Delimiter, cfg.alternate())
	s.emptyLineDelim = cfg.EmptyLineIsDelimiter
	return s
}

func (s *splitter) setDelimiters(standard, alternate sqldocument.Delimiter) {
	s.standard = standard
	s.alternate = alternate
	s.tester.SetDelimiters(standard, alternate)
}

// next returns the next command, or io.EOF when the script is exhausted.
// Client commands are consumed without being returned.
func (s *splitter) next() (Command, error) {
	if s.err != nil {
		return Command{}, s.err
	}
	for {
		cmd, mode, err := s.scanStatement()
		if err != nil {
			s.err = err
			return Command{}, err
		}
		if mode == lineModeClientCommand {
			continue
		}
		cmd.Index = s.index
		s.index++
		utils.DPrint("command %d [%d:%d) delimiter %q\n", cmd.Index, cmd.Start, cmd.End, cmd.Delimiter.Text)
		return cmd, nil
	}
}

// statement accumulates the span of the statement being scanned.
type statement struct {
	started      bool
	start        int
	end          int
	line         int
	commentStart int
	commentLine  int
	mode         lineMode

	// delimiterLine is set while still on the line of the previous
	// command's delimiter.
	delimiterLine bool
}

func (s *splitter) scanStatement() (Command, lineMode, error) {
	st := statement{commentStart: -1, delimiterLine: s.afterDelimiter}
	s.afterDelimiter = false
	for {
		tok := s.lexer.NextToken()

		switch {
		case tok.Type == sqldocument.EOFToken:
			if err := s.lexer.Err(); err != nil {
				return Command{}, lineModeNone, err
			}
			if !st.started {
				// a trailing comment is not a statement
				return Command{}, lineModeNone, io.EOF
			}
			return s.finish(st, st.end, st.end, sqldocument.Delimiter{})

		case tok.Type == sqldocument.WhitespaceToken:
			if !st.started {
				if strings.Contains(tok.Text, "\n") {
					st.delimiterLine = false
				}
				continue
			}
			if st.mode != lineModeNone && strings.Contains(tok.Text, "\n") {
				return s.finish(st, st.end, st.end, sqldocument.Delimiter{})
			}
			if s.emptyLineDelim && strings.Count(tok.Text, "\n") >= 2 && s.emptyLineAllowed() {
				return s.finish(st, st.end, st.end, sqldocument.Delimiter{})
			}
			continue

		case tok.IsComment():
			switch {
			case st.started:
				if st.mode != lineModeInclude {
					st.end = tok.End
				}
			case st.delimiterLine:
				// trails the previous command
				if strings.Contains(tok.Text, "\n") {
					st.delimiterLine = false
				}
			case st.commentStart < 0:
				st.commentStart = tok.Start
				st.commentLine = tok.Line
			}
			continue
		}

		if st.mode == lineModeNone {
			tok = s.cutAtDelimiter(tok)
			d, end, ok, err := s.matchDelimiter(tok)
			if err != nil {
				return Command{}, lineModeNone, err
			}
			if ok {
				s.skipDelimiter(tok, end)
				if !st.started {
					// nothing to terminate, as in ";;"
					st.commentStart = -1
					st.delimiterLine = true
					continue
				}
				return s.finish(st, tok.Start, end, d)
			}
		}

		if !st.started {
			s.startStatement(&st, tok)
			continue
		}
		if st.mode != lineModeInclude {
			s.tester.CurrentToken(tok, false)
		}
		st.end = tok.End
	}
}

func (s *splitter) startStatement(st *statement, tok sqldocument.Token) {
	st.started = true
	st.start, st.line = tok.Start, tok.Line
	if st.commentStart >= 0 {
		st.start, st.line = st.commentStart, st.commentLine
	}
	st.end = tok.End

	if strings.HasPrefix(tok.Text, "@") {
		// @file is returned as a line of its own, without comments
		st.mode = lineModeInclude
		st.start, st.line = tok.Start, tok.Line
		return
	}
	s.tester.CurrentToken(tok, true)
	if cc, ok := s.tester.(sqldocument.ClientCommandTester); ok && cc.ClientCommand() {
		st.mode = lineModeClientCommand
	}
}

// finish closes the statement, hands it to the caller and resets the
// tester.
func (s *splitter) finish(st statement, delimStart, delimEnd int, d sqldocument.Delimiter) (Command, lineMode, error) {
	text, err := s.src.Slice(st.start, st.end)
	if err != nil {
		return Command{}, lineModeNone, err
	}
	cmd := Command{
		Text:           text,
		Start:          st.start,
		End:            st.end,
		DelimiterStart: delimStart,
		DelimiterEnd:   delimEnd,
		Delimiter:      d,
		Line:           st.line,
		Include:        st.mode == lineModeInclude,
	}
	if cmd.Include {
		if stripped := s.standard.RemoveFromEnd(text); stripped != text {
			cmd.Text = stripped
			cmd.End = cmd.Start + len(stripped)
			cmd.DelimiterStart = st.end - len(s.standard.Text)
			cmd.Delimiter = s.standard
		}
	}
	s.tester.StatementFinished()
	s.afterDelimiter = !d.IsEmpty()
	return cmd, st.mode, nil
}

// emptyLineAllowed reports whether a blank line may end the statement: not
// inside a procedural block and not while boundaries are suppressed.
func (s *splitter) emptyLineAllowed() bool {
	cur := s.tester.CurrentDelimiter()
	if cur.IsEmpty() {
		return false
	}
	if bt, ok := s.tester.(sqldocument.BlockTester); ok {
		return !bt.InBlock()
	}
	return s.alternate.IsEmpty() || cur != s.alternate
}

// matchDelimiter checks whether a delimiter starts at tok. The candidates
// are the tester's current delimiter and, unless boundaries are suppressed,
// a single-line alternate delimiter, which sqlcmd and SQL*Plus accept after
// any statement.
func (s *splitter) matchDelimiter(tok sqldocument.Token) (sqldocument.Delimiter, int, bool, error) {
	cur := s.tester.CurrentDelimiter()
	if cur.IsEmpty() {
		return sqldocument.Delimiter{}, 0, false, nil
	}
	candidates := []sqldocument.Delimiter{cur}
	if s.alternate.SingleLine && s.alternate != cur {
		candidates = append(candidates, s.alternate)
	}
	for _, d := range candidates {
		end, ok, err := s.matchAt(tok.Start, d)
		if err != nil || ok {
			return d, end, ok, err
		}
	}
	return sqldocument.Delimiter{}, 0, false, nil
}

// cutAtDelimiter ends a word where a non-word delimiter starts inside it,
// so that END$$ is the word END followed by the delimiter $$.
func (s *splitter) cutAtDelimiter(tok sqldocument.Token) sqldocument.Token {
	switch tok.Type {
	case sqldocument.UnquotedIdentifierToken, sqldocument.ReservedWordToken, sqldocument.VariableIdentifierToken:
	default:
		return tok
	}
	cur := s.tester.CurrentDelimiter()
	if cur.IsEmpty() || cur.IsWord() {
		return tok
	}
	i := strings.Index(tok.Text, cur.Text)
	if i <= 0 {
		return tok
	}
	tok.Text = tok.Text[:i]
	tok.End = tok.Start + i
	s.lexer.Reset(tok.End, tok.Line)
	return tok
}

func (s *splitter) matchAt(pos int, d sqldocument.Delimiter) (int, bool, error) {
	end := pos + len(d.Text)
	if end > s.src.Len() {
		return 0, false, nil
	}
	text, err := s.src.Slice(pos, end)
	if err != nil {
		return 0, false, err
	}
	if !d.Matches(text) {
		return 0, false, nil
	}
	if d.IsWord() && end < s.src.Len() {
		b, err := s.src.ByteAt(end)
		if err != nil {
			return 0, false, err
		}
		if isWordByte(b) {
			// GOTO is not GO
			return 0, false, nil
		}
	}
	if d.SingleLine {
		alone, err := s.aloneOnLine(pos, end)
		if err != nil || !alone {
			return 0, false, err
		}
	}
	return end, true, nil
}

// aloneOnLine looks behind and ahead of [start, end) for anything but
// whitespace on the same line.
func (s *splitter) aloneOnLine(start, end int) (bool, error) {
	for i := start - 1; i >= 0; i-- {
		b, err := s.src.ByteAt(i)
		if err != nil {
			return false, err
		}
		if b == '\n' {
			break
		}
		if !isSpaceByte(b) {
			return false, nil
		}
	}
	for i := end; i < s.src.Len(); i++ {
		b, err := s.src.ByteAt(i)
		if err != nil {
			return false, err
		}
		if b == '\n' {
			break
		}
		if !isSpaceByte(b) {
			return false, nil
		}
	}
	return true, nil
}

// skipDelimiter moves the lexer past a matched delimiter. Restarting at the
// token also drops any state the lexer entered for it, such as an opening
// dollar quote when the delimiter is $$.
func (s *splitter) skipDelimiter(tok sqldocument.Token, end int) {
	s.lexer.Reset(tok.Start, tok.Line)
	s.lexer.SkipTo(end)
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' || b == '#' || b == '@' || b >= 0x80 ||
		(b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
