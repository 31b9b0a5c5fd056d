package sqlparser

import (
	"github.com/vippsas/sqlscript/sqlparser/sqldocument"
)

// Command is one statement of a script.
//
// [Start, End) is the statement with surrounding whitespace trimmed;
// comments directly before it are included, except those on the same line
// as the previous delimiter, which belong to no command. An include line
// ends at its last token before any comment. [DelimiterStart, DelimiterEnd)
// is the terminator that ended it, empty when the statement was ended by
// the end of the script, a blank line or the end of an include line.
// Offsets are byte offsets into the UTF-8 text of the script and increase
// strictly from one command to the next.
type Command struct {
	Index int
	Text  string

	Start int
	End   int

	DelimiterStart int
	DelimiterEnd   int
	Delimiter      sqldocument.Delimiter

	// Line is the 1-based line of Start.
	Line int

	// Include is set for a @file line, which is returned as written and
	// never expanded.
	Include bool
}

// LineNumberInInput maps a 1-based line within Text to a line of the script.
func (c Command) LineNumberInInput(line int) int {
	if line < 1 {
		line = 1
	}
	return c.Line + line - 1
}

// contains reports whether offset belongs to the command. The terminator
// and the position right after it count as part of it, so a cursor at the
// end of "select 1;" selects that statement.
func (c Command) contains(offset int) bool {
	return offset >= c.Start && offset <= c.DelimiterEnd
}
