package sqldocument

import (
	"fmt"
	"strings"
	"unicode"
)

// Delimiter is a statement terminator. A SingleLine delimiter only counts
// when it is the sole non-whitespace content of its line, like sqlcmd's GO
// or SQL*Plus' slash.
//
// The zero value means "no delimiter".
type Delimiter struct {
	Text       string
	SingleLine bool
}

var (
	Standard        = Delimiter{Text: ";"}
	OracleDelimiter = Delimiter{Text: "/", SingleLine: true}
	MSSQLDelimiter  = Delimiter{Text: "GO", SingleLine: true}
)

const singleLineSuffix = ":nl"

// ParseDelimiter parses the command line form of a delimiter: TEXT, or
// TEXT:nl for a single-line delimiter. The older TEXT;nl form is accepted
// too, as are the shortcuts "oracle" and "mssql".
func ParseDelimiter(arg string) (Delimiter, error) {
	s := strings.TrimSpace(arg)
	switch strings.ToLower(s) {
	case "oracle":
		return OracleDelimiter, nil
	case "mssql":
		return MSSQLDelimiter, nil
	}

	d := Delimiter{Text: s}
	lower := strings.ToLower(s)
	for _, suffix := range []string{singleLineSuffix, ";nl"} {
		if len(s) > len(suffix) && strings.HasSuffix(lower, suffix) {
			d = Delimiter{Text: s[:len(s)-len(suffix)], SingleLine: true}
			break
		}
	}
	if d.Text == "" {
		return Delimiter{}, fmt.Errorf("empty delimiter %q", arg)
	}
	if strings.IndexFunc(d.Text, unicode.IsSpace) >= 0 {
		return Delimiter{}, fmt.Errorf("delimiter %q contains whitespace", arg)
	}
	return d, nil
}

// MustParseDelimiter is like ParseDelimiter but panics on error.
func MustParseDelimiter(arg string) Delimiter {
	d, err := ParseDelimiter(arg)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Delimiter) IsEmpty() bool {
	return d.Text == ""
}

// IsWord reports whether the delimiter is made of letters, like GO. Word
// delimiters match regardless of case and must not be followed by another
// identifier character.
func (d Delimiter) IsWord() bool {
	if d.Text == "" {
		return false
	}
	for _, r := range d.Text {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Matches reports whether s is the delimiter text.
func (d Delimiter) Matches(s string) bool {
	if d.IsWord() {
		return strings.EqualFold(s, d.Text)
	}
	return s == d.Text
}

func (d Delimiter) String() string {
	if d.SingleLine {
		return d.Text + singleLineSuffix
	}
	return d.Text
}

func (d Delimiter) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses text with ParseDelimiter; empty text gives the zero
// Delimiter.
func (d *Delimiter) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*d = Delimiter{}
		return nil
	}
	parsed, err := ParseDelimiter(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// RemoveFromEnd strips the delimiter from the end of sql along with the
// whitespace around it. A single-line delimiter is only removed when it is
// alone on the last line. Text not ending in the delimiter is returned
// unchanged.
func (d Delimiter) RemoveFromEnd(sql string) string {
	if d.IsEmpty() {
		return sql
	}
	trimmed := strings.TrimRightFunc(sql, unicode.IsSpace)

	if d.SingleLine {
		nl := strings.LastIndexByte(trimmed, '\n')
		if !d.Matches(strings.TrimSpace(trimmed[nl+1:])) {
			return sql
		}
		if nl < 0 {
			return ""
		}
		return strings.TrimRightFunc(trimmed[:nl], unicode.IsSpace)
	}

	n := len(d.Text)
	if len(trimmed) < n || !d.Matches(trimmed[len(trimmed)-n:]) {
		return sql
	}
	if d.IsWord() && len(trimmed) > n {
		// "...ago" does not end in the word GO
		prev := []rune(trimmed[:len(trimmed)-n])
		if r := prev[len(prev)-1]; unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return sql
		}
	}
	return strings.TrimRightFunc(trimmed[:len(trimmed)-n], unicode.IsSpace)
}
