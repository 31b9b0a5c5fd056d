package sqlscript

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/vippsas/sqlscript/sqlparser"
)

// StatementError is a database error for one statement of a script. Its
// message points at the script line the database complained about rather
// than the line within the statement.
type StatementError struct {
	File    string
	Command sqlparser.Command
	Err     error
}

func (e *StatementError) Error() string {
	var buf bytes.Buffer

	var mssqlErr mssql.Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(e.Err, &mssqlErr):
		all := mssqlErr.All
		if len(all) == 0 {
			all = []mssql.Error{mssqlErr}
		}
		for i, item := range all {
			if i > 0 {
				buf.WriteByte('\n')
			}
			if _, fmterr := fmt.Fprintf(&buf, "%s:%d (%s): %s",
				e.File,
				e.Command.LineNumberInInput(int(item.LineNo)),
				item.ProcName,
				item.Message); fmterr != nil {
				panic(fmterr)
			}
		}
	case errors.As(e.Err, &pgErr):
		if _, fmterr := fmt.Fprintf(&buf, "%s:%d: %s (SQLSTATE %s)",
			e.File,
			e.Line(),
			pgErr.Message,
			pgErr.Code); fmterr != nil {
			panic(fmterr)
		}
	default:
		if _, fmterr := fmt.Fprintf(&buf, "%s:%d: %v", e.File, e.Command.Line, e.Err); fmterr != nil {
			panic(fmterr)
		}
	}
	return buf.String()
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// Line is the script line of the error: the line the database reported
// when it did, else the first line of the statement.
func (e *StatementError) Line() int {
	var mssqlErr mssql.Error
	if errors.As(e.Err, &mssqlErr) && mssqlErr.LineNo > 0 {
		return e.Command.LineNumberInInput(int(mssqlErr.LineNo))
	}
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) && pgErr.Position > 0 {
		return e.Command.LineNumberInInput(lineAtPosition(e.Command.Text, int(pgErr.Position)))
	}
	return e.Command.Line
}

// lineAtPosition converts Postgres' 1-based character position in a query
// to a 1-based line number.
func lineAtPosition(text string, position int) int {
	runes := []rune(text)
	if position > len(runes) {
		position = len(runes)
	}
	if position < 1 {
		return 1
	}
	return strings.Count(string(runes[:position-1]), "\n") + 1
}
