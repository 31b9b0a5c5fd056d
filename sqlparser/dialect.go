package sqlparser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vippsas/sqlscript/sqlparser/mssql"
	"github.com/vippsas/sqlscript/sqlparser/mysql"
	"github.com/vippsas/sqlscript/sqlparser/oracle"
	"github.com/vippsas/sqlscript/sqlparser/pgsql"
	"github.com/vippsas/sqlscript/sqlparser/sqldocument"
)

// Dialect selects the lexical rules and the DelimiterTester used to split
// a script.
type Dialect string

const (
	DialectStandard Dialect = "standard"
	DialectOracle   Dialect = "oracle"
	DialectMSSQL    Dialect = "mssql"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

var Dialects = []Dialect{DialectStandard, DialectOracle, DialectMSSQL, DialectPostgres, DialectMySQL}

var dialectAliases = map[string]Dialect{
	"":           DialectStandard,
	"standard":   DialectStandard,
	"ansi":       DialectStandard,
	"oracle":     DialectOracle,
	"mssql":      DialectMSSQL,
	"sqlserver":  DialectMSSQL,
	"tsql":       DialectMSSQL,
	"azuresql":   DialectMSSQL,
	"postgres":   DialectPostgres,
	"postgresql": DialectPostgres,
	"pg":         DialectPostgres,
	"pgsql":      DialectPostgres,
	"mysql":      DialectMySQL,
	"mariadb":    DialectMySQL,
}

// ParseDialect accepts a dialect name or one of its common aliases, in any
// case. The empty name is the standard dialect.
func ParseDialect(name string) (Dialect, error) {
	d, ok := dialectAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown SQL dialect %q", name)
	}
	return d, nil
}

var extensionDialects = map[string]Dialect{
	".sql":   DialectStandard,
	".pgsql": DialectPostgres,
	".psql":  DialectPostgres,
	".tsql":  DialectMSSQL,
	".pls":   DialectOracle,
	".pkb":   DialectOracle,
	".pks":   DialectOracle,
	".plb":   DialectOracle,
	".mysql": DialectMySQL,
}

// DialectFromExtension guesses the dialect from a file name. The second
// result is false for extensions it does not know.
func DialectFromExtension(path string) (Dialect, bool) {
	d, ok := extensionDialects[strings.ToLower(filepath.Ext(path))]
	return d, ok
}

func (d *Dialect) UnmarshalText(text []byte) error {
	parsed, err := ParseDialect(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Dialect) LexerConfig() *sqldocument.LexerConfig {
	switch d {
	case DialectOracle:
		return oracle.LexerConfig()
	case DialectMSSQL:
		return mssql.LexerConfig()
	case DialectPostgres:
		return pgsql.LexerConfig()
	case DialectMySQL:
		return mysql.LexerConfig()
	default:
		return sqldocument.StandardLexerConfig()
	}
}

// NewTester returns a fresh DelimiterTester for one script.
func (d Dialect) NewTester() sqldocument.DelimiterTester {
	switch d {
	case DialectOracle:
		return oracle.NewTester()
	case DialectMSSQL:
		return mssql.NewTester()
	case DialectPostgres:
		return pgsql.NewTester()
	case DialectMySQL:
		return mysql.NewTester()
	default:
		return sqldocument.NewStandardTester()
	}
}

// AlternateDelimiter is the block delimiter used when none is configured:
// the slash for Oracle, GO for SQL Server and none otherwise.
func (d Dialect) AlternateDelimiter() sqldocument.Delimiter {
	switch d {
	case DialectOracle:
		return sqldocument.OracleDelimiter
	case DialectMSSQL:
		return sqldocument.MSSQLDelimiter
	default:
		return sqldocument.Delimiter{}
	}
}
