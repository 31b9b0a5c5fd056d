// Package sqltest runs scripts against a live SQL Server or PostgreSQL
// database. Set SQLSERVER_DSN to a sqlserver:// or postgres:// URL to run
// the tests; they are skipped otherwise.
package sqltest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/vippsas/sqlscript"
	"github.com/vippsas/sqlscript/sqlparser"
)

type StdoutLogger struct {
}

func (s StdoutLogger) Printf(format string, v ...interface{}) {
	fmt.Printf(format, v...)
}

func (s StdoutLogger) Println(v ...interface{}) {
	fmt.Println(v...)
}

var _ mssql.Logger = StdoutLogger{}

type Fixture struct {
	DB      *sql.DB
	DBName  string
	Dialect sqlparser.Dialect
	adminDB *sql.DB
}

// NewFixture creates a scratch database that is dropped when the test
// ends.
func NewFixture(t *testing.T) *Fixture {
	dsn := os.Getenv("SQLSERVER_DSN")
	if dsn == "" {
		t.Skip("set SQLSERVER_DSN to run tests against a database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	fixture := &Fixture{
		DBName: strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", ""),
	}
	t.Cleanup(fixture.Teardown)

	var err error
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		fixture.Dialect = sqlparser.DialectPostgres

		adminConfig, err := pgx.ParseConfig(dsn)
		require.NoError(t, err)
		fixture.adminDB = stdlib.OpenDB(*adminConfig)

		_, err = fixture.adminDB.ExecContext(ctx, fmt.Sprintf(`create database "%s"`, fixture.DBName))
		require.NoError(t, err)

		dbConfig := adminConfig.Copy()
		dbConfig.Database = fixture.DBName
		fixture.DB = stdlib.OpenDB(*dbConfig)
		return fixture
	}

	fixture.Dialect = sqlparser.DialectMSSQL
	if os.Getenv("SQLSERVER_LOG") != "" {
		dsn = dsn + "&log=3"
		mssql.SetLogger(StdoutLogger{})
	}

	fixture.adminDB, err = sql.Open("sqlserver", dsn)
	require.NoError(t, err)

	_, err = fixture.adminDB.ExecContext(ctx, fmt.Sprintf(`create database [%s]`, fixture.DBName))
	require.NoError(t, err)

	pdsn, err := msdsn.Parse(dsn)
	require.NoError(t, err)
	pdsn.Database = fixture.DBName

	fixture.DB, err = sql.Open("sqlserver", pdsn.URL().String())
	require.NoError(t, err)
	return fixture
}

func (f *Fixture) IsSqlServer() bool {
	return f.Dialect == sqlparser.DialectMSSQL
}

func (f *Fixture) IsPostgresql() bool {
	return f.Dialect == sqlparser.DialectPostgres
}

func (f *Fixture) RunIfMssql(t *testing.T, name string, fn func(t *testing.T)) {
	if f.IsSqlServer() {
		t.Run(name, fn)
	}
}

func (f *Fixture) RunIfPostgres(t *testing.T, name string, fn func(t *testing.T)) {
	if f.IsPostgresql() {
		t.Run(name, fn)
	}
}

func (f *Fixture) Teardown() {
	if f.adminDB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if f.DB != nil {
		_ = f.DB.Close()
		f.DB = nil
	}
	if f.IsPostgresql() {
		_, _ = f.adminDB.ExecContext(ctx, fmt.Sprintf(`drop database if exists "%s" with (force)`, f.DBName))
	} else {
		_, _ = f.adminDB.ExecContext(ctx, fmt.Sprintf(`drop database [%s]`, f.DBName))
	}
	_ = f.adminDB.Close()
	f.adminDB = nil
}

// RunScript splits script in the fixture's dialect and runs it.
func (f *Fixture) RunScript(ctx context.Context, script string) (sqlscript.Result, error) {
	cfg := sqlparser.DefaultConfig()
	cfg.Dialect = f.Dialect
	p := sqlparser.NewIteratingParser(cfg)
	defer p.Close()
	p.SetScript(script)

	runner := sqlscript.Runner{DB: f.DB, Logger: logrus.StandardLogger()}
	return runner.Run(ctx, "script", p)
}

// RunScriptFile runs a script file, e.g. a migration.
func (f *Fixture) RunScriptFile(ctx context.Context, filename string) (sqlscript.Result, error) {
	cfg := sqlparser.DefaultConfig()
	cfg.Dialect = f.Dialect
	p := sqlparser.NewIteratingParser(cfg)
	defer p.Close()
	if err := p.SetFile(filename, nil); err != nil {
		return sqlscript.Result{File: filename}, err
	}

	runner := sqlscript.Runner{DB: f.DB, Logger: logrus.StandardLogger()}
	return runner.Run(ctx, filename, p)
}
