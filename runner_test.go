package sqlscript

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vippsas/sqlscript/sqlparser"
)

func newMock(t *testing.T) (DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func iteratorFor(dialect sqlparser.Dialect, script string) *sqlparser.IteratingParser {
	cfg := sqlparser.DefaultConfig()
	cfg.Dialect = dialect
	p := sqlparser.NewIteratingParser(cfg)
	p.SetScript(script)
	return p
}

func TestRunner_Run(t *testing.T) {
	db, mock := newMock(t)
	logger, hook := logtest.NewNullLogger()

	mock.ExpectExec("SET NOCOUNT ON").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("create procedure p as\nbegin\n  select 1;\nend").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("update t set x = 1").WillReturnResult(sqlmock.NewResult(0, 3))

	p := iteratorFor(sqlparser.DialectMSSQL, "SET NOCOUNT ON\nGO\n@defaults.sql\ncreate procedure p as\nbegin\n  select 1;\nend\nGO\nupdate t set x = 1;\n")
	defer p.Close()

	result, err := Runner{DB: db, Logger: logger}.Run(context.Background(), "deploy.sql", p)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Statements, 4)
	assert.Equal(t, StatusSkipped, result.Statements[1].Status)
	assert.Equal(t, "@defaults.sql", result.Statements[1].Command.Text)
	assert.Equal(t, int64(3), result.Statements[3].RowsAffected)
	assert.Equal(t, 3, result.Count(StatusExecuted))
	assert.Equal(t, 1, result.Count(StatusSkipped))

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "script finished", last.Message)
	assert.Equal(t, result.RunID, last.Data["run"])
	assert.Equal(t, 3, last.Data["executed"])
}

func TestRunner_StopsOnError(t *testing.T) {
	db, mock := newMock(t)
	logger, hook := logtest.NewNullLogger()

	mock.ExpectExec("select 1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("select\n  broken").WillReturnError(mssql.Error{
		Number:   207,
		Message:  "Invalid column name 'broken'.",
		ProcName: "",
		LineNo:   2,
	})

	p := iteratorFor(sqlparser.DialectMSSQL, "select 1;\n\nselect\n  broken;\nselect 3;\n")
	defer p.Close()

	result, err := Runner{DB: db, Logger: logger}.Run(context.Background(), "fail.sql", p)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	var stmtErr *StatementError
	require.ErrorAs(t, err, &stmtErr)
	assert.Equal(t, 4, stmtErr.Line())
	assert.Equal(t, "fail.sql:4 (): Invalid column name 'broken'.", err.Error())

	require.Len(t, result.Statements, 2)
	assert.Equal(t, StatusFailed, result.Statements[1].Status)

	var failed []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			failed = append(failed, e)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Data["statement"])
	assert.Equal(t, 3, failed[0].Data["line"])
}

func TestRunner_ContinueOnError(t *testing.T) {
	db, mock := newMock(t)
	logger, _ := logtest.NewNullLogger()

	boom := errors.New("boom")
	mock.ExpectExec("select 1").WillReturnError(boom)
	mock.ExpectExec("select 2").WillReturnResult(sqlmock.NewResult(0, 1))

	p := iteratorFor(sqlparser.DialectStandard, "select 1;\nselect 2;")
	defer p.Close()

	result, err := Runner{DB: db, Logger: logger, ContinueOnError: true}.Run(context.Background(), "x.sql", p)
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 1, result.Count(StatusFailed))
	assert.Equal(t, 1, result.Count(StatusExecuted))
}

func TestRunner_SingleTransaction(t *testing.T) {
	t.Run("commits", func(t *testing.T) {
		db, mock := newMock(t)
		logger, _ := logtest.NewNullLogger()

		mock.ExpectBegin()
		mock.ExpectExec("insert into t values (1)").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("insert into t values (2)").WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		p := iteratorFor(sqlparser.DialectStandard, "insert into t values (1);\ninsert into t values (2);\n")
		defer p.Close()

		_, err := Runner{DB: db, Logger: logger, SingleTransaction: true}.Run(context.Background(), "tx.sql", p)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back", func(t *testing.T) {
		db, mock := newMock(t)
		logger, _ := logtest.NewNullLogger()

		mock.ExpectBegin()
		mock.ExpectExec("insert into t values (1)").WillReturnError(errors.New("duplicate key"))
		mock.ExpectRollback()

		p := iteratorFor(sqlparser.DialectStandard, "insert into t values (1);\ninsert into t values (2);\n")
		defer p.Close()

		_, err := Runner{DB: db, Logger: logger, SingleTransaction: true}.Run(context.Background(), "tx.sql", p)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRunner_Canceled(t *testing.T) {
	db, mock := newMock(t)
	logger, _ := logtest.NewNullLogger()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := iteratorFor(sqlparser.DialectStandard, "select 1;")
	defer p.Close()

	result, err := Runner{DB: db, Logger: logger}.Run(ctx, "x.sql", p)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Statements)
	require.NoError(t, mock.ExpectationsWereMet())
}
