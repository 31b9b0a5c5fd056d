package sqlscript

import (
	"context"
	"database/sql"
)

// DB is the part of *sql.DB a Runner needs. *sql.Conn satisfies it too,
// which lets a caller pin a run to one session.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	BeginTx(ctx context.Context, txOptions *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ DB = &sql.DB{}
	_ DB = &sql.Conn{}
)

// execer is what statements are executed on: the DB itself, or the
// transaction of a single-transaction run.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}
