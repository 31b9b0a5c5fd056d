package sqlscript

import (
	"context"
	"database/sql"
)

// inTx runs f in a transaction that is committed if f succeeds and rolled
// back otherwise.
func inTx(ctx context.Context, dbc DB, f func(tx *sql.Tx) error) error {
	tx, err := dbc.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	err = f(tx)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
