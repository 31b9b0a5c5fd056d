// Package sqlscript executes SQL scripts statement by statement.
//
// The splitting itself lives in the sqlparser package; a Runner pulls
// commands from a sqlparser.IteratingParser and sends each one to the
// database on its own, so a script never has to fit in memory and a failing
// statement is reported with its script line.
package sqlscript

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vippsas/sqlscript/sqlparser"
)

type Status int

const (
	StatusExecuted Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusExecuted:
		return "executed"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

type StatementResult struct {
	Command sqlparser.Command
	Status  Status

	// RowsAffected is -1 when the driver does not report it.
	RowsAffected int64
	Duration     time.Duration
	Err          error
}

type Result struct {
	RunID      string
	File       string
	Statements []StatementResult
}

// Count returns the number of statements with the given status.
func (r Result) Count(status Status) int {
	n := 0
	for _, s := range r.Statements {
		if s.Status == status {
			n++
		}
	}
	return n
}

// Runner executes the commands of a script in order.
//
// Include lines (@file) are not expanded; they are reported as skipped. With
// ContinueOnError, a failing statement is recorded and the run goes on; the
// first failure is still returned as the error of Run. SingleTransaction
// wraps the whole script in one transaction that is rolled back on error.
type Runner struct {
	DB                DB
	Logger            logrus.FieldLogger
	ContinueOnError   bool
	SingleTransaction bool
}

// Run executes every command p returns. file is only used in messages. The
// Result holds the statements seen so far also when an error is returned.
func (r Runner) Run(ctx context.Context, file string, p *sqlparser.IteratingParser) (Result, error) {
	result := Result{
		RunID: uuid.Must(uuid.NewV4()).String(),
		File:  file,
	}
	logger := r.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithFields(logrus.Fields{
		"run":  result.RunID,
		"file": file,
	})

	var err error
	if r.SingleTransaction {
		err = inTx(ctx, r.DB, func(tx *sql.Tx) error {
			return r.run(ctx, logger, tx, p, &result)
		})
	} else {
		err = r.run(ctx, logger, r.DB, p, &result)
	}

	logger.WithFields(logrus.Fields{
		"executed": result.Count(StatusExecuted),
		"skipped":  result.Count(StatusSkipped),
		"failed":   result.Count(StatusFailed),
	}).Info("script finished")
	return result, err
}

func (r Runner) run(ctx context.Context, logger logrus.FieldLogger, dbc execer, p *sqlparser.IteratingParser, result *Result) error {
	var firstErr error
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd, err := p.Next()
		if errors.Is(err, io.EOF) {
			return firstErr
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", result.File, err)
		}

		stmtLogger := logger.WithFields(logrus.Fields{
			"statement": cmd.Index,
			"line":      cmd.Line,
		})
		if cmd.Include {
			stmtLogger.Warnf("not expanding include %s", cmd.Text)
			result.Statements = append(result.Statements, StatementResult{
				Command:      cmd,
				Status:       StatusSkipped,
				RowsAffected: -1,
			})
			continue
		}

		stmt := r.exec(ctx, dbc, cmd)
		if stmt.Err != nil {
			stmt.Err = &StatementError{File: result.File, Command: cmd, Err: stmt.Err}
			stmtLogger.WithError(stmt.Err).Error("statement failed")
		} else {
			stmtLogger.WithField("rows", stmt.RowsAffected).Debug("statement executed")
		}
		result.Statements = append(result.Statements, stmt)

		if stmt.Err != nil {
			if !r.ContinueOnError {
				return stmt.Err
			}
			if firstErr == nil {
				firstErr = stmt.Err
			}
		}
	}
}

func (r Runner) exec(ctx context.Context, dbc execer, cmd sqlparser.Command) StatementResult {
	started := time.Now()
	res, err := dbc.ExecContext(ctx, cmd.Text)
	stmt := StatementResult{
		Command:      cmd,
		Status:       StatusExecuted,
		RowsAffected: -1,
		Duration:     time.Since(started),
	}
	if err != nil {
		stmt.Status = StatusFailed
		stmt.Err = err
		return stmt
	}
	if n, err := res.RowsAffected(); err == nil {
		stmt.RowsAffected = n
	}
	return stmt
}
