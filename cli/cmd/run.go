package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vippsas/sqlscript"
	"github.com/vippsas/sqlscript/sqlparser"
)

var (
	continueOnError   bool
	singleTransaction bool

	runCmd = &cobra.Command{
		Use:   "run <dbname> <file>...",
		Short: "Runs scripts statement by statement against a database configured in sqlscript.yaml",
		Long: `Runs scripts against a database. Each statement is sent on its own, in order; a failing
statement is reported with its line in the script. Scripts are split in the dialect of the
database unless --dialect or the file extension says otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			if len(args) < 2 {
				_ = cmd.Help()
				return errors.New("Wrong number of arguments")
			}
			dbname := args[0]

			config, err := LoadConfig()
			if err != nil {
				return err
			}

			dbconfig, ok := config.Databases[dbname]
			if !ok {
				return errors.New(fmt.Sprintf("database %s not present in configuration file", dbname))
			}

			dbc, err := dbconfig.Open(ctx, logger)
			if err != nil {
				return err
			}
			defer dbc.Close()

			runner := sqlscript.Runner{
				DB:                dbc,
				Logger:            logger.WithField("database", dbname),
				ContinueOnError:   continueOnError,
				SingleTransaction: singleTransaction,
			}
			for _, file := range args[1:] {
				cfg, err := parserConfig(file, dbconfig.Dialect())
				if err != nil {
					return err
				}
				result, err := runFile(ctx, runner, file, cfg)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d executed, %d skipped, %d failed\n",
					file,
					result.Count(sqlscript.StatusExecuted),
					result.Count(sqlscript.StatusSkipped),
					result.Count(sqlscript.StatusFailed))
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
)

func init() {
	runCmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "run the rest of the script after a failing statement")
	runCmd.Flags().BoolVar(&singleTransaction, "single-transaction", false, "run each script in one transaction")
	rootCmd.AddCommand(runCmd)
}

func runFile(ctx context.Context, runner sqlscript.Runner, file string, cfg sqlparser.Config) (sqlscript.Result, error) {
	p := sqlparser.NewIteratingParser(cfg)
	defer p.Close()
	if err := p.SetFile(file, nil); err != nil {
		return sqlscript.Result{File: file}, err
	}
	return runner.Run(ctx, file, p)
}
