package cmd

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "sqlscript",
		Short:        "sqlscript",
		SilenceUsage: true,
		Long: `CLI tool for splitting SQL scripts into statements the way sqlplus, sqlcmd, psql and
the mysql client do, and for running them statement by statement. See README.md.`,
	}

	directory          string
	dialectName        string
	delimiterArg       string
	alternateArg       string
	emptyLineDelimiter bool
	encodingName       string
	chunkSize          int
	verbose            bool
)

// Execute executes the root command.
func Execute() error {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&directory, "directory", "d", ".", "directory containing sqlscript.yaml")
	flags.StringVar(&dialectName, "dialect", "", "SQL dialect: standard, oracle, mssql, postgres or mysql; guessed from the file extension if empty")
	flags.StringVar(&delimiterArg, "delimiter", "", "statement delimiter; append :nl for a delimiter that must stand alone on its line")
	flags.StringVar(&alternateArg, "alternate-delimiter", "", "delimiter ending procedural blocks, e.g. / or go:nl")
	flags.BoolVar(&emptyLineDelimiter, "empty-line-delimiter", false, "let a blank line end a statement")
	flags.StringVar(&encodingName, "encoding", "", "IANA name of the script encoding, default UTF-8")
	flags.IntVar(&chunkSize, "chunk-size", 0, "size in bytes of the chunks large scripts are read in")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	return rootCmd.Execute()
}
