package cmd

import (
	"fmt"
	"io"

	"github.com/alecthomas/repr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vippsas/sqlscript/sqlparser"
	"github.com/vippsas/sqlscript/sqlparser/source"
	"github.com/vippsas/sqlscript/sqlparser/sqldocument"
)

var (
	tokensCmd = &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dumps the tokens of a script, for debugging the lexer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Help()
				return errors.New("Wrong number of arguments")
			}
			cfg, err := parserConfig(args[0], "")
			if err != nil {
				return err
			}
			return dumpTokens(cmd.OutOrStdout(), args[0], cfg)
		},
	}
)

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func dumpTokens(w io.Writer, file string, cfg sqlparser.Config) error {
	enc, err := source.LookupEncoding(cfg.Encoding)
	if err != nil {
		return err
	}
	src, err := source.ReadFile(file, enc)
	if err != nil {
		return err
	}
	defer src.Close()

	lexer := sqldocument.NewLexer(src, cfg.Dialect.LexerConfig())
	for {
		tok := lexer.NextToken()
		if tok.Type == sqldocument.EOFToken {
			return lexer.Err()
		}
		if _, err := fmt.Fprintln(w, repr.String(tok, repr.Indent(""))); err != nil {
			return err
		}
	}
}
