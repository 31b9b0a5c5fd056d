package cmd

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vippsas/sqlscript/sqlparser"
	"gopkg.in/yaml.v3"
)

var (
	iterate      bool
	cursor       int
	outputFormat string

	splitCmd = &cobra.Command{
		Use:   "split <file>",
		Short: "Splits a script into statements and prints them",
		Long: `Splits a script into the statements a client would send to the database one by one.
With --cursor, prints the index of the statement at a byte offset instead, or -1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Help()
				return errors.New("Wrong number of arguments")
			}
			file := args[0]
			cfg, err := parserConfig(file, "")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("cursor") {
				return printCommandIndex(cmd.OutOrStdout(), file, cfg, cursor)
			}
			return splitScript(cmd.OutOrStdout(), file, cfg, outputFormat, iterate)
		},
	}
)

func init() {
	splitCmd.Flags().BoolVar(&iterate, "iterate", false, "stream the statements instead of splitting the whole script first")
	splitCmd.Flags().IntVar(&cursor, "cursor", -1, "print the index of the statement containing this byte offset")
	splitCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format: text or yaml")
	rootCmd.AddCommand(splitCmd)
}

type commandView struct {
	Index     int    `yaml:"index"`
	Line      int    `yaml:"line"`
	Start     int    `yaml:"start"`
	End       int    `yaml:"end"`
	Delimiter string `yaml:"delimiter,omitempty"`
	Include   bool   `yaml:"include,omitempty"`
	Text      string `yaml:"text"`
}

func newCommandView(c sqlparser.Command) commandView {
	return commandView{
		Index:     c.Index,
		Line:      c.Line,
		Start:     c.Start,
		End:       c.End,
		Delimiter: c.Delimiter.String(),
		Include:   c.Include,
		Text:      c.Text,
	}
}

// commandPrinter writes statements as they come, so that --iterate never
// holds more than one.
type commandPrinter interface {
	Print(c sqlparser.Command) error
	Close() error
}

type textPrinter struct {
	w io.Writer
}

func (p textPrinter) Print(c sqlparser.Command) error {
	_, err := fmt.Fprintf(p.w, "-- [%d] line %d, delimiter %q\n%s\n", c.Index, c.Line, c.Delimiter.String(), c.Text)
	return err
}

func (p textPrinter) Close() error {
	return nil
}

// yamlPrinter writes one YAML document per statement.
type yamlPrinter struct {
	enc *yaml.Encoder
}

func (p yamlPrinter) Print(c sqlparser.Command) error {
	return p.enc.Encode(newCommandView(c))
}

func (p yamlPrinter) Close() error {
	return p.enc.Close()
}

func newCommandPrinter(w io.Writer, format string) (commandPrinter, error) {
	switch format {
	case "", "text":
		return textPrinter{w: w}, nil
	case "yaml":
		return yamlPrinter{enc: yaml.NewEncoder(w)}, nil
	}
	return nil, errors.Errorf("unknown output format %q", format)
}

func splitScript(w io.Writer, file string, cfg sqlparser.Config, format string, streaming bool) error {
	printer, err := newCommandPrinter(w, format)
	if err != nil {
		return err
	}

	if streaming {
		p := sqlparser.NewIteratingParser(cfg)
		defer p.Close()
		if err := p.SetFile(file, nil); err != nil {
			return err
		}
		for {
			c, err := p.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			if err := printer.Print(c); err != nil {
				return err
			}
		}
		return printer.Close()
	}

	p := sqlparser.NewScriptParser(cfg)
	defer p.Close()
	if err := p.SetFile(file, nil); err != nil {
		return err
	}
	commands, err := p.Commands()
	if err != nil {
		return err
	}
	for _, c := range commands {
		if err := printer.Print(c); err != nil {
			return err
		}
	}
	return printer.Close()
}

func printCommandIndex(w io.Writer, file string, cfg sqlparser.Config, offset int) error {
	p := sqlparser.NewScriptParser(cfg)
	defer p.Close()
	if err := p.SetFile(file, nil); err != nil {
		return err
	}
	i, err := p.CommandIndexAt(offset)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, i)
	return err
}
