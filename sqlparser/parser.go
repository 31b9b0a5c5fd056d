// Package sqlparser splits SQL scripts into statements.
//
// A script is read through a source.Source, tokenized by a
// sqldocument.Lexer configured for the Dialect, and cut at the delimiter
// the dialect's DelimiterTester currently asks for. ScriptParser returns
// all statements at once and maps offsets back to them; IteratingParser
// streams them one by one with memory bounded by the chunk size.
package sqlparser

import (
	"errors"
	"io"
	"os"
	"sort"

	"github.com/vippsas/sqlscript/sqlparser/source"
	"github.com/vippsas/sqlscript/sqlparser/sqldocument"
	"golang.org/x/text/encoding"
)

var (
	ErrNoScript = errors.New("sqlparser: no script set")
	ErrClosed   = errors.New("sqlparser: parser is closed")
)

// ScriptParser splits a whole script up front and gives random access to
// its statements. The statements are computed on first use and again after
// any setter has been called.
type ScriptParser struct {
	cfg      Config
	src      source.Source
	commands []Command
	parsed   bool
}

func NewScriptParser(cfg Config) *ScriptParser {
	return &ScriptParser{cfg: cfg.WithDefaults()}
}

func (p *ScriptParser) SetScript(text string) {
	p.setSource(source.NewString(text))
}

// SetFile reads the script from path. A nil encoding means the configured
// one. Files above the configured threshold are streamed in chunks.
func (p *ScriptParser) SetFile(path string, enc encoding.Encoding) error {
	src, err := openSource(path, enc, p.cfg)
	if err != nil {
		return err
	}
	p.setSource(src)
	return nil
}

func (p *ScriptParser) setSource(src source.Source) {
	if p.src != nil {
		_ = p.src.Close()
	}
	p.src = src
	p.invalidate()
}

func (p *ScriptParser) SetDelimiter(d sqldocument.Delimiter) {
	p.cfg.Delimiter = d
	p.cfg = p.cfg.WithDefaults()
	p.invalidate()
}

// SetAlternateDelimiter sets the block delimiter; the empty Delimiter
// restores the dialect's default.
func (p *ScriptParser) SetAlternateDelimiter(d sqldocument.Delimiter) {
	p.cfg.AlternateDelimiter = d
	p.invalidate()
}

func (p *ScriptParser) SetEmptyLineIsDelimiter(v bool) {
	p.cfg.EmptyLineIsDelimiter = v
	p.invalidate()
}

func (p *ScriptParser) invalidate() {
	p.commands = nil
	p.parsed = false
}

func (p *ScriptParser) parse() error {
	if p.parsed {
		return nil
	}
	if p.src == nil {
		return ErrNoScript
	}
	s := newSplitter(p.src, p.cfg)
	var commands []Command
	for {
		cmd, err := s.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		commands = append(commands, cmd)
	}
	p.commands = commands
	p.parsed = true
	return nil
}

// Size returns the number of statements.
func (p *ScriptParser) Size() (int, error) {
	if err := p.parse(); err != nil {
		return 0, err
	}
	return len(p.commands), nil
}

func (p *ScriptParser) Command(i int) (Command, error) {
	if err := p.parse(); err != nil {
		return Command{}, err
	}
	if i < 0 || i >= len(p.commands) {
		return Command{}, &source.IndexError{Index: i, Len: len(p.commands)}
	}
	return p.commands[i], nil
}

// Commands returns all statements in script order.
func (p *ScriptParser) Commands() ([]Command, error) {
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.commands, nil
}

// DelimiterUsed returns the terminator of statement i, empty when it was
// ended otherwise. An editor uses it to put the terminator back when it
// runs a single statement.
func (p *ScriptParser) DelimiterUsed(i int) (sqldocument.Delimiter, error) {
	cmd, err := p.Command(i)
	if err != nil {
		return sqldocument.Delimiter{}, err
	}
	return cmd.Delimiter, nil
}

// CommandIndexAt returns the index of the statement containing offset, or
// -1 if offset is past the end of the script or between two statements.
func (p *ScriptParser) CommandIndexAt(offset int) (int, error) {
	if err := p.parse(); err != nil {
		return -1, err
	}
	if offset < 0 || offset > p.src.Len() {
		return -1, nil
	}
	i := sort.Search(len(p.commands), func(i int) bool {
		return p.commands[i].DelimiterEnd >= offset
	})
	if i < len(p.commands) && p.commands[i].contains(offset) {
		return i, nil
	}
	return -1, nil
}

// Close releases the script source. It is safe to call more than once.
func (p *ScriptParser) Close() error {
	if p.src == nil {
		return nil
	}
	return p.src.Close()
}

// openSource picks an in-memory or a streamed source by file size.
func openSource(path string, enc encoding.Encoding, cfg Config) (source.Source, error) {
	if enc == nil {
		var err error
		if enc, err = source.LookupEncoding(cfg.Encoding); err != nil {
			return nil, err
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, &source.IOError{Op: "stat", Path: path, Err: err}
	}
	if info.Size() > cfg.FileThreshold {
		return source.OpenFile(path, enc, cfg.ChunkSize)
	}
	return source.ReadFile(path, enc)
}
