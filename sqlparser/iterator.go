package sqlparser

import (
	"github.com/vippsas/sqlscript/sqlparser/source"
	"github.com/vippsas/sqlscript/sqlparser/sqldocument"
	"golang.org/x/text/encoding"
)

// IteratingParser returns the statements of a script one at a time without
// keeping them. Use it with SetFile for scripts too large to hold in
// memory:
//
//	p := sqlparser.NewIteratingParser(cfg)
//	defer p.Close()
//	if err := p.SetFile(path, nil); err != nil {
//		return err
//	}
//	for {
//		cmd, err := p.Next()
//		if err == io.EOF {
//			break
//		}
//		...
//	}
type IteratingParser struct {
	cfg    Config
	src    source.Source
	split  *splitter
	closed bool
}

func NewIteratingParser(cfg Config) *IteratingParser {
	return &IteratingParser{cfg: cfg.WithDefaults()}
}

func (p *IteratingParser) SetScript(text string) {
	p.setSource(source.NewString(text))
}

func (p *IteratingParser) SetFile(path string, enc encoding.Encoding) error {
	src, err := openSource(path, enc, p.cfg)
	if err != nil {
		return err
	}
	p.setSource(src)
	return nil
}

func (p *IteratingParser) setSource(src source.Source) {
	if p.src != nil {
		_ = p.src.Close()
	}
	p.src = src
	p.split = nil
	p.closed = false
}

// SetDelimiter takes effect from the next statement on.
func (p *IteratingParser) SetDelimiter(d sqldocument.Delimiter) {
	p.cfg.Delimiter = d
	p.cfg = p.cfg.WithDefaults()
	p.updateSplitter()
}

func (p *IteratingParser) SetAlternateDelimiter(d sqldocument.Delimiter) {
	p.cfg.AlternateDelimiter = d
	p.updateSplitter()
}

func (p *IteratingParser) SetEmptyLineIsDelimiter(v bool) {
	p.cfg.EmptyLineIsDelimiter = v
	p.updateSplitter()
}

func (p *IteratingParser) updateSplitter() {
	if p.split == nil {
		return
	}
	p.split.setDelimiters(p.cfg.Delimiter, p.cfg.alternate())
	p.split.emptyLineDelim = p.cfg.EmptyLineIsDelimiter
}

// Next returns the next statement, or io.EOF once the script is exhausted.
// Errors reading the source are returned unchanged.
func (p *IteratingParser) Next() (Command, error) {
	if p.closed {
		return Command{}, ErrClosed
	}
	if p.src == nil {
		return Command{}, ErrNoScript
	}
	if p.split == nil {
		p.split = newSplitter(p.src, p.cfg)
	}
	return p.split.next()
}

// Close releases the script source. It may be called without iterating and
// more than once.
func (p *IteratingParser) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.split = nil
	if p.src == nil {
		return nil
	}
	return p.src.Close()
}
