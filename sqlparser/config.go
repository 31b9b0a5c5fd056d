package sqlparser

import (
	"github.com/vippsas/sqlscript/sqlparser/source"
	"github.com/vippsas/sqlscript/sqlparser/sqldocument"
)

const (
	DefaultChunkSize     = source.DefaultChunkSize
	DefaultFileThreshold = 8 << 20
)

// Config is passed explicitly to every parser; there is no package level
// state.
type Config struct {
	Dialect Dialect `yaml:"dialect"`

	// Delimiter is the standard statement terminator, ";" when empty.
	Delimiter sqldocument.Delimiter `yaml:"delimiter"`

	// AlternateDelimiter ends procedural blocks. When empty the dialect's
	// default is used.
	AlternateDelimiter sqldocument.Delimiter `yaml:"alternateDelimiter"`

	// EmptyLineIsDelimiter makes a blank line end a statement as well.
	EmptyLineIsDelimiter bool `yaml:"emptyLineIsDelimiter"`

	// ChunkSize is the number of raw bytes per chunk of a streamed file.
	ChunkSize int `yaml:"chunkSize"`

	// FileThreshold is the file size in bytes above which a file is
	// streamed in chunks instead of read into memory.
	FileThreshold int64 `yaml:"fileThreshold"`

	// Encoding is the IANA name of the file encoding; empty means UTF-8.
	Encoding string `yaml:"encoding"`
}

func DefaultConfig() Config {
	return Config{
		Dialect:       DialectStandard,
		Delimiter:     sqldocument.Standard,
		ChunkSize:     DefaultChunkSize,
		FileThreshold: DefaultFileThreshold,
	}
}

// WithDefaults fills in every unset field.
func (c Config) WithDefaults() Config {
	if c.Dialect == "" {
		c.Dialect = DialectStandard
	}
	if c.Delimiter.IsEmpty() {
		c.Delimiter = sqldocument.Standard
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.FileThreshold <= 0 {
		c.FileThreshold = DefaultFileThreshold
	}
	return c
}

func (c Config) alternate() sqldocument.Delimiter {
	if c.AlternateDelimiter.IsEmpty() {
		return c.Dialect.AlternateDelimiter()
	}
	return c.AlternateDelimiter
}
