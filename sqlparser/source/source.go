// Package source provides random access to the text of a SQL script.
//
// Offsets are byte offsets into the UTF-8 form of the whole script. They stay
// the same whether the text is held in memory (String) or streamed from disk
// in chunks (File), so a parser can hand them out to callers and map an
// editor cursor back to a statement without knowing which one backs it.
package source

// Source is the character source consumed by the lexer and the parsers.
//
// A consumer may call ByteAt and Slice in any order; the parser relies on
// look-behind for trimming and for deciding whether a delimiter stands alone
// on its line. Close releases any file handle and must be safe to call more
// than once.
type Source interface {
	// Len returns the length of the script in bytes of UTF-8.
	Len() int

	// ByteAt returns the byte at offset i.
	ByteAt(i int) (byte, error)

	// Slice returns the text in [start, end).
	Slice(start, end int) (string, error)

	// Close releases the resources held by the source.
	Close() error
}

func checkRange(start, end, length int) error {
	if start < 0 || start > length {
		return &IndexError{Index: start, Len: length}
	}
	if end < start || end > length {
		return &IndexError{Index: end, Len: length}
	}
	return nil
}
