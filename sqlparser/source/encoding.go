package source

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LookupEncoding returns the encoding registered under an IANA name such as
// "UTF-8", "ISO-8859-1" or "windows-1252". The empty name selects UTF-8.
// Encodings are never guessed from file content.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// ReadFile decodes a whole file into a String source. Use it for scripts
// small enough to keep in memory; OpenFile streams larger ones.
func ReadFile(path string, enc encoding.Encoding) (*String, error) {
	if enc == nil {
		enc = unicode.UTF8
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	text, err := io.ReadAll(transform.NewReader(f, enc.NewDecoder()))
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return NewString(string(text)), nil
}
