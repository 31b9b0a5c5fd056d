package source

import (
	"errors"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// DefaultChunkSize is the number of raw file bytes decoded per chunk.
	DefaultChunkSize = 1 << 20

	minChunkSize = 16
)

// chunk maps a raw byte range of the file to the range of decoded offsets
// it produces. Chunk boundaries always fall between two characters.
type chunk struct {
	rawStart, rawEnd int64
	start, end       int
}

// File is a Source streaming a script from disk through a sliding window.
//
// Opening a File decodes it once to build a chunk index; after that only the
// chunks around the offsets being read are resident. The window holds the
// current chunk plus the chunk before it, so look-behind across a chunk
// boundary does not cause a reload. Peak memory is a small multiple of the
// chunk size and independent of the file size.
//
// Each chunk is decoded on its own. For stateless encodings (UTF-8, the
// single byte code pages, UTF-16 with a fixed byte order) this is exactly the
// same as decoding the file as a whole.
//
// A File is owned by one parser and must not be shared between goroutines.
type File struct {
	path      string
	f         *os.File
	dec       *encoding.Decoder
	chunkSize int
	chunks    []chunk
	length    int

	window   []byte // decoded text of chunks[winFirst..winLast]
	winFirst int
	winLast  int
	winStart int // offset of window[0]

	closed bool
}

var _ Source = (*File)(nil)

// OpenFile opens path and indexes it. A nil encoding means UTF-8; a chunk
// size <= 0 means DefaultChunkSize.
func OpenFile(path string, enc encoding.Encoding, chunkSize int) (*File, error) {
	if enc == nil {
		enc = unicode.UTF8
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	} else if chunkSize < minChunkSize {
		chunkSize = minChunkSize
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	s := &File{
		path:      path,
		f:         f,
		dec:       enc.NewDecoder(),
		chunkSize: chunkSize,
		winLast:   -1,
	}
	if err := s.index(); err != nil {
		_ = f.Close()
		return nil, err
	}
	if len(s.chunks) > 0 {
		if err := s.readFirstChunk(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *File) Path() string {
	return s.path
}

func (s *File) Len() int {
	return s.length
}

// ChunkCount returns the number of chunks the file was split into.
func (s *File) ChunkCount() int {
	return len(s.chunks)
}

func (s *File) ByteAt(i int) (byte, error) {
	if i < 0 || i >= s.length {
		return 0, &IndexError{Index: i, Len: s.length}
	}
	if err := s.seek(i); err != nil {
		return 0, err
	}
	return s.window[i-s.winStart], nil
}

func (s *File) Slice(start, end int) (string, error) {
	if err := checkRange(start, end, s.length); err != nil {
		return "", err
	}
	if start == end {
		return "", nil
	}
	if s.closed {
		return "", s.closedError()
	}
	if s.inWindow(start) && s.inWindow(end-1) {
		return string(s.window[start-s.winStart : end-s.winStart]), nil
	}

	first, last := s.chunkIndex(start), s.chunkIndex(end-1)
	if last-first <= 1 {
		if err := s.load(first, last); err != nil {
			return "", err
		}
		return string(s.window[start-s.winStart : end-s.winStart]), nil
	}

	// Spans more than the window can hold; stitch the chunks together
	// without moving the window.
	var b strings.Builder
	b.Grow(end - start)
	for k := first; k <= last; k++ {
		c := s.chunks[k]
		var text []byte
		if k >= s.winFirst && k <= s.winLast {
			text = s.window[c.start-s.winStart : c.end-s.winStart]
		} else {
			var err error
			if text, err = s.decodeChunk(k); err != nil {
				return "", err
			}
		}
		lo, hi := max(start, c.start)-c.start, min(end, c.end)-c.start
		b.Write(text[lo:hi])
	}
	return b.String(), nil
}

// Close releases the file handle. Calling it again is a no-op.
func (s *File) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.window = nil
	if err := s.f.Close(); err != nil {
		return &IOError{Op: "close", Path: s.path, Err: err}
	}
	return nil
}

func (s *File) closedError() error {
	return &IOError{Op: "read", Path: s.path, Err: os.ErrClosed}
}

func (s *File) inWindow(i int) bool {
	return i >= s.winStart && i < s.winStart+len(s.window)
}

func (s *File) chunkIndex(i int) int {
	return sort.Search(len(s.chunks), func(k int) bool {
		return s.chunks[k].end > i
	})
}

// seek makes sure offset i is resident.
func (s *File) seek(i int) error {
	if s.closed {
		return s.closedError()
	}
	if s.inWindow(i) {
		return nil
	}
	k := s.chunkIndex(i)
	switch {
	case k == s.winLast+1:
		return s.readNextChunk()
	case k == s.winFirst-1:
		return s.readPreviousChunk()
	case k > 0:
		return s.load(k-1, k)
	default:
		return s.readFirstChunk()
	}
}

func (s *File) readFirstChunk() error {
	return s.load(0, 0)
}

// readNextChunk slides the window one chunk forward; the old last chunk is
// kept for look-behind.
func (s *File) readNextChunk() error {
	next := s.winLast + 1
	text, err := s.decodeChunk(next)
	if err != nil {
		return err
	}
	keep := s.window[s.chunks[s.winLast].start-s.winStart:]
	window := make([]byte, 0, len(keep)+len(text))
	window = append(append(window, keep...), text...)

	s.window = window
	s.winFirst, s.winLast = s.winLast, next
	s.winStart = s.chunks[s.winFirst].start
	return nil
}

// readPreviousChunk slides the window one chunk backward.
func (s *File) readPreviousChunk() error {
	prev := s.winFirst - 1
	text, err := s.decodeChunk(prev)
	if err != nil {
		return err
	}
	keep := s.window[:s.chunks[s.winFirst].end-s.winStart]
	window := make([]byte, 0, len(keep)+len(text))
	window = append(append(window, text...), keep...)

	s.window = window
	s.winFirst, s.winLast = prev, s.winFirst
	s.winStart = s.chunks[s.winFirst].start
	return nil
}

func (s *File) load(first, last int) error {
	var window []byte
	for k := first; k <= last; k++ {
		text, err := s.decodeChunk(k)
		if err != nil {
			return err
		}
		window = append(window, text...)
	}
	s.window = window
	s.winFirst, s.winLast = first, last
	s.winStart = s.chunks[first].start
	return nil
}

func (s *File) decodeChunk(k int) ([]byte, error) {
	c := s.chunks[k]
	raw := make([]byte, c.rawEnd-c.rawStart)
	n, err := s.f.ReadAt(raw, c.rawStart)
	if n < len(raw) {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}
	text, _, err := s.decode(raw, true)
	if err != nil {
		return nil, &IOError{Op: "decode", Path: s.path, Err: err}
	}
	return text, nil
}

// decode runs src through a freshly reset decoder. With atEOF false a
// trailing partial character is left unconsumed; nSrc reports how much of
// src was used.
func (s *File) decode(src []byte, atEOF bool) (text []byte, nSrc int, err error) {
	dst := make([]byte, 4*len(src)+16)
	for {
		s.dec.Reset()
		nDst, nSrc, err := s.dec.Transform(dst, src, atEOF)
		switch {
		case err == nil, errors.Is(err, transform.ErrShortSrc):
			return dst[:nDst], nSrc, nil
		case errors.Is(err, transform.ErrShortDst):
			dst = make([]byte, 2*len(dst))
		default:
			return nil, 0, err
		}
	}
}

// index decodes the whole file once, recording where each chunk starts in
// the raw file and in the decoded text.
func (s *File) index() error {
	buf := make([]byte, s.chunkSize)
	var pending []byte
	var rawPos int64
	for eof := false; !eof; {
		n, err := io.ReadFull(s.f, buf)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			eof = true
		default:
			return &IOError{Op: "read", Path: s.path, Err: err}
		}
		pending = append(pending, buf[:n]...)
		if len(pending) == 0 {
			continue
		}

		text, nSrc, err := s.decode(pending, eof)
		if err != nil {
			return &IOError{Op: "decode", Path: s.path, Err: err}
		}
		if nSrc == 0 {
			if eof {
				return &IOError{Op: "decode", Path: s.path, Err: io.ErrUnexpectedEOF}
			}
			continue
		}
		if len(text) > 0 {
			s.chunks = append(s.chunks, chunk{
				rawStart: rawPos,
				rawEnd:   rawPos + int64(nSrc),
				start:    s.length,
				end:      s.length + len(text),
			})
			s.length += len(text)
		}
		rawPos += int64(nSrc)
		pending = append(pending[:0], pending[nSrc:]...)
	}
	return nil
}
