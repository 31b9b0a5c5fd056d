package source

// String is a Source backed by an in-memory string.
type String struct {
	text string
}

var _ Source = (*String)(nil)

func NewString(text string) *String {
	return &String{text: text}
}

func (s *String) Len() int {
	return len(s.text)
}

func (s *String) ByteAt(i int) (byte, error) {
	if i < 0 || i >= len(s.text) {
		return 0, &IndexError{Index: i, Len: len(s.text)}
	}
	return s.text[i], nil
}

func (s *String) Slice(start, end int) (string, error) {
	if err := checkRange(start, end, len(s.text)); err != nil {
		return "", err
	}
	return s.text[start:end], nil
}

func (s *String) Close() error {
	return nil
}
