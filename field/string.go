package field

import (
	"fmt"
	"unicode/utf8"

	"github.com/arloliu/cbc/bitbuffer"
	"github.com/arloliu/cbc/errs"
	"github.com/arloliu/cbc/lenprefix"
)

// StringField holds UTF-8 text, either fixed-width (space-padded/truncated,
// no length prefix) or variable-width (length-prefixed, truncated to size
// characters) per spec.md §4.4 "string".
type StringField struct {
	base
	size  int
	fixed bool
}

// NewString constructs a StringField. size bounds the character count.
func NewString(name, description string, optional bool, size int, fixed bool) (*StringField, error) {
	if name == "" {
		return nil, errs.ErrEmptyName
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: string field %q size must be >= 1", errs.ErrInvalidSize, name)
	}

	return &StringField{base: base{name: name, description: description, optional: optional}, size: size, fixed: fixed}, nil
}

func (f *StringField) Kind() Kind  { return KindString }
func (f *StringField) Size() int   { return f.size }
func (f *StringField) Fixed() bool { return f.fixed }

func (f *StringField) Encode(value any, buf []byte, bitOffset int) ([]byte, int, error) {
	s, ok := value.(string)
	if !ok {
		return buf, bitOffset, fmt.Errorf("%w: string field %q expects string, got %T", errs.ErrWrongType, f.name, value)
	}

	runes := []rune(s)
	if len(runes) > f.size {
		runes = runes[:f.size]
	}
	s = string(runes)

	if f.fixed {
		// Fixed width is size bytes: drop whole runes until the UTF-8 form
		// fits, then space-pad to exactly size bytes.
		for len(s) > f.size {
			runes = runes[:len(runes)-1]
			s = string(runes)
		}
		for len(s) < f.size {
			s += " "
		}

		return bitbuffer.AppendBytes(buf, bitOffset, []byte(s))
	}

	buf, bitOffset, err := lenprefix.Encode(len(s), buf, bitOffset)
	if err != nil {
		return buf, bitOffset, err
	}

	return bitbuffer.AppendBytes(buf, bitOffset, []byte(s))
}

func (f *StringField) Decode(buf []byte, bitOffset int) (any, int, error) {
	length := f.size
	if !f.fixed {
		n, next, err := lenprefix.Decode(buf, bitOffset)
		if err != nil {
			return nil, bitOffset, err
		}
		length = n
		bitOffset = next
	}

	raw, err := bitbuffer.ExtractBytes(buf, bitOffset, length)
	if err != nil {
		return nil, bitOffset, err
	}
	if !utf8.Valid(raw) {
		return nil, bitOffset, fmt.Errorf("%w: string field %q", errs.ErrInvalidUTF8, f.name)
	}

	return string(raw), bitOffset + length*8, nil
}
