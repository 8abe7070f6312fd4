package field

import (
	"encoding/base64"
	"fmt"

	"github.com/arloliu/cbc/bitbuffer"
	"github.com/arloliu/cbc/errs"
	"github.com/arloliu/cbc/lenprefix"
)

// DataField holds a raw byte buffer, either fixed-width (zero-padded/
// truncated, no length prefix) or variable-width (length-prefixed,
// truncated to size bytes), per spec.md §4.4 "data". At the API surface a
// value may be supplied either as []byte or as a base64-encoded string; the
// core always operates on raw bytes.
type DataField struct {
	base
	size  int
	fixed bool
}

// NewData constructs a DataField. size bounds the byte count.
func NewData(name, description string, optional bool, size int, fixed bool) (*DataField, error) {
	if name == "" {
		return nil, errs.ErrEmptyName
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: data field %q size must be >= 1", errs.ErrInvalidSize, name)
	}

	return &DataField{base: base{name: name, description: description, optional: optional}, size: size, fixed: fixed}, nil
}

func (f *DataField) Kind() Kind  { return KindData }
func (f *DataField) Size() int   { return f.size }
func (f *DataField) Fixed() bool { return f.fixed }

func (f *DataField) Encode(value any, buf []byte, bitOffset int) ([]byte, int, error) {
	data, err := coerceBytes(value)
	if err != nil {
		return buf, bitOffset, fmt.Errorf("data field %q: %w", f.name, err)
	}

	if len(data) > f.size {
		data = data[:f.size]
	}

	if f.fixed {
		padded := make([]byte, f.size)
		copy(padded, data)

		return bitbuffer.AppendBytes(buf, bitOffset, padded)
	}

	buf, bitOffset, err = lenprefix.Encode(len(data), buf, bitOffset)
	if err != nil {
		return buf, bitOffset, err
	}

	return bitbuffer.AppendBytes(buf, bitOffset, data)
}

func (f *DataField) Decode(buf []byte, bitOffset int) (any, int, error) {
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

	return raw, bitOffset + length*8, nil
}

// coerceBytes normalizes a caller-supplied value into raw bytes, accepting
// either []byte directly or a base64-encoded string (the outward API
// representation spec.md §4.4 "data" describes).
func coerceBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		decoded, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 string", errs.ErrWrongType)
		}

		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: expects []byte or base64 string, got %T", errs.ErrWrongType, value)
	}
}
