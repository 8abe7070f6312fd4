package field

import (
	"fmt"

	"github.com/arloliu/cbc/bitbuffer"
	"github.com/arloliu/cbc/errs"
)

// BoolField is a single-bit flag: 1 means true (spec.md §4.4 "bool").
type BoolField struct {
	base
}

// NewBool constructs a BoolField. name must be non-empty.
func NewBool(name, description string, optional bool) (*BoolField, error) {
	if name == "" {
		return nil, errs.ErrEmptyName
	}

	return &BoolField{base: base{name: name, description: description, optional: optional}}, nil
}

func (f *BoolField) Kind() Kind { return KindBool }

func (f *BoolField) Encode(value any, buf []byte, bitOffset int) ([]byte, int, error) {
	b, ok := value.(bool)
	if !ok {
		return buf, bitOffset, fmt.Errorf("%w: field %q expects bool, got %T", errs.ErrWrongType, f.name, value)
	}
	bit := uint64(0)
	if b {
		bit = 1
	}

	return bitbuffer.AppendUint(buf, bitOffset, bit, 1)
}

func (f *BoolField) Decode(buf []byte, bitOffset int) (any, int, error) {
	v, err := bitbuffer.ExtractUint(buf, bitOffset, 1)
	if err != nil {
		return nil, bitOffset, err
	}

	return v == 1, bitOffset + 1, nil
}
