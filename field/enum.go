package field

import (
	"fmt"

	"github.com/arloliu/cbc/bitbuffer"
	"github.com/arloliu/cbc/errs"
)

// EnumField encodes a declared set of named ordinals in a fixed bit width
// (spec.md §4.4 "enum").
type EnumField struct {
	base
	size    int
	byKey   map[int]string
	byValue map[string]int
}

// NewEnum constructs an EnumField. enum maps ordinal -> name; every key must
// be in 0..2^size-1 and every name must be unique (spec.md §3 invariants).
func NewEnum(name, description string, optional bool, size int, enum map[int]string) (*EnumField, error) {
	if name == "" {
		return nil, errs.ErrEmptyName
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: enum field %q size must be >= 1", errs.ErrInvalidSize, name)
	}
	byKey, byValue, err := buildEnumIndex(name, size, enum)
	if err != nil {
		return nil, err
	}

	return &EnumField{
		base:    base{name: name, description: description, optional: optional},
		size:    size,
		byKey:   byKey,
		byValue: byValue,
	}, nil
}

func buildEnumIndex(fieldName string, size int, enum map[int]string) (map[int]string, map[string]int, error) {
	maxKey := 1<<uint(size) - 1
	byKey := make(map[int]string, len(enum))
	byValue := make(map[string]int, len(enum))
	for k, v := range enum {
		if k < 0 || k > maxKey {
			return nil, nil, fmt.Errorf("%w: enum field %q key %d out of 0..%d", errs.ErrEnumKeyRange, fieldName, k, maxKey)
		}
		if _, dup := byValue[v]; dup {
			return nil, nil, fmt.Errorf("%w: enum field %q value %q", errs.ErrDuplicateEnumValue, fieldName, v)
		}
		byKey[k] = v
		byValue[v] = k
	}

	return byKey, byValue, nil
}

func (f *EnumField) Kind() Kind { return KindEnum }
func (f *EnumField) Size() int  { return f.size }

func (f *EnumField) Encode(value any, buf []byte, bitOffset int) ([]byte, int, error) {
	s, ok := value.(string)
	if !ok {
		return buf, bitOffset, fmt.Errorf("%w: enum field %q expects string, got %T", errs.ErrWrongType, f.name, value)
	}
	key, ok := f.byValue[s]
	if !ok {
		return buf, bitOffset, fmt.Errorf("%w: enum field %q has no value %q", errs.ErrUnknownEnumName, f.name, s)
	}

	return bitbuffer.AppendUint(buf, bitOffset, uint64(key), f.size)
}

func (f *EnumField) Decode(buf []byte, bitOffset int) (any, int, error) {
	raw, err := bitbuffer.ExtractUint(buf, bitOffset, f.size)
	if err != nil {
		return nil, bitOffset, err
	}
	name, ok := f.byKey[int(raw)]
	if !ok {
		return nil, bitOffset, fmt.Errorf("%w: enum field %q ordinal %d", errs.ErrUnknownOrdinal, f.name, raw)
	}

	return name, bitOffset + f.size, nil
}
