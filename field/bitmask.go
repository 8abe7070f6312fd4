package field

import (
	"fmt"
	"sort"

	"github.com/arloliu/cbc/bitbuffer"
	"github.com/arloliu/cbc/errs"
)

// BitmaskField encodes a fixed-width bitmask whose bit positions carry
// declared names (spec.md §4.4 "bitmask"). Encode accepts either an integer
// mask or a list of set value names; decode always returns the sorted list
// of set names.
type BitmaskField struct {
	base
	size    int
	byKey   map[int]string
	byValue map[string]int
}

// NewBitmask constructs a BitmaskField. enum maps bit position -> name.
func NewBitmask(name, description string, optional bool, size int, enum map[int]string) (*BitmaskField, error) {
	if name == "" {
		return nil, errs.ErrEmptyName
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: bitmask field %q size must be >= 1", errs.ErrInvalidSize, name)
	}
	byKey, byValue, err := buildEnumIndex(name, size, enum)
	if err != nil {
		return nil, err
	}

	return &BitmaskField{
		base:    base{name: name, description: description, optional: optional},
		size:    size,
		byKey:   byKey,
		byValue: byValue,
	}, nil
}

func (f *BitmaskField) Kind() Kind { return KindBitmask }
func (f *BitmaskField) Size() int  { return f.size }

func (f *BitmaskField) Encode(value any, buf []byte, bitOffset int) ([]byte, int, error) {
	var mask uint64

	switch v := value.(type) {
	case []string:
		for _, name := range v {
			key, ok := f.byValue[name]
			if !ok {
				return buf, bitOffset, fmt.Errorf("%w: bitmask field %q has no value %q", errs.ErrUnknownEnumName, f.name, name)
			}
			mask |= 1 << uint(key)
		}
	case []any:
		names := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return buf, bitOffset, fmt.Errorf("%w: bitmask field %q list entries must be strings, got %T", errs.ErrWrongType, f.name, item)
			}
			names[i] = s
		}

		return f.Encode(names, buf, bitOffset)
	default:
		iv, ok := toFloat64(value)
		if !ok {
			return buf, bitOffset, fmt.Errorf("%w: bitmask field %q expects an integer mask or []string, got %T", errs.ErrWrongType, f.name, value)
		}
		mask = uint64(iv)
		maxMask := uint64(1)<<uint(f.size) - 1
		if mask > maxMask {
			return buf, bitOffset, fmt.Errorf("%w: bitmask field %q mask %d exceeds %d bits", errs.ErrOutOfRange, f.name, mask, f.size)
		}
	}

	return bitbuffer.AppendUint(buf, bitOffset, mask, f.size)
}

func (f *BitmaskField) Decode(buf []byte, bitOffset int) (any, int, error) {
	mask, err := bitbuffer.ExtractUint(buf, bitOffset, f.size)
	if err != nil {
		return nil, bitOffset, err
	}

	names := make([]string, 0, len(f.byKey))
	for key, name := range f.byKey {
		if mask&(1<<uint(key)) != 0 {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return f.byValue[names[i]] < f.byValue[names[j]] })

	return names, bitOffset + f.size, nil
}
