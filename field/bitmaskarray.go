package field

import (
	"fmt"
	"sort"

	"github.com/arloliu/cbc/bitbuffer"
	"github.com/arloliu/cbc/errs"
)

// BitmaskArrayField combines a bitmask with an array: the mask names which
// enum categories are populated, and one row follows per set bit, in
// ascending bit order, with no per-category length prefix (spec.md §4.4
// "bitmaskarray"; §3 invariant: rows on the wire == popcount(mask)). The
// source this was ported from additionally let a category's row list carry
// more than one entry while only ever encoding/decoding the first — that
// silent truncation is not reproduced here: each populated category must
// carry exactly one row, or Encode rejects it.
type BitmaskArrayField struct {
	base
	size    int
	byKey   map[int]string
	byValue map[string]int
	fields  List
}

// NewBitmaskArray constructs a BitmaskArrayField. enum maps bit position ->
// category name; fields are the row's inner columns.
func NewBitmaskArray(name, description string, optional bool, size int, enum map[int]string, fields List) (*BitmaskArrayField, error) {
	if name == "" {
		return nil, errs.ErrEmptyName
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: bitmaskarray field %q size must be >= 1", errs.ErrInvalidSize, name)
	}
	byKey, byValue, err := buildEnumIndex(name, size, enum)
	if err != nil {
		return nil, err
	}
	if err := fields.Validate(); err != nil {
		return nil, fmt.Errorf("bitmaskarray field %q: %w", name, err)
	}

	return &BitmaskArrayField{
		base:    base{name: name, description: description, optional: optional},
		size:    size,
		byKey:   byKey,
		byValue: byValue,
		fields:  fields,
	}, nil
}

func (f *BitmaskArrayField) Kind() Kind   { return KindBitmaskArray }
func (f *BitmaskArrayField) Size() int    { return f.size }
func (f *BitmaskArrayField) Fields() List { return f.fields }

func (f *BitmaskArrayField) Encode(value any, buf []byte, bitOffset int) ([]byte, int, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return buf, bitOffset, fmt.Errorf("%w: bitmaskarray field %q", errs.ErrNotAMapping, f.name)
	}

	type populated struct {
		key int
		row any
	}
	entries := make([]populated, 0, len(m))
	var mask uint64
	for name, rowsVal := range m {
		key, ok := f.byValue[name]
		if !ok {
			return buf, bitOffset, fmt.Errorf("%w: bitmaskarray field %q has no category %q", errs.ErrUnknownEnumName, f.name, name)
		}
		rows, err := toSlice(rowsVal)
		if err != nil {
			return buf, bitOffset, fmt.Errorf("bitmaskarray field %q category %q: %w", f.name, name, err)
		}
		if len(rows) != 1 {
			return buf, bitOffset, fmt.Errorf("%w: bitmaskarray field %q category %q must carry exactly one row", errs.ErrTooManyRows, f.name, name)
		}
		mask |= 1 << uint(key)
		entries = append(entries, populated{key: key, row: rows[0]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	buf, bitOffset, err := bitbuffer.AppendUint(buf, bitOffset, mask, f.size)
	if err != nil {
		return buf, bitOffset, err
	}

	for _, e := range entries {
		rowMap, err := rowToMapFor(f.fields, e.row)
		if err != nil {
			return buf, bitOffset, fmt.Errorf("bitmaskarray field %q: %w", f.name, err)
		}
		buf, bitOffset, err = f.fields.EncodeAll(rowMap, buf, bitOffset)
		if err != nil {
			return buf, bitOffset, fmt.Errorf("bitmaskarray field %q: %w", f.name, err)
		}
	}

	return buf, bitOffset, nil
}

func (f *BitmaskArrayField) Decode(buf []byte, bitOffset int) (any, int, error) {
	mask, err := bitbuffer.ExtractUint(buf, bitOffset, f.size)
	if err != nil {
		return nil, bitOffset, err
	}
	bitOffset += f.size

	out := make(map[string]any, len(f.byKey))
	for key := 0; key < f.size; key++ {
		if mask&(1<<uint(key)) == 0 {
			continue
		}
		name, ok := f.byKey[key]
		if !ok {
			return nil, bitOffset, fmt.Errorf("%w: bitmaskarray field %q bit %d has no declared category", errs.ErrUnknownOrdinal, f.name, key)
		}
		row, next, err := f.fields.DecodeAll(buf, bitOffset)
		if err != nil {
			return nil, bitOffset, fmt.Errorf("bitmaskarray field %q category %q: %w", f.name, name, err)
		}
		bitOffset = next
		out[name] = []map[string]any{row}
	}

	return out, bitOffset, nil
}
