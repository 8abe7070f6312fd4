package field

import (
	"fmt"
	"reflect"

	"github.com/arloliu/cbc/errs"
	"github.com/arloliu/cbc/lenprefix"
)

// ArrayField is a bounded, optionally length-prefixed sequence of rows, each
// row a concatenation of the field's inner fields (spec.md §4.4 "array").
type ArrayField struct {
	base
	size   int
	fixed  bool
	fields List
}

// NewArray constructs an ArrayField. size bounds the row count.
func NewArray(name, description string, optional bool, size int, fixed bool, fields List) (*ArrayField, error) {
	if name == "" {
		return nil, errs.ErrEmptyName
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: array field %q size must be >= 1", errs.ErrInvalidSize, name)
	}
	if err := fields.Validate(); err != nil {
		return nil, fmt.Errorf("array field %q: %w", name, err)
	}

	return &ArrayField{base: base{name: name, description: description, optional: optional}, size: size, fixed: fixed, fields: fields}, nil
}

func (f *ArrayField) Kind() Kind    { return KindArray }
func (f *ArrayField) Size() int     { return f.size }
func (f *ArrayField) Fixed() bool   { return f.fixed }
func (f *ArrayField) Fields() List { return f.fields }

func (f *ArrayField) Encode(value any, buf []byte, bitOffset int) ([]byte, int, error) {
	rows, err := toSlice(value)
	if err != nil {
		return buf, bitOffset, fmt.Errorf("array field %q: %w", f.name, err)
	}
	if len(rows) > f.size {
		return buf, bitOffset, fmt.Errorf("%w: array field %q has %d rows, max %d", errs.ErrTooManyRows, f.name, len(rows), f.size)
	}

	if !f.fixed {
		buf, bitOffset, err = lenprefix.Encode(len(rows), buf, bitOffset)
		if err != nil {
			return buf, bitOffset, err
		}
	} else {
		for len(rows) < f.size {
			rows = append(rows, map[string]any{})
		}
	}

	for i, row := range rows {
		m, err := f.rowToMap(row)
		if err != nil {
			return buf, bitOffset, fmt.Errorf("array field %q row %d: %w", f.name, i, err)
		}
		buf, bitOffset, err = f.fields.EncodeAll(m, buf, bitOffset)
		if err != nil {
			return buf, bitOffset, fmt.Errorf("array field %q row %d: %w", f.name, i, err)
		}
	}

	return buf, bitOffset, nil
}

func (f *ArrayField) Decode(buf []byte, bitOffset int) (any, int, error) {
	count := f.size
	if !f.fixed {
		n, next, err := lenprefix.Decode(buf, bitOffset)
		if err != nil {
			return nil, bitOffset, err
		}
		count = n
		bitOffset = next
	}

	rows := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		row, next, err := f.fields.DecodeAll(buf, bitOffset)
		if err != nil {
			return nil, bitOffset, fmt.Errorf("array field %q row %d: %w", f.name, i, err)
		}
		bitOffset = next
		rows = append(rows, row)
	}

	return rows, bitOffset, nil
}

// rowToMap normalizes a single row value into the {field_name: value}
// mapping the inner field list's EncodeAll expects.
func (f *ArrayField) rowToMap(row any) (map[string]any, error) {
	return rowToMapFor(f.fields, row)
}

// rowToMapFor is the shared row-normalization helper for array and
// bitmaskarray fields. When fields has exactly one entry, a bare scalar is
// accepted directly (spec.md §4.4 "array" duck-typing), since there is no
// ambiguity about which column it belongs to.
func rowToMapFor(fields List, row any) (map[string]any, error) {
	if m, ok := row.(map[string]any); ok {
		return m, nil
	}
	if len(fields) == 1 {
		return map[string]any{fields[0].Name(): row}, nil
	}

	return nil, fmt.Errorf("%w: row must be a mapping for a multi-column row", errs.ErrNotAMapping)
}

// toSlice normalizes a caller-supplied array value — []map[string]any,
// []any, or a scalar-typed slice like []int for single-column arrays — into
// a []any of rows, using reflection since Go's static typing otherwise
// forces callers to box every row as interface{} themselves.
func toSlice(value any) ([]any, error) {
	if value == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: expected a sequence of rows, got %T", errs.ErrWrongType, value)
	}

	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}

	return out, nil
}
