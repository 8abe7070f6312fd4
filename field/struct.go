package field

import (
	"fmt"

	"github.com/arloliu/cbc/errs"
)

// StructField concatenates its inner fields in declaration order (spec.md
// §4.4 "struct"). Encode takes a mapping {field_name: value}; decode
// returns one with an entry per present field.
type StructField struct {
	base
	fields List
}

// NewStruct constructs a StructField. fields must have unique, non-empty
// names.
func NewStruct(name, description string, optional bool, fields List) (*StructField, error) {
	if name == "" {
		return nil, errs.ErrEmptyName
	}
	if err := fields.Validate(); err != nil {
		return nil, fmt.Errorf("struct field %q: %w", name, err)
	}

	return &StructField{base: base{name: name, description: description, optional: optional}, fields: fields}, nil
}

func (f *StructField) Kind() Kind    { return KindStruct }
func (f *StructField) Fields() List { return f.fields }

func (f *StructField) Encode(value any, buf []byte, bitOffset int) ([]byte, int, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return buf, bitOffset, fmt.Errorf("%w: struct field %q", errs.ErrNotAMapping, f.name)
	}

	return f.fields.EncodeAll(m, buf, bitOffset)
}

func (f *StructField) Decode(buf []byte, bitOffset int) (any, int, error) {
	return f.fields.DecodeAll(buf, bitOffset)
}
