package field

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/cbc/errs"
)

// Spec is the schema-document shape of a single field declaration — the
// intermediate form the schema package's JSON/YAML decoders produce and
// Build turns into a concrete Field. It mirrors spec.md §3's attribute
// table directly; a Spec with Type == "" never reaches Build.
type Spec struct {
	Name         string         `json:"name" yaml:"name"`
	Type         string         `json:"type" yaml:"type"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	Optional     bool           `json:"optional,omitempty" yaml:"optional,omitempty"`
	Size         int            `json:"size,omitempty" yaml:"size,omitempty"`
	Fixed        bool           `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	Enum         map[int]string `json:"enum,omitempty" yaml:"enum,omitempty"`
	EncCalc      string         `json:"encalc,omitempty" yaml:"encalc,omitempty"`
	DecCalc      string         `json:"decalc,omitempty" yaml:"decalc,omitempty"`
	Precision    int            `json:"precision,omitempty" yaml:"precision,omitempty"`
	HasPrecision bool           `json:"-" yaml:"-"`
	Fields       []Spec         `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// UnmarshalJSON sets HasPrecision when the document explicitly includes a
// precision key, distinguishing "no precision" from "precision: 0".
func (s *Spec) UnmarshalJSON(data []byte) error {
	type alias Spec
	aux := struct {
		Precision *int `json:"precision,omitempty"`
		*alias
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Precision != nil {
		s.Precision = *aux.Precision
		s.HasPrecision = true
	}

	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON's precision-presence detection for
// YAML documents.
func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	type alias Spec
	aux := struct {
		Precision *int `yaml:"precision,omitempty"`
		*alias
	}{alias: (*alias)(s)}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	if aux.Precision != nil {
		s.Precision = *aux.Precision
		s.HasPrecision = true
	}

	return nil
}

// Build constructs the concrete Field a Spec describes, recursing into
// Fields for struct/array/bitmaskarray.
func Build(s Spec) (Field, error) {
	switch Kind(s.Type) {
	case KindBool:
		return NewBool(s.Name, s.Description, s.Optional)
	case KindUint:
		return NewUint(s.Name, s.Description, s.Optional, s.Size, s.EncCalc, s.DecCalc)
	case KindInt:
		return NewInt(s.Name, s.Description, s.Optional, s.Size, s.EncCalc, s.DecCalc)
	case KindEnum:
		return NewEnum(s.Name, s.Description, s.Optional, s.Size, s.Enum)
	case KindBitmask:
		return NewBitmask(s.Name, s.Description, s.Optional, s.Size, s.Enum)
	case KindString:
		return NewString(s.Name, s.Description, s.Optional, s.Size, s.Fixed)
	case KindData:
		return NewData(s.Name, s.Description, s.Optional, s.Size, s.Fixed)
	case KindFloat:
		return NewFloat(s.Name, s.Description, s.Optional, s.Size, s.Precision, s.HasPrecision)
	case KindStruct:
		inner, err := BuildList(s.Fields)
		if err != nil {
			return nil, fmt.Errorf("struct field %q: %w", s.Name, err)
		}

		return NewStruct(s.Name, s.Description, s.Optional, inner)
	case KindArray:
		inner, err := BuildList(s.Fields)
		if err != nil {
			return nil, fmt.Errorf("array field %q: %w", s.Name, err)
		}

		return NewArray(s.Name, s.Description, s.Optional, s.Size, s.Fixed, inner)
	case KindBitmaskArray:
		inner, err := BuildList(s.Fields)
		if err != nil {
			return nil, fmt.Errorf("bitmaskarray field %q: %w", s.Name, err)
		}

		return NewBitmaskArray(s.Name, s.Description, s.Optional, s.Size, s.Enum, inner)
	default:
		return nil, fmt.Errorf("%w: unknown field type %q for field %q", errs.ErrWrongType, s.Type, s.Name)
	}
}

// BuildList builds every Spec in order and validates the resulting List's
// name invariants.
func BuildList(specs []Spec) (List, error) {
	list := make(List, 0, len(specs))
	for _, s := range specs {
		f, err := Build(s)
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	if err := list.Validate(); err != nil {
		return nil, err
	}

	return list, nil
}
