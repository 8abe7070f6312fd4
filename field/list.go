package field

import (
	"fmt"

	"github.com/arloliu/cbc/bitbuffer"
	"github.com/arloliu/cbc/errs"
)

// List is an ordered, name-unique sequence of fields — the shape shared by a
// Message body, a struct field's inner fields, and an array/bitmaskarray
// field's row columns (spec.md §4.5).
type List []Field

// Validate checks the name invariants spec.md §3 requires of any field
// list: non-empty, unique names.
func (l List) Validate() error {
	seen := make(map[string]struct{}, len(l))
	for _, f := range l {
		if f.Name() == "" {
			return errs.ErrEmptyName
		}
		if _, ok := seen[f.Name()]; ok {
			return fmt.Errorf("%w: %q", errs.ErrDuplicateName, f.Name())
		}
		seen[f.Name()] = struct{}{}
	}

	return nil
}

// EncodeAll walks the list in order, emitting a presence bit ahead of every
// optional field and then, if present, the field's own encoding. value keys
// by field name.
func (l List) EncodeAll(value map[string]any, buf []byte, bitOffset int) ([]byte, int, error) {
	for _, f := range l {
		v, present := value[f.Name()]
		if f.Optional() {
			presence := uint64(0)
			if present {
				presence = 1
			}
			nb, no, err := bitbuffer.AppendUint(buf, bitOffset, presence, 1)
			if err != nil {
				return buf, bitOffset, err
			}
			buf, bitOffset = nb, no
			if !present {
				continue
			}
		} else if !present {
			return buf, bitOffset, fmt.Errorf("%w: %q", errs.ErrMissingField, f.Name())
		}

		nb, no, err := f.Encode(v, buf, bitOffset)
		if err != nil {
			return buf, bitOffset, fmt.Errorf("field %q: %w", f.Name(), err)
		}
		buf, bitOffset = nb, no
	}

	return buf, bitOffset, nil
}

// DecodeAll mirrors EncodeAll: it returns a mapping containing only the
// fields that were present on the wire.
func (l List) DecodeAll(buf []byte, bitOffset int) (map[string]any, int, error) {
	out := make(map[string]any, len(l))
	for _, f := range l {
		if f.Optional() {
			presence, err := bitbuffer.ExtractUint(buf, bitOffset, 1)
			if err != nil {
				return nil, bitOffset, err
			}
			bitOffset++
			if presence == 0 {
				continue
			}
		}

		v, no, err := f.Decode(buf, bitOffset)
		if err != nil {
			return nil, bitOffset, fmt.Errorf("field %q: %w", f.Name(), err)
		}
		bitOffset = no
		out[f.Name()] = v
	}

	return out, bitOffset, nil
}
