package field

import (
	"fmt"
	"math"

	"github.com/arloliu/cbc/bitbuffer"
	"github.com/arloliu/cbc/calc"
	"github.com/arloliu/cbc/errs"
)

// UintField is a fixed-width unsigned integer, optionally pre/post-processed
// by an encalc/decalc arithmetic transform (spec.md §4.4 "uint").
type UintField struct {
	base
	size      int
	encalc    calc.Expr
	decalc    calc.Expr
	hasEncalc bool
	hasDecalc bool
}

// NewUint constructs a UintField. size is the wire width in bits (>=1);
// encalcExpr/decalcExpr may be empty for the identity transform.
func NewUint(name, description string, optional bool, size int, encalcExpr, decalcExpr string) (*UintField, error) {
	if name == "" {
		return nil, errs.ErrEmptyName
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: uint field %q size must be >= 1", errs.ErrInvalidSize, name)
	}
	enc, err := calc.Parse(encalcExpr)
	if err != nil {
		return nil, err
	}
	dec, err := calc.Parse(decalcExpr)
	if err != nil {
		return nil, err
	}

	return &UintField{
		base:      base{name: name, description: description, optional: optional},
		size:      size,
		encalc:    enc,
		decalc:    dec,
		hasEncalc: encalcExpr != "",
		hasDecalc: decalcExpr != "",
	}, nil
}

func (f *UintField) Kind() Kind { return KindUint }
func (f *UintField) Size() int  { return f.size }

func (f *UintField) maxValue() uint64 {
	if f.size == 64 {
		return math.MaxUint64
	}

	return 1<<uint(f.size) - 1
}

func (f *UintField) Encode(value any, buf []byte, bitOffset int) ([]byte, int, error) {
	x, ok := toFloat64(value)
	if !ok {
		return buf, bitOffset, fmt.Errorf("%w: field %q expects a numeric value, got %T", errs.ErrWrongType, f.name, value)
	}

	if f.hasEncalc {
		var err error
		x, err = f.encalc.Eval(x)
		if err != nil {
			return buf, bitOffset, fmt.Errorf("field %q: encalc: %w", f.name, err)
		}
	}

	if x != math.Trunc(x) {
		return buf, bitOffset, fmt.Errorf("%w: field %q value %v is not integral", errs.ErrOutOfRange, f.name, x)
	}
	iv := truncateToInt(x)
	if iv < 0 || uint64(iv) > f.maxValue() {
		return buf, bitOffset, fmt.Errorf("%w: field %q value %d out of 0..%d", errs.ErrOutOfRange, f.name, iv, f.maxValue())
	}

	return bitbuffer.AppendUint(buf, bitOffset, uint64(iv), f.size)
}

func (f *UintField) Decode(buf []byte, bitOffset int) (any, int, error) {
	raw, err := bitbuffer.ExtractUint(buf, bitOffset, f.size)
	if err != nil {
		return nil, bitOffset, err
	}
	next := bitOffset + f.size

	if !f.hasDecalc {
		return raw, next, nil
	}

	v, err := f.decalc.Eval(float64(raw))
	if err != nil {
		return nil, bitOffset, fmt.Errorf("field %q: decalc: %w", f.name, err)
	}

	return v, next, nil
}
