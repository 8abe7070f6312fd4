package field

import (
	"fmt"
	"math"

	"github.com/arloliu/cbc/bitbuffer"
	"github.com/arloliu/cbc/calc"
	"github.com/arloliu/cbc/errs"
)

// IntField is a fixed-width two's-complement signed integer, optionally
// pre/post-processed by an encalc/decalc arithmetic transform (spec.md
// §4.4 "int").
type IntField struct {
	base
	size      int
	encalc    calc.Expr
	decalc    calc.Expr
	hasEncalc bool
	hasDecalc bool
}

// NewInt constructs an IntField. size is the wire width in bits (>=1).
func NewInt(name, description string, optional bool, size int, encalcExpr, decalcExpr string) (*IntField, error) {
	if name == "" {
		return nil, errs.ErrEmptyName
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: int field %q size must be >= 1", errs.ErrInvalidSize, name)
	}
	enc, err := calc.Parse(encalcExpr)
	if err != nil {
		return nil, err
	}
	dec, err := calc.Parse(decalcExpr)
	if err != nil {
		return nil, err
	}

	return &IntField{
		base:      base{name: name, description: description, optional: optional},
		size:      size,
		encalc:    enc,
		decalc:    dec,
		hasEncalc: encalcExpr != "",
		hasDecalc: decalcExpr != "",
	}, nil
}

func (f *IntField) Kind() Kind { return KindInt }
func (f *IntField) Size() int  { return f.size }

func (f *IntField) bounds() (min, max int64) {
	max = 1<<uint(f.size-1) - 1
	min = -(1 << uint(f.size-1))

	return min, max
}

func (f *IntField) Encode(value any, buf []byte, bitOffset int) ([]byte, int, error) {
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
	min, max := f.bounds()
	if iv < min || iv > max {
		return buf, bitOffset, fmt.Errorf("%w: field %q value %d out of %d..%d", errs.ErrOutOfRange, f.name, iv, min, max)
	}

	// Two's complement: mask to size bits so AppendUint's bit-by-bit write
	// reproduces the sign bit correctly.
	mask := uint64(1)<<uint(f.size) - 1

	return bitbuffer.AppendUint(buf, bitOffset, uint64(iv)&mask, f.size)
}

func (f *IntField) Decode(buf []byte, bitOffset int) (any, int, error) {
	raw, err := bitbuffer.ExtractInt(buf, bitOffset, f.size)
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
