package field

import (
	"fmt"
	"math"

	"github.com/arloliu/cbc/bitbuffer"
	"github.com/arloliu/cbc/errs"
)

// FloatField is an IEEE-754 big-endian float, 32 or 64 bits wide. precision,
// if set, is applied only to the user-facing decoded value (round-half-to-
// even); the wire encoding is always exact (spec.md §4.4 "float").
type FloatField struct {
	base
	size      int
	precision int
	hasPrec   bool
}

// NewFloat constructs a FloatField. size must be 32 or 64.
func NewFloat(name, description string, optional bool, size int, precision int, hasPrecision bool) (*FloatField, error) {
	if name == "" {
		return nil, errs.ErrEmptyName
	}
	if size != 32 && size != 64 {
		return nil, fmt.Errorf("%w: float field %q size must be 32 or 64", errs.ErrInvalidSize, name)
	}

	return &FloatField{
		base:      base{name: name, description: description, optional: optional},
		size:      size,
		precision: precision,
		hasPrec:   hasPrecision,
	}, nil
}

func (f *FloatField) Kind() Kind { return KindFloat }
func (f *FloatField) Size() int  { return f.size }

func (f *FloatField) Encode(value any, buf []byte, bitOffset int) ([]byte, int, error) {
	x, ok := toFloat64(value)
	if !ok {
		return buf, bitOffset, fmt.Errorf("%w: float field %q expects a numeric value, got %T", errs.ErrWrongType, f.name, value)
	}

	var raw uint64
	if f.size == 32 {
		raw = uint64(math.Float32bits(float32(x)))
	} else {
		raw = math.Float64bits(x)
	}

	return bitbuffer.AppendUint(buf, bitOffset, raw, f.size)
}

func (f *FloatField) Decode(buf []byte, bitOffset int) (any, int, error) {
	raw, err := bitbuffer.ExtractUint(buf, bitOffset, f.size)
	if err != nil {
		return nil, bitOffset, err
	}

	var x float64
	if f.size == 32 {
		x = float64(math.Float32frombits(uint32(raw)))
	} else {
		x = math.Float64frombits(raw)
	}

	if f.hasPrec {
		x = roundHalfToEvenPrecision(x, f.precision)
	}

	return x, bitOffset + f.size, nil
}

// roundHalfToEvenPrecision rounds x to n decimal places using round-half-
// to-even, matching calc.roundNode's semantics for the same operation.
func roundHalfToEvenPrecision(x float64, n int) float64 {
	scale := math.Pow(10, float64(n))
	scaled := x * scale
	floor := math.Floor(scaled)
	diff := scaled - floor

	var rounded float64
	switch {
	case diff < 0.5:
		rounded = floor
	case diff > 0.5:
		rounded = floor + 1
	default:
		if math.Mod(floor, 2) == 0 {
			rounded = floor
		} else {
			rounded = floor + 1
		}
	}

	return rounded / scale
}
