package field

import "math"

// toFloat64 normalizes any Go numeric kind a caller might reasonably pass
// for a uint/int/float field into a float64, the common currency calc
// expressions operate on. Returns false for anything else.
func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// truncateToInt converts x to int64, truncating toward zero. The uint and
// int Encode paths reject a non-integral value (after encalc) before calling
// it, so in practice it only converts whole numbers.
func truncateToInt(x float64) int64 {
	return int64(math.Trunc(x))
}
