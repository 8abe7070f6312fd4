package field

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoolField_RoundTrip(t *testing.T) {
	f, err := NewBool("flag", "", false)
	require.NoError(t, err)

	buf, next, err := f.Encode(true, nil, 0)
	require.NoError(t, err)
	require.Equal(t, 1, next)

	v, next, err := f.Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, 1, next)
	require.Equal(t, true, v)
}

func TestUintField_RoundTrip(t *testing.T) {
	f, err := NewUint("level", "", false, 4, "", "")
	require.NoError(t, err)

	buf, next, err := f.Encode(9, nil, 0)
	require.NoError(t, err)
	require.Equal(t, 4, next)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(9), v)
}

func TestUintField_RejectsOutOfRange(t *testing.T) {
	f, err := NewUint("level", "", false, 4, "", "")
	require.NoError(t, err)

	_, _, err = f.Encode(16, nil, 0)
	require.Error(t, err)

	_, _, err = f.Encode(-1, nil, 0)
	require.Error(t, err)
}

func TestUintField_EncalcDecalc(t *testing.T) {
	// encalc scales a tenths-of-a-degree reading down to whole units on
	// encode; decalc scales back up on decode.
	f, err := NewUint("temp", "", false, 8, "v // 10", "v * 10")
	require.NoError(t, err)

	buf, _, err := f.Encode(235, nil, 0)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, 230.0, v)
}

func TestIntField_RoundTrip(t *testing.T) {
	f, err := NewInt("delta", "", false, 8, "", "")
	require.NoError(t, err)

	for _, in := range []int{-128, -1, 0, 127} {
		buf, _, err := f.Encode(in, nil, 0)
		require.NoError(t, err)
		v, _, err := f.Decode(buf, 0)
		require.NoError(t, err)
		require.Equal(t, int64(in), v)
	}
}

func TestIntField_RejectsOutOfRange(t *testing.T) {
	f, err := NewInt("delta", "", false, 8, "", "")
	require.NoError(t, err)

	_, _, err = f.Encode(128, nil, 0)
	require.Error(t, err)
	_, _, err = f.Encode(-129, nil, 0)
	require.Error(t, err)
}

func TestEnumField_RoundTrip(t *testing.T) {
	f, err := NewEnum("state", "", false, 2, map[int]string{0: "off", 1: "on", 2: "standby"})
	require.NoError(t, err)

	buf, _, err := f.Encode("standby", nil, 0)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "standby", v)
}

func TestEnumField_RejectsUnknown(t *testing.T) {
	f, err := NewEnum("state", "", false, 2, map[int]string{0: "off", 1: "on"})
	require.NoError(t, err)

	_, _, err = f.Encode("unknown", nil, 0)
	require.Error(t, err)
}

func TestEnumField_ConstructRejectsDuplicateValues(t *testing.T) {
	_, err := NewEnum("state", "", false, 2, map[int]string{0: "same", 1: "same"})
	require.Error(t, err)
}

func TestEnumField_ConstructRejectsOutOfRangeKey(t *testing.T) {
	_, err := NewEnum("state", "", false, 1, map[int]string{5: "nope"})
	require.Error(t, err)
}

func TestBitmaskField_RoundTripFromList(t *testing.T) {
	f, err := NewBitmask("alarms", "", false, 4, map[int]string{0: "low", 1: "high", 2: "fault", 3: "test"})
	require.NoError(t, err)

	buf, _, err := f.Encode([]string{"high", "low"}, nil, 0)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"low", "high"}, v) // ascending bit order
}

func TestBitmaskField_RoundTripFromInt(t *testing.T) {
	f, err := NewBitmask("alarms", "", false, 4, map[int]string{0: "low", 1: "high"})
	require.NoError(t, err)

	buf, _, err := f.Encode(3, nil, 0)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"low", "high"}, v)
}

func TestStringField_Fixed(t *testing.T) {
	f, err := NewString("id", "", false, 6, true)
	require.NoError(t, err)

	buf, next, err := f.Encode("ab", nil, 0)
	require.NoError(t, err)
	require.Equal(t, 48, next) // 6 bytes, no length prefix

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "ab    ", v)
}

func TestStringField_FixedTruncates(t *testing.T) {
	f, err := NewString("id", "", false, 3, true)
	require.NoError(t, err)

	buf, _, err := f.Encode("abcdef", nil, 0)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "abc", v)
}

func TestStringField_Variable(t *testing.T) {
	f, err := NewString("name", "", false, 20, false)
	require.NoError(t, err)

	buf, _, err := f.Encode("hello", nil, 0)
	require.NoError(t, err)

	v, next, err := f.Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "hello", v)
	require.Equal(t, 8+5*8, next)
}

func TestDataField_FixedZeroPads(t *testing.T) {
	f, err := NewData("payload", "", false, 4, true)
	require.NoError(t, err)

	buf, _, err := f.Encode([]byte{0xAA, 0xBB}, nil, 0)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0xBB, 0x00, 0x00}, v)
}

func TestDataField_AcceptsBase64(t *testing.T) {
	f, err := NewData("payload", "", false, 4, false)
	require.NoError(t, err)

	buf, _, err := f.Encode("qg==", nil, 0) // base64 of 0xAA
	require.NoError(t, err)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA}, v)
}

func TestFloatField_RoundTrip32(t *testing.T) {
	f, err := NewFloat("temp", "", false, 32, 0, false)
	require.NoError(t, err)

	buf, next, err := f.Encode(3.5, nil, 0)
	require.NoError(t, err)
	require.Equal(t, 32, next)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	require.InDelta(t, 3.5, v, 1e-6)
}

func TestFloatField_AppliesPrecisionOnDecodeOnly(t *testing.T) {
	f, err := NewFloat("temp", "", false, 64, 2, true)
	require.NoError(t, err)

	buf, _, err := f.Encode(3.14159, nil, 0)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, 3.14, v)
}

func TestStructField_RoundTrip(t *testing.T) {
	lat, err := NewInt("lat", "", false, 16, "", "")
	require.NoError(t, err)
	lon, err := NewInt("lon", "", false, 16, "", "")
	require.NoError(t, err)

	f, err := NewStruct("position", "", false, List{lat, lon})
	require.NoError(t, err)

	buf, _, err := f.Encode(map[string]any{"lat": 100, "lon": -100}, nil, 0)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	m := v.(map[string]any)
	require.Equal(t, int64(100), m["lat"])
	require.Equal(t, int64(-100), m["lon"])
}

func TestStructField_OptionalInnerFieldOmitted(t *testing.T) {
	required, err := NewUint("a", "", false, 4, "", "")
	require.NoError(t, err)
	optional, err := NewUint("b", "", true, 4, "", "")
	require.NoError(t, err)

	f, err := NewStruct("s", "", false, List{required, optional})
	require.NoError(t, err)

	buf, _, err := f.Encode(map[string]any{"a": 1}, nil, 0)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	m := v.(map[string]any)
	require.Contains(t, m, "a")
	require.NotContains(t, m, "b")
}

func TestArrayField_SingleColumnScalarRows(t *testing.T) {
	col, err := NewUint("reading", "", false, 8, "", "")
	require.NoError(t, err)
	f, err := NewArray("readings", "", false, 4, false, List{col})
	require.NoError(t, err)

	buf, _, err := f.Encode([]int{1, 2, 3}, nil, 0)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	rows := v.([]map[string]any)
	require.Len(t, rows, 3)
	require.Equal(t, uint64(1), rows[0]["reading"])
	require.Equal(t, uint64(3), rows[2]["reading"])
}

func TestArrayField_MultiColumnRows(t *testing.T) {
	x, _ := NewUint("x", "", false, 4, "", "")
	y, _ := NewUint("y", "", false, 4, "", "")
	f, err := NewArray("points", "", false, 4, false, List{x, y})
	require.NoError(t, err)

	rows := []any{
		map[string]any{"x": 1, "y": 2},
		map[string]any{"x": 3, "y": 4},
	}
	buf, _, err := f.Encode(rows, nil, 0)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	decoded := v.([]map[string]any)
	require.Len(t, decoded, 2)
	require.Equal(t, uint64(3), decoded[1]["x"])
}

func TestArrayField_FixedPadsShortSequences(t *testing.T) {
	col, err := NewUint("v", "", true, 4, "", "")
	require.NoError(t, err)
	f, err := NewArray("slots", "", false, 3, true, List{col})
	require.NoError(t, err)

	buf, next, err := f.Encode([]any{map[string]any{"v": 5}}, nil, 0)
	require.NoError(t, err)
	require.Equal(t, (1+4)+1+1, next) // row 0: presence bit + 4 value bits; padding rows: presence bit only

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	rows := v.([]map[string]any)
	require.Len(t, rows, 3)
	require.Equal(t, uint64(5), rows[0]["v"])
	require.NotContains(t, rows[1], "v")
}

func TestArrayField_RejectsTooManyRows(t *testing.T) {
	col, _ := NewUint("v", "", false, 4, "", "")
	f, err := NewArray("slots", "", false, 2, false, List{col})
	require.NoError(t, err)

	_, _, err = f.Encode([]int{1, 2, 3}, nil, 0)
	require.Error(t, err)
}

func TestBitmaskArrayField_RoundTrip(t *testing.T) {
	amount, err := NewUint("amount", "", false, 8, "", "")
	require.NoError(t, err)
	f, err := NewBitmaskArray("sensors", "", false, 3,
		map[int]string{0: "temp", 1: "humidity", 2: "pressure"}, List{amount})
	require.NoError(t, err)

	value := map[string]any{
		"temp":     []any{20},
		"pressure": []any{101},
	}
	buf, _, err := f.Encode(value, nil, 0)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, 0)
	require.NoError(t, err)
	decoded := v.(map[string]any)
	require.Contains(t, decoded, "temp")
	require.Contains(t, decoded, "pressure")
	require.NotContains(t, decoded, "humidity")

	tempRows := decoded["temp"].([]map[string]any)
	require.Equal(t, uint64(20), tempRows[0]["amount"])
}

func TestBitmaskArrayField_WireRowCountEqualsPopcount(t *testing.T) {
	amount, err := NewUint("amount", "", false, 8, "", "")
	require.NoError(t, err)
	f, err := NewBitmaskArray("sensors", "", false, 3,
		map[int]string{0: "a", 1: "b", 2: "c"}, List{amount})
	require.NoError(t, err)

	value := map[string]any{"a": []any{1}, "c": []any{2}}
	buf, next, err := f.Encode(value, nil, 0)
	require.NoError(t, err)
	// 3-bit mask + 2 rows of 8 bits each.
	require.Equal(t, 3+2*8, next)
	require.Len(t, buf, 3) // ceil((3+16)/8)
}

func TestBitmaskArrayField_RejectsMultiRowCategory(t *testing.T) {
	amount, _ := NewUint("amount", "", false, 8, "", "")
	f, err := NewBitmaskArray("sensors", "", false, 2, map[int]string{0: "a", 1: "b"}, List{amount})
	require.NoError(t, err)

	_, _, err = f.Encode(map[string]any{"a": []any{1, 2}}, nil, 0)
	require.Error(t, err)
}

func TestList_Validate(t *testing.T) {
	a, _ := NewBool("a", "", false)
	b, _ := NewBool("a", "", false)
	require.Error(t, List{a, b}.Validate())
}

func TestBuild_Struct(t *testing.T) {
	spec := Spec{
		Name: "position",
		Type: "struct",
		Fields: []Spec{
			{Name: "lat", Type: "int", Size: 16},
			{Name: "lon", Type: "int", Size: 16},
		},
	}
	f, err := Build(spec)
	require.NoError(t, err)
	require.Equal(t, KindStruct, f.Kind())
}

func TestBuild_UnknownType(t *testing.T) {
	_, err := Build(Spec{Name: "x", Type: "bogus"})
	require.Error(t, err)
}
