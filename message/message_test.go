package message

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cbc/field"
)

func testFields(t *testing.T) field.List {
	t.Helper()
	a, err := field.NewUint("a", "", false, 8, "", "")
	require.NoError(t, err)

	return field.List{a}
}

func TestNew_RejectsInvalidDirection(t *testing.T) {
	_, err := New("m", Direction("SIDEWAYS"), 1, testFields(t), DefaultOptions())
	require.Error(t, err)
}

func TestNew_RejectsOutOfRangeKey(t *testing.T) {
	_, err := New("m", Uplink, 70000, testFields(t), DefaultOptions())
	require.Error(t, err)
}

func TestNew_RejectsEmptyName(t *testing.T) {
	_, err := New("", Uplink, 1, testFields(t), DefaultOptions())
	require.Error(t, err)
}

func TestMessage_EncodeDecodeRoundTrip(t *testing.T) {
	m, err := New("ping", Uplink, 100, testFields(t), DefaultOptions())
	require.NoError(t, err)

	buf, _, err := m.Encode(map[string]any{"a": 42}, nil, 0)
	require.NoError(t, err)

	v, _, err := m.Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(42), v["a"])
}

func TestMessage_ToJSON(t *testing.T) {
	m, err := New("ping", Uplink, 100, testFields(t), DefaultOptions())
	require.NoError(t, err)

	j := m.ToJSON()
	require.Equal(t, "ping", j["name"])
	require.Equal(t, "UPLINK", j["direction"])
	require.Equal(t, 100, j["messageKey"])
	require.NotContains(t, j, "vsatReserved")
}

func TestDirection_Valid(t *testing.T) {
	require.True(t, Uplink.Valid())
	require.True(t, Downlink.Valid())
	require.False(t, Direction("X").Valid())
}
