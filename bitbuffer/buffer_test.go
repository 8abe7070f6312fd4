package bitbuffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendUint_ByteAligned(t *testing.T) {
	t.Run("4 bits at offset 0 produces one nibble", func(t *testing.T) {
		buf, next, err := AppendUint(nil, 0, 3, 4)
		require.NoError(t, err)
		require.Equal(t, 4, next)
		require.Equal(t, []byte{0x30}, buf)
	})

	t.Run("16 bits big endian", func(t *testing.T) {
		buf, next, err := AppendUint(nil, 0, 0xC000, 16)
		require.NoError(t, err)
		require.Equal(t, 16, next)
		require.Equal(t, []byte{0xC0, 0x00}, buf)
	})
}

func TestAppendUint_Misaligned(t *testing.T) {
	t.Run("field starting mid-byte", func(t *testing.T) {
		buf, next, err := AppendUint(nil, 4, 0xF, 4)
		require.NoError(t, err)
		require.Equal(t, 8, next)
		require.Equal(t, []byte{0x0F}, buf)
	})

	t.Run("trailing bits past write cursor stay zero", func(t *testing.T) {
		buf, next, err := AppendUint(nil, 0, 1, 1)
		require.NoError(t, err)
		require.Equal(t, 1, next)
		require.Equal(t, []byte{0x80}, buf)
	})
}

func TestExtractUint(t *testing.T) {
	buf := []byte{0xC0, 0x00, 0x30}

	t.Run("round trips trivial uint scenario", func(t *testing.T) {
		v, err := ExtractUint(buf, 16, 4)
		require.NoError(t, err)
		require.Equal(t, uint64(3), v)
	})

	t.Run("at various bit offsets", func(t *testing.T) {
		for _, off := range []int{0, 1, 7} {
			b, _, err := AppendUint(nil, off, 0x5A, 8)
			require.NoError(t, err)
			v, err := ExtractUint(b, off, 8)
			require.NoError(t, err)
			require.Equal(t, uint64(0x5A), v)
		}
	})

	t.Run("fails when length exceeds buffer", func(t *testing.T) {
		_, err := ExtractUint(buf, 20, 9)
		require.Error(t, err)
	})
}

func TestExtractInt_SignExtends(t *testing.T) {
	t.Run("negative two's complement value", func(t *testing.T) {
		b, _, err := AppendUint(nil, 0, 0b1000, 4) // -8 in 4-bit two's complement
		require.NoError(t, err)
		v, err := ExtractInt(b, 0, 4)
		require.NoError(t, err)
		require.Equal(t, int64(-8), v)
	})

	t.Run("positive value within range", func(t *testing.T) {
		b, _, err := AppendUint(nil, 0, 0b0111, 4)
		require.NoError(t, err)
		v, err := ExtractInt(b, 0, 4)
		require.NoError(t, err)
		require.Equal(t, int64(7), v)
	})
}

func TestAppendBytes_Misaligned(t *testing.T) {
	t.Run("splits each source byte across the boundary", func(t *testing.T) {
		buf, next, err := AppendUint(nil, 0, 0b1111, 4)
		require.NoError(t, err)
		buf, next, err = AppendBytes(buf, next, []byte{0xAB})
		require.NoError(t, err)
		require.Equal(t, 12, next)

		v, err := ExtractUint(buf, 4, 8)
		require.NoError(t, err)
		require.Equal(t, uint64(0xAB), v)
	})
}

func TestExtractBytes(t *testing.T) {
	t.Run("byte aligned", func(t *testing.T) {
		buf := []byte{0x01, 0x02, 0x03}
		out, err := ExtractBytes(buf, 8, 2)
		require.NoError(t, err)
		require.Equal(t, []byte{0x02, 0x03}, out)
	})

	t.Run("misaligned", func(t *testing.T) {
		buf, _, err := AppendUint(nil, 0, 0b1010, 4)
		require.NoError(t, err)
		buf, _, err = AppendBytes(buf, 4, []byte{0x11, 0x22})
		require.NoError(t, err)
		out, err := ExtractBytes(buf, 4, 2)
		require.NoError(t, err)
		require.Equal(t, []byte{0x11, 0x22}, out)
	})

	t.Run("fails when too short", func(t *testing.T) {
		_, err := ExtractBytes([]byte{0x00}, 0, 4)
		require.Error(t, err)
	})
}

func TestBuffer_GrowsAndZeroPadsTail(t *testing.T) {
	b := New(0)
	next, err := b.AppendUint(0, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, next)
	require.Equal(t, byte(0x80), b.Bytes()[0])
}
