package archive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterRead_RoundTrip_Noop(t *testing.T) {
	w, err := NewWriter(CompressionNone)
	require.NoError(t, err)

	w.Add([]byte("hello"))
	w.Add([]byte{1, 2, 3})
	require.Equal(t, 2, w.Len())

	batch, err := w.Flush()
	require.NoError(t, err)
	require.Equal(t, 0, w.Len())

	frames, err := Read(batch)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("hello"), {1, 2, 3}}, frames)
}

func TestWriterRead_RoundTrip_Zstd(t *testing.T) {
	w, err := NewWriter(CompressionZstd)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		w.Add([]byte("repeated payload frame content"))
	}

	batch, err := w.Flush()
	require.NoError(t, err)

	frames, err := Read(batch)
	require.NoError(t, err)
	require.Len(t, frames, 10)
	for _, f := range frames {
		require.Equal(t, "repeated payload frame content", string(f))
	}
}

func TestWriterRead_RoundTrip_LZ4(t *testing.T) {
	w, err := NewWriter(CompressionLZ4)
	require.NoError(t, err)
	w.Add([]byte("some frame data to compress with lz4"))

	batch, err := w.Flush()
	require.NoError(t, err)

	frames, err := Read(batch)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("some frame data to compress with lz4")}, frames)
}

func TestRead_RejectsChecksumMismatch(t *testing.T) {
	w, err := NewWriter(CompressionNone)
	require.NoError(t, err)
	w.Add([]byte("data"))
	batch, err := w.Flush()
	require.NoError(t, err)

	batch[len(batch)-1] ^= 0xFF // corrupt the payload

	_, err = Read(batch)
	require.Error(t, err)
}

func TestRead_RejectsTruncatedHeader(t *testing.T) {
	_, err := Read([]byte{0x01, 0x02})
	require.Error(t, err)
}

func TestCodecFor_UnknownType(t *testing.T) {
	_, err := CodecFor(CompressionType(0xFF))
	require.Error(t, err)
}
