package archive

import (
	"fmt"

	"github.com/arloliu/cbc/bitbuffer"
	"github.com/arloliu/cbc/errs"
	"github.com/arloliu/cbc/internal/hash"
	"github.com/arloliu/cbc/internal/pool"
	"github.com/arloliu/cbc/lenprefix"
)

// Writer accumulates framed CBC messages (the bytes framer.Encode produces)
// and emits them as a single compressed, checksummed batch once the caller
// is ready to relay it. It is NOT safe for concurrent use — one goroutine
// owns a Writer across its Add/Flush lifetime.
type Writer struct {
	codec  Codec
	kind   CompressionType
	frames [][]byte
}

// NewWriter constructs a Writer using the built-in codec for kind.
func NewWriter(kind CompressionType) (*Writer, error) {
	codec, err := CodecFor(kind)
	if err != nil {
		return nil, err
	}

	return &Writer{codec: codec, kind: kind}, nil
}

// Add appends one encoded message to the pending batch.
func (w *Writer) Add(frame []byte) {
	w.frames = append(w.frames, frame)
}

// Len reports how many frames are pending.
func (w *Writer) Len() int {
	return len(w.frames)
}

// Flush concatenates every pending frame behind its lenprefix length,
// compresses the result, and prefixes it with a {compressionType byte,
// xxHash64 checksum of the compressed payload, uncompressed size} header.
// The Writer is reset for reuse after Flush returns.
func (w *Writer) Flush() ([]byte, error) {
	var body []byte
	bitOffset := 0
	for _, f := range w.frames {
		var err error
		body, bitOffset, err = lenprefix.Encode(len(f), body, bitOffset)
		if err != nil {
			return nil, err
		}
		body, bitOffset, err = bitbuffer.AppendBytes(body, bitOffset, f)
		if err != nil {
			return nil, err
		}
	}

	compressed, err := w.codec.Compress(body)
	if err != nil {
		return nil, fmt.Errorf("archive: compress: %w", err)
	}

	checksum := hash.Bytes(compressed)

	bb := pool.GetBatchBuffer()
	defer pool.PutBatchBuffer(bb)
	bb.Grow(1 + 8 + 4 + len(compressed))
	bb.MustWrite([]byte{byte(w.kind)})
	bb.MustWrite(appendUint64(nil, checksum))
	bb.MustWrite(appendUint32(nil, uint32(len(body))))
	bb.MustWrite(compressed)

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	w.frames = nil

	return out, nil
}

func appendUint64(b []byte, v uint64) []byte {
	return append(b, byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func appendUint32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func readUint64(b []byte) uint64 {
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
}

func readUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// Read decompresses and verifies a batch produced by Flush, returning the
// individual message frames in their original order.
func Read(batch []byte) ([][]byte, error) {
	const headerLen = 1 + 8 + 4
	if len(batch) < headerLen {
		return nil, fmt.Errorf("%w: archive header truncated", errs.ErrBufferTooShort)
	}

	kind := CompressionType(batch[0])
	wantChecksum := readUint64(batch[1:9])
	uncompressedSize := readUint32(batch[9:13])
	compressed := batch[headerLen:]

	if got := hash.Bytes(compressed); got != wantChecksum {
		return nil, fmt.Errorf("%w: want %x got %x", errs.ErrChecksumMismatch, wantChecksum, got)
	}

	codec, err := CodecFor(kind)
	if err != nil {
		return nil, err
	}

	body, err := codec.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("archive: decompress: %w", err)
	}
	if uint32(len(body)) != uncompressedSize {
		return nil, fmt.Errorf("%w: uncompressed size mismatch: want %d got %d", errs.ErrChecksumMismatch, uncompressedSize, len(body))
	}

	var frames [][]byte
	bitOffset := 0
	for bitOffset < len(body)*8 {
		n, next, err := lenprefix.Decode(body, bitOffset)
		if err != nil {
			return nil, err
		}
		frame, err := bitbuffer.ExtractBytes(body, next, n)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
		bitOffset = next + n*8
	}

	return frames, nil
}
