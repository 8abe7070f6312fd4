package archive

import (
	"fmt"

	"github.com/arloliu/cbc/errs"
)

// Compressor compresses a batch payload before it is written to the wire.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses Compressor for a batch payload read off the wire.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. Every built-in compressor implements it.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[CompressionType]Codec{
	CompressionNone:   NoopCodec{},
	CompressionZstd:   ZstdCodec{},
	CompressionLZ4:    LZ4Codec{},
	CompressionGozstd: GozstdCodec{},
}

// CodecFor returns the built-in Codec for t.
func CodecFor(t CompressionType) (Codec, error) {
	c, ok := builtinCodecs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownCompression, t)
	}

	return c, nil
}
