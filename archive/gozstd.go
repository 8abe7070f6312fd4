package archive

import "github.com/valyala/gozstd"

// GozstdCodec wraps valyala/gozstd's cgo bindings to the reference zstd C
// library. Offered alongside ZstdCodec (pure Go) for gateways that can pay
// the cgo build cost in exchange for the reference implementation's
// compression ratio and speed.
type GozstdCodec struct{}

var _ Codec = GozstdCodec{}

func (GozstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (GozstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
