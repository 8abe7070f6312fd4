package archive

// NoopCodec bypasses compression, for batches whose payload is already
// dense (e.g. pre-compressed sensor data) or for debugging batch framing
// without the compressor in the loop.
type NoopCodec struct{}

var _ Codec = NoopCodec{}

func (NoopCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (NoopCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
