package archive

// CompressionType names the payload compressor a batch was written with.
// Stored as the first byte of every batch so Read can pick the matching
// Decompressor without the caller specifying one.
type CompressionType uint8

const (
	CompressionNone   CompressionType = 0x1
	CompressionZstd   CompressionType = 0x2
	CompressionLZ4    CompressionType = 0x3
	CompressionGozstd CompressionType = 0x4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	case CompressionGozstd:
		return "Gozstd"
	default:
		return "Unknown"
	}
}
