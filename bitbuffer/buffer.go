package bitbuffer

import (
	"fmt"

	"github.com/arloliu/cbc/errs"
)

// Buffer is a growable byte sequence addressed by bit offset. The zero value
// is an empty buffer ready to use. A Buffer is not safe for concurrent use;
// each encode call owns its own Buffer.
type Buffer struct {
	b []byte
}

// New returns an empty Buffer with cap bytes of pre-allocated capacity.
func New(cap int) *Buffer {
	return &Buffer{b: make([]byte, 0, cap)}
}

// FromBytes wraps an existing byte slice for decoding. The slice is not
// copied; callers must not mutate it while the Buffer is in use.
func FromBytes(b []byte) *Buffer {
	return &Buffer{b: b}
}

// Bytes returns the underlying byte slice.
func (buf *Buffer) Bytes() []byte {
	return buf.b
}

// Len returns the number of bits currently addressable in the buffer.
func (buf *Buffer) Len() int {
	return len(buf.b) * 8
}

// ExtractUint reads bitLength bits (1..64) starting at bitOffset as an
// unsigned big-endian integer.
func (buf *Buffer) ExtractUint(bitOffset, bitLength int) (uint64, error) {
	return ExtractUint(buf.b, bitOffset, bitLength)
}

// ExtractInt reads bitLength bits (1..64) starting at bitOffset as a
// two's-complement, sign-extended integer.
func (buf *Buffer) ExtractInt(bitOffset, bitLength int) (int64, error) {
	return ExtractInt(buf.b, bitOffset, bitLength)
}

// ExtractBytes reads byteLength whole bytes starting at bitOffset,
// supporting bit-misaligned starting offsets.
func (buf *Buffer) ExtractBytes(bitOffset, byteLength int) ([]byte, error) {
	return ExtractBytes(buf.b, bitOffset, byteLength)
}

// AppendUint appends bitLength bits (1..64) of value, MSB first, growing the
// buffer as needed, and returns the new bit cursor.
func (buf *Buffer) AppendUint(bitOffset int, value uint64, bitLength int) (int, error) {
	b, next, err := AppendUint(buf.b, bitOffset, value, bitLength)
	if err != nil {
		return bitOffset, err
	}
	buf.b = b

	return next, nil
}

// AppendBytes appends data at bitOffset, splitting each byte across the
// destination boundary when bitOffset is not byte-aligned, and returns the
// new bit cursor.
func (buf *Buffer) AppendBytes(bitOffset int, data []byte) (int, error) {
	b, next, err := AppendBytes(buf.b, bitOffset, data)
	if err != nil {
		return bitOffset, err
	}
	buf.b = b

	return next, nil
}

// ExtractUint is the package-level form of (*Buffer).ExtractUint, operating
// directly on a byte slice. It is the primitive every field codec's decode
// path calls.
func ExtractUint(buffer []byte, bitOffset, bitLength int) (uint64, error) {
	if bitLength < 1 || bitLength > 64 {
		return 0, fmt.Errorf("%w: bit length %d out of range 1..64", errs.ErrInvalidSize, bitLength)
	}
	if bitOffset < 0 || bitLength < 0 || bitOffset+bitLength > len(buffer)*8 {
		return 0, fmt.Errorf("%w: offset %d length %d exceeds buffer of %d bits", errs.ErrBufferTooShort, bitOffset, bitLength, len(buffer)*8)
	}
	if bitOffset%8+bitLength > 64 {
		// The field spans nine bytes, more than one uint64 can hold: read
		// the leading bits and the final byte separately.
		hi, err := ExtractUint(buffer, bitOffset, bitLength-8)
		if err != nil {
			return 0, err
		}
		lo, err := ExtractUint(buffer, bitOffset+bitLength-8, 8)
		if err != nil {
			return 0, err
		}

		return hi<<8 | lo, nil
	}

	startByte := bitOffset / 8
	endByte := (bitOffset+bitLength-1)/8 + 1
	bitStartInByte := bitOffset % 8

	var raw uint64
	for _, b := range buffer[startByte:endByte] {
		raw = raw<<8 | uint64(b)
	}
	totalBits := (endByte - startByte) * 8
	shift := totalBits - bitStartInByte - bitLength
	mask := uint64(1)<<uint(bitLength) - 1
	if bitLength == 64 {
		mask = ^uint64(0)
	}

	return (raw >> uint(shift)) & mask, nil
}

// ExtractInt reads a two's-complement signed integer, sign-extending from
// the high bit of the field.
func ExtractInt(buffer []byte, bitOffset, bitLength int) (int64, error) {
	u, err := ExtractUint(buffer, bitOffset, bitLength)
	if err != nil {
		return 0, err
	}
	signBit := uint64(1) << uint(bitLength-1)
	if u&signBit != 0 {
		return int64(u) - int64(signBit<<1), nil
	}

	return int64(u), nil
}

// ExtractBytes reads byteLength whole bytes starting at bitOffset. The
// starting offset need not be byte-aligned; source bytes are reassembled
// from the straddling buffer bytes the same way AppendBytes wrote them.
func ExtractBytes(buffer []byte, bitOffset, byteLength int) ([]byte, error) {
	if byteLength < 0 {
		return nil, fmt.Errorf("%w: negative byte length", errs.ErrInvalidSize)
	}
	if bitOffset < 0 || bitOffset+byteLength*8 > len(buffer)*8 {
		return nil, fmt.Errorf("%w: offset %d length %d bytes exceeds buffer of %d bytes", errs.ErrBufferTooShort, bitOffset, byteLength, len(buffer))
	}
	if byteLength == 0 {
		return []byte{}, nil
	}
	if bitOffset%8 == 0 {
		start := bitOffset / 8
		out := make([]byte, byteLength)
		copy(out, buffer[start:start+byteLength])

		return out, nil
	}

	out := make([]byte, byteLength)
	for i := 0; i < byteLength; i++ {
		v, err := ExtractUint(buffer, bitOffset+i*8, 8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}

	return out, nil
}

// AppendUint writes bitLength bits of value, MSB first, into buffer starting
// at bitOffset, growing buffer as needed. It returns the (possibly
// reallocated) buffer and the bit offset immediately following the written
// field. Bit positions beyond the write cursor within the final byte are
// left zero.
func AppendUint(buffer []byte, bitOffset int, value uint64, bitLength int) ([]byte, int, error) {
	if bitLength < 1 || bitLength > 64 {
		return buffer, bitOffset, fmt.Errorf("%w: bit length %d out of range 1..64", errs.ErrInvalidSize, bitLength)
	}
	if bitOffset < 0 {
		return buffer, bitOffset, fmt.Errorf("%w: negative bit offset", errs.ErrInvalidSize)
	}

	buffer = growForBits(buffer, bitOffset, bitLength)

	byteOffset := bitOffset / 8
	bitInByte := bitOffset % 8
	for i := bitLength - 1; i >= 0; i-- {
		bit := (value >> uint(i)) & 1
		if bit == 1 {
			buffer[byteOffset] |= 1 << uint(7-bitInByte)
		} else {
			buffer[byteOffset] &^= 1 << uint(7-bitInByte)
		}
		bitInByte++
		if bitInByte == 8 {
			bitInByte = 0
			byteOffset++
		}
	}

	return buffer, bitOffset + bitLength, nil
}

// AppendBytes writes data into buffer starting at bitOffset, splitting each
// source byte across the destination byte boundary when bitOffset is not
// byte-aligned. It returns the (possibly reallocated) buffer and the bit
// offset following the written data.
func AppendBytes(buffer []byte, bitOffset int, data []byte) ([]byte, int, error) {
	if bitOffset < 0 {
		return buffer, bitOffset, fmt.Errorf("%w: negative bit offset", errs.ErrInvalidSize)
	}

	buffer = growForBits(buffer, bitOffset, len(data)*8)

	byteOffset := bitOffset / 8
	bitInByte := bitOffset % 8
	if bitInByte == 0 {
		copy(buffer[byteOffset:], data)

		return buffer, bitOffset + len(data)*8, nil
	}

	bitsInCurrent := 8 - bitInByte
	for _, b := range data {
		buffer[byteOffset] |= b >> uint(bitInByte)
		buffer[byteOffset+1] |= b << uint(bitsInCurrent) & 0xFF
		byteOffset++
	}

	return buffer, bitOffset + len(data)*8, nil
}

// growForBits ensures buffer has enough bytes to hold bitOffset+bitLength
// bits, zero-extending as needed so untouched bits read back as zero.
func growForBits(buffer []byte, bitOffset, bitLength int) []byte {
	required := (bitOffset + bitLength + 7) / 8
	if required <= len(buffer) {
		return buffer
	}

	grown := make([]byte, required)
	copy(grown, buffer)

	return grown
}
