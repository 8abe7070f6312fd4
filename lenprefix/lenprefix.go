// Package lenprefix implements the self-describing length indicator that
// prefixes every variable-width CBC field: a 1-bit extension flag followed
// by either 7 or 15 bits of length, so small payloads cost a single byte of
// overhead and payloads up to 32767 bytes still fit in two.
package lenprefix

import (
	"fmt"

	"github.com/arloliu/cbc/bitbuffer"
	"github.com/arloliu/cbc/errs"
)

// MaxLength is the largest length representable by the 15-bit long form.
const MaxLength = 1<<15 - 1

// shortFormLimit is the exclusive upper bound for the 7-bit short form.
const shortFormLimit = 1 << 7

// Encode appends the length prefix for n (the payload's byte count) to
// buffer at bitOffset, choosing the 7-bit short form when n < 128 and the
// 15-bit long form otherwise. It returns the updated buffer and the bit
// offset following the prefix (bitOffset+8 or bitOffset+16).
func Encode(n int, buffer []byte, bitOffset int) ([]byte, int, error) {
	if n < 0 || n > MaxLength {
		return buffer, bitOffset, fmt.Errorf("%w: length %d exceeds maximum %d", errs.ErrInvalidSize, n, MaxLength)
	}

	if n < shortFormLimit {
		return bitbuffer.AppendUint(buffer, bitOffset, uint64(n), 8)
	}

	return bitbuffer.AppendUint(buffer, bitOffset, uint64(n)|(1<<15), 16)
}

// Decode reads a length prefix from buffer at bitOffset and returns the
// decoded length and the bit offset of the payload that follows it.
func Decode(buffer []byte, bitOffset int) (int, int, error) {
	flag, err := bitbuffer.ExtractUint(buffer, bitOffset, 1)
	if err != nil {
		return 0, bitOffset, fmt.Errorf("%w: reading length prefix flag: %v", errs.ErrMalformedLength, err)
	}

	if flag == 0 {
		v, err := bitbuffer.ExtractUint(buffer, bitOffset, 8)
		if err != nil {
			return 0, bitOffset, fmt.Errorf("%w: reading short length prefix: %v", errs.ErrMalformedLength, err)
		}

		return int(v), bitOffset + 8, nil
	}

	v, err := bitbuffer.ExtractUint(buffer, bitOffset, 16)
	if err != nil {
		return 0, bitOffset, fmt.Errorf("%w: reading long length prefix: %v", errs.ErrMalformedLength, err)
	}

	return int(v &^ (1 << 15)), bitOffset + 16, nil
}

// BitWidth returns the number of prefix bits Encode would use for a payload
// of n bytes: 8 for the short form, 16 for the long form.
func BitWidth(n int) int {
	if n < shortFormLimit {
		return 8
	}

	return 16
}
