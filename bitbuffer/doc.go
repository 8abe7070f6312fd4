// Package bitbuffer implements the bit-addressed read/write primitives that
// back every CBC field codec.
//
// A Buffer is a mutable byte sequence with a conceptual bit-append cursor
// (Append) and a random-access bit-extract operation (Extract). Bits are
// numbered MSB-first within each byte, matching network byte order
// conventions. All growth happens in whole bytes; any unused trailing bits
// of the last byte written are always zero.
package bitbuffer
