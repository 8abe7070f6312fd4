// Package field implements the eleven-kind tagged union of wire field codecs
// (spec.md §3, §4.4): bool, uint, int, enum, bitmask, string, data, float,
// struct, array, and bitmaskarray. Each kind's Encode/Decode methods are the
// leaves the message and framer packages drive; a field never allocates a
// BitBuffer of its own, it only appends to and reads from the caller's.
package field
