// Package archive implements the store-and-forward batch container: a
// gateway accumulates framed CBC messages while a narrowband link is down
// and relays them as a single compressed, checksummed blob once it comes
// back up. This is new ground beyond spec.md; it does not touch any of the
// core codec's invariants or Non-goals.
package archive
