package pagekv

import (
	"bytes"
	"encoding/binary"
)

// PageId identifies a page in the external page cache. The pagestore
// implementations number pages from 1, so zero never names an allocated
// page; this package itself marks an absent page with a nil *PageId.
type PageId uint64

// Timestamp is the logical clock used to order version-chain writes.
type Timestamp uint64

// Bytes is an immutable-by-convention byte vector. Callers must treat a
// Bytes value as read-only once handed to a Frag or stored in a Node or
// Versions; Clone gives an independent copy when a caller needs to keep
// mutating a buffer it is about to also hand off.
type Bytes []byte

// Clone returns an independent copy of b.
func (b Bytes) Clone() Bytes {
	if b == nil {
		return nil
	}
	out := make(Bytes, len(b))
	copy(out, b)
	return out
}

// Equal reports whether b and other hold byte-identical content.
func (b Bytes) Equal(other Bytes) bool {
	return bytes.Equal(b, other)
}

// IsEmpty reports whether b is the zero-length "unbounded" sentinel used
// for a Node's hi bound.
func (b Bytes) IsEmpty() bool {
	return len(b) == 0
}

func commonPrefixLen(a, b Bytes) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// prefixCmp compares two raw (not prefix-encoded) keys directly. It is
// the comparator used to order leaf record keys and decoded index
// separators, none of which are prefix-elided when compared; the hi
// range check goes through prefixCmpEncoded instead.
func prefixCmp(a, b Bytes) int {
	return bytes.Compare(a, b)
}

// prefixCmpEncoded compares a raw key k against a node's hi bound,
// relative to lo. hi and lo are themselves full, non-elided keys (a
// Node never prefix-encodes its own bounds) so this reduces to a plain
// comparison; lo is accepted to match the shape described in the spec
// and to leave room for a future fast path that skips the bytes every
// record in this node is already known to share with lo.
func prefixCmpEncoded(k, hi, lo Bytes) int {
	_ = lo
	return bytes.Compare(k, hi)
}

// encodeKey prefix-encodes key relative to lo for storage as an Index
// separator: the shared-prefix length between lo and key is recorded
// explicitly (as a big-endian uint16) ahead of the unshared suffix, so
// that encoded separators remain correctly comparable after decoding
// even when different separators share different amounts of their
// prefix with lo. A naive suffix-only elision (drop the shared bytes,
// keep only the tail, compare tails byte-wise) does not preserve
// lexicographic order across separators that share different prefix
// lengths with lo, so the shared length travels with the suffix rather
// than being inferred at compare time.
func encodeKey(lo, key Bytes) Bytes {
	n := commonPrefixLen(lo, key)
	if n > 0xFFFF {
		n = 0xFFFF
	}
	out := make(Bytes, 2+len(key)-n)
	binary.BigEndian.PutUint16(out[0:2], uint16(n))
	copy(out[2:], key[n:])
	return out
}

// decodeKey reverses encodeKey, restoring the original key given the
// same lo basis it was encoded against.
func decodeKey(lo, encoded Bytes) Bytes {
	if len(encoded) < 2 {
		return Bytes{}
	}
	n := int(binary.BigEndian.Uint16(encoded[0:2]))
	if n > len(lo) {
		n = len(lo)
	}
	out := make(Bytes, 0, n+len(encoded)-2)
	out = append(out, lo[:n]...)
	out = append(out, encoded[2:]...)
	return out
}

// cmpEncoded orders two Index separators that were both prefix-encoded
// against the same lo, by restoring the original keys first.
func cmpEncoded(lo Bytes, a, b Bytes) int {
	return bytes.Compare(decodeKey(lo, a), decodeKey(lo, b))
}
