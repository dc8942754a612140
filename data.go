package pagekv

import "sort"

// DataKind distinguishes a Node's payload shape.
type DataKind uint8

const (
	DataLeaf DataKind = iota
	DataIndex
)

// LeafRecord maps a raw key to the PageId of its version chain.
type LeafRecord struct {
	Key             Bytes
	VersionChainPid PageId
}

// IndexRecord maps a prefix-encoded separator (relative to the owning
// node's Lo) to the child page that covers it.
type IndexRecord struct {
	Sep   Bytes
	Child PageId
}

// Data is the payload half of a Node: either an ordered leaf record set
// or an ordered index pointer set, never both.
type Data struct {
	Kind  DataKind
	Leaf  []LeafRecord
	Index []IndexRecord
}

// Len returns the number of records/pointers held, regardless of kind.
func (d *Data) Len() int {
	if d.Kind == DataLeaf {
		return len(d.Leaf)
	}
	return len(d.Index)
}

// SizeInBytes estimates the payload's footprint. This does not attempt
// exact struct-layout fidelity (Go offers no sizeof() over dynamically
// sized slices the way the source this models does); it sums content
// byte lengths plus a fixed per-record overhead, which is what
// ShouldSplit actually needs: a monotonically size-like signal.
func (d *Data) SizeInBytes() uint64 {
	const recordOverhead = 16
	var total uint64
	if d.Kind == DataLeaf {
		for _, r := range d.Leaf {
			total += uint64(len(r.Key)) + recordOverhead
		}
	} else {
		for _, r := range d.Index {
			total += uint64(len(r.Sep)) + recordOverhead
		}
	}
	return total
}

func (d *Data) leafSearch(key Bytes) (int, bool) {
	recs := d.Leaf
	i := sort.Search(len(recs), func(i int) bool {
		return prefixCmp(recs[i].Key, key) >= 0
	})
	if i < len(recs) && recs[i].Key.Equal(key) {
		return i, true
	}
	return i, false
}

// setLeaf inserts or replaces the version-chain pointer for key.
func (d *Data) setLeaf(key Bytes, pid PageId) {
	if d.Kind != DataLeaf {
		panicLogic("pagekv: tried to set a leaf record on an Index node")
	}
	idx, found := d.leafSearch(key)
	if found {
		d.Leaf[idx].VersionChainPid = pid
		return
	}
	d.Leaf = append(d.Leaf, LeafRecord{})
	copy(d.Leaf[idx+1:], d.Leaf[idx:])
	d.Leaf[idx] = LeafRecord{Key: key, VersionChainPid: pid}
}

// delLeaf removes key's record if present; absent is a no-op.
func (d *Data) delLeaf(key Bytes) {
	if d.Kind != DataLeaf {
		panicLogic("pagekv: tried to remove a leaf record from an Index node")
	}
	idx, found := d.leafSearch(key)
	if !found {
		return
	}
	d.Leaf = append(d.Leaf[:idx], d.Leaf[idx+1:]...)
}

// insertIndex inserts (or replaces, on an exact separator collision) an
// index pointer, keeping Index sorted by decoded separator.
func (d *Data) insertIndex(lo Bytes, encodedSep Bytes, child PageId) {
	if d.Kind != DataIndex {
		panicLogic("pagekv: tried to attach a ParentSplit to a Leaf node")
	}
	recs := d.Index
	i := sort.Search(len(recs), func(i int) bool {
		return cmpEncoded(lo, recs[i].Sep, encodedSep) >= 0
	})
	if i < len(recs) && cmpEncoded(lo, recs[i].Sep, encodedSep) == 0 {
		recs[i].Child = child
		return
	}
	d.Index = append(d.Index, IndexRecord{})
	copy(d.Index[i+1:], d.Index[i:])
	d.Index[i] = IndexRecord{Sep: encodedSep, Child: child}
}

// removeIndexChild deletes the pointer to child, if present.
func (d *Data) removeIndexChild(child PageId) {
	if d.Kind != DataIndex {
		panicLogic("pagekv: tried to remove an index pointer from a Leaf node")
	}
	for i, r := range d.Index {
		if r.Child == child {
			d.Index = append(d.Index[:i], d.Index[i+1:]...)
			return
		}
	}
}

// dropGte removes every leaf record whose key is >= at. Used by
// child_split to carve the left half of a split node.
func (d *Data) dropGte(at Bytes) {
	if d.Kind != DataLeaf {
		panicLogic("pagekv: tried to drop-gte on an Index node")
	}
	idx, _ := d.leafSearch(at)
	d.Leaf = d.Leaf[:idx]
}

// split carves d at its median record, returning the decoded separator
// key for the right half and the right half's Data (for Index, its
// separators re-encoded relative to that separator as the new lo).
func (d *Data) split(lo Bytes) (Bytes, Data) {
	n := d.Len()
	median := n / 2
	switch d.Kind {
	case DataLeaf:
		sep := d.Leaf[median].Key.Clone()
		right := make([]LeafRecord, len(d.Leaf)-median)
		copy(right, d.Leaf[median:])
		return sep, Data{Kind: DataLeaf, Leaf: right}
	default:
		sep := decodeKey(lo, d.Index[median].Sep)
		right := make([]IndexRecord, len(d.Index)-median)
		for i, r := range d.Index[median:] {
			right[i] = IndexRecord{Sep: encodeKey(sep, decodeKey(lo, r.Sep)), Child: r.Child}
		}
		return sep, Data{Kind: DataIndex, Index: right}
	}
}
