package pagekv

import "fmt"

// Node is the materialized image of a tree page: a leaf or index data
// set bounded by a half-open [Lo, Hi) key range, with a right-sibling
// link the way a B-link tree carries one. Neither Node nor its PageId
// tracks ownership of the id: PageIds are assigned by the external page
// cache.
type Node struct {
	Id   PageId
	Data Data
	Next *PageId
	Lo   Bytes
	Hi   Bytes

	// MergingChild is set on an index parent between InitialParentNodeMerge
	// and FinalParentNodeMerge: the child page a cooperative merge is
	// currently in flight for. nil when no merge is in progress.
	MergingChild *PageId

	// Frozen is set by RightNodeMerge: this node is the right half of an
	// in-flight merge and must accept no further leaf/index mutation.
	Frozen bool
}

const nodeBaseOverhead = 48

// SizeInBytes estimates this node's footprint for split-threshold
// comparisons. See Data.SizeInBytes for why this isn't byte-exact.
func (n *Node) SizeInBytes() uint64 {
	return nodeBaseOverhead + uint64(len(n.Lo)) + uint64(len(n.Hi)) + n.Data.SizeInBytes()
}

// Clone returns a deep, independent copy of n.
func (n *Node) Clone() *Node {
	out := &Node{
		Id:     n.Id,
		Next:   clonePageIdPtr(n.Next),
		Lo:     n.Lo.Clone(),
		Hi:     n.Hi.Clone(),
		Frozen: n.Frozen,
	}
	out.MergingChild = clonePageIdPtr(n.MergingChild)
	out.Data.Kind = n.Data.Kind
	if n.Data.Kind == DataLeaf {
		out.Data.Leaf = append([]LeafRecord(nil), n.Data.Leaf...)
		for i := range out.Data.Leaf {
			out.Data.Leaf[i].Key = out.Data.Leaf[i].Key.Clone()
		}
	} else {
		out.Data.Index = append([]IndexRecord(nil), n.Data.Index...)
		for i := range out.Data.Index {
			out.Data.Index[i].Sep = out.Data.Index[i].Sep.Clone()
		}
	}
	return out
}

func clonePageIdPtr(p *PageId) *PageId {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (n *Node) requireLeafRange(key Bytes) {
	if n.Hi.IsEmpty() || prefixCmpEncoded(key, n.Hi, n.Lo) < 0 {
		return
	}
	panic(ErrConsolidationKeyOutOfRange)
}

// Apply folds a single non-Base frag into n. Applying a frag that
// belongs to a Versions chain instead (panics with ErrWrongPageKind),
// or a second Base mid-chain, or a leaf/index mutation on a Frozen node,
// is a logic error and panics with a LogicError.
func (n *Node) Apply(frag Frag) {
	if n.Frozen {
		switch frag.(type) {
		case InsertVersionFrag, RemoveVersionFrag, ParentSplitFrag:
			panicLogic("pagekv: %T applied to a node frozen by RightNodeMerge", frag)
		}
	}
	switch f := frag.(type) {
	case InsertVersionFrag:
		n.requireLeafRange(f.Key)
		n.Data.setLeaf(f.Key, f.VersionChainPid)
	case RemoveVersionFrag:
		n.requireLeafRange(f.Key)
		n.Data.delLeaf(f.Key)
	case ChildSplitFrag:
		n.childSplit(f.ChildSplit)
	case ParentSplitFrag:
		n.parentSplit(f.ParentSplit)
	case InitialParentNodeMergeFrag:
		n.initialParentNodeMerge(f.ChildPid)
	case RightNodeMergeFrag:
		n.Frozen = true
	case LeftNodeMergeFrag:
		n.leftNodeMerge(f.LeftMerge)
	case FinalParentNodeMergeFrag:
		n.finalParentNodeMerge(f.ChildPid)
	case BaseFrag:
		panicLogic("pagekv: encountered base page in middle of chain: %+v", f)
	case VersionsFrag, VersionCommitFrag, VersionPendingSetFrag, VersionPendingMergeFrag,
		VersionPendingDelFrag, VersionSetFrag, VersionMergeFrag, VersionDelFrag:
		panic(ErrWrongPageKind)
	default:
		panicLogic("pagekv: encountered unexpected frag in middle of node's chain: %T", frag)
	}
}

func (n *Node) childSplit(cs ChildSplit) {
	if n.Data.Kind == DataIndex {
		idx := 0
		for idx < len(n.Data.Index) && prefixCmp(decodeKey(n.Lo, n.Data.Index[idx].Sep), cs.At) < 0 {
			idx++
		}
		n.Data.Index = n.Data.Index[:idx]
	} else {
		n.Data.dropGte(cs.At)
	}
	n.Hi = cs.At.Clone()
	to := cs.To
	n.Next = &to
}

func (n *Node) parentSplit(ps ParentSplit) {
	if n.Data.Kind != DataIndex {
		panicLogic("pagekv: tried to attach a ParentSplit to a Leaf chain")
	}
	n.Data.insertIndex(n.Lo, encodeKey(n.Lo, ps.At), ps.To)
}

func (n *Node) initialParentNodeMerge(child PageId) {
	if n.MergingChild != nil {
		panicLogic("pagekv: InitialParentNodeMerge received while a merge is already in progress for child %d", *n.MergingChild)
	}
	c := child
	n.MergingChild = &c
}

func (n *Node) leftNodeMerge(lm LeftMerge) {
	switch n.Data.Kind {
	case DataLeaf:
		for _, item := range lm.MergedItems {
			n.Data.setLeaf(item.Key, item.Pid)
		}
	case DataIndex:
		for _, item := range lm.MergedItems {
			n.Data.insertIndex(n.Lo, encodeKey(n.Lo, item.Key), item.Pid)
		}
	}
	n.Hi = lm.NewHi.Clone()
	n.Next = clonePageIdPtr(lm.NewNext)
}

func (n *Node) finalParentNodeMerge(child PageId) {
	if n.MergingChild == nil || *n.MergingChild != child {
		panicLogic("pagekv: FinalParentNodeMerge(%d) received without a matching InitialParentNodeMerge", child)
	}
	n.Data.removeIndexChild(child)
	n.MergingChild = nil
}

// ShouldSplit reports whether n has grown past maxBytes and holds enough
// records for a split to make sense (more than two, so a split always
// leaves both halves non-trivial).
func (n *Node) ShouldSplit(maxBytes uint64) bool {
	return n.Data.Len() > 2 && n.SizeInBytes() > maxBytes
}

// Split carves n at its median record and returns the new right
// sibling, assigned newId. n itself is not mutated; the caller applies
// a ChildSplitFrag{At: right.Lo, To: newId} to n to complete the left
// half of the split.
func (n *Node) Split(newId PageId) *Node {
	sep, rightData := n.Data.split(n.Lo)
	return &Node{
		Id:   newId,
		Data: rightData,
		Next: clonePageIdPtr(n.Next),
		Lo:   sep,
		Hi:   n.Hi.Clone(),
	}
}

// MaterializeNode folds a Base frag plus an ordered chain of subsequent
// frags into a consistent Node image.
func MaterializeNode(base Frag, chain []Frag) (*Node, error) {
	bf, ok := base.(BaseFrag)
	if !ok {
		return nil, fmt.Errorf("pagekv: MaterializeNode: base frag must be Base, got %T", base)
	}
	if bf.Node == nil {
		return nil, fmt.Errorf("pagekv: MaterializeNode: Base frag carries a nil Node")
	}
	n := bf.Node.Clone()
	for _, f := range chain {
		n.Apply(f)
	}
	return n, nil
}
