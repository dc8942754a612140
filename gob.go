package pagekv

import "encoding/gob"

// init registers every concrete Frag variant for gob encoding: a closed
// union encoded through a single interface value needs each concrete
// arm registered once, up front, rather than per call site.
func init() {
	gob.Register(MetaFrag{})
	gob.Register(CounterFrag{})
	gob.Register(BaseFrag{})
	gob.Register(ChildSplitFrag{})
	gob.Register(ParentSplitFrag{})
	gob.Register(InitialParentNodeMergeFrag{})
	gob.Register(RightNodeMergeFrag{})
	gob.Register(LeftNodeMergeFrag{})
	gob.Register(FinalParentNodeMergeFrag{})
	gob.Register(InsertVersionFrag{})
	gob.Register(RemoveVersionFrag{})
	gob.Register(VersionsFrag{})
	gob.Register(VersionCommitFrag{})
	gob.Register(VersionPendingSetFrag{})
	gob.Register(VersionPendingMergeFrag{})
	gob.Register(VersionPendingDelFrag{})
	gob.Register(VersionSetFrag{})
	gob.Register(VersionMergeFrag{})
	gob.Register(VersionDelFrag{})
}
