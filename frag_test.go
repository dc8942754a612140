package pagekv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFragOrdinalsStable locks the persisted discriminant for every
// variant. Renumbering any of these would silently break every
// previously written chain.
func TestFragOrdinalsStable(t *testing.T) {
	cases := []struct {
		frag Frag
		want FragOrdinal
	}{
		{MetaFrag{}, 0},
		{CounterFrag{}, 1},
		{BaseFrag{}, 2},
		{ChildSplitFrag{}, 3},
		{ParentSplitFrag{}, 4},
		{InitialParentNodeMergeFrag{}, 5},
		{RightNodeMergeFrag{}, 6},
		{LeftNodeMergeFrag{}, 7},
		{FinalParentNodeMergeFrag{}, 8},
		{InsertVersionFrag{}, 9},
		{RemoveVersionFrag{}, 10},
		{VersionsFrag{}, 11},
		{VersionPendingSetFrag{}, 12},
		{VersionPendingMergeFrag{}, 13},
		{VersionPendingDelFrag{}, 14},
		{VersionCommitFrag{}, 15},
		{VersionSetFrag{}, 16},
		{VersionMergeFrag{}, 17},
		{VersionDelFrag{}, 18},
	}
	seen := make(map[FragOrdinal]bool)
	for _, c := range cases {
		require.Equal(t, c.want, c.frag.Ordinal())
		require.False(t, seen[c.want], "duplicate ordinal %d", c.want)
		seen[c.want] = true
	}
}
