package pagestore

import (
	"path/filepath"
	"testing"

	"github.com/lirlia/pagekv"
	"github.com/stretchr/testify/require"
)

func openTestBoltStore(t *testing.T) *BoltStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pagekv.db")
	s, err := OpenBoltStore(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// TestBoltStoreRoundTrip: against the durable backend, a frag chain
// linked onto a page survives a gob encode/decode round trip through
// bbolt unchanged.
func TestBoltStoreRoundTrip(t *testing.T) {
	s := openTestBoltStore(t)
	guard := s.Pin()

	pid, err := s.AllocatePage(pagekv.BaseFrag{Node: &pagekv.Node{
		Data: pagekv.Data{Kind: pagekv.DataLeaf},
		Lo:   pagekv.Bytes("a"),
		Hi:   pagekv.Bytes("z"),
	}})
	require.NoError(t, err)

	require.NoError(t, s.Link(pid, pagekv.InsertVersionFrag{Key: pagekv.Bytes("b"), VersionChainPid: 7}, guard))
	require.NoError(t, s.Link(pid, pagekv.InsertVersionFrag{Key: pagekv.Bytes("c"), VersionChainPid: 8}, guard))

	base, chain, err := s.Get(pid, guard)
	require.NoError(t, err)
	require.Len(t, chain, 2)

	node, err := pagekv.MaterializeNode(base, chain)
	require.NoError(t, err)
	require.Len(t, node.Data.Leaf, 2)
	require.Equal(t, pagekv.PageId(7), node.Data.Leaf[0].VersionChainPid)
	require.Equal(t, pagekv.PageId(8), node.Data.Leaf[1].VersionChainPid)
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagekv.db")
	s, err := OpenBoltStore(path, nil)
	require.NoError(t, err)

	pid, err := s.AllocatePage(pagekv.VersionsFrag{Versions: pagekv.NewVersions()})
	require.NoError(t, err)
	require.NoError(t, s.Link(pid, pagekv.VersionSetFrag{Ts: 1, Val: pagekv.Bytes("x")}, s.Pin()))
	require.NoError(t, s.Close())

	reopened, err := OpenBoltStore(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	base, chain, err := reopened.Get(pid, reopened.Pin())
	require.NoError(t, err)
	versions, err := pagekv.MaterializeVersions(base, chain)
	require.NoError(t, err)
	require.Equal(t, pagekv.Timestamp(1), versions.HighestVisibleTimestamp())

	// The page-id counter must also have survived the reopen.
	pid2, err := reopened.AllocatePage(pagekv.VersionsFrag{Versions: pagekv.NewVersions()})
	require.NoError(t, err)
	require.NotEqual(t, pid, pid2)
}

func TestBoltStoreGetUnknownPage(t *testing.T) {
	s := openTestBoltStore(t)
	_, _, err := s.Get(pagekv.PageId(999), s.Pin())
	require.ErrorIs(t, err, ErrPageNotFound)
}

func TestBoltStoreReplaceRejectsEmptyChain(t *testing.T) {
	s := openTestBoltStore(t)
	pid, _ := s.AllocatePage(pagekv.VersionsFrag{Versions: pagekv.NewVersions()})
	err := s.Replace(pid, nil, s.Pin())
	require.Error(t, err)
}

func TestBoltStoreReplaceCompactsChain(t *testing.T) {
	s := openTestBoltStore(t)
	guard := s.Pin()
	pid, _ := s.AllocatePage(pagekv.VersionsFrag{Versions: pagekv.NewVersions()})
	require.NoError(t, s.Link(pid, pagekv.VersionSetFrag{Ts: 1, Val: pagekv.Bytes("a")}, guard))
	require.NoError(t, s.Link(pid, pagekv.VersionSetFrag{Ts: 2, Val: pagekv.Bytes("b")}, guard))

	base, chain, err := s.Get(pid, guard)
	require.NoError(t, err)
	versions, err := pagekv.MaterializeVersions(base, chain)
	require.NoError(t, err)

	require.NoError(t, s.Replace(pid, []pagekv.Frag{pagekv.VersionsFrag{Versions: versions}}, guard))

	_, chain2, err := s.Get(pid, guard)
	require.NoError(t, err)
	require.Empty(t, chain2)
}
