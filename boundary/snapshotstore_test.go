// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package boundary

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zkforge/zmem/common"
)

func TestSnapshotStore_StoredSnapshotsCanBeRetrieved(t *testing.T) {
	require := require.New(t)
	store, err := OpenSnapshotStore(t.TempDir())
	require.NoError(err)
	defer store.Close()

	snapshot := testSnapshot()
	require.NoError(store.Put(snapshot))

	restored, err := store.Get(snapshot.Segment)
	require.NoError(err)
	require.Equal(snapshot.Root, restored.Root)
	require.Equal(snapshot.Image.Checksum(), restored.Image.Checksum())
}

func TestSnapshotStore_MissingSegmentIsAnError(t *testing.T) {
	require := require.New(t)
	store, err := OpenSnapshotStore(t.TempDir())
	require.NoError(err)
	defer store.Close()

	_, err = store.Get(42)
	require.ErrorContains(err, "failed to load snapshot of segment 42")
}

func TestSnapshotStore_SegmentsAreListedInAscendingOrder(t *testing.T) {
	require := require.New(t)
	store, err := OpenSnapshotStore(t.TempDir())
	require.NoError(err)
	defer store.Close()

	for _, segment := range []uint64{5, 1, 300, 2} {
		snapshot := testSnapshot()
		snapshot.Segment = segment
		require.NoError(store.Put(snapshot))
	}

	segments, err := store.Segments()
	require.NoError(err)
	require.Equal([]uint64{1, 2, 5, 300}, segments)
}

func TestSnapshotStore_PutReplacesExistingSnapshot(t *testing.T) {
	require := require.New(t)
	store, err := OpenSnapshotStore(t.TempDir())
	require.NoError(err)
	defer store.Close()

	snapshot := testSnapshot()
	require.NoError(store.Put(snapshot))

	snapshot.Root = common.Hash{9}
	require.NoError(store.Put(snapshot))

	restored, err := store.Get(snapshot.Segment)
	require.NoError(err)
	require.Equal(common.Hash{9}, restored.Root)

	segments, err := store.Segments()
	require.NoError(err)
	require.Len(segments, 1)
}

func TestSnapshotStore_PersistsAcrossReopen(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	store, err := OpenSnapshotStore(dir)
	require.NoError(err)
	require.NoError(store.Put(testSnapshot()))
	require.NoError(store.Close())

	store, err = OpenSnapshotStore(dir)
	require.NoError(err)
	defer store.Close()

	restored, err := store.Get(7)
	require.NoError(err)
	require.Equal(testSnapshot().Root, restored.Root)
}
