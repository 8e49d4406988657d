// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zkforge/zmem/common"
	"go.uber.org/mock/gomock"
)

// referenceRoot computes the root the slow way, folding the full leaf
// level bottom up.
func referenceRoot(hasher Hasher, leafCells int, leafCount uint64, leaves map[uint64][]common.Cell) common.Hash {
	level := make([]common.Hash, leafCount)
	for i := range level {
		data := leaves[uint64(i)]
		if data == nil {
			data = make([]common.Cell, leafCells)
		}
		level[i] = hasher.HashLeaf(data)
	}
	for len(level) > 1 {
		next := make([]common.Hash, len(level)/2)
		for i := range next {
			next[i] = hasher.HashNode(level[2*i], level[2*i+1])
		}
		level = next
	}
	return level[0]
}

func TestNewTree_LeafCountIsRoundedUpToPowerOfTwo(t *testing.T) {
	require := require.New(t)
	hasher, err := NewHasher("keccak")
	require.NoError(err)

	require.Equal(uint64(1), NewTree(hasher, 2, 1).LeafCount())
	require.Equal(uint64(4), NewTree(hasher, 2, 3).LeafCount())
	require.Equal(uint64(1024), NewTree(hasher, 2, 1000).LeafCount())
}

func TestTree_EmptyTreeRootMatchesReference(t *testing.T) {
	require := require.New(t)
	hasher, err := NewHasher("keccak")
	require.NoError(err)

	tree := NewTree(hasher, 2, 8)
	require.Equal(referenceRoot(hasher, 2, 8, nil), tree.Root())
}

func TestTree_LeavesCanBeSetAndRetrieved(t *testing.T) {
	require := require.New(t)
	hasher, err := NewHasher("keccak")
	require.NoError(err)

	tree := NewTree(hasher, 2, 4)
	require.Nil(tree.GetLeaf(0))

	tree.SetLeaf(0, []common.Cell{1, 2})
	require.Equal([]common.Cell{1, 2}, tree.GetLeaf(0))
	require.Nil(tree.GetLeaf(1))
}

func TestTree_SetLeafDoesNotAliasCallerSlice(t *testing.T) {
	require := require.New(t)
	hasher, err := NewHasher("keccak")
	require.NoError(err)

	tree := NewTree(hasher, 2, 4)
	data := []common.Cell{1, 2}
	tree.SetLeaf(0, data)
	data[0] = 99
	require.Equal([]common.Cell{1, 2}, tree.GetLeaf(0))
}

func TestTree_SetLeafRejectsContractViolations(t *testing.T) {
	require := require.New(t)
	hasher, err := NewHasher("keccak")
	require.NoError(err)

	tree := NewTree(hasher, 2, 4)
	require.Panics(func() { tree.SetLeaf(4, []common.Cell{1, 2}) })
	require.Panics(func() { tree.SetLeaf(0, []common.Cell{1}) })
}

func TestTree_RootMatchesReferenceAfterUpdates(t *testing.T) {
	require := require.New(t)
	hasher, err := NewHasher("keccak")
	require.NoError(err)

	tree := NewTree(hasher, 2, 8)
	leaves := map[uint64][]common.Cell{}
	for _, index := range []uint64{0, 3, 5} {
		data := []common.Cell{common.Cell(index), common.Cell(index + 1)}
		tree.SetLeaf(index, data)
		leaves[index] = data
	}
	require.Equal(referenceRoot(hasher, 2, 8, leaves), tree.Root())
}

func TestTree_IncrementalRecomputeEqualsFreshTree(t *testing.T) {
	require := require.New(t)
	hasher, err := NewHasher("keccak")
	require.NoError(err)

	incremental := NewTree(hasher, 2, 8)
	incremental.SetLeaf(1, []common.Cell{1, 1})
	incremental.Root()
	incremental.SetLeaf(6, []common.Cell{6, 6})
	incremental.Root()
	incremental.SetLeaf(1, []common.Cell{2, 2})

	fresh := NewTree(hasher, 2, 8)
	fresh.SetLeaf(1, []common.Cell{2, 2})
	fresh.SetLeaf(6, []common.Cell{6, 6})

	require.Equal(fresh.Root(), incremental.Root())
}

func TestTree_ResettingLeafToZeroRestoresEmptyRoot(t *testing.T) {
	require := require.New(t)
	hasher, err := NewHasher("keccak")
	require.NoError(err)

	tree := NewTree(hasher, 2, 8)
	empty := tree.Root()

	tree.SetLeaf(3, []common.Cell{7, 7})
	require.NotEqual(empty, tree.Root())

	tree.SetLeaf(3, []common.Cell{0, 0})
	require.Equal(empty, tree.Root())
}

func TestTree_LargeUpdateBatchMatchesReference(t *testing.T) {
	require := require.New(t)
	hasher, err := NewHasher("keccak")
	require.NoError(err)

	// Enough dirty paths to engage the parallel recompute.
	tree := NewTree(hasher, 2, 1024)
	leaves := map[uint64][]common.Cell{}
	for i := uint64(0); i < 1024; i += 3 {
		data := []common.Cell{common.Cell(i), common.Cell(i * 2)}
		tree.SetLeaf(i, data)
		leaves[i] = data
	}
	require.Equal(referenceRoot(hasher, 2, 1024, leaves), tree.Root())
}

func TestTree_RootRecomputesOnlyDirtyPaths(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	hasher := NewMockHasher(ctrl)
	hasher.EXPECT().HashLeaf(gomock.Any()).Return(common.Hash{1}).AnyTimes()
	hasher.EXPECT().HashNode(gomock.Any(), gomock.Any()).Return(common.Hash{2}).AnyTimes()

	// Tree with 4 leaves, so 2 levels of inner nodes.
	tree := NewTree(hasher, 2, 4)
	tree.SetLeaf(0, []common.Cell{1, 2})
	tree.Root()

	// A single dirty leaf requires one leaf digest and one digest per level.
	counted := NewMockHasher(ctrl)
	tree.hasher = counted
	counted.EXPECT().HashLeaf(gomock.Any()).Return(common.Hash{1}).Times(1)
	counted.EXPECT().HashNode(gomock.Any(), gomock.Any()).Return(common.Hash{2}).Times(2)

	tree.SetLeaf(3, []common.Cell{3, 4})
	tree.Root()

	// A clean tree requires no hashing at all.
	require.Equal(tree.Root(), tree.Root())
}

func TestTree_MemoryFootprintGrowsWithContent(t *testing.T) {
	require := require.New(t)
	hasher, err := NewHasher("keccak")
	require.NoError(err)

	tree := NewTree(hasher, 2, 8)
	before := tree.GetMemoryFootprint().Total()
	tree.SetLeaf(0, []common.Cell{1, 2})
	tree.Root()
	require.Greater(tree.GetMemoryFootprint().Total(), before)
}
