// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package merkle provides the sparse binary commitment tree over the
// address space at the finest admissible block granularity. Untouched
// subtrees are represented by precomputed per-level default digests, so an
// empty tree costs nothing beyond its depth. Root recomputation only
// rehashes the paths of leaves modified since the last root was obtained,
// parallelized per leaf with a fan-in at shared ancestor nodes.
package merkle

import (
	"fmt"
	"sort"
	"unsafe"

	"github.com/zkforge/zmem/common"
)

// Tree is the commitment tree. It is not thread-safe; all mutations happen
// on the finalization path, which is sequential by contract.
type Tree struct {
	hasher    Hasher
	leafCells int
	levels    int
	leafCount uint64

	leaves map[uint64][]common.Cell
	dirty  map[uint64]struct{}

	// Cached digests of non-default nodes, per level; level 0 holds leaf
	// digests, level `levels` the root.
	nodes    []map[uint64]common.Hash
	defaults []common.Hash
}

// NewTree creates an empty tree with capacity for at least minLeafCount
// leaves of the given number of cells each.
func NewTree(hasher Hasher, leafCells int, minLeafCount uint64) *Tree {
	levels := 0
	for uint64(1)<<levels < minLeafCount {
		levels++
	}

	defaults := make([]common.Hash, levels+1)
	defaults[0] = hasher.HashLeaf(make([]common.Cell, leafCells))
	for l := 1; l <= levels; l++ {
		defaults[l] = hasher.HashNode(defaults[l-1], defaults[l-1])
	}

	nodes := make([]map[uint64]common.Hash, levels+1)
	for l := range nodes {
		nodes[l] = map[uint64]common.Hash{}
	}

	return &Tree{
		hasher:    hasher,
		leafCells: leafCells,
		levels:    levels,
		leafCount: uint64(1) << levels,
		leaves:    map[uint64][]common.Cell{},
		dirty:     map[uint64]struct{}{},
		nodes:     nodes,
		defaults:  defaults,
	}
}

// LeafCount provides the number of addressable leaves.
func (t *Tree) LeafCount() uint64 {
	return t.leafCount
}

// SetLeaf replaces the content of the given leaf. The data length must
// match the tree's leaf size.
func (t *Tree) SetLeaf(index uint64, data []common.Cell) {
	if index >= t.leafCount {
		panic(fmt.Sprintf("leaf index %d out of range, tree has %d leaves", index, t.leafCount))
	}
	if len(data) != t.leafCells {
		panic(fmt.Sprintf("leaf data has %d cells, tree expects %d", len(data), t.leafCells))
	}
	t.leaves[index] = append([]common.Cell(nil), data...)
	t.dirty[index] = struct{}{}
}

// GetLeaf provides the current content of the given leaf, or nil if the
// leaf was never set.
func (t *Tree) GetLeaf(index uint64) []common.Cell {
	return t.leaves[index]
}

// Root recomputes the digests along all dirty paths and returns the root
// digest of the tree.
func (t *Tree) Root() common.Hash {
	t.flush()
	return t.digest(t.levels, 0)
}

// digest provides the cached digest of a node, falling back to the default
// digest of an untouched subtree at that level.
func (t *Tree) digest(level int, index uint64) common.Hash {
	if hash, exists := t.nodes[level][index]; exists {
		return hash
	}
	return t.defaults[level]
}

// flush recomputes the digests of all dirty paths. Leaf digests are
// independent tasks; each inner node is a task depending on its dirty
// children, producing a fan-in task graph executed in parallel. Results are
// written to per-level slices during the parallel phase and merged into the
// digest cache sequentially afterwards, keeping the cache maps safe to read
// from the running tasks.
func (t *Tree) flush() {
	if len(t.dirty) == 0 {
		return
	}

	// Determine the dirty node set per level, bottom up.
	dirtyNodes := make([][]uint64, t.levels+1)
	dirtyNodes[0] = make([]uint64, 0, len(t.dirty))
	for index := range t.dirty {
		dirtyNodes[0] = append(dirtyNodes[0], index)
	}
	sort.Slice(dirtyNodes[0], func(i, j int) bool { return dirtyNodes[0][i] < dirtyNodes[0][j] })
	for l := 1; l <= t.levels; l++ {
		parents := make([]uint64, 0, len(dirtyNodes[l-1]))
		for _, child := range dirtyNodes[l-1] {
			parent := child / 2
			if len(parents) == 0 || parents[len(parents)-1] != parent {
				parents = append(parents, parent)
			}
		}
		dirtyNodes[l] = parents
	}

	slots := make([]map[uint64]int, t.levels+1)
	results := make([][]common.Hash, t.levels+1)
	for l := 0; l <= t.levels; l++ {
		slots[l] = make(map[uint64]int, len(dirtyNodes[l]))
		for s, index := range dirtyNodes[l] {
			slots[l][index] = s
		}
		results[l] = make([]common.Hash, len(dirtyNodes[l]))
	}

	tasks := make([]*task, 0, 2*len(dirtyNodes[0]))
	nodeTasks := map[uint64]*task{}
	for s, index := range dirtyNodes[0] {
		leaf := t.leaves[index]
		result := &results[0][s]
		leafTask := newTask(func() {
			*result = t.hasher.HashLeaf(leaf)
		}, 0)
		nodeTasks[index] = leafTask
		tasks = append(tasks, leafTask)
	}
	for l := 1; l <= t.levels; l++ {
		childTasks := nodeTasks
		nodeTasks = map[uint64]*task{}
		for s, index := range dirtyNodes[l] {
			level := l
			node := index
			result := &results[l][s]
			childResults := results[l-1]
			childSlots := slots[l-1]
			action := func() {
				left := t.digest(level-1, 2*node)
				if slot, dirty := childSlots[2*node]; dirty {
					left = childResults[slot]
				}
				right := t.digest(level-1, 2*node+1)
				if slot, dirty := childSlots[2*node+1]; dirty {
					right = childResults[slot]
				}
				*result = t.hasher.HashNode(left, right)
			}

			numDependencies := 0
			for _, child := range []uint64{2 * node, 2*node + 1} {
				if _, dirty := childTasks[child]; dirty {
					numDependencies++
				}
			}
			nodeTask := newTask(action, numDependencies)
			for _, child := range []uint64{2 * node, 2*node + 1} {
				if childTask, dirty := childTasks[child]; dirty {
					childTask.parentTask = nodeTask
				}
			}
			nodeTasks[index] = nodeTask
			tasks = append(tasks, nodeTask)
		}
	}

	runTasks(tasks)

	// Merge the results into the digest cache.
	for l := 0; l <= t.levels; l++ {
		for s, index := range dirtyNodes[l] {
			t.nodes[l][index] = results[l][s]
		}
	}
	t.dirty = map[uint64]struct{}{}
}

// GetMemoryFootprint provides the size of the tree in memory in bytes.
func (t *Tree) GetMemoryFootprint() *common.MemoryFootprint {
	var hash common.Hash
	var cell common.Cell
	mf := common.NewMemoryFootprint(unsafe.Sizeof(*t))
	leaves := uintptr(len(t.leaves)) * uintptr(t.leafCells) * unsafe.Sizeof(cell)
	mf.AddChild("leaves", common.NewMemoryFootprint(leaves))
	cached := uintptr(0)
	for _, level := range t.nodes {
		cached += uintptr(len(level)) * unsafe.Sizeof(hash)
	}
	mf.AddChild("nodes", common.NewMemoryFootprint(cached))
	return mf
}
