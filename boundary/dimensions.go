// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package boundary proves the relationship between the memory state at the
// start and the end of a segment. The volatile variant treats memory as
// empty at every segment start; the persistent variant commits to the full
// address space with a Merkle tree and hands the resulting state to the
// next segment as an explicit snapshot.
package boundary

import (
	"fmt"

	"github.com/zkforge/zmem/common"
)

// SpaceDim declares the addressable range of one address space.
type SpaceDim struct {
	Space common.AddressSpace
	// Size is the number of addressable cells in the space.
	Size common.Pointer
}

// Dimensions describes the committed address space layout: the declared
// spaces, in ascending order, and the granularity of the commitment tree
// leaves. The external constraint backend needs the same metadata to size
// its constraint system.
type Dimensions struct {
	// LeafCells is the number of cells per commitment tree leaf: the
	// finest admissible block size.
	LeafCells int
	Spaces    []SpaceDim
}

// LeafCount provides the total number of tree leaves covering all declared
// spaces.
func (d Dimensions) LeafCount() uint64 {
	count := uint64(0)
	for _, dim := range d.Spaces {
		count += uint64(dim.Size) / uint64(d.LeafCells)
	}
	return count
}

// LeafIndex maps an address to the index of the tree leaf covering it.
// Spaces are laid out consecutively in declaration order.
func (d Dimensions) LeafIndex(space common.AddressSpace, pointer common.Pointer) (uint64, error) {
	offset := uint64(0)
	for _, dim := range d.Spaces {
		if dim.Space == space {
			if pointer >= dim.Size {
				return 0, fmt.Errorf("pointer %d exceeds declared size %d of space %d", pointer, dim.Size, space)
			}
			return offset + uint64(pointer)/uint64(d.LeafCells), nil
		}
		offset += uint64(dim.Size) / uint64(d.LeafCells)
	}
	return 0, fmt.Errorf("address space %d is not declared", space)
}

// Equal checks whether two layouts are identical.
func (d Dimensions) Equal(other Dimensions) bool {
	if d.LeafCells != other.LeafCells || len(d.Spaces) != len(other.Spaces) {
		return false
	}
	for i := range d.Spaces {
		if d.Spaces[i] != other.Spaces[i] {
			return false
		}
	}
	return true
}
