// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package offline

import (
	"github.com/zkforge/zmem/common"
)

// BlockRecord is the canonical per-block state tracked during replay. A
// block record exists at exactly one size for the cells it covers; its size
// only changes through split and merge operations.
type BlockRecord struct {
	Space   common.AddressSpace
	Pointer common.Pointer
	Size    int
	Data    []common.Cell
	// Time is the block's last-write timestamp; the bootstrap timestamp
	// until the first write.
	Time common.Timestamp
}

// AccessAux is the auxiliary witness data produced per access record: the
// addressed block's state immediately before the access. The consistency
// argument checks each access against this previous state instead of
// re-deriving it.
type AccessAux struct {
	PrevTime common.Timestamp
	PrevData []common.Cell
}

// blockKey identifies a materialized block in the replay table.
type blockKey struct {
	space   common.AddressSpace
	pointer common.Pointer
	size    int
}

func keyOf(b *BlockRecord) blockKey {
	return blockKey{space: b.Space, pointer: b.Pointer, size: b.Size}
}

func cloneCells(cells []common.Cell) []common.Cell {
	return append([]common.Cell(nil), cells...)
}

func equalCells(a, b []common.Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
