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
	"github.com/zkforge/zmem/common/future"
)

// BuildRows flattens finalized block records into the cell rows consumed by
// the constraint backend. Each row lists the block's address space, pointer
// (split into two cells), size, last-write timestamp (split into two
// cells), and data.
//
// The input must be sorted by (space, pointer), as provided by
// TouchedBlocks. Rows of different address spaces are independent once
// replay has completed, so the encoding is partitioned by space and
// computed in parallel.
func BuildRows(blocks []BlockRecord) [][]common.Cell {
	if len(blocks) == 0 {
		return nil
	}

	// Identify the per-space partitions of the sorted input.
	type span struct{ begin, end int }
	spans := []span{}
	begin := 0
	for i := 1; i <= len(blocks); i++ {
		if i == len(blocks) || blocks[i].Space != blocks[begin].Space {
			spans = append(spans, span{begin: begin, end: i})
			begin = i
		}
	}

	futures := make([]future.Future[[][]common.Cell], len(spans))
	for i, s := range spans {
		promise, f := future.Create[[][]common.Cell]()
		futures[i] = f
		go func(blocks []BlockRecord) {
			rows := make([][]common.Cell, len(blocks))
			for j := range blocks {
				rows[j] = encodeRow(&blocks[j])
			}
			promise.Fulfill(rows)
		}(blocks[s.begin:s.end])
	}

	rows := make([][]common.Cell, 0, len(blocks))
	for _, f := range futures {
		rows = append(rows, f.Await()...)
	}
	return rows
}

func encodeRow(block *BlockRecord) []common.Cell {
	row := make([]common.Cell, 0, 6+len(block.Data))
	row = append(row,
		common.Cell(block.Space),
		common.Cell(block.Pointer),
		common.Cell(block.Pointer>>32),
		common.Cell(block.Size),
		common.Cell(block.Time),
		common.Cell(block.Time>>32),
	)
	return append(row, block.Data...)
}
