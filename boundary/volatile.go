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
	"github.com/zkforge/zmem/common"
	"github.com/zkforge/zmem/offline"
)

// RowKind distinguishes the two boundary row kinds of a block.
type RowKind byte

const (
	// RowInitial asserts the state of a block at segment start.
	RowInitial RowKind = iota
	// RowFinal asserts the state of a block at segment end.
	RowFinal
)

// Row is one boundary assertion handed to the constraint backend.
type Row struct {
	Kind  RowKind
	Block offline.BlockRecord
}

// Volatile is the boundary of a memory that starts out empty on every
// segment: every touched block bootstraps to the default value, and no
// state carries over into a following segment.
type Volatile struct {
	dims Dimensions
}

// NewVolatile creates a volatile boundary over the given address layout.
func NewVolatile(dims Dimensions) *Volatile {
	return &Volatile{dims: dims}
}

// Finalize produces the boundary rows for all touched blocks: an initial
// row asserting the default bootstrap content and a final row asserting
// the block's state at segment end. Untouched blocks need no rows.
func (v *Volatile) Finalize(touched []offline.BlockRecord) ([]Row, error) {
	rows := make([]Row, 0, 2*len(touched))
	for _, block := range touched {
		if _, err := v.dims.LeafIndex(block.Space, block.Pointer); err != nil {
			return nil, err
		}
		rows = append(rows, Row{
			Kind: RowInitial,
			Block: offline.BlockRecord{
				Space:   block.Space,
				Pointer: block.Pointer,
				Size:    block.Size,
				Data:    make([]common.Cell, block.Size),
				Time:    common.BootstrapTime,
			},
		})
		rows = append(rows, Row{Kind: RowFinal, Block: block})
	}
	return rows, nil
}
