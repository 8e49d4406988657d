// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package adapter defines the block-reconciliation records proving the two
// granularity-changing transformations of the memory argument: splitting a
// block into two half-size blocks and merging two adjacent half-size blocks
// into one. These records are the only mechanism by which block granularity
// changes, and each one preserves the stored data bit for bit.
package adapter

import (
	"fmt"

	"github.com/zkforge/zmem/common"
)

// Kind is the transformation kind of a record.
type Kind byte

const (
	Split Kind = iota
	Merge
)

func (k Kind) String() string {
	switch k {
	case Split:
		return "split"
	case Merge:
		return "merge"
	}
	return "unknown"
}

// BlockDescriptor identifies a block of cells: a power-of-two-sized,
// size-aligned range within one address space.
type BlockDescriptor struct {
	Space   common.AddressSpace
	Pointer common.Pointer
	Size    int
}

// Record describes one granularity change. The left child always covers the
// lower half of the parent's range. Data holds the parent's cells at the
// time of the operation; its two halves are the children's cells.
type Record struct {
	Kind   Kind
	Parent BlockDescriptor
	Left   BlockDescriptor
	Right  BlockDescriptor
	Data   []common.Cell
	// Time is the parent's last-write timestamp for a split, and the
	// maximum of the children's last-write timestamps for a merge.
	Time common.Timestamp
}

// NewSplit creates the record halving the given block. The children inherit
// the parent's timestamp.
func NewSplit(space common.AddressSpace, pointer common.Pointer, size int, data []common.Cell, time common.Timestamp) Record {
	return Record{
		Kind:   Split,
		Parent: BlockDescriptor{Space: space, Pointer: pointer, Size: size},
		Left:   BlockDescriptor{Space: space, Pointer: pointer, Size: size / 2},
		Right:  BlockDescriptor{Space: space, Pointer: pointer + common.Pointer(size/2), Size: size / 2},
		Data:   data,
		Time:   time,
	}
}

// NewMerge creates the record combining the two adjacent blocks of the
// given size starting at pointer. The merge timestamp is the maximum of the
// children's last-write timestamps.
func NewMerge(space common.AddressSpace, pointer common.Pointer, childSize int, data []common.Cell, leftTime, rightTime common.Timestamp) Record {
	time := leftTime
	if rightTime > time {
		time = rightTime
	}
	return Record{
		Kind:   Merge,
		Parent: BlockDescriptor{Space: space, Pointer: pointer, Size: 2 * childSize},
		Left:   BlockDescriptor{Space: space, Pointer: pointer, Size: childSize},
		Right:  BlockDescriptor{Space: space, Pointer: pointer + common.Pointer(childSize), Size: childSize},
		Data:   data,
		Time:   time,
	}
}

// Check verifies the structural invariants of the record: the children
// partition the parent's range and the data covers the parent's size.
func (r Record) Check() error {
	if r.Parent.Size != 2*r.Left.Size || r.Left.Size != r.Right.Size {
		return fmt.Errorf("adapter record children sizes %d/%d do not partition parent size %d",
			r.Left.Size, r.Right.Size, r.Parent.Size)
	}
	if r.Left.Pointer != r.Parent.Pointer || r.Right.Pointer != r.Parent.Pointer+common.Pointer(r.Left.Size) {
		return fmt.Errorf("adapter record children at %d/%d do not partition parent range at %d",
			r.Left.Pointer, r.Right.Pointer, r.Parent.Pointer)
	}
	if len(r.Data) != r.Parent.Size {
		return fmt.Errorf("adapter record data length %d does not match parent size %d",
			len(r.Data), r.Parent.Size)
	}
	return nil
}
