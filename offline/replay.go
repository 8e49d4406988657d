// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package offline replays the online access log in timestamp order, checks
// every access against the tracked per-block state, and produces the
// auxiliary witness data the consistency argument needs: previous values,
// previous timestamps, and the split/merge adapter records reconciling
// accesses of different block sizes.
package offline

import (
	"fmt"
	"sort"

	"github.com/zkforge/zmem/adapter"
	"github.com/zkforge/zmem/common"
	"github.com/zkforge/zmem/online"
)

// Bootstrap provides the initial value of a cell, i.e. the value assigned
// by the reserved timestamp-0 pseudo-write.
type Bootstrap func(space common.AddressSpace, pointer common.Pointer) common.Cell

// ZeroBootstrap is the bootstrap of a memory that starts out empty.
func ZeroBootstrap(common.AddressSpace, common.Pointer) common.Cell {
	return 0
}

// Replayer is the offline memory. It consumes access records in log order
// and maintains the block record table, materializing, splitting, and
// merging blocks as the access granularities require.
type Replayer struct {
	minSize   int
	maxSize   int
	bootstrap Bootstrap

	blocks   map[blockKey]*BlockRecord
	covered  map[coverKey]struct{}
	adapters []adapter.Record
	aux      []AccessAux
}

// coverKey marks one minimum-granularity unit as covered by some block.
type coverKey struct {
	space common.AddressSpace
	unit  common.Pointer
}

// NewReplayer creates a replay engine for the given admissible block size
// range. Both bounds must be powers of two; the caller is responsible for
// validating them. The bootstrap provides initial cell values; nil means
// zero-initialized memory.
func NewReplayer(minSize, maxSize int, bootstrap Bootstrap) *Replayer {
	if bootstrap == nil {
		bootstrap = ZeroBootstrap
	}
	return &Replayer{
		minSize:   minSize,
		maxSize:   maxSize,
		bootstrap: bootstrap,
		blocks:    map[blockKey]*BlockRecord{},
		covered:   map[coverKey]struct{}{},
	}
}

// Replay processes the given access records in order. Any failure indicates
// a corrupted log or a forged trace and aborts the replay; the replayer
// must be discarded afterwards.
func (r *Replayer) Replay(records []online.AccessRecord) error {
	for i := range records {
		if err := r.step(&records[i]); err != nil {
			return fmt.Errorf("access %d: %w", i, err)
		}
	}
	return nil
}

func (r *Replayer) step(rec *online.AccessRecord) error {
	// Immediate-space accesses are self-consistent by construction; they
	// participate in the log for replay uniformity only.
	if rec.Space == common.ImmediateSpace {
		r.aux = append(r.aux, AccessAux{
			PrevTime: common.BootstrapTime,
			PrevData: rec.Data,
		})
		return nil
	}

	block := r.ensure(rec.Space, rec.Pointer, rec.Size)
	if rec.Time <= block.Time {
		return fmt.Errorf(
			"timestamp %d at space %d pointer %d is not greater than the block's last-write timestamp %d",
			rec.Time, rec.Space, rec.Pointer, block.Time)
	}

	aux := AccessAux{PrevTime: block.Time, PrevData: cloneCells(block.Data)}
	switch rec.Kind {
	case online.KindRead:
		if !equalCells(rec.Data, block.Data) {
			return fmt.Errorf(
				"read mismatch at space %d pointer %d time %d: log claims %v, tracked state is %v",
				rec.Space, rec.Pointer, rec.Time, rec.Data, block.Data)
		}
	case online.KindWrite:
		if !equalCells(rec.PrevData, block.Data) {
			return fmt.Errorf(
				"write previous-data mismatch at space %d pointer %d time %d: log claims %v, tracked state is %v",
				rec.Space, rec.Pointer, rec.Time, rec.PrevData, block.Data)
		}
		block.Data = cloneCells(rec.Data)
		block.Time = rec.Time
	default:
		return fmt.Errorf("unknown access kind %d", rec.Kind)
	}
	r.aux = append(r.aux, aux)
	return nil
}

// ensure makes the block record covering [pointer, pointer+size) exist at
// exactly the given size, splitting or merging as needed. Split and merge
// chains are driven by the access alone, so an address range only ever
// accessed at one granularity incurs no adapter records.
func (r *Replayer) ensure(space common.AddressSpace, pointer common.Pointer, size int) *BlockRecord {
	if block, exists := r.blocks[blockKey{space: space, pointer: pointer, size: size}]; exists {
		return block
	}

	// A strictly larger materialized block containing the target range, if
	// any, is split down to the target size.
	for super := 2 * size; super <= r.maxSize; super *= 2 {
		start := pointer &^ common.Pointer(super-1)
		if parent, exists := r.blocks[blockKey{space: space, pointer: start, size: super}]; exists {
			return r.splitDown(parent, pointer, size)
		}
	}

	// No covering block exists. A completely untouched range is
	// materialized directly at the access size from the bootstrap values.
	if !r.anyCovered(space, pointer, size) {
		return r.materialize(space, pointer, size)
	}

	// Parts of the range are materialized at smaller sizes; normalize both
	// halves and merge them.
	half := size / 2
	left := r.ensure(space, pointer, half)
	right := r.ensure(space, pointer+common.Pointer(half), half)
	return r.merge(left, right)
}

func (r *Replayer) splitDown(parent *BlockRecord, pointer common.Pointer, size int) *BlockRecord {
	for parent.Size > size {
		half := parent.Size / 2
		r.adapters = append(r.adapters, adapter.NewSplit(
			parent.Space, parent.Pointer, parent.Size, cloneCells(parent.Data), parent.Time))

		left := &BlockRecord{
			Space:   parent.Space,
			Pointer: parent.Pointer,
			Size:    half,
			Data:    cloneCells(parent.Data[:half]),
			Time:    parent.Time,
		}
		right := &BlockRecord{
			Space:   parent.Space,
			Pointer: parent.Pointer + common.Pointer(half),
			Size:    half,
			Data:    cloneCells(parent.Data[half:]),
			Time:    parent.Time,
		}
		delete(r.blocks, keyOf(parent))
		r.blocks[keyOf(left)] = left
		r.blocks[keyOf(right)] = right

		if pointer < right.Pointer {
			parent = left
		} else {
			parent = right
		}
	}
	return parent
}

func (r *Replayer) merge(left, right *BlockRecord) *BlockRecord {
	r.adapters = append(r.adapters, adapter.NewMerge(
		left.Space, left.Pointer, left.Size,
		append(cloneCells(left.Data), right.Data...),
		left.Time, right.Time))

	time := left.Time
	if right.Time > time {
		time = right.Time
	}
	merged := &BlockRecord{
		Space:   left.Space,
		Pointer: left.Pointer,
		Size:    2 * left.Size,
		Data:    append(cloneCells(left.Data), right.Data...),
		Time:    time,
	}
	delete(r.blocks, keyOf(left))
	delete(r.blocks, keyOf(right))
	r.blocks[keyOf(merged)] = merged
	return merged
}

// materialize creates the block record for a range touched for the first
// time, bootstrapped from the initial memory image.
func (r *Replayer) materialize(space common.AddressSpace, pointer common.Pointer, size int) *BlockRecord {
	data := make([]common.Cell, size)
	for i := range data {
		data[i] = r.bootstrap(space, pointer+common.Pointer(i))
	}
	block := &BlockRecord{
		Space:   space,
		Pointer: pointer,
		Size:    size,
		Data:    data,
		Time:    common.BootstrapTime,
	}
	r.blocks[keyOf(block)] = block
	for unit := pointer / common.Pointer(r.minSize); unit < (pointer+common.Pointer(size))/common.Pointer(r.minSize); unit++ {
		r.covered[coverKey{space: space, unit: unit}] = struct{}{}
	}
	return block
}

// anyCovered reports whether any minimum-granularity unit within the range
// is covered by a materialized block.
func (r *Replayer) anyCovered(space common.AddressSpace, pointer common.Pointer, size int) bool {
	for unit := pointer / common.Pointer(r.minSize); unit < (pointer+common.Pointer(size))/common.Pointer(r.minSize); unit++ {
		if _, exists := r.covered[coverKey{space: space, unit: unit}]; exists {
			return true
		}
	}
	return false
}

// Adapters provides the split/merge records emitted so far, in emission
// order.
func (r *Replayer) Adapters() []adapter.Record {
	return r.adapters
}

// Aux provides the per-access auxiliary data, aligned by index with the
// replayed log. Immediate-space accesses carry their own data as previous
// data and the bootstrap timestamp.
func (r *Replayer) Aux() []AccessAux {
	return r.aux
}

// TouchedBlocks provides the finalized block records sorted by address
// space and pointer, for deterministic downstream row generation.
func (r *Replayer) TouchedBlocks() []BlockRecord {
	blocks := make([]BlockRecord, 0, len(r.blocks))
	for _, block := range r.blocks {
		blocks = append(blocks, *block)
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].Space != blocks[j].Space {
			return blocks[i].Space < blocks[j].Space
		}
		return blocks[i].Pointer < blocks[j].Pointer
	})
	return blocks
}
