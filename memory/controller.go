// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package memory provides the controller, the single façade through which
// an execution engine uses the memory subsystem: it serves reads and
// writes during execution, and on finalization replays the access log and
// assembles the proof input of the segment.
package memory

import (
	"fmt"
	"unsafe"

	"github.com/zkforge/zmem/boundary"
	"github.com/zkforge/zmem/common"
	"github.com/zkforge/zmem/common/future"
	"github.com/zkforge/zmem/common/result"
	"github.com/zkforge/zmem/merkle"
	"github.com/zkforge/zmem/offline"
	"github.com/zkforge/zmem/online"
	"github.com/zkforge/zmem/store"
)

// Controller is the memory of one execution segment. All accesses go
// through it; after Finalize the controller is spent and every further
// access is a contract violation.
//
// Contract violations — malformed sizes, unaligned pointers, undeclared
// spaces, writes to the immediate space, use after finalization — indicate
// a defective execution engine and panic. Consistency failures detected
// during replay indicate a corrupted or forged log and are returned as
// errors from Finalize.
type Controller struct {
	config  Config
	dims    boundary.Dimensions
	hasher  merkle.Hasher
	store   *store.Store
	log     *online.Log
	segment uint64

	// persistent is nil under a volatile boundary, and vice versa.
	persistent *boundary.Persistent
	volatile   *boundary.Volatile

	finalized bool
}

// New creates the controller of a fresh segment with zero-initialized
// memory. For a persistent boundary this is the first segment of a chain;
// continuations are created with NewFromSnapshot.
func New(config Config) (*Controller, error) {
	return newController(config, 0, nil)
}

// NewFromSnapshot creates the controller of a continuation segment from
// the snapshot its predecessor produced. The snapshot's layout must match
// the configuration, and its root must match its image; a mismatch means
// the handoff is corrupted and the chain cannot be extended from it.
func NewFromSnapshot(config Config, snapshot *boundary.Snapshot) (*Controller, error) {
	if config.Boundary != Persistent {
		return nil, fmt.Errorf("continuation from a snapshot requires a persistent boundary")
	}
	if !snapshot.Dimensions.Equal(config.dimensions()) {
		return nil, fmt.Errorf("snapshot address layout does not match the configuration")
	}
	ctrl, err := newController(config, snapshot.Segment+1, snapshot.Image.Clone())
	if err != nil {
		return nil, err
	}
	if root := ctrl.persistent.InitialRoot(); root != snapshot.Root {
		return nil, fmt.Errorf("snapshot root %v does not match its image, recomputed %v", snapshot.Root, root)
	}
	return ctrl, nil
}

func newController(config Config, segment uint64, image *boundary.Image) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	hasher, err := merkle.NewHasher(config.Hasher)
	if err != nil {
		return nil, err
	}

	memory := store.New(config.PageSize)
	if image != nil {
		for _, entry := range image.Entries() {
			memory.Set(entry.Space, entry.Pointer, entry.Value)
		}
	}

	ctrl := &Controller{
		config:  config,
		dims:    config.dimensions(),
		hasher:  hasher,
		store:   memory,
		log:     online.NewLog(memory),
		segment: segment,
	}
	switch config.Boundary {
	case Volatile:
		ctrl.volatile = boundary.NewVolatile(ctrl.dims)
	case Persistent:
		ctrl.persistent, err = boundary.NewPersistent(ctrl.dims, image, hasher)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown boundary kind %d", config.Boundary)
	}
	return ctrl, nil
}

// Segment provides the index of the segment this controller executes.
func (c *Controller) Segment() uint64 {
	return c.segment
}

// Read provides the current content of the addressed block and logs the
// access.
func (c *Controller) Read(space common.AddressSpace, pointer common.Pointer, size int) []common.Cell {
	c.checkAccess(space, pointer, size, false)
	data, _ := c.log.Read(space, pointer, size)
	return data
}

// ReadCell reads a single cell; the minimum block size must be 1 for
// single-cell access to be admissible.
func (c *Controller) ReadCell(space common.AddressSpace, pointer common.Pointer) common.Cell {
	return c.Read(space, pointer, 1)[0]
}

// Write stores the given cells at the addressed block, logs the access,
// and returns the overwritten content.
func (c *Controller) Write(space common.AddressSpace, pointer common.Pointer, data []common.Cell) []common.Cell {
	c.checkAccess(space, pointer, len(data), true)
	prev, _ := c.log.Write(space, pointer, data)
	return prev
}

// WriteCell writes a single cell and returns the overwritten value.
func (c *Controller) WriteCell(space common.AddressSpace, pointer common.Pointer, value common.Cell) common.Cell {
	return c.Write(space, pointer, []common.Cell{value})[0]
}

// IncrementTimestamp consumes logical time for instructions performing no
// memory access. The delta must be at least one.
func (c *Controller) IncrementTimestamp(delta uint64) {
	if c.finalized {
		panic("memory used after finalization")
	}
	c.log.AdvanceTimestamp(delta)
}

// Timestamp provides the current logical time.
func (c *Controller) Timestamp() common.Timestamp {
	return c.log.Now()
}

// checkAccess enforces the access contract. Violations panic: they are
// engine defects, not run-time conditions to handle.
func (c *Controller) checkAccess(space common.AddressSpace, pointer common.Pointer, size int, write bool) {
	if c.finalized {
		panic("memory used after finalization")
	}
	if len(c.log.Records()) >= c.config.MaxAccesses {
		panic(fmt.Sprintf("access capacity of %d exceeded", c.config.MaxAccesses))
	}
	if !isPowerOfTwo(size) || size < c.config.MinBlockSize || size > c.config.MaxBlockSize {
		panic(fmt.Sprintf("access size %d is not an admissible power of two in %d..%d",
			size, c.config.MinBlockSize, c.config.MaxBlockSize))
	}
	if pointer%common.Pointer(size) != 0 {
		panic(fmt.Sprintf("pointer %d is not aligned to access size %d", pointer, size))
	}
	if space == common.ImmediateSpace {
		if write {
			panic(fmt.Sprintf("write to immediate address space at pointer %d", pointer))
		}
		// Identity-mapped reads must fit the cell range.
		if pointer > common.Pointer(1)<<32-common.Pointer(size) {
			panic(fmt.Sprintf("immediate read at pointer %d size %d exceeds the cell range", pointer, size))
		}
		return
	}
	for _, dim := range c.dims.Spaces {
		if dim.Space == space {
			if pointer+common.Pointer(size) > dim.Size {
				panic(fmt.Sprintf("access at pointer %d size %d exceeds the %d cells of address space %d",
					pointer, size, dim.Size, space))
			}
			return
		}
	}
	panic(fmt.Sprintf("access to undeclared address space %d", space))
}

// Finalize replays the access log, verifies its consistency, and
// assembles the proof input of the segment. The boundary commitment runs
// concurrently with the trace row generation. Finalize may be called only
// once; afterwards the controller accepts no further accesses.
func (c *Controller) Finalize() (*ProofInput, error) {
	if c.finalized {
		panic("memory finalized twice")
	}
	c.finalized = true

	replayer := offline.NewReplayer(c.config.MinBlockSize, c.config.MaxBlockSize, c.bootstrap())
	if err := replayer.Replay(c.log.Records()); err != nil {
		return nil, fmt.Errorf("log replay failed: %w", err)
	}
	touched := replayer.TouchedBlocks()

	input := &ProofInput{
		Accesses:   c.log.Records(),
		Aux:        replayer.Aux(),
		Adapters:   replayer.Adapters(),
		Blocks:     touched,
		Dimensions: c.dims,
	}

	if c.persistent != nil {
		promise, commitment := future.Create[result.Result[persistentOutcome]]()
		go func() {
			root, successor, err := c.persistent.Finalize(touched)
			if err != nil {
				promise.Fulfill(result.Err[persistentOutcome](err))
				return
			}
			promise.Fulfill(result.Ok(persistentOutcome{root: root, successor: successor}))
		}()

		input.Rows = offline.BuildRows(touched)

		outcome, err := commitment.Await().Get()
		if err != nil {
			return nil, fmt.Errorf("boundary commitment failed: %w", err)
		}
		input.InitialRoot = c.persistent.InitialRoot()
		input.FinalRoot = outcome.root
		input.Snapshot = &boundary.Snapshot{
			Segment:    c.segment,
			Root:       outcome.root,
			Dimensions: c.dims,
			Image:      outcome.successor,
		}
	} else {
		rows, err := c.volatile.Finalize(touched)
		if err != nil {
			return nil, fmt.Errorf("boundary row generation failed: %w", err)
		}
		input.Rows = offline.BuildRows(touched)
		input.BoundaryRows = rows
	}
	return input, nil
}

// persistentOutcome carries the result of the concurrent boundary
// commitment.
type persistentOutcome struct {
	root      common.Hash
	successor *boundary.Image
}

// bootstrap provides the initial cell values: the predecessor's image
// under a persistent continuation, zeros otherwise.
func (c *Controller) bootstrap() offline.Bootstrap {
	if c.persistent == nil || c.segment == 0 {
		return offline.ZeroBootstrap
	}
	image := c.persistent.Image()
	return func(space common.AddressSpace, pointer common.Pointer) common.Cell {
		return image.Get(space, pointer)
	}
}

// GetMemoryFootprint provides the size of the controller in memory in
// bytes, including the store and the access log.
func (c *Controller) GetMemoryFootprint() *common.MemoryFootprint {
	footprint := common.NewMemoryFootprint(unsafe.Sizeof(*c))
	footprint.AddChild("store", c.store.GetMemoryFootprint())
	footprint.AddChild("log", c.log.GetMemoryFootprint())
	return footprint
}
