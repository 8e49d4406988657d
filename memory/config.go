// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package memory

import (
	"fmt"

	"github.com/pbnjay/memory"

	"github.com/zkforge/zmem/boundary"
	"github.com/zkforge/zmem/commit"
	"github.com/zkforge/zmem/common"
	"github.com/zkforge/zmem/merkle"
)

// BoundaryKind selects how a segment's start and end states are proven.
type BoundaryKind byte

const (
	// Volatile treats memory as empty at the start of every segment; no
	// state carries over between segments.
	Volatile BoundaryKind = iota
	// Persistent commits to the full address space with a Merkle tree and
	// links segments through their roots.
	Persistent
)

func (k BoundaryKind) String() string {
	switch k {
	case Volatile:
		return "volatile"
	case Persistent:
		return "persistent"
	}
	return "unknown"
}

// Config declares the memory layout and capacity of one execution segment.
// A config is validated once, at controller construction, so that layout
// and capacity issues surface before any access is processed.
type Config struct {
	// Spaces declares the addressable ranges, in ascending space order.
	// The immediate space 0 is implicit and must not be declared.
	Spaces []boundary.SpaceDim
	// MinBlockSize and MaxBlockSize bound the admissible power-of-two
	// access sizes, in cells. MinBlockSize is also the commitment tree
	// leaf granularity.
	MinBlockSize int
	MaxBlockSize int
	// PageSize is the cell count per page of the backing sparse store.
	PageSize int
	// MaxAccesses bounds the number of accesses of the segment.
	MaxAccesses int
	// Hasher names the commitment tree node function; empty selects
	// Keccak-256.
	Hasher   string
	Boundary BoundaryKind
}

// Validate checks the configuration, reporting layout and capacity issues
// before any memory is touched.
func (c *Config) Validate() error {
	if !isPowerOfTwo(c.MinBlockSize) || !isPowerOfTwo(c.MaxBlockSize) {
		return fmt.Errorf("block sizes %d..%d must be powers of two", c.MinBlockSize, c.MaxBlockSize)
	}
	if c.MinBlockSize > c.MaxBlockSize {
		return fmt.Errorf("minimum block size %d exceeds maximum block size %d", c.MinBlockSize, c.MaxBlockSize)
	}
	if len(c.Spaces) == 0 {
		return fmt.Errorf("no address spaces declared")
	}
	previous := common.ImmediateSpace
	for _, dim := range c.Spaces {
		if dim.Space == common.ImmediateSpace {
			return fmt.Errorf("the immediate address space must not be declared")
		}
		if dim.Space <= previous && previous != common.ImmediateSpace {
			return fmt.Errorf("address spaces must be declared in ascending order")
		}
		previous = dim.Space
		if dim.Size == 0 {
			return fmt.Errorf("address space %d has size 0", dim.Space)
		}
		if uint64(dim.Size)%uint64(c.MaxBlockSize) != 0 {
			return fmt.Errorf("size %d of address space %d is not a multiple of the maximum block size %d",
				dim.Size, dim.Space, c.MaxBlockSize)
		}
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.MaxAccesses <= 0 {
		return fmt.Errorf("access capacity must be positive, got %d", c.MaxAccesses)
	}
	if _, err := merkle.NewHasher(c.Hasher); err != nil {
		return err
	}
	// A Pedersen leaf digest commits each cell to its own vector slot.
	if c.Hasher == "pedersen" && c.MinBlockSize > commit.VectorSize {
		return fmt.Errorf("minimum block size %d exceeds the %d cells a pedersen leaf can commit to",
			c.MinBlockSize, commit.VectorSize)
	}

	// Worst-case demand of the access log and replay tables; failing here
	// beats failing mid-replay with the segment half processed.
	perAccess := uint64(c.MaxBlockSize)*3*4 + 64
	if demand := uint64(c.MaxAccesses) * perAccess; demand > memory.TotalMemory() {
		return fmt.Errorf("configured capacity of %d accesses may demand %d bytes, exceeding the %d bytes of physical memory",
			c.MaxAccesses, demand, memory.TotalMemory())
	}
	return nil
}

// dimensions provides the committed address layout of this configuration.
func (c *Config) dimensions() boundary.Dimensions {
	return boundary.Dimensions{
		LeafCells: c.MinBlockSize,
		Spaces:    c.Spaces,
	}
}

func isPowerOfTwo(value int) bool {
	return value > 0 && value&(value-1) == 0
}
