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
	"fmt"

	"github.com/zkforge/zmem/common"
	"github.com/zkforge/zmem/merkle"
	"github.com/zkforge/zmem/offline"
)

// Persistent is the boundary of a memory whose state carries across
// segments. It commits to the full declared address space with a Merkle
// tree over blocks of the finest admissible granularity; the root at the
// end of one segment must equal the root declared at the start of the
// next, an equality checked by the external linking layer.
type Persistent struct {
	dims        Dimensions
	image       *Image
	tree        *merkle.Tree
	initialRoot common.Hash
}

// NewPersistent creates a persistent boundary from the initial memory
// image supplied by the previous segment, or an empty image for the first
// segment of a chain.
func NewPersistent(dims Dimensions, image *Image, hasher merkle.Hasher) (*Persistent, error) {
	if image == nil {
		image = NewImage()
	}
	tree := merkle.NewTree(hasher, dims.LeafCells, dims.LeafCount())

	// Populate the leaves containing image entries. Entries are sorted, so
	// the cells of one leaf are consecutive.
	entries := image.Entries()
	for i := 0; i < len(entries); {
		first := entries[i]
		leaf, err := dims.LeafIndex(first.Space, first.Pointer)
		if err != nil {
			return nil, fmt.Errorf("initial image entry outside declared address space: %w", err)
		}
		leafStart := first.Pointer - first.Pointer%common.Pointer(dims.LeafCells)
		data := make([]common.Cell, dims.LeafCells)
		for ; i < len(entries); i++ {
			entry := entries[i]
			if entry.Space != first.Space || entry.Pointer >= leafStart+common.Pointer(dims.LeafCells) {
				break
			}
			data[entry.Pointer-leafStart] = entry.Value
		}
		tree.SetLeaf(leaf, data)
	}

	return &Persistent{
		dims:        dims,
		image:       image,
		tree:        tree,
		initialRoot: tree.Root(),
	}, nil
}

// InitialRoot provides the commitment to the memory state at segment
// start. It is available before any access is replayed.
func (p *Persistent) InitialRoot() common.Hash {
	return p.initialRoot
}

// Image provides the initial memory image this boundary was created from.
// The returned image is owned by the boundary and must be treated as
// read-only.
func (p *Persistent) Image() *Image {
	return p.image
}

// Finalize overlays the touched blocks onto the initial image, recomputes
// the commitment along the touched leaf paths, and returns the final root
// together with the successor image handed to the next segment.
func (p *Persistent) Finalize(touched []offline.BlockRecord) (common.Hash, *Image, error) {
	successor := p.image.Clone()
	for _, block := range touched {
		for i := 0; i < block.Size; i++ {
			successor.Set(block.Space, block.Pointer+common.Pointer(i), block.Data[i])
		}
	}

	// Touched blocks are at least one leaf in size and leaf-aligned, so
	// each one covers a whole number of leaves.
	for _, block := range touched {
		for offset := 0; offset < block.Size; offset += p.dims.LeafCells {
			pointer := block.Pointer + common.Pointer(offset)
			leaf, err := p.dims.LeafIndex(block.Space, pointer)
			if err != nil {
				return common.Hash{}, nil, fmt.Errorf("touched block outside declared address space: %w", err)
			}
			p.tree.SetLeaf(leaf, block.Data[offset:offset+p.dims.LeafCells])
		}
	}

	return p.tree.Root(), successor, nil
}
