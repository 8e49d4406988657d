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
	"encoding/binary"
	"sort"

	"github.com/holiman/uint256"
	"github.com/zkforge/zmem/common"
)

// Image is a sparse memory image: the mapping from addresses to non-zero
// cell values defining the content of a segment's memory at its boundary.
// Zero is the bootstrap value, so zero-valued entries are not stored.
//
// The image maintains an order-independent checksum: the wrapping 256-bit
// sum of the digests of its entries. Two images with equal checksums can be
// screened as equal cheaply before committing to a full comparison.
type Image struct {
	values   map[common.Address]common.Cell
	checksum uint256.Int
}

// ImageEntry is one address/value pair of an image.
type ImageEntry struct {
	Space   common.AddressSpace
	Pointer common.Pointer
	Value   common.Cell
}

// NewImage creates an empty image.
func NewImage() *Image {
	return &Image{values: map[common.Address]common.Cell{}}
}

// Get provides the value at the given address, or zero if not set.
func (i *Image) Get(space common.AddressSpace, pointer common.Pointer) common.Cell {
	return i.values[common.Address{Space: space, Pointer: pointer}]
}

// Set assigns the value at the given address. Assigning zero removes the
// entry.
func (i *Image) Set(space common.AddressSpace, pointer common.Pointer, value common.Cell) {
	addr := common.Address{Space: space, Pointer: pointer}
	if old, exists := i.values[addr]; exists {
		digest := entryDigest(space, pointer, old)
		i.checksum.Sub(&i.checksum, &digest)
	}
	if value == 0 {
		delete(i.values, addr)
		return
	}
	i.values[addr] = value
	digest := entryDigest(space, pointer, value)
	i.checksum.Add(&i.checksum, &digest)
}

// Len provides the number of non-zero entries.
func (i *Image) Len() int {
	return len(i.values)
}

// Checksum provides the order-independent digest sum of all entries.
func (i *Image) Checksum() common.Hash {
	return i.checksum.Bytes32()
}

// Entries provides all entries sorted by (space, pointer).
func (i *Image) Entries() []ImageEntry {
	entries := make([]ImageEntry, 0, len(i.values))
	for addr, value := range i.values {
		entries = append(entries, ImageEntry{Space: addr.Space, Pointer: addr.Pointer, Value: value})
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Space != entries[b].Space {
			return entries[a].Space < entries[b].Space
		}
		return entries[a].Pointer < entries[b].Pointer
	})
	return entries
}

// Clone creates an independent copy of the image.
func (i *Image) Clone() *Image {
	res := &Image{values: make(map[common.Address]common.Cell, len(i.values))}
	for addr, value := range i.values {
		res.values[addr] = value
	}
	res.checksum = i.checksum
	return res
}

func entryDigest(space common.AddressSpace, pointer common.Pointer, value common.Cell) uint256.Int {
	var buf [16]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(space))
	binary.LittleEndian.PutUint64(buf[4:], uint64(pointer))
	binary.LittleEndian.PutUint32(buf[12:], uint32(value))
	hash := common.Keccak256(buf[:])
	var res uint256.Int
	res.SetBytes32(hash[:])
	return res
}
