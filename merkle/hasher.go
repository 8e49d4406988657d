// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package merkle

//go:generate mockgen -source hasher.go -destination hasher_mocks.go -package merkle

import (
	"encoding/binary"
	"fmt"

	"github.com/zkforge/zmem/commit"
	"github.com/zkforge/zmem/common"
)

// Hasher is the node function of the commitment tree. Implementations must
// be deterministic and stateless; the tree calls them from multiple
// goroutines.
type Hasher interface {
	// HashLeaf digests the cells of one leaf block.
	HashLeaf(data []common.Cell) common.Hash
	// HashNode digests an inner node from its two children.
	HashNode(left, right common.Hash) common.Hash
}

// NewHasher provides the hasher registered under the given name. The empty
// name selects the default Keccak-256 hasher.
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", "keccak":
		return keccakHasher{}, nil
	case "pedersen":
		return pedersenHasher{}, nil
	}
	return nil, fmt.Errorf("unknown commitment hasher %q", name)
}

// keccakHasher digests nodes with Keccak-256.
type keccakHasher struct{}

func (keccakHasher) HashLeaf(data []common.Cell) common.Hash {
	bytes := make([]byte, 4*len(data))
	for i, cell := range data {
		binary.LittleEndian.PutUint32(bytes[4*i:], uint32(cell))
	}
	return common.Keccak256(bytes)
}

func (keccakHasher) HashNode(left, right common.Hash) common.Hash {
	return common.Keccak256(left[:], right[:])
}

// pedersenHasher digests nodes by committing to their content with a
// Pedersen vector commitment and compressing the resulting curve point.
type pedersenHasher struct{}

func (pedersenHasher) HashLeaf(data []common.Cell) common.Hash {
	values := [commit.VectorSize]commit.Value{}
	for i, cell := range data {
		values[i] = commit.NewValue(uint64(cell))
	}
	return common.Hash(commit.Commit(values).Compress())
}

func (pedersenHasher) HashNode(left, right common.Hash) common.Hash {
	// Digests are split into 16-byte halves so every committed value stays
	// within the scalar field.
	values := [commit.VectorSize]commit.Value{
		0: commit.NewValueFromLittleEndianBytes(left[:16]),
		1: commit.NewValueFromLittleEndianBytes(left[16:]),
		2: commit.NewValueFromLittleEndianBytes(right[:16]),
		3: commit.NewValueFromLittleEndianBytes(right[16:]),
	}
	return common.Hash(commit.Commit(values).Compress())
}
