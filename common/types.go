// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"golang.org/x/exp/constraints"
)

// AddressSpace identifies an independent namespace of pointers. Address
// space 0 is reserved for identity-mapped immediate values: a read of
// (0, p) yields p itself and writes to it are rejected.
type AddressSpace uint32

// ImmediateSpace is the reserved identity-mapped address space.
const ImmediateSpace AddressSpace = 0

// Pointer is a location within one address space.
type Pointer uint64

// Cell is the scalar value stored at a single address. It is sized to hold
// one field element of the surrounding proof system.
type Cell uint32

// Timestamp is a logical clock value, global across all address spaces.
// Timestamps form a strict total order over all accesses; the value 0 is
// reserved for the bootstrap pseudo-write that gives every location its
// initial value.
type Timestamp uint64

// BootstrapTime is the reserved timestamp of the initial pseudo-write.
const BootstrapTime Timestamp = 0

// Address identifies a single cell.
type Address struct {
	Space   AddressSpace
	Pointer Pointer
}

// Identifier is a constraint for unsigned types used to index items in
// paged stores.
type Identifier interface {
	constraints.Unsigned
}
