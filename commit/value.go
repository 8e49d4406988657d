// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package commit

import (
	"github.com/crate-crypto/go-ipa/banderwagon"
)

// Value is a numeric value a commitment can be made of. The value range is
// approximately 253 bits, just under 32 bytes; all 31-byte values are
// representable.
//
// Background: the value is stored as a scalar in the Banderwagon curve
// field.
type Value struct {
	scalar banderwagon.Fr
}

// NewValue creates a new value from a uint64. Any 64-bit value is a valid
// value.
func NewValue(value uint64) Value {
	var scalar banderwagon.Fr
	scalar.SetUint64(value)
	return Value{scalar: scalar}
}

// NewValueFromLittleEndianBytes creates a new value from a little-endian
// byte slice. Inputs shorter than 32 bytes are zero-extended, longer inputs
// are truncated.
func NewValueFromLittleEndianBytes(data []byte) Value {
	var padded [32]byte
	copy(padded[:], data)
	var scalar banderwagon.Fr
	scalar.SetBytesLE(padded[:])
	return Value{scalar: scalar}
}
