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
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
)

// Hash is a 32-byte cryptographic digest.
type Hash [32]byte

// Keccak256 computes the Keccak-256 digest over the concatenation of the
// given byte slices.
func Keccak256(data ...[]byte) Hash {
	return Hash(crypto.Keccak256(data...))
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}
