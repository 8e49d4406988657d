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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeccak256_EmptyInputMatchesKnownDigest(t *testing.T) {
	require.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		Keccak256().String())
}

func TestKeccak256_ConcatenationOfSlicesEqualsSingleSlice(t *testing.T) {
	require := require.New(t)
	require.Equal(
		Keccak256([]byte("hello world")),
		Keccak256([]byte("hello"), []byte(" "), []byte("world")))
}

func TestKeccak256_DifferentInputsProduceDifferentDigests(t *testing.T) {
	require.NotEqual(t, Keccak256([]byte{1}), Keccak256([]byte{2}))
}

func TestHash_StringIsHexEncoded(t *testing.T) {
	hash := Hash{0x01, 0x02, 0xff}
	require.Equal(t,
		"0x0102ff0000000000000000000000000000000000000000000000000000000000",
		hash.String())
}
