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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDimensions_LeafCountSumsAllSpaces(t *testing.T) {
	require := require.New(t)
	dims := Dimensions{
		LeafCells: 4,
		Spaces: []SpaceDim{
			{Space: 1, Size: 16},
			{Space: 2, Size: 32},
		},
	}
	require.Equal(uint64(12), dims.LeafCount())
}

func TestDimensions_LeafIndexLaysOutSpacesConsecutively(t *testing.T) {
	require := require.New(t)
	dims := Dimensions{
		LeafCells: 4,
		Spaces: []SpaceDim{
			{Space: 1, Size: 16},
			{Space: 2, Size: 32},
		},
	}

	index, err := dims.LeafIndex(1, 0)
	require.NoError(err)
	require.Equal(uint64(0), index)

	index, err = dims.LeafIndex(1, 15)
	require.NoError(err)
	require.Equal(uint64(3), index)

	index, err = dims.LeafIndex(2, 0)
	require.NoError(err)
	require.Equal(uint64(4), index)

	index, err = dims.LeafIndex(2, 31)
	require.NoError(err)
	require.Equal(uint64(11), index)
}

func TestDimensions_LeafIndexRejectsOutOfRangeAddresses(t *testing.T) {
	require := require.New(t)
	dims := Dimensions{
		LeafCells: 4,
		Spaces:    []SpaceDim{{Space: 1, Size: 16}},
	}

	_, err := dims.LeafIndex(1, 16)
	require.ErrorContains(err, "exceeds declared size")

	_, err = dims.LeafIndex(3, 0)
	require.ErrorContains(err, "not declared")
}

func TestDimensions_EqualComparesLayout(t *testing.T) {
	require := require.New(t)
	dims := Dimensions{LeafCells: 4, Spaces: []SpaceDim{{Space: 1, Size: 16}}}

	require.True(dims.Equal(Dimensions{LeafCells: 4, Spaces: []SpaceDim{{Space: 1, Size: 16}}}))
	require.False(dims.Equal(Dimensions{LeafCells: 2, Spaces: []SpaceDim{{Space: 1, Size: 16}}}))
	require.False(dims.Equal(Dimensions{LeafCells: 4, Spaces: []SpaceDim{{Space: 1, Size: 32}}}))
	require.False(dims.Equal(Dimensions{LeafCells: 4, Spaces: nil}))
}
