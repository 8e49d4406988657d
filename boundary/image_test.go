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
	"github.com/zkforge/zmem/common"
)

func TestImage_FreshImageIsEmpty(t *testing.T) {
	require := require.New(t)
	image := NewImage()
	require.Zero(image.Len())
	require.Zero(image.Get(1, 0))
	require.Equal(common.Hash{}, image.Checksum())
}

func TestImage_ValuesCanBeSetAndRetrieved(t *testing.T) {
	require := require.New(t)
	image := NewImage()

	image.Set(1, 100, 42)
	require.Equal(common.Cell(42), image.Get(1, 100))
	require.Equal(1, image.Len())

	image.Set(1, 100, 43)
	require.Equal(common.Cell(43), image.Get(1, 100))
	require.Equal(1, image.Len())
}

func TestImage_ZeroAssignmentsAreNotStored(t *testing.T) {
	require := require.New(t)
	image := NewImage()

	image.Set(1, 100, 42)
	image.Set(1, 100, 0)
	require.Zero(image.Len())
	require.Equal(common.Hash{}, image.Checksum())
}

func TestImage_ChecksumIsOrderIndependent(t *testing.T) {
	require := require.New(t)

	a := NewImage()
	a.Set(1, 0, 10)
	a.Set(2, 8, 20)
	a.Set(1, 4, 30)

	b := NewImage()
	b.Set(1, 4, 30)
	b.Set(1, 0, 10)
	b.Set(2, 8, 20)

	require.Equal(a.Checksum(), b.Checksum())
}

func TestImage_ChecksumTracksOverwritesAndDeletes(t *testing.T) {
	require := require.New(t)

	a := NewImage()
	a.Set(1, 0, 10)
	checkpoint := a.Checksum()
	a.Set(1, 4, 20)
	a.Set(1, 4, 30)
	a.Set(1, 4, 0)
	require.Equal(checkpoint, a.Checksum())
}

func TestImage_DifferentContentsHaveDifferentChecksums(t *testing.T) {
	require := require.New(t)

	a := NewImage()
	a.Set(1, 0, 10)
	b := NewImage()
	b.Set(1, 0, 11)
	require.NotEqual(a.Checksum(), b.Checksum())
}

func TestImage_EntriesAreSortedBySpaceAndPointer(t *testing.T) {
	require := require.New(t)
	image := NewImage()
	image.Set(2, 0, 1)
	image.Set(1, 8, 2)
	image.Set(1, 0, 3)

	require.Equal([]ImageEntry{
		{Space: 1, Pointer: 0, Value: 3},
		{Space: 1, Pointer: 8, Value: 2},
		{Space: 2, Pointer: 0, Value: 1},
	}, image.Entries())
}

func TestImage_CloneIsIndependent(t *testing.T) {
	require := require.New(t)
	image := NewImage()
	image.Set(1, 0, 10)

	clone := image.Clone()
	require.Equal(image.Checksum(), clone.Checksum())

	clone.Set(1, 0, 20)
	require.Equal(common.Cell(10), image.Get(1, 0))
	require.Equal(common.Cell(20), clone.Get(1, 0))
	require.NotEqual(image.Checksum(), clone.Checksum())
}
