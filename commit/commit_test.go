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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommitment_DefaultIsNotValid(t *testing.T) {
	commitment := Commitment{}
	require.False(t, commitment.IsValid(), "Default commitment should not be valid")
}

func TestCommitment_IdentityIsValid(t *testing.T) {
	commitment := Identity()
	require.True(t, commitment.IsValid(), "Identity commitment should be valid")
}

func TestCommitment_IdentityToValue_ReturnsZeroValue(t *testing.T) {
	value := Identity().ToValue()
	require.Equal(t, Value{}, value, "Identity commitment should convert to zero value")
}

func TestCommitment_Compress_IdentityReturnsZero(t *testing.T) {
	compressed := Identity().Compress()
	require.Equal(t, [32]byte{}, compressed, "Compressed form of identity commitment should be zero")
}

func TestCommitment_Compress_CommitmentToNonZeroValuesHasNonZeroCompressedForm(t *testing.T) {
	values := [VectorSize]Value{NewValue(12)}

	commitment := Commit(values)
	require.True(t, commitment.IsValid(), "Commitment should be valid")

	compressed := commitment.Compress()
	require.NotEqual(t, [32]byte{}, compressed, "Compressed form of non-identity commitment should not be zero")
}

func TestCommitment_CommitIsDeterministic(t *testing.T) {
	require := require.New(t)

	values := [VectorSize]Value{NewValue(1), NewValue(2), NewValue(3)}
	require.True(Commit(values).Equal(Commit(values)))
}

func TestCommitment_DifferentVectorsProduceDifferentCommitments(t *testing.T) {
	require := require.New(t)

	valuesA := [VectorSize]Value{NewValue(1)}
	valuesB := [VectorSize]Value{NewValue(2)}
	require.False(Commit(valuesA).Equal(Commit(valuesB)))
}

func TestCommitment_Add_SumsUpCommitments(t *testing.T) {
	require := require.New(t)

	valuesA := [VectorSize]Value{}
	valuesA[0] = NewValue(10)
	valuesA[1] = NewValue(15)
	commitment1 := Commit(valuesA)
	require.True(commitment1.IsValid())

	valuesB := [VectorSize]Value{}
	valuesB[0] = NewValue(25)
	valuesB[2] = NewValue(5)
	commitment2 := Commit(valuesB)
	require.True(commitment2.IsValid())

	sumCommitment := commitment1
	sumCommitment.Add(commitment2)
	require.True(sumCommitment.IsValid())

	expectedValues := [VectorSize]Value{}
	expectedValues[0] = NewValue(35) // 10 + 25
	expectedValues[1] = NewValue(15) // 15 + 0
	expectedValues[2] = NewValue(5)  // 0 + 5
	expectedCommitment := Commit(expectedValues)
	require.True(sumCommitment.Equal(expectedCommitment))
}

func TestValue_LittleEndianBytesMatchUint64Values(t *testing.T) {
	require := require.New(t)

	require.Equal(NewValue(0x0102), NewValueFromLittleEndianBytes([]byte{0x02, 0x01}))
	require.Equal(NewValue(0), NewValueFromLittleEndianBytes(nil))
}
