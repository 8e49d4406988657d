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
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/golang/snappy"
	"golang.org/x/crypto/sha3"

	"github.com/zkforge/zmem/common"
)

// Snapshot is the explicit cross-segment handoff of the persistent
// boundary: the committed root, the address layout, and the sparse memory
// image reproducing the block states behind the root. Snapshots are
// values; a segment never shares live state with its successor.
type Snapshot struct {
	// Segment is the index of the segment this snapshot concludes.
	Segment    uint64
	Root       common.Hash
	Dimensions Dimensions
	Image      *Image
}

var snapshotMagic = [8]byte{'z', 'm', 'e', 'm', 's', 'n', 'a', 'p'}

const snapshotVersion = uint16(1)

// Encode serializes the snapshot. The image section is snappy-compressed
// and the whole blob carries a SHA3-256 integrity checksum; Decode refuses
// blobs failing the check. Round-trip fidelity is a hard requirement of
// the continuation protocol.
func (s *Snapshot) Encode() ([]byte, error) {
	if s.Image == nil {
		return nil, fmt.Errorf("snapshot has no image")
	}

	var payload bytes.Buffer
	write := func(value any) {
		_ = binary.Write(&payload, binary.LittleEndian, value)
	}
	write(uint32(s.Dimensions.LeafCells))
	write(uint32(len(s.Dimensions.Spaces)))
	for _, dim := range s.Dimensions.Spaces {
		write(uint32(dim.Space))
		write(uint64(dim.Size))
	}
	entries := s.Image.Entries()
	write(uint64(len(entries)))
	for _, entry := range entries {
		write(uint32(entry.Space))
		write(uint64(entry.Pointer))
		write(uint32(entry.Value))
	}
	compressed := snappy.Encode(nil, payload.Bytes())

	var blob bytes.Buffer
	blob.Write(snapshotMagic[:])
	_ = binary.Write(&blob, binary.LittleEndian, snapshotVersion)
	_ = binary.Write(&blob, binary.LittleEndian, s.Segment)
	blob.Write(s.Root[:])
	_ = binary.Write(&blob, binary.LittleEndian, uint32(len(compressed)))
	blob.Write(compressed)

	checksum := sha3.Sum256(blob.Bytes())
	blob.Write(checksum[:])
	return blob.Bytes(), nil
}

// DecodeSnapshot deserializes a snapshot encoded by Encode.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	const headerSize = 8 + 2 + 8 + 32 + 4
	if len(data) < headerSize+32 {
		return nil, fmt.Errorf("snapshot blob too short: %d bytes", len(data))
	}

	body, trailer := data[:len(data)-32], data[len(data)-32:]
	checksum := sha3.Sum256(body)
	if !bytes.Equal(checksum[:], trailer) {
		return nil, fmt.Errorf("snapshot checksum mismatch")
	}

	if !bytes.Equal(body[:8], snapshotMagic[:]) {
		return nil, fmt.Errorf("not a snapshot blob")
	}
	if version := binary.LittleEndian.Uint16(body[8:]); version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", version)
	}
	res := &Snapshot{
		Segment: binary.LittleEndian.Uint64(body[10:]),
	}
	copy(res.Root[:], body[18:50])
	compressedLen := int(binary.LittleEndian.Uint32(body[50:]))
	if len(body) != headerSize+compressedLen {
		return nil, fmt.Errorf("snapshot blob length %d does not match declared payload", len(data))
	}

	payload, err := snappy.Decode(nil, body[headerSize:])
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot payload: %w", err)
	}

	reader := bytes.NewReader(payload)
	read := func(value any) error {
		return binary.Read(reader, binary.LittleEndian, value)
	}
	var leafCells, numSpaces uint32
	if err := read(&leafCells); err != nil {
		return nil, fmt.Errorf("corrupted snapshot payload: %w", err)
	}
	if err := read(&numSpaces); err != nil {
		return nil, fmt.Errorf("corrupted snapshot payload: %w", err)
	}
	res.Dimensions.LeafCells = int(leafCells)
	res.Dimensions.Spaces = make([]SpaceDim, numSpaces)
	for i := range res.Dimensions.Spaces {
		var space uint32
		var size uint64
		if err := read(&space); err != nil {
			return nil, fmt.Errorf("corrupted snapshot payload: %w", err)
		}
		if err := read(&size); err != nil {
			return nil, fmt.Errorf("corrupted snapshot payload: %w", err)
		}
		res.Dimensions.Spaces[i] = SpaceDim{Space: common.AddressSpace(space), Size: common.Pointer(size)}
	}

	var numEntries uint64
	if err := read(&numEntries); err != nil {
		return nil, fmt.Errorf("corrupted snapshot payload: %w", err)
	}
	res.Image = NewImage()
	for range numEntries {
		var space, value uint32
		var pointer uint64
		if err := read(&space); err != nil {
			return nil, fmt.Errorf("corrupted snapshot payload: %w", err)
		}
		if err := read(&pointer); err != nil {
			return nil, fmt.Errorf("corrupted snapshot payload: %w", err)
		}
		if err := read(&value); err != nil {
			return nil, fmt.Errorf("corrupted snapshot payload: %w", err)
		}
		res.Image.Set(common.AddressSpace(space), common.Pointer(pointer), common.Cell(value))
	}
	return res, nil
}
