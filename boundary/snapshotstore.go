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
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// SnapshotStore persists encoded snapshots in a LevelDB database, keyed by
// segment index, realizing the durable side of the continuation handoff.
type SnapshotStore struct {
	db *leveldb.DB
}

var snapshotKeyPrefix = []byte("snapshot/")

// OpenSnapshotStore opens (or creates) the snapshot database at the given
// path.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

func snapshotKey(segment uint64) []byte {
	key := make([]byte, len(snapshotKeyPrefix)+8)
	copy(key, snapshotKeyPrefix)
	binary.BigEndian.PutUint64(key[len(snapshotKeyPrefix):], segment)
	return key
}

// Put stores the given snapshot, replacing any snapshot of the same
// segment.
func (s *SnapshotStore) Put(snapshot *Snapshot) error {
	blob, err := snapshot.Encode()
	if err != nil {
		return err
	}
	return s.db.Put(snapshotKey(snapshot.Segment), blob, nil)
}

// Get loads the snapshot of the given segment.
func (s *SnapshotStore) Get(segment uint64) (*Snapshot, error) {
	blob, err := s.db.Get(snapshotKey(segment), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot of segment %d: %w", segment, err)
	}
	return DecodeSnapshot(blob)
}

// Segments lists the segments with stored snapshots, in ascending order.
func (s *SnapshotStore) Segments() ([]uint64, error) {
	iter := s.db.NewIterator(util.BytesPrefix(snapshotKeyPrefix), nil)
	defer iter.Release()
	var segments []uint64
	for iter.Next() {
		key := iter.Key()
		segments = append(segments, binary.BigEndian.Uint64(key[len(snapshotKeyPrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return segments, nil
}

// Close flushes and closes the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
