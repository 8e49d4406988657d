// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package online provides the runtime-facing memory log: it answers reads
// and writes immediately during execution and appends every access, with a
// strictly increasing logical timestamp, to an ordered log consumed later
// by the offline replay.
package online

import (
	"fmt"
	"unsafe"

	"github.com/zkforge/zmem/common"
	"github.com/zkforge/zmem/store"
)

// Kind distinguishes read from write accesses.
type Kind byte

const (
	KindRead Kind = iota
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	}
	return "unknown"
}

// AccessID identifies an access record within the log.
type AccessID int

// AccessRecord describes one memory access. Records are created exclusively
// by the log at access time and are never mutated afterwards.
type AccessRecord struct {
	Kind    Kind
	Space   common.AddressSpace
	Pointer common.Pointer
	Size    int
	Time    common.Timestamp
	Data    []common.Cell
	// PrevData holds the overwritten cells for write accesses; nil for reads.
	PrevData []common.Cell
}

// Log is the online memory. It owns the backing sparse store and the
// timestamp counter; every access advances the timestamp by exactly one and
// appends exactly one record.
type Log struct {
	store   *store.Store
	now     common.Timestamp
	records []AccessRecord
}

// NewLog creates an empty log owning the given store. The timestamp counter
// starts right after the reserved bootstrap timestamp.
func NewLog(store *store.Store) *Log {
	return &Log{
		store: store,
		now:   common.BootstrapTime,
	}
}

// Read provides the current cells of the addressed block, advances the
// timestamp, and appends a read record. Reads of the immediate address
// space are answered by the identity rule without consulting the store.
func (l *Log) Read(space common.AddressSpace, pointer common.Pointer, size int) ([]common.Cell, AccessID) {
	var data []common.Cell
	if space == common.ImmediateSpace {
		data = make([]common.Cell, size)
		for i := range data {
			data[i] = common.Cell(pointer + common.Pointer(i))
		}
	} else {
		data = l.store.GetRange(space, pointer, size)
	}
	l.now++
	l.records = append(l.records, AccessRecord{
		Kind:    KindRead,
		Space:   space,
		Pointer: pointer,
		Size:    size,
		Time:    l.now,
		Data:    data,
	})
	return data, AccessID(len(l.records) - 1)
}

// Write stores the given cells at the addressed block, advances the
// timestamp, and appends a write record. The overwritten cells are
// returned. Writes to the immediate address space are a contract violation.
func (l *Log) Write(space common.AddressSpace, pointer common.Pointer, data []common.Cell) ([]common.Cell, AccessID) {
	if space == common.ImmediateSpace {
		panic(fmt.Sprintf("write to immediate address space at pointer %d", pointer))
	}
	prev := l.store.GetRange(space, pointer, len(data))
	l.store.SetRange(space, pointer, data)
	l.now++
	l.records = append(l.records, AccessRecord{
		Kind:     KindWrite,
		Space:    space,
		Pointer:  pointer,
		Size:     len(data),
		Time:     l.now,
		Data:     append([]common.Cell(nil), data...),
		PrevData: prev,
	})
	return prev, AccessID(len(l.records) - 1)
}

// AdvanceTimestamp consumes logical time without touching memory, for
// instructions that perform no access. The delta must be at least one.
func (l *Log) AdvanceTimestamp(delta uint64) {
	if delta < 1 {
		panic("timestamp delta must be at least 1")
	}
	l.now += common.Timestamp(delta)
}

// Now provides the current timestamp without side effects.
func (l *Log) Now() common.Timestamp {
	return l.now
}

// Records provides the ordered access log. The returned slice is owned by
// the log and must be treated as read-only.
func (l *Log) Records() []AccessRecord {
	return l.records
}

// GetMemoryFootprint provides the size of the log in memory in bytes,
// excluding the backing store.
func (l *Log) GetMemoryFootprint() *common.MemoryFootprint {
	var record AccessRecord
	var cell common.Cell
	size := unsafe.Sizeof(*l) + uintptr(len(l.records))*unsafe.Sizeof(record)
	for _, r := range l.records {
		size += uintptr(len(r.Data)+len(r.PrevData)) * unsafe.Sizeof(cell)
	}
	return common.NewMemoryFootprint(size)
}
