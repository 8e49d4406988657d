// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package store provides the paged sparse store backing the online memory:
// a lazily allocated map from (address space, pointer) to cells, organised
// in fixed-size pages so that untouched regions of the address space cost
// nothing.
package store

import (
	"strconv"
	"unsafe"

	"github.com/zkforge/zmem/common"
)

// pageTable holds the pages of a single address space. Pages are allocated
// on first write; reads of unallocated pages yield the zero value without
// allocating.
type pageTable[I common.Identifier, V any] struct {
	pageSize I
	pages    map[I][]V
}

func newPageTable[I common.Identifier, V any](pageSize I) *pageTable[I, V] {
	return &pageTable[I, V]{
		pageSize: pageSize,
		pages:    map[I][]V{},
	}
}

func (t *pageTable[I, V]) get(index I) (value V) {
	page, exists := t.pages[index/t.pageSize]
	if !exists {
		return value
	}
	return page[index%t.pageSize]
}

func (t *pageTable[I, V]) set(index I, value V) {
	pageNum := index / t.pageSize
	page, exists := t.pages[pageNum]
	if !exists {
		page = make([]V, t.pageSize)
		t.pages[pageNum] = page
	}
	page[index%t.pageSize] = value
}

// Store is the paged sparse cell store. One page table is maintained per
// address space, created on first use.
type Store struct {
	pageSize common.Pointer
	spaces   map[common.AddressSpace]*pageTable[common.Pointer, common.Cell]
}

// New creates an empty store using pages of the given number of cells.
func New(pageSize int) *Store {
	return &Store{
		pageSize: common.Pointer(pageSize),
		spaces:   map[common.AddressSpace]*pageTable[common.Pointer, common.Cell]{},
	}
}

// Get provides the cell stored at the given address, or the bootstrap value
// zero if the address was never written. No page is allocated by a read.
func (s *Store) Get(space common.AddressSpace, pointer common.Pointer) common.Cell {
	table, exists := s.spaces[space]
	if !exists {
		return 0
	}
	return table.get(pointer)
}

// Set stores a cell at the given address, allocating its page if needed.
func (s *Store) Set(space common.AddressSpace, pointer common.Pointer, value common.Cell) {
	table, exists := s.spaces[space]
	if !exists {
		table = newPageTable[common.Pointer, common.Cell](s.pageSize)
		s.spaces[space] = table
	}
	table.set(pointer, value)
}

// GetRange provides the block of cells starting at the given address.
func (s *Store) GetRange(space common.AddressSpace, pointer common.Pointer, size int) []common.Cell {
	res := make([]common.Cell, size)
	for i := range res {
		res[i] = s.Get(space, pointer+common.Pointer(i))
	}
	return res
}

// SetRange stores a block of cells starting at the given address.
func (s *Store) SetRange(space common.AddressSpace, pointer common.Pointer, values []common.Cell) {
	for i, value := range values {
		s.Set(space, pointer+common.Pointer(i), value)
	}
}

// GetMemoryFootprint provides the size of the store in memory in bytes.
func (s *Store) GetMemoryFootprint() *common.MemoryFootprint {
	var cell common.Cell
	mf := common.NewMemoryFootprint(unsafe.Sizeof(*s))
	for space, table := range s.spaces {
		pages := uintptr(len(table.pages)) * uintptr(table.pageSize) * unsafe.Sizeof(cell)
		mf.AddChild(spaceName(space), common.NewMemoryFootprint(unsafe.Sizeof(*table)+pages))
	}
	return mf
}

func spaceName(space common.AddressSpace) string {
	return "space-" + strconv.FormatUint(uint64(space), 10)
}
