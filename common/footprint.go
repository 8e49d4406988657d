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
	"fmt"
	"sort"
	"strings"
)

// MemoryFootprint describes the memory consumption of a component and its
// sub-components in bytes.
type MemoryFootprint struct {
	value    uintptr
	children map[string]*MemoryFootprint
}

// NewMemoryFootprint creates a footprint with the given self-size, not
// including any children.
func NewMemoryFootprint(value uintptr) *MemoryFootprint {
	return &MemoryFootprint{value: value}
}

// AddChild registers the footprint of a sub-component under the given name.
func (mf *MemoryFootprint) AddChild(name string, child *MemoryFootprint) {
	if mf.children == nil {
		mf.children = make(map[string]*MemoryFootprint)
	}
	mf.children[name] = child
}

// Value provides the self-size of the component, excluding children.
func (mf *MemoryFootprint) Value() uintptr {
	return mf.value
}

// Total provides the size of the component including all sub-components.
func (mf *MemoryFootprint) Total() uintptr {
	total := mf.value
	for _, child := range mf.children {
		total += child.Total()
	}
	return total
}

func (mf *MemoryFootprint) String() string {
	var sb strings.Builder
	mf.describe(&sb, ".")
	return sb.String()
}

func (mf *MemoryFootprint) describe(sb *strings.Builder, path string) {
	fmt.Fprintf(sb, "%d %s\n", mf.Total(), path)
	names := make([]string, 0, len(mf.children))
	for name := range mf.children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mf.children[name].describe(sb, path+"/"+name)
	}
}
