// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package memory

import (
	"github.com/zkforge/zmem/adapter"
	"github.com/zkforge/zmem/boundary"
	"github.com/zkforge/zmem/common"
	"github.com/zkforge/zmem/offline"
	"github.com/zkforge/zmem/online"
)

// ProofInput bundles everything the proving backend needs to argue the
// consistency of one finalized segment: the access log with its replay
// witness, the adapter records, the trace rows, and the boundary
// commitments. It is produced exactly once per controller, by Finalize.
type ProofInput struct {
	// Accesses is the online log in timestamp order; Aux is aligned with it
	// by index and supplies each access's previous value and timestamp.
	Accesses []online.AccessRecord
	Aux      []offline.AccessAux

	// Adapters holds the split and merge records in emission order.
	Adapters []adapter.Record

	// Blocks are the finalized block records, sorted by space and pointer;
	// Rows is their trace encoding.
	Blocks []offline.BlockRecord
	Rows   [][]common.Cell

	// BoundaryRows carries the per-block boundary assertions of a volatile
	// segment; nil under a persistent boundary.
	BoundaryRows []boundary.Row

	// InitialRoot and FinalRoot commit to the memory state at segment start
	// and end under a persistent boundary; zero otherwise.
	InitialRoot common.Hash
	FinalRoot   common.Hash

	// Snapshot is the handoff to the next segment of a persistent chain;
	// nil under a volatile boundary.
	Snapshot *boundary.Snapshot

	// Dimensions is the committed address layout; the constraint backend
	// sizes its tables from it.
	Dimensions boundary.Dimensions
}
