// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/zkforge/zmem/boundary"
	"github.com/zkforge/zmem/common"
	"github.com/zkforge/zmem/common/diagnostics"
	"github.com/zkforge/zmem/memory"
)

var ReplayCmd = cli.Command{
	Action:    diagnostics.WrapProfilingAction(doReplay, &cpuProfileFlag, &traceFlag),
	Name:      "replay",
	Usage:     "run a JSON trace file through the memory subsystem and report the proof input summary",
	ArgsUsage: "<trace file>",
	Flags: []cli.Flag{
		&snapshotDbFlag,
	},
}

var snapshotDbFlag = cli.StringFlag{
	Name:  "snapshot-db",
	Usage: "directory of the snapshot store; continues from the latest stored segment and stores the successor",
	Value: "",
}

// traceFile is the on-disk trace format: the segment configuration
// followed by the access sequence in execution order.
type traceFile struct {
	Config   traceConfig   `json:"config"`
	Accesses []traceAccess `json:"accesses"`
}

type traceConfig struct {
	Spaces       []traceSpace `json:"spaces"`
	MinBlockSize int          `json:"minBlockSize"`
	MaxBlockSize int          `json:"maxBlockSize"`
	PageSize     int          `json:"pageSize"`
	MaxAccesses  int          `json:"maxAccesses"`
	Hasher       string       `json:"hasher"`
	Persistent   bool         `json:"persistent"`
}

type traceSpace struct {
	Space uint32 `json:"space"`
	Size  uint64 `json:"size"`
}

type traceAccess struct {
	Op      string   `json:"op"` // read, write, or advance
	Space   uint32   `json:"space"`
	Pointer uint64   `json:"pointer"`
	Size    int      `json:"size"`
	Data    []uint32 `json:"data"`
	Delta   uint64   `json:"delta"`
}

func doReplay(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("missing trace file parameter")
	}
	blob, err := os.ReadFile(context.Args().Get(0))
	if err != nil {
		return fmt.Errorf("failed to read trace file: %w", err)
	}
	var trace traceFile
	if err := json.Unmarshal(blob, &trace); err != nil {
		return fmt.Errorf("failed to parse trace file: %w", err)
	}

	config := toConfig(trace.Config)

	var store *boundary.SnapshotStore
	if dir := context.String(snapshotDbFlag.Name); dir != "" {
		if config.Boundary != memory.Persistent {
			return fmt.Errorf("--%s requires a persistent trace configuration", snapshotDbFlag.Name)
		}
		store, err = boundary.OpenSnapshotStore(dir)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	ctrl, err := openController(config, store)
	if err != nil {
		return err
	}
	fmt.Printf("replaying segment %d, %d accesses\n", ctrl.Segment(), len(trace.Accesses))

	for i, access := range trace.Accesses {
		switch access.Op {
		case "read":
			ctrl.Read(common.AddressSpace(access.Space), common.Pointer(access.Pointer), access.Size)
		case "write":
			ctrl.Write(common.AddressSpace(access.Space), common.Pointer(access.Pointer), toCells(access.Data))
		case "advance":
			ctrl.IncrementTimestamp(access.Delta)
		default:
			return fmt.Errorf("access %d: unknown operation %q", i, access.Op)
		}
	}

	input, err := ctrl.Finalize()
	if err != nil {
		return err
	}

	fmt.Printf("accesses:      %d\n", len(input.Accesses))
	fmt.Printf("adapters:      %d\n", len(input.Adapters))
	fmt.Printf("blocks:        %d\n", len(input.Blocks))
	fmt.Printf("trace rows:    %d\n", len(input.Rows))
	if input.Snapshot != nil {
		fmt.Printf("initial root:  %v\n", input.InitialRoot)
		fmt.Printf("final root:    %v\n", input.FinalRoot)
	} else {
		fmt.Printf("boundary rows: %d\n", len(input.BoundaryRows))
	}

	if store != nil {
		if err := store.Put(input.Snapshot); err != nil {
			return fmt.Errorf("failed to store successor snapshot: %w", err)
		}
		fmt.Printf("stored snapshot of segment %d\n", input.Snapshot.Segment)
	}
	return nil
}

// openController continues from the latest stored snapshot if there is
// one, and starts a fresh segment otherwise.
func openController(config memory.Config, store *boundary.SnapshotStore) (*memory.Controller, error) {
	if store != nil {
		segments, err := store.Segments()
		if err != nil {
			return nil, err
		}
		if len(segments) > 0 {
			snapshot, err := store.Get(segments[len(segments)-1])
			if err != nil {
				return nil, err
			}
			return memory.NewFromSnapshot(config, snapshot)
		}
	}
	return memory.New(config)
}

func toConfig(trace traceConfig) memory.Config {
	spaces := make([]boundary.SpaceDim, len(trace.Spaces))
	for i, space := range trace.Spaces {
		spaces[i] = boundary.SpaceDim{
			Space: common.AddressSpace(space.Space),
			Size:  common.Pointer(space.Size),
		}
	}
	kind := memory.Volatile
	if trace.Persistent {
		kind = memory.Persistent
	}
	return memory.Config{
		Spaces:       spaces,
		MinBlockSize: trace.MinBlockSize,
		MaxBlockSize: trace.MaxBlockSize,
		PageSize:     trace.PageSize,
		MaxAccesses:  trace.MaxAccesses,
		Hasher:       trace.Hasher,
		Boundary:     kind,
	}
}

func toCells(values []uint32) []common.Cell {
	cells := make([]common.Cell, len(values))
	for i, value := range values {
		cells[i] = common.Cell(value)
	}
	return cells
}
