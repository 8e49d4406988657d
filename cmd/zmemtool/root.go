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
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/zkforge/zmem/boundary"
	"github.com/zkforge/zmem/common/diagnostics"
	"github.com/zkforge/zmem/merkle"
)

var RootCmd = cli.Command{
	Action:    diagnostics.WrapProfilingAction(doRoot, &cpuProfileFlag, &traceFlag),
	Name:      "root",
	Usage:     "recompute the commitment root of a stored snapshot and verify it against the stored root",
	ArgsUsage: "<snapshot db> <segment>",
	Flags: []cli.Flag{
		&hasherFlag,
	},
}

var hasherFlag = cli.StringFlag{
	Name:  "hasher",
	Usage: "commitment tree node function, keccak or pedersen",
	Value: "keccak",
}

func doRoot(context *cli.Context) error {
	if context.Args().Len() != 2 {
		return fmt.Errorf("expected snapshot db directory and segment number")
	}
	segment, err := strconv.ParseUint(context.Args().Get(1), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid segment number: %w", err)
	}

	store, err := boundary.OpenSnapshotStore(context.Args().Get(0))
	if err != nil {
		return err
	}
	defer store.Close()

	snapshot, err := store.Get(segment)
	if err != nil {
		return err
	}

	hasher, err := merkle.NewHasher(context.String(hasherFlag.Name))
	if err != nil {
		return err
	}
	persistent, err := boundary.NewPersistent(snapshot.Dimensions, snapshot.Image, hasher)
	if err != nil {
		return err
	}

	root := persistent.InitialRoot()
	fmt.Printf("stored root:     %v\n", snapshot.Root)
	fmt.Printf("recomputed root: %v\n", root)
	if root != snapshot.Root {
		return fmt.Errorf("root mismatch, snapshot of segment %d is corrupted", segment)
	}
	fmt.Println("roots match")
	return nil
}
