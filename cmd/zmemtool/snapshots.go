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

	"github.com/urfave/cli/v2"

	"github.com/zkforge/zmem/boundary"
)

var SnapshotsCmd = cli.Command{
	Action:    doListSnapshots,
	Name:      "snapshots",
	Usage:     "list the snapshots of a snapshot store",
	ArgsUsage: "<snapshot db>",
}

func doListSnapshots(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("missing snapshot db directory parameter")
	}
	store, err := boundary.OpenSnapshotStore(context.Args().Get(0))
	if err != nil {
		return err
	}
	defer store.Close()

	segments, err := store.Segments()
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		fmt.Println("no snapshots stored")
		return nil
	}
	for _, segment := range segments {
		snapshot, err := store.Get(segment)
		if err != nil {
			return err
		}
		fmt.Printf("segment %d: root %v, %d image entries\n",
			segment, snapshot.Root, snapshot.Image.Len())
	}
	return nil
}
