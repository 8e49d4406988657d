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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func writeTrace(t *testing.T, trace traceFile) string {
	t.Helper()
	blob, err := json.Marshal(trace)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(t, os.WriteFile(path, blob, 0644))
	return path
}

func testTrace(persistent bool) traceFile {
	return traceFile{
		Config: traceConfig{
			Spaces:       []traceSpace{{Space: 1, Size: 64}},
			MinBlockSize: 1,
			MaxBlockSize: 8,
			PageSize:     16,
			MaxAccesses:  100,
			Persistent:   persistent,
		},
		Accesses: []traceAccess{
			{Op: "write", Space: 1, Pointer: 0, Data: []uint32{1, 2, 3, 4}},
			{Op: "read", Space: 1, Pointer: 0, Size: 4},
			{Op: "advance", Delta: 3},
			{Op: "read", Space: 1, Pointer: 2, Size: 2},
		},
	}
}

func TestReplay_VolatileTraceRunsThrough(t *testing.T) {
	app := &cli.App{
		Flags:    []cli.Flag{&cpuProfileFlag, &traceFlag},
		Commands: []*cli.Command{&ReplayCmd},
	}
	err := app.Run([]string{"zmemtool", "replay", writeTrace(t, testTrace(false))})
	require.NoError(t, err)
}

func TestReplay_PersistentTraceChainsThroughSnapshotStore(t *testing.T) {
	require := require.New(t)
	app := &cli.App{
		Flags:    []cli.Flag{&cpuProfileFlag, &traceFlag},
		Commands: []*cli.Command{&ReplayCmd, &RootCmd, &SnapshotsCmd},
	}
	db := t.TempDir()
	trace := writeTrace(t, testTrace(true))

	// Two replays extend the chain by one segment each.
	require.NoError(app.Run([]string{"zmemtool", "replay", "--snapshot-db=" + db, trace}))
	require.NoError(app.Run([]string{"zmemtool", "replay", "--snapshot-db=" + db, trace}))

	require.NoError(app.Run([]string{"zmemtool", "snapshots", db}))
	require.NoError(app.Run([]string{"zmemtool", "root", db, "1"}))
	require.Error(app.Run([]string{"zmemtool", "root", db, "5"}))
}

func TestReplay_MissingTraceFileIsAnError(t *testing.T) {
	app := &cli.App{
		Flags:    []cli.Flag{&cpuProfileFlag, &traceFlag},
		Commands: []*cli.Command{&ReplayCmd},
	}
	require.Error(t, app.Run([]string{"zmemtool", "replay", "/does/not/exist.json"}))
	require.Error(t, app.Run([]string{"zmemtool", "replay"}))
}
