// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package merkle

import (
	"sync/atomic"
)

// This file provides a small task execution framework for the tree's path
// recomputation, not intended for use outside this package. Tasks form a
// tree: each task may depend on multiple child tasks, but has at most one
// parent task depending on it. These properties are not verified.
//
// The intended usage is to
//  1. create a set of tasks, closed under dependencies, topologically
//     sorted such that no task appears before any of its dependencies
//  2. call [runTasks]() with the set of tasks
//
// The framework executes the tasks in parallel, respecting dependencies,
// and returns once all tasks have completed.

// task is a unit of work with a number of yet unfulfilled dependencies and
// an optional parent task to notify on completion.
type task struct {
	action          func()       // < the action to perform
	numDependencies atomic.Int32 // < number of dependencies before this task can run
	parentTask      *task        // < optional parent task to notify when done
}

// newTask creates a task with the specified action and number of
// dependencies. The task becomes runnable once all dependencies are
// satisfied.
func newTask(action func(), numDependencies int) *task {
	t := &task{action: action}
	t.numDependencies.Store(int32(numDependencies))
	return t
}

// run executes the task's action and may return a parent task that becomes
// ready to run as a result, or nil.
func (t *task) run() *task {
	t.action()
	if t.parentTask == nil {
		return nil
	}
	if t.parentTask.numDependencies.Add(-1) != 0 {
		return nil // not ready yet
	}
	return t.parentTask
}

// runTasks executes the given tasks in parallel, respecting their
// dependencies. The provided list must include all tasks needed to satisfy
// dependencies; this is not validated, and missing dependencies deadlock.
func runTasks(tasks []*task) {
	// For few tasks the parallelism overhead is not worth it.
	if len(tasks) < 20 {
		for _, task := range tasks {
			task.action()
		}
		return
	}

	const numWorkers = 7 // + this thread
	completedTasks := atomic.Uint32{}

	// Collect the tasks that are ready to run immediately.
	workList := make([]*task, 0, len(tasks))
	for _, task := range tasks {
		if task.numDependencies.Load() == 0 {
			workList = append(workList, task)
		}
	}

	pos := atomic.Int32{}
	processTasks := func() {
		for {
			next := pos.Add(1) - 1
			if int(next) >= len(workList) {
				return
			}
			// Run this task and all tasks becoming ready as a result.
			task := workList[next]
			for task != nil {
				task = task.run()
				completedTasks.Add(1)
			}
		}
	}

	for range numWorkers {
		go processTasks()
	}

	// This thread helps with running tasks as well.
	processTasks()

	// The tasks are short and reasonably balanced; a busy wait here beats a
	// wait group, as processing may finish before the last worker is even
	// scheduled.
	for completedTasks.Load() < uint32(len(tasks)) {
	}
}
