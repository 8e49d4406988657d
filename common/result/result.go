// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package result

// Result bundles a value with an error, for situations where a single type
// must carry the outcome of a fallible operation, such as channel elements
// or future payloads.
type Result[T any] struct {
	value T
	err   error
}

// Ok creates a Result representing a successful outcome.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err creates a Result representing a failed outcome.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Get returns the contained value and error, forcing the caller to handle
// the failure case.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}
