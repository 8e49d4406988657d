// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package future provides a minimal promise/future pair for handing a single
// result from a background goroutine to its consumer.
//
// The producer side typically looks as follows:
//
//	promise, future := future.Create[T]()
//	go func() {
//	   promise.Fulfill(someOperation())
//	}()
//	return future
//
// A future can be consumed exactly once, by calling Await.
package future

// Promise is the handle used to fulfill a Future.
type Promise[T any] struct {
	C chan<- T
}

// Future is a placeholder for a value produced asynchronously.
type Future[T any] struct {
	C <-chan T
}

// Create initializes a connected Promise and Future pair.
func Create[T any]() (Promise[T], Future[T]) {
	ch := make(chan T, 1)
	return Promise[T]{C: ch}, Future[T]{C: ch}
}

// Immediate creates a Future that is already fulfilled with the given value,
// for cases where no asynchronous computation is needed.
func Immediate[T any](value T) Future[T] {
	ch := make(chan T, 1)
	ch <- value
	close(ch)
	return Future[T]{C: ch}
}

// Fulfill provides the value awaited by the connected Future. It must be
// called exactly once per promise.
func (p Promise[T]) Fulfill(value T) {
	p.C <- value
	close(p.C)
}

// Await blocks until the value is available and returns it. Futures can only
// be consumed once.
func (f Future[T]) Await() T {
	return <-f.C
}
