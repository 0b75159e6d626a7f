// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package queue

// Queue represents an unbounded FIFO queue which is implemented using an
// array.  Space at the front of the array is reclaimed once it accounts for
// more than half the array.  A queue is not safe for concurrent use.
type Queue[T any] struct {
	items []T
	head  int
}

// NewQueue returns an empty queue
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// IsEmpty checks whether or not there are still items in the queue
func (p *Queue[T]) IsEmpty() bool {
	return p.Len() == 0
}

// Len returns the number of items in the queue.
func (p *Queue[T]) Len() uint {
	return uint(len(p.items) - p.head)
}

// Peek at the nth item from the front of the queue.
func (p *Queue[T]) Peek(offset uint) T {
	var n = p.head + int(offset)
	//
	if n >= len(p.items) {
		panic("peek out-of-bounds")
	}
	//
	return p.items[n]
}

// Push a new item onto the back of the queue
func (p *Queue[T]) Push(item T) {
	p.items = append(p.items, item)
}

// Pop the item at the front of the queue
func (p *Queue[T]) Pop() T {
	var empty T
	//
	if p.IsEmpty() {
		panic("cannot pop from empty queue")
	}
	// Get first item
	item := p.items[p.head]
	// Clear slot so it can be collected
	p.items[p.head] = empty
	p.head++
	// Compact when the dead prefix dominates
	if p.head == len(p.items) {
		p.items, p.head = p.items[:0], 0
	} else if p.head > len(p.items)/2 {
		n := copy(p.items, p.items[p.head:])
		p.items, p.head = p.items[:n], 0
	}
	// Done
	return item
}
