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
package duet

import (
	"context"
	"sync"

	"github.com/consensys/go-regvm/pkg/util/collection/queue"
)

// status records what an instance attached to a link is currently doing.
type status uint8

const (
	running status = iota
	// blocked signals an instance waiting on an empty inbound queue.
	blocked
	// finished signals an instance which will never send again.
	finished
)

// Link is a duplex connection between two machine instances (numbered 0 and 1)
// consisting of two unbounded FIFO queues, crossed such that the outbound
// queue of one instance is the inbound queue of the other.  The link also
// tracks whether each instance is blocked waiting for a value, or finished.
// This allows it to signal deadlock precisely: once both instances are blocked
// (or one is blocked and the other finished) no value can ever arrive.
type Link struct {
	mutex sync.Mutex
	// inbound[i] holds values waiting to be received by instance i.
	inbound [2]*queue.Queue[int64]
	// wakeup[i] is signalled when a value is pushed for instance i.
	wakeup [2]chan struct{}
	status [2]status
	// Closed once deadlock is established.
	deadlock     chan struct{}
	deadlockOnce sync.Once
}

// NewLink constructs a link with empty queues and both instances running.
func NewLink() *Link {
	return &Link{
		inbound:  [2]*queue.Queue[int64]{queue.NewQueue[int64](), queue.NewQueue[int64]()},
		wakeup:   [2]chan struct{}{make(chan struct{}, 1), make(chan struct{}, 1)},
		deadlock: make(chan struct{}),
	}
}

// Endpoint returns the port used by a given instance (0 or 1) of this link.
func (p *Link) Endpoint(id int) *Endpoint {
	return &Endpoint{p, id}
}

// Deadlock returns a channel which is closed once both instances are
// permanently stalled.
func (p *Link) Deadlock() <-chan struct{} {
	return p.deadlock
}

// Pending returns the number of values waiting to be received by a given
// instance.
func (p *Link) Pending(id int) uint {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	//
	return p.inbound[id].Len()
}

// Finish records that a given instance will never send again (e.g. because it
// halted, or was cancelled).
func (p *Link) Finish(id int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	//
	p.status[id] = finished
	p.checkDeadlock()
}

func (p *Link) send(target int, value int64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	//
	p.inbound[target].Push(value)
	// A blocked target now has a value to receive.
	if p.status[target] == blocked {
		p.status[target] = running
	}
	// Wake target (if waiting)
	select {
	case p.wakeup[target] <- struct{}{}:
	default:
	}
}

func (p *Link) receive(ctx context.Context, id int) (int64, error) {
	for {
		p.mutex.Lock()
		//
		if !p.inbound[id].IsEmpty() {
			value := p.inbound[id].Pop()
			p.status[id] = running
			p.mutex.Unlock()
			//
			return value, nil
		}
		// Nothing available, so suspend.
		p.status[id] = blocked
		p.checkDeadlock()
		p.mutex.Unlock()
		//
		select {
		case <-p.wakeup[id]:
			// recheck queue
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Check whether both instances are stalled.  Since an instance is only marked
// blocked whilst its inbound queue is empty, and finished instances never
// send, no further progress is possible in this case.  This must be called
// with the mutex held.
func (p *Link) checkDeadlock() {
	var (
		stalled0 = p.status[0] != running
		stalled1 = p.status[1] != running
		anyBlock = p.status[0] == blocked || p.status[1] == blocked
	)
	//
	if stalled0 && stalled1 && anyBlock {
		p.deadlockOnce.Do(func() { close(p.deadlock) })
	}
}

// Endpoint is one side of a link, and provides the port through which a single
// machine instance sends and receives values.
type Endpoint struct {
	link *Link
	id   int
}

// Send implementation for the machine.Port interface.  The value is enqueued
// on the inbound queue of the other instance.
func (p *Endpoint) Send(value int64) {
	p.link.send(1-p.id, value)
}

// Receive implementation for the machine.Port interface.
func (p *Endpoint) Receive(ctx context.Context) (int64, error) {
	return p.link.receive(ctx, p.id)
}
