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
package machine

import (
	"context"
	"errors"

	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/program"
	"github.com/consensys/go-regvm/pkg/vm/register"
)

// ErrNoPort is returned when a channel instruction is executed by a machine
// which has no port attached.
var ErrNoPort = errors.New("no port attached")

// Port provides the interface between an executing machine and the outside
// world for the purposes of message passing.  A port has an outbound side
// (written by Send) and an inbound side (read by Receive).
type Port interface {
	// Send enqueues a value on the outbound side of this port.  This never
	// blocks.
	Send(value int64)
	// Receive dequeues the next value from the inbound side of this port,
	// suspending until a value is available.  If the context is cancelled
	// whilst waiting, then an error is returned and nothing is dequeued.
	Receive(ctx context.Context) (int64, error)
}

// Step executes the instruction at a given position in a program against a
// given register set, returning the position of the next instruction to
// execute.  The position must lie within the program.  This only covers the
// synchronous instructions: since no port is available, any "snd" or "rcv"
// encountered is treated as inert.  Programs using channels should be
// executed through a Core with an attached port.
func Step(prog *program.Program, regs register.Set, pc int) int {
	next, err := step(context.Background(), prog, regs, pc, nil)
	//
	if err != nil {
		return pc + 1
	}
	//
	return next
}

// Execute a single instruction.  An error is only possible for channel
// instructions, in which case the register state is left untouched.
func step(ctx context.Context, prog *program.Program, regs register.Set, pc int, port Port) (int, error) {
	var (
		insn = prog.At(pc)
		lhs  = insn.Args[0]
		rhs  = insn.Args[1]
	)
	//
	if insn.Inert() {
		return pc + 1, nil
	}
	//
	switch insn.Op {
	case instruction.CPY:
		regs.Store(rhs.Name(), lhs.Evaluate(regs))
	case instruction.INC:
		regs.Store(lhs.Name(), regs.Load(lhs.Name())+1)
	case instruction.DEC:
		regs.Store(lhs.Name(), regs.Load(lhs.Name())-1)
	case instruction.JNZ:
		if lhs.Evaluate(regs) != 0 {
			return pc + int(rhs.Evaluate(regs)), nil
		}
	case instruction.TGL:
		prog.Toggle(pc + int(lhs.Evaluate(regs)))
	case instruction.ADD:
		regs.Store(lhs.Name(), regs.Load(lhs.Name())+rhs.Evaluate(regs))
	case instruction.MUL:
		regs.Store(lhs.Name(), regs.Load(lhs.Name())*rhs.Evaluate(regs))
	case instruction.MOD:
		// modulo zero leaves the register unchanged
		if divisor := rhs.Evaluate(regs); divisor != 0 {
			regs.Store(lhs.Name(), regs.Load(lhs.Name())%divisor)
		}
	case instruction.SND:
		if port == nil {
			return pc, ErrNoPort
		}
		//
		port.Send(lhs.Evaluate(regs))
	case instruction.RCV:
		if port == nil {
			return pc, ErrNoPort
		}
		//
		value, err := port.Receive(ctx)
		if err != nil {
			return pc, err
		}
		//
		regs.Store(lhs.Name(), value)
	}
	//
	return pc + 1, nil
}
