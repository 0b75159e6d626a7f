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

	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/program"
	"github.com/consensys/go-regvm/pkg/vm/register"
	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Machine represents anything which can be executed in chunks of steps.
type Machine interface {
	// Execute the machine for (upto) the given number of steps, returning the
	// actual number of steps executed and an error (if execution failed).
	// Fewer steps than requested are executed only when the machine halts or
	// an error arises.
	Execute(ctx context.Context, steps uint) (uint, error)
}

// ExecuteAll executes a given machine to completion in chunks of n steps,
// returning the number of steps executed and/or any error arising.  A chunk
// size of zero is taken as DEFAULT_CHUNK.
func ExecuteAll[M Machine](ctx context.Context, machine M, n uint) (uint, error) {
	var nsteps uint
	//
	if n == 0 {
		n = DEFAULT_CHUNK
	}
	//
	for {
		// Execute upto n steps
		m, err := machine.Execute(ctx, n)
		// update the tally
		nsteps += m
		// check for termination
		if err != nil || m < n {
			return nsteps, err
		}
	}
}

// Observer is notified after each instruction executed by a core, receiving
// the position of the instruction, the instruction itself (as it was when
// executed) and the register state afterwards.
type Observer func(pc int, insn instruction.Instruction, regs register.Set)

// Core represents a single executing interpreter.  It owns a register set and
// a program counter, and executes one instruction per step against a program.
// The core halts as soon as its program counter leaves the program.  A core
// must only be driven by a single goroutine, though its counters can be read
// concurrently (e.g. by a watchdog).
type Core struct {
	program   *program.Program
	registers register.Set
	pc        int
	port      Port
	observer  Observer
	// Number of instructions executed so far.
	steps atomic.Uint64
	// Number of values sent so far.
	sends atomic.Uint64
}

// New constructs a core for a given program whose registers are initialised
// from a given seed.  The core begins at the first instruction.
func New(prog *program.Program, seed map[register.Name]int64) *Core {
	return &Core{
		program:   prog,
		registers: register.NewSet(seed),
	}
}

// WithPort attaches a port to this core, thus enabling channel instructions.
func (p *Core) WithPort(port Port) *Core {
	p.port = port
	return p
}

// WithObserver attaches an observer which is notified after each step.
func (p *Core) WithObserver(observer Observer) *Core {
	p.observer = observer
	return p
}

// Features returns the set of features supported by this core.  Toggling is
// always supported, whilst channels are supported only when a port is
// attached.
func (p *Core) Features() instruction.Feature {
	if p.port != nil {
		return instruction.ALL
	}
	//
	return instruction.TOGGLE
}

// Validate that the program of this core can be executed by it.
func (p *Core) Validate() error {
	return p.program.Validate(p.Features())
}

// Program returns the program being executed by this core.
func (p *Core) Program() *program.Program {
	return p.program
}

// Registers returns the register set of this core.
func (p *Core) Registers() register.Set {
	return p.registers
}

// PC returns the current program counter position.
func (p *Core) PC() int {
	return p.pc
}

// Halted checks whether the program counter has left the program.
func (p *Core) Halted() bool {
	return !p.program.Contains(p.pc)
}

// Steps returns the number of instructions executed so far.  This is safe to
// call from any goroutine.
func (p *Core) Steps() uint64 {
	return p.steps.Load()
}

// Sends returns the number of values sent so far.  This is safe to call from
// any goroutine.
func (p *Core) Sends() uint64 {
	return p.sends.Load()
}

// Step executes a single instruction, unless the core has halted.  The context
// is checked before anything else so that a cancelled core stops at an
// instruction boundary.  If an error is returned, then the instruction did not
// execute and the state of the core is unchanged.
func (p *Core) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	} else if p.Halted() {
		return nil
	}
	//
	var (
		pc   = p.pc
		insn = p.program.At(pc)
	)
	//
	next, err := step(ctx, p.program, p.registers, pc, p.port)
	if err != nil {
		return err
	}
	//
	p.pc = next
	//
	if insn.Op == instruction.SND && !insn.Inert() {
		p.sends.Inc()
	}
	//
	p.steps.Inc()
	//
	if p.observer != nil {
		p.observer(pc, insn, p.registers)
	}
	//
	return nil
}

// Execute implementation for the Machine interface.
func (p *Core) Execute(ctx context.Context, steps uint) (uint, error) {
	var nsteps uint
	//
	for ; nsteps < steps && !p.Halted(); nsteps++ {
		if err := p.Step(ctx); err != nil {
			return nsteps, err
		}
	}
	//
	if nsteps > 0 && p.Halted() {
		log.Debugf("halted at %d after %d steps", p.pc, p.Steps())
	}
	//
	return nsteps, nil
}

// RunToHalt executes a given program from a given initial register state until
// it halts, returning the final register state.  The program is validated
// first, and an error is returned if it cannot be executed without a port.
// Since the program may toggle its own instructions, it is modified in place.
func RunToHalt(ctx context.Context, prog *program.Program, seed map[register.Name]int64) (register.Set, error) {
	core := New(prog, seed)
	//
	if err := core.Validate(); err != nil {
		return register.Set{}, err
	} else if _, err := ExecuteAll(ctx, core, DEFAULT_CHUNK); err != nil {
		return register.Set{}, err
	}
	//
	return core.Registers(), nil
}

// DEFAULT_CHUNK determines the default number of steps executed in one go by
// RunToHalt.
const DEFAULT_CHUNK uint = 1024
