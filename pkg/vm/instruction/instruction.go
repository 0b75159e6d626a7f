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
package instruction

import (
	"fmt"
	"strings"

	"github.com/consensys/go-regvm/pkg/vm/expr"
	"github.com/consensys/go-regvm/pkg/vm/register"
)

// Instruction provides a concrete notion of a "machine instruction".  That is,
// an opcode together with (up to) two operand expressions.  Instructions are
// pure data and carry no behaviour themselves: their meaning is given by the
// machine which executes them.  This allows a slot in a program to be
// rewritten in place (e.g. by a toggle) simply by overwriting its value.
//
// The role of each operand depends upon the opcode:
//
//	cpy src, dst     Args = [src, dst]
//	inc r / dec r    Args = [r]
//	jnz cond, off    Args = [cond, off]
//	tgl off          Args = [off]
//	add r, e         Args = [r, e]  (likewise mul, mod)
//	snd e            Args = [e]
//	rcv r            Args = [r]
//
// An instruction whose destination operand is a literal (rather than a
// register) is well-formed but "inert".  Such instructions can only arise
// through toggling, and have no effect when executed beyond advancing the
// program counter.
type Instruction struct {
	Op   Opcode
	Args [2]expr.Expr
}

// Copy constructs an instruction "cpy src, dst".
func Copy(src expr.Expr, dst expr.Expr) Instruction {
	return Instruction{CPY, [2]expr.Expr{src, dst}}
}

// Increment constructs an instruction "inc r".
func Increment(reg expr.Expr) Instruction {
	return Instruction{INC, [2]expr.Expr{reg}}
}

// Decrement constructs an instruction "dec r".
func Decrement(reg expr.Expr) Instruction {
	return Instruction{DEC, [2]expr.Expr{reg}}
}

// JumpIfNonZero constructs an instruction "jnz cond, offset".
func JumpIfNonZero(cond expr.Expr, offset expr.Expr) Instruction {
	return Instruction{JNZ, [2]expr.Expr{cond, offset}}
}

// Toggle constructs an instruction "tgl offset".
func Toggle(offset expr.Expr) Instruction {
	return Instruction{TGL, [2]expr.Expr{offset}}
}

// Add constructs an instruction "add r, e".
func Add(reg expr.Expr, value expr.Expr) Instruction {
	return Instruction{ADD, [2]expr.Expr{reg, value}}
}

// Multiply constructs an instruction "mul r, e".
func Multiply(reg expr.Expr, value expr.Expr) Instruction {
	return Instruction{MUL, [2]expr.Expr{reg, value}}
}

// Modulo constructs an instruction "mod r, e".
func Modulo(reg expr.Expr, value expr.Expr) Instruction {
	return Instruction{MOD, [2]expr.Expr{reg, value}}
}

// Send constructs an instruction "snd e".
func Send(value expr.Expr) Instruction {
	return Instruction{SND, [2]expr.Expr{value}}
}

// Receive constructs an instruction "rcv r".
func Receive(reg expr.Expr) Instruction {
	return Instruction{RCV, [2]expr.Expr{reg}}
}

// Operands returns the operands of this instruction, whose length is determined
// by the arity of its opcode.
func (p Instruction) Operands() []expr.Expr {
	return p.Args[:p.Op.Arity()]
}

// Target returns the destination operand of this instruction, if it has one.
func (p Instruction) Target() (expr.Expr, bool) {
	switch p.Op {
	case CPY:
		return p.Args[1], true
	case INC, DEC, RCV, ADD, MUL, MOD:
		return p.Args[0], true
	default:
		return expr.Expr{}, false
	}
}

// Inert determines whether this instruction has a destination operand which is
// not a register.  An inert instruction has no effect when executed, other than
// advancing the program counter.
func (p Instruction) Inert() bool {
	if target, ok := p.Target(); ok {
		return !target.IsRegister()
	}
	//
	return false
}

// Uses returns the set of registers read by this instruction.
func (p Instruction) Uses() []register.Name {
	var regs []register.Name
	//
	for i, arg := range p.Operands() {
		// Destinations of cpy and rcv are written without being read.
		if arg.IsRegister() && !(p.Op == CPY && i == 1) && p.Op != RCV {
			regs = append(regs, arg.Name())
		}
	}
	//
	return regs
}

// Definitions returns the set of registers written by this instruction.
func (p Instruction) Definitions() []register.Name {
	if target, ok := p.Target(); ok && target.IsRegister() {
		return []register.Name{target.Name()}
	}
	//
	return nil
}

// Validate that this instruction is well-formed with respect to a given set of
// enabled features.  Specifically, the opcode must be permitted by the
// features, and any destination operand must be a register unless the
// instruction was produced by toggling (which the caller signals by setting
// allowInert).
func (p Instruction) Validate(features Feature, allowInert bool) error {
	if !p.Op.Valid() {
		return fmt.Errorf("unknown opcode %d", p.Op)
	} else if required := p.Op.Requires(); !features.Has(required) {
		return fmt.Errorf("instruction \"%s\" requires %s", p.String(), required.String())
	} else if !allowInert && p.Inert() {
		return fmt.Errorf("instruction \"%s\" writes to a literal", p.String())
	}
	//
	return nil
}

func (p Instruction) String() string {
	var builder strings.Builder
	//
	builder.WriteString(p.Op.String())
	//
	for _, arg := range p.Operands() {
		builder.WriteString(" ")
		builder.WriteString(arg.String())
	}
	//
	return builder.String()
}
