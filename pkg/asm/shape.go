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
package asm

import (
	"github.com/consensys/go-regvm/pkg/vm/expr"
	"github.com/consensys/go-regvm/pkg/vm/instruction"
)

// operandKind determines what may appear in a given operand position.
type operandKind uint8

const (
	// anyOperand accepts either a register or a literal.
	anyOperand operandKind = iota
	// registerOperand accepts only a register, since it is written.
	registerOperand
)

// shape describes the textual form of an instruction, and how it maps onto the
// underlying instruction set.
type shape struct {
	operands []operandKind
	build    func(args []expr.Expr) instruction.Instruction
}

// Shapes for all mnemonics across both dialects.  Observe that "set" has its
// operands in the opposite order from "cpy", and is normalised accordingly.
var shapes = map[string]shape{
	"cpy": {[]operandKind{anyOperand, registerOperand}, func(args []expr.Expr) instruction.Instruction {
		return instruction.Copy(args[0], args[1])
	}},
	"set": {[]operandKind{registerOperand, anyOperand}, func(args []expr.Expr) instruction.Instruction {
		return instruction.Copy(args[1], args[0])
	}},
	"inc": {[]operandKind{registerOperand}, func(args []expr.Expr) instruction.Instruction {
		return instruction.Increment(args[0])
	}},
	"dec": {[]operandKind{registerOperand}, func(args []expr.Expr) instruction.Instruction {
		return instruction.Decrement(args[0])
	}},
	"jnz": {[]operandKind{anyOperand, anyOperand}, func(args []expr.Expr) instruction.Instruction {
		return instruction.JumpIfNonZero(args[0], args[1])
	}},
	"tgl": {[]operandKind{anyOperand}, func(args []expr.Expr) instruction.Instruction {
		return instruction.Toggle(args[0])
	}},
	"add": {[]operandKind{registerOperand, anyOperand}, func(args []expr.Expr) instruction.Instruction {
		return instruction.Add(args[0], args[1])
	}},
	"mul": {[]operandKind{registerOperand, anyOperand}, func(args []expr.Expr) instruction.Instruction {
		return instruction.Multiply(args[0], args[1])
	}},
	"mod": {[]operandKind{registerOperand, anyOperand}, func(args []expr.Expr) instruction.Instruction {
		return instruction.Modulo(args[0], args[1])
	}},
	"snd": {[]operandKind{anyOperand}, func(args []expr.Expr) instruction.Instruction {
		return instruction.Send(args[0])
	}},
	"rcv": {[]operandKind{registerOperand}, func(args []expr.Expr) instruction.Instruction {
		return instruction.Receive(args[0])
	}},
}
