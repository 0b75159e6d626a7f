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
	"fmt"

	"github.com/consensys/go-regvm/pkg/vm/expr"
	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/program"
	"github.com/consensys/go-regvm/pkg/vm/register"
	"github.com/fxamacker/cbor/v2"
)

// CheckPoint represents a captured state of a core, such that execution can be
// continued later from this position.  Since a program may have rewritten its
// own instructions, the checkpoint captures the program as it is at the time
// of capture, rather than as it was loaded.  Ports and observers are not
// captured.
type CheckPoint struct {
	PC        int                     `cbor:"pc"`
	Steps     uint64                  `cbor:"steps"`
	Registers map[register.Name]int64 `cbor:"registers"`
	Code      []encodedInstruction    `cbor:"code"`
}

type encodedInstruction struct {
	Op   uint8         `cbor:"op"`
	Args []encodedExpr `cbor:"args"`
}

type encodedExpr struct {
	Register string `cbor:"r,omitempty"`
	Value    int64  `cbor:"v,omitempty"`
}

// CheckPoint captures the current state of this core.
func (p *Core) CheckPoint() CheckPoint {
	var code = make([]encodedInstruction, p.program.Len())
	//
	for i, insn := range p.program.Instructions() {
		var args []encodedExpr
		//
		for _, arg := range insn.Operands() {
			args = append(args, encodedExpr{string(arg.Name()), arg.Value()})
		}
		//
		code[i] = encodedInstruction{uint8(insn.Op), args}
	}
	//
	return CheckPoint{p.pc, p.Steps(), p.registers.Map(), code}
}

// Restore a core from this checkpoint.  The restored core has no port or
// observer attached.
func (p CheckPoint) Restore() (*Core, error) {
	var insns = make([]instruction.Instruction, len(p.Code))
	//
	for i, enc := range p.Code {
		var insn = instruction.Instruction{Op: instruction.Opcode(enc.Op)}
		//
		if !insn.Op.Valid() {
			return nil, fmt.Errorf("invalid opcode %d at %d", enc.Op, i)
		} else if len(enc.Args) != insn.Op.Arity() {
			return nil, fmt.Errorf("invalid operand count for %s at %d", insn.Op.String(), i)
		}
		//
		for j, arg := range enc.Args {
			if arg.Register != "" {
				insn.Args[j] = expr.Register(register.Name(arg.Register))
			} else {
				insn.Args[j] = expr.Literal(arg.Value)
			}
		}
		//
		insns[i] = insn
	}
	//
	core := New(program.Load(insns...), p.Registers)
	core.pc = p.PC
	core.steps.Store(p.Steps)
	//
	return core, nil
}

// plainCheckPoint has the fields of a checkpoint, but not its methods.  This
// prevents the encoder from recursing back into MarshalBinary.
type plainCheckPoint CheckPoint

// MarshalBinary encodes this checkpoint as CBOR.
func (p CheckPoint) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(plainCheckPoint(p))
}

// UnmarshalBinary decodes a checkpoint from CBOR.
func (p *CheckPoint) UnmarshalBinary(data []byte) error {
	return cbor.Unmarshal(data, (*plainCheckPoint)(p))
}
