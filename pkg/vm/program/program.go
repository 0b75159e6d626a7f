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
package program

import (
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-regvm/pkg/vm/instruction"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Program is a fixed-length sequence of instructions indexed from 0.  The
// length of a program never changes after it is loaded, though individual
// slots may be rewritten in place via Toggle.  The program is held by pointer
// so that all holders observe such rewrites.
type Program struct {
	code []instruction.Instruction
}

// Load constructs a program from a given sequence of instructions.  The
// instructions are copied, hence later changes to the argument do not affect
// the program.
func Load(insns ...instruction.Instruction) *Program {
	return &Program{slices.Clone(insns)}
}

// Len returns the number of instructions in this program.
func (p *Program) Len() int {
	return len(p.code)
}

// Contains checks whether a given program counter position falls within this
// program.  A machine halts as soon as its program counter leaves this range.
func (p *Program) Contains(pc int) bool {
	return pc >= 0 && pc < len(p.code)
}

// At returns the instruction at a given position.  The position must be within
// bounds.
func (p *Program) At(pc int) instruction.Instruction {
	return p.code[pc]
}

// Instructions returns a copy of the instructions making up this program.
func (p *Program) Instructions() []instruction.Instruction {
	return slices.Clone(p.code)
}

// Toggle rewrites the instruction at a given position according to the toggle
// table (see instruction.Toggled).  If the position lies outside the program
// then nothing changes, and false is returned.
func (p *Program) Toggle(target int) bool {
	if !p.Contains(target) {
		return false
	}
	//
	before := p.code[target]
	p.code[target] = before.Toggled()
	//
	log.Debugf("toggled %d: %s => %s", target, before.String(), p.code[target].String())
	//
	return true
}

// Clone returns a copy of this program which can be modified independently.
func (p *Program) Clone() *Program {
	return Load(p.code...)
}

// Requires returns the set of features needed to execute this program.
func (p *Program) Requires() instruction.Feature {
	var features instruction.Feature
	//
	for _, insn := range p.code {
		features |= insn.Op.Requires()
	}
	//
	return features
}

// Validate that every instruction in this program is well-formed with respect
// to the given features.  When the toggle feature is enabled, inert
// instructions are permitted since they may have arisen from toggling.  All
// violations are reported together.
func (p *Program) Validate(features instruction.Feature) error {
	var (
		err        error
		allowInert = features.Has(instruction.TOGGLE)
	)
	//
	for pc, insn := range p.code {
		if ierr := insn.Validate(features, allowInert); ierr != nil {
			err = multierr.Append(err, fmt.Errorf("%d: %w", pc, ierr))
		}
	}
	//
	return err
}

func (p *Program) String() string {
	var builder strings.Builder
	//
	for pc, insn := range p.code {
		builder.WriteString(fmt.Sprintf("%d:\t%s\n", pc, insn.String()))
	}
	//
	return builder.String()
}
