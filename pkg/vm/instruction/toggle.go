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

// Toggled returns the instruction obtained by toggling this instruction.  The
// transformation depends only on the shape of the instruction (i.e. its opcode
// and arity), and never on any register values:
//
//	inc x        => dec x
//	(other) x    => inc x
//	jnz x y      => cpy x y
//	(other) x y  => jnz x y
//
// The operands are reused unchanged, meaning the result can be inert (e.g.
// toggling "jnz 1 2" yields "cpy 1 2").  Observe that inc/dec and jnz/cpy are
// invertible pairs, whilst every other shape funnels into inc (for one
// operand) or jnz (for two operands).
func (p Instruction) Toggled() Instruction {
	var op Opcode
	//
	switch {
	case p.Op == INC:
		op = DEC
	case p.Op.Arity() == 1:
		op = INC
	case p.Op == JNZ:
		op = CPY
	default:
		op = JNZ
	}
	//
	return Instruction{op, p.Args}
}
