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
	"testing"

	"github.com/consensys/go-regvm/pkg/util/assert"
	"github.com/consensys/go-regvm/pkg/vm/expr"
)

var (
	a   = expr.Register("a")
	b   = expr.Register("b")
	one = expr.Literal(1)
	two = expr.Literal(2)
)

func Test_Toggle_01(t *testing.T) {
	assert.Equal(t, Decrement(a), Increment(a).Toggled())
	assert.Equal(t, Increment(a), Decrement(a).Toggled())
}

func Test_Toggle_02(t *testing.T) {
	assert.Equal(t, Copy(a, b), JumpIfNonZero(a, b).Toggled())
	assert.Equal(t, JumpIfNonZero(one, b), Copy(one, b).Toggled())
}

func Test_Toggle_03(t *testing.T) {
	// tgl becomes inc on the same operand
	assert.Equal(t, Increment(a), Toggle(a).Toggled())
	assert.False(t, Toggle(a).Toggled().Inert())
	// literal operand gives an inert increment
	assert.Equal(t, Increment(two), Toggle(two).Toggled())
	assert.True(t, Toggle(two).Toggled().Inert())
}

func Test_Toggle_04(t *testing.T) {
	// other one-operand shapes funnel to inc
	assert.Equal(t, Increment(a), Send(a).Toggled())
	assert.Equal(t, Increment(a), Receive(a).Toggled())
	// other two-operand shapes funnel to jnz
	assert.Equal(t, JumpIfNonZero(a, two), Add(a, two).Toggled())
	assert.Equal(t, JumpIfNonZero(a, b), Multiply(a, b).Toggled())
	assert.Equal(t, JumpIfNonZero(a, b), Modulo(a, b).Toggled())
}

func Test_Toggle_05(t *testing.T) {
	// jnz with a literal offset degrades into an inert copy
	insn := JumpIfNonZero(one, two).Toggled()
	assert.Equal(t, Copy(one, two), insn)
	assert.True(t, insn.Inert())
	// toggling the degraded copy always yields jnz again
	for range 3 {
		insn = insn.Toggled()
		assert.Equal(t, JumpIfNonZero(one, two), insn)
		insn = insn.Toggled()
		assert.Equal(t, Copy(one, two), insn)
	}
}

func Test_Toggle_06(t *testing.T) {
	// degraded increment keeps funnelling without touching operands
	insn := Increment(two)
	//
	for range 4 {
		insn = insn.Toggled()
		assert.Equal(t, two, insn.Args[0])
	}
	//
	assert.Equal(t, INC, insn.Op)
}

func Test_Toggle_07(t *testing.T) {
	insns := []Instruction{
		Copy(a, b), Increment(a), Decrement(b), JumpIfNonZero(a, two), Copy(one, two), Increment(one),
	}
	// involution for invertible kinds (including degraded ones)
	for _, insn := range insns {
		assert.Equal(t, insn, insn.Toggled().Toggled())
	}
}

func Test_Instruction_01(t *testing.T) {
	assert.Equal(t, "cpy 2 a", Copy(two, a).String())
	assert.Equal(t, "jnz a -2", JumpIfNonZero(a, expr.Literal(-2)).String())
	assert.Equal(t, "tgl a", Toggle(a).String())
	assert.Equal(t, "snd 1", Send(one).String())
}

func Test_Instruction_02(t *testing.T) {
	assert.Equal(t, 1, len(Increment(a).Operands()))
	assert.Equal(t, 2, len(Add(a, b).Operands()))
	assert.Equal(t, []string{"a"}, names(Copy(a, b).Uses()))
	assert.Equal(t, []string{"b"}, names(Copy(a, b).Definitions()))
	assert.Equal(t, []string{"a", "b"}, names(Add(a, b).Uses()))
	assert.Equal(t, 0, len(Receive(a).Uses()))
	assert.Equal(t, 0, len(Copy(one, two).Definitions()))
}

func Test_Instruction_03(t *testing.T) {
	assert.NoError(t, Toggle(a).Validate(TOGGLE, false))
	assert.Error(t, Toggle(a).Validate(CHANNELS, false))
	assert.NoError(t, Send(a).Validate(CHANNELS, false))
	assert.Error(t, Receive(a).Validate(TOGGLE, false))
	assert.NoError(t, Add(a, b).Validate(0, false))
	assert.Error(t, Copy(one, two).Validate(ALL, false))
	assert.NoError(t, Copy(one, two).Validate(ALL, true))
	assert.Error(t, Instruction{Op: Opcode(42)}.Validate(ALL, true))
}

func names[T ~string](regs []T) []string {
	var ns []string
	for _, r := range regs {
		ns = append(ns, string(r))
	}
	//
	return ns
}
