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
	"testing"

	"github.com/consensys/go-regvm/pkg/util/assert"
	"github.com/consensys/go-regvm/pkg/vm/expr"
	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"go.uber.org/multierr"
)

var (
	a   = expr.Register("a")
	one = expr.Literal(1)
	two = expr.Literal(2)
)

func sample() *Program {
	return Load(
		instruction.Copy(two, a),
		instruction.Toggle(a),
		instruction.JumpIfNonZero(one, two),
		instruction.Decrement(a),
	)
}

func Test_Program_01(t *testing.T) {
	p := sample()
	//
	assert.Equal(t, 4, p.Len())
	assert.True(t, p.Contains(0))
	assert.True(t, p.Contains(3))
	assert.False(t, p.Contains(-1))
	assert.False(t, p.Contains(4))
}

func Test_Program_02(t *testing.T) {
	insns := []instruction.Instruction{instruction.Increment(a)}
	p := Load(insns...)
	// Loading copies the instructions
	insns[0] = instruction.Decrement(a)
	assert.Equal(t, instruction.Increment(a), p.At(0))
}

func Test_Program_03(t *testing.T) {
	p := sample()
	before := p.Instructions()
	// Out-of-bounds toggles are strict no-ops
	assert.False(t, p.Toggle(-1))
	assert.False(t, p.Toggle(4))
	assert.False(t, p.Toggle(100))
	assert.Equal(t, before, p.Instructions())
}

func Test_Program_04(t *testing.T) {
	p := sample()
	// In place, length unchanged
	assert.True(t, p.Toggle(2))
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, instruction.Copy(one, two), p.At(2))
	assert.True(t, p.At(2).Inert())
	// Toggling back
	assert.True(t, p.Toggle(2))
	assert.Equal(t, instruction.JumpIfNonZero(one, two), p.At(2))
}

func Test_Program_05(t *testing.T) {
	p := sample()
	q := p.Clone()
	//
	q.Toggle(3)
	assert.Equal(t, instruction.Decrement(a), p.At(3))
	assert.Equal(t, instruction.Increment(a), q.At(3))
}

func Test_Program_06(t *testing.T) {
	p := sample()
	//
	assert.Equal(t, instruction.TOGGLE, p.Requires())
	assert.NoError(t, p.Validate(instruction.TOGGLE))
	// Toggle not enabled
	assert.Error(t, p.Validate(instruction.CHANNELS))
}

func Test_Program_07(t *testing.T) {
	p := Load(
		instruction.Send(a),
		instruction.Toggle(a),
		instruction.Copy(one, two),
	)
	// Without toggle, both the tgl and the inert cpy are reported.
	err := p.Validate(instruction.CHANNELS)
	assert.Equal(t, 2, len(multierr.Errors(err)))
}

func Test_Program_08(t *testing.T) {
	p := Load(instruction.Copy(two, a), instruction.Decrement(a))
	//
	assert.Equal(t, "0:\tcpy 2 a\n1:\tdec a\n", p.String())
}
