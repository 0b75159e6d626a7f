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
package register

import (
	"testing"

	"github.com/consensys/go-regvm/pkg/util/assert"
)

func Test_Set_01(t *testing.T) {
	regs := NewSet(nil)
	// Unwritten registers read as zero
	assert.Equal(t, 0, regs.Load("a"))
	regs.Store("a", -3)
	assert.Equal(t, -3, regs.Load("a"))
	assert.Equal(t, []Name{"a"}, regs.Names())
}

func Test_Set_02(t *testing.T) {
	seed := map[Name]int64{"a": 1}
	regs := NewSet(seed)
	// Seed is copied
	seed["a"] = 2
	regs.Store("b", 5)
	assert.Equal(t, 1, regs.Load("a"))
	assert.Equal(t, 2, seed["a"])
	assert.Equal(t, 1, len(seed))
}

func Test_Set_03(t *testing.T) {
	regs := NewSet(map[Name]int64{"a": 1})
	clone := regs.Clone()
	//
	clone.Store("a", 7)
	assert.Equal(t, 1, regs.Load("a"))
	assert.Equal(t, 7, clone.Load("a"))
	assert.False(t, regs.Equals(clone))
}

func Test_Set_04(t *testing.T) {
	// An explicit zero equals an absent register
	lhs := NewSet(map[Name]int64{"a": 0, "b": 2})
	rhs := NewSet(map[Name]int64{"b": 2})
	//
	assert.True(t, lhs.Equals(rhs))
	assert.True(t, rhs.Equals(lhs))
}

func Test_Set_05(t *testing.T) {
	regs := NewSet(map[Name]int64{"b": 2, "a": 1, "id": -1})
	//
	assert.Equal(t, "{a=1, b=2, id=-1}", regs.String())
	assert.Equal(t, "{}", NewSet(nil).String())
}
