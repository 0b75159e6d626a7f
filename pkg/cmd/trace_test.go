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
package cmd

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/go-regvm/pkg/asm"
	"github.com/consensys/go-regvm/pkg/util/assert"
	"github.com/consensys/go-regvm/pkg/vm/duet"
	"github.com/consensys/go-regvm/pkg/vm/machine"
	"github.com/consensys/go-regvm/pkg/vm/register"
)

func Test_Trace_01(t *testing.T) {
	var (
		out  strings.Builder
		core = newCore(t, "cpy 2 a\ndec a\njnz a -1", nil)
	)
	//
	core.WithObserver(newTracer(&out, false))
	//
	_, err := machine.ExecuteAll(context.Background(), core, 16)
	assert.NoError(t, err)
	//
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, 5, len(lines))
	assert.Equal(t, "   0  cpy 2 a      {a=2}", lines[0])
	assert.Equal(t, "   2  jnz a -1     {a=0}", lines[4])
}

func Test_Registers_01(t *testing.T) {
	var out strings.Builder
	//
	regs := register.NewSet(map[register.Name]int64{"b": 12, "a": -1})
	//
	assert.NoError(t, printRegisters(&out, regs, false))
	assert.Equal(t, "a | -1\nb | 12\n", out.String())
}

func Test_Result_01(t *testing.T) {
	var (
		out    strings.Builder
		result = duet.Result{
			SendCountA: 1234, SendCountB: 2,
			StepsA: 5000, StepsB: 7,
			RegistersA: register.NewSet(nil), RegistersB: register.NewSet(map[register.Name]int64{"p": 1}),
			Deadlocked: true,
		}
	)
	//
	assert.NoError(t, printResult(&out, result, false))
	//
	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "          | A          | B", lines[0])
	assert.Equal(t, "sent      | 1,234      | 2", lines[1])
	assert.Equal(t, "steps     | 5,000      | 7", lines[2])
	assert.Equal(t, "registers | {}         | {p=1}", lines[3])
	assert.Equal(t, "status    | deadlocked | deadlocked", lines[4])
}

func Test_Execute_01(t *testing.T) {
	// Stepping is bounded, and can then be resumed.
	core := newCore(t, "cpy 10 a\ndec a\njnz a -1", nil)
	//
	assert.NoError(t, execute(context.Background(), core, 4, 7))
	assert.Equal(t, uint64(7), core.Steps())
	assert.False(t, core.Halted())
	//
	assert.NoError(t, execute(context.Background(), core, 4, 0))
	assert.True(t, core.Halted())
	assert.Equal(t, uint64(21), core.Steps())
	assert.Equal(t, int64(0), core.Registers().Load("a"))
}

func Test_Execute_02(t *testing.T) {
	// A zero chunk size falls back to the default, with or without a limit.
	core := newCore(t, "cpy 10 a\ndec a\njnz a -1", nil)
	//
	assert.NoError(t, execute(context.Background(), core, 0, 5))
	assert.Equal(t, uint64(5), core.Steps())
	//
	assert.NoError(t, execute(context.Background(), core, 0, 0))
	assert.True(t, core.Halted())
	assert.Equal(t, uint64(21), core.Steps())
}

func Test_CheckPointFile_01(t *testing.T) {
	var (
		filename = filepath.Join(t.TempDir(), "state.cbor")
		core     = newCore(t, "cpy 2 a\ntgl a\ntgl a\ntgl a\ncpy 1 a\ndec a\ndec a", nil)
	)
	//
	assert.NoError(t, execute(context.Background(), core, 1, 3))
	writeCheckPointFile(filename, core)
	//
	resumed := readCheckPointFile(filename)
	assert.Equal(t, core.PC(), resumed.PC())
	assert.Equal(t, core.Steps(), resumed.Steps())
	assert.Equal(t, core.Program().String(), resumed.Program().String())
	//
	assert.NoError(t, execute(context.Background(), resumed, 8, 0))
	assert.Equal(t, int64(3), resumed.Registers().Load("a"))
}

func newCore(t *testing.T, text string, seed map[register.Name]int64) *machine.Core {
	t.Helper()
	//
	prog, err := asm.Assemble("test.asm", text)
	assert.NoError(t, err)
	//
	return machine.New(prog, seed)
}
