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
package termio

import (
	"strings"
	"testing"

	"github.com/consensys/go-regvm/pkg/util/assert"
)

func Test_Escape_01(t *testing.T) {
	assert.Equal(t, "\033[1m", NewAnsiEscape().Bold().Build())
	assert.Equal(t, "\033[1;36m", NewAnsiEscape().Bold().FgColour(TERM_CYAN).Build())
	assert.Equal(t, "\033[31;42m", NewAnsiEscape().FgColour(TERM_RED).BgColour(TERM_GREEN).Build())
}

func Test_Escape_02(t *testing.T) {
	var (
		base = NewAnsiEscape().Bold()
		red  = base.FgColour(TERM_RED)
		blue = base.FgColour(TERM_BLUE)
	)
	// Deriving escapes does not disturb the original
	assert.Equal(t, "\033[1m", base.Build())
	assert.Equal(t, "\033[1;31mx\033[0m", red.Wrap("x"))
	assert.Equal(t, "\033[1;34mx\033[0m", blue.Wrap("x"))
}

func Test_Table_01(t *testing.T) {
	var (
		table = NewTablePrinter(2)
		out   strings.Builder
	)
	//
	table.AddRow("a", "1")
	table.AddRow("count", "-42")
	//
	assert.NoError(t, table.Print(&out))
	assert.Equal(t, "a     | 1\ncount | -42\n", out.String())
}

func Test_Table_02(t *testing.T) {
	var (
		table = NewTablePrinter(2)
		out   strings.Builder
	)
	//
	row := table.AddRow("a", "1")
	table.SetEscape(0, row, NewAnsiEscape().FgColour(TERM_YELLOW))
	// Escapes are ignored unless enabled
	assert.NoError(t, table.Print(&out))
	assert.Equal(t, "a | 1\n", out.String())
	//
	out.Reset()
	table.AnsiEscapes(true)
	assert.NoError(t, table.Print(&out))
	assert.Equal(t, "\033[33ma\033[0m | 1\n", out.String())
	assert.Equal(t, uint(1), table.Height())
}
