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
package source

import (
	"testing"

	"github.com/consensys/go-regvm/pkg/util/assert"
)

func Test_SourceFile_01(t *testing.T) {
	var (
		srcfile = NewSourceFile("prog.asm", []byte("cpy 1 a\ninc a\n"))
		line    = srcfile.FindFirstEnclosingLine(NewSpan(8, 11))
	)
	//
	assert.Equal(t, 2, line.Number())
	assert.Equal(t, 8, line.Start())
	assert.Equal(t, "inc a", line.String())
	assert.Equal(t, "inc", srcfile.Text(NewSpan(8, 11)))
}

func Test_SourceFile_02(t *testing.T) {
	// Errors at the end of file are reported against the last line.
	var (
		srcfile = NewSourceFile("prog.asm", []byte("cpy 1 a\ninc"))
		err     = srcfile.SyntaxError(NewSpan(11, 11), "unexpected end of file")
	)
	//
	line := err.FirstEnclosingLine()
	assert.Equal(t, 2, line.Number())
	assert.Equal(t, "prog.asm:2:4: unexpected end of file", err.Error())
}

func Test_SourceFile_03(t *testing.T) {
	var (
		srcfile = NewSourceFile("prog.asm", []byte("cpy 1 a\nfoo b"))
		err     = srcfile.SyntaxError(NewSpan(8, 11), "unknown instruction")
	)
	//
	span := err.Span()
	assert.Equal(t, "prog.asm:2:1: unknown instruction", err.Error())
	assert.Equal(t, 3, span.Length())
}

func Test_Span_01(t *testing.T) {
	var (
		s1 = NewSpan(2, 4)
		s2 = NewSpan(6, 9)
	)
	//
	assert.Equal(t, NewSpan(2, 9), s1.Join(s2))
	assert.Equal(t, NewSpan(2, 9), s2.Join(s1))
}

func Test_SourceFile_04(t *testing.T) {
	var (
		srcfile = NewSourceFile("prog.asm", []byte("cpy 1 a\n\ninc a"))
		lines   = srcfile.Lines()
	)
	//
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "cpy 1 a", lines[0].String())
	assert.Equal(t, "", lines[1].String())
	assert.Equal(t, "inc a", lines[2].String())
	assert.Equal(t, 3, lines[2].Number())
	assert.Equal(t, 9, lines[2].Start())
}
