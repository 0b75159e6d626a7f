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
	"fmt"
	"io"

	"github.com/consensys/go-regvm/pkg/util/termio"
	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/machine"
	"github.com/consensys/go-regvm/pkg/vm/register"
)

// Construct an observer which prints each instruction executed, along with the
// resulting register state.
func newTracer(out io.Writer, colour bool) machine.Observer {
	var (
		pcEscape   = termio.NewAnsiEscape().FgColour(termio.TERM_CYAN)
		insnEscape = termio.NewAnsiEscape().Bold()
	)
	//
	return func(pc int, insn instruction.Instruction, regs register.Set) {
		var (
			pcText   = fmt.Sprintf("%4d", pc)
			insnText = fmt.Sprintf("%-12s", insn.String())
		)
		//
		if colour {
			pcText = pcEscape.Wrap(pcText)
			insnText = insnEscape.Wrap(insnText)
		}
		//
		fmt.Fprintf(out, "%s  %s %s\n", pcText, insnText, regs.String())
	}
}

// Print the values of all registers written, one per line.
func printRegisters(out io.Writer, regs register.Set, colour bool) error {
	var (
		table  = termio.NewTablePrinter(2)
		escape = termio.NewAnsiEscape().FgColour(termio.TERM_YELLOW)
	)
	//
	for _, name := range regs.Names() {
		row := table.AddRow(string(name), fmt.Sprintf("%d", regs.Load(name)))
		table.SetEscape(0, row, escape)
	}
	//
	table.AnsiEscapes(colour)
	//
	return table.Print(out)
}
