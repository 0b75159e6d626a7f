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

	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/multierr"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] program1.asm program2.asm ...",
	Short: "Check programs are well-formed.",
	Long: `Check that one or more programs parse, and that every instruction can be
executed.  By default, programs are checked for running on a single machine
(where toggling is permitted).  With --duet, they are instead checked for
running as two communicating instances (where toggling is not permitted).`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCheckCmd,
}

func runCheckCmd(cmd *cobra.Command, args []string) {
	var (
		features = instruction.TOGGLE
		failed   = false
	)
	//
	if GetFlag(cmd, "duet") {
		features = instruction.CHANNELS
	}
	//
	for _, filename := range args {
		prog := ReadProgramFile(filename)
		//
		if err := prog.Validate(features); err != nil {
			for _, e := range multierr.Errors(err) {
				fmt.Printf("%s:%s\n", filename, e)
			}
			//
			failed = true
		} else {
			fmt.Printf("%s: ok (%d instructions, using %s)\n", filename, prog.Len(), prog.Requires().String())
		}
	}
	//
	if failed {
		atexit.Exit(4)
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("duet", false, "check for running as two communicating instances")
}
