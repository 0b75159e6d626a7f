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
	"fmt"
	"os"
	"os/signal"

	"github.com/consensys/go-regvm/pkg/util/termio"
	"github.com/consensys/go-regvm/pkg/vm/machine"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] program.asm",
	Short: "Run a program on a single machine.",
	Long: `Run a program on a single machine until it halts, then print the final
register state.  Initial register values can be given with --register (e.g.
"-r a=7").  Execution can be stopped early (with --max-steps or an interrupt)
and its state saved with --checkpoint, from which it can later be resumed using
--resume.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRunCmd,
}

func runRunCmd(cmd *cobra.Command, args []string) {
	var (
		cfg        = loadConfig(cmd)
		trace      = GetFlag(cmd, "trace")
		checkpoint = GetString(cmd, "checkpoint")
		resume     = GetString(cmd, "resume")
		maxSteps   = GetUint(cmd, "max-steps")
		chunk      = machine.DEFAULT_CHUNK
		colour     = termio.IsTerminal(os.Stdout)
		core       *machine.Core
	)
	//
	if cmd.Flags().Changed("chunk") {
		chunk = GetUint(cmd, "chunk")
	} else if cfg.Chunk != 0 {
		chunk = cfg.Chunk
	}
	//
	if chunk == 0 {
		fmt.Println("chunk size must be positive")
		atexit.Exit(2)
	}
	// Construct the core
	switch {
	case resume != "" && len(args) == 0:
		core = readCheckPointFile(resume)
	case resume == "" && len(args) == 1:
		seed, err := parseSeeds(cfg.Seed(), GetStringArray(cmd, "register"))
		if err != nil {
			fmt.Println(err)
			atexit.Exit(2)
		}
		//
		core = machine.New(ReadProgramFile(args[0]), seed)
	default:
		fmt.Println(cmd.UsageString())
		atexit.Exit(1)
	}
	// Sanity check the program can be executed
	if err := core.Validate(); err != nil {
		log.Error(err)
		atexit.Exit(4)
	}
	//
	if trace {
		core.WithObserver(newTracer(os.Stdout, colour))
	}
	// Stop cleanly at an instruction boundary on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	//
	if err := execute(ctx, core, chunk, maxSteps); err != nil {
		log.Warn(err)
	}
	//
	if err := printRegisters(os.Stdout, core.Registers(), colour); err != nil {
		log.Error(err)
	}
	//
	if core.Halted() {
		fmt.Printf("halted at %d after %s steps\n", core.PC(), humanize.Comma(int64(core.Steps())))
	} else {
		fmt.Printf("stopped at %d after %s steps\n", core.PC(), humanize.Comma(int64(core.Steps())))
	}
	//
	if checkpoint != "" {
		writeCheckPointFile(checkpoint, core)
	}
}

// Execute a core until it halts, the context is cancelled, or the maximum
// number of steps is reached (where zero means no limit).  A chunk size of
// zero is taken as the default.
func execute(ctx context.Context, core *machine.Core, chunk uint, maxSteps uint) error {
	if chunk == 0 {
		chunk = machine.DEFAULT_CHUNK
	}
	//
	if maxSteps == 0 {
		_, err := machine.ExecuteAll(ctx, core, chunk)
		return err
	}
	//
	for remaining := maxSteps; remaining > 0 && !core.Halted(); {
		n, err := core.Execute(ctx, min(chunk, remaining))
		if err != nil {
			return err
		}
		//
		remaining -= n
	}
	//
	return nil
}

func readCheckPointFile(filename string) *machine.Core {
	var checkpoint machine.CheckPoint
	//
	bytes, err := os.ReadFile(filename)
	if err == nil {
		err = checkpoint.UnmarshalBinary(bytes)
	}
	//
	if err == nil {
		var core *machine.Core
		//
		if core, err = checkpoint.Restore(); err == nil {
			log.Debugf("resuming from %s at %d after %d steps", filename, core.PC(), core.Steps())
			return core
		}
	}
	// Handle error
	fmt.Println(err)
	atexit.Exit(3)
	// unreachable
	return nil
}

func writeCheckPointFile(filename string, core *machine.Core) {
	bytes, err := core.CheckPoint().MarshalBinary()
	//
	if err == nil {
		err = os.WriteFile(filename, bytes, 0644)
	}
	//
	if err != nil {
		log.Error(err)
		atexit.Exit(3)
	}
	//
	log.Debugf("wrote checkpoint %s (%s)", filename, humanize.Bytes(uint64(len(bytes))))
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringArrayP("register", "r", nil, "set initial register value (e.g. a=7)")
	runCmd.Flags().BoolP("trace", "t", false, "print each instruction as it is executed")
	runCmd.Flags().String("checkpoint", "", "write final machine state to a file")
	runCmd.Flags().String("resume", "", "resume execution from a checkpoint file")
	runCmd.Flags().Uint("max-steps", 0, "stop after a given number of steps (0 for no limit)")
	runCmd.Flags().Uint("chunk", machine.DEFAULT_CHUNK, "number of steps executed between cancellation checks")
}
