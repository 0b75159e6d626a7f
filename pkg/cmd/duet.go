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
	"io"
	"os"
	"os/signal"

	"github.com/consensys/go-regvm/pkg/util/termio"
	"github.com/consensys/go-regvm/pkg/vm/duet"
	"github.com/consensys/go-regvm/pkg/vm/register"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var duetCmd = &cobra.Command{
	Use:   "duet [flags] program.asm",
	Short: "Run two communicating instances of a program.",
	Long: `Run two instances (A and B) of a program concurrently, where values sent
by one instance are received by the other.  Each instance starts with its id (0
or 1) in register p, unless otherwise specified.  The run finishes when both
instances halt, or when both are blocked waiting for values which can never
arrive (i.e. deadlock).`,
	Args: cobra.ExactArgs(1),
	Run:  runDuetCmd,
}

func runDuetCmd(cmd *cobra.Command, args []string) {
	var (
		cfg          = loadConfig(cmd)
		colour       = termio.IsTerminal(os.Stdout)
		seedA, seedB = cfg.DuetSeeds()
	)
	//
	dcfg, err := cfg.DuetConfig()
	// Command-line flags take precedence
	if err == nil {
		dcfg, err = applyDuetFlags(cmd, dcfg)
	}
	//
	if err == nil {
		seedA, err = parseSeeds(seedA, GetStringArray(cmd, "reg-a"))
	}
	//
	if err == nil {
		seedB, err = parseSeeds(seedB, GetStringArray(cmd, "reg-b"))
	}
	//
	if err != nil {
		fmt.Println(err)
		atexit.Exit(2)
	}
	//
	prog := ReadProgramFile(args[0])
	// Stop both instances on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	//
	log.Debugf("running duet with %s detection", dcfg.Detection.String())
	//
	result, err := duet.Run(ctx, prog, seedA, seedB, dcfg)
	if err != nil {
		log.Error(err)
		atexit.Exit(4)
	}
	//
	if err := printResult(os.Stdout, result, colour); err != nil {
		log.Error(err)
	}
}

func applyDuetFlags(cmd *cobra.Command, cfg duet.Config) (duet.Config, error) {
	var err error
	//
	if cmd.Flags().Changed("poll") {
		if cfg.PollInterval = GetDuration(cmd, "poll"); cfg.PollInterval <= 0 {
			return cfg, fmt.Errorf("invalid poll interval %s", cfg.PollInterval)
		}
	}
	//
	if cmd.Flags().Changed("detection") {
		if cfg.Detection, err = duet.ParseDetection(GetString(cmd, "detection")); err != nil {
			return cfg, err
		}
	}
	//
	if cmd.Flags().Changed("id-register") {
		cfg.IdRegister = register.Name(GetString(cmd, "id-register"))
	}
	//
	if cmd.Flags().Changed("chunk") {
		if cfg.Chunk = GetUint(cmd, "chunk"); cfg.Chunk == 0 {
			return cfg, fmt.Errorf("chunk size must be positive")
		}
	}
	//
	return cfg, nil
}

// Print the outcome of a dual run, with one column per instance.
func printResult(out io.Writer, result duet.Result, colour bool) error {
	var (
		table  = termio.NewTablePrinter(3)
		status = termio.NewAnsiEscape().Bold().FgColour(termio.TERM_GREEN)
		text   = "halted"
	)
	//
	table.AddRow("", "A", "B")
	table.AddRow("sent", humanize.Comma(int64(result.SendCountA)), humanize.Comma(int64(result.SendCountB)))
	table.AddRow("steps", humanize.Comma(int64(result.StepsA)), humanize.Comma(int64(result.StepsB)))
	table.AddRow("registers", result.RegistersA.String(), result.RegistersB.String())
	//
	if result.Deadlocked {
		status = termio.NewAnsiEscape().Bold().FgColour(termio.TERM_RED)
		text = "deadlocked"
	}
	//
	row := table.AddRow("status", text, text)
	table.SetEscape(1, row, status)
	table.SetEscape(2, row, status)
	table.AnsiEscapes(colour)
	//
	return table.Print(out)
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(duetCmd)
	duetCmd.Flags().StringArrayP("reg-a", "a", nil, "set initial register value of instance A (e.g. x=7)")
	duetCmd.Flags().StringArrayP("reg-b", "b", nil, "set initial register value of instance B (e.g. x=7)")
	duetCmd.Flags().Duration("poll", duet.DEFAULT_POLL_INTERVAL, "interval between deadlock checks")
	duetCmd.Flags().String("detection", "signal", "deadlock detection strategy (signal or polling)")
	duetCmd.Flags().String("id-register", "p", "register holding the id of each instance (empty for none)")
	duetCmd.Flags().Uint("chunk", duet.DefaultConfig().Chunk, "number of steps executed between cancellation checks")
}
