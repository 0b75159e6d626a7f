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
package util

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/consensys/go-regvm/pkg/asm"
	"github.com/consensys/go-regvm/pkg/vm/duet"
	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/machine"
	"github.com/consensys/go-regvm/pkg/vm/program"
)

// Upper bound on the time any single valid test program can take.
const timeout = 30 * time.Second

// Poll interval used when checking with polling detection.  This is generous,
// since tests run in parallel and instances may be descheduled.
const pollInterval = 100 * time.Millisecond

// Number of steps between checkpoints when checking checkpoint consistency.
const checkPointInterval = 3

// CheckValid checks that a given test program runs to completion, producing
// the outcome described by the directives at the beginning of the file.  A
// program with ";;expect:" directives is run as a single instance, and a
// program with duet directives is run as a pair of instances.
func CheckValid(t *testing.T, test string) {
	var filename = fmt.Sprintf("%s/%s.asm", TestDir, test)
	// Enable testing each program in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, filename)
	// Extract directives
	ds, errs := ExtractAttributes(srcfile, extractDirective)
	//
	if len(errs) > 0 {
		t.Fatal(errors.Join(errs...))
	}
	//
	expected, err := newExpectations(ds)
	if err != nil {
		t.Fatalf("%s: %s", filename, err.Error())
	} else if !expected.Single() && !expected.Duet() {
		t.Fatalf("%s: missing expectations", filename)
	}
	// Parse program
	insns, serrs := asm.Parse(srcfile)
	//
	if len(serrs) > 0 {
		t.Fatalf("%s", serrs[0].Error())
	}
	//
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	//
	if expected.Single() {
		checkSingle(t, ctx, program.Load(insns...), expected)
	}
	//
	if expected.Duet() {
		for _, detection := range []duet.Detection{duet.SIGNAL, duet.POLLING} {
			checkDuet(t, ctx, program.Load(insns...), expected, detection)
		}
	}
}

// Run a single instance to completion, and check the final registers.  Then,
// run it again whilst repeatedly checkpointing and restoring the core, and
// check the outcome is unchanged.
func checkSingle(t *testing.T, ctx context.Context, prog *program.Program, expected Expectations) {
	t.Helper()
	//
	regs, err := machine.RunToHalt(ctx, prog.Clone(), expected.Seed)
	if err != nil {
		t.Fatal(err)
	} else if err := checkRegisters(expected.Final, regs); err != nil {
		t.Fatal(err)
	}
	//
	core := machine.New(prog.Clone(), expected.Seed)
	//
	for !core.Halted() {
		if _, err := core.Execute(ctx, checkPointInterval); err != nil {
			t.Fatal(err)
		}
		//
		if core, err = roundTrip(core); err != nil {
			t.Fatal(err)
		}
	}
	//
	if !regs.Equals(core.Registers()) {
		t.Fatalf("checkpointed run produced %s, expected %s", core.Registers().String(), regs.String())
	}
}

// Encode a checkpoint of a given core, then decode and restore it.
func roundTrip(core *machine.Core) (*machine.Core, error) {
	var cp machine.CheckPoint
	//
	bytes, err := core.CheckPoint().MarshalBinary()
	if err != nil {
		return nil, err
	} else if err = cp.UnmarshalBinary(bytes); err != nil {
		return nil, err
	}
	//
	return cp.Restore()
}

// Run a pair of instances, and check the outcome.
func checkDuet(t *testing.T, ctx context.Context, prog *program.Program, expected Expectations,
	detection duet.Detection) {
	t.Helper()
	//
	if err := prog.Validate(instruction.CHANNELS); err != nil {
		t.Fatal(err)
	}
	//
	cfg := duet.DefaultConfig()
	cfg.Detection = detection
	cfg.PollInterval = pollInterval
	//
	result, err := duet.Run(ctx, prog, expected.SeedA, expected.SeedB, cfg)
	if err != nil {
		t.Fatalf("%s: %s", detection.String(), err.Error())
	}
	//
	if err := checkRegisters(expected.FinalA, result.RegistersA); err != nil {
		t.Errorf("%s: instance A: %s", detection.String(), err.Error())
	}
	//
	if err := checkRegisters(expected.FinalB, result.RegistersB); err != nil {
		t.Errorf("%s: instance B: %s", detection.String(), err.Error())
	}
	//
	if expected.Sent != nil && (result.SendCountA != expected.Sent[0] || result.SendCountB != expected.Sent[1]) {
		t.Errorf("%s: sent %d / %d, expected %d / %d", detection.String(), result.SendCountA,
			result.SendCountB, expected.Sent[0], expected.Sent[1])
	}
	//
	switch expected.Status {
	case "halted":
		if !result.HaltedNormally || result.Deadlocked {
			t.Errorf("%s: expected both instances to halt", detection.String())
		}
	case "deadlocked":
		if !result.Deadlocked || result.HaltedNormally {
			t.Errorf("%s: expected deadlock", detection.String())
		}
	}
}
