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
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-regvm/pkg/util/source"
	"github.com/consensys/go-regvm/pkg/vm/register"
)

// Directive is a single ";;key:value" line at the beginning of a valid test
// program, describing how it should be run or what the outcome should be.
type Directive struct {
	Key   string
	Value string
}

var directives = []string{"seed", "expect", "seed-a", "seed-b", "expect-a", "expect-b", "sent", "status"}

// Extract a directive from a given line in the source file, or return false if
// the line is not a directive.
func extractDirective(lineno int, lines []source.Line, _ *source.File) (bool, Directive, error) {
	var contents = strings.TrimSpace(lines[lineno].String())
	//
	if !strings.HasPrefix(contents, ";;") {
		return false, Directive{}, nil
	}
	//
	key, value, ok := strings.Cut(contents[2:], ":")
	//
	if !ok {
		return false, Directive{}, nil
	}
	//
	for _, d := range directives {
		if d == key {
			return true, Directive{key, strings.TrimSpace(value)}, nil
		}
	}
	//
	return true, Directive{}, fmt.Errorf("line %d: unknown directive \"%s\"", lineno+1, key)
}

// Expectations summarises the directives of a valid test program.
type Expectations struct {
	Seed, SeedA, SeedB    map[register.Name]int64
	Final, FinalA, FinalB map[register.Name]int64
	// Expected send counts for instances A and B (if given).
	Sent []uint64
	// Either "halted" or "deadlocked" (if given).
	Status string
}

// Single determines whether the program should be run as a single instance.
func (p *Expectations) Single() bool {
	return len(p.Final) > 0
}

// Duet determines whether the program should be run as a pair of instances.
func (p *Expectations) Duet() bool {
	return len(p.FinalA) > 0 || len(p.FinalB) > 0 || p.Sent != nil || p.Status != ""
}

func newExpectations(directives []Directive) (Expectations, error) {
	var (
		e   Expectations
		err error
	)
	//
	for _, d := range directives {
		switch d.Key {
		case "seed":
			e.Seed, err = parseRegisters(e.Seed, d.Value)
		case "seed-a":
			e.SeedA, err = parseRegisters(e.SeedA, d.Value)
		case "seed-b":
			e.SeedB, err = parseRegisters(e.SeedB, d.Value)
		case "expect":
			e.Final, err = parseRegisters(e.Final, d.Value)
		case "expect-a":
			e.FinalA, err = parseRegisters(e.FinalA, d.Value)
		case "expect-b":
			e.FinalB, err = parseRegisters(e.FinalB, d.Value)
		case "sent":
			e.Sent, err = parseCounts(d.Value)
		case "status":
			e.Status = d.Value
			//
			if e.Status != "halted" && e.Status != "deadlocked" {
				err = fmt.Errorf("unknown status \"%s\"", d.Value)
			}
		}
		//
		if err != nil {
			return e, err
		}
	}
	//
	return e, nil
}

// Parse a comma-separated list of register assignments, such as "a=1,b=-2".
func parseRegisters(regs map[register.Name]int64, text string) (map[register.Name]int64, error) {
	if regs == nil {
		regs = make(map[register.Name]int64)
	}
	//
	for _, assignment := range strings.Split(text, ",") {
		name, value, ok := strings.Cut(assignment, "=")
		//
		if !ok {
			return nil, fmt.Errorf("invalid register assignment \"%s\"", assignment)
		}
		//
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, err
		}
		//
		regs[register.Name(strings.TrimSpace(name))] = n
	}
	//
	return regs, nil
}

// Parse a pair of send counts, such as "2,3".
func parseCounts(text string) ([]uint64, error) {
	var splits = strings.Split(text, ",")
	//
	if len(splits) != 2 {
		return nil, fmt.Errorf("invalid send counts \"%s\" (should be e.g. \"2,3\")", text)
	}
	//
	counts := make([]uint64, 2)
	//
	for i, s := range splits {
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, err
		}
		//
		counts[i] = n
	}
	//
	return counts, nil
}

// Check every expected register holds its expected value.
func checkRegisters(expected map[register.Name]int64, actual register.Set) error {
	for name, value := range expected {
		if actual.Load(name) != value {
			return fmt.Errorf("register %s holds %d, expected %d (registers %s)",
				name, actual.Load(name), value, actual.String())
		}
	}
	//
	return nil
}
