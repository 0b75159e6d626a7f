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
package instruction

import (
	"fmt"
	"strings"
)

// Opcode discriminates the closed set of instruction kinds.
type Opcode uint8

// CPY signals "cpy src dst" (also written "set dst src").
const CPY Opcode = 0

// INC signals "inc r".
const INC Opcode = 1

// DEC signals "dec r".
const DEC Opcode = 2

// JNZ signals "jnz cond offset".
const JNZ Opcode = 3

// TGL signals "tgl offset".
const TGL Opcode = 4

// ADD signals "add r e".
const ADD Opcode = 5

// MUL signals "mul r e".
const MUL Opcode = 6

// MOD signals "mod r e".
const MOD Opcode = 7

// SND signals "snd e".
const SND Opcode = 8

// RCV signals "rcv r".
const RCV Opcode = 9

var mnemonics = [...]string{"cpy", "inc", "dec", "jnz", "tgl", "add", "mul", "mod", "snd", "rcv"}

// Valid checks whether this is one of the known opcodes.
func (p Opcode) Valid() bool {
	return int(p) < len(mnemonics)
}

// Arity returns the number of operands taken by instructions with this opcode.
func (p Opcode) Arity() int {
	switch p {
	case INC, DEC, TGL, SND, RCV:
		return 1
	default:
		return 2
	}
}

// Requires returns the features which must be enabled for a program to use
// this opcode.
func (p Opcode) Requires() Feature {
	switch p {
	case TGL:
		return TOGGLE
	case SND, RCV:
		return CHANNELS
	default:
		return 0
	}
}

func (p Opcode) String() string {
	if p.Valid() {
		return mnemonics[p]
	}
	//
	return fmt.Sprintf("op%d", uint8(p))
}

// Feature identifies an optional capability of the machine.  Features can be
// combined into sets using bitwise or.
type Feature uint8

// TOGGLE enables self-modification through the "tgl" instruction.
const TOGGLE Feature = 1

// CHANNELS enables message passing through the "snd" and "rcv" instructions.
const CHANNELS Feature = 2

// ALL enables every feature.
const ALL = TOGGLE | CHANNELS

// Has checks whether every feature in other is also in this set.
func (p Feature) Has(other Feature) bool {
	return p&other == other
}

func (p Feature) String() string {
	var names []string
	//
	if p.Has(TOGGLE) {
		names = append(names, "toggle")
	}
	//
	if p.Has(CHANNELS) {
		names = append(names, "channels")
	}
	//
	if len(names) == 0 {
		return "none"
	}
	//
	return strings.Join(names, "+")
}
