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
package register

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Name identifies a register within a machine.  Names are typically a single
// character (e.g. "a"), though short identifiers are permitted.
type Name string

// Set captures the state of all registers for a single executing machine.
// Registers which have never been written read as zero, and writing to a
// register which does not yet exist simply creates it.  Two machines never
// share a register set.
type Set struct {
	values map[Name]int64
}

// NewSet constructs a register set seeded with the given initial values.  The
// seed is copied, hence subsequent changes to it have no effect on the set.
func NewSet(seed map[Name]int64) Set {
	var values = make(map[Name]int64, len(seed))
	//
	maps.Copy(values, seed)
	//
	return Set{values}
}

// Load the value of a given register, returning 0 if the register has never
// been written.
func (p Set) Load(reg Name) int64 {
	return p.values[reg]
}

// Store a given value into a register, overwriting its previous contents.
func (p Set) Store(reg Name, value int64) {
	p.values[reg] = value
}

// Names returns the set of registers which have been written, sorted
// alphabetically.
func (p Set) Names() []Name {
	names := slices.Collect(maps.Keys(p.values))
	slices.Sort(names)
	//
	return names
}

// Clone returns a copy of this register set which shares no state with the
// original.
func (p Set) Clone() Set {
	return NewSet(p.values)
}

// Map returns a copy of the underlying register values.
func (p Set) Map() map[Name]int64 {
	return maps.Clone(p.values)
}

// Equals determines whether two register sets hold the same values.  A
// register explicitly holding zero is considered equal to an absent register.
func (p Set) Equals(other Set) bool {
	for k, v := range p.values {
		if other.Load(k) != v {
			return false
		}
	}
	//
	for k, v := range other.values {
		if p.Load(k) != v {
			return false
		}
	}
	//
	return true
}

func (p Set) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, name := range p.Names() {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(fmt.Sprintf("%s=%d", name, p.values[name]))
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}
