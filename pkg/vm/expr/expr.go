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
package expr

import (
	"strconv"

	"github.com/consensys/go-regvm/pkg/vm/register"
)

// Kind discriminates the two forms of expression.
type Kind uint8

const (
	// LITERAL signals an expression holding a constant integer.
	LITERAL Kind = iota
	// REGISTER signals an expression which reads a named register.
	REGISTER
)

// Expr represents an operand of a machine instruction, which is either a
// literal integer or a reference to a named register.  Expressions are small
// values and are always passed by value.
type Expr struct {
	kind  Kind
	value int64
	reg   register.Name
}

// Literal constructs an expression which always evaluates to the given
// constant.
func Literal(value int64) Expr {
	return Expr{LITERAL, value, ""}
}

// Register constructs an expression which evaluates to the current contents of
// the given register.
func Register(name register.Name) Expr {
	return Expr{REGISTER, 0, name}
}

// Kind returns the discriminant of this expression.
func (p Expr) Kind() Kind {
	return p.kind
}

// IsRegister checks whether this expression is a register reference and, hence,
// whether it can be used as the destination of a write.
func (p Expr) IsRegister() bool {
	return p.kind == REGISTER
}

// Value returns the constant held by a literal expression.  This is
// meaningless for a register reference.
func (p Expr) Value() int64 {
	return p.value
}

// Name returns the register referenced by this expression, or the empty name
// for a literal.
func (p Expr) Name() register.Name {
	return p.reg
}

// Evaluate this expression against a given register set.  This is total: a
// literal yields its value and a register yields its current contents (or 0 if
// never written).
func (p Expr) Evaluate(regs register.Set) int64 {
	if p.kind == LITERAL {
		return p.value
	}
	//
	return regs.Load(p.reg)
}

func (p Expr) String() string {
	if p.kind == LITERAL {
		return strconv.FormatInt(p.value, 10)
	}
	//
	return string(p.reg)
}
