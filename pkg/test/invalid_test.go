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
package test

import (
	"testing"

	"github.com/consensys/go-regvm/pkg/test/util"
)

func Test_Invalid_UnknownInstruction(t *testing.T) {
	util.CheckInvalid(t, "invalid/unknown_instruction")
}

func Test_Invalid_Arity(t *testing.T) {
	util.CheckInvalid(t, "invalid/arity")
}

func Test_Invalid_LiteralTarget(t *testing.T) {
	util.CheckInvalid(t, "invalid/literal_target")
}

func Test_Invalid_UnknownText(t *testing.T) {
	util.CheckInvalid(t, "invalid/unknown_text")
}

func Test_Invalid_OutOfRange(t *testing.T) {
	util.CheckInvalid(t, "invalid/out_of_range")
}

func Test_Invalid_UnexpectedToken(t *testing.T) {
	util.CheckInvalid(t, "invalid/unexpected_token")
}

func Test_Invalid_Recovery(t *testing.T) {
	util.CheckInvalid(t, "invalid/recovery")
}
