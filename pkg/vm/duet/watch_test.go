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
package duet

import (
	"testing"

	"github.com/consensys/go-regvm/pkg/util/assert"
)

func Test_Progress_01(t *testing.T) {
	var samples progress
	// The first sample only primes, even when nothing has run yet.
	assert.False(t, samples.stalled([2]uint64{0, 0}))
	assert.True(t, samples.stalled([2]uint64{0, 0}))
}

func Test_Progress_02(t *testing.T) {
	var samples progress
	//
	assert.False(t, samples.stalled([2]uint64{3, 0}))
	assert.False(t, samples.stalled([2]uint64{3, 1}))
	assert.False(t, samples.stalled([2]uint64{4, 1}))
	assert.True(t, samples.stalled([2]uint64{4, 1}))
	// Progress after a stall resets
	assert.False(t, samples.stalled([2]uint64{5, 1}))
}
