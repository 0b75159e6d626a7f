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
	"context"
	"time"

	"github.com/consensys/go-regvm/pkg/asm"
	"github.com/consensys/go-regvm/pkg/vm/program"
	"github.com/consensys/go-regvm/pkg/vm/register"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Instance B jumps ahead to receive the value sent by A, whilst A waits for a
// value which never arrives.
const stalledExchange = `
jnz p 4
snd 7
rcv a
jnz 1 -1
rcv b
jnz 1 -1`

// A sends 5 down to 0, with B echoing each nonzero value doubled, and halting
// on zero.  A accumulates the echoed values in s.
const pingPong = `
jnz p 9
set c 5
snd c
rcv x
add s x
add c -1
jnz c -4
snd 0
jnz 1 100
rcv y
jnz y 2
jnz 1 100
mul y 2
snd y
jnz 1 -5`

func assemble(text string) *program.Program {
	prog, err := asm.Assemble("test.asm", text)
	Expect(err).NotTo(HaveOccurred())
	//
	return prog
}

func run(text string, detection Detection) Result {
	cfg := DefaultConfig()
	cfg.PollInterval = 10 * time.Millisecond
	cfg.Detection = detection
	//
	result, err := Run(context.Background(), assemble(text), nil, nil, cfg)
	Expect(err).NotTo(HaveOccurred())
	//
	return result
}

var _ = Describe("Duet", func() {
	Context("Normal halting", func() {
		It("should count sends when both instances halt", func() {
			result := run("snd 1\nsnd p", SIGNAL)
			//
			Expect(result.SendCountA).To(Equal(uint64(2)))
			Expect(result.SendCountB).To(Equal(uint64(2)))
			Expect(result.HaltedNormally).To(BeTrue())
			Expect(result.Deadlocked).To(BeFalse())
		})

		It("should exchange values in order", func() {
			result := run(pingPong, SIGNAL)
			//
			Expect(result.HaltedNormally).To(BeTrue())
			Expect(result.SendCountA).To(Equal(uint64(6)))
			Expect(result.SendCountB).To(Equal(uint64(5)))
			Expect(result.RegistersA.Load("s")).To(Equal(int64(30)))
			Expect(result.RegistersA.Load("c")).To(Equal(int64(0)))
			Expect(result.RegistersB.Load("y")).To(Equal(int64(0)))
		})

		It("should run a program without channel instructions", func() {
			result := run("set a 3\nmul a a\nmod a 5", SIGNAL)
			//
			Expect(result.HaltedNormally).To(BeTrue())
			Expect(result.StepsA).To(Equal(uint64(3)))
			Expect(result.StepsB).To(Equal(uint64(3)))
			Expect(result.RegistersA.Load("a")).To(Equal(int64(4)))
		})

		It("should halt both instances of an empty program", func() {
			result := run("", SIGNAL)
			//
			Expect(result.HaltedNormally).To(BeTrue())
			Expect(result.SendCountA + result.SendCountB).To(BeZero())
		})
	})

	Context("Deadlock", func() {
		It("should detect both instances waiting", func() {
			result := run(stalledExchange, SIGNAL)
			//
			Expect(result.Deadlocked).To(BeTrue())
			Expect(result.HaltedNormally).To(BeFalse())
			Expect(result.SendCountA).To(Equal(uint64(1)))
			Expect(result.SendCountB).To(Equal(uint64(0)))
			Expect(result.RegistersB.Load("b")).To(Equal(int64(7)))
		})

		It("should detect an instance waiting on a halted peer", func() {
			result := run("jnz p 2\nrcv a", SIGNAL)
			//
			Expect(result.Deadlocked).To(BeTrue())
			Expect(result.HaltedNormally).To(BeFalse())
		})

		It("should drain queued values before deadlocking", func() {
			result := run("snd 1\nsnd 2\nsnd p\nrcv a\nrcv b\nrcv c\nrcv d", SIGNAL)
			//
			Expect(result.Deadlocked).To(BeTrue())
			Expect(result.SendCountA).To(Equal(uint64(3)))
			Expect(result.SendCountB).To(Equal(uint64(3)))
			Expect(result.RegistersA.Map()).To(Equal(map[register.Name]int64{"a": 1, "b": 2, "c": 1, "p": 0}))
			Expect(result.RegistersB.Map()).To(Equal(map[register.Name]int64{"a": 1, "b": 2, "c": 0, "p": 1}))
		})

		It("should terminate when both instances receive first", func() {
			var (
				prog    = assemble("rcv a\nsnd 1")
				results = make(chan Result, 1)
			)
			//
			go func() {
				defer GinkgoRecover()
				//
				result, err := RunDuet(prog, nil, nil, 10*time.Millisecond)
				Expect(err).NotTo(HaveOccurred())
				results <- result
			}()
			//
			var result Result
			Eventually(results).WithTimeout(5 * time.Second).Should(Receive(&result))
			Expect(result.Deadlocked).To(BeTrue())
			Expect(result.SendCountA + result.SendCountB).To(BeZero())
		})
	})

	Context("Polling detection", func() {
		It("should detect deadlock once neither instance advances", func() {
			result := run(stalledExchange, POLLING)
			//
			Expect(result.Deadlocked).To(BeTrue())
			Expect(result.HaltedNormally).To(BeFalse())
			Expect(result.SendCountA).To(Equal(uint64(1)))
		})

		It("should not report deadlock when both halt", func() {
			result := run(pingPong, POLLING)
			//
			Expect(result.Deadlocked).To(BeFalse())
			Expect(result.HaltedNormally).To(BeTrue())
		})
	})

	Context("Configuration", func() {
		It("should preserve a seeded id register", func() {
			cfg := DefaultConfig()
			seed := map[register.Name]int64{"p": 42}
			//
			result, err := Run(context.Background(), assemble("snd p"), seed, nil, cfg)
			//
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RegistersA.Load("p")).To(Equal(int64(42)))
			Expect(result.RegistersB.Load("p")).To(Equal(int64(1)))
		})

		It("should use a configured id register", func() {
			cfg := DefaultConfig()
			cfg.IdRegister = "id"
			//
			result, err := Run(context.Background(), assemble("snd id"), nil, nil, cfg)
			//
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RegistersB.Load("id")).To(Equal(int64(1)))
			Expect(result.RegistersB.Load("p")).To(BeZero())
		})

		It("should not modify the given seeds", func() {
			seed := map[register.Name]int64{"a": 1}
			//
			_, err := RunDuet(assemble("inc a"), seed, seed, DEFAULT_POLL_INTERVAL)
			//
			Expect(err).NotTo(HaveOccurred())
			Expect(seed).To(Equal(map[register.Name]int64{"a": 1}))
		})

		It("should parse detection strategies", func() {
			for _, d := range []Detection{SIGNAL, POLLING} {
				parsed, err := ParseDetection(d.String())
				Expect(err).NotTo(HaveOccurred())
				Expect(parsed).To(Equal(d))
			}
			//
			_, err := ParseDetection("psychic")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("Errors", func() {
		It("should reject programs which toggle", func() {
			_, err := RunDuet(assemble("tgl 1\nsnd 1"), nil, nil, DEFAULT_POLL_INTERVAL)
			//
			Expect(err).To(HaveOccurred())
		})

		It("should stop when the context expires", func() {
			var (
				cfg         = DefaultConfig()
				ctx, cancel = context.WithTimeout(context.Background(), 50*time.Millisecond)
			)
			//
			defer cancel()
			//
			result, err := Run(ctx, assemble("jnz 1 0"), nil, nil, cfg)
			//
			Expect(err).To(MatchError(context.DeadlineExceeded))
			Expect(result.Deadlocked).To(BeFalse())
			Expect(result.HaltedNormally).To(BeFalse())
		})
	})
})
