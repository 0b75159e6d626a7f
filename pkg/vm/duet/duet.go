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
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/machine"
	"github.com/consensys/go-regvm/pkg/vm/program"
	"github.com/consensys/go-regvm/pkg/vm/register"
	log "github.com/sirupsen/logrus"
)

// Detection determines how the coordinator decides that both instances are
// permanently blocked.
type Detection uint8

// SIGNAL detects deadlock precisely, using the blocked / finished status which
// each instance records on the link before suspending.
const SIGNAL Detection = 0

// POLLING detects deadlock by sampling the step counters of both instances on
// every poll interval, and declaring deadlock when neither has advanced.  This
// is sensitive to scheduling delays, and is retained for comparison.
const POLLING Detection = 1

func (p Detection) String() string {
	switch p {
	case SIGNAL:
		return "signal"
	case POLLING:
		return "polling"
	default:
		return fmt.Sprintf("detection(%d)", uint8(p))
	}
}

// ParseDetection converts the name of a detection strategy into its value.
func ParseDetection(name string) (Detection, error) {
	switch name {
	case "signal":
		return SIGNAL, nil
	case "polling":
		return POLLING, nil
	default:
		return SIGNAL, fmt.Errorf("unknown detection strategy \"%s\"", name)
	}
}

// DEFAULT_POLL_INTERVAL is the default interval between watchdog samples.
const DEFAULT_POLL_INTERVAL = 50 * time.Millisecond

// Config determines how a pair of instances is run.
type Config struct {
	// Interval between samples taken by the watchdog.
	PollInterval time.Duration
	// Deadlock detection strategy.
	Detection Detection
	// Register holding the id of each instance (0 or 1).  This is only
	// assigned when not already present in the seed.  If empty, no id
	// register is assigned.
	IdRegister register.Name
	// Number of steps executed between checks of the coordinator state.
	Chunk uint
}

// DefaultConfig returns the default coordinator configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: DEFAULT_POLL_INTERVAL,
		Detection:    SIGNAL,
		IdRegister:   "p",
		Chunk:        machine.DEFAULT_CHUNK,
	}
}

// Result summarises a completed run.
type Result struct {
	// Number of values sent by each instance.
	SendCountA, SendCountB uint64
	// Number of instructions executed by each instance.
	StepsA, StepsB uint64
	// Final register state of each instance.
	RegistersA, RegistersB register.Set
	// True if both instances halted by leaving the program.
	HaltedNormally bool
	// True if the watchdog stopped both instances.
	Deadlocked bool
}

// RunDuet runs two instances of a program against one another using the
// default configuration, except for the given poll interval.
func RunDuet(prog *program.Program, seedA, seedB map[register.Name]int64, pollInterval time.Duration) (Result, error) {
	cfg := DefaultConfig()
	cfg.PollInterval = pollInterval
	//
	return Run(context.Background(), prog, seedA, seedB, cfg)
}

// Run executes two instances (A and B) of a given program concurrently, each
// with its own registers and program counter.  The instances communicate via
// snd / rcv over a crossed pair of unbounded queues.  The run completes when
// both instances have halted, or when the watchdog determines that neither
// can make further progress (in which case both are cancelled at an
// instruction boundary).  Deadlock is reported in the result, rather than as
// an error.  An error is returned if the program cannot be run (e.g. because
// it uses toggling) or if the given context is cancelled.
func Run(ctx context.Context, prog *program.Program, seedA, seedB map[register.Name]int64,
	cfg Config) (Result, error) {
	var (
		link  = NewLink()
		cores [2]*machine.Core
		errs  [2]error
		wg    sync.WaitGroup
		done  = make(chan struct{})
	)
	// Fail fast on malformed programs.
	if err := prog.Validate(instruction.CHANNELS); err != nil {
		return Result{}, err
	}
	//
	cfg = normalise(cfg)
	// Construct instances
	for i, seed := range []map[register.Name]int64{seedA, seedB} {
		cores[i] = machine.New(prog, withId(seed, cfg.IdRegister, i)).WithPort(link.Endpoint(i))
	}
	//
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	// Launch instances
	for i, core := range cores {
		wg.Add(1)
		//
		go func() {
			defer wg.Done()
			// Execute until halted or cancelled
			_, errs[i] = machine.ExecuteAll(runCtx, core, cfg.Chunk)
			link.Finish(i)
		}()
	}
	//
	go func() {
		wg.Wait()
		close(done)
	}()
	// Watch for deadlock
	deadlocked := watch(runCtx, cfg, link, cores, done)
	//
	if deadlocked {
		log.Debugf("deadlock detected after %d / %d steps", cores[0].Steps(), cores[1].Steps())
		cancel()
	}
	//
	<-done
	//
	result := Result{
		SendCountA:     cores[0].Sends(),
		SendCountB:     cores[1].Sends(),
		StepsA:         cores[0].Steps(),
		StepsB:         cores[1].Steps(),
		RegistersA:     cores[0].Registers(),
		RegistersB:     cores[1].Registers(),
		HaltedNormally: !deadlocked && cores[0].Halted() && cores[1].Halted(),
		Deadlocked:     deadlocked,
	}
	//
	if err := ctx.Err(); err != nil {
		return result, err
	}
	// Cancelled instances are expected after deadlock.
	for _, err := range errs {
		if err != nil && !(deadlocked && errors.Is(err, context.Canceled)) {
			return result, err
		}
	}
	//
	return result, nil
}

// Watch both instances until either they both complete (in which case false
// is returned), or they are deadlocked (in which case true is returned).
func watch(ctx context.Context, cfg Config, link *Link, cores [2]*machine.Core, done <-chan struct{}) bool {
	var (
		ticker   = time.NewTicker(cfg.PollInterval)
		samples  progress
		deadlock = link.Deadlock()
	)
	//
	defer ticker.Stop()
	// Polling ignores the link status altogether.
	if cfg.Detection == POLLING {
		deadlock = nil
	}
	//
	for {
		select {
		case <-done:
			return false
		case <-ctx.Done():
			return false
		case <-deadlock:
			return true
		case <-ticker.C:
			now := [2]uint64{cores[0].Steps(), cores[1].Steps()}
			//
			log.Debugf("watchdog: %d / %d steps", now[0], now[1])
			//
			if samples.stalled(now) && cfg.Detection == POLLING && !closed(done) {
				return true
			}
		}
	}
}

// progress records successive samples of the step counters of both instances.
// The first sample is taken on the first tick, rather than at launch, so that
// instances which have not yet been scheduled are not mistaken for stalled.
type progress struct {
	last   [2]uint64
	primed bool
}

// Record a sample, returning true if neither counter moved since the previous
// sample.
func (p *progress) stalled(now [2]uint64) bool {
	stalled := p.primed && now == p.last
	p.last, p.primed = now, true
	//
	return stalled
}

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// Construct the seed for a given instance, including its id register.
func withId(seed map[register.Name]int64, id register.Name, index int) map[register.Name]int64 {
	var regs = maps.Clone(seed)
	//
	if regs == nil {
		regs = make(map[register.Name]int64)
	}
	//
	if _, ok := regs[id]; id != "" && !ok {
		regs[id] = int64(index)
	}
	//
	return regs
}

func normalise(cfg Config) Config {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DEFAULT_POLL_INTERVAL
	}
	//
	if cfg.Chunk == 0 {
		cfg.Chunk = machine.DEFAULT_CHUNK
	}
	//
	return cfg
}
