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
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/consensys/go-regvm/pkg/vm/duet"
	"github.com/consensys/go-regvm/pkg/vm/register"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// Config represents the contents of a run configuration file, such as:
//
//	chunk = 4096
//
//	[registers]
//	a = 7
//
//	[duet]
//	poll-interval = "20ms"
//	detection = "polling"
//	id-register = "p"
//
//	[duet.a]
//	x = 1
//
// Values given on the command line take precedence over those in the file.
type Config struct {
	// Number of steps executed between checks of the run state.
	Chunk uint `toml:"chunk"`
	// Initial registers for a single run.
	Registers map[string]int64 `toml:"registers"`
	// Configuration for a dual run.
	Duet DuetConfig `toml:"duet"`
}

// DuetConfig represents the [duet] table of a configuration file.
type DuetConfig struct {
	PollInterval string           `toml:"poll-interval"`
	Detection    string           `toml:"detection"`
	IdRegister   *string          `toml:"id-register"`
	A            map[string]int64 `toml:"a"`
	B            map[string]int64 `toml:"b"`
}

// ReadConfigFile reads a run configuration from a given TOML file.  Keys which
// are not recognised are reported, but are otherwise ignored.
func ReadConfigFile(filename string) (Config, error) {
	var cfg Config
	//
	md, err := toml.DecodeFile(filename, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", filename, err)
	}
	//
	for _, key := range md.Undecoded() {
		log.Warnf("%s: ignoring unknown key \"%s\"", filename, key.String())
	}
	//
	return cfg, nil
}

// Load the configuration file given on the command line (if any), or exit if
// it cannot be read.
func loadConfig(cmd *cobra.Command) Config {
	var filename = GetString(cmd, "config")
	//
	if filename == "" {
		return Config{}
	}
	//
	cfg, err := ReadConfigFile(filename)
	if err != nil {
		fmt.Println(err)
		atexit.Exit(2)
	}
	//
	return cfg
}

// ParseConfig reads a run configuration from a given TOML string.
func ParseConfig(text string) (Config, error) {
	var cfg Config
	//
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, err
	}
	//
	return cfg, nil
}

// Seed returns the initial registers for a single run.
func (p *Config) Seed() map[register.Name]int64 {
	return toSeed(p.Registers)
}

// DuetSeeds returns the initial registers for each instance of a dual run.
func (p *Config) DuetSeeds() (map[register.Name]int64, map[register.Name]int64) {
	return toSeed(p.Duet.A), toSeed(p.Duet.B)
}

// DuetConfig returns the coordinator configuration described by this file,
// starting from the defaults.
func (p *Config) DuetConfig() (duet.Config, error) {
	var (
		cfg = duet.DefaultConfig()
		err error
	)
	//
	if p.Chunk != 0 {
		cfg.Chunk = p.Chunk
	}
	//
	if p.Duet.PollInterval != "" {
		if cfg.PollInterval, err = time.ParseDuration(p.Duet.PollInterval); err != nil {
			return cfg, fmt.Errorf("invalid poll-interval: %w", err)
		} else if cfg.PollInterval <= 0 {
			return cfg, fmt.Errorf("invalid poll-interval \"%s\"", p.Duet.PollInterval)
		}
	}
	//
	if p.Duet.Detection != "" {
		if cfg.Detection, err = duet.ParseDetection(p.Duet.Detection); err != nil {
			return cfg, err
		}
	}
	//
	if p.Duet.IdRegister != nil {
		cfg.IdRegister = register.Name(*p.Duet.IdRegister)
	}
	//
	return cfg, nil
}

func toSeed(values map[string]int64) map[register.Name]int64 {
	var seed = make(map[register.Name]int64, len(values))
	//
	for k, v := range values {
		seed[register.Name(k)] = v
	}
	//
	return seed
}
