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
package termio

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// TERM_RED represents red
const TERM_RED = uint(1)

// TERM_GREEN represents green
const TERM_GREEN = uint(2)

// TERM_YELLOW represents yellow
const TERM_YELLOW = uint(3)

// TERM_BLUE represents blue
const TERM_BLUE = uint(4)

// TERM_CYAN represents cyan
const TERM_CYAN = uint(6)

// AnsiEscape represents an ANSI "select graphic rendition" escape, used for
// formatting text in a terminal.  This is built up from zero or more
// parameters, such as colours or text styles.
type AnsiEscape struct {
	params []uint
}

// NewAnsiEscape constructs an empty escape
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{nil}
}

// Bold returns this escape with bold text enabled.
func (p AnsiEscape) Bold() AnsiEscape {
	return p.with(1)
}

// FgColour sets the foreground colour
func (p AnsiEscape) FgColour(col uint) AnsiEscape {
	return p.with(30 + col)
}

// BgColour sets the background colour
func (p AnsiEscape) BgColour(col uint) AnsiEscape {
	return p.with(40 + col)
}

// Build constructs the final escape
func (p AnsiEscape) Build() string {
	var params = make([]string, len(p.params))
	//
	for i, param := range p.params {
		params[i] = fmt.Sprintf("%d", param)
	}
	//
	return fmt.Sprintf("\033[%sm", strings.Join(params, ";"))
}

// Wrap surrounds a given piece of text with this escape, followed by a reset.
func (p AnsiEscape) Wrap(text string) string {
	return p.Build() + text + RESET
}

// RESET is the escape which restores default formatting.
const RESET = "\033[0m"

func (p AnsiEscape) with(param uint) AnsiEscape {
	var params = make([]uint, len(p.params), len(p.params)+1)
	//
	copy(params, p.params)
	//
	return AnsiEscape{append(params, param)}
}

// IsTerminal checks whether a given file is attached to a terminal, and hence
// whether or not escapes should be used when writing to it.
func IsTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}
