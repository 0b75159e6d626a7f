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
package asm

import (
	"github.com/consensys/go-regvm/pkg/util/source"
	"github.com/consensys/go-regvm/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace (other than a newline)
const WHITESPACE uint = 1

// COMMENT signals "# ... \n" or ";; ... \n"
const COMMENT uint = 2

// NEWLINE signals the end of an instruction
const NEWLINE uint = 3

// COMMA signals an (optional) operand separator
const COMMA uint = 4

// NUMBER signals an integer literal, which may be negative
const NUMBER uint = 10

// IDENTIFIER signals a mnemonic or a register name
const IDENTIFIER uint = 20

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r')))

// Rule for describing numbers
var (
	digits = lex.And(lex.Within('0', '9'), lex.Many(lex.Within('0', '9')))
	number = lex.Or(lex.Sequence(lex.Unit('-'), digits), digits)
)

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing identifiers
var identifier lex.Scanner[rune] = lex.And(identifierStart, identifierRest)

// Comments start with '#' or ';;' and continue until a newline or EOF.
var comment lex.Scanner[rune] = lex.And(
	lex.Or(lex.Unit('#'), lex.Unit(';', ';')),
	lex.Until('\n'))

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('\n'), NEWLINE),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(number, NUMBER),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, along with
// any syntax errors arising.  Whitespace, commas and comments are discarded,
// but newlines are retained since they terminate instructions.
func Lex(srcfile *source.File) ([]lex.Token, []source.SyntaxError) {
	var (
		lexer = lex.NewLexer(srcfile.Contents(), rules...)
		// Lex as many tokens as possible
		tokens = lexer.Collect(WHITESPACE, COMMA, COMMENT)
	)
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		start := lexer.Index()
		err := srcfile.SyntaxError(source.NewSpan(int(start), int(start)+1), "unknown text encountered")
		// errors
		return nil, []source.SyntaxError{*err}
	}
	// Done
	return tokens, nil
}
