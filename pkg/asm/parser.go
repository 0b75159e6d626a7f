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
	"fmt"
	"strconv"

	"github.com/consensys/go-regvm/pkg/util/source"
	"github.com/consensys/go-regvm/pkg/util/source/lex"
	"github.com/consensys/go-regvm/pkg/vm/expr"
	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/program"
	"github.com/consensys/go-regvm/pkg/vm/register"
	"go.uber.org/multierr"
)

// Parse accepts a given source file containing one instruction per line, and
// produces the corresponding instruction sequence.  Both dialects (i.e. with
// toggling, or with channels) are accepted, and may be freely mixed.  Whether
// a given program can actually be run is determined later, by validating it
// against the features of the machine which will run it.
func Parse(srcfile *source.File) ([]instruction.Instruction, []source.SyntaxError) {
	return NewParser(srcfile).Parse()
}

// Assemble parses a program from text held in memory, combining any syntax
// errors into a single error.
func Assemble(filename string, text string) (*program.Program, error) {
	var (
		srcfile     = source.NewSourceFile(filename, []byte(text))
		insns, errs = Parse(srcfile)
		err         error
	)
	//
	for i := range errs {
		err = multierr.Append(err, &errs[i])
	}
	//
	if err != nil {
		return nil, err
	}
	//
	return program.Load(insns...), nil
}

// ============================================================================
// Parser
// ============================================================================

// Parser is a parser for program text.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{srcfile, nil, 0}
}

// Parse the given source file into a sequence of zero or more instructions
// and/or some number of syntax errors.  Parsing continues after an erroneous
// line, such that all errors in the file are reported together.
func (p *Parser) Parse() ([]instruction.Instruction, []source.SyntaxError) {
	var (
		insns  []instruction.Instruction
		errors []source.SyntaxError
	)
	// Convert source file into tokens
	if p.tokens, errors = Lex(p.srcfile); len(errors) > 0 {
		return nil, errors
	}
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		// Skip blank lines
		if p.match(NEWLINE) {
			continue
		}
		//
		insn, errs := p.parseInstruction()
		//
		if len(errs) > 0 {
			errors = append(errors, errs...)
			p.skipLine()
		} else {
			insns = append(insns, insn)
		}
	}
	//
	if len(errors) > 0 {
		return nil, errors
	}
	//
	return insns, nil
}

func (p *Parser) parseInstruction() (instruction.Instruction, []source.SyntaxError) {
	var (
		first    = p.index
		operands []lex.Token
	)
	// Parse mnemonic
	mnemonic, errs := p.expect(IDENTIFIER)
	if len(errs) > 0 {
		return instruction.Instruction{}, errs
	}
	//
	shape, ok := shapes[p.string(mnemonic)]
	if !ok {
		return instruction.Instruction{}, p.syntaxErrors(mnemonic, "unknown instruction")
	}
	// Parse operands
	for !p.follows(NEWLINE) && !p.follows(END_OF) {
		lookahead := p.lookahead()
		//
		if lookahead.Kind != NUMBER && lookahead.Kind != IDENTIFIER {
			return instruction.Instruction{}, p.syntaxErrors(lookahead, "unexpected token")
		}
		//
		operands = append(operands, lookahead)
		p.index++
	}
	// Check operand count
	if len(operands) != len(shape.operands) {
		msg := fmt.Sprintf("expected %d operand(s), found %d", len(shape.operands), len(operands))
		span := p.spanOf(first, p.index-1)
		//
		return instruction.Instruction{}, []source.SyntaxError{*p.srcfile.SyntaxError(span, msg)}
	}
	// Translate operands
	args := make([]expr.Expr, len(operands))
	//
	for i, operand := range operands {
		if args[i], errs = p.parseOperand(operand, shape.operands[i]); len(errs) > 0 {
			return instruction.Instruction{}, errs
		}
	}
	//
	return shape.build(args), nil
}

func (p *Parser) parseOperand(token lex.Token, kind operandKind) (expr.Expr, []source.SyntaxError) {
	if token.Kind == IDENTIFIER {
		return expr.Register(register.Name(p.string(token))), nil
	} else if kind == registerOperand {
		return expr.Expr{}, p.syntaxErrors(token, "expected register")
	}
	//
	value, err := strconv.ParseInt(p.string(token), 10, 64)
	if err != nil {
		return expr.Expr{}, p.syntaxErrors(token, "integer literal out of range")
	}
	//
	return expr.Literal(value), nil
}

// Skip all tokens up to (and including) the next newline.
func (p *Parser) skipLine() {
	for !p.follows(END_OF) && !p.match(NEWLINE) {
		p.index++
	}
}

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		errs := p.syntaxErrors(lookahead, "unexpected token")
		return lookahead, errs
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// Follows checks whether the given token kind is next.
func (p *Parser) follows(kind uint) bool {
	return p.lookahead().Kind == kind
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	span := p.tokens[firstToken].Span
	//
	return span.Join(p.tokens[lastToken].Span)
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}
