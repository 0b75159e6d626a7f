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
package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-regvm/pkg/util/source"
)

// Extract the syntax error from a given line in the source file, or return
// false if it does not describe an error.  Expected errors are written as e.g.
// ";;error:2:5-6:expected register", giving the line, the columns (counting
// from 1) and the message.
func extractSyntaxError(lineno int, lines []source.Line, srcfile *source.File) (bool, source.SyntaxError, error) {
	var (
		line     = lines[lineno]
		contents = line.String()
	)
	//
	if strings.HasPrefix(contents, ";;error") {
		line, start, end, msg, err := parseExpectedErrorLine(contents)
		//
		if err == nil {
			span, err := determineFileSpan(line, start, end, lines)
			// Done
			return true, *srcfile.SyntaxError(span, msg), err
		}
		//
		return true, source.SyntaxError{}, err
	}
	// No error
	return false, source.SyntaxError{}, nil
}

func parseExpectedErrorLine(contents string) (line, start, end int, msg string, err error) {
	var splits = strings.Split(contents, ":")
	//
	if len(splits) < 4 {
		return 0, 0, 0, "", fmt.Errorf("malformed expected error \"%s\", should be e.g. \";;error:X:Y-Z:msg\"", contents)
	}
	// Parse line number
	if line, err = strconv.Atoi(splits[1]); err != nil {
		return 0, 0, 0, "", fmt.Errorf("invalid span \"%s:%s\" (%s)", splits[1], splits[2], err.Error())
	} else if line == 0 {
		return 0, 0, 0, "", fmt.Errorf("invalid span \"%s:%s\" (lines numbered from 1)", splits[1], splits[2])
	}
	// Parse split
	if start, end, err = parseExpectedErrorSpan(splits[2]); err != nil {
		return 0, 0, 0, "", err
	}
	//
	msg = strings.Join(splits[3:], ":")
	//
	return line, start, end, msg, nil
}

func parseExpectedErrorSpan(spanStr string) (start, end int, err error) {
	var splits = strings.Split(spanStr, "-")
	//
	if len(splits) != 2 {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (malformed, should be X-Y)", spanStr)
	}
	// Parse span start as integer
	if start, err = strconv.Atoi(splits[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (%s)", spanStr, err.Error())
	} else if start == 0 {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (columns numbered from 1)", spanStr)
	}
	// Parse span end as integer
	if end, err = strconv.Atoi(splits[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (%s)", spanStr, err.Error())
	}
	//
	return start, end, err
}

// Determine the file span corresponding to a given line and column range.
func determineFileSpan(lineno, start, end int, lines []source.Line) (source.Span, error) {
	// Sanity checks
	if lineno > len(lines) {
		return source.Span{}, fmt.Errorf("invalid span \"%d:%d-%d\" (non-existent line)", lineno, start, end)
	}
	//
	line := lines[lineno-1]
	// Column numbering starts from 1.
	start--
	end--
	//
	if start > line.Length() || end > line.Length() || start > end {
		return source.Span{}, fmt.Errorf("invalid span \"%d:%d-%d\" (overflows line)", lineno, start+1, end+1)
	}
	//
	return source.NewSpan(start+line.Start(), end+line.Start()), nil
}
