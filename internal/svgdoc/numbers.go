/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package svgdoc

import (
	"strconv"
)

// numScanner reads SVG number lists: separators are whitespace and commas,
// and numbers may abut ("1.5.5", "-1-2", "1e-3-4").
type numScanner struct {
	s   string
	pos int
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (sc *numScanner) skipSep() {
	for sc.pos < len(sc.s) && (isSpace(sc.s[sc.pos]) || sc.s[sc.pos] == ',') {
		sc.pos++
	}
}

func (sc *numScanner) skipSpace() {
	for sc.pos < len(sc.s) && isSpace(sc.s[sc.pos]) {
		sc.pos++
	}
}

func (sc *numScanner) done() bool {
	sc.skipSep()
	return sc.pos >= len(sc.s)
}

func (sc *numScanner) peek() byte {
	if sc.pos >= len(sc.s) {
		return 0
	}
	return sc.s[sc.pos]
}

// atNumber reports whether a number starts at the next non-separator.
func (sc *numScanner) atNumber() bool {
	sc.skipSep()
	c := sc.peek()
	return isDigit(c) || c == '.' || c == '-' || c == '+'
}

func (sc *numScanner) number() (float64, bool) {
	sc.skipSep()
	start := sc.pos
	i := sc.pos
	if i < len(sc.s) && (sc.s[i] == '+' || sc.s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(sc.s) && isDigit(sc.s[i]) {
		i++
		digits++
	}
	if i < len(sc.s) && sc.s[i] == '.' {
		i++
		for i < len(sc.s) && isDigit(sc.s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	if i < len(sc.s) && (sc.s[i] == 'e' || sc.s[i] == 'E') {
		j := i + 1
		if j < len(sc.s) && (sc.s[j] == '+' || sc.s[j] == '-') {
			j++
		}
		if j < len(sc.s) && isDigit(sc.s[j]) {
			for j < len(sc.s) && isDigit(sc.s[j]) {
				j++
			}
			i = j
		}
	}
	v, err := strconv.ParseFloat(sc.s[start:i], 64)
	if err != nil {
		return 0, false
	}
	sc.pos = i
	return v, true
}

// flag reads a single arc flag character, which may abut the next value.
func (sc *numScanner) flag() (bool, bool) {
	sc.skipSep()
	switch sc.peek() {
	case '0':
		sc.pos++
		return false, true
	case '1':
		sc.pos++
		return true, true
	}
	return false, false
}

// numbers reads every remaining number; ok is false on trailing garbage.
func (sc *numScanner) numbers() ([]float64, bool) {
	var out []float64
	for !sc.done() {
		v, ok := sc.number()
		if !ok {
			return out, false
		}
		out = append(out, v)
	}
	return out, true
}

// ParseNumbers splits a points or dash list into floats.
func ParseNumbers(s string) ([]float64, error) {
	sc := &numScanner{s: s}
	out, ok := sc.numbers()
	if !ok {
		return nil, &strconv.NumError{Func: "ParseNumbers", Num: s, Err: strconv.ErrSyntax}
	}
	return out, nil
}
