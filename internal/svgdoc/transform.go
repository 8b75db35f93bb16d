/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package svgdoc

import (
	"fmt"
	"strings"

	"svgpatch/internal/vector"
)

// ParseTransform parses an SVG transform list. Later entries apply first,
// so "translate(10) scale(2)" scales and then translates.
func ParseTransform(s string) (vector.Affine2D, error) {
	m := vector.Identity
	sc := &numScanner{s: s}
	for {
		sc.skipSep()
		if sc.pos >= len(sc.s) {
			return m, nil
		}
		start := sc.pos
		for sc.pos < len(sc.s) && isLetter(sc.s[sc.pos]) {
			sc.pos++
		}
		name := sc.s[start:sc.pos]
		sc.skipSpace()
		if name == "" || sc.peek() != '(' {
			return vector.Identity, fmt.Errorf("%w: %q", ErrBadTransform, s)
		}
		sc.pos++
		var args []float64
		for {
			sc.skipSep()
			if sc.peek() == ')' {
				sc.pos++
				break
			}
			v, ok := sc.number()
			if !ok {
				return vector.Identity, fmt.Errorf("%w: %q", ErrBadTransform, s)
			}
			args = append(args, v)
		}
		t, err := transformFunc(name, args)
		if err != nil {
			return vector.Identity, fmt.Errorf("%w: %s", ErrBadTransform, err)
		}
		m = m.Mul(t)
	}
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func transformFunc(name string, a []float64) (vector.Affine2D, error) {
	argc := func(counts ...int) error {
		for _, n := range counts {
			if len(a) == n {
				return nil
			}
		}
		return fmt.Errorf("%s: %d arguments", name, len(a))
	}
	switch strings.ToLower(name) {
	case "matrix":
		if err := argc(6); err != nil {
			return vector.Identity, err
		}
		return vector.Affine2D{A: a[0], B: a[1], C: a[2], D: a[3], E: a[4], F: a[5]}, nil
	case "translate":
		if err := argc(1, 2); err != nil {
			return vector.Identity, err
		}
		if len(a) == 1 {
			return vector.Translate(a[0], 0), nil
		}
		return vector.Translate(a[0], a[1]), nil
	case "scale":
		if err := argc(1, 2); err != nil {
			return vector.Identity, err
		}
		if len(a) == 1 {
			return vector.Scale(a[0], a[0]), nil
		}
		return vector.Scale(a[0], a[1]), nil
	case "rotate":
		if err := argc(1, 3); err != nil {
			return vector.Identity, err
		}
		r := vector.Rotate(vector.Radians(a[0]))
		if len(a) == 1 {
			return r, nil
		}
		return vector.Translate(a[1], a[2]).Mul(r).Mul(vector.Translate(-a[1], -a[2])), nil
	case "skewx":
		if err := argc(1); err != nil {
			return vector.Identity, err
		}
		return vector.SkewX(vector.Radians(a[0])), nil
	case "skewy":
		if err := argc(1); err != nil {
			return vector.Identity, err
		}
		return vector.SkewY(vector.Radians(a[0])), nil
	}
	return vector.Identity, fmt.Errorf("unknown function %q", name)
}
