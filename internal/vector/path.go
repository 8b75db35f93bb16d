/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"errors"
	"fmt"
)

// Code is a per-vertex path code. Values match the numeric codes used by
// common plotting libraries so serialized paths can be fed to them directly.
type Code uint8

const (
	MoveTo       Code = 1
	LineTo       Code = 2
	Curve3       Code = 3 // quadratic Bezier: control, end
	Curve4       Code = 4 // cubic Bezier: control1, control2, end
	ClosePolygon Code = 79
)

func (c Code) String() string {
	switch c {
	case MoveTo:
		return "MOVETO"
	case LineTo:
		return "LINETO"
	case Curve3:
		return "CURVE3"
	case Curve4:
		return "CURVE4"
	case ClosePolygon:
		return "CLOSEPOLY"
	default:
		return fmt.Sprintf("Code(%d)", uint8(c))
	}
}

// ParseCode is the inverse of Code.String.
func ParseCode(s string) (Code, error) {
	switch s {
	case "MOVETO":
		return MoveTo, nil
	case "LINETO":
		return LineTo, nil
	case "CURVE3":
		return Curve3, nil
	case "CURVE4":
		return Curve4, nil
	case "CLOSEPOLY":
		return ClosePolygon, nil
	}
	return 0, fmt.Errorf("unknown path code %q", s)
}

// Path is a vertex list with one code per emitted vertex. Vertices and Codes
// are kept as separate slices; builders keep them the same length, but a
// path assembled by hand may not, and Commands reports that.
type Path struct {
	Vertices []Pt
	Codes    []Code
}

// Append adds raw vertices and codes without any pairing checks.
func (p *Path) Append(vs []Pt, cs ...Code) {
	p.Vertices = append(p.Vertices, vs...)
	p.Codes = append(p.Codes, cs...)
}

func (p *Path) MoveTo(pt Pt) { p.Append([]Pt{pt}, MoveTo) }
func (p *Path) LineTo(pt Pt) { p.Append([]Pt{pt}, LineTo) }

func (p *Path) QuadTo(c, pt Pt) { p.Append([]Pt{c, pt}, Curve3, Curve3) }

func (p *Path) CubicTo(c1, c2, pt Pt) { p.Append([]Pt{c1, c2, pt}, Curve4, Curve4, Curve4) }

// Close repeats the last vertex with a ClosePolygon code. It reports false
// and leaves p unchanged when there is no vertex yet.
func (p *Path) Close() bool {
	last, ok := p.Last()
	if !ok {
		return false
	}
	p.Append([]Pt{last}, ClosePolygon)
	return true
}

// Last returns the most recently appended vertex.
func (p Path) Last() (Pt, bool) {
	if len(p.Vertices) == 0 {
		return Pt{}, false
	}
	return p.Vertices[len(p.Vertices)-1], true
}

func (p Path) Len() int { return len(p.Codes) }

// Transform returns a copy of p with every vertex mapped through m.
func (p Path) Transform(m Affine2D) Path {
	out := Path{Vertices: make([]Pt, len(p.Vertices)), Codes: append([]Code(nil), p.Codes...)}
	for i, v := range p.Vertices {
		out.Vertices[i] = m.Apply(v)
	}
	return out
}

// Bounds returns the bounding box of all vertices, control points included.
// It is a superset of the true curve extent.
func (p Path) Bounds() Rect {
	var b bounds
	for _, v := range p.Vertices {
		b.add(v)
	}
	return b.rect()
}

// PathOp is one drawing instruction reassembled from codes.
type PathOp uint8

const (
	OpMove PathOp = iota
	OpLine
	OpQuad  // Pts[0] control, Pts[1] end
	OpCubic // Pts[0], Pts[1] controls, Pts[2] end
	OpClose
)

type PathCmd struct {
	Op  PathOp
	Pts [3]Pt // unused slots are zero
}

var ErrMalformedPath = errors.New("malformed path")

// Commands groups the codes into drawing commands: a run of two Curve3 codes
// is one quadratic, three Curve4 codes one cubic.
func (p Path) Commands() ([]PathCmd, error) {
	if len(p.Vertices) != len(p.Codes) {
		return nil, fmt.Errorf("%w: %d vertices for %d codes", ErrMalformedPath, len(p.Vertices), len(p.Codes))
	}
	cmds := make([]PathCmd, 0, len(p.Codes))
	for i := 0; i < len(p.Codes); {
		switch c := p.Codes[i]; c {
		case MoveTo:
			cmds = append(cmds, PathCmd{Op: OpMove, Pts: [3]Pt{p.Vertices[i]}})
			i++
		case LineTo:
			cmds = append(cmds, PathCmd{Op: OpLine, Pts: [3]Pt{p.Vertices[i]}})
			i++
		case Curve3:
			if i+1 >= len(p.Codes) || p.Codes[i+1] != Curve3 {
				return nil, fmt.Errorf("%w: unpaired CURVE3 at %d", ErrMalformedPath, i)
			}
			cmds = append(cmds, PathCmd{Op: OpQuad, Pts: [3]Pt{p.Vertices[i], p.Vertices[i+1]}})
			i += 2
		case Curve4:
			if i+2 >= len(p.Codes) || p.Codes[i+1] != Curve4 || p.Codes[i+2] != Curve4 {
				return nil, fmt.Errorf("%w: incomplete CURVE4 at %d", ErrMalformedPath, i)
			}
			cmds = append(cmds, PathCmd{Op: OpCubic, Pts: [3]Pt{p.Vertices[i], p.Vertices[i+1], p.Vertices[i+2]}})
			i += 3
		case ClosePolygon:
			cmds = append(cmds, PathCmd{Op: OpClose})
			i++
		default:
			return nil, fmt.Errorf("%w: %v at %d", ErrMalformedPath, c, i)
		}
	}
	return cmds, nil
}
