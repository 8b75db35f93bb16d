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

	"svgpatch/internal/vector"
)

// argCount is the number of values each path command consumes.
var argCount = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

// ParsePathData parses the d attribute of a path into absolute segments in
// the path's own coordinate space.
func ParsePathData(d string) ([]Segment, error) {
	p := pathParser{sc: numScanner{s: d}}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.segs, nil
}

type pathParser struct {
	sc       numScanner
	segs     []Segment
	cur      vector.Pt
	subStart vector.Pt
	// last cubic and quadratic controls, for the smooth variants
	lastCubic *vector.Pt
	lastQuad  *vector.Pt
}

func (p *pathParser) fail(msg string) error {
	return fmt.Errorf("%w: %s at offset %d", ErrBadPathData, msg, p.sc.pos)
}

func (p *pathParser) run() error {
	var cmd byte
	for {
		p.sc.skipSep()
		if p.sc.pos >= len(p.sc.s) {
			return nil
		}
		c := p.sc.peek()
		if isLetter(c) {
			p.sc.pos++
			cmd = c
		} else if cmd == 0 || cmd == 'Z' || cmd == 'z' {
			return p.fail("expected command")
		}
		upper := cmd &^ 0x20
		n, ok := argCount[upper]
		if !ok {
			return p.fail(fmt.Sprintf("unknown command %q", cmd))
		}
		if len(p.segs) == 0 && upper != 'M' {
			return p.fail("path must start with moveto")
		}
		rel := cmd >= 'a'
		if err := p.command(upper, rel, n); err != nil {
			return err
		}
		// a moveto followed by more pairs continues as lineto
		if upper == 'M' {
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		}
	}
}

func (p *pathParser) args(cmd byte, n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		if cmd == 'A' && (i == 3 || i == 4) {
			f, ok := p.sc.flag()
			if !ok {
				return nil, p.fail("expected arc flag")
			}
			if f {
				out[i] = 1
			}
			continue
		}
		v, ok := p.sc.number()
		if !ok {
			return nil, p.fail(fmt.Sprintf("expected number for %c", cmd))
		}
		out[i] = v
	}
	return out, nil
}

func (p *pathParser) point(x, y float64, rel bool) vector.Pt {
	if rel {
		return vector.Pt{X: p.cur.X + x, Y: p.cur.Y + y}
	}
	return vector.Pt{X: x, Y: y}
}

func (p *pathParser) command(cmd byte, rel bool, n int) error {
	if cmd == 'Z' {
		p.segs = append(p.segs, Segment{Kind: SegClose, Start: p.cur, End: p.subStart})
		p.cur = p.subStart
		p.lastCubic, p.lastQuad = nil, nil
		return nil
	}
	a, err := p.args(cmd, n)
	if err != nil {
		return err
	}
	start := p.cur
	var cubic, quad *vector.Pt
	switch cmd {
	case 'M':
		end := p.point(a[0], a[1], rel)
		p.segs = append(p.segs, Segment{Kind: SegMove, Start: start, End: end})
		p.subStart = end
		p.cur = end
	case 'L':
		p.line(p.point(a[0], a[1], rel))
	case 'H':
		x := a[0]
		if rel {
			x += p.cur.X
		}
		p.line(vector.Pt{X: x, Y: p.cur.Y})
	case 'V':
		y := a[0]
		if rel {
			y += p.cur.Y
		}
		p.line(vector.Pt{X: p.cur.X, Y: y})
	case 'C', 'S':
		var c1, c2, end vector.Pt
		if cmd == 'C' {
			c1 = p.point(a[0], a[1], rel)
			c2 = p.point(a[2], a[3], rel)
			end = p.point(a[4], a[5], rel)
		} else {
			c1 = reflect(p.lastCubic, start)
			c2 = p.point(a[0], a[1], rel)
			end = p.point(a[2], a[3], rel)
		}
		p.segs = append(p.segs, Segment{Kind: SegCubic, Start: start, End: end, Control1: &c1, Control2: &c2})
		p.cur = end
		cubic = &c2
	case 'Q', 'T':
		var c, end vector.Pt
		if cmd == 'Q' {
			c = p.point(a[0], a[1], rel)
			end = p.point(a[2], a[3], rel)
		} else {
			c = reflect(p.lastQuad, start)
			end = p.point(a[0], a[1], rel)
		}
		p.segs = append(p.segs, Segment{Kind: SegQuad, Start: start, End: end, Control: &c})
		p.cur = end
		quad = &c
	case 'A':
		end := p.point(a[5], a[6], rel)
		switch {
		case end == start:
			// an arc onto its own start point draws nothing
		case a[0] == 0 || a[1] == 0:
			p.line(end)
		default:
			p.segs = append(p.segs, Segment{
				Kind:  SegArc,
				Start: start,
				End:   end,
				Arc: &ArcParams{
					Start: start, End: end,
					Rx: a[0], Ry: a[1], Rotation: a[2],
					LargeArc: a[3] != 0, Sweep: a[4] != 0,
					Transform: vector.Identity,
				},
			})
			p.cur = end
		}
	}
	p.lastCubic, p.lastQuad = cubic, quad
	return nil
}

func (p *pathParser) line(end vector.Pt) {
	p.segs = append(p.segs, Segment{Kind: SegLine, Start: p.cur, End: end})
	p.cur = end
}

// reflect mirrors the previous control about the current point; without
// one the current point itself is the control.
func reflect(ctrl *vector.Pt, cur vector.Pt) vector.Pt {
	if ctrl == nil {
		return cur
	}
	return vector.Pt{X: 2*cur.X - ctrl.X, Y: 2*cur.Y - ctrl.Y}
}

// transformSegments maps segments into document space. Arcs keep their
// local parameters and record m.
func transformSegments(segs []Segment, m vector.Affine2D) []Segment {
	out := make([]Segment, len(segs))
	for i, s := range segs {
		t := Segment{Kind: s.Kind, Start: m.Apply(s.Start), End: m.Apply(s.End)}
		t.Control = applyOpt(m, s.Control)
		t.Control1 = applyOpt(m, s.Control1)
		t.Control2 = applyOpt(m, s.Control2)
		if s.Arc != nil {
			arc := *s.Arc
			arc.Transform = m.Mul(s.Arc.Transform)
			t.Arc = &arc
		}
		out[i] = t
	}
	return out
}

func applyOpt(m vector.Affine2D, p *vector.Pt) *vector.Pt {
	if p == nil {
		return nil
	}
	q := m.Apply(*p)
	return &q
}
