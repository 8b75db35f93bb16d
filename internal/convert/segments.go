/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package convert

import (
	"svgpatch/internal/svgdoc"
	"svgpatch/internal/vector"
)

// TranslateSegments turns path segments into a vertex and code sequence.
// Arcs become arcSegments cubic pieces each; arcSegments <= 0 picks the
// count from the sweep.
//
// A cubic with fewer than two controls appends whichever points it has, in
// order, with two Curve3 codes. Such a path can have unequal vertex and
// code counts; it is returned as is.
func TranslateSegments(segs []svgdoc.Segment, arcSegments int) (vector.Path, error) {
	var p vector.Path
	for i, s := range segs {
		switch s.Kind {
		case svgdoc.SegMove:
			p.MoveTo(s.End)
		case svgdoc.SegLine:
			p.LineTo(s.End)
		case svgdoc.SegClose:
			if !p.Close() {
				return vector.Path{}, &IndexError{Segment: i, Err: ErrNoCurrentVertex}
			}
		case svgdoc.SegQuad:
			c := s.End
			if s.Control != nil {
				c = *s.Control
			}
			p.QuadTo(c, s.End)
		case svgdoc.SegCubic:
			if s.Control1 != nil && s.Control2 != nil {
				p.CubicTo(*s.Control1, *s.Control2, s.End)
				continue
			}
			var vs []vector.Pt
			if s.Control1 != nil {
				vs = append(vs, *s.Control1)
			}
			if s.Control2 != nil {
				vs = append(vs, *s.Control2)
			}
			p.Append(append(vs, s.End), vector.Curve3, vector.Curve3)
		case svgdoc.SegArc:
			for _, c := range s.ArcCubics(arcSegments) {
				p.CubicTo(c[0], c[1], c[2])
			}
		}
	}
	return p, nil
}
