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
	"testing"
)

func TestPathBuilderCodes(t *testing.T) {
	var p Path
	p.MoveTo(Pt{0, 0})
	p.LineTo(Pt{10, 0})
	p.QuadTo(Pt{10, 5}, Pt{10, 10})
	p.CubicTo(Pt{5, 10}, Pt{0, 10}, Pt{0, 5})
	if !p.Close() {
		t.Fatalf("Close should succeed with vertices present")
	}

	want := []Code{MoveTo, LineTo, Curve3, Curve3, Curve4, Curve4, Curve4, ClosePolygon}
	if len(p.Codes) != len(want) || len(p.Vertices) != len(want) {
		t.Fatalf("unexpected lengths: %d codes, %d vertices", len(p.Codes), len(p.Vertices))
	}
	for i, c := range want {
		if p.Codes[i] != c {
			t.Fatalf("code %d = %v, want %v", i, p.Codes[i], c)
		}
	}
	if last := p.Vertices[len(p.Vertices)-1]; last != (Pt{0, 5}) {
		t.Fatalf("close should repeat the last vertex, got %+v", last)
	}

	cmds, err := p.Commands()
	if err != nil {
		t.Fatalf("Commands: %v", err)
	}
	ops := []PathOp{OpMove, OpLine, OpQuad, OpCubic, OpClose}
	if len(cmds) != len(ops) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(ops))
	}
	for i, op := range ops {
		if cmds[i].Op != op {
			t.Fatalf("command %d = %v, want %v", i, cmds[i].Op, op)
		}
	}
	if cmds[3].Pts[2] != (Pt{0, 5}) {
		t.Fatalf("cubic end mismatch: %+v", cmds[3])
	}

	b := p.Bounds()
	if b.X != 0 || b.Y != 0 || b.W != 10 || b.H != 10 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}

func TestPathCloseOnEmpty(t *testing.T) {
	var p Path
	if p.Close() {
		t.Fatalf("Close on an empty path must report false")
	}
	if p.Len() != 0 {
		t.Fatalf("empty path changed: %+v", p)
	}
}

func TestPathCommandsRejectsMalformed(t *testing.T) {
	cases := map[string]Path{
		"length mismatch": {Vertices: []Pt{{1, 1}}, Codes: []Code{Curve3, Curve3}},
		"unpaired curve3": {Vertices: []Pt{{0, 0}, {1, 1}}, Codes: []Code{MoveTo, Curve3}},
		"short curve4":    {Vertices: []Pt{{0, 0}, {1, 1}, {2, 2}}, Codes: []Code{MoveTo, Curve4, Curve4}},
		"unknown code":    {Vertices: []Pt{{0, 0}}, Codes: []Code{Code(9)}},
	}
	for name, p := range cases {
		if _, err := p.Commands(); !errors.Is(err, ErrMalformedPath) {
			t.Fatalf("%s: expected ErrMalformedPath, got %v", name, err)
		}
	}
}

func TestCodeStringRoundTrip(t *testing.T) {
	for _, c := range []Code{MoveTo, LineTo, Curve3, Curve4, ClosePolygon} {
		got, err := ParseCode(c.String())
		if err != nil || got != c {
			t.Fatalf("ParseCode(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCode("STOP"); err == nil {
		t.Fatalf("expected error for unknown code")
	}
}

func TestPathTransformCopies(t *testing.T) {
	var p Path
	p.MoveTo(Pt{1, 2})
	q := p.Transform(Translate(10, 0))
	if q.Vertices[0] != (Pt{11, 2}) || p.Vertices[0] != (Pt{1, 2}) {
		t.Fatalf("transform should copy: p=%+v q=%+v", p, q)
	}
}
