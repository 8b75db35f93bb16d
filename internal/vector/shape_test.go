/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestCircleOutlineAndBounds(t *testing.T) {
	c := NewCircle("c1", Pt{5, 5}, 3, DefaultStyle())
	if c.Kind() != KindCircle || c.ID() != "c1" || c.Radius() != 3 || c.Center() != (Pt{5, 5}) {
		t.Fatalf("unexpected circle: %+v", c)
	}
	b := c.Bounds()
	if b != R(2, 2, 6, 6) {
		t.Fatalf("unexpected bounds: %+v", b)
	}
	o := c.Outline()
	cmds, err := o.Commands()
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	if len(cmds) != 6 || cmds[0].Op != OpMove || cmds[5].Op != OpClose {
		t.Fatalf("unexpected outline commands: %+v", cmds)
	}
	// every on-curve point lies on the circle
	for _, cmd := range cmds[1:5] {
		if d := cmd.Pts[2].Sub(Pt{5, 5}).Len(); math.Abs(d-3) > 1e-9 {
			t.Fatalf("segment end off circle: %v", d)
		}
	}
}

func TestEllipseRotatedBounds(t *testing.T) {
	e := NewEllipse("", Pt{0, 0}, 4, 2, 90, DefaultStyle())
	b := e.Bounds()
	if !near(b.W, 2) || !near(b.H, 4) {
		t.Fatalf("90 degree rotation should swap extents: %+v", b)
	}
	if e.Width() != 4 || e.Height() != 2 || e.Angle() != 90 {
		t.Fatalf("descriptor changed: %+v", e)
	}
}

func TestPolygonOutlineClosedAndOpen(t *testing.T) {
	pts := []Pt{{0, 0}, {4, 0}, {4, 3}}
	closed := NewPolygon("p", pts, true, DefaultStyle())
	open := NewPolygon("l", pts, false, DefaultStyle())

	if got := closed.Outline().Codes; len(got) != 4 || got[3] != ClosePolygon {
		t.Fatalf("closed outline codes: %v", got)
	}
	if got := open.Outline().Codes; len(got) != 3 || got[2] != LineTo {
		t.Fatalf("open outline codes: %v", got)
	}
	pts[0] = Pt{99, 99}
	if closed.Points()[0] != (Pt{0, 0}) {
		t.Fatalf("polygon must copy its points")
	}
	if b := closed.Bounds(); b != R(0, 0, 4, 3) {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}

func TestRectangleRotatesAboutOrigin(t *testing.T) {
	r := NewRectangle("r", Pt{10, 10}, 4, 2, 90, DefaultStyle())
	o := r.Outline()
	if !o.Vertices[0].Eq(Pt{10, 10}, 1e-9) {
		t.Fatalf("origin corner moved: %+v", o.Vertices[0])
	}
	if !o.Vertices[1].Eq(Pt{10, 14}, 1e-9) {
		t.Fatalf("width edge should point down after 90 degrees: %+v", o.Vertices[1])
	}
	b := r.Bounds()
	if !near(b.X, 8) || !near(b.Y, 10) || !near(b.W, 2) || !near(b.H, 4) {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}

func TestPathPatchIsImmutable(t *testing.T) {
	var p Path
	p.MoveTo(Pt{0, 0})
	p.LineTo(Pt{1, 1})
	st := DefaultStyle()
	st.Dash = DashPattern(1, 5, 2)
	pp := NewPathPatch("x", p, st)

	p.Vertices[1] = Pt{50, 50}
	st.Dash.Lengths[0] = 42
	if pp.Path().Vertices[1] != (Pt{1, 1}) {
		t.Fatalf("path patch shares vertices with caller")
	}
	if pp.Style().Dash.Lengths[0] != 5 {
		t.Fatalf("path patch shares dash lengths with caller")
	}
	got := pp.Path()
	got.Vertices[0] = Pt{7, 7}
	if pp.Path().Vertices[0] != (Pt{0, 0}) {
		t.Fatalf("Path() must return a copy")
	}
}
